package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gamePlayService interface {
	NewGame(ctx context.Context) (*entity.Game, error)
	SubmitHumanMove(ctx context.Context, gameID string, col, row int) (*entity.Game, error)
	CurrentState(ctx context.Context, gameID string) (*entity.Game, error)
}

type Server struct {
	logger   *slog.Logger
	gamePlay gamePlayService
	router   chi.Router
}

func New(logger *slog.Logger, gamePlay gamePlayService) *Server {
	server := &Server{
		logger:   logger.With("component", "rest"),
		gamePlay: gamePlay,
		router:   chi.NewRouter(),
	}

	server.router.Use(middleware.RequestID)
	server.router.Use(middleware.Recoverer)

	server.router.Get("/ping", pingHandler)
	server.router.Route("/games", func(r chi.Router) {
		r.Post("/", server.createGame)
		r.Get("/{gameID}", server.getGame)
		r.Post("/{gameID}/moves", server.submitMove)
	})

	return server
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// Start - serves until ctx is done, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

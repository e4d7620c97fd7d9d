package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

type GamePlayService interface {
	NewGame(ctx context.Context) (*entity.Game, error)
	SubmitHumanMove(ctx context.Context, gameID string, col, row int) (*entity.Game, error)
	CurrentState(ctx context.Context, gameID string) (*entity.Game, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
}

type gamePlayService struct {
	logger *slog.Logger

	gameRepo gameRepo
	// newController - a fresh turn state machine per request.
	newController func() *tictactoe.GameController

	// mu keeps load-play-save of a game from interleaving with another request.
	mu sync.Mutex
}

func NewGamePlayService(logger *slog.Logger, gameRepo gameRepo, newController func() *tictactoe.GameController) GamePlayService {
	return &gamePlayService{
		logger:        logger.With("component", "gameplay"),
		gameRepo:      gameRepo,
		newController: newController,
	}
}

func (that *gamePlayService) NewGame(ctx context.Context) (*entity.Game, error) {
	game := that.newController().NewGame(uuid.NewString())

	if err := that.gameRepo.CreateOrUpdate(ctx, &game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID, "state", game.State)

	return &game, nil
}

// SubmitHumanMove - on a rejected move the unchanged game is returned with the error.
func (that *gamePlayService) SubmitHumanMove(ctx context.Context, gameID string, col, row int) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	controller := that.newController()
	if err = controller.Restore(stored); err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	game, err := controller.SubmitHumanMove(col, row)
	if err != nil {
		return &game, fmt.Errorf("failed to make turn: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, &game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return &game, nil
}

func (that *gamePlayService) CurrentState(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

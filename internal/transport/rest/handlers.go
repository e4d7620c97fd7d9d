package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type moveRequest struct {
	Col *int `json:"col"`
	Row *int `json:"row"`
}

type errorResponse struct {
	Error string       `json:"error"`
	Game  *entity.Game `json:"game,omitempty"`
}

func pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *Server) createGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gamePlay.NewGame(r.Context())
	if err != nil {
		that.writeError(w, r, err, nil)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *Server) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gamePlay.CurrentState(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		that.writeError(w, r, err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Server) submitMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Col == nil || req.Row == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: `body must be {"col": int, "row": int}`})
		return
	}

	game, err := that.gamePlay.SubmitHumanMove(r.Context(), chi.URLParam(r, "gameID"), *req.Col, *req.Row)
	if err != nil {
		that.writeError(w, r, err, game)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

// writeError - game, when not nil, is the unchanged game after a rejected move.
func (that *Server) writeError(w http.ResponseWriter, r *http.Request, err error, game *entity.Game) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: message, Game: game})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrCellOccupied):
		return http.StatusBadRequest, "Please choose an empty cell."
	case errors.Is(err, apperror.ErrInvalidCell):
		return http.StatusBadRequest, "Cell is outside the board."
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound, apperror.ErrGameNotFound.Error()
	case errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict, apperror.ErrGameFinished.Error()
	case errors.Is(err, apperror.ErrNotYourTurn):
		return http.StatusConflict, apperror.ErrNotYourTurn.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

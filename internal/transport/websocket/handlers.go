package websocket

import (
	"context"
	"errors"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

func (that *Server) handleNewGame(ctx context.Context, _ *RequestPayload, conn *websocket.Conn) error {
	game, err := that.gamePlay.NewGame(ctx)
	if err != nil {
		that.logger.Error("failed to create game", "error", err)
		return sendErrorResponse(conn, "failed to create a new game", nil)
	}

	return sendMessage(conn, actionState, ResponsePayload{Game: game})
}

func (that *Server) handleMove(ctx context.Context, payload *RequestPayload, conn *websocket.Conn) error {
	if payload.GameID == "" || payload.Col == nil || payload.Row == nil {
		return sendErrorResponse(conn, "game_id, col and row are required", nil)
	}

	game, err := that.gamePlay.SubmitHumanMove(ctx, payload.GameID, *payload.Col, *payload.Row)
	if err != nil {
		return that.replyError(conn, err, game)
	}

	return sendMessage(conn, actionState, ResponsePayload{Game: game})
}

func (that *Server) handleState(ctx context.Context, payload *RequestPayload, conn *websocket.Conn) error {
	if payload.GameID == "" {
		return sendErrorResponse(conn, "game_id is required", nil)
	}

	game, err := that.gamePlay.CurrentState(ctx, payload.GameID)
	if err != nil {
		return that.replyError(conn, err, nil)
	}

	return sendMessage(conn, actionState, ResponsePayload{Game: game})
}

// replyError - turns a game error into a message the player can act on.
func (that *Server) replyError(conn *websocket.Conn, err error, game *entity.Game) error {
	var message string

	switch {
	case errors.Is(err, apperror.ErrCellOccupied):
		message = "Please choose an empty cell."
	case errors.Is(err, apperror.ErrInvalidCell):
		message = "Cell is outside the board."
	case errors.Is(err, apperror.ErrGameNotFound):
		message = apperror.ErrGameNotFound.Error()
	case errors.Is(err, apperror.ErrGameFinished):
		message = apperror.ErrGameFinished.Error()
	case errors.Is(err, apperror.ErrNotYourTurn):
		message = apperror.ErrNotYourTurn.Error()
	default:
		that.logger.Error("failed to process message", "error", err)
		message = "internal error"
	}

	return sendErrorResponse(conn, message, game)
}

package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const (
	actionNewGame = "game:new"
	actionMove    = "game:move"
	actionState   = "game:state"
	actionError   = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	GameID string `json:"game_id"`
	Col    *int   `json:"col,omitempty"`
	Row    *int   `json:"row,omitempty"`
}

type ResponsePayload struct {
	Game    *entity.Game `json:"game,omitempty"`
	Message string       `json:"message,omitempty"`
}

func sendMessage(conn *websocket.Conn, action string, payload ResponsePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = conn.WriteJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func sendErrorResponse(conn *websocket.Conn, message string, game *entity.Game) error {
	return sendMessage(conn, actionError, ResponsePayload{Game: game, Message: message})
}

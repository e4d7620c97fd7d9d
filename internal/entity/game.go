package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

// State - the Turn Coordinator state of a game.
type State string

const (
	StateAwaitingHumanMove State = "awaiting_human_move"
	StateComputerThinking  State = "computer_thinking"
	StateGameOver          State = "game_over"
)

var (
	ErrUnknownGameState = errors.New("unknown game state")
	ErrUnknownMark      = errors.New("unknown mark")
	ErrMalformedBoard   = errors.New("board must have 3 rows of 3 cells")
)

// Game - a snapshot of one game, as stored and as rendered.
type Game struct {
	ID               string `json:"id"`
	Board            Board  `json:"board"`
	State            State  `json:"state"`
	LastComputerMove *Move  `json:"last_computer_move,omitempty"`
}

type gameJSON struct {
	ID               string     `json:"id"`
	Board            Board      `json:"board"`
	State            State      `json:"state"`
	Result           GameResult `json:"result"`
	LastComputerMove *Move      `json:"last_computer_move,omitempty"`
}

// Result - always recomputed from the board.
func (that *Game) Result() GameResult {
	return that.Board.Result()
}

func (that *Game) IsOver() bool {
	return that.State == StateGameOver
}

func (that *Game) ValidateState() error {
	switch that.State {
	case StateAwaitingHumanMove, StateComputerThinking, StateGameOver:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGameState, that.State)
	}
}

func (that Game) MarshalJSON() ([]byte, error) {
	return json.Marshal(gameJSON{
		ID:               that.ID,
		Board:            that.Board,
		State:            that.State,
		Result:           that.Result(),
		LastComputerMove: that.LastComputerMove,
	})
}

func (that *Game) UnmarshalJSON(data []byte) error {
	var raw gameJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	that.ID = raw.ID
	that.Board = raw.Board
	that.State = raw.State
	that.LastComputerMove = raw.LastComputerMove

	return nil
}

// MarshalJSON - rows of marks: "X" human, "O" computer, "" empty.
func (that Board) MarshalJSON() ([]byte, error) {
	rows := that.Rows()
	return json.Marshal(rows)
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var rows [][]string
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("board: %w", err)
	}

	if len(rows) != BoardSize {
		return ErrMalformedBoard
	}

	var board Board
	for row, marks := range rows {
		if len(marks) != BoardSize {
			return ErrMalformedBoard
		}

		for col, mark := range marks {
			cell, err := cellFromMark(mark)
			if err != nil {
				return err
			}
			board[row*BoardSize+col] = cell
		}
	}

	*that = board

	return nil
}

func cellFromMark(mark string) (Cell, error) {
	switch mark {
	case "":
		return Empty, nil
	case Human.Mark():
		return Human, nil
	case Computer.Mark():
		return Computer, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrUnknownMark, mark)
	}
}

package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrGameFinished = errors.New("game is already finished")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrInvalidCell  = errors.New("invalid cell")
	ErrGameNotFound = errors.New("game not found")
)

// IllegalMoveError - the human picked an occupied cell. The board is left untouched.
type IllegalMoveError struct {
	Col int
	Row int
}

func (that *IllegalMoveError) Error() string {
	return fmt.Sprintf("cell (%d,%d) is already occupied", that.Col, that.Row)
}

func (that *IllegalMoveError) Unwrap() error {
	return ErrCellOccupied
}

// InvariantViolation - panic value for programming errors: off-board coordinates, searching a finished board.
type InvariantViolation string

func (that InvariantViolation) Error() string {
	return "invariant violation: " + string(that)
}

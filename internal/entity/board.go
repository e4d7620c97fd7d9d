package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

const BoardSize = 3

// Cell - the content of one square.
type Cell int8

const (
	Empty    Cell = 0
	Human    Cell = -1
	Computer Cell = 1
)

// WinCombos - the 8 winning lines as row-major indexes: 3 rows, 3 columns, 2 diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Opponent - returns the side that moves after c.
func (c Cell) Opponent() Cell {
	switch c {
	case Human:
		return Computer
	case Computer:
		return Human
	default:
		return Empty
	}
}

// Mark - the symbol shown to the player.
func (c Cell) Mark() string {
	switch c {
	case Human:
		return "X"
	case Computer:
		return "O"
	default:
		return ""
	}
}

func (c Cell) String() string {
	switch c {
	case Human:
		return "human"
	case Computer:
		return "computer"
	default:
		return "empty"
	}
}

// Move - a (column, row) coordinate.
type Move struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// NoMove - returned by search when there is nothing to play.
var NoMove = Move{Col: -1, Row: -1}

func (m Move) InRange() bool {
	return m.Col >= 0 && m.Col < BoardSize && m.Row >= 0 && m.Row < BoardSize
}

func (m Move) index() int {
	if !m.InRange() {
		panic(apperror.InvariantViolation(fmt.Sprintf("move (%d,%d) is off the board", m.Col, m.Row)))
	}
	return m.Row*BoardSize + m.Col
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Col, m.Row)
}

// Board - 3x3 grid stored row-major.
type Board [BoardSize * BoardSize]Cell

func (that *Board) At(col, row int) Cell {
	return that[Move{Col: col, Row: row}.index()]
}

// IsEmpty - panics with InvariantViolation on out-of-range coordinates.
func (that *Board) IsEmpty(col, row int) bool {
	return that.At(col, row) == Empty
}

// EmptyCells - empty coordinates in row-major order. Search tie-breaks depend on this order.
func (that *Board) EmptyCells() []Move {
	cells := make([]Move, 0, len(that))
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if that.IsEmpty(col, row) {
				cells = append(cells, Move{Col: col, Row: row})
			}
		}
	}

	return cells
}

func (that *Board) Wins(side Cell) bool {
	if side == Empty {
		return false
	}

	for _, combo := range WinCombos {
		if that[combo[0]] == side && that[combo[1]] == side && that[combo[2]] == side {
			return true
		}
	}

	return false
}

// IsTerminal - true once either side has three in a row. A full board without a winner is not terminal here.
func (that *Board) IsTerminal() bool {
	return that.Wins(Computer) || that.Wins(Human)
}

func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}

	return true
}

// Evaluate - +1 computer won, -1 human won, 0 otherwise.
func (that *Board) Evaluate() int {
	switch {
	case that.Wins(Computer):
		return 1
	case that.Wins(Human):
		return -1
	default:
		return 0
	}
}

func (that *Board) Place(move Move, side Cell) error {
	idx := move.index()
	if that[idx] != Empty {
		return &apperror.IllegalMoveError{Col: move.Col, Row: move.Row}
	}

	that[idx] = side

	return nil
}

// Undo - empties a cell set by Place.
func (that *Board) Undo(move Move) {
	that[move.index()] = Empty
}

func (that *Board) Clear() {
	*that = Board{}
}

// Result - derived from the board on every call, never stored.
func (that *Board) Result() GameResult {
	switch {
	case that.Wins(Computer):
		return ComputerWin
	case that.Wins(Human):
		return HumanWin
	case that.IsFull():
		return Draw
	default:
		return InProgress
	}
}

// Count - number of cells holding side.
func (that *Board) Count(side Cell) int {
	n := 0
	for _, cell := range that {
		if cell == side {
			n++
		}
	}

	return n
}

// Rows - the board as marks, row by row, for rendering.
func (that *Board) Rows() [BoardSize][BoardSize]string {
	var rows [BoardSize][BoardSize]string
	for i, cell := range that {
		rows[i/BoardSize][i%BoardSize] = cell.Mark()
	}

	return rows
}

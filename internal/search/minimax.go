package search

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// Minimax - exhaustive search of board with side to move.
// Computer maximizes and Human minimizes; scores are always from the computer's point of view.
// A candidate only replaces the incumbent on strict improvement, so among equal scores
// the first empty cell in row-major order wins.
// The board is mutated during the search and restored before returning.
func Minimax(board *entity.Board, depth int, side entity.Cell) (entity.Move, int) {
	if depth == 0 || board.IsTerminal() {
		return entity.NoMove, board.Evaluate()
	}

	cells := board.EmptyCells()
	if len(cells) == 0 {
		return entity.NoMove, board.Evaluate()
	}

	bestMove, bestScore := entity.NoMove, worstScore(side)
	for _, move := range cells {
		score := try(board, move, side, func() int {
			_, score := Minimax(board, depth-1, side.Opponent())
			return score
		})

		if improves(side, score, bestScore) {
			bestMove, bestScore = move, score
		}
	}

	return bestMove, bestScore
}

// try - plays move for side, runs fn and takes the move back on every exit path.
func try(board *entity.Board, move entity.Move, side entity.Cell, fn func() int) int {
	if err := board.Place(move, side); err != nil {
		panic(apperror.InvariantViolation(fmt.Sprintf("search tried occupied cell %s", move)))
	}
	defer board.Undo(move)

	return fn()
}

func worstScore(side entity.Cell) int {
	if side == entity.Computer {
		return math.MinInt
	}
	return math.MaxInt
}

func improves(side entity.Cell, score, best int) bool {
	if side == entity.Computer {
		return score > best
	}
	return score < best
}

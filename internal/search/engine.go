package search

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// OpeningPolicy - how the computer picks its move on an empty board.
type OpeningPolicy string

const (
	// OpeningFull - uniform over all nine cells.
	OpeningFull OpeningPolicy = "full"
	// OpeningLegacy - uniform over columns and rows 0 and 1 only.
	OpeningLegacy OpeningPolicy = "legacy"
)

var ErrUnknownOpening = errors.New("unknown opening policy")

func ParseOpeningPolicy(name string) (OpeningPolicy, error) {
	switch policy := OpeningPolicy(name); policy {
	case OpeningFull, OpeningLegacy:
		return policy, nil
	case "":
		return OpeningFull, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOpening, name)
	}
}

type Rand interface {
	IntN(n int) int
}

// Engine - picks the computer's move. Safe to share between controllers.
type Engine struct {
	opening OpeningPolicy

	// rngMu guards rng, which the opening move draws from.
	rngMu sync.Mutex
	rng   Rand
}

// NewEngine - rng may be nil, in which case a randomly seeded source is used.
func NewEngine(opening OpeningPolicy, rng Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint: gosec // it's a game
	}

	return &Engine{
		opening: opening,
		rng:     rng,
	}
}

// BestMove - the computer's reply on board, searched to the full remaining depth.
// The board must still have an empty cell and no winner.
func (that *Engine) BestMove(board *entity.Board) (entity.Move, int) {
	depth := len(board.EmptyCells())
	if depth == 0 || board.IsTerminal() {
		panic(apperror.InvariantViolation("search requested on a finished board"))
	}

	if depth == len(board) {
		return that.openingMove(), 0
	}

	return Minimax(board, depth, entity.Computer)
}

func (that *Engine) openingMove() entity.Move {
	span := entity.BoardSize
	if that.opening == OpeningLegacy {
		span = entity.BoardSize - 1
	}

	that.rngMu.Lock()
	defer that.rngMu.Unlock()

	return entity.Move{
		Col: that.rng.IntN(span),
		Row: that.rng.IntN(span),
	}
}

package tictactoe

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

var ErrInconsistentGame = errors.New("inconsistent game")

type searcher interface {
	BestMove(board *entity.Board) (entity.Move, int)
}

type Options struct {
	// ComputerFirst - the computer plays the opening move of every game.
	ComputerFirst bool
}

// GameController - the turn state machine for one game at a time.
// It owns the board and lends it to the search engine for the computer's turn.
// It is not safe for concurrent use.
type GameController struct {
	logger  *slog.Logger
	engine  searcher
	options Options

	game entity.Game
}

func NewGameController(logger *slog.Logger, engine searcher, options Options) *GameController {
	return &GameController{
		logger:  logger.With("component", "game-controller"),
		engine:  engine,
		options: options,
		game:    entity.Game{State: entity.StateAwaitingHumanMove},
	}
}

// NewGame - clears the board and returns the position the human moves from.
func (that *GameController) NewGame(id string) entity.Game {
	that.game = entity.Game{
		ID:    id,
		State: entity.StateAwaitingHumanMove,
	}

	if that.options.ComputerFirst {
		that.game.State = entity.StateComputerThinking
		that.autoPlay()
	}

	that.logger.Debug("new game", "game_id", id, "computer_first", that.options.ComputerFirst)

	return that.CurrentState()
}

// Restore - resumes a previously saved game.
func (that *GameController) Restore(game *entity.Game) error {
	if err := game.ValidateState(); err != nil {
		return fmt.Errorf("failed to restore game: %w", err)
	}

	if err := that.checkConsistency(game); err != nil {
		return fmt.Errorf("failed to restore game %s: %w", game.ID, err)
	}

	that.game = *game
	if game.LastComputerMove != nil {
		move := *game.LastComputerMove
		that.game.LastComputerMove = &move
	}

	if that.game.State == entity.StateComputerThinking {
		that.autoPlay()
	}

	return nil
}

// SubmitHumanMove - plays the human's move and, if the game goes on, the computer's reply.
// An occupied cell is rejected with an IllegalMoveError and the state is left as it was.
func (that *GameController) SubmitHumanMove(col, row int) (entity.Game, error) {
	log := that.logger.With("method", "SubmitHumanMove", "game_id", that.game.ID)

	switch that.game.State {
	case entity.StateGameOver:
		return that.CurrentState(), apperror.ErrGameFinished
	case entity.StateAwaitingHumanMove:
	default:
		return that.CurrentState(), apperror.ErrNotYourTurn
	}

	move := entity.Move{Col: col, Row: row}
	if !move.InRange() {
		return that.CurrentState(), fmt.Errorf("%w: %s", apperror.ErrInvalidCell, move)
	}

	if err := that.game.Board.Place(move, entity.Human); err != nil {
		log.Warn("illegal move", "move", move.String(), "error", err)
		return that.CurrentState(), fmt.Errorf("human move rejected: %w", err)
	}

	that.game.LastComputerMove = nil
	log.Debug("human played", "move", move.String())

	if that.finishIfOver() {
		return that.CurrentState(), nil
	}

	that.game.State = entity.StateComputerThinking
	that.autoPlay()

	return that.CurrentState(), nil
}

// CurrentState - a copy of the game for rendering.
func (that *GameController) CurrentState() entity.Game {
	snapshot := that.game
	if that.game.LastComputerMove != nil {
		move := *that.game.LastComputerMove
		snapshot.LastComputerMove = &move
	}

	return snapshot
}

func (that *GameController) autoPlay() {
	move, score := that.engine.BestMove(&that.game.Board)
	if err := that.game.Board.Place(move, entity.Computer); err != nil {
		panic(apperror.InvariantViolation(fmt.Sprintf("engine chose occupied cell %s", move)))
	}

	that.game.LastComputerMove = &move
	that.logger.Debug("computer played", "game_id", that.game.ID, "move", move.String(), "score", score)

	if !that.finishIfOver() {
		that.game.State = entity.StateAwaitingHumanMove
	}
}

func (that *GameController) finishIfOver() bool {
	result := that.game.Result()
	if !result.IsOver() {
		return false
	}

	that.game.State = entity.StateGameOver
	that.logger.Info("game over", "game_id", that.game.ID, "result", result.String())

	return true
}

// checkConsistency - the marks must alternate from the configured opener and the state must match the side to move.
func (that *GameController) checkConsistency(game *entity.Game) error {
	opener, second := entity.Human, entity.Computer
	if that.options.ComputerFirst {
		opener, second = entity.Computer, entity.Human
	}

	openerMarks, secondMarks := game.Board.Count(opener), game.Board.Count(second)
	if lead := openerMarks - secondMarks; lead != 0 && lead != 1 {
		return fmt.Errorf("%w: %d %s and %d %s marks with %s opening",
			ErrInconsistentGame, openerMarks, opener, secondMarks, second, opener)
	}

	over := game.Result().IsOver()
	if over != game.IsOver() {
		return fmt.Errorf("%w: state %s with result %s", ErrInconsistentGame, game.State, game.Result())
	}

	if over {
		return nil
	}

	toMove := opener
	if openerMarks > secondMarks {
		toMove = second
	}

	if expected := stateFor(toMove); game.State != expected {
		return fmt.Errorf("%w: state %s while %s is to move", ErrInconsistentGame, game.State, toMove)
	}

	return nil
}

func stateFor(side entity.Cell) entity.State {
	if side == entity.Computer {
		return entity.StateComputerThinking
	}
	return entity.StateAwaitingHumanMove
}

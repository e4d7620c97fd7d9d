package tictactoe

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	H = entity.Human
	C = entity.Computer
	E = entity.Empty
)

type mockEngine struct {
	mock.Mock
}

func (that *mockEngine) BestMove(board *entity.Board) (entity.Move, int) {
	args := that.Called(*board)
	return args.Get(0).(entity.Move), args.Int(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGameController_NewGame(t *testing.T) {
	t.Run("Starts empty and waits for the human", func(t *testing.T) {
		// Given: a controller whose engine must not be consulted
		engine := &mockEngine{}
		controller := NewGameController(discardLogger(), engine, Options{})

		// When: starting a new game
		game := controller.NewGame("123")

		// Then: the board is empty and the human is to move
		assert.Equal(t, "123", game.ID)
		assert.Equal(t, entity.Board{}, game.Board)
		assert.Equal(t, entity.StateAwaitingHumanMove, game.State)
		assert.Equal(t, entity.InProgress, game.Result())
		assert.Nil(t, game.LastComputerMove)
		engine.AssertNotCalled(t, "BestMove", mock.Anything)
	})

	t.Run("Computer opens when configured to move first", func(t *testing.T) {
		// Given: an engine that opens in the centre
		engine := &mockEngine{}
		engine.On("BestMove", entity.Board{}).Return(entity.Move{Col: 1, Row: 1}, 0).Once()
		controller := NewGameController(discardLogger(), engine, Options{ComputerFirst: true})

		// When: starting a new game
		game := controller.NewGame("123")

		// Then: the computer's mark is on the board and the human is to move
		assert.Equal(t, C, game.Board.At(1, 1))
		assert.Equal(t, entity.StateAwaitingHumanMove, game.State)
		require.NotNil(t, game.LastComputerMove)
		assert.Equal(t, entity.Move{Col: 1, Row: 1}, *game.LastComputerMove)
		engine.AssertExpectations(t)
	})

	t.Run("Clears the previous game", func(t *testing.T) {
		// Given: a game with a move played
		engine := &mockEngine{}
		engine.On("BestMove", mock.Anything).Return(entity.Move{Col: 1, Row: 1}, 0)
		controller := NewGameController(discardLogger(), engine, Options{})
		controller.NewGame("1")
		_, err := controller.SubmitHumanMove(0, 0)
		require.NoError(t, err)

		// When: starting over
		game := controller.NewGame("2")

		// Then: the board is empty again
		assert.Equal(t, entity.Board{}, game.Board)
		assert.Equal(t, entity.Board{}, controller.CurrentState().Board)
	})
}

func TestGameController_SubmitHumanMove(t *testing.T) {
	t.Run("Human move is answered by the computer", func(t *testing.T) {
		// Given: a new game and an engine that replies in the centre
		engine := &mockEngine{}
		afterHuman := entity.Board{H}
		engine.On("BestMove", afterHuman).Return(entity.Move{Col: 1, Row: 1}, 0).Once()
		controller := NewGameController(discardLogger(), engine, Options{})
		controller.NewGame("123")

		// When: the human plays the top-left corner
		game, err := controller.SubmitHumanMove(0, 0)

		// Then: both marks are on the board and the human is to move again
		require.NoError(t, err)
		assert.Equal(t, entity.Board{
			H, E, E,
			E, C, E,
			E, E, E,
		}, game.Board)
		assert.Equal(t, entity.StateAwaitingHumanMove, game.State)
		require.NotNil(t, game.LastComputerMove)
		assert.Equal(t, entity.Move{Col: 1, Row: 1}, *game.LastComputerMove)
		engine.AssertExpectations(t)
	})

	t.Run("Occupied cell is rejected and the board is unchanged", func(t *testing.T) {
		// Given: a game where the computer holds the centre
		engine := &mockEngine{}
		engine.On("BestMove", mock.Anything).Return(entity.Move{Col: 1, Row: 1}, 0).Once()
		controller := NewGameController(discardLogger(), engine, Options{})
		controller.NewGame("123")
		before, err := controller.SubmitHumanMove(0, 0)
		require.NoError(t, err)

		// When: the human tries the centre
		game, err := controller.SubmitHumanMove(1, 1)

		// Then: an IllegalMoveError is returned and nothing moved
		var illegal *apperror.IllegalMoveError
		require.ErrorAs(t, err, &illegal)
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, before.Board, game.Board)
		assert.Equal(t, entity.StateAwaitingHumanMove, game.State)
		assert.Equal(t, before, controller.CurrentState())
		engine.AssertNumberOfCalls(t, "BestMove", 1)
	})

	t.Run("Off-board coordinates are rejected", func(t *testing.T) {
		controller := NewGameController(discardLogger(), &mockEngine{}, Options{})
		controller.NewGame("123")

		_, err := controller.SubmitHumanMove(3, 0)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)

		_, err = controller.SubmitHumanMove(0, -1)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)
		assert.Equal(t, entity.Board{}, controller.CurrentState().Board)
	})

	t.Run("Human win ends the game without a computer reply", func(t *testing.T) {
		// Given: the human has two in the left column
		engine := &mockEngine{}
		controller := NewGameController(discardLogger(), engine, Options{})
		require.NoError(t, controller.Restore(&entity.Game{
			ID: "123",
			Board: entity.Board{
				H, C, E,
				H, C, E,
				E, E, E,
			},
			State: entity.StateAwaitingHumanMove,
		}))

		// When: the human completes the column
		game, err := controller.SubmitHumanMove(0, 2)

		// Then: the game is over and the human won
		require.NoError(t, err)
		assert.Equal(t, entity.StateGameOver, game.State)
		assert.Equal(t, entity.HumanWin, game.Result())
		assert.Nil(t, game.LastComputerMove)
		engine.AssertNotCalled(t, "BestMove", mock.Anything)
	})

	t.Run("Computer win ends the game", func(t *testing.T) {
		// Given: the real engine and a computer that opened and has two in the top row
		controller := NewGameController(discardLogger(), search.NewEngine(search.OpeningFull, nil), Options{ComputerFirst: true})
		require.NoError(t, controller.Restore(&entity.Game{
			ID: "123",
			Board: entity.Board{
				C, C, E,
				H, E, E,
				E, E, E,
			},
			State: entity.StateAwaitingHumanMove,
		}))

		// When: the human does not block
		game, err := controller.SubmitHumanMove(1, 1)

		// Then: the computer completes the row
		require.NoError(t, err)
		assert.Equal(t, entity.StateGameOver, game.State)
		assert.Equal(t, entity.ComputerWin, game.Result())
		assert.Equal(t, &entity.Move{Col: 2, Row: 0}, game.LastComputerMove)
	})

	t.Run("Filling the last cell without a line is a draw", func(t *testing.T) {
		// Given: one empty cell left and no line possible
		controller := NewGameController(discardLogger(), &mockEngine{}, Options{})
		require.NoError(t, controller.Restore(&entity.Game{
			ID: "123",
			Board: entity.Board{
				H, C, H,
				H, C, C,
				C, H, E,
			},
			State: entity.StateAwaitingHumanMove,
		}))

		// When: the human fills it
		game, err := controller.SubmitHumanMove(2, 2)

		// Then: the game ends in a draw
		require.NoError(t, err)
		assert.Equal(t, entity.StateGameOver, game.State)
		assert.Equal(t, entity.Draw, game.Result())
	})

	t.Run("No moves after the game is over", func(t *testing.T) {
		// Given: a finished game
		controller := NewGameController(discardLogger(), &mockEngine{}, Options{})
		require.NoError(t, controller.Restore(&entity.Game{
			ID: "123",
			Board: entity.Board{
				H, H, H,
				C, C, E,
				E, E, E,
			},
			State: entity.StateGameOver,
		}))

		// When: the human tries another move
		game, err := controller.SubmitHumanMove(2, 1)

		// Then: ErrGameFinished is returned and the board is unchanged
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.True(t, game.Board.IsEmpty(2, 1))
	})
}

func TestGameController_FullGame(t *testing.T) {
	t.Run("Optimal human against the engine draws", func(t *testing.T) {
		// Given: the real engine and a human that searches for its own best move
		controller := NewGameController(discardLogger(), search.NewEngine(search.OpeningFull, nil), Options{})
		game := controller.NewGame("123")

		// When: playing until the game ends
		for !game.IsOver() {
			board := game.Board
			move, _ := search.Minimax(&board, len(board.EmptyCells()), entity.Human)

			var err error
			game, err = controller.SubmitHumanMove(move.Col, move.Row)
			require.NoError(t, err)
		}

		// Then: nobody wins
		assert.Equal(t, entity.Draw, game.Result())
	})

	t.Run("Computer-first game against an optimal human draws", func(t *testing.T) {
		controller := NewGameController(discardLogger(), search.NewEngine(search.OpeningFull, nil), Options{ComputerFirst: true})
		game := controller.NewGame("123")
		require.Equal(t, 1, game.Board.Count(entity.Computer))

		for !game.IsOver() {
			board := game.Board
			move, _ := search.Minimax(&board, len(board.EmptyCells()), entity.Human)

			var err error
			game, err = controller.SubmitHumanMove(move.Col, move.Row)
			require.NoError(t, err)
		}

		assert.Equal(t, entity.Draw, game.Result())
	})
}

func TestGameController_Restore(t *testing.T) {
	t.Run("Resumes a game stuck on the computer's turn", func(t *testing.T) {
		// Given: a saved game where the computer still has to reply
		engine := &mockEngine{}
		engine.On("BestMove", mock.Anything).Return(entity.Move{Col: 1, Row: 1}, 0).Once()
		controller := NewGameController(discardLogger(), engine, Options{})

		// When: restoring it
		err := controller.Restore(&entity.Game{
			ID:    "123",
			Board: entity.Board{H},
			State: entity.StateComputerThinking,
		})

		// Then: the computer plays and the human is to move
		require.NoError(t, err)
		state := controller.CurrentState()
		assert.Equal(t, entity.StateAwaitingHumanMove, state.State)
		assert.Equal(t, C, state.Board.At(1, 1))
	})

	t.Run("Rejects a won board that is not over", func(t *testing.T) {
		controller := NewGameController(discardLogger(), &mockEngine{}, Options{})

		err := controller.Restore(&entity.Game{
			Board: entity.Board{
				H, H, H,
				C, C, E,
				E, E, E,
			},
			State: entity.StateAwaitingHumanMove,
		})

		require.ErrorIs(t, err, ErrInconsistentGame)
	})

	t.Run("Rejects broken alternation", func(t *testing.T) {
		controller := NewGameController(discardLogger(), &mockEngine{}, Options{})

		err := controller.Restore(&entity.Game{
			Board: entity.Board{
				H, H, E,
				E, H, E,
				E, E, E,
			},
			State: entity.StateAwaitingHumanMove,
		})

		require.ErrorIs(t, err, ErrInconsistentGame)
	})

	t.Run("Rejects the computer's turn when it has just moved", func(t *testing.T) {
		// Given: a human-first game where the computer already answered
		engine := &mockEngine{}
		controller := NewGameController(discardLogger(), engine, Options{})

		// When: restoring it as waiting for the computer
		err := controller.Restore(&entity.Game{
			Board: entity.Board{
				H, C, E,
				E, E, E,
				E, E, E,
			},
			State: entity.StateComputerThinking,
		})

		// Then: it is refused and the engine is never asked for a second move
		require.ErrorIs(t, err, ErrInconsistentGame)
		engine.AssertNotCalled(t, "BestMove", mock.Anything)
	})

	t.Run("Rejects the human's turn when the human has just moved", func(t *testing.T) {
		controller := NewGameController(discardLogger(), &mockEngine{}, Options{})

		err := controller.Restore(&entity.Game{
			Board: entity.Board{H},
			State: entity.StateAwaitingHumanMove,
		})

		require.ErrorIs(t, err, ErrInconsistentGame)
	})

	t.Run("Turn order follows the configured opener", func(t *testing.T) {
		// Given: a computer-first game after the computer's opening
		opening := entity.Game{
			Board: entity.Board{C},
			State: entity.StateAwaitingHumanMove,
		}

		// Then: it restores only where the computer opens
		computerFirst := NewGameController(discardLogger(), &mockEngine{}, Options{ComputerFirst: true})
		require.NoError(t, computerFirst.Restore(&opening))

		humanFirst := NewGameController(discardLogger(), &mockEngine{}, Options{})
		require.ErrorIs(t, humanFirst.Restore(&opening), ErrInconsistentGame)
	})

	t.Run("Rejects unknown states", func(t *testing.T) {
		controller := NewGameController(discardLogger(), &mockEngine{}, Options{})

		err := controller.Restore(&entity.Game{State: "paused"})

		require.ErrorIs(t, err, entity.ErrUnknownGameState)
	})
}

func TestGameController_ConcurrentComputerOpenings(t *testing.T) {
	// Given: one engine shared by many controllers, as the server wires them
	engine := search.NewEngine(search.OpeningFull, nil)

	var wg sync.WaitGroup
	games := make(chan entity.Game, 8*50)

	// When: computer-first games start in parallel
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			controller := NewGameController(discardLogger(), engine, Options{ComputerFirst: true})
			for range 50 {
				games <- controller.NewGame("123")
			}
		}()
	}
	wg.Wait()
	close(games)

	// Then: every game got exactly one opening mark
	for game := range games {
		assert.Equal(t, 1, game.Board.Count(entity.Computer))
		assert.Equal(t, entity.StateAwaitingHumanMove, game.State)
	}
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	application "github.com/rocketscienceinc/tictactoe-minimax/internal"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

var errMoveFormat = errors.New(`enter a column and a row, e.g. "2 3"`)

var resultMessages = map[entity.GameResult]string{
	entity.ComputerWin: "You lost to the computer.",
	entity.HumanWin:    "You won!",
	entity.Draw:        "It was a draw!",
}

func Play() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Plays against the computer in the terminal",
		Long: heredoc.Doc(`play runs games on stdin/stdout. You are X, the computer is O.
			Enter a move as a column and a row, both from 1 to 3, e.g. "3 1"
			for the top-right cell. An occupied cell is refused and you are
			asked again.
		`),
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("computer-first") {
				conf.Engine.ComputerFirst, _ = cmd.Flags().GetBool("computer-first")
			}

			newController, err := application.NewControllerFactory(newLogger(cmd.ErrOrStderr(), conf.LogLevel), conf)
			if err != nil {
				return err
			}

			return newTerminalGame(cmd.InOrStdin(), cmd.OutOrStdout(), newController()).Run()
		},
	}

	cmd.Flags().Bool("computer-first", false, "Let the computer open every game")

	return cmd
}

// terminalGame - renders the board and forwards typed moves to the controller.
type terminalGame struct {
	in         *bufio.Scanner
	out        io.Writer
	controller *tictactoe.GameController

	human    *color.Color
	computer *color.Color
	last     *color.Color
}

func newTerminalGame(in io.Reader, out io.Writer, controller *tictactoe.GameController) *terminalGame {
	return &terminalGame{
		in:         bufio.NewScanner(in),
		out:        out,
		controller: controller,
		human:      color.New(color.FgRed),
		computer:   color.New(color.FgBlue),
		last:       color.New(color.FgBlue, color.Bold, color.Underline),
	}
}

// Run - plays games until the player declines another one or input ends.
func (that *terminalGame) Run() error {
	for {
		finished, err := that.playOne(that.controller.NewGame(uuid.NewString()))
		if err != nil || !finished {
			return err
		}

		again, err := that.confirm("Play again? [y/N] ")
		if err != nil || !again {
			return err
		}
	}
}

// playOne - false when input ran out before the game ended.
func (that *terminalGame) playOne(game entity.Game) (bool, error) {
	that.render(game)

	for !game.IsOver() {
		line, ok, err := that.prompt("Your move (column row): ")
		if !ok {
			return false, err
		}

		col, row, err := parseMove(line)
		if err != nil {
			fmt.Fprintln(that.out, err)
			continue
		}

		next, err := that.controller.SubmitHumanMove(col, row)
		switch {
		case errors.Is(err, apperror.ErrCellOccupied):
			fmt.Fprintln(that.out, "Please choose an empty cell.")
			continue
		case errors.Is(err, apperror.ErrInvalidCell):
			fmt.Fprintln(that.out, "Column and row must be between 1 and 3.")
			continue
		case err != nil:
			return false, err
		}

		game = next
		that.render(game)
	}

	fmt.Fprintln(that.out, resultMessages[game.Result()])

	return true, nil
}

func (that *terminalGame) prompt(question string) (string, bool, error) {
	fmt.Fprint(that.out, question)

	if !that.in.Scan() {
		fmt.Fprintln(that.out)
		return "", false, that.in.Err()
	}

	return strings.TrimSpace(that.in.Text()), true, nil
}

func (that *terminalGame) confirm(question string) (bool, error) {
	answer, ok, err := that.prompt(question)
	if !ok {
		return false, err
	}

	answer = strings.ToLower(answer)

	return answer == "y" || answer == "yes", nil
}

func (that *terminalGame) render(game entity.Game) {
	var b strings.Builder

	b.WriteString("\n     1   2   3\n")
	for row := 0; row < entity.BoardSize; row++ {
		if row > 0 {
			b.WriteString("    ---+---+---\n")
		}

		fmt.Fprintf(&b, "  %d ", row+1)
		for col := 0; col < entity.BoardSize; col++ {
			if col > 0 {
				b.WriteString("|")
			}
			b.WriteString(" " + that.mark(game, col, row) + " ")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	fmt.Fprint(that.out, b.String())
}

func (that *terminalGame) mark(game entity.Game, col, row int) string {
	switch game.Board.At(col, row) {
	case entity.Human:
		return that.human.Sprint(entity.Human.Mark())
	case entity.Computer:
		if last := game.LastComputerMove; last != nil && last.Col == col && last.Row == row {
			return that.last.Sprint(entity.Computer.Mark())
		}
		return that.computer.Sprint(entity.Computer.Mark())
	default:
		return "."
	}
}

// parseMove - "col row", 1-based, into board coordinates.
func parseMove(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, errMoveFormat
	}

	col, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("column %q is not a number", fields[0])
	}

	row, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("row %q is not a number", fields[1])
	}

	return col - 1, row - 1, nil
}

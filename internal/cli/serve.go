package cli

import (
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	application "github.com/rocketscienceinc/tictactoe-minimax/internal"
)

func Serve() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serves games over HTTP and WebSocket",
		Long: heredoc.Doc(`serve starts the REST API on http-port and the WebSocket
			endpoint /ws on socket-port. Games are kept in memory or in redis,
			depending on the storage setting, and expire after game-ttl.

			REST:
			  POST /games                  start a game
			  GET  /games/{id}             current state
			  POST /games/{id}/moves       {"col": 0-2, "row": 0-2}

			WebSocket actions: game:new, game:move, game:state.
		`),
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return application.RunApp(newLogger(os.Stdout, conf.LogLevel), conf)
		},
	}
}

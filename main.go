package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/qboard/cmd"
	"github.com/rubiojr/qboard/pkg/config"
)

func main() {
	app := &cli.Command{
		Name:  "qboard",
		Usage: "A question and answer board",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: getDefaultConfigPathOrExit(),
			},
			&cli.StringFlag{
				Name:    "user",
				Usage:   "Username acting on the board",
				Sources: cli.EnvVars("QBOARD_USER"),
			},
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.MigrateCommand(),
			cmd.UserCommand(),
			cmd.AskCommand(),
			cmd.AnswerCommand(),
			cmd.ShowCommand(),
			cmd.EditCommand(),
			cmd.DeleteCommand(),
			cmd.VoteCommand(),
			cmd.SearchCommand(),
			cmd.StatsCommand(),
			cmd.ExportCommand(),
			cmd.ServeCommand(),
			cmd.VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func getDefaultConfigPathOrExit() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		log.Fatalf("Failed to get default config path: %v", err)
	}
	return path
}

package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/qboard/pkg/api"
)

// AskCommand creates the ask command
func AskCommand() *cli.Command {
	return &cli.Command{
		Name:  "ask",
		Usage: "Post a new question",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "subject",
				Usage:    "Question subject (at most 200 characters)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "body",
				Usage:    "Question body",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			subject, body := c.String("subject"), c.String("body")
			if err := api.ValidateQuestion(subject, body); err != nil {
				return err
			}

			a, err := openApp(ctx, c)
			if err != nil {
				return err
			}
			defer a.close()

			user, err := a.currentUser(ctx, c)
			if err != nil {
				return err
			}
			q, err := a.board.Ask(ctx, user, subject, body)
			if err != nil {
				return fmt.Errorf("asking: %w", err)
			}
			fmt.Fprintf(out(c), "Created question #%d\n", q.ID)
			return nil
		},
	}
}

package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/qboard/pkg/api"
)

// AnswerCommand creates the answer command
func AnswerCommand() *cli.Command {
	return &cli.Command{
		Name:      "answer",
		Usage:     "Answer a question",
		ArgsUsage: "QUESTION_ID",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "body",
				Usage:    "Answer body",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := argID(c, 0, "question")
			if err != nil {
				return err
			}
			body := c.String("body")
			if err := api.ValidateAnswer(body); err != nil {
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
			ans, err := a.board.Answer(ctx, user, id, body)
			if err != nil {
				return fmt.Errorf("answering question %d: %w", id, err)
			}
			fmt.Fprintf(out(c), "Created answer #%d on question #%d\n", ans.ID, id)
			return nil
		},
	}
}

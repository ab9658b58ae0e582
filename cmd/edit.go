package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/qboard/pkg/api"
)

// EditCommand creates the edit command
func EditCommand() *cli.Command {
	return &cli.Command{
		Name:  "edit",
		Usage: "Modify a question or an answer",
		Commands: []*cli.Command{
			{
				Name:      "question",
				Usage:     "Replace the subject and body of a question",
				ArgsUsage: "QUESTION_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subject", Usage: "New subject", Required: true},
					&cli.StringFlag{Name: "body", Usage: "New body", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := argID(c, 0, "question")
					if err != nil {
						return err
					}
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
					if _, err := a.board.ModifyQuestion(ctx, user, id, subject, body); err != nil {
						return fmt.Errorf("editing question %d: %w", id, err)
					}
					fmt.Fprintf(out(c), "Updated question #%d\n", id)
					return nil
				},
			},
			{
				Name:      "answer",
				Usage:     "Replace the body of an answer",
				ArgsUsage: "ANSWER_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "body", Usage: "New body", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := argID(c, 0, "answer")
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
					if _, err := a.board.ModifyAnswer(ctx, user, id, body); err != nil {
						return fmt.Errorf("editing answer %d: %w", id, err)
					}
					fmt.Fprintf(out(c), "Updated answer #%d\n", id)
					return nil
				},
			},
		},
	}
}

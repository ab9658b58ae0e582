package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// DeleteCommand creates the delete command
func DeleteCommand() *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "Delete a question (with its answers) or a single answer",
		Commands: []*cli.Command{
			{
				Name:      "question",
				Usage:     "Delete a question and all of its answers",
				ArgsUsage: "QUESTION_ID",
				Action: func(ctx context.Context, c *cli.Command) error {
					return deleteRecord(ctx, c, "question")
				},
			},
			{
				Name:      "answer",
				Usage:     "Delete one answer",
				ArgsUsage: "ANSWER_ID",
				Action: func(ctx context.Context, c *cli.Command) error {
					return deleteRecord(ctx, c, "answer")
				},
			},
		},
	}
}

func deleteRecord(ctx context.Context, c *cli.Command, kind string) error {
	id, err := argID(c, 0, kind)
	if err != nil {
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
	if kind == "question" {
		err = a.board.DeleteQuestion(ctx, user, id)
	} else {
		err = a.board.DeleteAnswer(ctx, user, id)
	}
	if err != nil {
		return fmt.Errorf("deleting %s %d: %w", kind, id, err)
	}
	fmt.Fprintf(out(c), "Deleted %s #%d\n", kind, id)
	return nil
}

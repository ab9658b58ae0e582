package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// VoteCommand creates the vote command
func VoteCommand() *cli.Command {
	return &cli.Command{
		Name:  "vote",
		Usage: "Endorse a question or an answer. Voting twice has no effect",
		Commands: []*cli.Command{
			{
				Name:      "question",
				Usage:     "Endorse a question",
				ArgsUsage: "QUESTION_ID",
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := argID(c, 0, "question")
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
					if err := a.board.Endorse(ctx, user, id); err != nil {
						return fmt.Errorf("voting question %d: %w", id, err)
					}
					q, err := a.board.GetQuestion(ctx, id)
					if err != nil {
						return err
					}
					fmt.Fprintf(out(c), "Question #%d has %s\n", id, plural(q.VoterCount, "vote"))
					return nil
				},
			},
			{
				Name:      "answer",
				Usage:     "Endorse an answer",
				ArgsUsage: "ANSWER_ID",
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := argID(c, 0, "answer")
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
					if err := a.board.EndorseAnswer(ctx, user, id); err != nil {
						return fmt.Errorf("voting answer %d: %w", id, err)
					}
					ans, err := a.board.GetAnswer(ctx, id)
					if err != nil {
						return err
					}
					fmt.Fprintf(out(c), "Answer #%d has %s\n", id, plural(ans.VoterCount, "vote"))
					return nil
				},
			},
		},
	}
}

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/qboard/pkg/core"
)

// ShowCommand creates the show command
func ShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a question with its answers",
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

			q, err := a.board.GetQuestion(ctx, id)
			if err != nil {
				return fmt.Errorf("showing question %d: %w", id, err)
			}
			fmt.Fprint(out(c), renderQuestion(q))
			return nil
		},
	}
}

func voterNames(users []core.User) string {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	return strings.Join(names, ", ")
}

// renderQuestion renders the detail view of a question.
func renderQuestion(q core.Question) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("#%d %s", q.ID, q.Subject)))
	b.WriteString("\n")
	b.WriteString(metaStyle.Render(questionMeta(q)))
	b.WriteString("\n\n")
	b.WriteString(q.Body)
	b.WriteString("\n")
	if len(q.Voters) > 0 {
		b.WriteString(metaStyle.Render("endorsed by " + voterNames(q.Voters)))
		b.WriteString("\n")
	}

	b.WriteString(headerStyle.Render(plural(len(q.Answers), "Answer")))
	b.WriteString("\n")
	if len(q.Answers) == 0 {
		b.WriteString(noDataStyle.Render("No answers yet"))
		b.WriteString("\n")
	}
	for _, ans := range q.Answers {
		author := ans.Author.Username
		if author == "" {
			author = "unknown"
		}
		meta := fmt.Sprintf("#%d by %s · %s · %s", ans.ID, author, formatTime(ans.CreateDate), plural(ans.VoterCount, "vote"))
		if len(ans.Voters) > 0 {
			meta += " · endorsed by " + voterNames(ans.Voters)
		}
		b.WriteString(blockStyle.Render(ans.Body + "\n" + metaStyle.Render(meta)))
		b.WriteString("\n")
	}
	return b.String()
}

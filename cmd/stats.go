package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rubiojr/qboard/pkg/core"
)

// StatsCommand creates the stats command
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show statistics",
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := openApp(ctx, c)
			if err != nil {
				return err
			}
			defer a.close()

			stats, err := a.board.Stats(ctx)
			if err != nil {
				return fmt.Errorf("getting stats: %w", err)
			}
			fmt.Fprint(out(c), formatStats(stats))
			return nil
		},
	}
}

// formatStats formats board statistics for display
func formatStats(stats core.Stats) string {
	title := cases.Title(language.English)
	rows := []struct {
		label string
		n     int
	}{
		{"users", stats.Users},
		{"questions", stats.Questions},
		{"answers", stats.Answers},
		{"question votes", stats.QuestionVotes},
		{"answer votes", stats.AnswerVotes},
	}

	var b strings.Builder
	b.WriteString(summaryStyle.Render("📊 Board Statistics"))
	b.WriteString("\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%-16s %s\n", title.String(r.label)+":", formatNumber(r.n))
	}
	if stats.Questions > 0 {
		fmt.Fprintf(&b, "%-16s %.1f\n", title.String("answers per question")+":", float64(stats.Answers)/float64(stats.Questions))
	}
	return b.String()
}

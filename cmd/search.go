package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search questions by subject, body, author, answers and answer authors",
		ArgsUsage: "[KEYWORD]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "page",
				Usage: "Zero based result page",
				Value: 0,
			},
			&cli.StringFlag{
				Name:  "author",
				Usage: "List the questions of one user instead of searching",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := openApp(ctx, c)
			if err != nil {
				return err
			}
			defer a.close()

			keyword := c.Args().First()
			page := c.Int("page")

			if author := c.String("author"); author != "" {
				results, err := a.board.QuestionsByAuthor(ctx, author, page)
				if err != nil {
					return fmt.Errorf("listing questions of %s: %w", author, err)
				}
				fmt.Fprint(out(c), renderPage("Questions by "+author, results))
				return nil
			}

			results, err := a.board.Search(ctx, keyword, page)
			if err != nil {
				return fmt.Errorf("searching: %w", err)
			}
			title := "Latest questions"
			if keyword != "" {
				title = fmt.Sprintf("Search: %s", keyword)
			}
			fmt.Fprint(out(c), renderPage(title, results))
			return nil
		},
	}
}

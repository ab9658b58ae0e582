package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/qboard/pkg/archive"
	"github.com/rubiojr/qboard/pkg/core"
)

// ExportCommand creates the export command
func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write every question, answer and endorsement to a zstd compressed JSON Lines file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Destination file",
				Value:   "qboard-export.jsonl.zst",
			},
			&cli.BoolFlag{
				Name:  "verify",
				Usage: "Read the file back and check the question count",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := openApp(ctx, c)
			if err != nil {
				return err
			}
			defer a.close()

			path := c.String("output")
			n, err := exportTo(ctx, a, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(c), "Exported %s to %s\n", plural(n, "question"), path)

			if c.Bool("verify") {
				read, err := verifyExport(path)
				if err != nil {
					return err
				}
				if read != n {
					return fmt.Errorf("export verification failed: wrote %d questions, read %d", n, read)
				}
				fmt.Fprintln(out(c), "Export verified")
			}
			return nil
		},
	}
}

func exportTo(ctx context.Context, a *app, path string) (n int, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	n, err = archive.Export(ctx, a.store, f)
	if err != nil {
		return n, fmt.Errorf("exporting: %w", err)
	}
	return n, nil
}

func verifyExport(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	n := 0
	if _, err := archive.Read(f, func(core.Question) error { n++; return nil }); err != nil {
		return n, fmt.Errorf("reading %s: %w", path, err)
	}
	return n, nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"
)

// UserCommand creates the user command
func UserCommand() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Manage board users",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Register a new user",
				ArgsUsage: "USERNAME",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "email",
						Usage: "Contact email",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					name := c.Args().First()
					if name == "" {
						return errors.New("missing username")
					}
					a, err := openApp(ctx, c)
					if err != nil {
						return err
					}
					defer a.close()

					u, err := a.board.RegisterUser(ctx, name, c.String("email"))
					if err != nil {
						return fmt.Errorf("adding user %s: %w", name, err)
					}
					fmt.Fprintf(out(c), "Created user %s (id %d)\n", u.Username, u.ID)
					return nil
				},
			},
		},
	}
}

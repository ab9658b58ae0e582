package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/qboard/pkg/config"
)

// InitCommand creates the init command
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize configuration and create the board database",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing configuration file",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := initConfig(c, c.String("config"), c.Bool("force")); err != nil {
				return err
			}
			a, err := openApp(ctx, c)
			if err != nil {
				return err
			}
			defer a.close()
			fmt.Fprintf(out(c), "Board database ready at %s\n", a.store.Path())
			return nil
		},
	}
}

// initConfig initializes the configuration file
func initConfig(c *cli.Command, configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		fmt.Fprintf(out(c), "Configuration already exists at %s\n", configPath)
		return nil
	}
	cfg, err := config.GetDefaultConfig()
	if err != nil {
		return fmt.Errorf("building default config: %w", err)
	}
	if err := cfg.SaveTemplateConfig(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(out(c), "Configuration initialized at %s\n", configPath)
	return nil
}

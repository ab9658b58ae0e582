package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/rubiojr/qboard/pkg/board"
	"github.com/rubiojr/qboard/pkg/config"
	"github.com/rubiojr/qboard/pkg/core"
	"github.com/rubiojr/qboard/pkg/log"
	"github.com/rubiojr/qboard/pkg/realtime"
	"github.com/rubiojr/qboard/pkg/storage"
)

var logger = log.ForService("qboard")

// app bundles what most commands need: configuration, the store and the
// board service on top of it.
type app struct {
	cfg      *config.Config
	store    *storage.Store
	board    *board.Service
	registry *prometheus.Registry
}

// openApp loads the configuration named by --config and opens the board.
func openApp(ctx context.Context, c *cli.Command) (*app, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log.SetGlobalDebug(c.Bool("debug") || cfg.Debug)

	if err := os.MkdirAll(cfg.StorageDir, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	st, err := storage.Open(ctx, cfg.DBPath(), storage.Options{EscapeWildcards: cfg.Search.EscapeWildcards})
	if err != nil {
		return nil, fmt.Errorf("opening board: %w", err)
	}

	reg := prometheus.NewRegistry()
	svc := board.New(st, realtime.NewHub(cfg.Realtime.Buffer), board.NewMetrics(reg))
	return &app{cfg: cfg, store: st, board: svc, registry: reg}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		logger.Warnf("failed to close store: %v", err)
	}
}

// currentUser resolves the --user flag.
func (a *app) currentUser(ctx context.Context, c *cli.Command) (core.User, error) {
	name := c.String("user")
	if name == "" {
		return core.User{}, errors.New("no user given, pass --user or set QBOARD_USER")
	}
	u, err := a.board.ResolveUser(ctx, name)
	if errors.Is(err, core.ErrNotFound) {
		return core.User{}, fmt.Errorf("unknown user %q, create it with 'qboard user add %s'", name, name)
	}
	return u, err
}

// argID parses the positional argument at index i as a record id.
func argID(c *cli.Command, i int, what string) (int64, error) {
	raw := c.Args().Get(i)
	if raw == "" {
		return 0, fmt.Errorf("missing %s id", what)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, raw)
	}
	return id, nil
}

// out returns the writer commands print to.
func out(c *cli.Command) io.Writer {
	if w := c.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

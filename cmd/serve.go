package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"

	"github.com/rubiojr/qboard/pkg/api"
	"github.com/rubiojr/qboard/pkg/config"
	"github.com/rubiojr/qboard/pkg/log"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON API, the event stream and metrics over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Listen address, overrides the listen config key",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c)
		},
	}
}

func serve(ctx context.Context, c *cli.Command) error {
	a, err := openApp(ctx, c)
	if err != nil {
		return err
	}
	defer a.close()

	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	listen := c.String("listen")
	if listen == "" {
		listen = a.cfg.Listen
	}
	server := api.NewServer(a.board, api.WithGatherer(a.registry))
	httpServer := &http.Server{
		Addr:              listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	logger.Infof("listening on http://%s", listen)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	configPath := c.String("config")
	forceDebug := c.Bool("debug")

	// Editors often replace the file atomically, so rename and remove events
	// re-arm the watch.
	var (
		watchEvents chan fsnotify.Event
		watchErrors chan error
	)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warnf("failed to create config file watcher: %v", err)
	} else {
		defer func() {
			if err := watcher.Close(); err != nil {
				logger.Warnf("failed to close config file watcher: %v", err)
			}
		}()
		if err := watcher.Add(configPath); err != nil {
			logger.Warnf("failed to watch config file %s: %v", configPath, err)
		} else {
			logger.Infof("watching config file for changes: %s", configPath)
		}
		watchEvents, watchErrors = watcher.Events, watcher.Errors
	}

	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				reloadDebug(configPath, forceDebug)
				continue
			}
			logger.Infof("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down http server: %w", err)
			}
			return nil
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("http server: %w", err)
		case event, ok := <-watchEvents:
			if !ok {
				watchEvents = nil
				continue
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)) {
				continue
			}
			logger.Debugf("config file changed: %s (%s)", event.Name, event.Op)
			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				time.Sleep(200 * time.Millisecond)
				if _, err := os.Stat(configPath); os.IsNotExist(err) {
					logger.Warnf("config file was removed and not replaced, skipping reload")
					continue
				}
				if err := watcher.Add(configPath); err != nil {
					logger.Warnf("failed to re-add config file to watcher: %v", err)
				}
			} else {
				time.Sleep(100 * time.Millisecond)
			}
			reloadDebug(configPath, forceDebug)
		case err, ok := <-watchErrors:
			if !ok {
				watchErrors = nil
				continue
			}
			logger.Warnf("config file watcher error: %v", err)
		}
	}
}

// reloadDebug re-reads the configuration and applies the debug key. The
// --debug flag keeps debug output on regardless of the file.
func reloadDebug(configPath string, forceDebug bool) bool {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Errorf("failed to reload configuration: %v", err)
		return log.GlobalDebug()
	}
	enabled := forceDebug || cfg.Debug
	if enabled != log.GlobalDebug() {
		log.SetGlobalDebug(enabled)
		logger.Infof("debug logging %s", map[bool]string{true: "enabled", false: "disabled"}[enabled])
	}
	return enabled
}

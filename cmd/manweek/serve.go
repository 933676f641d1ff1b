package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rpggio/manweek/internal/config"
	"github.com/rpggio/manweek/internal/domain/tracker"
	"github.com/rpggio/manweek/internal/driver"
	"github.com/rpggio/manweek/internal/idle"
	"github.com/rpggio/manweek/internal/mcp"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the tracker and an MCP server on stdio",
		Long: `Run the tracker loop and expose it as an MCP server over stdin/stdout.

The loop polls every driver.poll_interval. When driver.idle_command is set its
output (idle milliseconds, as printed by xprintidle) drives idle detection;
otherwise clients report activity with the ping_activity tool. Edits to the
config file are applied to the running tracker.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog := newLogger(cfg.Log)
	defer closeLog()

	a, err := openApp(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return err
	}
	defer a.Close()

	t, err := tracker.New(cfg.Tracker, a.store, idle.SystemClock{}, logger)
	if err != nil {
		return err
	}
	source, err := idle.NewSource(cfg.Driver.IdleCommand, logger)
	if err != nil {
		return err
	}
	drv := driver.New(t, source, cfg.Driver.PollInterval, logger)

	server := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Tracker:  drv,
			Projects: a.projects,
			Modes:    a.modes,
			Entries:  a.entries,
		},
		Logger:  logger,
		Version: version,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.Info("starting stdio transport", "db", cfg.DB.Path, "idle_command", cfg.Driver.IdleCommand)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return drv.Run(gctx)
	})
	g.Go(func() error {
		// Run returns when stdin closes; that ends the whole process.
		defer cancel()
		err := server.Run(gctx, &sdkmcp.StdioTransport{})
		if gctx.Err() != nil {
			return nil
		}
		return err
	})
	if cfg.Path != "" {
		g.Go(func() error {
			return config.Watch(gctx, cfg.Path, logger, func(next config.Config) {
				if err := drv.ApplySettings(next.Tracker); err != nil {
					logger.Warn("tracker settings not applied", "error", err)
				}
			})
		})
	}

	err = g.Wait()
	logger.Info("shutting down")
	return err
}

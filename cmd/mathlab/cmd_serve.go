package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mathlab/internal/config"
	"mathlab/internal/logging"
	"mathlab/internal/server"
	"mathlab/internal/session"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the math lab HTTP API",
	Long: `Starts the JSON API and the websocket Fibonacci stream. Sessions idle for
longer than server.session_ttl are dropped. Edits to the config file change
the log level without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func serverOptions(c *config.Config) server.Options {
	return server.Options{
		Addr:             c.Server.Addr,
		ReadTimeout:      c.GetReadTimeout(),
		WriteTimeout:     c.GetWriteTimeout(),
		FibMaxTerms:      c.Explore.FibMaxTerms,
		FibDefaultTerms:  c.Explore.FibDefaultTerms,
		AutoPlayInterval: c.GetAutoPlayInterval(),
		HistoryLimit:     c.History.DefaultLimit,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	history, err := openHistory()
	if err != nil {
		return err
	}
	defer history.Close()

	opts := serverOptions(cfg)
	if serveAddr != "" {
		opts.Addr = serveAddr
	}

	sessions := session.NewManager(cfg.GetSessionTTL(), logs.For(logging.CategorySession))
	srv := server.New(opts, sessions, history, logs.For(logging.CategoryServer))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return sessions.Run(gctx, 0) })
	if _, err := os.Stat(configPath); err == nil {
		g.Go(func() error {
			return config.Watch(gctx, configPath, logs.For(logging.CategoryConfig), applyReload)
		})
	}

	logger.Info("mathlab serving",
		zap.String("addr", opts.Addr),
		zap.Bool("history", history.Enabled()))
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// applyReload applies the parts of a reloaded config that can change while
// serving. --verbose keeps debug logging regardless of the file.
func applyReload(c *config.Config) {
	if verbose {
		logger.Info("config reloaded; log level pinned by --verbose", zap.String("level", c.Logging.Level))
		return
	}
	if err := logs.SetLevel(c.Logging.Level); err != nil {
		logger.Warn("ignoring reloaded log level", zap.Error(err))
		return
	}
	logger.Info("config reloaded", zap.String("level", c.Logging.Level))
}

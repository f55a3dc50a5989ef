// Package main provides the mathlab CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mathlab/cmd/mathlab/ui"
	"mathlab/internal/config"
	"mathlab/internal/logging"
	"mathlab/internal/store"
)

var (
	// Global flags
	verbose    bool
	configPath string
	themeName  string

	// Loaded in PersistentPreRunE; no-op until then
	cfg    *config.Config
	logs   = logging.Nop()
	logger = logs.Logger
	styles ui.Styles
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mathlab",
	Short: "mathlab - calculator, classifier and analyzer for school math",
	Long: `mathlab evaluates arithmetic, classifies free-text math input and analyzes
linear and quadratic polynomials: domain, range, derivative, roots, vertex and
a graph expression.

It also carries the quadratic solver and Fibonacci cards of the math lab page,
an HTTP API with a websocket auto-play stream, and an interactive REPL.

Run without arguments to start the REPL.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepl(cmd, args)
	},
}

// setup loads the config and builds the logger for every command.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if themeName != "" {
		cfg.UI.Theme = themeName
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	logs, err = logging.Build(logging.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Verbose:    verbose,
		Categories: cfg.Logging.Categories,
	})
	if err != nil {
		return err
	}
	logger = logs.Logger
	styles = ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))
	logger.Debug("config loaded", zap.String("path", configPath), zap.String("theme", cfg.UI.Theme))
	return nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme: light, dark or auto (default from config)")

	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(quadraticCmd)
	rootCmd.AddCommand(fibCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Danger.Render(err.Error()))
		os.Exit(1)
	}
}

// commandContext returns the command's context, or Background for commands
// invoked outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// joinArgs joins command arguments with spaces.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

// openHistory opens the configured history store, disabled when no database
// path is set.
func openHistory() (*store.Store, error) {
	return store.Open(cfg.History.DatabasePath, logs.For(logging.CategoryStore))
}

// record appends one entry to the history, logging instead of failing.
func record(cmd *cobra.Command, e store.Entry) {
	if cfg == nil || cfg.History.DatabasePath == "" {
		return
	}
	h, err := openHistory()
	if err != nil {
		logger.Warn("history unavailable", zap.Error(err))
		return
	}
	defer h.Close()
	if _, err := h.Record(commandContext(cmd), e); err != nil {
		logger.Warn("failed to record history", zap.Error(err))
	}
}

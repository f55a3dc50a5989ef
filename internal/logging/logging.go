// Package logging builds the process logger and hands out category-named
// children of it. Categories can be silenced individually from config.
package logging

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names one subsystem of mathlab.
type Category string

const (
	CategoryCalc     Category = "calc"
	CategoryClassify Category = "classify"
	CategoryAnalysis Category = "analysis"
	CategoryServer   Category = "server"
	CategorySession  Category = "session"
	CategoryStore    Category = "store"
	CategoryConfig   Category = "config"
)

// Categories returns every known category.
func Categories() []Category {
	return []Category{
		CategoryCalc, CategoryClassify, CategoryAnalysis, CategoryServer,
		CategorySession, CategoryStore, CategoryConfig,
	}
}

// Options configures Build.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Format is "json" or "text".
	Format string
	// Verbose forces debug level.
	Verbose bool
	// Categories switches individual categories off when mapped to false.
	// Unlisted categories are enabled.
	Categories map[string]bool
}

// ParseLevel maps a config level name to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger is the root logger plus the level it was built with, so the level
// can be changed after a config reload.
type Logger struct {
	*zap.Logger
	Atom     zap.AtomicLevel
	disabled map[Category]bool
}

// Build constructs the process logger from a production config, the way
// every mathlab binary does.
func Build(opts Options) (*Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		lvl = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	switch strings.ToLower(opts.Format) {
	case "", "json":
	case "text", "console":
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	root, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return Wrap(root, cfg.Level, opts.Categories), nil
}

// Wrap adapts an existing zap logger, typically zap.NewNop() or an observer
// in tests.
func Wrap(root *zap.Logger, level zap.AtomicLevel, categories map[string]bool) *Logger {
	if root == nil {
		root = zap.NewNop()
	}
	l := &Logger{Logger: root, Atom: level, disabled: map[Category]bool{}}
	for name, on := range categories {
		if !on {
			l.disabled[Category(name)] = true
		}
	}
	return l
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return Wrap(zap.NewNop(), zap.NewAtomicLevel(), nil)
}

// For returns the child logger of a category, or a no-op logger when the
// category is switched off.
func (l *Logger) For(cat Category) *zap.Logger {
	if l == nil || l.disabled[cat] {
		return zap.NewNop()
	}
	return l.Named(string(cat))
}

// SetLevel changes the level of every logger derived from l.
func (l *Logger) SetLevel(s string) error {
	lvl, err := ParseLevel(s)
	if err != nil {
		return err
	}
	l.Atom.SetLevel(lvl)
	return nil
}

// Timer measures one operation and logs its duration at debug level.
type Timer struct {
	logger *zap.Logger
	op     string
	start  time.Time
}

// StartTimer starts timing op.
func StartTimer(logger *zap.Logger, op string) *Timer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Timer{logger: logger, op: op, start: time.Now()}
}

// Stop logs and returns the elapsed time.
func (t *Timer) Stop(fields ...zap.Field) time.Duration {
	elapsed := time.Since(t.start)
	t.logger.Debug("operation completed", t.fields(elapsed, fields)...)
	return elapsed
}

// StopWithThreshold is Stop that warns when the operation took longer than
// threshold.
func (t *Timer) StopWithThreshold(threshold time.Duration, fields ...zap.Field) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		t.logger.Warn("slow operation",
			append(t.fields(elapsed, fields), zap.Duration("threshold", threshold))...)
		return elapsed
	}
	t.logger.Debug("operation completed", t.fields(elapsed, fields)...)
	return elapsed
}

func (t *Timer) fields(elapsed time.Duration, extra []zap.Field) []zap.Field {
	out := make([]zap.Field, 0, len(extra)+3)
	out = append(out, zap.String("op", t.op), zap.Duration("elapsed", elapsed))
	return append(out, extra...)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"mathlab/internal/explore"
	"mathlab/internal/logging"
)

// DefaultPath is where the CLI looks for its config file when --config is
// not given.
var DefaultPath = filepath.Join(".mathlab", "config.yaml")

// Config holds all mathlab configuration.
type Config struct {
	// HTTP server for the math lab page
	Server ServerConfig `yaml:"server"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Evaluation history
	History HistoryConfig `yaml:"history"`

	// Terminal presentation
	UI UIConfig `yaml:"ui"`

	// Quadratic and Fibonacci cards
	Explore ExploreConfig `yaml:"explore"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
	SessionTTL   string `yaml:"session_ttl"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`  // debug, info, warn, error
	Format     string          `yaml:"format"` // json, text
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// HistoryConfig configures the sqlite history store.
type HistoryConfig struct {
	// DatabasePath is empty when history is disabled.
	DatabasePath string `yaml:"database_path"`
	DefaultLimit int    `yaml:"default_limit"`
}

// UIConfig configures terminal output.
type UIConfig struct {
	Theme string `yaml:"theme"` // light, dark, auto
}

// ExploreConfig configures the interactive cards.
type ExploreConfig struct {
	FibMaxTerms      int    `yaml:"fib_max_terms"`
	FibDefaultTerms  int    `yaml:"fib_default_terms"`
	AutoPlayInterval string `yaml:"auto_play_interval"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         "localhost:8937",
			ReadTimeout:  "15s",
			WriteTimeout: "15s",
			SessionTTL:   "30m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		History: HistoryConfig{
			DefaultLimit: 20,
		},
		UI: UIConfig{
			Theme: "light",
		},
		Explore: ExploreConfig{
			FibMaxTerms:      90,
			FibDefaultTerms:  10,
			AutoPlayInterval: "700ms",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// YAML renders the configuration as it would be saved.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("MATHLAB_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if level := os.Getenv("MATHLAB_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if path := os.Getenv("MATHLAB_DB"); path != "" {
		c.History.DatabasePath = path
	}
	if theme := os.Getenv("MATHLAB_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GetReadTimeout returns the server read timeout as a duration.
func (c *Config) GetReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 15*time.Second)
}

// GetWriteTimeout returns the server write timeout as a duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 15*time.Second)
}

// GetSessionTTL returns how long an idle session is kept.
func (c *Config) GetSessionTTL() time.Duration {
	return parseDuration(c.Server.SessionTTL, 30*time.Minute)
}

// GetAutoPlayInterval returns the Fibonacci auto-play tick.
func (c *Config) GetAutoPlayInterval() time.Duration {
	return parseDuration(c.Explore.AutoPlayInterval, 700*time.Millisecond)
}

// ValidThemes lists the accepted ui.theme values.
var ValidThemes = []string{"light", "dark", "auto"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "text", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}

	for name := range c.Logging.Categories {
		if !knownCategory(name) {
			errs = append(errs, fmt.Errorf("logging.categories: unknown category %q (valid: %v)", name, logging.Categories()))
		}
	}

	validTheme := false
	for _, t := range ValidThemes {
		if strings.EqualFold(c.UI.Theme, t) {
			validTheme = true
			break
		}
	}
	if !validTheme {
		errs = append(errs, fmt.Errorf("ui.theme: invalid theme %q (valid: %v)", c.UI.Theme, ValidThemes))
	}

	if c.Explore.FibMaxTerms < explore.MinPlayerTerms || c.Explore.FibMaxTerms > explore.MaxTerms {
		errs = append(errs, fmt.Errorf("explore.fib_max_terms: %d outside [%d, %d]",
			c.Explore.FibMaxTerms, explore.MinPlayerTerms, explore.MaxTerms))
	} else if c.Explore.FibDefaultTerms < explore.MinPlayerTerms || c.Explore.FibDefaultTerms > c.Explore.FibMaxTerms {
		errs = append(errs, fmt.Errorf("explore.fib_default_terms: %d outside [%d, %d]",
			c.Explore.FibDefaultTerms, explore.MinPlayerTerms, c.Explore.FibMaxTerms))
	}

	if c.History.DefaultLimit < 0 {
		errs = append(errs, fmt.Errorf("history.default_limit: must not be negative"))
	}

	return errors.Join(errs...)
}

func knownCategory(name string) bool {
	for _, cat := range logging.Categories() {
		if string(cat) == name {
			return true
		}
	}
	return false
}

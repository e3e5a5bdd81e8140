package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"loghealth/internal/analyzer"
	"loghealth/internal/chart"
	"loghealth/internal/logs"
	"loghealth/internal/watch"
	apperrors "loghealth/pkg/errors"
)

// ServerConfig controls the HTTP presentation layer.
type ServerConfig struct {
	Addr          string        `yaml:"addr"`
	MaxInputBytes int64         `yaml:"max_input_bytes"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
}

// ChartsConfig controls chart rendering and how long charts are kept.
type ChartsConfig struct {
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	Width           int           `yaml:"width"`
	Height          int           `yaml:"height"`
}

// Options returns the render size.
func (c ChartsConfig) Options() chart.Options {
	return chart.Options{Width: c.Width, Height: c.Height}
}

// RetryConfig controls how a failed tail session is restarted.
type RetryConfig struct {
	MaxRetries  int           `yaml:"max_retries"`
	BaseBackoff time.Duration `yaml:"base_backoff"`
	MaxBackoff  time.Duration `yaml:"max_backoff"`
}

// WatchConfig controls the follow mode.
type WatchConfig struct {
	WindowLines int           `yaml:"window_lines"`
	Interval    time.Duration `yaml:"interval"`
	FromStart   bool          `yaml:"from_start"`
	Retry       RetryConfig   `yaml:"retry"`
}

// Options converts the section into watcher options.
func (c WatchConfig) Options() watch.Options {
	return watch.Options{
		WindowLines: c.WindowLines,
		Interval:    c.Interval,
		FromStart:   c.FromStart,
		Retry: watch.RetryPolicy{
			MaxRetries:  c.Retry.MaxRetries,
			BaseBackoff: c.Retry.BaseBackoff,
			MaxBackoff:  c.Retry.MaxBackoff,
			JitterFn:    watch.HalfJitter,
		},
	}
}

// Config is the root of the YAML configuration file.
type Config struct {
	Server  ServerConfig              `yaml:"server"`
	Charts  ChartsConfig              `yaml:"charts"`
	Logging logs.Config               `yaml:"logging"`
	Rules   []analyzer.RuleDefinition `yaml:"rules,omitempty"`
	Watch   WatchConfig               `yaml:"watch"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	opts := chart.DefaultOptions()
	retry := watch.DefaultRetryPolicy()
	return &Config{
		Server: ServerConfig{
			Addr:          ":8080",
			MaxInputBytes: 10 << 20,
			ReadTimeout:   30 * time.Second,
			WriteTimeout:  30 * time.Second,
		},
		Charts: ChartsConfig{
			TTL:             10 * time.Minute,
			CleanupInterval: time.Minute,
			Width:           opts.Width,
			Height:          opts.Height,
		},
		Logging: logs.DefaultConfig(),
		Watch: WatchConfig{
			WindowLines: 1000,
			Interval:    5 * time.Second,
			Retry: RetryConfig{
				MaxRetries:  retry.MaxRetries,
				BaseBackoff: retry.BaseBackoff,
				MaxBackoff:  retry.MaxBackoff,
			},
		},
	}
}

// Load reads path on top of the defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", apperrors.ErrConfigInvalid, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0600)
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks every section and compiles custom rules.
func (c *Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return apperrors.NewConfigError("server.addr", c.Server.Addr)
	case c.Server.MaxInputBytes <= 0:
		return apperrors.NewConfigError("server.max_input_bytes", c.Server.MaxInputBytes)
	case c.Server.ReadTimeout < 0:
		return apperrors.NewConfigError("server.read_timeout", c.Server.ReadTimeout)
	case c.Server.WriteTimeout < 0:
		return apperrors.NewConfigError("server.write_timeout", c.Server.WriteTimeout)
	case c.Charts.TTL < 0:
		return apperrors.NewConfigError("charts.ttl", c.Charts.TTL)
	case c.Charts.CleanupInterval <= 0:
		return apperrors.NewConfigError("charts.cleanup_interval", c.Charts.CleanupInterval)
	case c.Charts.Width < chart.MinWidth:
		return apperrors.NewConfigError("charts.width", c.Charts.Width)
	case c.Charts.Height < chart.MinHeight:
		return apperrors.NewConfigError("charts.height", c.Charts.Height)
	case !validLevels[strings.ToLower(c.Logging.Level)]:
		return apperrors.NewConfigError("logging.level", c.Logging.Level)
	case c.Logging.RingSize < 0:
		return apperrors.NewConfigError("logging.ring_size", c.Logging.RingSize)
	case c.Watch.WindowLines <= 0:
		return apperrors.NewConfigError("watch.window_lines", c.Watch.WindowLines)
	case c.Watch.Interval <= 0:
		return apperrors.NewConfigError("watch.interval", c.Watch.Interval)
	case c.Watch.Retry.MaxRetries < 0:
		return apperrors.NewConfigError("watch.retry.max_retries", c.Watch.Retry.MaxRetries)
	case c.Watch.Retry.BaseBackoff <= 0:
		return apperrors.NewConfigError("watch.retry.base_backoff", c.Watch.Retry.BaseBackoff)
	case c.Watch.Retry.MaxBackoff < c.Watch.Retry.BaseBackoff:
		return apperrors.NewConfigError("watch.retry.max_backoff", c.Watch.Retry.MaxBackoff)
	}

	if _, err := analyzer.CompileRules(c.Rules); err != nil {
		return err
	}
	return nil
}

// CompiledRules compiles the custom rule section.
func (c *Config) CompiledRules() ([]analyzer.CompiledRule, error) {
	return analyzer.CompileRules(c.Rules)
}

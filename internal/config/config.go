// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Search    SearchConfig    `yaml:"search"`
	RefData   RefDataConfig   `yaml:"refdata"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// APIConfig defines the marketplace API connection settings.
type APIConfig struct {
	BaseURL   string          `yaml:"base_url"`
	Timeout   time.Duration   `yaml:"timeout"`
	AuthToken string          `yaml:"auth_token"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines client-side API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// SearchConfig defines listing query behavior.
type SearchConfig struct {
	PageSize int           `yaml:"page_size"`
	Debounce time.Duration `yaml:"debounce"`
}

// RefDataConfig defines reference-data cache behavior.
type RefDataConfig struct {
	SnapshotPath string `yaml:"snapshot_path"` // empty disables the on-disk snapshot
}

// DashboardConfig defines dashboard polling behavior.
type DashboardConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with every default applied and no file read.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyAPIDefaults(&cfg.API)
	applySearchDefaults(&cfg.Search)
	applyDashboardDefaults(&cfg.Dashboard)
	applyLoggingDefaults(&cfg.Logging)
}

func applyAPIDefaults(a *APIConfig) {
	if a.Timeout == 0 {
		a.Timeout = 30 * time.Second
	}
	applyRateLimitDefaults(&a.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 5.0
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 5000
	}
}

func applySearchDefaults(s *SearchConfig) {
	if s.PageSize == 0 {
		s.PageSize = 20
	}
	if s.Debounce == 0 {
		s.Debounce = 500 * time.Millisecond
	}
}

func applyDashboardDefaults(d *DashboardConfig) {
	if d.PollInterval == 0 {
		d.PollInterval = 30 * time.Second
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("api.base_url is required"))
	}
	if cfg.Search.PageSize < 1 {
		errs = append(errs, fmt.Errorf("search.page_size must be positive (got %d)", cfg.Search.PageSize))
	}
	if cfg.Search.Debounce < 0 {
		errs = append(errs, fmt.Errorf("search.debounce must not be negative"))
	}
	if cfg.Dashboard.PollInterval < time.Second {
		errs = append(errs, fmt.Errorf(
			"dashboard.poll_interval must be at least 1s (got %s)",
			cfg.Dashboard.PollInterval,
		))
	}

	return errors.Join(errs...)
}

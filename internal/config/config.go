// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"fmt"
	"strings"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQL    = "sql"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Store selects the project store: memory or sql.
	Store string `koanf:"store"`

	// DBDriver and DBDSN configure the sql store. An empty DSN selects a
	// local default for the driver.
	DBDriver string `koanf:"db_driver"`
	DBDSN    string `koanf:"db_dsn"`

	// StrictValidation rejects out-of-range scores and incomplete projects
	// on write.
	StrictValidation bool `koanf:"strict_validation"`

	// TopN sets how many projects the report's top section lists.
	TopN int `koanf:"top_n"`

	// MaxLeaderboardLimit caps GET /projects?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// CORSOrigins lists origins allowed to call the API. Empty disables CORS.
	CORSOrigins []string `koanf:"cors_origins"`

	// ReportDir is where the export command writes workbooks.
	ReportDir string `koanf:"report_dir"`
}

// New creates a Config with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		Store:               StoreMemory,
		DBDriver:            "sqlite",
		TopN:                10,
		MaxLeaderboardLimit: 100,
		ReportDir:           ".",
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.Store {
	case StoreMemory, StoreSQL:
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: unknown db_driver %q", ErrInvalidConfig, c.DBDriver)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be positive", ErrInvalidConfig)
	}
	if c.MaxLeaderboardLimit <= 0 {
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	}
	return nil
}

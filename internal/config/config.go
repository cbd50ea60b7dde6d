package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the prompt service.
// Environment variables are parsed from the PROMPT_VAULT_ prefix.
type Config struct {
	// DBDriver selects the storage backend: fs, sqlite or postgres.
	DBDriver string `envconfig:"DB_DRIVER" default:"fs"`

	// FSRoot is the prompt directory for the fs backend.
	FSRoot string `envconfig:"FS_ROOT" default:""`

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `envconfig:"SQLITE_PATH" default:""`

	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// UsageStatsFile optionally points at a JSON usage-stats snapshot
	// ({"favorites":[...],"recents":[...]}) used to bias ranking.
	UsageStatsFile string `envconfig:"USAGE_STATS_FILE" default:""`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`
}

// ResolveDefaults validates the driver choice and fills driver-specific
// defaults.
func (c *Config) ResolveDefaults() error {
	switch c.DBDriver {
	case "fs":
		if c.FSRoot == "" {
			c.FSRoot = "./prompts"
		}
	case "sqlite":
		if c.SQLitePath == "" {
			c.SQLitePath = "./prompts.db"
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("PROMPT_VAULT_POSTGRES_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

// New creates a Config by parsing environment variables.
// Example: PROMPT_VAULT_DB_DRIVER, PROMPT_VAULT_HTTP_PORT.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("PROMPT_VAULT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Str("fs_root", cfg.FSRoot).
		Str("sqlite_path", cfg.SQLitePath).
		Str("postgres_dsn_present", func() string {
			if cfg.PostgresDSN != "" {
				return "true"
			}
			return "false"
		}()).
		Int("port", cfg.HTTPPort).
		Msg("Configuration loaded")

	return &cfg, nil
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

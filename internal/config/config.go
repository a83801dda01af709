// Package config loads service configuration from the environment, with
// optional draft defaults from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the full service configuration.
type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DB   DBConfig
	NATS NATSConfig

	// DraftDefaultsPath points at an optional YAML file overriding the
	// built-in draft defaults.
	DraftDefaultsPath string `env:"DRAFT_DEFAULTS_PATH"`
	Draft             DraftDefaults
}

// DBConfig holds Postgres connection settings.
type DBConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	Database string `env:"DB_NAME" envDefault:"draftd"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// DSN returns the Postgres connection URL.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// NATSConfig holds event bus settings. With URL empty the service runs
// single-process and broadcasts in-memory.
type NATSConfig struct {
	URL           string        `env:"NATS_URL"`
	SubjectPrefix string        `env:"NATS_SUBJECT_PREFIX" envDefault:"draft.events"`
	ReconnectWait time.Duration `env:"NATS_RECONNECT_WAIT" envDefault:"2s"`
}

// DraftDefaults are league-independent draft settings. TimePerPickSec is the
// pick clock for leagues that do not set their own.
type DraftDefaults struct {
	TimePerPickSec     int    `yaml:"time_per_pick_sec" env:"DRAFT_TIME_PER_PICK_SEC" envDefault:"90"`
	RosterNeedAutoPick bool   `yaml:"roster_need_auto_pick" env:"DRAFT_ROSTER_NEED_AUTO_PICK" envDefault:"true"`
	Season             string `yaml:"season" env:"DRAFT_SEASON" envDefault:"2026"`
}

// Load parses the environment, then overlays YAML draft defaults if a file
// is configured. Environment values win over YAML.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.DraftDefaultsPath != "" {
		data, err := os.ReadFile(cfg.DraftDefaultsPath)
		if err != nil {
			return nil, fmt.Errorf("read draft defaults: %w", err)
		}
		var fromFile DraftDefaults
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return nil, fmt.Errorf("parse draft defaults: %w", err)
		}
		cfg.Draft = mergeDraftDefaults(fromFile, cfg.Draft)
	}

	return &cfg, nil
}

// mergeDraftDefaults overlays explicitly-set environment values on top of
// the YAML file values.
func mergeDraftDefaults(file, envCfg DraftDefaults) DraftDefaults {
	merged := file
	if _, set := os.LookupEnv("DRAFT_TIME_PER_PICK_SEC"); set {
		merged.TimePerPickSec = envCfg.TimePerPickSec
	}
	if _, set := os.LookupEnv("DRAFT_ROSTER_NEED_AUTO_PICK"); set {
		merged.RosterNeedAutoPick = envCfg.RosterNeedAutoPick
	}
	if _, set := os.LookupEnv("DRAFT_SEASON"); set {
		merged.Season = envCfg.Season
	}
	if merged.TimePerPickSec == 0 {
		merged.TimePerPickSec = envCfg.TimePerPickSec
	}
	if merged.Season == "" {
		merged.Season = envCfg.Season
	}
	return merged
}

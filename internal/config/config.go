// Package config loads environment driven configuration for the migration
// tool.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures environment driven configuration values.
type Config struct {
	// DatabasePath is the SQLite database file the bot and the migration
	// tool share.
	DatabasePath string `env:"NEWSBOT_DATABASE" envDefault:"newsbot.db"`

	// BackupDir receives pre-migration backups. Empty means alongside the
	// database file.
	BackupDir string `env:"NEWSBOT_BACKUP_DIR"`

	// BusyTimeout is how long SQLite waits on a locked database.
	BusyTimeout time.Duration `env:"NEWSBOT_BUSY_TIMEOUT" envDefault:"30s"`
}

// Load parses configuration values from the current process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}

	if strings.TrimSpace(cfg.DatabasePath) == "" {
		return Config{}, fmt.Errorf("config: NEWSBOT_DATABASE cannot be empty")
	}
	if cfg.BusyTimeout < 0 {
		return Config{}, fmt.Errorf("config: NEWSBOT_BUSY_TIMEOUT cannot be negative")
	}

	return cfg, nil
}

// File path: internal/sqlite/config.go
package sqlite

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config controls the SQLite catalog connection pool.
type Config struct {
	Path            string
	BusyTimeout     time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// LoadConfig assembles catalog settings from the environment with defaults.
func LoadConfig() (Config, error) {
	cfg := Config{}
	if path := strings.TrimSpace(os.Getenv("STUDYBUDDY_CATALOG_PATH")); path != "" {
		cfg.Path = path
	}
	if raw := strings.TrimSpace(os.Getenv("STUDYBUDDY_CATALOG_BUSY_TIMEOUT")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse STUDYBUDDY_CATALOG_BUSY_TIMEOUT: %w", err)
		}
		cfg.BusyTimeout = parsed
	}
	if raw := strings.TrimSpace(os.Getenv("STUDYBUDDY_CATALOG_MAX_OPEN_CONNS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse STUDYBUDDY_CATALOG_MAX_OPEN_CONNS: %w", err)
		}
		cfg.MaxOpenConns = value
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Path) == "" {
		c.Path = "studybuddy_catalog.db"
	}
	if c.BusyTimeout <= 0 {
		c.BusyTimeout = 5 * time.Second
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 4
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 2
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = time.Hour
	}
	if c.ConnMaxIdleTime <= 0 {
		c.ConnMaxIdleTime = 10 * time.Minute
	}
}

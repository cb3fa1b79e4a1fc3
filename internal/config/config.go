package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"playwise/internal/lookup"
)

// Config holds all configuration for the application
type Config struct {
	// Application settings
	Port    string `envconfig:"PORT" default:"8080"`
	GinMode string `envconfig:"GIN_MODE" default:"debug"`
	BaseURL string `envconfig:"BASE_URL" default:"http://localhost:8080"`

	// Engine settings
	DedupePolicy string `envconfig:"DEDUPE_POLICY" default:"first"`
	SkipCapacity int    `envconfig:"SKIP_CAPACITY" default:"10"`
	UndoHistory  int    `envconfig:"UNDO_HISTORY" default:"50"`

	// Snapshot cache. ValkeyURL is optional; when empty the server uses an
	// in-process cache.
	ValkeyURL     string        `envconfig:"VALKEY_URL"`
	SnapshotTTL   time.Duration `envconfig:"SNAPSHOT_TTL" default:"5s"`
	CacheMaxItems int           `envconfig:"CACHE_MAX_ITEMS" default:"128"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch lookup.Policy(c.DedupePolicy) {
	case lookup.KeepFirst, lookup.KeepLatest:
	default:
		return fmt.Errorf("invalid DEDUPE_POLICY %q: want %q or %q", c.DedupePolicy, lookup.KeepFirst, lookup.KeepLatest)
	}
	if c.SkipCapacity <= 0 {
		return fmt.Errorf("SKIP_CAPACITY must be positive, got %d", c.SkipCapacity)
	}
	if c.UndoHistory <= 0 {
		return fmt.Errorf("UNDO_HISTORY must be positive, got %d", c.UndoHistory)
	}
	if c.SnapshotTTL < 0 {
		return fmt.Errorf("SNAPSHOT_TTL cannot be negative, got %s", c.SnapshotTTL)
	}
	return nil
}

// Policy returns the configured duplicate handling policy.
func (c *Config) Policy() lookup.Policy {
	return lookup.ParsePolicy(c.DedupePolicy)
}

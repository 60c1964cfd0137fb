// Package config resolves settings from defaults, a TOML file and TADA_*
// environment variables, in that order. Command-line flags are applied on
// top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/idilsaglam/tada/internal/kv"
	"github.com/idilsaglam/tada/internal/view"
)

type Config struct {
	Backend  string `toml:"backend" env:"TADA_BACKEND"`
	DataDir  string `toml:"data_dir" env:"TADA_DATA_DIR"`
	Key      string `toml:"key" env:"TADA_KEY"`
	RedisURL string `toml:"redis_url" env:"TADA_REDIS_URL"`

	PageSize int    `toml:"page_size" env:"TADA_PAGE_SIZE"`
	Theme    string `toml:"theme" env:"TADA_THEME"`
	LogLevel string `toml:"log_level" env:"TADA_LOG_LEVEL"`

	QueueSize    int           `toml:"queue_size" env:"TADA_QUEUE_SIZE"`
	WriteRetries int           `toml:"write_retries" env:"TADA_WRITE_RETRIES"`
	RetryDelay   time.Duration `toml:"retry_delay" env:"TADA_RETRY_DELAY"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Backend:      kv.BackendFile,
		DataDir:      defaultDataDir(),
		Key:          "todoLists",
		PageSize:     view.DefaultPageSize,
		Theme:        "classic",
		LogLevel:     "info",
		QueueSize:    64,
		WriteRetries: 3,
		RetryDelay:   50 * time.Millisecond,
	}
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".tada"
	}
	return filepath.Join(dir, "tada")
}

// DefaultPath is where Load looks when no file is given.
func DefaultPath() string {
	if p := strings.TrimSpace(os.Getenv("TADA_CONFIG")); p != "" {
		return p
	}
	return filepath.Join(defaultDataDir(), "config.toml")
}

// Load reads path (or DefaultPath when empty) over the defaults, then applies
// the environment. A missing default file is fine; a missing explicit one
// is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath()
	}
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the store cannot run with.
func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Backend)) {
	case kv.BackendFile, kv.BackendBolt, kv.BackendSQLite, kv.BackendMemory:
	case kv.BackendRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("backend redis needs redis_url")
		}
	default:
		return fmt.Errorf("backend: %w: %q", kv.ErrUnknownBackend, c.Backend)
	}
	switch strings.ToLower(strings.TrimSpace(c.Theme)) {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("theme must be classic, neon or mono, got %q", c.Theme)
	}
	if strings.TrimSpace(c.Key) == "" {
		return fmt.Errorf("key must not be empty")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("queue_size must be positive, got %d", c.QueueSize)
	}
	if c.WriteRetries < 0 {
		return fmt.Errorf("write_retries must not be negative, got %d", c.WriteRetries)
	}
	return nil
}

// KVOptions selects the backend described by c.
func (c Config) KVOptions() kv.Options {
	return kv.Options{Backend: c.Backend, Dir: c.DataDir, RedisURL: c.RedisURL}
}

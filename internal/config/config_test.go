package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/idilsaglam/tada/internal/kv"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Setenv("TADA_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := Default()
	if cfg != def {
		t.Fatalf("got %+v, want defaults %+v", cfg, def)
	}
	if cfg.Key != "todoLists" || cfg.PageSize != 8 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	p := writeFile(t, `
backend = "sqlite"
data_dir = "/tmp/tada-test"
page_size = 5
retry_delay = "250ms"
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != kv.BackendSQLite || cfg.DataDir != "/tmp/tada-test" || cfg.PageSize != 5 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.RetryDelay != 250*time.Millisecond {
		t.Fatalf("retry_delay = %v", cfg.RetryDelay)
	}
	if cfg.Theme != "classic" {
		t.Fatalf("unset keys should keep defaults, theme = %q", cfg.Theme)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	p := writeFile(t, `backend = "sqlite"
page_size = 5`)
	t.Setenv("TADA_BACKEND", "bolt")
	t.Setenv("TADA_WRITE_RETRIES", "7")

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != kv.BackendBolt || cfg.WriteRetries != 7 {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.PageSize != 5 {
		t.Fatalf("file value lost: page_size = %d", cfg.PageSize)
	}
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoad_BadTOML(t *testing.T) {
	p := writeFile(t, `backend = `)
	if _, err := Load(p); err == nil || !strings.Contains(err.Error(), "config file") {
		t.Fatalf("expected config file error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Backend = "etcd"
	if err := cfg.Validate(); !errors.Is(err, kv.ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}

	cfg = Default()
	cfg.Backend = kv.BackendRedis
	if err := cfg.Validate(); err == nil {
		t.Fatal("redis without url should fail")
	}
	cfg.RedisURL = "redis://localhost:6379/0"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("redis with url: %v", err)
	}

	cfg = Default()
	cfg.PageSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero page size should fail")
	}

	cfg = Default()
	cfg.Backend = " bolt "
	if err := cfg.Validate(); err != nil {
		t.Fatalf("padded backend name: %v", err)
	}
	backend, err := kv.Open(context.Background(), kv.Options{Backend: cfg.Backend, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("kv.Open disagrees with Validate: %v", err)
	}
	_ = backend.Close()

	cfg = Default()
	cfg.Theme = "sparkly"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown theme should fail")
	}
}

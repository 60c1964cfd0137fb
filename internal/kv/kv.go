// Package kv provides the key-value slot the list snapshot is persisted in.
//
// Every backend stores opaque blobs under string keys. A missing key is not an
// error: Get reports it with ok == false.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store is the persistence collaborator used by the list store.
type Store interface {
	Get(ctx context.Context, key string) (blob []byte, ok bool, err error)
	Set(ctx context.Context, key string, blob []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

var ErrUnknownBackend = errors.New("unknown backend")

// Options select and locate a backend.
type Options struct {
	Backend  string
	Dir      string // file, bolt, sqlite
	RedisURL string // redis
}

// Open returns the backend named by opt.Backend.
func Open(ctx context.Context, opt Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opt.Backend)) {
	case BackendFile, "":
		return NewFileStore(opt.Dir)
	case BackendBolt:
		return OpenBolt(opt.Dir)
	case BackendSQLite:
		return OpenSQLite(ctx, opt.Dir)
	case BackendRedis:
		return OpenRedis(ctx, opt.RedisURL)
	case BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opt.Backend)
}

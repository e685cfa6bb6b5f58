// internal/store/kv.go
//
// Key/value persistence used by the score ledger.
// Backends: memory (default), SQLite, Redis and Postgres. Each stores a
// string value under a string key; the ledger keeps one JSON document per
// namespaced key, so no backend needs to understand the document.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/robalobadob/cardgames/internal/config"
)

var ErrNotFound = errors.New("not found")

// KV is an opaque string store.
type KV interface {
	// Get returns ErrNotFound when the key has never been set.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Open builds the backend named by cfg.Backend.
func Open(ctx context.Context, cfg config.StoreConfig) (KV, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		return NewMemoryKV(), nil
	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case config.BackendRedis:
		return OpenRedis(ctx, &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case config.BackendPostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("POSTGRES_DSN is required for the postgres backend")
		}
		return OpenPostgres(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown score backend %q", cfg.Backend)
	}
}

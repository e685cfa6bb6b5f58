package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/robalobadob/cardgames/internal/config"
)

// exerciseKV runs the shared contract against any backend.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()
	key := "test:" + NewID()

	if _, err := kv.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
	}
	if err := kv.Set(ctx, key, `{"a":1}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set(ctx, key, `{"a":2}`); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, err := kv.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != `{"a":2}` {
		t.Fatalf("Get = %q", got)
	}
}

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()
	defer kv.Close()
	exerciseKV(t, kv)
}

func TestSQLiteKV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scores.db")
	kv, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	exerciseKV(t, kv)
	if err := kv.Set(context.Background(), "persist", "yes"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen: migrations are skipped and data survives.
	kv, err = OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv.Close()
	if v, err := kv.Get(context.Background(), "persist"); err != nil || v != "yes" {
		t.Fatalf("Get after reopen = %q, %v", v, err)
	}
}

func TestRedisKV(t *testing.T) {
	cfg, err := config.LoadRedisTest()
	if err != nil {
		t.Skipf("skip redis: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	kv, err := OpenRedis(ctx, &redis.Options{Addr: cfg.TestRedisAddr})
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	defer kv.Close()
	exerciseKV(t, kv)
}

func TestPostgresKV(t *testing.T) {
	cfg, err := config.LoadPostgresTest()
	if err != nil {
		t.Skipf("skip postgres: %v", err)
	}
	kv, err := OpenPostgres(context.Background(), cfg.TestPostgresDSN)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	defer kv.Close()
	exerciseKV(t, kv)
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()
	kv, err := Open(ctx, config.StoreConfig{Backend: config.BackendMemory})
	if err != nil {
		t.Fatalf("Open(memory): %v", err)
	}
	if _, ok := kv.(*memoryKV); !ok {
		t.Fatalf("Open(memory) = %T", kv)
	}

	kv, err = Open(ctx, config.StoreConfig{Backend: config.BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "s.db")})
	if err != nil {
		t.Fatalf("Open(sqlite): %v", err)
	}
	defer kv.Close()
	if _, ok := kv.(*sqliteKV); !ok {
		t.Fatalf("Open(sqlite) = %T", kv)
	}

	if _, err := Open(ctx, config.StoreConfig{Backend: config.BackendPostgres}); err == nil {
		t.Fatal("Open(postgres) without DSN should fail")
	}
	if _, err := Open(ctx, config.StoreConfig{Backend: "etcd"}); err == nil {
		t.Fatal("Open(etcd) should fail")
	}
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := NewSessions[*int]()
	if _, err := s.Get(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v := i
			_ = s.Save(ctx, fmt.Sprintf("s%d", i), &v)
		}(i)
	}
	wg.Wait()
	if s.Len() != 50 {
		t.Fatalf("Len = %d, want 50", s.Len())
	}
	v, err := s.Get(ctx, "s7")
	if err != nil || *v != 7 {
		t.Fatalf("Get(s7) = %v, %v", v, err)
	}
	s.Delete(ctx, "s7")
	if _, err := s.Get(ctx, "s7"); !errors.Is(err, ErrNotFound) {
		t.Fatal("Delete did not remove s7")
	}
}

func TestNewIDSortable(t *testing.T) {
	prev := NewID()
	for i := 0; i < 100; i++ {
		id := NewID()
		if len(id) != 26 {
			t.Fatalf("id %q has length %d", id, len(id))
		}
		if id <= prev {
			t.Fatalf("ids not increasing: %s then %s", prev, id)
		}
		prev = id
	}
}

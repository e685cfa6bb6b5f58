package config

import "testing"

func TestLoadStoreDefaults(t *testing.T) {
	cfg, err := LoadStore()
	if err != nil {
		t.Fatalf("LoadStore() error = %v", err)
	}
	if cfg.Backend != BackendMemory {
		t.Fatalf("Backend = %q, want %q", cfg.Backend, BackendMemory)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("RedisAddr = %q", cfg.RedisAddr)
	}
}

func TestLoadStoreOverrides(t *testing.T) {
	t.Setenv("SCORE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "10.0.0.5:6380")
	t.Setenv("REDIS_DB", "3")

	cfg, err := LoadStore()
	if err != nil {
		t.Fatalf("LoadStore() error = %v", err)
	}
	if cfg.Backend != BackendRedis || cfg.RedisAddr != "10.0.0.5:6380" || cfg.RedisDB != 3 {
		t.Fatalf("unexpected store config: %+v", cfg)
	}
}

func TestLoadRedisTestRequiresAddr(t *testing.T) {
	t.Setenv("TEST_REDIS_ADDR", "")

	if _, err := LoadRedisTest(); err == nil {
		t.Fatal("LoadRedisTest() expected error, got nil")
	}
}

package config

import "github.com/caarlos0/env/v11"

type RedisTestConfig struct {
	TestRedisAddr string `env:"TEST_REDIS_ADDR,required,notEmpty"`
}

type PostgresTestConfig struct {
	TestPostgresDSN string `env:"TEST_POSTGRES_DSN,required,notEmpty"`
}

func LoadRedisTest() (RedisTestConfig, error) {
	var cfg RedisTestConfig
	err := env.Parse(&cfg)
	return cfg, err
}

func LoadPostgresTest() (PostgresTestConfig, error) {
	var cfg PostgresTestConfig
	err := env.Parse(&cfg)
	return cfg, err
}

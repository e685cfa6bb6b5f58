package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":5175"`
	ClientOrigin   string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`

	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	Production     bool   `env:"PRODUCTION" envDefault:"false"`

	// CardsFile wins over CardsURL; both empty means the embedded catalog.
	CardsFile string `env:"CARDS_FILE"`
	CardsURL  string `env:"CARDS_URL"`

	DailySalt string `env:"DAILY_SALT" envDefault:"local_dev_salt"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}

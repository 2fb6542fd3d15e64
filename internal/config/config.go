// Package config loads environment-driven configuration, with a .env file
// honored in development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the settings for both binaries.
type Config struct {
	// ListenAddr is the session front-end bind address.
	ListenAddr string `env:"WHEEL_LISTEN_ADDR" envDefault:":8080"`
	// AuthorityListenAddr is the reference authority bind address.
	AuthorityListenAddr string `env:"WHEEL_AUTHORITY_LISTEN_ADDR" envDefault:":5000"`
	// APIBaseURL is where the session gateway reaches the authority.
	APIBaseURL string `env:"WHEEL_API_BASE_URL" envDefault:"http://localhost:5000/api"`
	// APITimeout bounds each gateway call.
	APITimeout time.Duration `env:"WHEEL_API_TIMEOUT" envDefault:"10s"`
	// SpinDuration is the wheel animation floor duration.
	SpinDuration time.Duration `env:"WHEEL_SPIN_DURATION" envDefault:"5s"`
	// DBPath is the SQLite session database location.
	DBPath string `env:"WHEEL_DB_PATH" envDefault:"wheel-session.db"`
}

// Load reads the optional .env file and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

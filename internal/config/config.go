package config

import (
	"fmt"
	"time"

	"github.com/AdamBeresnev/pong-tournament-app/internal/arena"
	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	DBPath          string        `env:"DB_PATH" envDefault:"app.db"`
	SessionLifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"168h"`

	Arena arena.Config
}

// Load reads configuration from the environment. Call godotenv.Load first
// if a .env file should be picked up.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

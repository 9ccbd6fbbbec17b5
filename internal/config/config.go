// Package config loads application configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting. Values come from environment
// variables; cmd binaries load a .env file first so local development works
// without exporting anything.
type Config struct {
	Port   int    `env:"PORT" envDefault:"8787"`
	DBPath string `env:"DB_PATH" envDefault:"data/kudos.db"`

	// AdminToken protects POST /forms and the /admin routes. When empty
	// the admin gate rejects every request rather than admitting them.
	AdminToken string `env:"ADMIN_TOKEN"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	return cfg, nil
}

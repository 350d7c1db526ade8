package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration. It is built once at startup
// and passed by reference; nothing in the codebase reads the environment
// after Load returns.
type Config struct {
	ServerPort    int           `env:"PORT" envDefault:"8080"`
	DatabasePath  string        `env:"DATABASE_PATH" envDefault:"./fluxfeed.db"`
	JWTSecret     string        `env:"JWT_SECRET,required"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"10"`
	SnapshotSpec  string        `env:"SNAPSHOT_SPEC" envDefault:"@every 15m"`
	AllowedOrigin string        `env:"ALLOWED_ORIGIN" envDefault:"http://localhost:3000"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

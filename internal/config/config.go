// Package config loads runtime configuration from the environment.
package config

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime configuration for the service. RateLimit is the
// number of API requests allowed per client IP per minute; 0 disables it.
type Config struct {
	Addr           string   `env:"ADDR,default=:8080"`
	DBPath         string   `env:"DB_PATH,default=devicetrack.sqlite3"`
	LogLevel       string   `env:"LOG_LEVEL,default=info"`
	SystemActor    string   `env:"SYSTEM_ACTOR,default=Admin"`
	DigestSchedule string   `env:"DIGEST_SCHEDULE,default=0 7 * * 1"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS,default=*"`
	RateLimit      int      `env:"API_RATE_LIMIT,default=300"`
}

// Load reads an optional .env file and returns a Config populated from
// environment variables. Variables already set take precedence over .env.
func Load(ctx context.Context) (Config, error) {
	_ = godotenv.Load()
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return Config{}, fmt.Errorf("processing environment: %w", err)
	}
	return cfg, nil
}

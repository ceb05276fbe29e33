package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures the runtime configuration for the application.
type Config struct {
	Server   ServerConfig
	Session  SessionConfig
	Database DatabaseConfig
	Log      LogConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr string `env:"SERVER_ADDR" envDefault:":8080"`
}

// SessionConfig controls cookie session behavior.
type SessionConfig struct {
	Lifetime     time.Duration `env:"SESSION_LIFETIME" envDefault:"12h"`
	CookieName   string        `env:"SESSION_COOKIE_NAME" envDefault:"cosmetics_session"`
	CookieDomain string        `env:"SESSION_COOKIE_DOMAIN"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
}

// DatabaseConfig contains the database connection settings. An empty URL
// selects the seeded in-memory development database.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"2"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"10"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
	ConnMaxIdleTime time.Duration `env:"DATABASE_CONN_MAX_IDLE_TIME" envDefault:"5m"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load inspects the environment and builds a Config value.
func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}

	if cfg.Session.Lifetime <= 0 {
		return Config{}, fmt.Errorf("session lifetime must be positive")
	}

	return cfg, nil
}

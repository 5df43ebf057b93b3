package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains service configuration parameters.
type Config struct {
	LogLevel  string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string   `env:"LOG_FORMAT" envDefault:"text"`
	HTTP      HTTP     `envPrefix:"HTTP_"`
	Database  Database `envPrefix:"DATABASE_"`
	Session   Session  `envPrefix:"SESSION_"`
	Places    Places   `envPrefix:"HERE_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Addr            string        `env:"ADDR" envDefault:":5000"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Database contains database connection parameters.
type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DSN" envDefault:"hospitalmap.db"`
}

// Session contains login session parameters.
type Session struct {
	Secret       string        `env:"SECRET,required,notEmpty"`
	TTL          time.Duration `env:"TTL" envDefault:"24h"`
	CookieName   string        `env:"COOKIE_NAME" envDefault:"session"`
	SecureCookie bool          `env:"SECURE_COOKIE" envDefault:"false"`
}

// Places contains HERE Discover API parameters.
type Places struct {
	APIKey      string        `env:"API_KEY,required,notEmpty"`
	MapAPIKey   string        `env:"MAP_API_KEY"`
	DiscoverURL string        `env:"DISCOVER_URL" envDefault:"https://discover.search.hereapi.com/v1/discover"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported LOG_LEVEL %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.LogFormat)
	}
	if c.Places.Timeout <= 0 {
		return fmt.Errorf("HERE_TIMEOUT must be positive")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

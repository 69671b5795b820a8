// Package config loads client configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/jewelcca/storefront/pkg/config"
)

// Config holds all settings for the storefront client.
type Config struct {
	APIURL         string        `env:"STOREFRONT_API_URL" envDefault:"http://localhost:9090/api"`
	LogLevel       string        `env:"STOREFRONT_LOG_LEVEL" envDefault:"info"`
	RequestTimeout time.Duration `env:"STOREFRONT_REQUEST_TIMEOUT" envDefault:"30s"`
	MaxRetries     int           `env:"STOREFRONT_MAX_RETRIES" envDefault:"3"`

	// CredentialsFile is where the session is persisted between runs.
	// Empty disables persistence.
	CredentialsFile string `env:"STOREFRONT_CREDENTIALS_FILE" envDefault:""`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("STOREFRONT_API_URL must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("STOREFRONT_REQUEST_TIMEOUT must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("STOREFRONT_MAX_RETRIES must not be negative")
	}
	return nil
}

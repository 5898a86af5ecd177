package config

import (
	"fmt"
)

// JWTConfig holds configuration for JWT token generation and validation.
// It is parsed from JWT_SECRET and JWT_EXPIRATION_HOURS as part of Config.
type JWTConfig struct {
	Secret          string `env:"SECRET"`
	ExpirationHours int    `env:"EXPIRATION_HOURS" envDefault:"24"`
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}

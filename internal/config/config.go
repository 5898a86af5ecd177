// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the complete service configuration.
type Config struct {
	Port                     string   `env:"PORT" envDefault:"8080"`
	DatabaseURL              string   `env:"DATABASE_URL"`
	Env                      string   `env:"APP_ENV" envDefault:"production"`
	FrontendURL              string   `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	LogLevel                 string   `env:"LOG_LEVEL" envDefault:"info"`
	CORSAllowedOrigins       []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	OTLPEndpoint             string   `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	AuthRateLimit            int      `env:"AUTH_RATE_LIMIT" envDefault:"20"`
	RequireEmailVerification bool     `env:"REQUIRE_EMAIL_VERIFICATION" envDefault:"false"`

	// ExposeResetLinks returns undelivered password-reset links in the
	// forgot-password response.
	ExposeResetLinks bool `env:"EXPOSE_RESET_LINKS" envDefault:"true"`

	JWT      JWTConfig  `envPrefix:"JWT_"`
	Mail     MailConfig `envPrefix:"SMTP_"`
	Password PasswordConfig
}

// Load parses the environment. JWT settings are parsed but only checked by
// RequireJWT, so database-only commands run without a signing secret.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("APP_ENV must be %q or %q, got: %q", EnvDevelopment, EnvProduction, c.Env)
	}
	if _, err := url.ParseRequestURI(c.FrontendURL); err != nil {
		return fmt.Errorf("invalid FRONTEND_URL: %w", err)
	}
	c.FrontendURL = strings.TrimRight(c.FrontendURL, "/")
	if c.AuthRateLimit < 1 {
		return fmt.Errorf("AUTH_RATE_LIMIT must be at least 1, got: %d", c.AuthRateLimit)
	}
	if err := c.Password.normalize(); err != nil {
		return err
	}
	return c.Mail.normalize()
}

// RequireJWT validates the token settings needed to serve requests.
func (c *Config) RequireJWT() error {
	return c.JWT.normalize()
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

package config

import (
	"fmt"
	"strings"
)

// placeholderCredentials are values shipped in sample env files. Treating them
// as unset keeps a fresh checkout in manual delivery mode.
var placeholderCredentials = map[string]bool{
	"manual-verification-only": true,
	"your-email@gmail.com":     true,
	"your-app-password":        true,
}

// MailConfig holds SMTP delivery settings.
type MailConfig struct {
	Host string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port int    `env:"PORT" envDefault:"587"`
	User string `env:"USER"`
	Pass string `env:"PASS"`
	From string `env:"FROM"`
}

func (c *MailConfig) normalize() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("SMTP_PORT out of range: %d", c.Port)
	}
	if c.From == "" {
		c.From = c.User
	}
	return nil
}

// Configured reports whether real SMTP credentials are present.
func (c *MailConfig) Configured() bool {
	user := strings.TrimSpace(c.User)
	pass := strings.TrimSpace(c.Pass)
	if user == "" || pass == "" {
		return false
	}
	return !placeholderCredentials[user] && !placeholderCredentials[pass]
}

// Addr returns host:port for net/smtp.
func (c *MailConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

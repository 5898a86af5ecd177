// Package mail delivers verification and password reset links.
//
// Delivery never fails a flow. When a message cannot be sent the caller gets
// the link back and hands it to the user directly.
package mail

import (
	"context"
	"net/url"

	"github.com/jonathan/interview-tracker/internal/config"
)

// Link paths on the frontend.
const (
	verifyPath = "/verify-email"
	resetPath  = "/reset-password"
)

// Delivery reports what happened to one message.
type Delivery struct {
	Delivered bool
	// FallbackURL is set whenever Delivered is false.
	FallbackURL string
}

// Sender is the messaging collaborator of the account flows.
type Sender interface {
	SendVerification(ctx context.Context, to, name, token string) Delivery
	SendPasswordReset(ctx context.Context, to, name, token string) Delivery
}

// NewSender returns an SMTP sender when credentials are configured and a
// manual sender otherwise.
func NewSender(cfg config.MailConfig, frontendURL string) Sender {
	if cfg.Configured() {
		return NewSMTPSender(cfg, frontendURL)
	}
	return NewManualSender(frontendURL)
}

type linkBuilder struct {
	base string
}

func (l linkBuilder) verification(token string) string {
	return l.build(verifyPath, token)
}

func (l linkBuilder) reset(token string) string {
	return l.build(resetPath, token)
}

func (l linkBuilder) build(path, token string) string {
	return l.base + path + "?" + url.Values{"token": {token}}.Encode()
}

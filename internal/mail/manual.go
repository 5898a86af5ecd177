package mail

import (
	"context"

	"github.com/rs/zerolog/log"
)

// ManualSender delivers nothing. The link goes back to the caller and to the log.
type ManualSender struct {
	links linkBuilder
}

// NewManualSender creates a ManualSender.
func NewManualSender(frontendURL string) *ManualSender {
	return &ManualSender{links: linkBuilder{base: frontendURL}}
}

func (s *ManualSender) SendVerification(_ context.Context, to, _, token string) Delivery {
	link := s.links.verification(token)
	log.Warn().Str("to", to).Str("url", link).Msg("email delivery not configured, verification link must be shared manually")
	return Delivery{FallbackURL: link}
}

func (s *ManualSender) SendPasswordReset(_ context.Context, to, _, token string) Delivery {
	link := s.links.reset(token)
	log.Warn().Str("to", to).Str("url", link).Msg("email delivery not configured, reset link must be shared manually")
	return Delivery{FallbackURL: link}
}

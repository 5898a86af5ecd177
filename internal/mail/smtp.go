package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/rs/zerolog/log"

	"github.com/jonathan/interview-tracker/internal/config"
)

const appName = "Interview Tracker"

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender sends HTML mail through an authenticated SMTP relay.
type SMTPSender struct {
	cfg   config.MailConfig
	links linkBuilder
	send  sendFunc
}

// NewSMTPSender creates an SMTPSender for cfg.
func NewSMTPSender(cfg config.MailConfig, frontendURL string) *SMTPSender {
	return &SMTPSender{cfg: cfg, links: linkBuilder{base: frontendURL}, send: smtp.SendMail}
}

type messageData struct {
	AppName string
	Name    string
	URL     string
}

func (s *SMTPSender) SendVerification(ctx context.Context, to, name, token string) Delivery {
	link := s.links.verification(token)
	return s.deliver(ctx, to, "Verify your email - "+appName, "verification.html", messageData{AppName: appName, Name: name, URL: link})
}

func (s *SMTPSender) SendPasswordReset(ctx context.Context, to, name, token string) Delivery {
	link := s.links.reset(token)
	return s.deliver(ctx, to, "Reset your password - "+appName, "reset.html", messageData{AppName: appName, Name: name, URL: link})
}

func (s *SMTPSender) deliver(ctx context.Context, to, subject, tmpl string, data messageData) Delivery {
	fallback := Delivery{FallbackURL: data.URL}
	if err := ctx.Err(); err != nil {
		return fallback
	}

	msg, err := s.compose(to, subject, tmpl, data)
	if err != nil {
		log.Error().Err(err).Str("template", tmpl).Msg("failed to render email")
		return fallback
	}

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	if err := s.send(s.cfg.Addr(), auth, s.cfg.From, []string{to}, msg); err != nil {
		log.Error().Err(err).Str("to", to).Str("template", tmpl).Msg("failed to send email, returning fallback link")
		return fallback
	}

	log.Info().Str("to", to).Str("template", tmpl).Msg("email sent")
	return Delivery{Delivered: true}
}

func (s *SMTPSender) compose(to, subject, tmpl string, data messageData) ([]byte, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", tmpl, err)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %q <%s>\r\n", appName, s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

package mail

import (
	"context"
	"errors"
	"net/smtp"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-tracker/internal/config"
)

const frontend = "http://localhost:3000"

func smtpConfig() config.MailConfig {
	return config.MailConfig{Host: "smtp.example.com", Port: 587, User: "noreply@example.com", Pass: "secret", From: "noreply@example.com"}
}

func TestNewSender(t *testing.T) {
	assert.IsType(t, &ManualSender{}, NewSender(config.MailConfig{}, frontend))
	assert.IsType(t, &ManualSender{}, NewSender(config.MailConfig{User: "your-email@gmail.com", Pass: "your-app-password"}, frontend))
	assert.IsType(t, &SMTPSender{}, NewSender(smtpConfig(), frontend))
}

func TestManualSender_ReturnsFallback(t *testing.T) {
	s := NewManualSender(frontend)
	ctx := context.Background()

	d := s.SendVerification(ctx, "a@example.com", "A", "abc123")
	assert.False(t, d.Delivered)
	assert.Equal(t, frontend+"/verify-email?token=abc123", d.FallbackURL)

	d = s.SendPasswordReset(ctx, "a@example.com", "A", "abc123")
	assert.False(t, d.Delivered)
	assert.Equal(t, frontend+"/reset-password?token=abc123", d.FallbackURL)
}

func TestSMTPSender_Delivers(t *testing.T) {
	s := NewSMTPSender(smtpConfig(), frontend)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg string
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, string(msg)
		return nil
	}

	d := s.SendVerification(context.Background(), "cand@example.com", "Cand", "tok")
	assert.True(t, d.Delivered)
	assert.Empty(t, d.FallbackURL)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"cand@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Verify your email")
	assert.Contains(t, gotMsg, "Content-Type: text/html")
	assert.Contains(t, gotMsg, frontend+"/verify-email?token=tok")
	assert.Contains(t, gotMsg, "Cand")
}

func TestSMTPSender_FailureFallsBack(t *testing.T) {
	s := NewSMTPSender(smtpConfig(), frontend)
	s.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("535 authentication failed")
	}

	d := s.SendPasswordReset(context.Background(), "cand@example.com", "Cand", "tok")
	assert.False(t, d.Delivered)
	assert.Equal(t, frontend+"/reset-password?token=tok", d.FallbackURL)
}

func TestSMTPSender_EscapesName(t *testing.T) {
	s := NewSMTPSender(smtpConfig(), frontend)
	var body string
	s.send = func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		body = string(msg)
		return nil
	}

	s.SendVerification(context.Background(), "x@example.com", "<script>alert(1)</script>", "tok")
	assert.NotContains(t, body, "<script>")
}

func TestSMTPSender_CancelledContext(t *testing.T) {
	s := NewSMTPSender(smtpConfig(), frontend)
	called := false
	s.send = func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := s.SendVerification(ctx, "x@example.com", "X", "tok")
	assert.False(t, called)
	assert.False(t, d.Delivered)
	assert.NotEmpty(t, d.FallbackURL)
}

func TestNewToken(t *testing.T) {
	token, digest, err := NewToken()
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.Len(t, digest, 64)
	assert.NotEqual(t, token, digest)
	assert.Equal(t, digest, Digest(token))

	other, _, err := NewToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestLinkBuilder_EncodesToken(t *testing.T) {
	link := linkBuilder{base: frontend}.verification("a b&c")
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "a b&c", u.Query().Get("token"))
	assert.True(t, strings.HasPrefix(link, frontend+"/verify-email?"))
}

package mailer

import (
	"context"
	"errors"
	"fmt"

	mail "gopkg.in/mail.v2"
)

// ErrNotConfigured is returned by Notify when no SMTP host is set.
var ErrNotConfigured = errors.New("smtp host not configured")

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// To receives every notification.
	To string
}

// Mailer sends plain text notifications over SMTP.
type Mailer struct {
	cfg    Config
	dialer *mail.Dialer
}

func New(cfg Config) *Mailer {
	m := &Mailer{cfg: cfg}
	if cfg.Host != "" {
		m.dialer = mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

func (m *Mailer) Enabled() bool {
	return m.dialer != nil
}

// Notify sends one message to the configured recipient.
func (m *Mailer) Notify(ctx context.Context, subject, body string) error {
	if m.dialer == nil {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(m.message(subject, body)); err != nil {
		return fmt.Errorf("failed to send %q to %s: %w", subject, m.cfg.To, err)
	}
	return nil
}

func (m *Mailer) message(subject, body string) *mail.Message {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.To)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}

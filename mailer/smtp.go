// Package mailer delivers transactional email over SMTP.
package mailer

import (
	"context"
	"fmt"

	"github.com/atelierhq/atelier"
	mail "github.com/wneessen/go-mail"
)

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTP sends email through a single SMTP endpoint. It dials a fresh
// connection per message.
type SMTP struct {
	client *mail.Client
	from   string
}

var _ atelier.Mailer = (*SMTP)(nil)

// NewSMTP builds a mailer from the given config.
func NewSMTP(cfg Config) (*SMTP, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
	}

	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTP{client: client, from: cfg.From}, nil
}

// Send delivers a single HTML message.
func (s *SMTP) Send(ctx context.Context, email atelier.Email) error {
	msg := mail.NewMsg()

	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}

	if err := msg.To(email.To); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}

	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextHTML, email.HTML)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

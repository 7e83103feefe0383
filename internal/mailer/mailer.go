// Package mailer submits mail synchronously over SMTP.
package mailer

import (
	"bytes"
	"fmt"

	mail "github.com/wneessen/go-mail"
)

// Config holds SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends messages with a single binary attachment through an SMTP
// relay. Send blocks until the relay accepts the message or fails.
type SMTPMailer struct {
	cfg Config
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers a plain-text message to a single recipient, attaching the
// given bytes under attachmentName when non-nil.
func (m *SMTPMailer) Send(to, subject, body, attachmentName string, attachment []byte) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	if attachment != nil {
		if err := msg.AttachReader(attachmentName, bytes.NewReader(attachment)); err != nil {
			return fmt.Errorf("failed to attach %s: %w", attachmentName, err)
		}
	}

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	return client.DialAndSend(msg)
}

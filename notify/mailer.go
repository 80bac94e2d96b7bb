// Package notify delivers alerts to managers over SMTP.
package notify

import (
	"context"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends notification mail through an SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	to     []string
	log    *zap.Logger
}

// Config holds the SMTP settings for the mailer.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

func NewMailer(cfg Config, log *zap.Logger) *Mailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		to:     cfg.To,
		log:    log,
	}
}

// Notify sends one message to the configured recipients. The context is
// accepted for interface symmetry; gomail does not support cancellation
// mid-dial.
func (m *Mailer) Notify(_ context.Context, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Warn("failed to send notification mail", zap.Error(err))
		return err
	}
	return nil
}

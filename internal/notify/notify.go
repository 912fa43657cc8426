// Package notify delivers spending summary emails over SMTP.
package notify

import (
	"log/slog"
	"time"

	gomail "gopkg.in/mail.v2"

	"github.com/openaudit/spendscan/internal/config"
)

// RenderedMessage is a fully rendered email ready to send.
type RenderedMessage struct {
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers rendered messages via SMTP. Sending is a no-op when
// the SMTP settings are incomplete, so callers can invoke it
// unconditionally.
type Mailer struct {
	cfg config.Config
	log *slog.Logger
}

// NewMailer creates a mailer from the application configuration.
func NewMailer(cfg config.Config, log *slog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// Send delivers an email with HTML body and plain text fallback.
func (m *Mailer) Send(msg *RenderedMessage) error {
	if !m.cfg.EmailEnabled() {
		m.log.Debug("email disabled, skipping send", "subject", msg.Subject)
		return nil
	}

	em := gomail.NewMessage()
	em.SetHeader("From", m.cfg.EmailFrom)
	em.SetHeader("To", m.cfg.EmailTo)
	em.SetHeader("Subject", msg.Subject)

	if msg.HTML != "" && msg.Text != "" {
		em.SetBody("text/plain", msg.Text)
		em.AddAlternative("text/html", msg.HTML)
	} else if msg.HTML != "" {
		em.SetBody("text/html", msg.HTML)
	} else {
		em.SetBody("text/plain", msg.Text)
	}

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPass)
	dialer.Timeout = 10 * time.Second

	if err := dialer.DialAndSend(em); err != nil {
		m.log.Error("email send failed", "to", m.cfg.EmailTo, "subject", msg.Subject, "error", err)
		return err
	}

	m.log.Info("email sent", "to", m.cfg.EmailTo, "subject", msg.Subject)
	return nil
}

// Package mailer delivers transactional email (verification links, password
// resets) over SMTP. When no SMTP host is configured it degrades to a
// development mode that logs the rendered message instead of sending it.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"groundwork/internal/config"
	"groundwork/internal/logger"
)

// Mailer sends a rendered message to a single recipient.
// Implementations must be safe for concurrent use.
type Mailer interface {
	Send(to, subject, body string) error
}

// New returns an SMTP mailer when cfg.Host is set, otherwise a dev mailer
// that logs messages.
func New(cfg config.MailConfig, log *logger.Logger) Mailer {
	if cfg.Host == "" {
		log.Warn("mailer: no SMTP host configured, running in dev mode (messages are logged, not sent)")
		return &devMailer{logger: log}
	}
	return &smtpMailer{cfg: cfg, logger: log}
}

// smtpMailer delivers via a single SMTP host with optional PLAIN auth.
type smtpMailer struct {
	cfg    config.MailConfig
	logger *logger.Logger
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := buildMessage(m.cfg.From, to, subject, body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	m.logger.Debug("mailer: sent %q to %s", subject, to)
	return nil
}

// devMailer logs instead of sending. Used when no SMTP host is configured.
type devMailer struct {
	logger *logger.Logger
}

func (m *devMailer) Send(to, subject, body string) error {
	m.logger.Info("mailer(dev): to=%s subject=%q\n%s", to, subject, body)
	return nil
}

// buildMessage assembles an RFC 5322 plain-text message.
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"escrow-broker.backend/internal/config"
	"escrow-broker.backend/internal/domain/entities"
	"escrow-broker.backend/pkg/logger"
	"go.uber.org/zap"
)

// Mailer delivers a message immediately.
type Mailer interface {
	Deliver(ctx context.Context, msg *entities.EmailMessage) error
}

// NewMailer returns an SMTP mailer, or a log-only mailer when no SMTP host is configured.
func NewMailer(cfg config.MailConfig) Mailer {
	if cfg.SMTPHost == "" {
		return &LogMailer{}
	}
	return &SMTPMailer{
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		host:     cfg.SMTPHost,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.From,
	}
}

var sendMail = smtp.SendMail

// SMTPMailer sends plain-text mail; the connection is upgraded with STARTTLS when the server offers it.
type SMTPMailer struct {
	addr     string
	host     string
	username string
	password string
	from     string
}

func (m *SMTPMailer) Deliver(ctx context.Context, msg *entities.EmailMessage) error {
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := sendMail(m.addr, auth, m.from, []string{msg.To}, buildMessage(m.from, msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	logger.Debug(ctx, "Email delivered", zap.String("kind", string(msg.Kind)), zap.String("to", msg.To))
	return nil
}

func buildMessage(from string, msg *entities.EmailMessage) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) Deliver(ctx context.Context, msg *entities.EmailMessage) error {
	logger.Info(ctx, "Email (log mailer)",
		zap.String("kind", string(msg.Kind)),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}

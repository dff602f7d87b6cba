// Package notify delivers plain-text reports by email or to the log.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// ErrNoRecipient is returned when Send is called without a recipient
var ErrNoRecipient = errors.New("no recipient")

// LogNotifier writes messages to a logger instead of sending them
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs every message
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Send logs the message
func (n *LogNotifier) Send(_ context.Context, recipient, subject, body string) error {
	if recipient == "" {
		return ErrNoRecipient
	}
	n.logger.Info("notification", "recipient", recipient, "subject", subject, "body", body)
	return nil
}

// SMTPConfig holds the mail relay settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier sends messages through an SMTP relay
type SMTPNotifier struct {
	cfg    SMTPConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	now    func() time.Time
	logger *slog.Logger
}

// NewSMTPNotifier creates an SMTP notifier. Auth is PLAIN when a username is set.
func NewSMTPNotifier(cfg SMTPConfig, logger *slog.Logger) *SMTPNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail, now: time.Now, logger: logger}
}

// Send delivers a text/plain message to recipient
func (n *SMTPNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	if recipient == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	addr := net.JoinHostPort(n.cfg.Host, fmt.Sprint(n.cfg.Port))
	msg := BuildMessage(n.cfg.From, recipient, subject, body, n.now())

	if err := n.send(addr, auth, n.cfg.From, []string{recipient}, msg); err != nil {
		n.logger.Error("smtp send failed", "recipient", recipient, "error", err)
		return fmt.Errorf("smtp send to %s: %w", recipient, err)
	}

	n.logger.Debug("email sent", "recipient", recipient, "subject", subject)
	return nil
}

// Ping dials the relay to check it is reachable
func (n *SMTPNotifier) Ping(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(n.cfg.Host, fmt.Sprint(n.cfg.Port)))
	if err != nil {
		return err
	}
	return conn.Close()
}

// BuildMessage renders an RFC 5322 text message with CRLF line endings
func BuildMessage(from, to, subject, body string, date time.Time) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + sanitizeHeader(subject) + "\r\n")
	b.WriteString("Date: " + date.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")

	body = strings.ReplaceAll(body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

// Package health runs connectivity checks against the external collaborators
// and mails a pass/fail report.
package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// HealthCheckTable receives the probe row written by the store write check
const HealthCheckTable = "HealthChecks"

// ErrNoRecipient is returned when no report recipient is configured
var ErrNoRecipient = errors.New("no recipient email set for health reports")

// errNotConfigured marks a check that cannot run with the current settings
var errNotConfigured = errors.New("not configured")

// Pinger is anything that can report whether it is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store is the record store probed by the write check
type Store interface {
	Pinger
	Append(ctx context.Context, table string, row []string) error
}

// Notifier delivers plain-text messages
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// CheckResult is the outcome of one check
type CheckResult struct {
	Name   string `json:"name"`
	Passed  bool   `json:"passed"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Report is the outcome of a health check run
type Report struct {
	CheckedAt time.Time     `json:"checked_at"`
	Results   []CheckResult `json:"results"`
}

// Healthy reports whether every check that ran passed
func (r Report) Healthy() bool {
	for _, res := range r.Results {
		if !res.Passed && !res.Skipped {
			return false
		}
	}
	return true
}

// Text renders the report body
func (r Report) Text() string {
	var b strings.Builder
	b.WriteString("System Health Report\n\n")
	fmt.Fprintf(&b, "Time: %s\n\n", r.CheckedAt.Format(time.DateTime))
	for _, res := range r.Results {
		status := "✓ PASS"
		switch {
		case res.Skipped:
			status = "- SKIPPED (" + res.Error + ")"
		case !res.Passed:
			status = "✗ FAIL"
		}
		fmt.Fprintf(&b, "%s: %s\n", res.Name, status)
	}
	return b.String()
}

type check struct {
	name string
	run  func(ctx context.Context, now time.Time) error
}

// Monitor runs the health checks
type Monitor struct {
	notifier  Notifier
	recipient string
	checks    []check
	now       func() time.Time
	logger    *slog.Logger

	mu        sync.Mutex
	lastCheck *time.Time
}

// NewMonitor creates a health monitor. recipient may be set later.
func NewMonitor(mailbox Pinger, store Store, notifier Notifier, recipient string, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Monitor{
		notifier:  notifier,
		recipient: recipient,
		now:       time.Now,
		logger:    logger,
	}

	m.checks = []check{
		{name: "mailbox_connection", run: func(ctx context.Context, _ time.Time) error {
			return mailbox.Ping(ctx)
		}},
		{name: "store_connection", run: func(ctx context.Context, _ time.Time) error {
			return store.Ping(ctx)
		}},
		{name: "store_write", run: func(ctx context.Context, now time.Time) error {
			return store.Append(ctx, HealthCheckTable, []string{"Health check: " + now.Format(time.DateTime)})
		}},
		{name: "email_send", run: func(ctx context.Context, now time.Time) error {
			recipient := m.currentRecipient()
			if recipient == "" {
				return fmt.Errorf("%w: no recipient", errNotConfigured)
			}
			return notifier.Send(ctx, recipient, "Health Check Test", "Health check test email: "+now.Format(time.DateTime))
		}},
	}

	return m
}

// SetRecipient changes the report recipient
func (m *Monitor) SetRecipient(recipient string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipient = recipient
}

func (m *Monitor) currentRecipient() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recipient
}

// LastCheck returns when a report was last sent successfully
func (m *Monitor) LastCheck() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastCheck == nil {
		return time.Time{}, false
	}
	return *m.lastCheck, true
}

// RunChecks runs every check without sending a report
func (m *Monitor) RunChecks(ctx context.Context) Report {
	now := m.now()
	report := Report{CheckedAt: now}

	for _, c := range m.checks {
		res := CheckResult{Name: c.name, Passed: true}
		err := c.run(ctx, now)
		switch {
		case errors.Is(err, errNotConfigured):
			m.logger.Info("health check skipped", "check", c.name, "reason", err)
			res.Passed = false
			res.Skipped = true
			res.Error = err.Error()
		case err != nil:
			m.logger.Warn("health check failed", "check", c.name, "error", err)
			res.Passed = false
			res.Error = err.Error()
		}
		report.Results = append(report.Results, res)
	}

	return report
}

// RunHealthCheck runs every check and mails the report to the recipient
func (m *Monitor) RunHealthCheck(ctx context.Context) (Report, error) {
	recipient := m.currentRecipient()
	if recipient == "" {
		m.logger.Warn(ErrNoRecipient.Error())
		return Report{}, ErrNoRecipient
	}

	report := m.RunChecks(ctx)
	subject := "Health Report - " + report.CheckedAt.Format("2006-01-02 15:04")

	if err := m.notifier.Send(ctx, recipient, subject, report.Text()); err != nil {
		m.logger.Error("failed to send health report", "error", err)
		return report, fmt.Errorf("failed to send health report: %w", err)
	}

	m.mu.Lock()
	checkedAt := report.CheckedAt
	m.lastCheck = &checkedAt
	m.mu.Unlock()

	m.logger.Info("health report sent", "recipient", recipient, "healthy", report.Healthy())
	return report, nil
}

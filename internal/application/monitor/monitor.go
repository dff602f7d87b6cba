// Package monitor scans a mailbox for marketplace sale notifications and
// accumulates the orders parsed from them.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eshaffer321/saletrack/internal/domain/extractor"
	"github.com/eshaffer321/saletrack/internal/domain/mail"
	"github.com/eshaffer321/saletrack/internal/domain/order"
	"github.com/eshaffer321/saletrack/internal/domain/parser"
)

// DefaultMaxResults caps the number of messages a single scan considers
const DefaultMaxResults = 50

// ErrSearchFailed wraps mailbox query failures
var ErrSearchFailed = errors.New("mailbox search failed")

// Mailbox is the message source scanned for notifications
type Mailbox interface {
	Search(ctx context.Context, query string, maxResults int) ([]string, error)
	Fetch(ctx context.Context, id string) (*mail.Message, error)
}

// Notifier delivers plain-text messages
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// Options configures a Monitor
type Options struct {
	WindowDays int
	MaxResults int

	// DedupByMessageID skips messages whose ID is already in the collection.
	// Off by default: overlapping full scans append duplicate records.
	DedupByMessageID bool

	Now func() time.Time
}

// Monitor orchestrates a scan: search, fetch, extract, classify, parse
type Monitor struct {
	mailbox   Mailbox
	extractor *extractor.Extractor
	parsers   *parser.Registry
	orders    *order.Collection
	window    *Window
	opts      Options
	logger    *slog.Logger
}

// New creates a Monitor reading from mailbox and appending to orders
func New(mailbox Mailbox, orders *order.Collection, opts Options, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	if orders == nil {
		orders = order.NewCollection()
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}

	return &Monitor{
		mailbox:   mailbox,
		extractor: extractor.New(logger),
		parsers:   parser.NewRegistry(logger),
		orders:    orders,
		window:    NewWindow(opts.WindowDays, opts.Now),
		opts:      opts,
		logger:    logger,
	}
}

// Window exposes the scan window for inspection
func (m *Monitor) Window() *Window {
	return m.window
}

// Orders returns every order accumulated so far
func (m *Monitor) Orders() []order.Record {
	return m.orders.All()
}

// OrderCount returns the number of accumulated orders
func (m *Monitor) OrderCount() int {
	return m.orders.Len()
}

// ClearOrders drops the accumulated orders
func (m *Monitor) ClearOrders() {
	m.orders.Clear()
}

// CheckEmails scans the mailbox and returns the orders parsed in this scan.
//
// A forced scan, or the first scan, covers the trailing window of windowDays
// (the configured default when windowDays <= 0); later scans start at the
// watermark left by the previous successful scan. A search failure aborts the
// scan, returns no orders and leaves the watermark untouched.
func (m *Monitor) CheckEmails(ctx context.Context, forceFullSearch bool, windowDays int) ([]order.Record, error) {
	runID := uuid.NewString()
	logger := m.logger.With("run_id", runID)

	m.window.SetDefaultDays(windowDays)
	scanStart := m.window.Now()
	after, full := m.window.LowerBound(forceFullSearch)
	query := BuildQuery(after)

	if full {
		logger.Info("starting full email scan", "window_days", m.window.DefaultDays(), "after", after.Format(QueryDateFormat))
	} else {
		logger.Info("starting incremental email scan", "after", after.Format(time.RFC3339))
	}
	logger.Debug("mailbox query", "query", query, "max_results", m.opts.MaxResults)

	ids, err := m.mailbox.Search(ctx, query, m.opts.MaxResults)
	if err != nil {
		logger.Error("email scan failed", "error", err)
		return []order.Record{}, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	if len(ids) == 0 {
		logger.Info("no messages matched")
		m.window.Advance(scanStart)
		return []order.Record{}, nil
	}

	seen := m.seenMessageIDs()
	batch := make([]order.Record, 0, len(ids))

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			logger.Warn("email scan cancelled", "processed", i, "total", len(ids))
			return []order.Record{}, err
		}
		if seen[id] {
			logger.Debug("skipping already collected message", "message_id", id)
			continue
		}

		record, ok := m.processMessage(ctx, logger, id)
		if !ok {
			continue
		}
		batch = append(batch, *record)
	}

	m.orders.Add(batch...)
	m.window.Advance(scanStart)

	logger.Info("email scan complete",
		"messages", len(ids),
		"new_orders", len(batch),
		"total_orders", m.orders.Len(),
	)

	return batch, nil
}

// processMessage fetches and parses one message. Failures skip the message.
func (m *Monitor) processMessage(ctx context.Context, logger *slog.Logger, id string) (*order.Record, bool) {
	msg, err := m.mailbox.Fetch(ctx, id)
	if err != nil {
		logger.Warn("failed to fetch message", "message_id", id, "error", err)
		return nil, false
	}
	if msg == nil || msg.Payload == nil {
		logger.Debug("message has no payload", "message_id", id)
		return nil, false
	}

	headers := msg.Headers()
	from, ok := headers.Get("from")
	if !ok || strings.TrimSpace(from) == "" {
		logger.Debug("message has no From header", "message_id", id)
		return nil, false
	}

	body := m.extractor.Extract(msg.Payload)
	if body == "" {
		logger.Debug("no email body found", "message_id", id)
		return nil, false
	}

	platform := parser.Classify(from)
	p, ok := m.parsers.ForPlatform(platform)
	if !ok {
		logger.Debug("sender not recognized, skipping", "message_id", id, "from", from)
		return nil, false
	}

	record := p.Parse(body, headers)
	if record == nil {
		logger.Debug("no order found in message", "message_id", id, "platform", platform)
		return nil, false
	}
	record.MessageID = id

	logger.Info("parsed order",
		"message_id", id,
		"platform", record.Platform,
		"item", order.Str(record.ItemName),
	)
	return record, true
}

func (m *Monitor) seenMessageIDs() map[string]bool {
	if !m.opts.DedupByMessageID {
		return nil
	}
	seen := make(map[string]bool)
	for _, r := range m.orders.All() {
		if r.MessageID != "" {
			seen[r.MessageID] = true
		}
	}
	return seen
}

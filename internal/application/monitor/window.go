package monitor

import (
	"fmt"
	"sync"
	"time"
)

// QueryDateFormat is the date layout of the mailbox after: operator
const QueryDateFormat = "2006/01/02"

// DefaultWindowDays is the trailing window used when no watermark exists
const DefaultWindowDays = 7

// Window tracks the lower bound of the next mailbox scan.
// Before the first successful scan it is in the never-scanned state and every
// scan covers the trailing window; afterwards incremental scans start at the
// watermark.
type Window struct {
	mu          sync.Mutex
	watermark   *time.Time
	defaultDays int
	now         func() time.Time
}

// NewWindow creates a scan window with the given default size in days
func NewWindow(defaultDays int, now func() time.Time) *Window {
	if defaultDays <= 0 {
		defaultDays = DefaultWindowDays
	}
	if now == nil {
		now = time.Now
	}
	return &Window{defaultDays: defaultDays, now: now}
}

// Now returns the window clock's current time
func (w *Window) Now() time.Time {
	return w.now()
}

// SetDefaultDays changes the trailing window size. Non-positive values are ignored.
func (w *Window) SetDefaultDays(days int) {
	if days <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.defaultDays = days
}

// DefaultDays returns the trailing window size
func (w *Window) DefaultDays() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.defaultDays
}

// LowerBound returns where the next scan starts and whether it is a full scan
func (w *Window) LowerBound(forceFull bool) (time.Time, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if forceFull || w.watermark == nil {
		return w.now().AddDate(0, 0, -w.defaultDays), true
	}
	return *w.watermark, false
}

// Advance moves the watermark to t
func (w *Window) Advance(t time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.watermark = &t
}

// Watermark returns the current watermark, if a scan has completed
func (w *Window) Watermark() (time.Time, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watermark == nil {
		return time.Time{}, false
	}
	return *w.watermark, true
}

// BuildQuery returns the mailbox search for sale notifications received after t
func BuildQuery(after time.Time) string {
	return fmt.Sprintf("from:ebay@ebay.com OR from:amazon.com after:%s", after.Format(QueryDateFormat))
}

package mailbox

import (
	"fmt"
	"strings"
	"time"

	"github.com/eshaffer321/saletrack/internal/domain/mail"
)

// Query is a parsed search expression. Supported terms are from:ADDR,
// after:YYYY/MM/DD and the OR keyword joining from terms.
type Query struct {
	From  []string
	After *time.Time
}

// ParseQuery parses the subset of the mail search syntax used by the monitor
func ParseQuery(raw string, loc *time.Location) (Query, error) {
	if loc == nil {
		loc = time.Local
	}

	var q Query
	for _, term := range strings.Fields(raw) {
		key, value, ok := strings.Cut(term, ":")
		if !ok {
			if strings.EqualFold(term, "OR") {
				continue
			}
			return Query{}, fmt.Errorf("unsupported query term %q", term)
		}

		switch strings.ToLower(key) {
		case "from":
			if value == "" {
				return Query{}, fmt.Errorf("empty from term")
			}
			q.From = append(q.From, strings.ToLower(value))
		case "after":
			t, err := time.ParseInLocation("2006/01/02", value, loc)
			if err != nil {
				return Query{}, fmt.Errorf("invalid after date %q: %w", value, err)
			}
			q.After = &t
		default:
			return Query{}, fmt.Errorf("unsupported query term %q", term)
		}
	}
	return q, nil
}

// Matches reports whether msg satisfies the query. A message without a
// readable receive time never matches an after term.
func (q Query) Matches(msg *mail.Message) bool {
	if len(q.From) > 0 {
		from := strings.ToLower(msg.Headers().Value("From"))
		found := false
		for _, f := range q.From {
			if strings.Contains(from, f) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if q.After != nil {
		received, ok := receivedAt(msg)
		if !ok || received.Before(*q.After) {
			return false
		}
	}
	return true
}

// receivedAt prefers InternalDate and falls back to the Date header
func receivedAt(msg *mail.Message) (time.Time, bool) {
	if t, ok := msg.ReceivedAt(); ok {
		return t, true
	}
	date := msg.Headers().Value("Date")
	if date == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, "Mon, 2 Jan 2006 15:04:05 -0700", "2 Jan 2006 15:04:05 -0700"} {
		if t, err := time.Parse(layout, date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

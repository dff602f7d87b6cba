// Package mail models the raw messages handed to the order extraction engine.
//
// The shape mirrors what a Gmail-style API returns for format=full: a
// message handle, a header list and a payload that is either a single body or
// a tree of typed parts.
package mail

import (
	"strconv"
	"strings"
	"time"
)

// Header is a single name/value pair from a message header block
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Headers is an ordered header list with case-insensitive lookup
type Headers []Header

// Get returns the value of the first header named name (case-insensitive)
func (h Headers) Get(name string) (string, bool) {
	for _, header := range h {
		if strings.EqualFold(header.Name, name) {
			return header.Value, true
		}
	}
	return "", false
}

// Value returns the header value or "" when absent
func (h Headers) Value(name string) string {
	v, _ := h.Get(name)
	return v
}

// Body holds the encoded payload of a part.
// Data is base64url encoded unless Raw is set.
type Body struct {
	Size int    `json:"size,omitempty"`
	Data string `json:"data,omitempty"`
	Raw  bool   `json:"raw,omitempty"`
}

// Part is one node of the payload tree
type Part struct {
	PartID   string  `json:"partId,omitempty"`
	MimeType string  `json:"mimeType"`
	Headers  Headers `json:"headers,omitempty"`
	Body     Body    `json:"body"`
	Parts    []*Part `json:"parts,omitempty"`
}

// IsComposite reports whether the part carries child parts
func (p *Part) IsComposite() bool {
	return p != nil && len(p.Parts) > 0
}

// ContentType returns the lower-cased media type without parameters
func (p *Part) ContentType() string {
	if p == nil {
		return ""
	}
	ct := strings.ToLower(strings.TrimSpace(p.MimeType))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	return ct
}

// Message is a fetched mailbox message
type Message struct {
	ID           string `json:"id"`
	ThreadID     string `json:"threadId,omitempty"`
	InternalDate string `json:"internalDate,omitempty"` // epoch millis, as the API sends it
	Snippet      string `json:"snippet,omitempty"`
	Payload      *Part  `json:"payload"`
}

// Headers returns the top-level payload headers
func (m *Message) Headers() Headers {
	if m == nil || m.Payload == nil {
		return nil
	}
	return m.Payload.Headers
}

// ReceivedAt returns the message receive time from InternalDate
func (m *Message) ReceivedAt() (time.Time, bool) {
	if m == nil || m.InternalDate == "" {
		return time.Time{}, false
	}
	millis, err := strconv.ParseInt(m.InternalDate, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(millis), true
}

// Package extractor turns a raw message payload into a single plain-text body.
package extractor

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/eshaffer321/saletrack/internal/domain/mail"
)

const (
	mimeTextPlain = "text/plain"
	mimeTextHTML  = "text/html"
)

// forwardDetectMarkers flag a body as a forwarded copy
var forwardDetectMarkers = []string{
	"forwarded message",
	"begin forwarded message",
	"original message",
	"--- forwarded message ---",
}

// forwardLineMarkers identify the marker line itself.
// "begin forwarded message" is covered by "forwarded message".
var forwardLineMarkers = []string{
	"forwarded message",
	"original message",
	"--- forwarded message ---",
}

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]+?>`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	errEmptyBody   = errors.New("empty body")
	errInvalidUTF8 = errors.New("body is not valid UTF-8")
)

// Extractor normalizes message payloads to plain text
type Extractor struct {
	logger *slog.Logger
}

// New creates an extractor. A nil logger discards decode diagnostics.
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{logger: logger}
}

// Extract returns the plain-text body of payload, or "" if nothing usable
// could be decoded. It never fails.
func (e *Extractor) Extract(payload *mail.Part) string {
	if payload == nil {
		return ""
	}

	if payload.IsComposite() {
		leaves := flatten(payload)

		for _, part := range leaves {
			if part.ContentType() != mimeTextPlain {
				continue
			}
			text, err := decode(part.Body)
			if err != nil {
				e.logger.Debug("failed to decode text/plain part", "part_id", part.PartID, "error", err)
				continue
			}
			if body := unwrapForwarded(text); body != "" {
				return body
			}
		}

		for _, part := range leaves {
			if part.ContentType() != mimeTextHTML {
				continue
			}
			html, err := decode(part.Body)
			if err != nil {
				e.logger.Debug("failed to decode text/html part", "part_id", part.PartID, "error", err)
				continue
			}
			if text := HTMLToText(html); text != "" {
				return text
			}
		}
	}

	body, err := decode(payload.Body)
	if err != nil {
		e.logger.Debug("failed to decode main body", "error", err)
		return ""
	}
	return body
}

// flatten returns the leaf parts of a payload tree, depth-first in order
func flatten(p *mail.Part) []*mail.Part {
	var leaves []*mail.Part
	for _, child := range p.Parts {
		if child == nil {
			continue
		}
		if child.IsComposite() {
			leaves = append(leaves, flatten(child)...)
			continue
		}
		leaves = append(leaves, child)
	}
	return leaves
}

// unwrapForwarded keeps only the content after a forwarding marker line.
// Text without a marker is returned unchanged.
func unwrapForwarded(text string) string {
	if !containsAny(strings.ToLower(text), forwardDetectMarkers) {
		return text
	}

	var b strings.Builder
	started := false
	for _, line := range strings.Split(text, "\n") {
		if containsAny(strings.ToLower(line), forwardLineMarkers) {
			started = true
			continue
		}
		if started {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// HTMLToText strips markup and collapses whitespace
func HTMLToText(html string) string {
	text := htmlTagPattern.ReplaceAllString(html, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// decode decodes a part body. Data is base64url, with or without padding;
// standard base64 is accepted as well.
func decode(body mail.Body) (string, error) {
	if body.Data == "" {
		return "", errEmptyBody
	}
	if body.Raw {
		return body.Data, nil
	}

	data := strings.TrimSpace(body.Data)
	var (
		raw []byte
		err error
	)
	for _, enc := range []*base64.Encoding{base64.URLEncoding, base64.RawURLEncoding, base64.StdEncoding, base64.RawStdEncoding} {
		raw, err = enc.DecodeString(data)
		if err == nil {
			break
		}
	}
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", errInvalidUTF8
	}
	return string(raw), nil
}

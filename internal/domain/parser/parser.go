package parser

import (
	"log/slog"
	"strings"

	"github.com/eshaffer321/saletrack/internal/domain/mail"
	"github.com/eshaffer321/saletrack/internal/domain/order"
)

// Parser extracts an order record from a plain-text body and its headers.
// A nil result means no order was found.
type Parser interface {
	Parse(body string, headers mail.Headers) *order.Record
}

// Classify decides which marketplace sent a message from its From header
func Classify(from string) order.Platform {
	from = strings.ToLower(from)
	switch {
	case strings.Contains(from, "ebay@ebay.com"):
		return order.PlatformEbay
	case strings.Contains(from, "amazon.com"):
		return order.PlatformAmazon
	default:
		return order.PlatformUnrecognized
	}
}

// Registry maps platforms to their parser
type Registry struct {
	parsers map[order.Platform]Parser
}

// NewRegistry creates a registry holding the eBay and Amazon parsers
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		parsers: map[order.Platform]Parser{
			order.PlatformEbay:   NewEbayParser(logger),
			order.PlatformAmazon: NewAmazonParser(logger),
		},
	}
}

// ForPlatform returns the parser for p, if any
func (r *Registry) ForPlatform(p order.Platform) (Parser, bool) {
	parser, ok := r.parsers[p]
	return parser, ok
}

func discardIfNil(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

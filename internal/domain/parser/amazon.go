package parser

import (
	"log/slog"

	"github.com/eshaffer321/saletrack/internal/domain/mail"
	"github.com/eshaffer321/saletrack/internal/domain/order"
)

// Amazon bodies are matched case-insensitively without multiline mode,
// so $ anchors at end of text only.
const amazonFlags = "(?i)"

var (
	amazonOrderID = Patterns(amazonFlags,
		`Order\s*#:\s*(.*?)(?:\n|$)`,
		`Order\s*Number:\s*(.*?)(?:\n|$)`,
		`Amazon\s*Order\s*ID:\s*(.*?)(?:\n|$)`,
	)

	amazonItem = Patterns(amazonFlags,
		`Item:\s*(.*?)(?:\n|$)`,
		`Product:\s*(.*?)(?:\n|$)`,
		`Title:\s*(.*?)(?:\n|$)`,
	)

	amazonSKU = Patterns(amazonFlags,
		`SKU:\s*(.*?)(?:\n|$)`,
		`ASIN:\s*(.*?)(?:\n|$)`,
		`Item\s*Number:\s*(.*?)(?:\n|$)`,
	)

	amazonTotal = Patterns(amazonFlags,
		`Total\s*price:\s*\$?(\d+\.\d{2})`,
		`Total\s*amount:\s*\$?(\d+\.\d{2})`,
		`Amount\s*paid:\s*\$?(\d+\.\d{2})`,
		`Total\s*price:\s*\$?([\d,]+\.\d{2})`,
		`Total\s*amount:\s*\$?([\d,]+\.\d{2})`,
		`Amount\s*paid:\s*\$?([\d,]+\.\d{2})`,
	)
)

// AmazonParser parses Amazon seller order notifications
type AmazonParser struct {
	logger *slog.Logger
}

// NewAmazonParser creates an Amazon parser
func NewAmazonParser(logger *slog.Logger) *AmazonParser {
	return &AmazonParser{logger: discardIfNil(logger)}
}

// Parse implements Parser. Headers are not consulted.
func (p *AmazonParser) Parse(body string, _ mail.Headers) *order.Record {
	record := &order.Record{
		Platform:   order.PlatformAmazon,
		OrderID:    matchString(body, amazonOrderID),
		ItemName:   matchString(body, amazonItem),
		SKU:        matchString(body, amazonSKU),
		TotalPrice: matchPrice(body, amazonTotal),
	}

	if order.Str(record.OrderID) == "" && order.Str(record.ItemName) == "" && order.Str(record.SKU) == "" {
		p.logger.Debug("no order information found in Amazon email")
		return nil
	}

	p.logger.Debug("parsed Amazon order",
		"order_id", order.Str(record.OrderID),
		"item", order.Str(record.ItemName),
		"sku", order.Str(record.SKU),
		"total", record.TotalPrice,
	)
	return record
}

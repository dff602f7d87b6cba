package parser

import (
	"log/slog"
	"strings"

	"github.com/eshaffer321/saletrack/internal/domain/mail"
	"github.com/eshaffer321/saletrack/internal/domain/order"
)

// EbaySubjectPrefix starts the subject of every eBay sale notification
const EbaySubjectPrefix = "You made the sale for "

const ebayFlags = "(?im)"

var (
	ebayBuyer = Patterns(ebayFlags,
		`Buyer:\s*(.*?)(?:\n|$)`,
		`Buyer\s*ID:\s*(.*?)(?:\n|$)`,
		`Purchased\s*by:\s*(.*?)(?:\n|$)`,
		`Buyer:\s*([^\n]+)`,
		`Buyer\s*ID:\s*([^\n]+)`,
		`Purchased\s*by:\s*([^\n]+)`,
	)

	ebayDateSold = Patterns(ebayFlags,
		`Sold\s*on:\s*(.*?)(?:\n|$)`,
		`Date\s*sold:\s*(.*?)(?:\n|$)`,
		`Sale\s*date:\s*(.*?)(?:\n|$)`,
		`Sold\s*on:\s*([^\n]+)`,
		`Date\s*sold:\s*([^\n]+)`,
		`Sale\s*date:\s*([^\n]+)`,
	)

	ebayTotal = Patterns(ebayFlags,
		`Total\s*price:\s*\$?(\d+\.\d{2})`,
		`Total\s*amount:\s*\$?(\d+\.\d{2})`,
		`Amount\s*paid:\s*\$?(\d+\.\d{2})`,
		`Total\s*price:\s*\$?([\d,]+\.\d{2})`,
		`Total\s*amount:\s*\$?([\d,]+\.\d{2})`,
		`Amount\s*paid:\s*\$?([\d,]+\.\d{2})`,
	)

	ebayShipping = Patterns(ebayFlags,
		`Shipping\s*price:\s*\$?(\d+\.\d{2})`,
		`Shipping\s*cost:\s*\$?(\d+\.\d{2})`,
		`Shipping\s*amount:\s*\$?(\d+\.\d{2})`,
		`Shipping\s*price:\s*\$?([\d,]+\.\d{2})`,
		`Shipping\s*cost:\s*\$?([\d,]+\.\d{2})`,
		`Shipping\s*amount:\s*\$?([\d,]+\.\d{2})`,
	)

	ebayImage = Patterns(ebayFlags,
		`<img[^>]+src="([^"]+)"`,
		`image\s*URL:\s*(https?://[^\s]+)`,
		`Image\s*link:\s*(https?://[^\s]+)`,
		`src="(https?://[^"]+\.(?:jpg|jpeg|png|gif))"`,
		`<img[^>]+src="(https?://[^"]+)"`,
	)
)

// EbayParser parses eBay "You made the sale" notifications
type EbayParser struct {
	logger *slog.Logger
}

// NewEbayParser creates an eBay parser
func NewEbayParser(logger *slog.Logger) *EbayParser {
	return &EbayParser{logger: discardIfNil(logger)}
}

// Parse implements Parser
func (p *EbayParser) Parse(body string, headers mail.Headers) *order.Record {
	record := &order.Record{Platform: order.PlatformEbay}

	subject := headers.Value("subject")
	if strings.HasPrefix(subject, EbaySubjectPrefix) {
		item := strings.TrimSpace(strings.TrimPrefix(subject, EbaySubjectPrefix))
		record.ItemName = &item
	}

	record.BuyerName = matchString(body, ebayBuyer)
	record.DateSold = matchString(body, ebayDateSold)
	record.TotalPrice = matchPrice(body, ebayTotal)
	record.ShippingPrice = matchPrice(body, ebayShipping)
	record.ImageURL = matchString(body, ebayImage)

	if !record.HasContent() {
		p.logger.Debug("no order information found in eBay email", "subject", subject)
		return nil
	}

	p.logger.Debug("parsed eBay order",
		"item", order.Str(record.ItemName),
		"buyer", order.Str(record.BuyerName),
		"total", record.TotalPrice,
	)
	return record
}

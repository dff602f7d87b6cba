// Package order defines the order records produced by the email parsers.
package order

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Platform identifies the marketplace an order came from
type Platform string

const (
	PlatformEbay         Platform = "eBay"
	PlatformAmazon       Platform = "Amazon"
	PlatformUnrecognized Platform = ""
)

// Record is a structured order extracted from a sale notification.
// Optional fields are nil when the parser found nothing for them.
type Record struct {
	Platform      Platform         `json:"platform"`
	ItemName      *string          `json:"item_name"`
	BuyerName     *string          `json:"buyer_name,omitempty"` // eBay only
	DateSold      *string          `json:"date_sold,omitempty"`
	TotalPrice    *decimal.Decimal `json:"total_price"`
	ShippingPrice *decimal.Decimal `json:"shipping_price,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty"`
	OrderID       *string          `json:"order_id,omitempty"` // Amazon only
	SKU           *string          `json:"sku,omitempty"`      // Amazon only

	// MessageID is the mailbox handle the record was parsed from
	MessageID string `json:"message_id,omitempty"`
}

// HasContent reports whether any parsed field besides the platform is set
func (r *Record) HasContent() bool {
	if r == nil {
		return false
	}
	for _, s := range []*string{r.ItemName, r.BuyerName, r.DateSold, r.ImageURL, r.OrderID, r.SKU} {
		if s != nil && *s != "" {
			return true
		}
	}
	return r.TotalPrice != nil || r.ShippingPrice != nil
}

// Str returns the value behind an optional string, or "" when unset
func Str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Collection accumulates parsed orders in insertion order.
// It never deduplicates; the same message parsed twice yields two records.
type Collection struct {
	mu      sync.RWMutex
	records []Record
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{}
}

// Add appends records to the collection
func (c *Collection) Add(records ...Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, records...)
}

// All returns a copy of the accumulated records
func (c *Collection) All() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Len returns the number of accumulated records
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Clear drops all accumulated records
func (c *Collection) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
}

package parser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/saletrack/internal/domain/mail"
	"github.com/eshaffer321/saletrack/internal/domain/order"
)

func assertPrice(t *testing.T, want string, got *decimal.Decimal) {
	t.Helper()
	require.NotNil(t, got)
	assert.True(t, decimal.RequireFromString(want).Equal(*got), "want %s, got %s", want, got)
}

func subject(s string) mail.Headers {
	return mail.Headers{{Name: "Subject", Value: s}}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		from string
		want order.Platform
	}{
		{"eBay <ebay@ebay.com>", order.PlatformEbay},
		{"EBAY@EBAY.COM", order.PlatformEbay},
		{"Amazon Seller Central <seller-notification@amazon.com>", order.PlatformAmazon},
		{"orders@Amazon.com", order.PlatformAmazon},
		{"someone@example.com", order.PlatformUnrecognized},
		{"members@ebay.co.uk", order.PlatformUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.from))
		})
	}
}

func TestFirstMatch(t *testing.T) {
	calls := 0
	never := func(string) (string, bool) { calls++; return "never", true }

	got, ok := FirstMatch("Buyer: Jane",
		Regex(`Seller:\s*(\S+)`),
		Regex(`Buyer:\s*(\S+)`),
		never,
	)
	assert.True(t, ok)
	assert.Equal(t, "Jane", got)
	assert.Equal(t, 0, calls, "matchers after the first hit are not tried")

	_, ok = FirstMatch("nothing here", Regex(`Buyer:\s*(\S+)`))
	assert.False(t, ok)
}

func TestEbayParser_EndToEnd(t *testing.T) {
	body := "Buyer: Jane Doe\nTotal price: $19.99\nShipping price: $4.50"
	record := NewEbayParser(nil).Parse(body, subject("You made the sale for Vintage Lamp"))

	require.NotNil(t, record)
	assert.Equal(t, order.PlatformEbay, record.Platform)
	assert.Equal(t, "Vintage Lamp", order.Str(record.ItemName))
	assert.Equal(t, "Jane Doe", order.Str(record.BuyerName))
	assertPrice(t, "19.99", record.TotalPrice)
	assertPrice(t, "4.50", record.ShippingPrice)
	assert.Nil(t, record.DateSold)
	assert.Nil(t, record.ImageURL)
	assert.Nil(t, record.OrderID)
	assert.Nil(t, record.SKU)
}

func TestEbayParser_SubjectItemName(t *testing.T) {
	tests := []struct {
		item string
		want string
	}{
		{"Lamp", "Lamp"},
		{"  Padded Item  ", "Padded Item"},
		{"Multi word: with colon", "Multi word: with colon"},
	}

	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			record := NewEbayParser(nil).Parse("", subject(EbaySubjectPrefix+tt.item))
			require.NotNil(t, record)
			assert.Equal(t, tt.want, order.Str(record.ItemName))
		})
	}
}

func TestEbayParser_SubjectMustMatchPrefix(t *testing.T) {
	record := NewEbayParser(nil).Parse("Buyer: Bob", subject("Re: You made the sale for Lamp"))
	require.NotNil(t, record)
	assert.Nil(t, record.ItemName)
	assert.Equal(t, "Bob", order.Str(record.BuyerName))
}

func TestEbayParser_NoMarkersReturnsNil(t *testing.T) {
	record := NewEbayParser(nil).Parse("Thanks for being a member of our community.", subject("Your weekly digest"))
	assert.Nil(t, record)
}

func TestEbayParser_PatternPriority(t *testing.T) {
	body := "Purchased by: second\nBuyer: first\nAmount paid: $9.00\nTotal price: $10.00"
	record := NewEbayParser(nil).Parse(body, nil)

	require.NotNil(t, record)
	assert.Equal(t, "first", order.Str(record.BuyerName))
	assertPrice(t, "10.00", record.TotalPrice)
}

func TestEbayParser_Fields(t *testing.T) {
	body := "Sold on: Oct 3, 2026\n" +
		"Total amount: $1,234.56\n" +
		"Shipping cost: 12.00\n" +
		`<img alt="item" src="https://i.ebayimg.com/images/g/abc/s-l500.jpg">`

	record := NewEbayParser(nil).Parse(body, nil)
	require.NotNil(t, record)
	assert.Equal(t, "Oct 3, 2026", order.Str(record.DateSold))
	assertPrice(t, "1234.56", record.TotalPrice)
	assertPrice(t, "12.00", record.ShippingPrice)
	assert.Equal(t, "https://i.ebayimg.com/images/g/abc/s-l500.jpg", order.Str(record.ImageURL))
	assert.Nil(t, record.BuyerName)
}

func TestEbayParser_ImageLinkFallback(t *testing.T) {
	record := NewEbayParser(nil).Parse("Image link: https://example.com/a.png and more", nil)
	require.NotNil(t, record)
	assert.Equal(t, "https://example.com/a.png", order.Str(record.ImageURL))
}

func TestEbayParser_CaseInsensitive(t *testing.T) {
	record := NewEbayParser(nil).Parse("BUYER ID: jdoe_42\nDATE SOLD: today", nil)
	require.NotNil(t, record)
	assert.Equal(t, "jdoe_42", order.Str(record.BuyerName))
	assert.Equal(t, "today", order.Str(record.DateSold))
}

func TestAmazonParser_EndToEnd(t *testing.T) {
	body := "Order #: 123-4567890\nItem: Wireless Mouse\nSKU: ABC123\nTotal price: $29.99"
	record := NewAmazonParser(nil).Parse(body, nil)

	require.NotNil(t, record)
	assert.Equal(t, order.PlatformAmazon, record.Platform)
	assert.Equal(t, "123-4567890", order.Str(record.OrderID))
	assert.Equal(t, "Wireless Mouse", order.Str(record.ItemName))
	assert.Equal(t, "ABC123", order.Str(record.SKU))
	assertPrice(t, "29.99", record.TotalPrice)
	assert.Nil(t, record.BuyerName)
}

func TestAmazonParser_AlternatePatterns(t *testing.T) {
	body := "amazon order id: 111-2223334\nProduct: USB Cable\nASIN: B000TEST\nAmount paid: $2,000.10"
	record := NewAmazonParser(nil).Parse(body, nil)

	require.NotNil(t, record)
	assert.Equal(t, "111-2223334", order.Str(record.OrderID))
	assert.Equal(t, "USB Cable", order.Str(record.ItemName))
	assert.Equal(t, "B000TEST", order.Str(record.SKU))
	assertPrice(t, "2000.10", record.TotalPrice)
}

func TestAmazonParser_PriceOnlyIsNotAnOrder(t *testing.T) {
	assert.Nil(t, NewAmazonParser(nil).Parse("Total price: $5.00", nil))
	assert.Nil(t, NewAmazonParser(nil).Parse("Your package has shipped.", nil))
	assert.Nil(t, NewAmazonParser(nil).Parse("Order #: \n", nil), "empty capture does not count")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(nil)

	p, ok := r.ForPlatform(order.PlatformEbay)
	assert.True(t, ok)
	assert.IsType(t, &EbayParser{}, p)

	p, ok = r.ForPlatform(order.PlatformAmazon)
	assert.True(t, ok)
	assert.IsType(t, &AmazonParser{}, p)

	_, ok = r.ForPlatform(order.PlatformUnrecognized)
	assert.False(t, ok)
}

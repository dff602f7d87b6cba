package extractor

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eshaffer321/saletrack/internal/domain/mail"
)

func enc(s string) mail.Body {
	return mail.Body{Data: base64.URLEncoding.EncodeToString([]byte(s))}
}

func TestExtract_PlainTextPart(t *testing.T) {
	payload := &mail.Part{
		MimeType: "multipart/alternative",
		Parts: []*mail.Part{
			{MimeType: "text/html", Body: enc("<p>ignored</p>")},
			{MimeType: "text/plain", Body: enc("Buyer: Jane Doe\nTotal price: $19.99")},
		},
	}

	got := New(nil).Extract(payload)
	assert.Equal(t, "Buyer: Jane Doe\nTotal price: $19.99", got)
}

func TestExtract_ForwardedMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "dashed marker",
			body: "FYI see below\n--- forwarded message ---\nBuyer: Jane Doe",
			want: "Buyer: Jane Doe\n",
		},
		{
			name: "gmail style marker",
			body: "Sent from my phone\n---------- Forwarded message ---------\nFrom: eBay\nItem: Lamp",
			want: "From: eBay\nItem: Lamp\n",
		},
		{
			name: "apple style marker",
			body: "Begin forwarded message:\nSKU: ABC123",
			want: "SKU: ABC123\n",
		},
		{
			name: "original message marker is case-insensitive",
			body: "-----ORIGINAL MESSAGE-----\nOrder #: 1",
			want: "Order #: 1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := &mail.Part{
				MimeType: "multipart/mixed",
				Parts:    []*mail.Part{{MimeType: "text/plain", Body: enc(tt.body)}},
			}
			assert.Equal(t, tt.want, New(nil).Extract(payload))
		})
	}
}

func TestExtract_ForwardMarkerOnLastLineFallsBackToHTML(t *testing.T) {
	payload := &mail.Part{
		MimeType: "multipart/alternative",
		Parts: []*mail.Part{
			{MimeType: "text/plain", Body: enc("note\n--- forwarded message ---")},
			{MimeType: "text/html", Body: enc("<div>Buyer:  <b>Jane</b></div>")},
		},
	}
	assert.Equal(t, "Buyer: Jane", New(nil).Extract(payload))
}

func TestExtract_HTMLFallback(t *testing.T) {
	payload := &mail.Part{
		MimeType: "multipart/alternative",
		Parts: []*mail.Part{
			{MimeType: "image/png", Body: enc("png")},
			{MimeType: "text/html; charset=utf-8", Body: enc("<html>\n<body><h1>Sold!</h1>\n\n<p>Total price: $5.00</p></body></html>")},
		},
	}
	assert.Equal(t, "Sold! Total price: $5.00", New(nil).Extract(payload))
}

func TestExtract_DecodeFailureIsIsolated(t *testing.T) {
	payload := &mail.Part{
		MimeType: "multipart/mixed",
		Parts: []*mail.Part{
			{MimeType: "text/plain", Body: mail.Body{Data: "!!!not base64!!!"}},
			{MimeType: "text/plain", Body: mail.Body{Data: base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe})}},
			{MimeType: "text/plain", Body: enc("Item: Mouse")},
		},
	}
	assert.Equal(t, "Item: Mouse", New(nil).Extract(payload))
}

func TestExtract_NestedParts(t *testing.T) {
	payload := &mail.Part{
		MimeType: "multipart/mixed",
		Parts: []*mail.Part{
			{
				MimeType: "multipart/alternative",
				Parts: []*mail.Part{
					{MimeType: "text/plain", Body: enc("Order #: 123")},
				},
			},
			{MimeType: "application/pdf", Body: enc("pdf")},
		},
	}
	assert.Equal(t, "Order #: 123", New(nil).Extract(payload))
}

func TestExtract_SingleBody(t *testing.T) {
	t.Run("base64url with padding", func(t *testing.T) {
		payload := &mail.Part{MimeType: "text/plain", Body: enc("hello?")}
		assert.Equal(t, "hello?", New(nil).Extract(payload))
	})

	t.Run("base64url without padding", func(t *testing.T) {
		payload := &mail.Part{MimeType: "text/plain", Body: mail.Body{Data: base64.RawURLEncoding.EncodeToString([]byte("hi"))}}
		assert.Equal(t, "hi", New(nil).Extract(payload))
	})

	t.Run("raw body", func(t *testing.T) {
		payload := &mail.Part{MimeType: "text/plain", Body: mail.Body{Data: "plain", Raw: true}}
		assert.Equal(t, "plain", New(nil).Extract(payload))
	})

	t.Run("undecodable body", func(t *testing.T) {
		payload := &mail.Part{MimeType: "text/plain", Body: mail.Body{Data: "%%%"}}
		assert.Equal(t, "", New(nil).Extract(payload))
	})

	t.Run("nil payload", func(t *testing.T) {
		assert.Equal(t, "", New(nil).Extract(nil))
	})
}

func TestHTMLToText(t *testing.T) {
	assert.Equal(t, "a b c", HTMLToText("<p>a</p>\n\t<span class=\"x\">b</span>   c"))
	assert.Equal(t, "", HTMLToText("<br/> <hr>"))
}

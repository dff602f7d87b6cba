package mailbox

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/saletrack/internal/domain/mail"
)

func writeMessage(t *testing.T, dir, id, from string, received time.Time, body string) {
	t.Helper()
	msg := mail.Message{
		ID:           id,
		InternalDate: strconv.FormatInt(received.UnixMilli(), 10),
		Payload: &mail.Part{
			MimeType: "text/plain",
			Headers:  mail.Headers{{Name: "From", Value: from}, {Name: "Subject", Value: "test"}},
			Body:     mail.Body{Data: base64.URLEncoding.EncodeToString([]byte(body))},
		},
	}
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), data, 0o644))
}

func newSpool(t *testing.T) (*Spool, string) {
	dir := t.TempDir()
	s := NewSpool(dir, nil)
	s.loc = time.UTC
	return s, dir
}

func TestSpool_SearchFiltersAndOrders(t *testing.T) {
	s, dir := newSpool(t)
	base := time.Date(2026, 10, 10, 9, 0, 0, 0, time.UTC)

	writeMessage(t, dir, "old", "eBay <ebay@ebay.com>", base.AddDate(0, 0, -5), "x")
	writeMessage(t, dir, "ebay1", "eBay <ebay@ebay.com>", base, "x")
	writeMessage(t, dir, "amz1", "Amazon <seller-notification@amazon.com>", base.Add(time.Hour), "x")
	writeMessage(t, dir, "news", "news@example.com", base, "x")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	ids, err := s.Search(context.Background(), "from:ebay@ebay.com OR from:amazon.com after:2026/10/08", 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"amz1", "ebay1"}, ids)

	ids, err = s.Search(context.Background(), "from:ebay@ebay.com OR from:amazon.com after:2026/10/08", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"amz1"}, ids)
}

func TestSpool_AfterIsInclusiveOfDay(t *testing.T) {
	s, dir := newSpool(t)
	writeMessage(t, dir, "m1", "ebay@ebay.com", time.Date(2026, 10, 8, 0, 30, 0, 0, time.UTC), "x")

	ids, err := s.Search(context.Background(), "from:ebay@ebay.com after:2026/10/08", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, ids)
}

func TestSpool_SearchErrors(t *testing.T) {
	s, _ := newSpool(t)

	_, err := s.Search(context.Background(), "subject:hello", 10)
	assert.Error(t, err)

	_, err = s.Search(context.Background(), "after:10-08-2026", 10)
	assert.Error(t, err)

	missing := NewSpool(filepath.Join(t.TempDir(), "nope"), nil)
	_, err = missing.Search(context.Background(), "from:ebay@ebay.com", 10)
	assert.Error(t, err)
	assert.Error(t, missing.Ping(context.Background()))
}

func TestSpool_Fetch(t *testing.T) {
	s, dir := newSpool(t)
	writeMessage(t, dir, "ebay1", "ebay@ebay.com", time.Now(), "Sold!")

	msg, err := s.Fetch(context.Background(), "ebay1")
	require.NoError(t, err)
	assert.Equal(t, "ebay@ebay.com", msg.Headers().Value("From"))

	_, err = s.Fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Fetch(context.Background(), "../ebay1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSpool_FetchByScan(t *testing.T) {
	s, dir := newSpool(t)
	data := `{"id":"abc123","payload":{"mimeType":"text/plain","headers":[{"name":"From","value":"ebay@ebay.com"}],"body":{"data":"aGk="}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2026-10-10-sale.json"), []byte(data), 0o644))

	msg, err := s.Fetch(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", msg.ID)
}

func TestQuery_DateHeaderFallback(t *testing.T) {
	after := time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC)
	q := Query{After: &after}

	msg := &mail.Message{Payload: &mail.Part{Headers: mail.Headers{
		{Name: "Date", Value: "Fri, 09 Oct 2026 10:00:00 +0000"},
	}}}
	assert.True(t, q.Matches(msg))

	msg.Payload.Headers[0].Value = "Wed, 07 Oct 2026 10:00:00 +0000"
	assert.False(t, q.Matches(msg))

	assert.False(t, q.Matches(&mail.Message{Payload: &mail.Part{}}))
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery("from:EBAY@ebay.com OR from:amazon.com after:2026/10/01", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []string{"ebay@ebay.com", "amazon.com"}, q.From)
	require.NotNil(t, q.After)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), *q.After)
}

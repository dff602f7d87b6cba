package monitor

import (
	"context"
	"encoding/base64"

	"github.com/stretchr/testify/mock"

	"github.com/eshaffer321/saletrack/internal/domain/mail"
)

// MockMailbox is a testify mock of Mailbox
type MockMailbox struct {
	mock.Mock
}

func (m *MockMailbox) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	args := m.Called(ctx, query, maxResults)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *MockMailbox) Fetch(ctx context.Context, id string) (*mail.Message, error) {
	args := m.Called(ctx, id)
	msg, _ := args.Get(0).(*mail.Message)
	return msg, args.Error(1)
}

// MockNotifier is a testify mock of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	args := m.Called(ctx, recipient, subject, body)
	return args.Error(0)
}

func message(id, from, subject, body string) *mail.Message {
	headers := mail.Headers{}
	if from != "" {
		headers = append(headers, mail.Header{Name: "From", Value: from})
	}
	if subject != "" {
		headers = append(headers, mail.Header{Name: "Subject", Value: subject})
	}
	return &mail.Message{
		ID: id,
		Payload: &mail.Part{
			MimeType: "multipart/alternative",
			Headers:  headers,
			Parts: []*mail.Part{
				{MimeType: "text/plain", Body: mail.Body{Data: base64.URLEncoding.EncodeToString([]byte(body))}},
			},
		},
	}
}

package monitor

import (
	"context"
	"fmt"
	"strings"

	"github.com/eshaffer321/saletrack/internal/domain/order"
)

// ReportSubjectLayout formats the timestamp in the report subject
const ReportSubjectLayout = "2006-01-02 15:04"

// SendOrdersReport mails the accumulated orders to recipient.
// With no orders there is nothing to send and it returns nil.
func (m *Monitor) SendOrdersReport(ctx context.Context, notifier Notifier, recipient string) error {
	if recipient == "" {
		return fmt.Errorf("no recipient email provided")
	}

	orders := m.orders.All()
	if len(orders) == 0 {
		m.logger.Debug("no orders to report")
		return nil
	}

	subject := "Orders Report - " + m.window.Now().Format(ReportSubjectLayout)
	if err := notifier.Send(ctx, recipient, subject, FormatReport(orders)); err != nil {
		m.logger.Error("failed to send orders report", "recipient", recipient, "error", err)
		return fmt.Errorf("failed to send orders report: %w", err)
	}

	m.logger.Info("sent orders report", "recipient", recipient, "orders", len(orders))
	return nil
}

// FormatReport renders orders as the plain-text report body
func FormatReport(orders []order.Record) string {
	var b strings.Builder
	b.WriteString("Current Orders Report\n\n")

	for _, o := range orders {
		fmt.Fprintf(&b, "Platform: %s\n", o.Platform)
		fmt.Fprintf(&b, "Item: %s\n", order.Str(o.ItemName))
		if o.SKU != nil {
			fmt.Fprintf(&b, "SKU: %s\n", *o.SKU)
		}
		if o.BuyerName != nil {
			fmt.Fprintf(&b, "Buyer: %s\n", *o.BuyerName)
		}
		if o.OrderID != nil {
			fmt.Fprintf(&b, "Order ID: %s\n", *o.OrderID)
		}
		if o.TotalPrice != nil {
			fmt.Fprintf(&b, "Total: $%s\n", o.TotalPrice.StringFixed(2))
		}
		b.WriteString("\n")
	}

	return b.String()
}

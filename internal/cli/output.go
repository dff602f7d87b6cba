package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/eshaffer321/saletrack/internal/domain/order"
)

// PrintHeader prints the application header
func PrintHeader(w io.Writer, mode string) {
	fmt.Fprintf(w, "saletrack: %s\n", mode)
}

// PrintScanSummary prints the orders found by a scan
func PrintScanSummary(w io.Writer, batch []order.Record, total int) {
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, o := range batch {
		line := fmt.Sprintf("%-7s %s", o.Platform, order.Str(o.ItemName))
		if o.BuyerName != nil {
			line += " | buyer: " + *o.BuyerName
		}
		if o.OrderID != nil {
			line += " | order: " + *o.OrderID
		}
		if o.TotalPrice != nil {
			line += " | $" + o.TotalPrice.StringFixed(2)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "Summary: New=%d Total=%d\n", len(batch), total)
}

package inventory

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Sale is one row of the sales log
type Sale struct {
	Date             time.Time `json:"date"`
	BuyerName        string    `json:"buyer_name"`
	ItemName         string    `json:"item_name"`
	SKU              string    `json:"sku"`
	TrackingNumber   string    `json:"tracking_number"`
	FoundInInventory bool      `json:"found_in_inventory"`
}

// Item is one inventory row as listed to callers
type Item struct {
	AddedAt      string `json:"added_at"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	LocationCode string `json:"location_code"`
	Quantity     int    `json:"quantity"`
}

// SaleRow is one sales row as stored
type SaleRow struct {
	Date             string `json:"date"`
	BuyerName        string `json:"buyer_name"`
	ItemName         string `json:"item_name"`
	SKU              string `json:"sku"`
	TrackingNumber   string `json:"tracking_number"`
	FoundInInventory string `json:"found_in_inventory"`
}

// LogSale appends a sale to the sales log
func (l *Ledger) LogSale(ctx context.Context, sale Sale) error {
	found := "No"
	if sale.FoundInInventory {
		found = "Yes"
	}
	row := []string{
		sale.Date.Format(TimestampLayout),
		sale.BuyerName,
		sale.ItemName,
		sale.SKU,
		sale.TrackingNumber,
		found,
	}

	if err := l.store.Append(ctx, SalesTable, row); err != nil {
		l.logger.Error("failed to log sale", "sku", sale.SKU, "error", err)
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	l.logger.Info("logged sale", "sku", sale.SKU, "buyer", sale.BuyerName)
	return nil
}

// ListInventory returns the inventory rows below the header row.
// Rows with fewer than five cells are skipped.
func (l *Ledger) ListInventory(ctx context.Context) ([]Item, error) {
	rows, err := l.readInventory(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(rows))
	for i, row := range skipHeader(rows) {
		if len(row) < 5 {
			continue
		}
		quantity, err := strconv.Atoi(row[colQuantity])
		if err != nil {
			l.logger.Warn("skipping inventory row with bad quantity", "row", i+2, "value", row[colQuantity])
			continue
		}
		items = append(items, Item{
			AddedAt:      row[colAddedAt],
			SKU:          row[colSKU],
			Name:         row[colName],
			LocationCode: row[colLocation],
			Quantity:     quantity,
		})
	}
	return items, nil
}

// ListSales returns the sales rows below the header row.
// Rows with fewer than six cells are skipped.
func (l *Ledger) ListSales(ctx context.Context) ([]SaleRow, error) {
	rows, err := l.store.Read(ctx, SalesTable, SalesRange)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}

	sales := make([]SaleRow, 0, len(rows))
	for _, row := range skipHeader(rows) {
		if len(row) < 6 {
			continue
		}
		sales = append(sales, SaleRow{
			Date:             row[0],
			BuyerName:        row[1],
			ItemName:         row[2],
			SKU:              row[3],
			TrackingNumber:   row[4],
			FoundInInventory: row[5],
		})
	}
	return sales, nil
}

func skipHeader(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	return rows[1:]
}

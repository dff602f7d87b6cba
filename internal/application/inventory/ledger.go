// Package inventory keeps SKU quantities in an external row-oriented record
// store laid out like a spreadsheet.
//
// Every operation is a read followed by a write against the store. The store
// offers no transactions, so two concurrent UpdateQuantity calls for the same
// SKU can lose an update. Callers that need correctness under concurrency
// must serialize calls per SKU, or enable Options.VerifyRetries.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const (
	InventoryTable = "Inventory"
	InventoryRange = "A:E"
	SalesTable     = "Sales"
	SalesRange     = "A:F"

	// TimestampLayout formats the added_at and sale date cells
	TimestampLayout = "2006-01-02 15:04:05"

	quantityColumn = "E"
)

// Header rows written by EnsureHeaders. Listings skip row 1 of each table.
var (
	InventoryHeader = []string{"Date Added", "SKU", "Name", "Location", "Quantity"}
	SalesHeader     = []string{"Date", "Buyer Name", "Item Name", "SKU", "Tracking Number", "Found In Inventory"}
)

// Inventory columns
const (
	colAddedAt = iota
	colSKU
	colName
	colLocation
	colQuantity
)

var (
	ErrSkuNotFound           = errors.New("SKU not found")
	ErrInsufficientInventory = errors.New("Insufficient inventory")
	ErrWriteFailed           = errors.New("record store write failed")
	ErrReadFailed            = errors.New("record store read failed")
	ErrConflict              = errors.New("quantity changed during update")
	ErrInvalidQuantity       = errors.New("invalid quantity cell")
)

// RecordStore is the tabular store backing the ledger
type RecordStore interface {
	Append(ctx context.Context, table string, row []string) error
	Read(ctx context.Context, table, rng string) ([][]string, error)
	WriteCell(ctx context.Context, table, cell, value string) error
}

// Options configures a Ledger
type Options struct {
	// VerifyRetries > 0 re-reads the SKU and quantity cells of the matched row
	// just before writing and restarts the update when either changed, up to
	// this many times. Zero keeps the plain read-then-write behavior.
	//
	// The re-read and the write are still separate store calls, so this is a
	// best-effort check-then-write: it narrows the lost-update window but
	// cannot close it.
	VerifyRetries int

	Now func() time.Time
}

// Ledger maintains SKU -> (name, location, quantity) rows
type Ledger struct {
	store  RecordStore
	opts   Options
	logger *slog.Logger
}

// Result describes the outcome of a quantity update
type Result struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	NewQuantity int    `json:"new_quantity,omitempty"`
}

// NewLedger creates a ledger over store
func NewLedger(store RecordStore, opts Options, logger *slog.Logger) *Ledger {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{store: store, opts: opts, logger: logger}
}

// EnsureHeaders writes the header row of the inventory and sales tables
// when they are empty. Tables that already hold rows are left alone.
func (l *Ledger) EnsureHeaders(ctx context.Context) error {
	tables := []struct {
		name, rng string
		header    []string
	}{
		{InventoryTable, InventoryRange, InventoryHeader},
		{SalesTable, SalesRange, SalesHeader},
	}

	for _, t := range tables {
		rows, err := l.store.Read(ctx, t.name, t.rng)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadFailed, err)
		}
		if len(rows) > 0 {
			continue
		}
		if err := l.store.Append(ctx, t.name, t.header); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteFailed, err)
		}
		l.logger.Info("wrote header row", "table", t.name)
	}
	return nil
}

// AddItem appends a new inventory row. It does not check for an existing SKU.
func (l *Ledger) AddItem(ctx context.Context, sku, name, locationCode string, quantity int) error {
	row := []string{
		l.opts.Now().Format(TimestampLayout),
		sku,
		name,
		locationCode,
		strconv.Itoa(quantity),
	}

	if err := l.store.Append(ctx, InventoryTable, row); err != nil {
		l.logger.Error("failed to add inventory item", "sku", sku, "error", err)
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	l.logger.Info("added inventory item", "sku", sku, "location", locationCode, "quantity", quantity)
	return nil
}

// UpdateQuantity applies delta to the first row whose SKU matches.
//
// A missing SKU yields ErrSkuNotFound and a result that would go negative
// yields ErrInsufficientInventory; neither writes anything.
func (l *Ledger) UpdateQuantity(ctx context.Context, sku string, delta int) (Result, error) {
	attempts := 1 + max(l.opts.VerifyRetries, 0)

	for attempt := 1; attempt <= attempts; attempt++ {
		rowNum, current, err := l.findQuantity(ctx, sku)
		if err != nil {
			return failure(err), err
		}

		newQuantity := current + delta
		if newQuantity < 0 {
			l.logger.Warn("insufficient inventory", "sku", sku, "quantity", current, "delta", delta)
			return failure(ErrInsufficientInventory), ErrInsufficientInventory
		}

		ref := fmt.Sprintf("%s%d", quantityColumn, rowNum)

		if l.opts.VerifyRetries > 0 {
			unchanged, err := l.rowUnchanged(ctx, rowNum, sku, current)
			if err != nil {
				return failure(err), err
			}
			if !unchanged {
				l.logger.Warn("quantity changed before write, retrying", "sku", sku, "attempt", attempt)
				continue
			}
		}

		if err := l.store.WriteCell(ctx, InventoryTable, ref, strconv.Itoa(newQuantity)); err != nil {
			l.logger.Error("failed to update inventory", "sku", sku, "cell", ref, "error", err)
			wrapped := fmt.Errorf("%w: %w", ErrWriteFailed, err)
			return failure(wrapped), wrapped
		}

		l.logger.Info("updated inventory quantity", "sku", sku, "from", current, "to", newQuantity)
		return Result{
			Success:     true,
			Message:     fmt.Sprintf("Updated quantity to %d", newQuantity),
			NewQuantity: newQuantity,
		}, nil
	}

	return failure(ErrConflict), ErrConflict
}

// GetLocation returns the location code of the first row whose SKU matches.
// A missing SKU is not an error: it returns ok=false.
func (l *Ledger) GetLocation(ctx context.Context, sku string) (string, bool, error) {
	rows, err := l.readInventory(ctx)
	if err != nil {
		return "", false, err
	}
	for _, row := range rows {
		if cell(row, colSKU) == sku {
			return cell(row, colLocation), true, nil
		}
	}
	return "", false, nil
}

// findQuantity scans top to bottom and returns the 1-based row number and
// the parsed quantity of the first row matching sku
func (l *Ledger) findQuantity(ctx context.Context, sku string) (int, int, error) {
	rows, err := l.readInventory(ctx)
	if err != nil {
		return 0, 0, err
	}

	for i, row := range rows {
		if cell(row, colSKU) != sku {
			continue
		}
		quantity, err := parseQuantity(cell(row, colQuantity))
		if err != nil {
			return 0, 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		return i + 1, quantity, nil
	}

	return 0, 0, ErrSkuNotFound
}

// rowUnchanged re-reads the SKU through quantity cells of rowNum and reports
// whether the row still holds sku with quantity want
func (l *Ledger) rowUnchanged(ctx context.Context, rowNum int, sku string, want int) (bool, error) {
	rows, err := l.store.Read(ctx, InventoryTable, fmt.Sprintf("B%d:%s%d", rowNum, quantityColumn, rowNum))
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	if len(rows) == 0 {
		return false, nil
	}
	// columns are shifted by one since the read starts at B
	row := rows[0]
	if cell(row, colSKU-1) != sku {
		return false, nil
	}
	got, err := parseQuantity(cell(row, colQuantity-1))
	if err != nil {
		return false, nil
	}
	return got == want, nil
}

func (l *Ledger) readInventory(ctx context.Context) ([][]string, error) {
	rows, err := l.store.Read(ctx, InventoryTable, InventoryRange)
	if err != nil {
		l.logger.Error("failed to read inventory", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	return rows, nil
}

func failure(err error) Result {
	switch {
	case errors.Is(err, ErrSkuNotFound):
		return Result{Message: ErrSkuNotFound.Error()}
	case errors.Is(err, ErrInsufficientInventory):
		return Result{Message: ErrInsufficientInventory.Error()}
	default:
		return Result{Message: err.Error()}
	}
}

func parseQuantity(s string) (int, error) {
	q, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrInvalidQuantity, s)
	}
	return q, nil
}

// cell returns row[i] or "" when the row is short
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

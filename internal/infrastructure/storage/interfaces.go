package storage

import "context"

// Store defines the row-oriented record store interface.
// Tables behave like spreadsheet tabs: rows are addressed from 1, columns by
// letter, and ranges use A1 notation ("A:E", "E7", "B2:C10").
// This interface allows swapping implementations (SQLite, in-memory, a hosted
// sheet) and makes testing with mocks straightforward.
type Store interface {
	// Append adds row after the last non-empty row of table
	Append(ctx context.Context, table string, row []string) error

	// Read returns the cells of table within rng. Rows are returned from the
	// first row of the range; trailing empty cells and rows are omitted.
	Read(ctx context.Context, table, rng string) ([][]string, error)

	// WriteCell sets a single cell, e.g. "E7"
	WriteCell(ctx context.Context, table, cell, value string) error

	// Ping checks that the store is reachable
	Ping(ctx context.Context) error

	Close() error
}

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ledger_test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_Migrations(t *testing.T) {
	s := newTestSQLiteStore(t)

	version, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)

	// reopening an existing database is a no-op for migrations
	path := filepath.Join(t.TempDir(), "reopen.db")
	first, err := NewSQLiteStore(path, nil)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path, nil)
	require.NoError(t, err)
	defer second.Close()
	version, err = second.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)
}

func TestSQLiteStore_AppendAndRead(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	require.NoError(t, s.Append(ctx, "Inventory", []string{"Date", "SKU", "Name", "Location", "Quantity"}))
	require.NoError(t, s.Append(ctx, "Inventory", []string{"2026-10-14 09:00:00", "A1", "Lamp", "B-3", "10"}))
	require.NoError(t, s.Append(ctx, "Inventory", []string{"2026-10-14 09:05:00", "A2", "Mouse", "C-1", "4"}))
	require.NoError(t, s.Append(ctx, "Sales", []string{"x"}))

	rows, err := s.Read(ctx, "Inventory", "A:E")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2026-10-14 09:00:00", "A1", "Lamp", "B-3", "10"}, rows[1])

	rows, err = s.Read(ctx, "Inventory", "B2:C3")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A1", "Lamp"}, {"A2", "Mouse"}}, rows)

	rows, err = s.Read(ctx, "Empty", "A:E")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSQLiteStore_WriteCell(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	require.NoError(t, s.Append(ctx, "Inventory", []string{"t", "A1", "Lamp", "B-3", "10"}))
	require.NoError(t, s.WriteCell(ctx, "Inventory", "E1", "7"))

	rows, err := s.Read(ctx, "Inventory", "E1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"7"}}, rows)

	// writing past the data leaves a gap of empty rows
	require.NoError(t, s.WriteCell(ctx, "Inventory", "B3", "Z9"))
	rows, err = s.Read(ctx, "Inventory", "A:E")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{}, rows[1])
	assert.Equal(t, []string{"", "Z9"}, rows[2])

	// append goes after the last non-empty row
	require.NoError(t, s.Append(ctx, "Inventory", []string{"t2", "A4"}))
	rows, err = s.Read(ctx, "Inventory", "B4")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A4"}}, rows)

	assert.Error(t, s.WriteCell(ctx, "Inventory", "nope", "1"))
}

func TestSQLiteStore_Ping(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	for range 3 {
		require.NoError(t, s.Ping(ctx))
	}

	var cells int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cells`).Scan(&cells))
	assert.Zero(t, cells, "ping does not write")

	var tables int
	require.NoError(t, s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'health_pings'`).Scan(&tables))
	assert.Zero(t, tables)

	require.NoError(t, s.Close())
	assert.Error(t, s.Ping(ctx))
}

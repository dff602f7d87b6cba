package inventory

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/saletrack/internal/infrastructure/storage"
)

func TestLedger_EnsureHeaders(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(Options{})

	require.NoError(t, ledger.EnsureHeaders(ctx))
	assert.Equal(t, [][]string{InventoryHeader}, store.Rows(InventoryTable))
	assert.Equal(t, [][]string{SalesHeader}, store.Rows(SalesTable))

	// second call is a no-op
	require.NoError(t, ledger.EnsureHeaders(ctx))
	assert.Len(t, store.Rows(InventoryTable), 1)
	assert.Len(t, store.Rows(SalesTable), 1)
}

func TestLedger_EnsureHeaders_ExistingRowsUntouched(t *testing.T) {
	ledger, store := newTestLedger(Options{}, header, []string{"t", "A1", "Lamp", "B-3", "10"})

	require.NoError(t, ledger.EnsureHeaders(context.Background()))
	assert.Len(t, store.Rows(InventoryTable), 2)
	assert.Equal(t, 1, store.AppendCalls, "only the empty sales table gets a header")
}

func TestLedger_EnsureHeaders_Errors(t *testing.T) {
	ledger, store := newTestLedger(Options{})
	store.ReadErr = errors.New("offline")
	assert.ErrorIs(t, ledger.EnsureHeaders(context.Background()), ErrReadFailed)

	store.ReadErr = nil
	store.AppendErr = errors.New("read only")
	assert.ErrorIs(t, ledger.EnsureHeaders(context.Background()), ErrWriteFailed)
}

func TestLedger_SQLiteStore_FreshDatabase(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "inventory.db"), testLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ledger := NewLedger(store, Options{Now: func() time.Time { return fixedNow }}, testLogger)
	require.NoError(t, ledger.EnsureHeaders(ctx))

	require.NoError(t, ledger.AddItem(ctx, "A1", "Lamp", "B-3", 10))
	require.NoError(t, ledger.AddItem(ctx, "A2", "Mug", "C-1", 2))
	require.NoError(t, ledger.LogSale(ctx, Sale{Date: fixedNow, BuyerName: "Jane", ItemName: "Lamp", SKU: "A1"}))

	items, err := ledger.ListInventory(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A1", items[0].SKU)
	assert.Equal(t, "A2", items[1].SKU)

	sales, err := ledger.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "Jane", sales[0].BuyerName)
	assert.Equal(t, "No", sales[0].FoundInInventory)

	result, err := ledger.UpdateQuantity(ctx, "A1", -4)
	require.NoError(t, err)
	assert.Equal(t, 6, result.NewQuantity)

	location, ok, err := ledger.GetLocation(ctx, "A2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "C-1", location)

	// reopening keeps a single header
	require.NoError(t, ledger.EnsureHeaders(ctx))
	items, err = ledger.ListInventory(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

package rowstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAppendAndList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.AppendRow(ctx, "Stock", map[string]string{"item_name": "Kopi", "quantity": "5"}))
	require.NoError(t, store.AppendRow(ctx, "Stock", map[string]string{"item_name": "Teh", "quantity": "3"}))

	rows, err := store.ListRows(ctx, "Stock")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Kopi", rows[0].Fields["item_name"])
	assert.Equal(t, "Teh", rows[1].Fields["item_name"])
	assert.NotEqual(t, rows[0].ID, rows[1].ID)

	other, err := store.ListRows(ctx, "Order")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryStoreListCopiesFields(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.AppendRow(ctx, "Stock", map[string]string{"item_name": "Kopi"}))

	rows, err := store.ListRows(ctx, "Stock")
	require.NoError(t, err)
	rows[0].Fields["item_name"] = "mutated"

	rows, err = store.ListRows(ctx, "Stock")
	require.NoError(t, err)
	assert.Equal(t, "Kopi", rows[0].Fields["item_name"])
}

func TestMemoryStoreUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.AppendRow(ctx, "Stock", map[string]string{"item_name": "Kopi", "quantity": "5"}))

	rows, err := store.ListRows(ctx, "Stock")
	require.NoError(t, err)

	require.NoError(t, store.UpdateRow(ctx, "Stock", rows[0].ID, map[string]string{"item_name": "Kopi", "quantity": "9"}))

	rows, err = store.ListRows(ctx, "Stock")
	require.NoError(t, err)
	assert.Equal(t, "9", rows[0].Fields["quantity"])

	err = store.UpdateRow(ctx, "Stock", "999", map[string]string{"quantity": "1"})
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.AppendRow(ctx, "Order", map[string]string{"order_id": "ORD-1"}))
	require.NoError(t, store.AppendRow(ctx, "Order", map[string]string{"order_id": "ORD-2"}))

	rows, err := store.ListRows(ctx, "Order")
	require.NoError(t, err)

	require.NoError(t, store.DeleteRow(ctx, "Order", rows[0].ID))

	rows, err = store.ListRows(ctx, "Order")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ORD-2", rows[0].Fields["order_id"])

	err = store.DeleteRow(ctx, "Order", "999")
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestMemoryStoreFailNext(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	boom := errors.New("boom")
	store.FailNext = boom

	err := store.AppendRow(ctx, "Stock", map[string]string{"item_name": "Kopi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)

	// Cleared after the first failure.
	require.NoError(t, store.AppendRow(ctx, "Stock", map[string]string{"item_name": "Kopi"}))
}

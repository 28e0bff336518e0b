package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warungpos/apiserver/internal/rowstore"
	"github.com/warungpos/apiserver/internal/store"
)

func newTestShopping(t *testing.T) *ShoppingService {
	t.Helper()
	return NewShoppingService(store.NewShoppingRepository(rowstore.NewMemoryStore()))
}

func TestShoppingAddAndList(t *testing.T) {
	ctx := context.Background()
	shopping := newTestShopping(t)

	entry, err := shopping.Add(ctx, "Gula Pasir", 2, 28000)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(entry.ShoppingID, "SHOP-"))
	assert.False(t, entry.Date.IsZero())

	entries, err := shopping.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Gula Pasir", entries[0].ItemName)
	assert.Equal(t, int64(28000), entries[0].Price)
}

func TestShoppingAddValidation(t *testing.T) {
	ctx := context.Background()
	shopping := newTestShopping(t)

	var verr *ValidationError

	_, err := shopping.Add(ctx, "  ", 1, 1000)
	require.ErrorAs(t, err, &verr)

	_, err = shopping.Add(ctx, "Gula Pasir", 0, 1000)
	require.ErrorAs(t, err, &verr)

	_, err = shopping.Add(ctx, "Gula Pasir", 1, 0)
	require.ErrorAs(t, err, &verr)
}

func TestShoppingRemove(t *testing.T) {
	ctx := context.Background()
	shopping := newTestShopping(t)

	entry, err := shopping.Add(ctx, "Gula Pasir", 2, 28000)
	require.NoError(t, err)

	require.NoError(t, shopping.Remove(ctx, entry.ShoppingID))

	entries, err := shopping.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	err = shopping.Remove(ctx, "SHOP-MISSING1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warungpos/apiserver/internal/mq"
	"github.com/warungpos/apiserver/internal/rowstore"
	"github.com/warungpos/apiserver/internal/store"
	"github.com/warungpos/apiserver/types"
)

func newTestCommitter(t *testing.T) (*Committer, *Ledger, *rowstore.MemoryStore) {
	t.Helper()
	rows := rowstore.NewMemoryStore()
	ledger := NewLedger(store.NewStockRepository(rows), nil, 0)
	committer := NewCommitter(ledger, store.NewOrderRepository(rows), nil)
	return committer, ledger, rows
}

func TestCommitSingleLine(t *testing.T) {
	ctx := context.Background()
	committer, ledger, _ := newTestCommitter(t)
	seedStock(t, ledger, "Kopi Susu", 12)

	order, err := committer.Commit(ctx, "Budi", []types.CartLine{
		{ItemName: "Kopi Susu", Quantity: 5, UnitAmount: 15000},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderID, "ORD-"), "order id %q", order.OrderID)
	assert.Len(t, order.OrderID, 12)
	assert.Equal(t, "Budi", order.CashierName)
	assert.Equal(t, 5, order.TotalItems)
	assert.Equal(t, int64(75000), order.TotalAmount)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, int64(75000), order.Lines[0].LineAmount)

	qty, err := ledger.Quantity(ctx, "Kopi Susu")
	require.NoError(t, err)
	assert.Equal(t, 7, qty)
}

func TestCommitInsufficientStockLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	committer, ledger, _ := newTestCommitter(t)
	seedStock(t, ledger, "Teh", 3)

	_, err := committer.Commit(ctx, "Budi", []types.CartLine{
		{ItemName: "Teh", Quantity: 5, UnitAmount: 5000},
	})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Teh", stockErr.ItemName)
	assert.Equal(t, 3, stockErr.Available)

	qty, err := ledger.Quantity(ctx, "Teh")
	require.NoError(t, err)
	assert.Equal(t, 3, qty)

	lines, err := committer.ListLines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCommitCompensatesEarlierLines(t *testing.T) {
	ctx := context.Background()
	committer, ledger, _ := newTestCommitter(t)
	seedStock(t, ledger, "Kopi Susu", 10)
	seedStock(t, ledger, "Roti", 4)
	seedStock(t, ledger, "Teh", 2)

	_, err := committer.Commit(ctx, "Budi", []types.CartLine{
		{ItemName: "Kopi Susu", Quantity: 6, UnitAmount: 15000},
		{ItemName: "Roti", Quantity: 2, UnitAmount: 8000},
		{ItemName: "Teh", Quantity: 5, UnitAmount: 5000},
	})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Teh", stockErr.ItemName)

	for item, want := range map[string]int{"Kopi Susu": 10, "Roti": 4, "Teh": 2} {
		qty, err := ledger.Quantity(ctx, item)
		require.NoError(t, err)
		assert.Equal(t, want, qty, "quantity of %s", item)
	}

	lines, err := committer.ListLines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCommitRollsBackPartialPersist(t *testing.T) {
	ctx := context.Background()
	committer, ledger, rows := newTestCommitter(t)
	seedStock(t, ledger, "Kopi Susu", 10)
	seedStock(t, ledger, "Roti", 4)

	// The first order row appends fine, the second hits the backend
	// failure; both the appended row and the decrements must be undone.
	rows.FailNext = errors.New("quota exceeded")
	rows.FailTable = store.TableOrders
	rows.FailAfter = 1

	_, err := committer.Commit(ctx, "Budi", []types.CartLine{
		{ItemName: "Kopi Susu", Quantity: 2, UnitAmount: 15000},
		{ItemName: "Roti", Quantity: 1, UnitAmount: 8000},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, rowstore.ErrUpstream)

	for item, want := range map[string]int{"Kopi Susu": 10, "Roti": 4} {
		qty, err := ledger.Quantity(ctx, item)
		require.NoError(t, err)
		assert.Equal(t, want, qty, "quantity of %s", item)
	}

	lines, err := committer.ListLines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCommitValidation(t *testing.T) {
	ctx := context.Background()
	committer, ledger, _ := newTestCommitter(t)
	seedStock(t, ledger, "Kopi Susu", 10)

	cases := []struct {
		name    string
		cashier string
		lines   []types.CartLine
	}{
		{"missing cashier", "", []types.CartLine{{ItemName: "Kopi Susu", Quantity: 1, UnitAmount: 1000}}},
		{"empty cart", "Budi", nil},
		{"blank item name", "Budi", []types.CartLine{{ItemName: "  ", Quantity: 1, UnitAmount: 1000}}},
		{"zero quantity", "Budi", []types.CartLine{{ItemName: "Kopi Susu", Quantity: 0, UnitAmount: 1000}}},
		{"negative quantity", "Budi", []types.CartLine{{ItemName: "Kopi Susu", Quantity: -2, UnitAmount: 1000}}},
		{"negative amount", "Budi", []types.CartLine{{ItemName: "Kopi Susu", Quantity: 1, UnitAmount: -1}}},
		{"duplicate item", "Budi", []types.CartLine{
			{ItemName: "Kopi Susu", Quantity: 1, UnitAmount: 1000},
			{ItemName: "Kopi Susu", Quantity: 2, UnitAmount: 1000},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := committer.Commit(ctx, tc.cashier, tc.lines)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}

	// Validation failures never touch stock.
	qty, err := ledger.Quantity(ctx, "Kopi Susu")
	require.NoError(t, err)
	assert.Equal(t, 10, qty)
}

func TestListOrdersGroupsLines(t *testing.T) {
	ctx := context.Background()
	committer, ledger, _ := newTestCommitter(t)
	seedStock(t, ledger, "Kopi Susu", 20)
	seedStock(t, ledger, "Roti", 20)

	first, err := committer.Commit(ctx, "Budi", []types.CartLine{
		{ItemName: "Kopi Susu", Quantity: 2, UnitAmount: 15000},
		{ItemName: "Roti", Quantity: 1, UnitAmount: 8000},
	})
	require.NoError(t, err)

	second, err := committer.Commit(ctx, "Sari", []types.CartLine{
		{ItemName: "Roti", Quantity: 3, UnitAmount: 8000},
	})
	require.NoError(t, err)

	orders, err := committer.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	byID := map[string]types.Order{}
	for _, order := range orders {
		byID[order.OrderID] = order
	}

	got := byID[first.OrderID]
	assert.Equal(t, "Budi", got.CashierName)
	assert.Equal(t, 3, got.TotalItems)
	assert.Equal(t, int64(38000), got.TotalAmount)
	require.Len(t, got.Lines, 2)

	got = byID[second.OrderID]
	assert.Equal(t, "Sari", got.CashierName)
	assert.Equal(t, int64(24000), got.TotalAmount)
}

func TestGetOrder(t *testing.T) {
	ctx := context.Background()
	committer, ledger, _ := newTestCommitter(t)
	seedStock(t, ledger, "Kopi Susu", 20)

	created, err := committer.Commit(ctx, "Budi", []types.CartLine{
		{ItemName: "Kopi Susu", Quantity: 2, UnitAmount: 15000},
	})
	require.NoError(t, err)

	order, err := committer.GetOrder(ctx, created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, created.OrderID, order.OrderID)

	_, err = committer.GetOrder(ctx, "ORD-MISSING1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCommitPublishesOrderCreated(t *testing.T) {
	ctx := context.Background()
	rows := rowstore.NewMemoryStore()
	ledger := NewLedger(store.NewStockRepository(rows), nil, 0)
	publisher := &recordingPublisher{}
	committer := NewCommitter(ledger, store.NewOrderRepository(rows), publisher)
	seedStock(t, ledger, "Kopi Susu", 20)

	_, err := committer.Commit(ctx, "Budi", []types.CartLine{
		{ItemName: "Kopi Susu", Quantity: 2, UnitAmount: 15000},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{mq.ChannelOrderCreated}, publisher.published())
}

package store

import (
	"context"
	"strconv"

	"github.com/warungpos/apiserver/internal/rowstore"
	"github.com/warungpos/apiserver/types"
)

const (
	colShoppingID    = "shopping_id"
	colShoppingDate  = "shopping_date"
	colShoppingItem  = "item_shopping"
	colShoppingQty   = "quantity"
	colShoppingPrice = "price"
)

// ShoppingRepository handles persistence for the shopping list.
type ShoppingRepository struct {
	rows rowstore.Store
}

func NewShoppingRepository(rows rowstore.Store) *ShoppingRepository {
	return &ShoppingRepository{rows: rows}
}

func (r *ShoppingRepository) List(ctx context.Context) ([]types.ShoppingEntry, error) {
	rows, err := r.rows.ListRows(ctx, TableShopping)
	if err != nil {
		return nil, err
	}

	entries := make([]types.ShoppingEntry, 0, len(rows))
	for _, row := range rows {
		if row.Fields[colShoppingID] == "" {
			continue
		}
		entries = append(entries, shoppingFromRow(row))
	}
	return entries, nil
}

func (r *ShoppingRepository) GetByID(ctx context.Context, shoppingID string) (types.ShoppingEntry, error) {
	rows, err := r.rows.ListRows(ctx, TableShopping)
	if err != nil {
		return types.ShoppingEntry{}, err
	}

	for _, row := range rows {
		if row.Fields[colShoppingID] == shoppingID {
			return shoppingFromRow(row), nil
		}
	}
	return types.ShoppingEntry{}, ErrNotFound
}

func (r *ShoppingRepository) Create(ctx context.Context, entry types.ShoppingEntry) error {
	return r.rows.AppendRow(ctx, TableShopping, map[string]string{
		colShoppingID:    entry.ShoppingID,
		colShoppingDate:  formatTime(entry.Date),
		colShoppingItem:  entry.ItemName,
		colShoppingQty:   strconv.Itoa(entry.Quantity),
		colShoppingPrice: strconv.FormatInt(entry.Price, 10),
	})
}

func (r *ShoppingRepository) Delete(ctx context.Context, rowID string) error {
	if rowID == "" {
		return ErrNotFound
	}
	return r.rows.DeleteRow(ctx, TableShopping, rowID)
}

func shoppingFromRow(row rowstore.Row) types.ShoppingEntry {
	return types.ShoppingEntry{
		ShoppingID: row.Fields[colShoppingID],
		Date:       fieldTime(row.Fields, colShoppingDate),
		ItemName:   row.Fields[colShoppingItem],
		Quantity:   fieldInt(row.Fields, colShoppingQty),
		Price:      fieldInt64(row.Fields, colShoppingPrice),
		RowID:      row.ID,
	}
}

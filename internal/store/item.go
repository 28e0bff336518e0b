package store

import (
	"context"
	"strconv"

	"github.com/warungpos/apiserver/internal/rowstore"
	"github.com/warungpos/apiserver/types"
)

// Master Item sheet columns. hpp and hpj are the historical column
// names for cost price and sell price.
const (
	colItemName        = "item_name"
	colItemCostPrice   = "hpp"
	colItemOperational = "operasional"
	colItemLabor       = "worker"
	colItemMarketing   = "marketing"
	colItemSellPrice   = "hpj"
	colItemNetSales    = "net_sales"
	colItemCreated     = "created_at"
)

// MasterItemRepository handles persistence for the item catalog.
type MasterItemRepository struct {
	rows rowstore.Store
}

func NewMasterItemRepository(rows rowstore.Store) *MasterItemRepository {
	return &MasterItemRepository{rows: rows}
}

func (r *MasterItemRepository) List(ctx context.Context) ([]types.MasterItem, error) {
	rows, err := r.rows.ListRows(ctx, TableItems)
	if err != nil {
		return nil, err
	}

	items := make([]types.MasterItem, 0, len(rows))
	for _, row := range rows {
		if row.Fields[colItemName] == "" {
			continue
		}
		items = append(items, itemFromRow(row))
	}
	return items, nil
}

func (r *MasterItemRepository) GetByName(ctx context.Context, name string) (types.MasterItem, error) {
	rows, err := r.rows.ListRows(ctx, TableItems)
	if err != nil {
		return types.MasterItem{}, err
	}

	for _, row := range rows {
		if row.Fields[colItemName] == name {
			return itemFromRow(row), nil
		}
	}
	return types.MasterItem{}, ErrNotFound
}

func (r *MasterItemRepository) Create(ctx context.Context, item types.MasterItem) error {
	return r.rows.AppendRow(ctx, TableItems, map[string]string{
		colItemName:        item.Name,
		colItemCostPrice:   strconv.FormatInt(item.CostPrice, 10),
		colItemOperational: strconv.FormatInt(item.Operational, 10),
		colItemLabor:       strconv.FormatInt(item.Labor, 10),
		colItemMarketing:   strconv.FormatInt(item.Marketing, 10),
		colItemSellPrice:   strconv.FormatInt(item.SellPrice, 10),
		colItemNetSales:    strconv.FormatInt(item.NetSales, 10),
		colItemCreated:     formatTime(item.CreatedAt),
	})
}

func itemFromRow(row rowstore.Row) types.MasterItem {
	return types.MasterItem{
		Name:        row.Fields[colItemName],
		CostPrice:   fieldInt64(row.Fields, colItemCostPrice),
		Operational: fieldInt64(row.Fields, colItemOperational),
		Labor:       fieldInt64(row.Fields, colItemLabor),
		Marketing:   fieldInt64(row.Fields, colItemMarketing),
		SellPrice:   fieldInt64(row.Fields, colItemSellPrice),
		NetSales:    fieldInt64(row.Fields, colItemNetSales),
		CreatedAt:   fieldTime(row.Fields, colItemCreated),
		RowID:       row.ID,
	}
}

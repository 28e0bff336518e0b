package store

import (
	"context"
	"strconv"

	"github.com/warungpos/apiserver/internal/rowstore"
	"github.com/warungpos/apiserver/types"
)

const (
	colStockItem    = "item_name"
	colStockQty     = "quantity"
	colStockUpdated = "updated_at"
)

// StockRepository handles persistence for stock records.
type StockRepository struct {
	rows rowstore.Store
}

func NewStockRepository(rows rowstore.Store) *StockRepository {
	return &StockRepository{rows: rows}
}

func (r *StockRepository) List(ctx context.Context) ([]types.StockRecord, error) {
	rows, err := r.rows.ListRows(ctx, TableStock)
	if err != nil {
		return nil, err
	}

	records := make([]types.StockRecord, 0, len(rows))
	for _, row := range rows {
		if row.Fields[colStockItem] == "" {
			continue
		}
		records = append(records, stockFromRow(row))
	}
	return records, nil
}

func (r *StockRepository) GetByItem(ctx context.Context, itemName string) (types.StockRecord, error) {
	rows, err := r.rows.ListRows(ctx, TableStock)
	if err != nil {
		return types.StockRecord{}, err
	}

	for _, row := range rows {
		if row.Fields[colStockItem] == itemName {
			return stockFromRow(row), nil
		}
	}
	return types.StockRecord{}, ErrNotFound
}

func (r *StockRepository) Create(ctx context.Context, record types.StockRecord) error {
	return r.rows.AppendRow(ctx, TableStock, stockToFields(record))
}

// Update replaces the full stock row identified by record.RowID.
func (r *StockRepository) Update(ctx context.Context, record types.StockRecord) error {
	if record.RowID == "" {
		return ErrNotFound
	}
	return r.rows.UpdateRow(ctx, TableStock, record.RowID, stockToFields(record))
}

func stockFromRow(row rowstore.Row) types.StockRecord {
	return types.StockRecord{
		ItemName:  row.Fields[colStockItem],
		Quantity:  fieldInt(row.Fields, colStockQty),
		UpdatedAt: fieldTime(row.Fields, colStockUpdated),
		RowID:     row.ID,
	}
}

func stockToFields(record types.StockRecord) map[string]string {
	return map[string]string{
		colStockItem:    record.ItemName,
		colStockQty:     strconv.Itoa(record.Quantity),
		colStockUpdated: formatTime(record.UpdatedAt),
	}
}

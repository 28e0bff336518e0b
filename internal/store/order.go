package store

import (
	"context"
	"strconv"
	"time"

	"github.com/warungpos/apiserver/internal/rowstore"
)

// Order sheet columns: one row per order line, grouped by order_id.
const (
	colOrderID      = "order_id"
	colOrderCreated = "created_at"
	colOrderItem    = "item_name"
	colOrderQty     = "quantity_item"
	colOrderAmount  = "total_amount"
	colOrderCashier = "cashier_name"
)

// OrderLineRow is one persisted order line as stored in the Order
// table. Orders are reassembled by grouping lines on OrderID.
type OrderLineRow struct {
	OrderID     string    `json:"order_id"`
	CreatedAt   time.Time `json:"created_at"`
	ItemName    string    `json:"item_name"`
	Quantity    int       `json:"quantity_item"`
	LineAmount  int64     `json:"total_amount"`
	CashierName string    `json:"cashier_name"`
	RowID       string    `json:"row_id,omitempty"`
}

// OrderRepository handles persistence for order lines.
type OrderRepository struct {
	rows rowstore.Store
}

func NewOrderRepository(rows rowstore.Store) *OrderRepository {
	return &OrderRepository{rows: rows}
}

func (r *OrderRepository) ListLines(ctx context.Context) ([]OrderLineRow, error) {
	rows, err := r.rows.ListRows(ctx, TableOrders)
	if err != nil {
		return nil, err
	}

	lines := make([]OrderLineRow, 0, len(rows))
	for _, row := range rows {
		if row.Fields[colOrderID] == "" {
			continue
		}
		lines = append(lines, orderLineFromRow(row))
	}
	return lines, nil
}

func (r *OrderRepository) AppendLine(ctx context.Context, line OrderLineRow) error {
	return r.rows.AppendRow(ctx, TableOrders, map[string]string{
		colOrderID:      line.OrderID,
		colOrderCreated: formatTime(line.CreatedAt),
		colOrderItem:    line.ItemName,
		colOrderQty:     strconv.Itoa(line.Quantity),
		colOrderAmount:  strconv.FormatInt(line.LineAmount, 10),
		colOrderCashier: line.CashierName,
	})
}

// DeleteByOrderID removes every line of an order. It is the rollback
// path for a commit whose appends failed partway; deletions run in
// reverse storage order so earlier row IDs stay valid while later
// rows are removed.
func (r *OrderRepository) DeleteByOrderID(ctx context.Context, orderID string) error {
	rows, err := r.rows.ListRows(ctx, TableOrders)
	if err != nil {
		return err
	}

	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Fields[colOrderID] != orderID {
			continue
		}
		if err := r.rows.DeleteRow(ctx, TableOrders, rows[i].ID); err != nil {
			return err
		}
	}
	return nil
}

func orderLineFromRow(row rowstore.Row) OrderLineRow {
	return OrderLineRow{
		OrderID:     row.Fields[colOrderID],
		CreatedAt:   fieldTime(row.Fields, colOrderCreated),
		ItemName:    row.Fields[colOrderItem],
		Quantity:    fieldInt(row.Fields, colOrderQty),
		LineAmount:  fieldInt64(row.Fields, colOrderAmount),
		CashierName: row.Fields[colOrderCashier],
		RowID:       row.ID,
	}
}

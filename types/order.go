package types

import "time"

// CartLine is one entry of a checkout request.
type CartLine struct {
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`

	// UnitAmount is the sell price per unit in whole rupiah.
	UnitAmount int64 `json:"unit_amount"`
}

// OrderLine is one persisted line of a committed order.
type OrderLine struct {
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`

	// LineAmount is Quantity times the unit price.
	LineAmount int64 `json:"line_amount"`
}

// Order is a committed checkout. One row per line is persisted in the
// record store; the aggregate totals are derived from the lines.
type Order struct {
	// OrderID is the opaque unique identifier (ORD- prefixed),
	// generated at commit time.
	OrderID string `json:"order_id"`

	CreatedAt   time.Time   `json:"created_at"`
	CashierName string      `json:"cashier_name"`
	Lines       []OrderLine `json:"items"`

	TotalItems  int   `json:"total_items"`
	TotalAmount int64 `json:"total_amount"`
}

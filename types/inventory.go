package types

import "time"

// StockRecord is the quantity-on-hand for one item. Quantity is never
// negative; every mutation refreshes UpdatedAt.
type StockRecord struct {
	ItemName  string    `json:"item_name"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`

	// RowID is the opaque record-store row identifier backing this record.
	RowID string `json:"row_id,omitempty"`
}

// Adjustment describes one applied stock mutation.
type Adjustment struct {
	ItemName  string    `json:"item_name"`
	Previous  int       `json:"previous_quantity"`
	New       int       `json:"new_quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

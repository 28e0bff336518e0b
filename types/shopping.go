package types

import "time"

// ShoppingEntry is one purchase to make on the shopping list.
type ShoppingEntry struct {
	// ShoppingID is the unique identifier (SHOP- prefixed).
	ShoppingID string `json:"shopping_id"`

	Date     time.Time `json:"shopping_date"`
	ItemName string    `json:"item_shopping"`
	Quantity int       `json:"quantity"`

	// Price is the expected purchase price in whole rupiah.
	Price int64 `json:"price"`

	// RowID is the opaque record-store row identifier backing this entry.
	RowID string `json:"row_id,omitempty"`
}

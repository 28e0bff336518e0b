package types

import "time"

// MasterItem is a sellable product in the catalog. Prices are whole
// rupiah amounts; SellPrice is the unit price charged at checkout.
type MasterItem struct {
	// Name is the unique identifier of the item. Stock and order rows
	// reference items by this name.
	Name string `json:"item_name"`

	// CostPrice is the production cost per unit.
	CostPrice int64 `json:"hpp"`

	// Operational is the per-unit operational cost allocation.
	Operational int64 `json:"operasional"`

	// Labor is the per-unit worker cost allocation.
	Labor int64 `json:"worker"`

	// Marketing is the per-unit marketing cost allocation.
	Marketing int64 `json:"marketing"`

	// SellPrice is the unit price charged to the customer.
	SellPrice int64 `json:"hpj"`

	// NetSales is the per-unit margin after cost allocations.
	NetSales int64 `json:"net_sales"`

	// CreatedAt is the timestamp when the item was added.
	CreatedAt time.Time `json:"created_at"`

	// RowID is the opaque record-store row identifier backing this item.
	RowID string `json:"row_id,omitempty"`
}

package rowstore

import (
	"context"
	"errors"
)

// Row is one record in a table, tagged with an opaque identifier that
// is only meaningful to the store that produced it.
type Row struct {
	ID     string
	Fields map[string]string
}

// Store defines the row-oriented persistence operations the app uses.
// Backends offer no transactions, queries, or locking; callers that
// need isolation must serialize access themselves.
type Store interface {
	// ListRows returns every row of the named table in storage order.
	ListRows(ctx context.Context, table string) ([]Row, error)

	// AppendRow adds a row to the end of the named table.
	AppendRow(ctx context.Context, table string, fields map[string]string) error

	// UpdateRow replaces the full field set of an existing row.
	UpdateRow(ctx context.Context, table, rowID string, fields map[string]string) error

	// DeleteRow removes a row. Row IDs of other rows stay valid.
	DeleteRow(ctx context.Context, table, rowID string) error
}

// ErrUpstream is wrapped around every backend transport failure so
// callers can classify them without knowing the backend.
var ErrUpstream = errors.New("record store unavailable")

// ErrRowNotFound is returned when an update or delete targets a row
// identifier the store does not know.
var ErrRowNotFound = errors.New("row not found")

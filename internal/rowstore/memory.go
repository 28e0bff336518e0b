package rowstore

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// MemoryStore is an in-process Store used by tests and local
// development. It copies field maps on the way in and out so callers
// cannot mutate stored state by aliasing.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	tables map[string][]Row

	// FailNext, when non-nil, is returned (wrapped in ErrUpstream) by
	// a later mutating call and then cleared. Tests use it to force
	// upstream failures at precise points. FailTable restricts the
	// failure to mutations of one table, and FailAfter lets that many
	// matching calls succeed first.
	FailNext  error
	FailTable string
	FailAfter int
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		tables: map[string][]Row{},
	}
}

func (m *MemoryStore) ListRows(ctx context.Context, table string) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tables[table]
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = Row{ID: row.ID, Fields: copyFields(row.Fields)}
	}
	return out, nil
}

func (m *MemoryStore) AppendRow(ctx context.Context, table string, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(table, "append"); err != nil {
		return err
	}

	row := Row{
		ID:     strconv.FormatInt(m.nextID, 10),
		Fields: copyFields(fields),
	}
	m.nextID++
	m.tables[table] = append(m.tables[table], row)
	return nil
}

func (m *MemoryStore) UpdateRow(ctx context.Context, table, rowID string, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(table, "update"); err != nil {
		return err
	}

	rows := m.tables[table]
	for i, row := range rows {
		if row.ID == rowID {
			rows[i].Fields = copyFields(fields)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrRowNotFound, rowID)
}

func (m *MemoryStore) DeleteRow(ctx context.Context, table, rowID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(table, "delete"); err != nil {
		return err
	}

	rows := m.tables[table]
	for i, row := range rows {
		if row.ID == rowID {
			m.tables[table] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrRowNotFound, rowID)
}

func (m *MemoryStore) takeFailure(table, op string) error {
	if m.FailNext == nil {
		return nil
	}
	if m.FailTable != "" && table != m.FailTable {
		return nil
	}
	if m.FailAfter > 0 {
		m.FailAfter--
		return nil
	}
	err := m.FailNext
	m.FailNext = nil
	return fmt.Errorf("%w: %s %s: %v", ErrUpstream, op, table, err)
}

func copyFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for key, value := range fields {
		out[key] = value
	}
	return out
}

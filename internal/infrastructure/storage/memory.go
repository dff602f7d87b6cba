package storage

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of Store for testing.
// Tables are kept as slices of rows, making tests fast and isolated.
type MemoryStore struct {
	mu     sync.Mutex
	tables map[string][][]string

	// Hooks for test assertions
	AppendCalls    int
	ReadCalls      int
	WriteCellCalls int
	LastWrittenRef string

	// Error injection for testing error paths
	AppendErr    error
	ReadErr      error
	WriteCellErr error
	PingErr      error

	// BeforeWrite runs before WriteCell applies, outside the lock.
	// Tests use it to interleave a competing update.
	BeforeWrite func()
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][][]string)}
}

// Compile-time check that MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// Seed replaces the contents of table with rows
func (m *MemoryStore) Seed(table string, rows ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]string, len(rows))
	for i, r := range rows {
		copied[i] = append([]string(nil), r...)
	}
	m.tables[table] = copied
}

// Rows returns a copy of every row of table
func (m *MemoryStore) Rows(table string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyRows(m.tables[table])
}

// Append implements Store
func (m *MemoryStore) Append(_ context.Context, table string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendCalls++
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.tables[table] = append(m.tables[table], append([]string(nil), row...))
	return nil
}

// Read implements Store
func (m *MemoryStore) Read(_ context.Context, table, rng string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadCalls++
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	r, err := ParseRange(rng)
	if err != nil {
		return nil, err
	}

	rows := m.tables[table]
	var out [][]string
	for rowNum := r.StartRow; rowNum <= len(rows) && rowNum <= r.EndRow; rowNum++ {
		src := rows[rowNum-1]
		var row []string
		for col := r.StartCol; col <= r.EndCol && col <= len(src); col++ {
			row = append(row, src[col-1])
		}
		out = append(out, trimRow(row))
	}
	return trimRows(out), nil
}

// WriteCell implements Store
func (m *MemoryStore) WriteCell(_ context.Context, table, ref, value string) error {
	if m.BeforeWrite != nil {
		m.BeforeWrite()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteCellCalls++
	m.LastWrittenRef = ref
	if m.WriteCellErr != nil {
		return m.WriteCellErr
	}

	c, err := ParseCell(ref)
	if err != nil {
		return err
	}

	rows := m.tables[table]
	for len(rows) < c.Row {
		rows = append(rows, nil)
	}
	row := rows[c.Row-1]
	for len(row) < c.Col {
		row = append(row, "")
	}
	row[c.Col-1] = value
	rows[c.Row-1] = row
	m.tables[table] = rows
	return nil
}

// Ping implements Store
func (m *MemoryStore) Ping(context.Context) error {
	return m.PingErr
}

// Close does nothing for the in-memory store
func (m *MemoryStore) Close() error {
	return nil
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

// trimRow drops trailing empty cells
func trimRow(row []string) []string {
	end := len(row)
	for end > 0 && row[end-1] == "" {
		end--
	}
	if end == 0 {
		return []string{}
	}
	return row[:end]
}

// trimRows drops trailing empty rows
func trimRows(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && len(rows[end-1]) == 0 {
		end--
	}
	return rows[:end]
}

package rowstore

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// MemoryStore is an in-process Store used for local development and tests.
// Ids are assigned sequentially per table, like the hosted store does.
type MemoryStore struct {
	mu     sync.Mutex
	tables map[string]map[int64]Row
	nextID map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(map[string]map[int64]Row),
		nextID: make(map[string]int64),
	}
}

func (m *MemoryStore) Find(_ context.Context, table string, filters ...Filter) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tables[table]
	ids := make([]int64, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []Row{}
	for _, id := range ids {
		row := rows[id]
		if matchesAll(row, filters) {
			out = append(out, copyRow(row))
		}
	}
	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, table, id string) (Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.lookup(table, id)
	if !ok {
		return nil, ErrNotFound
	}
	return copyRow(row), nil
}

func (m *MemoryStore) Insert(_ context.Context, table string, fields map[string]any) (Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tables[table] == nil {
		m.tables[table] = make(map[int64]Row)
	}
	m.nextID[table]++
	id := m.nextID[table]

	row := Row{}
	for k, v := range fields {
		row[k] = v
	}
	row["id"] = float64(id)
	m.tables[table][id] = row
	return copyRow(row), nil
}

func (m *MemoryStore) Update(_ context.Context, table, id string, fields map[string]any) (Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.lookup(table, id)
	if !ok {
		return nil, ErrNotFound
	}
	for k, v := range fields {
		if k == "id" {
			continue
		}
		row[k] = v
	}
	return copyRow(row), nil
}

func (m *MemoryStore) Delete(_ context.Context, table, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return ErrNotFound
	}
	if _, ok := m.tables[table][n]; !ok {
		return ErrNotFound
	}
	delete(m.tables[table], n)
	return nil
}

func (m *MemoryStore) lookup(table, id string) (Row, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, false
	}
	row, ok := m.tables[table][n]
	return row, ok
}

func matchesAll(row Row, filters []Filter) bool {
	for _, f := range filters {
		switch f.Op {
		case OpEqual:
			if !equalValue(row[f.Field], f.Value) {
				return false
			}
		case OpLinkRowHas:
			if !linkHas(row[f.Field], f.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func equalValue(v any, want string) bool {
	switch x := v.(type) {
	case string:
		return x == want
	case nil:
		return want == ""
	default:
		return Row{"id": x}.ID() == want
	}
}

// linkHas accepts both the expanded [{id, value}] shape and a plain id list.
func linkHas(v any, id string) bool {
	var items []any
	switch x := v.(type) {
	case []any:
		items = x
	case []map[string]any:
		for _, m := range x {
			items = append(items, m)
		}
	case []int:
		for _, n := range x {
			items = append(items, n)
		}
	case []int64:
		for _, n := range x {
			items = append(items, n)
		}
	case []string:
		for _, s := range x {
			items = append(items, s)
		}
	default:
		return false
	}
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			item = m["id"]
		}
		if strings.TrimSpace(Row{"id": item}.ID()) == id {
			return true
		}
	}
	return false
}

func copyRow(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

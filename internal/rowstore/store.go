// Package rowstore talks to the hosted row database that acts as the system
// of record. Rows are loosely typed: field names are the table's column names.
package rowstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

var ErrNotFound = errors.New("row not found")

// Row is a single record as returned by the store. The "id" key is always set.
type Row map[string]any

// ID returns the row identifier as a string.
func (r Row) ID() string {
	switch v := r["id"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// String returns the field as a string, or "" when it is absent, null or not a string.
func (r Row) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Filter operators understood by both implementations.
const (
	OpEqual      = "equal"
	OpLinkRowHas = "link_row_has"
)

// Filter narrows a Find call: field <op> value.
type Filter struct {
	Field string
	Op    string
	Value string
}

func Equal(field, value string) Filter {
	return Filter{Field: field, Op: OpEqual, Value: value}
}

func LinkRowHas(field, id string) Filter {
	return Filter{Field: field, Op: OpLinkRowHas, Value: id}
}

// Store is the generic per-table CRUD surface of the row database.
type Store interface {
	Find(ctx context.Context, table string, filters ...Filter) ([]Row, error)
	Get(ctx context.Context, table, id string) (Row, error)
	Insert(ctx context.Context, table string, fields map[string]any) (Row, error)
	Update(ctx context.Context, table, id string, fields map[string]any) (Row, error)
	Delete(ctx context.Context, table, id string) error
}

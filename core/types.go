package core

import "fmt"

type (
	// Row is one materialized result row, positionally aligned to the
	// result header.
	Row []Value

	// Header holds the declared output column names of a query.
	Header []string
)

// Get returns the value at position i or an out-of-range error.
func (r Row) Get(i int) (Value, error) {
	if i < 0 || i >= len(r) {
		return Value{}, fmt.Errorf("row.Get: position %d out of range for %d columns", i, len(r))
	}
	return r[i], nil
}

// Result is the fully materialized output of one query execution. There is
// no streaming state: the adapter buffers every row before returning.
type Result struct {
	Header Header
	Rows   []Row
}

// Len reports the number of rows.
func (r *Result) Len() int { return len(r.Rows) }

// Package queries implements the analysis queries commands are built from.
// Each finder issues one parameterized query through the storage driver,
// extracts typed rows, and shapes them into a result that renders as a
// table through its own vocabulary or as a canonical tree.
package queries

import (
	"errors"

	"github.com/callscope/callscope/core"
)

// DefaultLimit caps result rows when the caller does not choose a limit.
const DefaultLimit = 100

// funcKey orders entry buckets by function name, then arity.
type funcKey struct {
	Name  string
	Arity int64
}

func lessFuncKey(a, b funcKey) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Arity < b.Arity
}

// requireString extracts a column that must hold a string, naming the
// column in the failure instead of dropping the row.
func requireString(row core.Row, pos int, column string) (string, error) {
	s, err := core.String(row[pos])
	if err != nil {
		var mismatch *core.TypeMismatchError
		if errors.As(err, &mismatch) {
			mismatch.Column = column
		}
		return "", err
	}

	return s, nil
}

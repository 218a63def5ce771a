package core

import "fmt"

// HeaderIndex maps declared column names to row positions, so extraction
// code can survive column reordering in a query without silently reading
// the wrong field.
type HeaderIndex map[string]int

func IndexHeader(h Header) HeaderIndex {
	ix := make(HeaderIndex, len(h))
	for i, name := range h {
		ix[name] = i
	}
	return ix
}

// Require returns the position of a column the caller cannot work without.
func (ix HeaderIndex) Require(name string) (int, error) {
	i, ok := ix[name]
	if !ok {
		return 0, fmt.Errorf("result header has no %q column", name)
	}
	return i, nil
}

// Lookup returns the position of an optional column.
func (ix HeaderIndex) Lookup(name string) (int, bool) {
	i, ok := ix[name]
	return i, ok
}

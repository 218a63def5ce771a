package builders

import "strings"

type clientConfig struct {
	converters  map[string]ConvertFunc
	classify    ClassifyFunc
	existsQuery string
}

type ClientOption func(*clientConfig)

// WithConverter overrides value conversion for one declared column type
// (case insensitive). Engines whose native representation differs from the
// union's expectation (sqlite booleans arriving as integers) normalize here
// so every engine yields identical values for semantically equal data.
func WithConverter(typ string, fn ConvertFunc) ClientOption {
	return func(cc *clientConfig) {
		cc.converters[strings.ToLower(typ)] = fn
	}
}

// WithErrorClassifier installs the mapping from native engine errors onto
// the storage error taxonomy.
func WithErrorClassifier(fn ClassifyFunc) ClientOption {
	return func(cc *clientConfig) {
		cc.classify = fn
	}
}

// WithExistsQuery sets the engine's catalog probe: a query with one
// positional placeholder for the relation name, returning at least one row
// when the relation exists.
func WithExistsQuery(query string) ClientOption {
	return func(cc *clientConfig) {
		cc.existsQuery = query
	}
}

package core

import "context"

type (
	// Adapter opens a store at a location, returning an engine-specific
	// driver. One adapter exists per supported engine and registers itself
	// with the adapters package.
	Adapter interface {
		Connect(location string) (Driver, error)
	}

	// Driver is the only capability command code uses to reach a storage
	// engine. Everything behind it speaks the engine's native types;
	// everything in front of it sees Value and Row exclusively, which is
	// what makes engines swappable without touching command code.
	//
	// Execute blocks until the engine has fully materialized the result.
	// The context is a forward-compatibility point: nothing in-process
	// applies a deadline today, but a network-attached engine must be able
	// to honor one without an interface change.
	Driver interface {
		Execute(ctx context.Context, query string, params *Params) (*Result, error)
		ExecuteNoParams(ctx context.Context, query string) (*Result, error)
		// CreateRelationIfAbsent creates the named relation unless it is
		// already present. It reports whether it created the relation and
		// never errors on the already-present branch.
		CreateRelationIfAbsent(ctx context.Context, name string, schema string) (created bool, err error)
		Close() error
	}
)

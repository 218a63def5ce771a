//go:build cgo && ((darwin && (amd64 || arm64)) || (linux && (amd64 || arm64 || riscv64)))

package adapters

import (
	"database/sql"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/core/builders"
)

// Register client
func init() {
	_ = register(&Duck{}, "duck", "duckdb")
}

var _ core.Adapter = (*Duck)(nil)

type Duck struct{}

// Connect opens the duckdb database at location. An empty location opens an
// in-memory database.
func (d *Duck) Connect(location string) (core.Driver, error) {
	db, err := sql.Open("duckdb", location)
	if err != nil {
		return nil, &core.ConnectError{Engine: "duckdb", Location: location, Err: err}
	}

	// Single handle, same as sqlite: one writer with a stable view.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &core.ConnectError{Engine: "duckdb", Location: location, Err: err}
	}

	return &duckDriver{
		c: builders.NewClient(db,
			builders.WithErrorClassifier(classifyDuckError),
			builders.WithExistsQuery(duckExistsQuery),
		),
	}, nil
}

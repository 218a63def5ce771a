package adapters

import (
	"context"
	"strings"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/core/builders"
)

const duckExistsQuery = "SELECT table_name FROM information_schema.tables WHERE table_name = ?"

var _ core.Driver = (*duckDriver)(nil)

type duckDriver struct {
	c *builders.Client
}

func (d *duckDriver) Execute(ctx context.Context, query string, params *core.Params) (*core.Result, error) {
	return d.c.Execute(ctx, query, params)
}

func (d *duckDriver) ExecuteNoParams(ctx context.Context, query string) (*core.Result, error) {
	return d.c.ExecuteNoParams(ctx, query)
}

func (d *duckDriver) CreateRelationIfAbsent(ctx context.Context, name string, schema string) (bool, error) {
	return d.c.CreateRelationIfAbsent(ctx, name, schema)
}

func (d *duckDriver) Close() error { return d.c.Close() }

// classifyDuckError maps native duckdb errors onto the storage taxonomy.
// Catalog misses on tables mean an uninitialized store; parser and binder
// failures are defects in the query text.
func classifyDuckError(err error) error {
	msg := err.Error()

	switch {
	case strings.Contains(msg, "Catalog Error") && strings.Contains(msg, "does not exist"):
		return &core.EmptyStoreError{Relation: nameAfter(msg, "Table with name")}
	case strings.Contains(msg, "Parser Error"),
		strings.Contains(msg, "Binder Error"),
		strings.Contains(msg, "Syntax Error"):
		return &core.ScriptError{Err: err}
	}

	return err
}

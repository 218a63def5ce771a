package adapters

import (
	"context"
	"strings"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/core/builders"
)

const sqliteExistsQuery = "SELECT name FROM sqlite_schema WHERE type = 'table' AND name = ?"

var _ core.Driver = (*sqliteDriver)(nil)

type sqliteDriver struct {
	c *builders.Client
}

func (d *sqliteDriver) Execute(ctx context.Context, query string, params *core.Params) (*core.Result, error) {
	return d.c.Execute(ctx, query, params)
}

func (d *sqliteDriver) ExecuteNoParams(ctx context.Context, query string) (*core.Result, error) {
	return d.c.ExecuteNoParams(ctx, query)
}

func (d *sqliteDriver) CreateRelationIfAbsent(ctx context.Context, name string, schema string) (bool, error) {
	return d.c.CreateRelationIfAbsent(ctx, name, schema)
}

func (d *sqliteDriver) Close() error { return d.c.Close() }

// convertSQLiteBoolean normalizes columns declared BOOLEAN, which sqlite
// stores as integers, so every engine yields identical values for the same
// data.
func convertSQLiteBoolean(val any) (core.Value, error) {
	switch t := val.(type) {
	case bool:
		return core.NewBool(t), nil
	case int64:
		return core.NewBool(t != 0), nil
	}

	return builders.Convert(val)
}

// classifySQLiteError maps native sqlite errors onto the storage taxonomy.
// A missing relation means the store was never initialized; the remaining
// statement-level failures are defects in the query text.
func classifySQLiteError(err error) error {
	msg := err.Error()

	switch {
	case strings.Contains(msg, "no such table:"):
		return &core.EmptyStoreError{Relation: nameAfter(msg, "no such table:")}
	case strings.Contains(msg, "syntax error"),
		strings.Contains(msg, "SQL logic error"):
		return &core.ScriptError{Err: err}
	}

	return err
}

// nameAfter extracts the identifier following a marker in an engine error
// message. Identifiers never contain spaces, so the name runs to the next
// space or the end of the message.
func nameAfter(msg, marker string) string {
	_, after, ok := strings.Cut(msg, marker)
	if !ok {
		return ""
	}

	after = strings.TrimSpace(after)
	if cut := strings.IndexByte(after, ' '); cut >= 0 {
		after = after[:cut]
	}

	return strings.TrimRight(after, "!.")
}

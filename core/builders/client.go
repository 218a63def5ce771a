package builders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/callscope/callscope/core"
)

// Client is the shared database/sql execution engine behind every adapter.
// Engine differences are injected through options: value converters keyed
// by declared column type, an error classifier that maps native engine
// errors onto the storage error taxonomy, and the catalog probe used for
// idempotent relation creation.
type Client struct {
	db          *sql.DB
	converters  map[string]ConvertFunc
	classify    ClassifyFunc
	existsQuery string
}

type (
	// ConvertFunc turns one native column value into a Value.
	ConvertFunc func(val any) (core.Value, error)

	// ClassifyFunc maps a native engine error onto the storage taxonomy,
	// returning the error unchanged when it recognizes nothing.
	ClassifyFunc func(err error) error
)

func NewClient(db *sql.DB, opts ...ClientOption) *Client {
	config := clientConfig{
		converters: make(map[string]ConvertFunc),
		classify:   func(err error) error { return err },
	}
	for _, opt := range opts {
		opt(&config)
	}

	return &Client{
		db:          db,
		converters:  config.converters,
		classify:    config.classify,
		existsQuery: config.existsQuery,
	}
}

// Execute rewrites named parameters, runs the query and materializes the
// full result. Write statements run through the same path; their result is
// simply empty or a single engine-produced count row.
func (c *Client) Execute(ctx context.Context, query string, params *core.Params) (*core.Result, error) {
	rewritten, args, err := BindNamed(query, params)
	if err != nil {
		return nil, fmt.Errorf("builders.BindNamed: %w", err)
	}

	dbRows, err := c.db.QueryContext(ctx, rewritten, args...)
	if err != nil {
		return nil, c.classifyQuery(query, err)
	}
	defer dbRows.Close()

	result, err := c.materialize(dbRows)
	if err != nil {
		return nil, fmt.Errorf("client.materialize: %w", err)
	}

	return result, nil
}

func (c *Client) ExecuteNoParams(ctx context.Context, query string) (*core.Result, error) {
	return c.Execute(ctx, query, nil)
}

// CreateRelationIfAbsent probes the engine catalog first so the
// already-present branch never errors and the report stays accurate even
// when another process created the relation concurrently with an earlier
// invocation.
func (c *Client) CreateRelationIfAbsent(ctx context.Context, name string, schema string) (bool, error) {
	exists, err := c.relationExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("client.relationExists: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return false, c.classifyQuery(schema, err)
	}

	return true, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) relationExists(ctx context.Context, name string) (bool, error) {
	if c.existsQuery == "" {
		return false, errors.New("no catalog probe configured for this engine")
	}

	rows, err := c.db.QueryContext(ctx, c.existsQuery, name)
	if err != nil {
		return false, c.classify(err)
	}
	defer rows.Close()

	exists := rows.Next()
	return exists, rows.Err()
}

// classifyQuery runs the engine classifier and stamps the offending query
// onto script errors, which the classifier itself never sees.
func (c *Client) classifyQuery(query string, err error) error {
	err = c.classify(err)

	var script *core.ScriptError
	if errors.As(err, &script) && script.Query == "" {
		script.Query = query
	}

	return err
}

func (c *Client) converterFor(typ string) ConvertFunc {
	conv, ok := c.converters[strings.ToLower(typ)]
	if ok {
		return conv
	}
	return Convert
}

func (c *Client) materialize(dbRows *sql.Rows) (*core.Result, error) {
	header, err := dbRows.Columns()
	if err != nil {
		return nil, err
	}

	colTypes, err := dbRows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	var rows []core.Row
	for dbRows.Next() {
		columns := make([]any, len(header))
		columnPointers := make([]any, len(header))
		for i := range columns {
			columnPointers[i] = &columns[i]
		}

		if err := dbRows.Scan(columnPointers...); err != nil {
			return nil, err
		}

		row := make(core.Row, len(header))
		for i := range columns {
			conv := c.converterFor(colTypes[i].DatabaseTypeName())

			val, err := conv(columns[i])
			if err != nil {
				var mismatch *core.TypeMismatchError
				if errors.As(err, &mismatch) {
					return nil, &core.TypeMismatchError{
						Expected: mismatch.Expected,
						Actual:   mismatch.Actual,
						Column:   header[i],
					}
				}
				return nil, err
			}

			row[i] = val
		}

		rows = append(rows, row)
	}
	if err := dbRows.Err(); err != nil {
		return nil, c.classify(err)
	}

	return &core.Result{Header: core.Header(header), Rows: rows}, nil
}

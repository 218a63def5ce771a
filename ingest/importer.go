package ingest

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/output"
	"github.com/callscope/callscope/results"
	"github.com/callscope/callscope/schema"
)

// Rows go to the store in batches so a large graph stays a handful of
// statements instead of one per row.
const chunkSize = 500

// Options configures one import run.
type Options struct {
	Project string
	Clear   bool
}

// SchemaChanges reports relation creation during an import run.
type SchemaChanges struct {
	Created        []string `json:"created"`
	AlreadyExisted []string `json:"already_existed"`
}

// Result reports one import run. Counts are rows written per relation,
// after collapsing input entries that share an upsert identity.
type Result struct {
	Schemas           SchemaChanges `json:"schemas"`
	Cleared           bool          `json:"cleared"`
	Modules           int           `json:"modules_imported"`
	Functions         int           `json:"functions_imported"`
	Calls             int           `json:"calls_imported"`
	Structs           int           `json:"structs_imported"`
	FunctionLocations int           `json:"function_locations_imported"`
	Specs             int           `json:"specs_imported"`
	Types             int           `json:"types_imported"`
}

var _ output.Tabler = (*Result)(nil)

// Table renders the import summary.
func (r *Result) Table() string {
	var b strings.Builder

	if r.Cleared {
		b.WriteString("Cleared existing project data.\n\n")
	}

	b.WriteString("Import Summary:\n")
	fmt.Fprintf(&b, "  Modules: %d\n", r.Modules)
	fmt.Fprintf(&b, "  Functions: %d\n", r.Functions)
	fmt.Fprintf(&b, "  Calls: %d\n", r.Calls)
	fmt.Fprintf(&b, "  Structs: %d\n", r.Structs)
	fmt.Fprintf(&b, "  Locations: %d\n", r.FunctionLocations)
	fmt.Fprintf(&b, "  Specs: %d\n", r.Specs)
	fmt.Fprintf(&b, "  Types: %d\n", r.Types)

	if len(r.Schemas.Created) > 0 {
		b.WriteString("\nCreated Schemas:\n")
		for _, name := range r.Schemas.Created {
			b.WriteString("  - " + name + "\n")
		}
	}

	return b.String()
}

// ClearError reports a failed project wipe on one relation.
type ClearError struct {
	Relation string
	Err      error
}

func (e *ClearError) Error() string {
	return fmt.Sprintf("cannot clear %s rows: %v", e.Relation, e.Err)
}

func (e *ClearError) Unwrap() error { return e.Err }

// WriteError reports a failed write to one relation.
type WriteError struct {
	Relation string
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write %s rows: %v", e.Relation, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Import loads one call graph into the store under opts.Project. Absent
// relations are created first, so a clearing import works against a fresh
// store too. Writes are idempotent upserts keyed by each relation's
// primary key.
func Import(ctx context.Context, driver core.Driver, graph *CallGraph, opts Options) (*Result, error) {
	result := &Result{
		Schemas: SchemaChanges{Created: []string{}, AlreadyExisted: []string{}},
		Cleared: opts.Clear,
	}

	statuses, err := schema.EnsureAll(ctx, driver)
	if err != nil {
		return nil, fmt.Errorf("schema.EnsureAll: %w", err)
	}
	for _, status := range statuses {
		if status.Created {
			result.Schemas.Created = append(result.Schemas.Created, status.Relation)
		} else {
			result.Schemas.AlreadyExisted = append(result.Schemas.AlreadyExisted, status.Relation)
		}
	}

	if opts.Clear {
		if err := clearProject(ctx, driver, opts.Project); err != nil {
			return nil, err
		}
	}

	w := &writer{driver: driver, project: opts.Project}

	result.Modules, err = w.modules(ctx, graph)
	if err != nil {
		return nil, err
	}

	result.Functions, err = w.functions(ctx, graph)
	if err != nil {
		return nil, err
	}

	result.Calls, err = w.calls(ctx, graph)
	if err != nil {
		return nil, err
	}

	result.Structs, err = w.structFields(ctx, graph)
	if err != nil {
		return nil, err
	}

	result.FunctionLocations, err = w.functionLocations(ctx, graph)
	if err != nil {
		return nil, err
	}

	result.Specs, err = w.specs(ctx, graph)
	if err != nil {
		return nil, err
	}

	result.Types, err = w.typeDefs(ctx, graph)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func clearProject(ctx context.Context, driver core.Driver, project string) error {
	params := core.NewParams().SetString("project", project)

	for _, relation := range schema.Names() {
		_, err := driver.Execute(ctx, "DELETE FROM "+relation+" WHERE project = $project", params)
		if err != nil {
			return &ClearError{Relation: relation, Err: err}
		}
	}

	return nil
}

// writer turns graph sections into relation rows. Map sections iterate in
// sorted key order so reruns produce the same statements.
type writer struct {
	driver  core.Driver
	project string
}

// Modules are not a section of their own in the graph file; every module
// that owns a location, spec, struct or type gets a row.
func (w *writer) modules(ctx context.Context, graph *CallGraph) (int, error) {
	set := make(map[string]struct{})
	for name := range graph.FunctionLocations {
		set[name] = struct{}{}
	}
	for name := range graph.Specs {
		set[name] = struct{}{}
	}
	for name := range graph.Structs {
		set[name] = struct{}{}
	}
	for name := range graph.Types {
		set[name] = struct{}{}
	}

	rows := make([][]any, 0, len(set))
	for _, name := range sortedKeys(set) {
		rows = append(rows, []any{w.project, name, "", "unknown"})
	}

	columns := []string{"project", "name", "file", "source"}

	return w.upsert(ctx, "modules", columns, rows)
}

// The functions relation carries signatures, so its rows come from specs.
// Location-only functions are still reachable through function_locations.
func (w *writer) functions(ctx context.Context, graph *CallGraph) (int, error) {
	seen := results.NewSeenFilter[clauseKey]()

	var rows [][]any
	for _, module := range sortedKeys(graph.Specs) {
		for _, spec := range graph.Specs[module] {
			if !seen.Admit(clauseKey{Module: module, Name: spec.Name, Arity: spec.Arity}) {
				continue
			}

			var returnType, args string
			if len(spec.Clauses) > 0 {
				returnType = strings.Join(spec.Clauses[0].ReturnStrings, " | ")
				args = strings.Join(spec.Clauses[0].InputStrings, ", ")
			}

			rows = append(rows, []any{w.project, module, spec.Name, spec.Arity, returnType, args, "unknown"})
		}
	}

	columns := []string{"project", "module", "name", "arity", "return_type", "args", "source"}

	return w.upsert(ctx, "functions", columns, rows)
}

func (w *writer) calls(ctx context.Context, graph *CallGraph) (int, error) {
	seen := results.NewSeenFilter[callKey]()

	var rows [][]any
	for _, call := range graph.Calls {
		callerFunction := call.Caller.Function
		if callerFunction == "" {
			callerFunction = "<module>"
		}

		key := callKey{
			CallerModule:   call.Caller.Module,
			CallerFunction: callerFunction,
			CalleeModule:   call.Callee.Module,
			CalleeFunction: call.Callee.Function,
			CalleeArity:    call.Callee.Arity,
			File:           call.Caller.File,
			Line:           call.Caller.Line,
			Column:         call.Caller.Column,
		}
		if !seen.Admit(key) {
			continue
		}

		rows = append(rows, []any{
			w.project,
			call.Caller.Module,
			callerFunction,
			call.Callee.Module,
			call.Callee.Function,
			call.Callee.Arity,
			call.Caller.File,
			call.Caller.Line,
			call.Caller.Column,
			call.CallType,
			call.Caller.Kind,
			call.Callee.Args,
		})
	}

	columns := []string{
		"project", "caller_module", "caller_function",
		"callee_module", "callee_function", "callee_arity",
		"file", "line", `"column"`, "call_type", "caller_kind", "callee_args",
	}

	return w.upsert(ctx, "calls", columns, rows)
}

func (w *writer) structFields(ctx context.Context, graph *CallGraph) (int, error) {
	seen := results.NewSeenFilter[pairKey]()

	var rows [][]any
	for _, module := range sortedKeys(graph.Structs) {
		for _, field := range graph.Structs[module].Fields {
			if !seen.Admit(pairKey{Module: module, Name: field.Field}) {
				continue
			}

			rows = append(rows, []any{w.project, module, field.Field, field.Default, field.Required, field.InferredType})
		}
	}

	columns := []string{"project", "module", "field", "default_value", "required", "inferred_type"}

	return w.upsert(ctx, "struct_fields", columns, rows)
}

func (w *writer) functionLocations(ctx context.Context, graph *CallGraph) (int, error) {
	seen := results.NewSeenFilter[locationKey]()

	var rows [][]any
	for _, module := range sortedKeys(graph.FunctionLocations) {
		clauses := graph.FunctionLocations[module]
		for _, entry := range sortedKeys(clauses) {
			loc := clauses[entry]

			key := locationKey{Module: module, Name: loc.Name, Arity: loc.Arity, Line: loc.Line}
			if !seen.Admit(key) {
				continue
			}

			rows = append(rows, []any{
				w.project, module, loc.Name, loc.Arity, loc.Line,
				loc.SourcePath(), loc.SourceFileAbsolute, loc.Column, loc.Kind,
				loc.StartLine, loc.EndLine, loc.Pattern, loc.Guard,
				loc.SourceSHA, loc.ASTSHA, loc.Complexity, loc.MaxNestingDepth,
				loc.GeneratedBy, loc.MacroSource,
			})
		}
	}

	columns := []string{
		"project", "module", "name", "arity", "line",
		"file", "source_file_absolute", `"column"`, "kind",
		"start_line", "end_line", "pattern", "guard",
		"source_sha", "ast_sha", "complexity", "max_nesting_depth",
		"generated_by", "macro_source",
	}

	return w.upsert(ctx, "function_locations", columns, rows)
}

func (w *writer) specs(ctx context.Context, graph *CallGraph) (int, error) {
	seen := results.NewSeenFilter[clauseKey]()

	var rows [][]any
	for _, module := range sortedKeys(graph.Specs) {
		for _, spec := range graph.Specs[module] {
			if !seen.Admit(clauseKey{Module: module, Name: spec.Name, Arity: spec.Arity}) {
				continue
			}

			var inputs, returns, full string
			if len(spec.Clauses) > 0 {
				clause := spec.Clauses[0]
				inputs = strings.Join(clause.InputStrings, ", ")
				returns = strings.Join(clause.ReturnStrings, " | ")
				full = clause.Full
			}

			rows = append(rows, []any{w.project, module, spec.Name, spec.Arity, spec.Kind, spec.Line, inputs, returns, full})
		}
	}

	columns := []string{"project", "module", "name", "arity", "kind", "line", "inputs_string", "return_string", `"full"`}

	return w.upsert(ctx, "specs", columns, rows)
}

func (w *writer) typeDefs(ctx context.Context, graph *CallGraph) (int, error) {
	seen := results.NewSeenFilter[pairKey]()

	var rows [][]any
	for _, module := range sortedKeys(graph.Types) {
		for _, def := range graph.Types[module] {
			if !seen.Admit(pairKey{Module: module, Name: def.Name}) {
				continue
			}

			rows = append(rows, []any{w.project, module, def.Name, def.Kind, strings.Join(def.Params, ", "), def.Line, def.Definition})
		}
	}

	columns := []string{"project", "module", "name", "kind", "params", "line", "definition"}

	return w.upsert(ctx, "types", columns, rows)
}

func (w *writer) upsert(ctx context.Context, relation string, columns []string, rows [][]any) (int, error) {
	for start := 0; start < len(rows); start += chunkSize {
		chunk := rows[start:min(start+chunkSize, len(rows))]

		query, params, err := upsertStatement(relation, columns, chunk)
		if err != nil {
			return 0, &WriteError{Relation: relation, Err: err}
		}

		if _, err := w.driver.Execute(ctx, query, params); err != nil {
			return 0, &WriteError{Relation: relation, Err: err}
		}
	}

	return len(rows), nil
}

// upsertStatement renders one multi-row INSERT OR REPLACE with a generated
// parameter per cell. Both engines take the same statement text.
func upsertStatement(relation string, columns []string, rows [][]any) (string, *core.Params, error) {
	var b strings.Builder
	b.WriteString("INSERT OR REPLACE INTO ")
	b.WriteString(relation)
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES")

	params := core.NewParams()

	n := 0
	for i, row := range rows {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(" (")

		for j, value := range row {
			if j > 0 {
				b.WriteString(", ")
			}

			name := "p" + strconv.Itoa(n)
			n++

			b.WriteByte('$')
			b.WriteString(name)

			if err := bindValue(params, name, value); err != nil {
				return "", nil, err
			}
		}

		b.WriteByte(')')
	}

	return b.String(), params, nil
}

func bindValue(params *core.Params, name string, value any) error {
	switch v := value.(type) {
	case string:
		params.SetString(name, v)
	case int64:
		params.SetInt(name, v)
	case bool:
		params.SetBool(name, v)
	default:
		return fmt.Errorf("unsupported parameter type %T", value)
	}

	return nil
}

type pairKey struct {
	Module string
	Name   string
}

type clauseKey struct {
	Module string
	Name   string
	Arity  int64
}

type locationKey struct {
	Module string
	Name   string
	Arity  int64
	Line   int64
}

type callKey struct {
	CallerModule   string
	CallerFunction string
	CalleeModule   string
	CalleeFunction string
	CalleeArity    int64
	File           string
	Line           int64
	Column         int64
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

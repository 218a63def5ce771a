package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/callscope/callscope/core"
)

// Seven relations hold a project's extracted call graph. Key columns mirror
// the upsert identity of each relation; every optional column carries a
// default so partial extractor output still imports. The column types are
// the portable subset both engines accept, and the keywords "column" and
// "full" are quoted so plain selects work everywhere.

const modulesDDL = `CREATE TABLE modules (
	project TEXT NOT NULL,
	name TEXT NOT NULL,
	file TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT 'unknown',
	PRIMARY KEY (project, name)
)`

const functionsDDL = `CREATE TABLE functions (
	project TEXT NOT NULL,
	module TEXT NOT NULL,
	name TEXT NOT NULL,
	arity BIGINT NOT NULL,
	return_type TEXT NOT NULL DEFAULT '',
	args TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT 'unknown',
	PRIMARY KEY (project, module, name, arity)
)`

const callsDDL = `CREATE TABLE calls (
	project TEXT NOT NULL,
	caller_module TEXT NOT NULL,
	caller_function TEXT NOT NULL,
	callee_module TEXT NOT NULL,
	callee_function TEXT NOT NULL,
	callee_arity BIGINT NOT NULL,
	file TEXT NOT NULL,
	line BIGINT NOT NULL,
	"column" BIGINT NOT NULL,
	call_type TEXT NOT NULL DEFAULT 'remote',
	caller_kind TEXT NOT NULL DEFAULT '',
	callee_args TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (project, caller_module, caller_function, callee_module, callee_function, callee_arity, file, line, "column")
)`

const structFieldsDDL = `CREATE TABLE struct_fields (
	project TEXT NOT NULL,
	module TEXT NOT NULL,
	field TEXT NOT NULL,
	default_value TEXT NOT NULL,
	required BOOLEAN NOT NULL,
	inferred_type TEXT NOT NULL,
	PRIMARY KEY (project, module, field)
)`

const functionLocationsDDL = `CREATE TABLE function_locations (
	project TEXT NOT NULL,
	module TEXT NOT NULL,
	name TEXT NOT NULL,
	arity BIGINT NOT NULL,
	line BIGINT NOT NULL,
	file TEXT NOT NULL,
	source_file_absolute TEXT NOT NULL DEFAULT '',
	"column" BIGINT NOT NULL,
	kind TEXT NOT NULL,
	start_line BIGINT NOT NULL,
	end_line BIGINT NOT NULL,
	pattern TEXT NOT NULL DEFAULT '',
	guard TEXT NOT NULL DEFAULT '',
	source_sha TEXT NOT NULL DEFAULT '',
	ast_sha TEXT NOT NULL DEFAULT '',
	complexity BIGINT NOT NULL DEFAULT 1,
	max_nesting_depth BIGINT NOT NULL DEFAULT 0,
	generated_by TEXT NOT NULL DEFAULT '',
	macro_source TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (project, module, name, arity, line)
)`

const specsDDL = `CREATE TABLE specs (
	project TEXT NOT NULL,
	module TEXT NOT NULL,
	name TEXT NOT NULL,
	arity BIGINT NOT NULL,
	kind TEXT NOT NULL,
	line BIGINT NOT NULL,
	inputs_string TEXT NOT NULL DEFAULT '',
	return_string TEXT NOT NULL DEFAULT '',
	"full" TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (project, module, name, arity)
)`

const typesDDL = `CREATE TABLE types (
	project TEXT NOT NULL,
	module TEXT NOT NULL,
	name TEXT NOT NULL,
	kind TEXT NOT NULL,
	params TEXT NOT NULL DEFAULT '',
	line BIGINT NOT NULL,
	definition TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (project, module, name)
)`

// Relation pairs a relation name with the statement that creates it.
type Relation struct {
	Name string
	DDL  string
}

// All returns the managed relations in creation order.
func All() []Relation {
	return []Relation{
		{Name: "modules", DDL: modulesDDL},
		{Name: "functions", DDL: functionsDDL},
		{Name: "calls", DDL: callsDDL},
		{Name: "struct_fields", DDL: structFieldsDDL},
		{Name: "function_locations", DDL: functionLocationsDDL},
		{Name: "specs", DDL: specsDDL},
		{Name: "types", DDL: typesDDL},
	}
}

// Names lists the managed relation names in creation order.
func Names() []string {
	all := All()

	names := make([]string, len(all))
	for i, rel := range all {
		names[i] = rel.Name
	}

	return names
}

// ForRelation returns the creation statement for one relation.
func ForRelation(name string) (string, bool) {
	for _, rel := range All() {
		if rel.Name == name {
			return rel.DDL, true
		}
	}

	return "", false
}

// CreationStatus is one relation's outcome from EnsureAll.
type CreationStatus struct {
	Relation string
	Created  bool
}

// EnsureAll creates every absent relation and reports per-relation outcomes
// in creation order. Relations already in place report Created=false.
func EnsureAll(ctx context.Context, driver core.Driver) ([]CreationStatus, error) {
	all := All()

	statuses := make([]CreationStatus, 0, len(all))
	for _, rel := range all {
		created, err := driver.CreateRelationIfAbsent(ctx, rel.Name, rel.DDL)
		if err != nil {
			return nil, fmt.Errorf("driver.CreateRelationIfAbsent: %w", err)
		}

		statuses = append(statuses, CreationStatus{Relation: rel.Name, Created: created})
	}

	return statuses, nil
}

// RelationStatus reports presence of one relation.
type RelationStatus struct {
	Relation string
	Present  bool
}

// Status probes each relation without touching the store's schema, for
// reporting what a setup run would create.
func Status(ctx context.Context, driver core.Driver) ([]RelationStatus, error) {
	all := All()

	statuses := make([]RelationStatus, 0, len(all))
	for _, rel := range all {
		_, err := driver.ExecuteNoParams(ctx, "SELECT 1 FROM "+rel.Name+" LIMIT 1")
		if err != nil {
			var empty *core.EmptyStoreError
			if !errors.As(err, &empty) {
				return nil, fmt.Errorf("driver.ExecuteNoParams: %w", err)
			}

			statuses = append(statuses, RelationStatus{Relation: rel.Name, Present: false})
			continue
		}

		statuses = append(statuses, RelationStatus{Relation: rel.Name, Present: true})
	}

	return statuses, nil
}

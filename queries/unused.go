package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/output"
	"github.com/callscope/callscope/results"
)

// UnusedOptions filters the unused-function scan.
type UnusedOptions struct {
	Module  string
	Project string
	Mode    core.MatchMode
	Limit   int64

	PrivateOnly      bool
	PublicOnly       bool
	ExcludeGenerated bool
}

// unfiltered reports whether the scan covers every module. The bare pattern
// "*" means "all modules", not a substring match.
func (o UnusedOptions) unfiltered() bool {
	return o.Module == "" || o.Module == "*"
}

// Compiler-generated callbacks are invoked by name at runtime, so a missing
// call edge says nothing about them.
var generatedNamePrefixes = []string{
	"__struct__",
	"__using__",
	"__before_compile__",
	"__after_compile__",
	"__on_definition__",
	"__impl__",
	"__info__",
	"__protocol__",
	"__deriving__",
	"__changeset__",
	"__schema__",
	"__meta__",
}

const findUnusedSQL = `SELECT
	fl.module AS module,
	fl.name AS name,
	fl.arity AS arity,
	fl.kind AS kind,
	fl.file AS file,
	fl.start_line AS line
FROM function_locations fl
WHERE fl.project = $project
	%s
	%s
	AND NOT EXISTS (
		SELECT 1 FROM calls c
		WHERE c.project = fl.project
			AND c.callee_module = fl.module
			AND c.callee_function = fl.name
			AND c.callee_arity = fl.arity
	)
ORDER BY module, name, arity, line
LIMIT $limit`

// UnusedFunction is one definition no call edge reaches.
type UnusedFunction struct {
	Name  string `json:"name"`
	Arity int64  `json:"arity"`
	Kind  string `json:"kind"`
	Line  int64  `json:"line"`
}

// UnusedResult lists uncalled functions grouped by their defining module.
type UnusedResult struct {
	results.ModuleCollectionResult[UnusedFunction]
}

var _ output.Tabler = (*UnusedResult)(nil)

// Unused scans function definitions for names no call edge reaches. A
// function with several clauses is reported once, at its first clause.
func Unused(ctx context.Context, driver core.Driver, opts UnusedOptions) (*UnusedResult, error) {
	kindFilter := ""
	switch {
	case opts.PrivateOnly:
		kindFilter = "AND fl.kind IN ('defp', 'defmacrop')"
	case opts.PublicOnly:
		kindFilter = "AND fl.kind IN ('def', 'defmacro')"
	}

	moduleCond := ""
	if !opts.unfiltered() {
		moduleCond = core.NewCondition("fl.module", "module_pattern").WithLeadingAnd().Build(opts.Mode)
	}

	query := fmt.Sprintf(findUnusedSQL, moduleCond, kindFilter)

	params := core.NewParams().
		SetString("project", opts.Project).
		SetInt("limit", opts.Limit)
	if !opts.unfiltered() {
		params.SetString("module_pattern", core.PatternParam(opts.Module, opts.Mode))
	}

	result, err := driver.Execute(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("driver.Execute: %w", err)
	}

	rows, err := collectUnused(result)
	if err != nil {
		return nil, err
	}

	if opts.ExcludeGenerated {
		kept := rows[:0]
		for _, row := range rows {
			if generatedName(row.name) {
				continue
			}
			kept = append(kept, row)
		}
		rows = kept
	}

	rows = results.RetainFirst(rows, func(row unusedRow) results.FuncIdentity {
		return results.FuncIdentity{Module: row.module, Name: row.name, Arity: row.arity}
	})

	groups := results.GroupByModuleWithFile(rows, func(row unusedRow) (string, UnusedFunction, string) {
		return row.module, UnusedFunction{Name: row.name, Arity: row.arity, Kind: row.kind, Line: row.line}, row.file
	})

	kindEcho := ""
	switch {
	case opts.PrivateOnly:
		kindEcho = "private"
	case opts.PublicOnly:
		kindEcho = "public"
	}

	return &UnusedResult{results.ModuleCollectionResult[UnusedFunction]{
		ModulePattern: opts.Module,
		KindFilter:    kindEcho,
		TotalItems:    len(rows),
		Items:         groups,
	}}, nil
}

func generatedName(name string) bool {
	for _, prefix := range generatedNamePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}

	return false
}

type unusedRow struct {
	module string
	name   string
	arity  int64
	kind   string
	file   string
	line   int64
}

func collectUnused(result *core.Result) ([]unusedRow, error) {
	ix := core.IndexHeader(result.Header)

	var module, name, arity, kind, file, line int
	for _, col := range []struct {
		name string
		pos  *int
	}{
		{"module", &module},
		{"name", &name},
		{"arity", &arity},
		{"kind", &kind},
		{"file", &file},
		{"line", &line},
	} {
		pos, err := ix.Require(col.name)
		if err != nil {
			return nil, err
		}
		*col.pos = pos
	}

	rows := make([]unusedRow, 0, len(result.Rows))
	for _, row := range result.Rows {
		moduleName, err := requireString(row, module, "module")
		if err != nil {
			return nil, err
		}
		funcName, err := requireString(row, name, "name")
		if err != nil {
			return nil, err
		}

		rows = append(rows, unusedRow{
			module: moduleName,
			name:   funcName,
			arity:  core.IntOr(row[arity], 0),
			kind:   core.StringOr(row[kind], ""),
			file:   core.StringOr(row[file], ""),
			line:   core.IntOr(row[line], 0),
		})
	}

	return rows, nil
}

func (r *UnusedResult) Table() string {
	return output.ModuleTable(output.TableVocab[UnusedFunction]{
		Header: func() string {
			if r.ModulePattern == "" || r.ModulePattern == "*" {
				return "Unused functions"
			}
			return fmt.Sprintf("Unused functions (module: %s)", r.ModulePattern)
		},
		Empty: func() string { return "No unused functions found." },
		Summary: func(total, moduleCount int) string {
			return fmt.Sprintf("Found %d unused function(s) in %d module(s):", total, moduleCount)
		},
		ModuleHeader: func(name, file string, _ []UnusedFunction) string {
			if file == "" {
				return name + ":"
			}
			return fmt.Sprintf("%s (%s):", name, file)
		},
		Entry: func(entry UnusedFunction, _, _ string) string {
			return fmt.Sprintf("%s/%d [%s] L%d", entry.Name, entry.Arity, entry.Kind, entry.Line)
		},
	}, r.Items, r.TotalItems)
}

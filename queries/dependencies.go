package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/output"
	"github.com/callscope/callscope/results"
)

// dependencyDirection selects which end of the cross-module edge the module
// filter applies to.
type dependencyDirection int

const (
	outgoing dependencyDirection = iota
	incoming
)

func (d dependencyDirection) filterField() string {
	if d == outgoing {
		return "c.caller_module"
	}

	return "c.callee_module"
}

func (d dependencyDirection) orderClause() string {
	if d == outgoing {
		return "callee_module, callee_function, callee_arity, caller_module, caller_name, caller_arity, call_line"
	}

	return "caller_module, caller_name, caller_arity, callee_function, callee_arity, call_line"
}

// DependenciesOptions filters the module dependency queries.
type DependenciesOptions struct {
	Module  string
	Project string
	Mode    core.MatchMode
	Limit   int64
}

// Same clause join as the call queries, restricted to edges that cross a
// module boundary. The kind comes from the defining clause here because
// dependency reports describe definitions, not call sites.
const findDependenciesSQL = `SELECT
	c.caller_module AS caller_module,
	fl.name AS caller_name,
	fl.arity AS caller_arity,
	fl.kind AS caller_kind,
	fl.start_line AS caller_start_line,
	fl.end_line AS caller_end_line,
	c.callee_module AS callee_module,
	c.callee_function AS callee_function,
	c.callee_arity AS callee_arity,
	c.file AS file,
	c.line AS call_line
FROM calls c
JOIN function_locations fl
	ON fl.project = c.project
	AND fl.module = c.caller_module
	AND fl.name = substr(c.caller_function, 1, length(fl.name))
	AND c.line BETWEEN fl.start_line AND fl.end_line
WHERE c.project = $project
	AND c.callee_function <> '%%'
	AND c.caller_module <> c.callee_module
	%s
ORDER BY %s
LIMIT $limit`

func findDependencies(ctx context.Context, driver core.Driver, direction dependencyDirection, opts DependenciesOptions) ([]results.Call, error) {
	query := fmt.Sprintf(findDependenciesSQL,
		core.NewCondition(direction.filterField(), "module_pattern").WithLeadingAnd().Build(opts.Mode),
		direction.orderClause(),
	)

	params := core.NewParams().
		SetString("project", opts.Project).
		SetString("module_pattern", core.PatternParam(opts.Module, opts.Mode)).
		SetInt("limit", opts.Limit)

	result, err := driver.Execute(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("driver.Execute: %w", err)
	}

	return collectCalls(result)
}

// DependencyFunction is one function in a dependency module together with
// the calls that reach it.
type DependencyFunction struct {
	Name    string         `json:"name"`
	Arity   int64          `json:"arity"`
	Callers []results.Call `json:"callers"`
}

// DependsOnResult groups a module's outgoing dependencies by the modules it
// depends on.
type DependsOnResult struct {
	results.ModuleGroupResult[DependencyFunction]
}

var _ output.Tabler = (*DependsOnResult)(nil)

// DependsOn reports every cross-module call out of the matched modules,
// grouped by the called module. Every call site is kept.
func DependsOn(ctx context.Context, driver core.Driver, opts DependenciesOptions) (*DependsOnResult, error) {
	calls, err := findDependencies(ctx, driver, outgoing, opts)
	if err != nil {
		return nil, err
	}

	total, groups := results.GroupCalls(calls, results.CallGrouping[funcKey, DependencyFunction]{
		Module:  func(c results.Call) string { return c.Callee.Module },
		Key:     func(c results.Call) funcKey { return funcKey{Name: c.Callee.Name, Arity: c.Callee.Arity} },
		LessKey: lessFuncKey,
		Build: func(key funcKey, calls []results.Call) DependencyFunction {
			return DependencyFunction{Name: key.Name, Arity: key.Arity, Callers: calls}
		},
	})

	return &DependsOnResult{results.ModuleGroupResult[DependencyFunction]{
		ModulePattern: opts.Module,
		TotalItems:    total,
		Items:         groups,
	}}, nil
}

func (r *DependsOnResult) Table() string {
	return output.ModuleTable(output.TableVocab[DependencyFunction]{
		Header: func() string { return "Dependencies of: " + r.ModulePattern },
		Empty:  func() string { return "No dependencies found." },
		Summary: func(total, moduleCount int) string {
			return fmt.Sprintf("Found %d call(s) to %d module(s):", total, moduleCount)
		},
		ModuleHeader: func(name, _ string, _ []DependencyFunction) string {
			return name + ":"
		},
		Entry: func(entry DependencyFunction, _, _ string) string {
			return fmt.Sprintf("%s/%d:", entry.Name, entry.Arity)
		},
		EntryDetails: func(entry DependencyFunction, module, _ string) []string {
			// Callers span files, so the context file stays empty.
			details := make([]string, len(entry.Callers))
			for i, call := range entry.Callers {
				details[i] = call.DisplayIncoming(module, "")
			}
			return details
		},
	}, r.Items, r.TotalItems)
}

// CallTarget is one function inside the depended-on module reached by a
// dependent clause.
type CallTarget struct {
	Function string `json:"function"`
	Arity    int64  `json:"arity"`
	Line     int64  `json:"line"`
}

// DependentCaller is one calling clause in a dependent module together with
// the targets it reaches.
type DependentCaller struct {
	Function  string       `json:"function"`
	Arity     int64        `json:"arity"`
	Kind      string       `json:"kind,omitempty"`
	File      string       `json:"file,omitempty"`
	StartLine int64        `json:"start_line"`
	EndLine   int64        `json:"end_line"`
	Targets   []CallTarget `json:"targets"`
}

// DependedByResult groups a module's incoming dependencies by the modules
// that depend on it.
type DependedByResult struct {
	results.ModuleGroupResult[DependentCaller]
}

var _ output.Tabler = (*DependedByResult)(nil)

// DependedBy reports every cross-module call into the matched modules,
// grouped by the calling module. Every call site is kept.
func DependedBy(ctx context.Context, driver core.Driver, opts DependenciesOptions) (*DependedByResult, error) {
	calls, err := findDependencies(ctx, driver, incoming, opts)
	if err != nil {
		return nil, err
	}

	total, groups := results.GroupCalls(calls, results.CallGrouping[callerClauseKey, DependentCaller]{
		Module: func(c results.Call) string { return c.Caller.Module },
		Key: func(c results.Call) callerClauseKey {
			return callerClauseKey{
				function:  c.Caller.Name,
				arity:     c.Caller.Arity,
				kind:      c.Caller.Kind,
				file:      c.Caller.File,
				startLine: c.Caller.StartLine,
				endLine:   c.Caller.EndLine,
			}
		},
		LessKey: func(a, b callerClauseKey) bool {
			if a.function != b.function {
				return a.function < b.function
			}
			if a.arity != b.arity {
				return a.arity < b.arity
			}
			return a.startLine < b.startLine
		},
		Build: func(key callerClauseKey, calls []results.Call) DependentCaller {
			targets := make([]CallTarget, len(calls))
			for i, call := range calls {
				targets[i] = CallTarget{Function: call.Callee.Name, Arity: call.Callee.Arity, Line: call.Line}
			}
			return DependentCaller{
				Function:  key.function,
				Arity:     key.arity,
				Kind:      key.kind,
				File:      key.file,
				StartLine: key.startLine,
				EndLine:   key.endLine,
				Targets:   targets,
			}
		},
	})

	return &DependedByResult{results.ModuleGroupResult[DependentCaller]{
		ModulePattern: opts.Module,
		TotalItems:    total,
		Items:         groups,
	}}, nil
}

// callerClauseKey buckets dependency edges by the full calling clause,
// including its file, so clauses keep their own location in the report.
type callerClauseKey struct {
	function  string
	arity     int64
	kind      string
	file      string
	startLine int64
	endLine   int64
}

func (r *DependedByResult) Table() string {
	return output.ModuleTable(output.TableVocab[DependentCaller]{
		Header: func() string { return "Modules that depend on: " + r.ModulePattern },
		Empty:  func() string { return "No dependents found." },
		Summary: func(total, moduleCount int) string {
			return fmt.Sprintf("Found %d call(s) from %d module(s):", total, moduleCount)
		},
		ModuleHeader: func(name, _ string, _ []DependentCaller) string {
			return name + ":"
		},
		Entry: func(entry DependentCaller, _, _ string) string {
			kind := ""
			if entry.Kind != "" {
				kind = fmt.Sprintf(" [%s]", entry.Kind)
			}
			filename := entry.File
			if i := strings.LastIndexByte(filename, '/'); i >= 0 {
				filename = filename[i+1:]
			}
			return fmt.Sprintf("%s/%d%s (%s:L%d:%d):", entry.Function, entry.Arity, kind, filename, entry.StartLine, entry.EndLine)
		},
		EntryDetails: func(entry DependentCaller, _, _ string) []string {
			details := make([]string, len(entry.Targets))
			for i, target := range entry.Targets {
				details[i] = fmt.Sprintf("→ @ L%d %s/%d", target.Line, target.Function, target.Arity)
			}
			return details
		},
	}, r.Items, r.TotalItems)
}

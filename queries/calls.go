package queries

import (
	"context"
	"fmt"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/results"
)

// callDirection selects which side of a call edge the module, function and
// arity filters apply to.
type callDirection int

const (
	directionFrom callDirection = iota
	directionTo
)

// filterFields returns the filterable column references for the direction.
func (d callDirection) filterFields() (module, function, arity string) {
	if d == directionFrom {
		return "c.caller_module", "fl.name", "fl.arity"
	}

	return "c.callee_module", "c.callee_function", "c.callee_arity"
}

// orderClause orders output by the matched side first, with the opposite
// side as the tiebreak.
func (d callDirection) orderClause() string {
	if d == directionFrom {
		return "caller_module, caller_name, caller_arity, call_line, callee_module, callee_function, callee_arity"
	}

	return "callee_module, callee_function, callee_arity, caller_module, caller_name, caller_arity"
}

// CallsOptions filters the call-edge queries. Module is always matched;
// Function only when non-empty; Arity only when non-negative. Mode applies
// to the module and function patterns.
type CallsOptions struct {
	Module   string
	Function string
	Arity    int64
	Project  string
	Mode     core.MatchMode
	Limit    int64
}

// Calls record decorated clause heads while locations carry the bare clause
// name, so the join requires the head to extend the name and the call line
// to fall inside the clause extent. Struct constructions are recorded with
// "%" as the called function and are not call edges.
const findCallsSQL = `SELECT
	c.caller_module AS caller_module,
	fl.name AS caller_name,
	fl.arity AS caller_arity,
	c.caller_kind AS caller_kind,
	fl.start_line AS caller_start_line,
	fl.end_line AS caller_end_line,
	c.callee_module AS callee_module,
	c.callee_function AS callee_function,
	c.callee_arity AS callee_arity,
	c.file AS file,
	c.line AS call_line,
	c.call_type AS call_type
FROM calls c
JOIN function_locations fl
	ON fl.project = c.project
	AND fl.module = c.caller_module
	AND fl.name = substr(c.caller_function, 1, length(fl.name))
	AND c.line BETWEEN fl.start_line AND fl.end_line
WHERE c.project = $project
	AND c.callee_function <> '%%'
	%s
	%s
	%s
ORDER BY %s
LIMIT $limit`

func findCalls(ctx context.Context, driver core.Driver, direction callDirection, opts CallsOptions) ([]results.Call, error) {
	moduleField, functionField, arityField := direction.filterFields()

	query := fmt.Sprintf(findCallsSQL,
		core.NewCondition(moduleField, "module_pattern").WithLeadingAnd().Build(opts.Mode),
		core.NewOptionalCondition(functionField, "function_pattern").WithLeadingAnd().Build(opts.Function != "", opts.Mode),
		core.NewOptionalCondition(arityField, "arity").WithLeadingAnd().Build(opts.Arity >= 0, core.MatchExact),
		direction.orderClause(),
	)

	params := core.NewParams().
		SetString("project", opts.Project).
		SetString("module_pattern", core.PatternParam(opts.Module, opts.Mode)).
		SetInt("limit", opts.Limit)
	if opts.Function != "" {
		params.SetString("function_pattern", core.PatternParam(opts.Function, opts.Mode))
	}
	if opts.Arity >= 0 {
		params.SetInt("arity", opts.Arity)
	}

	result, err := driver.Execute(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("driver.Execute: %w", err)
	}

	return collectCalls(result)
}

// callLayout pins the call-edge columns once per result, so extraction
// survives column order differences between the queries that share it.
type callLayout struct {
	callerModule    int
	callerName      int
	callerArity     int
	callerKind      int
	callerStartLine int
	callerEndLine   int
	calleeModule    int
	calleeFunction  int
	calleeArity     int
	file            int
	callLine        int
	callType        int
	hasCallType     bool
}

func newCallLayout(header core.Header) (*callLayout, error) {
	ix := core.IndexHeader(header)

	var l callLayout
	for _, col := range []struct {
		name string
		pos  *int
	}{
		{"caller_module", &l.callerModule},
		{"caller_name", &l.callerName},
		{"caller_arity", &l.callerArity},
		{"caller_kind", &l.callerKind},
		{"caller_start_line", &l.callerStartLine},
		{"caller_end_line", &l.callerEndLine},
		{"callee_module", &l.calleeModule},
		{"callee_function", &l.calleeFunction},
		{"callee_arity", &l.calleeArity},
		{"file", &l.file},
		{"call_line", &l.callLine},
	} {
		pos, err := ix.Require(col.name)
		if err != nil {
			return nil, err
		}
		*col.pos = pos
	}

	l.callType, l.hasCallType = ix.Lookup("call_type")

	return &l, nil
}

// call materializes one row. Module, function and file columns must hold
// strings; numeric columns and the kind degrade to zero values; call_type
// defaults to "remote" when its column exists at all.
func (l *callLayout) call(row core.Row) (results.Call, error) {
	callerModule, err := requireString(row, l.callerModule, "caller_module")
	if err != nil {
		return results.Call{}, err
	}
	callerName, err := requireString(row, l.callerName, "caller_name")
	if err != nil {
		return results.Call{}, err
	}
	calleeModule, err := requireString(row, l.calleeModule, "callee_module")
	if err != nil {
		return results.Call{}, err
	}
	calleeFunction, err := requireString(row, l.calleeFunction, "callee_function")
	if err != nil {
		return results.Call{}, err
	}
	file, err := requireString(row, l.file, "file")
	if err != nil {
		return results.Call{}, err
	}

	call := results.Call{
		Caller: results.FuncRef{
			Module:    callerModule,
			Name:      callerName,
			Arity:     core.IntOr(row[l.callerArity], 0),
			Kind:      core.StringOr(row[l.callerKind], ""),
			File:      file,
			StartLine: core.IntOr(row[l.callerStartLine], 0),
			EndLine:   core.IntOr(row[l.callerEndLine], 0),
		},
		Callee: results.FuncRef{
			Module: calleeModule,
			Name:   calleeFunction,
			Arity:  core.IntOr(row[l.calleeArity], 0),
		},
		Line: core.IntOr(row[l.callLine], 0),
	}
	if l.hasCallType {
		call.CallType = core.StringOr(row[l.callType], "remote")
	}

	return call, nil
}

func collectCalls(result *core.Result) ([]results.Call, error) {
	layout, err := newCallLayout(result.Header)
	if err != nil {
		return nil, err
	}

	calls := make([]results.Call, 0, len(result.Rows))
	for _, row := range result.Rows {
		call, err := layout.call(row)
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}

	return calls, nil
}

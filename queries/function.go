package queries

import (
	"context"
	"fmt"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/output"
	"github.com/callscope/callscope/results"
)

// FunctionOptions selects the signatures to report. A negative Arity matches
// every arity.
type FunctionOptions struct {
	Module   string
	Function string
	Arity    int64
	Project  string
	Mode     core.MatchMode
	Limit    int64
}

const findFunctionsSQL = `SELECT project, module, name, arity, args, return_type
FROM functions
WHERE project = $project
	%s
	%s
	%s
ORDER BY module, name, arity
LIMIT $limit`

// FuncSig is one recorded signature.
type FuncSig struct {
	Name       string `json:"name"`
	Arity      int64  `json:"arity"`
	Args       string `json:"args,omitempty"`
	ReturnType string `json:"return_type,omitempty"`
}

// FunctionResult groups matched signatures by module.
type FunctionResult struct {
	results.ModuleGroupResult[FuncSig]
}

var _ output.Tabler = (*FunctionResult)(nil)

// Function reports the signatures recorded for the matched functions. The
// functions relation carries no file locations, so groups have no file.
func Function(ctx context.Context, driver core.Driver, opts FunctionOptions) (*FunctionResult, error) {
	query := fmt.Sprintf(findFunctionsSQL,
		core.NewCondition("module", "module_pattern").WithLeadingAnd().Build(opts.Mode),
		core.NewCondition("name", "function_pattern").WithLeadingAnd().Build(opts.Mode),
		core.NewOptionalCondition("arity", "arity").WithLeadingAnd().Build(opts.Arity >= 0, core.MatchExact),
	)

	params := core.NewParams().
		SetString("project", opts.Project).
		SetString("module_pattern", core.PatternParam(opts.Module, opts.Mode)).
		SetString("function_pattern", core.PatternParam(opts.Function, opts.Mode)).
		SetInt("limit", opts.Limit)
	if opts.Arity >= 0 {
		params.SetInt("arity", opts.Arity)
	}

	result, err := driver.Execute(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("driver.Execute: %w", err)
	}

	funcs, err := collectFunctions(result)
	if err != nil {
		return nil, err
	}

	groups := results.GroupByModule(funcs, func(f functionRow) (string, FuncSig) {
		return f.module, FuncSig{Name: f.name, Arity: f.arity, Args: f.args, ReturnType: f.returnType}
	})

	return &FunctionResult{results.ModuleGroupResult[FuncSig]{
		ModulePattern:   opts.Module,
		FunctionPattern: opts.Function,
		TotalItems:      len(funcs),
		Items:           groups,
	}}, nil
}

// collectFunctions reads rows from the functions relation. The args column
// is optional; name searches do not select it.
func collectFunctions(result *core.Result) ([]functionRow, error) {
	ix := core.IndexHeader(result.Header)

	var project, module, name, arity, returnType int
	for _, col := range []struct {
		name string
		pos  *int
	}{
		{"project", &project},
		{"module", &module},
		{"name", &name},
		{"arity", &arity},
		{"return_type", &returnType},
	} {
		pos, err := ix.Require(col.name)
		if err != nil {
			return nil, err
		}
		*col.pos = pos
	}
	args, hasArgs := ix.Lookup("args")

	rows := make([]functionRow, 0, len(result.Rows))
	for _, row := range result.Rows {
		projectName, err := requireString(row, project, "project")
		if err != nil {
			return nil, err
		}
		moduleName, err := requireString(row, module, "module")
		if err != nil {
			return nil, err
		}
		funcName, err := requireString(row, name, "name")
		if err != nil {
			return nil, err
		}

		fn := functionRow{
			project:    projectName,
			module:     moduleName,
			name:       funcName,
			arity:      core.IntOr(row[arity], 0),
			returnType: core.StringOr(row[returnType], ""),
		}
		if hasArgs {
			fn.args = core.StringOr(row[args], "")
		}

		rows = append(rows, fn)
	}

	return rows, nil
}

func (r *FunctionResult) Table() string {
	return output.ModuleTable(output.TableVocab[FuncSig]{
		Header: func() string {
			pattern := r.FunctionPattern
			if pattern == "" {
				pattern = "*"
			}
			return fmt.Sprintf("Function: %s.%s", r.ModulePattern, pattern)
		},
		Empty: func() string { return "No functions found." },
		Summary: func(total, moduleCount int) string {
			return fmt.Sprintf("Found %d signature(s) in %d module(s):", total, moduleCount)
		},
		ModuleHeader: func(name, _ string, _ []FuncSig) string {
			return name + ":"
		},
		Entry: func(entry FuncSig, _, _ string) string {
			return fmt.Sprintf("%s/%d", entry.Name, entry.Arity)
		},
		EntryDetails: func(entry FuncSig, _, _ string) []string {
			var details []string
			if entry.Args != "" {
				details = append(details, "args: "+entry.Args)
			}
			if entry.ReturnType != "" {
				details = append(details, "returns: "+entry.ReturnType)
			}
			return details
		},
	}, r.Items, r.TotalItems)
}

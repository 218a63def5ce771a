package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/output"
	"github.com/callscope/callscope/results"
)

// SearchKind selects what a search matches against.
type SearchKind string

const (
	SearchModules   SearchKind = "modules"
	SearchFunctions SearchKind = "functions"
)

// ParseSearchKind maps a flag value onto a search kind.
func ParseSearchKind(raw string) (SearchKind, error) {
	switch SearchKind(raw) {
	case SearchModules:
		return SearchModules, nil
	case SearchFunctions:
		return SearchFunctions, nil
	default:
		return "", fmt.Errorf("unknown search kind %q (want modules or functions)", raw)
	}
}

// SearchOptions filters the name search.
type SearchOptions struct {
	Pattern string
	Kind    SearchKind
	Project string
	Mode    core.MatchMode
	Limit   int64
}

const searchModulesSQL = `SELECT project, name, source
FROM modules
WHERE project = $project
	%s
ORDER BY name
LIMIT $limit`

const searchFunctionsSQL = `SELECT project, module, name, arity, return_type
FROM functions
WHERE project = $project
	%s
ORDER BY module, name, arity
LIMIT $limit`

// SearchModule is one matched module.
type SearchModule struct {
	Project string `json:"project"`
	Name    string `json:"name"`
	Source  string `json:"source"`
}

// SearchFunc is one matched function signature.
type SearchFunc struct {
	Name       string `json:"name"`
	Arity      int64  `json:"arity"`
	ReturnType string `json:"return_type"`
}

// SearchFuncModule collects one module's matched functions.
type SearchFuncModule struct {
	Name      string       `json:"name"`
	Functions []SearchFunc `json:"functions"`
}

// SearchResult carries one of the two search sections; the other stays
// empty.
type SearchResult struct {
	Pattern         string             `json:"pattern"`
	Kind            SearchKind         `json:"kind"`
	Modules         []SearchModule     `json:"modules"`
	TotalFunctions  int                `json:"total_functions,omitempty"`
	FunctionModules []SearchFuncModule `json:"function_modules"`
}

var _ output.Tabler = (*SearchResult)(nil)

// Search matches module or function names against the pattern.
func Search(ctx context.Context, driver core.Driver, opts SearchOptions) (*SearchResult, error) {
	result := &SearchResult{
		Pattern:         opts.Pattern,
		Kind:            opts.Kind,
		Modules:         make([]SearchModule, 0),
		FunctionModules: make([]SearchFuncModule, 0),
	}

	switch opts.Kind {
	case SearchModules:
		modules, err := searchModules(ctx, driver, opts)
		if err != nil {
			return nil, err
		}
		result.Modules = modules
	case SearchFunctions:
		funcs, err := searchFunctions(ctx, driver, opts)
		if err != nil {
			return nil, err
		}

		groups := results.GroupByModule(funcs, func(f functionRow) (string, SearchFunc) {
			return f.module, SearchFunc{Name: f.name, Arity: f.arity, ReturnType: f.returnType}
		})
		modules := make([]SearchFuncModule, len(groups))
		for i, group := range groups {
			modules[i] = SearchFuncModule{Name: group.Name, Functions: group.Entries}
		}

		result.TotalFunctions = len(funcs)
		result.FunctionModules = modules
	default:
		return nil, fmt.Errorf("unknown search kind %q (want modules or functions)", opts.Kind)
	}

	return result, nil
}

func searchModules(ctx context.Context, driver core.Driver, opts SearchOptions) ([]SearchModule, error) {
	query := fmt.Sprintf(searchModulesSQL,
		core.NewCondition("name", "pattern").WithLeadingAnd().Build(opts.Mode),
	)

	params := core.NewParams().
		SetString("project", opts.Project).
		SetString("pattern", core.PatternParam(opts.Pattern, opts.Mode)).
		SetInt("limit", opts.Limit)

	result, err := driver.Execute(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("driver.Execute: %w", err)
	}

	ix := core.IndexHeader(result.Header)

	var project, name, source int
	for _, col := range []struct {
		name string
		pos  *int
	}{
		{"project", &project},
		{"name", &name},
		{"source", &source},
	} {
		pos, err := ix.Require(col.name)
		if err != nil {
			return nil, err
		}
		*col.pos = pos
	}

	modules := make([]SearchModule, 0, len(result.Rows))
	for _, row := range result.Rows {
		projectName, err := requireString(row, project, "project")
		if err != nil {
			return nil, err
		}
		moduleName, err := requireString(row, name, "name")
		if err != nil {
			return nil, err
		}

		modules = append(modules, SearchModule{
			Project: projectName,
			Name:    moduleName,
			Source:  core.StringOr(row[source], "unknown"),
		})
	}

	return modules, nil
}

type functionRow struct {
	project    string
	module     string
	name       string
	arity      int64
	args       string
	returnType string
}

func searchFunctions(ctx context.Context, driver core.Driver, opts SearchOptions) ([]functionRow, error) {
	query := fmt.Sprintf(searchFunctionsSQL,
		core.NewCondition("name", "pattern").WithLeadingAnd().Build(opts.Mode),
	)

	params := core.NewParams().
		SetString("project", opts.Project).
		SetString("pattern", core.PatternParam(opts.Pattern, opts.Mode)).
		SetInt("limit", opts.Limit)

	result, err := driver.Execute(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("driver.Execute: %w", err)
	}

	return collectFunctions(result)
}

func (r *SearchResult) Table() string {
	lines := []string{fmt.Sprintf("Search: %s (%s)", r.Pattern, r.Kind), ""}

	if len(r.Modules) > 0 {
		lines = append(lines, fmt.Sprintf("Modules (%d):", len(r.Modules)))
		for _, module := range r.Modules {
			lines = append(lines, "  "+module.Name)
		}
	}

	if len(r.FunctionModules) > 0 {
		lines = append(lines, fmt.Sprintf("Functions (%d) in %d module(s):", r.TotalFunctions, len(r.FunctionModules)), "")

		for _, module := range r.FunctionModules {
			lines = append(lines, module.Name+":")
			for _, f := range module.Functions {
				sig := fmt.Sprintf("%s/%d", f.Name, f.Arity)
				if f.ReturnType != "" {
					sig += " -> " + f.ReturnType
				}
				lines = append(lines, "  "+sig)
			}
		}
	}

	if len(r.Modules) == 0 && len(r.FunctionModules) == 0 {
		lines = append(lines, "No results found.")
	}

	return strings.Join(lines, "\n")
}

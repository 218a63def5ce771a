package queries

import (
	"context"
	"fmt"
	"strconv"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/output"
	"github.com/callscope/callscope/schema"
)

// StatsOptions scopes the store statistics to one project.
type StatsOptions struct {
	Project string
}

const distinctModulesSQL = `SELECT COUNT(DISTINCT module) AS n
FROM function_locations
WHERE project = $project`

const distinctFunctionsSQL = `SELECT COUNT(*) AS n
FROM (SELECT DISTINCT module, name, arity FROM function_locations WHERE project = $project) defs`

const avgComplexitySQL = `SELECT AVG(complexity) AS n
FROM function_locations
WHERE project = $project`

// RelationRows is one relation's row count.
type RelationRows struct {
	Relation string `json:"relation"`
	Rows     int64  `json:"rows"`
}

// StatsResult summarizes what the store holds for one project.
type StatsResult struct {
	Project           string         `json:"project"`
	Relations         []RelationRows `json:"relations"`
	DistinctModules   int64          `json:"distinct_modules"`
	DistinctFunctions int64          `json:"distinct_functions"`
	AvgComplexity     output.Float   `json:"avg_complexity"`
}

var _ output.Tabler = (*StatsResult)(nil)

// Stats counts rows per relation and tallies defined modules and functions.
// Function tallies come from recorded clause locations, so a function counts
// once however many clauses it has.
func Stats(ctx context.Context, driver core.Driver, opts StatsOptions) (*StatsResult, error) {
	params := core.NewParams().SetString("project", opts.Project)

	relations := make([]RelationRows, 0, len(schema.Names()))
	for _, name := range schema.Names() {
		count, err := scalarInt(ctx, driver, "SELECT COUNT(*) AS n FROM "+name+" WHERE project = $project", params)
		if err != nil {
			return nil, err
		}
		relations = append(relations, RelationRows{Relation: name, Rows: count})
	}

	modules, err := scalarInt(ctx, driver, distinctModulesSQL, params)
	if err != nil {
		return nil, err
	}
	functions, err := scalarInt(ctx, driver, distinctFunctionsSQL, params)
	if err != nil {
		return nil, err
	}
	complexity, err := scalarFloat(ctx, driver, avgComplexitySQL, params)
	if err != nil {
		return nil, err
	}

	return &StatsResult{
		Project:           opts.Project,
		Relations:         relations,
		DistinctModules:   modules,
		DistinctFunctions: functions,
		AvgComplexity:     output.Float(complexity),
	}, nil
}

func scalarInt(ctx context.Context, driver core.Driver, query string, params *core.Params) (int64, error) {
	result, err := driver.Execute(ctx, query, params)
	if err != nil {
		return 0, fmt.Errorf("driver.Execute: %w", err)
	}
	if len(result.Rows) == 0 || len(result.Rows[0]) == 0 {
		return 0, nil
	}

	return core.IntOr(result.Rows[0][0], 0), nil
}

func scalarFloat(ctx context.Context, driver core.Driver, query string, params *core.Params) (float64, error) {
	result, err := driver.Execute(ctx, query, params)
	if err != nil {
		return 0, fmt.Errorf("driver.Execute: %w", err)
	}
	if len(result.Rows) == 0 || len(result.Rows[0]) == 0 {
		return 0, nil
	}

	return core.FloatOr(result.Rows[0][0], 0), nil
}

func (r *StatsResult) Table() string {
	rows := make([][]string, 0, len(r.Relations)+3)
	for _, rel := range r.Relations {
		rows = append(rows, []string{rel.Relation, strconv.FormatInt(rel.Rows, 10)})
	}
	rows = append(rows,
		[]string{"distinct modules", strconv.FormatInt(r.DistinctModules, 10)},
		[]string{"distinct functions", strconv.FormatInt(r.DistinctFunctions, 10)},
		[]string{"avg complexity", output.FloatString(float64(r.AvgComplexity))},
	)

	return "Project statistics: " + r.Project + "\n\n" + output.Grid([]string{"Metric", "Value"}, rows)
}

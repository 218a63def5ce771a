package queries

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/output"
)

// DuplicatesOptions filters the duplicate-body scan.
type DuplicatesOptions struct {
	Module  string
	Project string
	Mode    core.MatchMode

	// BySource matches on the recorded source hash instead of the AST hash,
	// so formatting differences break the match.
	BySource         bool
	ExcludeGenerated bool
}

func (o DuplicatesOptions) hashField() string {
	if o.BySource {
		return "source_sha"
	}

	return "ast_sha"
}

// The inner select keeps a hash only when more than one recorded clause
// carries it. The generated filter applies on both sides, otherwise a
// generated twin would drag its handwritten sibling back into the report.
const findDuplicatesSQL = `SELECT
	fl.%[1]s AS hash,
	fl.module AS module,
	fl.name AS name,
	fl.arity AS arity,
	fl.line AS line,
	fl.file AS file
FROM function_locations fl
JOIN (
	SELECT %[1]s
	FROM function_locations
	WHERE project = $project
		AND %[1]s <> ''
		%[2]s
	GROUP BY %[1]s
	HAVING COUNT(*) > 1
) dup ON dup.%[1]s = fl.%[1]s
WHERE fl.project = $project
	%[3]s
	%[4]s
ORDER BY hash, module, name, arity`

type duplicateRow struct {
	hash   string
	module string
	name   string
	arity  int64
	line   int64
	file   string
}

func findDuplicates(ctx context.Context, driver core.Driver, opts DuplicatesOptions) ([]duplicateRow, error) {
	innerGenerated := ""
	outerGenerated := ""
	if opts.ExcludeGenerated {
		innerGenerated = "AND generated_by = ''"
		outerGenerated = "AND fl.generated_by = ''"
	}

	moduleCond := ""
	if opts.Module != "" {
		moduleCond = core.NewCondition("fl.module", "module_pattern").WithLeadingAnd().Build(opts.Mode)
	}

	query := fmt.Sprintf(findDuplicatesSQL, opts.hashField(), innerGenerated, moduleCond, outerGenerated)

	params := core.NewParams().SetString("project", opts.Project)
	if opts.Module != "" {
		params.SetString("module_pattern", core.PatternParam(opts.Module, opts.Mode))
	}

	result, err := driver.Execute(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("driver.Execute: %w", err)
	}

	ix := core.IndexHeader(result.Header)

	var hash, module, name, arity, line, file int
	for _, col := range []struct {
		name string
		pos  *int
	}{
		{"hash", &hash},
		{"module", &module},
		{"name", &name},
		{"arity", &arity},
		{"line", &line},
		{"file", &file},
	} {
		pos, err := ix.Require(col.name)
		if err != nil {
			return nil, err
		}
		*col.pos = pos
	}

	rows := make([]duplicateRow, 0, len(result.Rows))
	for _, row := range result.Rows {
		hashValue, err := requireString(row, hash, "hash")
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

		rows = append(rows, duplicateRow{
			hash:   hashValue,
			module: moduleName,
			name:   funcName,
			arity:  core.IntOr(row[arity], 0),
			line:   core.IntOr(row[line], 0),
			file:   core.StringOr(row[file], ""),
		})
	}

	return rows, nil
}

// DuplicateEntry is one clause inside a duplicate group.
type DuplicateEntry struct {
	Module string `json:"module"`
	Name   string `json:"name"`
	Arity  int64  `json:"arity"`
	Line   int64  `json:"line"`
	File   string `json:"file"`
}

// DuplicateGroup collects the clauses sharing one hash.
type DuplicateGroup struct {
	Hash      string           `json:"hash"`
	Functions []DuplicateEntry `json:"functions"`
}

// DuplicatesResult lists duplicate groups ordered by hash.
type DuplicatesResult struct {
	TotalGroups     int              `json:"total_groups"`
	TotalDuplicates int              `json:"total_duplicates"`
	Groups          []DuplicateGroup `json:"groups"`
}

var _ output.Tabler = (*DuplicatesResult)(nil)

// Duplicates finds function bodies recorded under the same hash in more than
// one clause and groups them by that hash.
func Duplicates(ctx context.Context, driver core.Driver, opts DuplicatesOptions) (*DuplicatesResult, error) {
	rows, err := findDuplicates(ctx, driver, opts)
	if err != nil {
		return nil, err
	}

	// Rows arrive ordered by hash, so groups close in one pass.
	groups := make([]DuplicateGroup, 0)
	total := 0
	for _, row := range rows {
		entry := DuplicateEntry{Module: row.module, Name: row.name, Arity: row.arity, Line: row.line, File: row.file}

		if len(groups) == 0 || groups[len(groups)-1].Hash != row.hash {
			groups = append(groups, DuplicateGroup{Hash: row.hash})
		}
		last := &groups[len(groups)-1]
		last.Functions = append(last.Functions, entry)
		total++
	}

	return &DuplicatesResult{
		TotalGroups:     len(groups),
		TotalDuplicates: total,
		Groups:          groups,
	}, nil
}

func (r *DuplicatesResult) Table() string {
	lines := []string{"Duplicate Functions", ""}

	if len(r.Groups) == 0 {
		lines = append(lines, "No duplicate functions found.")
		return strings.Join(lines, "\n")
	}

	lines = append(lines,
		fmt.Sprintf("Found %d group(s) of duplicate(s) (%d function(s) total):", r.TotalGroups, r.TotalDuplicates),
		"",
	)

	for i, group := range r.Groups {
		display := group.Hash
		if len(display) > 20 {
			display = display[:17] + "..."
		}

		lines = append(lines, fmt.Sprintf("Group %d - hash:%s... (%d function(s)):", i+1, display, len(group.Functions)))
		for _, fn := range group.Functions {
			lines = append(lines, fmt.Sprintf("  %s.%s/%d L%d  %s", fn.Module, fn.Name, fn.Arity, fn.Line, fn.File))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// DuplicateSummary counts how many duplicate clauses a function contributes
// within its module.
type DuplicateSummary struct {
	Name      string `json:"name"`
	Arity     int64  `json:"arity"`
	CopyCount int64  `json:"copy_count"`
}

// ModuleDuplicates ranks one module's duplicated functions.
type ModuleDuplicates struct {
	Name           string             `json:"name"`
	DuplicateCount int64              `json:"duplicate_count"`
	TopDuplicates  []DuplicateSummary `json:"top_duplicates"`
}

// DuplicatesByModuleResult ranks modules by how many distinct functions they
// duplicate.
type DuplicatesByModuleResult struct {
	TotalModules    int                `json:"total_modules"`
	TotalDuplicates int64              `json:"total_duplicates"`
	Modules         []ModuleDuplicates `json:"modules"`
}

var _ output.Tabler = (*DuplicatesByModuleResult)(nil)

// DuplicatesByModule aggregates the duplicate scan per module, most
// duplicated first. Ties keep alphabetical module order.
func DuplicatesByModule(ctx context.Context, driver core.Driver, opts DuplicatesOptions) (*DuplicatesByModuleResult, error) {
	rows, err := findDuplicates(ctx, driver, opts)
	if err != nil {
		return nil, err
	}

	byModule := make(map[string][]duplicateRow)
	names := make([]string, 0)
	for _, row := range rows {
		if _, ok := byModule[row.module]; !ok {
			names = append(names, row.module)
		}
		byModule[row.module] = append(byModule[row.module], row)
	}
	sort.Strings(names)

	modules := make([]ModuleDuplicates, 0, len(names))
	var total int64
	for _, name := range names {
		counts := make(map[funcKey]int64)
		keys := make([]funcKey, 0)
		for _, row := range byModule[name] {
			key := funcKey{Name: row.name, Arity: row.arity}
			if _, ok := counts[key]; !ok {
				keys = append(keys, key)
			}
			counts[key]++
		}

		sort.Slice(keys, func(i, j int) bool { return lessFuncKey(keys[i], keys[j]) })

		summaries := make([]DuplicateSummary, 0, len(keys))
		for _, key := range keys {
			summaries = append(summaries, DuplicateSummary{Name: key.Name, Arity: key.Arity, CopyCount: counts[key]})
		}
		sort.SliceStable(summaries, func(i, j int) bool { return summaries[i].CopyCount > summaries[j].CopyCount })

		count := int64(len(summaries))
		total += count
		modules = append(modules, ModuleDuplicates{Name: name, DuplicateCount: count, TopDuplicates: summaries})
	}

	sort.SliceStable(modules, func(i, j int) bool { return modules[i].DuplicateCount > modules[j].DuplicateCount })

	return &DuplicatesByModuleResult{
		TotalModules:    len(modules),
		TotalDuplicates: total,
		Modules:         modules,
	}, nil
}

func (r *DuplicatesByModuleResult) Table() string {
	lines := []string{"Modules with Most Duplicates", ""}

	if len(r.Modules) == 0 {
		lines = append(lines, "No duplicate functions found.")
		return strings.Join(lines, "\n")
	}

	lines = append(lines,
		fmt.Sprintf("Found %d duplicated function(s) across %d module(s):", r.TotalDuplicates, r.TotalModules),
		"",
	)

	for _, module := range r.Modules {
		lines = append(lines, fmt.Sprintf("%s (%d duplicates):", module.Name, module.DuplicateCount))
		for _, dup := range module.TopDuplicates {
			lines = append(lines, fmt.Sprintf("  %s/%d (%d copies)", dup.Name, dup.Arity, dup.CopyCount))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/output"
	"github.com/callscope/callscope/schema"
)

// Relation setup outcomes.
const (
	SetupCreated     = "created"
	SetupExists      = "exists"
	SetupWouldCreate = "would_create"
)

// RelationSetup is one relation's setup outcome.
type RelationSetup struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// SetupResult reports what a setup run did, or would do.
type SetupResult struct {
	Relations  []RelationSetup `json:"relations"`
	CreatedNew bool            `json:"created_new"`
	DryRun     bool            `json:"dry_run"`
}

var _ output.Tabler = (*SetupResult)(nil)

// Setup ensures every relation exists. A dry run only probes the store and
// reports which relations a real run would create.
func Setup(ctx context.Context, driver core.Driver, dryRun bool) (*SetupResult, error) {
	result := &SetupResult{DryRun: dryRun}

	if dryRun {
		statuses, err := schema.Status(ctx, driver)
		if err != nil {
			return nil, fmt.Errorf("schema.Status: %w", err)
		}

		for _, status := range statuses {
			outcome := SetupWouldCreate
			if status.Present {
				outcome = SetupExists
			}
			result.Relations = append(result.Relations, RelationSetup{Name: status.Relation, Status: outcome})
		}

		return result, nil
	}

	statuses, err := schema.EnsureAll(ctx, driver)
	if err != nil {
		return nil, fmt.Errorf("schema.EnsureAll: %w", err)
	}

	for _, status := range statuses {
		outcome := SetupExists
		if status.Created {
			outcome = SetupCreated
			result.CreatedNew = true
		}
		result.Relations = append(result.Relations, RelationSetup{Name: status.Relation, Status: outcome})
	}

	return result, nil
}

func (r *SetupResult) Table() string {
	header := "Storage setup"
	if r.DryRun {
		header = "Storage setup (dry run)"
	}

	rows := make([][]string, 0, len(r.Relations))
	for _, rel := range r.Relations {
		rows = append(rows, []string{rel.Name, rel.Status})
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(output.Grid([]string{"Relation", "Status"}, rows))

	if !r.DryRun {
		b.WriteString("\n\n")
		if r.CreatedNew {
			b.WriteString("New relations were created.")
		} else {
			b.WriteString("All relations already existed.")
		}
	}

	return b.String()
}

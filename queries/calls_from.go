package queries

import (
	"context"
	"fmt"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/output"
	"github.com/callscope/callscope/results"
)

// CallerFunction is one calling clause together with the calls it makes.
type CallerFunction struct {
	Name      string         `json:"name"`
	Arity     int64          `json:"arity"`
	Kind      string         `json:"kind,omitempty"`
	StartLine int64          `json:"start_line"`
	EndLine   int64          `json:"end_line"`
	Calls     []results.Call `json:"calls"`
}

// CallsFromResult groups outgoing calls by the calling module.
type CallsFromResult struct {
	results.ModuleGroupResult[CallerFunction]
}

var _ output.Tabler = (*CallsFromResult)(nil)

// callerKey buckets calls by the full calling clause, so two clauses of one
// function stay separate entries.
type callerKey struct {
	name      string
	arity     int64
	kind      string
	startLine int64
	endLine   int64
}

// CallsFrom reports every recorded call out of the functions matching the
// filters. Each callee appears once per calling clause; repeated call sites
// collapse onto the earliest line.
func CallsFrom(ctx context.Context, driver core.Driver, opts CallsOptions) (*CallsFromResult, error) {
	calls, err := findCalls(ctx, driver, directionFrom, opts)
	if err != nil {
		return nil, err
	}

	total, groups := results.GroupCalls(calls, results.CallGrouping[callerKey, CallerFunction]{
		Module: func(c results.Call) string { return c.Caller.Module },
		Key: func(c results.Call) callerKey {
			return callerKey{
				name:      c.Caller.Name,
				arity:     c.Caller.Arity,
				kind:      c.Caller.Kind,
				startLine: c.Caller.StartLine,
				endLine:   c.Caller.EndLine,
			}
		},
		LessKey: func(a, b callerKey) bool {
			if a.name != b.name {
				return a.name < b.name
			}
			if a.arity != b.arity {
				return a.arity < b.arity
			}
			return a.startLine < b.startLine
		},
		Build: func(key callerKey, calls []results.Call) CallerFunction {
			return CallerFunction{
				Name:      key.name,
				Arity:     key.arity,
				Kind:      key.kind,
				StartLine: key.startLine,
				EndLine:   key.endLine,
				Calls:     calls,
			}
		},
		File: func(c results.Call) string { return c.Caller.File },
		Less: func(a, b results.Call) bool {
			if a.Line != b.Line {
				return a.Line < b.Line
			}
			if a.Callee.Module != b.Callee.Module {
				return a.Callee.Module < b.Callee.Module
			}
			if a.Callee.Name != b.Callee.Name {
				return a.Callee.Name < b.Callee.Name
			}
			return a.Callee.Arity < b.Callee.Arity
		},
		Identity: results.Call.CalleeIdentity,
	})

	return &CallsFromResult{results.ModuleGroupResult[CallerFunction]{
		ModulePattern:   opts.Module,
		FunctionPattern: opts.Function,
		TotalItems:      total,
		Items:           groups,
	}}, nil
}

func (r *CallsFromResult) Table() string {
	return output.ModuleTable(output.TableVocab[CallerFunction]{
		Header: func() string {
			if r.FunctionPattern == "" {
				return "Calls from: " + r.ModulePattern
			}
			return fmt.Sprintf("Calls from: %s.%s", r.ModulePattern, r.FunctionPattern)
		},
		Empty:   func() string { return "No calls found." },
		Summary: func(total, _ int) string { return fmt.Sprintf("Found %d call(s):", total) },
		ModuleHeader: func(name, file string, _ []CallerFunction) string {
			if file == "" {
				return name
			}
			return fmt.Sprintf("%s (%s)", name, file)
		},
		Entry: func(entry CallerFunction, _, _ string) string {
			kind := ""
			if entry.Kind != "" {
				kind = fmt.Sprintf(" [%s]", entry.Kind)
			}
			return fmt.Sprintf("%s/%d%s (%d:%d)", entry.Name, entry.Arity, kind, entry.StartLine, entry.EndLine)
		},
		EntryDetails: func(entry CallerFunction, module, file string) []string {
			details := make([]string, len(entry.Calls))
			for i, call := range entry.Calls {
				details[i] = call.DisplayOutgoing(module, file)
			}
			return details
		},
	}, r.Items, r.TotalItems)
}

package queries

import (
	"context"
	"fmt"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/output"
	"github.com/callscope/callscope/results"
)

// CalleeFunction is one called function together with the callers that
// reach it.
type CalleeFunction struct {
	Name    string         `json:"name"`
	Arity   int64          `json:"arity"`
	Callers []results.Call `json:"callers"`
}

// CallsToResult groups incoming calls by the called module.
type CallsToResult struct {
	results.ModuleGroupResult[CalleeFunction]
}

var _ output.Tabler = (*CallsToResult)(nil)

// CallsTo reports every recorded call into the functions matching the
// filters. Each caller appears once per callee, keyed by its identity;
// repeated call sites collapse onto the earliest line.
func CallsTo(ctx context.Context, driver core.Driver, opts CallsOptions) (*CallsToResult, error) {
	calls, err := findCalls(ctx, driver, directionTo, opts)
	if err != nil {
		return nil, err
	}

	total, groups := results.GroupCalls(calls, results.CallGrouping[funcKey, CalleeFunction]{
		Module:  func(c results.Call) string { return c.Callee.Module },
		Key:     func(c results.Call) funcKey { return funcKey{Name: c.Callee.Name, Arity: c.Callee.Arity} },
		LessKey: lessFuncKey,
		Build: func(key funcKey, calls []results.Call) CalleeFunction {
			return CalleeFunction{Name: key.Name, Arity: key.Arity, Callers: calls}
		},
		Less: func(a, b results.Call) bool {
			if a.Caller.Module != b.Caller.Module {
				return a.Caller.Module < b.Caller.Module
			}
			if a.Caller.Name != b.Caller.Name {
				return a.Caller.Name < b.Caller.Name
			}
			if a.Caller.Arity != b.Caller.Arity {
				return a.Caller.Arity < b.Caller.Arity
			}
			return a.Line < b.Line
		},
		Identity: results.Call.CallerIdentity,
	})

	return &CallsToResult{results.ModuleGroupResult[CalleeFunction]{
		ModulePattern:   opts.Module,
		FunctionPattern: opts.Function,
		TotalItems:      total,
		Items:           groups,
	}}, nil
}

func (r *CallsToResult) Table() string {
	return output.ModuleTable(output.TableVocab[CalleeFunction]{
		Header: func() string {
			if r.FunctionPattern == "" {
				return "Calls to: " + r.ModulePattern
			}
			return fmt.Sprintf("Calls to: %s.%s", r.ModulePattern, r.FunctionPattern)
		},
		Empty:   func() string { return "No callers found." },
		Summary: func(total, _ int) string { return fmt.Sprintf("Found %d caller(s):", total) },
		ModuleHeader: func(name, _ string, _ []CalleeFunction) string {
			return name
		},
		Entry: func(entry CalleeFunction, _, _ string) string {
			return fmt.Sprintf("%s/%d", entry.Name, entry.Arity)
		},
		EntryDetails: func(entry CalleeFunction, module, _ string) []string {
			// Callers span files, so the context file stays empty.
			details := make([]string, len(entry.Callers))
			for i, call := range entry.Callers {
				details[i] = call.DisplayIncoming(module, "")
			}
			return details
		},
	}, r.Items, r.TotalItems)
}

package results_test

import (
	"testing"

	"github.com/callscope/callscope/results"
	"github.com/stretchr/testify/require"
)

func call(callerModule, callerName string, callerArity int64, calleeModule, calleeName string, calleeArity, line int64) results.Call {
	return results.Call{
		Caller: results.FuncRef{Module: callerModule, Name: callerName, Arity: callerArity},
		Callee: results.FuncRef{Module: calleeModule, Name: calleeName, Arity: calleeArity},
		Line:   line,
	}
}

type calleeKey struct {
	name  string
	arity int64
}

// calleeGrouping mirrors the callers-of-a-function shape: groups keyed by the
// called module, buckets by the called function, one record per caller.
func calleeGrouping() results.CallGrouping[calleeKey, []results.Call] {
	return results.CallGrouping[calleeKey, []results.Call]{
		Module:  func(c results.Call) string { return c.Callee.Module },
		Key:     func(c results.Call) calleeKey { return calleeKey{name: c.Callee.Name, arity: c.Callee.Arity} },
		LessKey: func(a, b calleeKey) bool { return a.name < b.name || (a.name == b.name && a.arity < b.arity) },
		Build:   func(_ calleeKey, calls []results.Call) []results.Call { return calls },
		Less: func(a, b results.Call) bool {
			if a.Caller.Module != b.Caller.Module {
				return a.Caller.Module < b.Caller.Module
			}
			return a.Line < b.Line
		},
		Identity: results.Call.CallerIdentity,
	}
}

func TestGroupCalls(t *testing.T) {
	r := require.New(t)

	calls := []results.Call{
		call("MyApp.Web", "show", 2, "MyApp.Repo", "get", 2, 30),
		call("MyApp.Accounts", "get_user", 1, "MyApp.Repo", "get", 2, 12),
		call("MyApp.Accounts", "list_users", 0, "MyApp.Repo", "all", 1, 22),
	}

	total, groups := results.GroupCalls(calls, calleeGrouping())

	r.Equal(3, total)
	r.Len(groups, 1)
	r.Equal("MyApp.Repo", groups[0].Name)
	r.Len(groups[0].Entries, 2)

	// buckets in key order, callers in module order
	r.Equal([]results.Call{
		call("MyApp.Accounts", "list_users", 0, "MyApp.Repo", "all", 1, 22),
	}, groups[0].Entries[0])
	r.Equal([]results.Call{
		call("MyApp.Accounts", "get_user", 1, "MyApp.Repo", "get", 2, 12),
		call("MyApp.Web", "show", 2, "MyApp.Repo", "get", 2, 30),
	}, groups[0].Entries[1])
}

func TestGroupCalls_DedupKeepsFirstRanked(t *testing.T) {
	r := require.New(t)

	// the same caller hits get/2 three times; only the lowest line survives
	calls := []results.Call{
		call("MyApp.Accounts", "get_user", 1, "MyApp.Repo", "get", 2, 40),
		call("MyApp.Accounts", "get_user", 1, "MyApp.Repo", "get", 2, 12),
		call("MyApp.Accounts", "get_user", 1, "MyApp.Repo", "get", 2, 25),
		call("MyApp.Web", "show", 2, "MyApp.Repo", "get", 2, 30),
	}

	total, groups := results.GroupCalls(calls, calleeGrouping())

	r.Equal(2, total)
	r.Len(groups, 1)
	r.Equal([]results.Call{
		call("MyApp.Accounts", "get_user", 1, "MyApp.Repo", "get", 2, 12),
		call("MyApp.Web", "show", 2, "MyApp.Repo", "get", 2, 30),
	}, groups[0].Entries[0])
}

func TestGroupCalls_ModulesSorted(t *testing.T) {
	r := require.New(t)

	calls := []results.Call{
		call("A", "f", 0, "Zoo", "z", 0, 1),
		call("A", "f", 0, "Bar", "b", 0, 2),
		call("A", "f", 0, "Mid", "m", 0, 3),
	}

	_, groups := results.GroupCalls(calls, calleeGrouping())

	r.Len(groups, 3)
	r.Equal("Bar", groups[0].Name)
	r.Equal("Mid", groups[1].Name)
	r.Equal("Zoo", groups[2].Name)
}

func TestGroupCalls_FileUnanimity(t *testing.T) {
	r := require.New(t)

	grouping := calleeGrouping()
	grouping.Module = func(c results.Call) string { return c.Caller.Module }
	grouping.File = func(c results.Call) string { return c.Caller.File }

	agreed := call("MyApp.Accounts", "get_user", 1, "MyApp.Repo", "get", 2, 12)
	agreed.Caller.File = "lib/my_app/accounts.ex"
	alsoAgreed := call("MyApp.Accounts", "list_users", 0, "MyApp.Repo", "all", 1, 22)
	alsoAgreed.Caller.File = "lib/my_app/accounts.ex"

	_, groups := results.GroupCalls([]results.Call{agreed, alsoAgreed}, grouping)
	r.Len(groups, 1)
	r.Equal("lib/my_app/accounts.ex", groups[0].File)

	disagreed := alsoAgreed
	disagreed.Caller.File = "lib/my_app/accounts/queries.ex"

	_, groups = results.GroupCalls([]results.Call{agreed, disagreed}, grouping)
	r.Len(groups, 1)
	r.Equal("", groups[0].File)
}

func TestGroupCalls_NoHooksKeepsInputOrder(t *testing.T) {
	r := require.New(t)

	grouping := calleeGrouping()
	grouping.Less = nil
	grouping.Identity = nil

	calls := []results.Call{
		call("MyApp.Web", "show", 2, "MyApp.Repo", "get", 2, 30),
		call("MyApp.Accounts", "get_user", 1, "MyApp.Repo", "get", 2, 12),
		call("MyApp.Accounts", "get_user", 1, "MyApp.Repo", "get", 2, 12),
	}

	total, groups := results.GroupCalls(calls, grouping)

	r.Equal(3, total)
	r.Equal(calls, groups[0].Entries[0])
}

func TestGroupCalls_Empty(t *testing.T) {
	r := require.New(t)

	total, groups := results.GroupCalls(nil, calleeGrouping())

	r.Zero(total)
	r.NotNil(groups)
	r.Empty(groups)
}

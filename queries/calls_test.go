//go:build (darwin && (amd64 || arm64)) || (freebsd && (386 || amd64 || arm || arm64)) || (linux && (386 || amd64 || arm || arm64 || ppc64le || riscv64 || s390x)) || (netbsd && amd64) || (openbsd && (amd64 || arm64)) || (windows && (amd64 || arm64))

package queries_test

import (
	"context"
	"testing"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/queries"
	"github.com/stretchr/testify/require"
)

func callsOptions(module, function string) queries.CallsOptions {
	return queries.CallsOptions{
		Module:   module,
		Function: function,
		Arity:    -1,
		Project:  "default",
		Mode:     core.MatchSubstring,
		Limit:    queries.DefaultLimit,
	}
}

func TestCallsToModule(t *testing.T) {
	r := require.New(t)
	driver := dialSeeded(t)

	result, err := queries.CallsTo(context.Background(), driver, callsOptions("MyApp.Accounts", ""))
	r.NoError(err)

	r.Equal(3, result.TotalItems)
	r.Len(result.Items, 1)

	group := result.Items[0]
	r.Equal("MyApp.Accounts", group.Name)
	r.Len(group.Entries, 2)

	createUser := group.Entries[0]
	r.Equal("create_user", createUser.Name)
	r.Equal(int64(2), createUser.Arity)
	r.Len(createUser.Callers, 1)
	r.Equal("MyApp.Users", createUser.Callers[0].Caller.Module)
	r.Equal("fetch", createUser.Callers[0].Caller.Name)
	r.Equal(int64(8), createUser.Callers[0].Line)

	getUser := group.Entries[1]
	r.Equal("get_user", getUser.Name)
	r.Len(getUser.Callers, 2)
	r.Equal("create_user", getUser.Callers[0].Caller.Name)
	r.Equal("local", getUser.Callers[0].CallType)
	r.Equal("fetch", getUser.Callers[1].Caller.Name)

	r.Equal(`Calls to: MyApp.Accounts

Found 3 caller(s):

MyApp.Accounts
  create_user/2
    ← @ L8 MyApp.Users.fetch/1 [def] (users.ex:L5:9)
  get_user/1
    ← @ L22 create_user/2 [def] (accounts.ex:L20:30)
    ← @ L7 MyApp.Users.fetch/1 [def] (users.ex:L5:9)`, result.Table())
}

func TestCallsToFunction(t *testing.T) {
	r := require.New(t)
	driver := dialSeeded(t)

	result, err := queries.CallsTo(context.Background(), driver, callsOptions("MyApp.Repo", "get"))
	r.NoError(err)

	r.Equal(1, result.TotalItems)
	r.Equal(`Calls to: MyApp.Repo.get

Found 1 caller(s):

MyApp.Repo
  get/2
    ← @ L12 MyApp.Accounts.get_user/1 [def] (accounts.ex:L10:15)`, result.Table())
}

func TestCallsToArityFilter(t *testing.T) {
	r := require.New(t)
	driver := dialSeeded(t)

	opts := callsOptions("MyApp.Accounts", "")
	opts.Arity = 1

	result, err := queries.CallsTo(context.Background(), driver, opts)
	r.NoError(err)

	r.Equal(2, result.TotalItems)
	r.Len(result.Items, 1)
	r.Len(result.Items[0].Entries, 1)
	r.Equal("get_user", result.Items[0].Entries[0].Name)
}

func TestCallsToExactMode(t *testing.T) {
	r := require.New(t)
	driver := dialSeeded(t)

	opts := callsOptions("MyApp", "")
	opts.Mode = core.MatchExact

	result, err := queries.CallsTo(context.Background(), driver, opts)
	r.NoError(err)
	r.Equal(0, result.TotalItems)
	r.Empty(result.Items)

	opts.Module = "MyApp.Repo"
	result, err = queries.CallsTo(context.Background(), driver, opts)
	r.NoError(err)
	r.Equal(1, result.TotalItems)
}

func TestCallsToEmpty(t *testing.T) {
	r := require.New(t)
	driver := dialSeeded(t)

	result, err := queries.CallsTo(context.Background(), driver, callsOptions("MyApp.Repo", "missing"))
	r.NoError(err)

	r.Equal(0, result.TotalItems)
	r.Equal(`Calls to: MyApp.Repo.missing

No callers found.`, result.Table())
}

func TestCallsFromModule(t *testing.T) {
	r := require.New(t)
	driver := dialSeeded(t)

	result, err := queries.CallsFrom(context.Background(), driver, callsOptions("MyApp.Accounts", ""))
	r.NoError(err)

	r.Equal(3, result.TotalItems)
	r.Len(result.Items, 1)

	group := result.Items[0]
	r.Equal("MyApp.Accounts", group.Name)
	r.Equal("lib/my_app/accounts.ex", group.File)
	r.Len(group.Entries, 2)

	createUser := group.Entries[0]
	r.Equal("create_user", createUser.Name)
	r.Equal("def", createUser.Kind)
	r.Equal(int64(20), createUser.StartLine)
	r.Equal(int64(30), createUser.EndLine)
	r.Len(createUser.Calls, 2)

	r.Equal(`Calls from: MyApp.Accounts

Found 3 call(s):

MyApp.Accounts (lib/my_app/accounts.ex)
  create_user/2 [def] (20:30)
    → @ L22 get_user/1
    → @ L25 MyApp.Users.fetch/1
  get_user/1 [def] (10:15)
    → @ L12 MyApp.Repo.get/2`, result.Table())
}

func TestCallsFromDeduplicatesRepeatedSites(t *testing.T) {
	r := require.New(t)
	driver := dialSeeded(t)

	result, err := queries.CallsFrom(context.Background(), driver, callsOptions("MyApp.Users", ""))
	r.NoError(err)

	// fetch/1 calls get_user on lines 7 and 9; only the first survives.
	r.Equal(2, result.TotalItems)
	r.Len(result.Items, 1)
	r.Len(result.Items[0].Entries, 1)

	fetch := result.Items[0].Entries[0]
	r.Equal("fetch", fetch.Name)
	r.Len(fetch.Calls, 2)
	r.Equal(int64(7), fetch.Calls[0].Line)
	r.Equal("get_user", fetch.Calls[0].Callee.Name)
	r.Equal(int64(8), fetch.Calls[1].Line)
	r.Equal("create_user", fetch.Calls[1].Callee.Name)

	for _, call := range fetch.Calls {
		r.False(call.IsStructCall())
	}
}

func TestCallsFromLimit(t *testing.T) {
	r := require.New(t)
	driver := dialSeeded(t)

	opts := callsOptions("MyApp.Accounts", "")
	opts.Limit = 2

	result, err := queries.CallsFrom(context.Background(), driver, opts)
	r.NoError(err)

	r.Equal(2, result.TotalItems)
	r.Len(result.Items, 1)
	r.Len(result.Items[0].Entries, 1)
	r.Equal("create_user", result.Items[0].Entries[0].Name)
}

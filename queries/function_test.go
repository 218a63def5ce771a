//go:build (darwin && (amd64 || arm64)) || (freebsd && (386 || amd64 || arm || arm64)) || (linux && (386 || amd64 || arm || arm64 || ppc64le || riscv64 || s390x)) || (netbsd && amd64) || (openbsd && (amd64 || arm64)) || (windows && (amd64 || arm64))

package queries_test

import (
	"context"
	"testing"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/queries"
	"github.com/stretchr/testify/require"
)

func functionOptions(module, function string) queries.FunctionOptions {
	return queries.FunctionOptions{
		Module:   module,
		Function: function,
		Arity:    -1,
		Project:  "default",
		Mode:     core.MatchSubstring,
		Limit:    queries.DefaultLimit,
	}
}

func TestFunction(t *testing.T) {
	r := require.New(t)
	driver := dialSeeded(t)

	result, err := queries.Function(context.Background(), driver, functionOptions("MyApp.Accounts", "create"))
	r.NoError(err)

	r.Equal(1, result.TotalItems)
	r.Len(result.Items, 1)

	sig := result.Items[0].Entries[0]
	r.Equal("create_user", sig.Name)
	r.Equal(int64(2), sig.Arity)
	r.Equal("attrs :: map(), opts :: keyword()", sig.Args)

	r.Equal(`Function: MyApp.Accounts.create

Found 1 signature(s) in 1 module(s):

MyApp.Accounts:
  create_user/2
    args: attrs :: map(), opts :: keyword()
    returns: {:ok, User.t()} | {:error, Ecto.Changeset.t()}`, result.Table())
}

func TestFunctionArityFilter(t *testing.T) {
	r := require.New(t)
	driver := dialSeeded(t)

	opts := functionOptions("MyApp.Accounts", "")
	opts.Arity = 1

	result, err := queries.Function(context.Background(), driver, opts)
	r.NoError(err)

	r.Equal(1, result.TotalItems)
	r.Equal("get_user", result.Items[0].Entries[0].Name)

	opts.Arity = -1
	result, err = queries.Function(context.Background(), driver, opts)
	r.NoError(err)
	r.Equal(2, result.TotalItems)
}

func TestFunctionWithoutSignatureDetails(t *testing.T) {
	r := require.New(t)
	driver := dialSeeded(t)

	opts := functionOptions("MyApp.Users", "fetch")
	opts.Mode = core.MatchExact

	result, err := queries.Function(context.Background(), driver, opts)
	r.NoError(err)

	// fetch carries no spec, so the entry renders without detail lines.
	r.Equal(`Function: MyApp.Users.fetch

Found 1 signature(s) in 1 module(s):

MyApp.Users:
  fetch/1`, result.Table())
}

func TestFunctionEmpty(t *testing.T) {
	r := require.New(t)
	driver := dialSeeded(t)

	result, err := queries.Function(context.Background(), driver, functionOptions("MyApp.Accounts", "delete"))
	r.NoError(err)

	r.Equal(0, result.TotalItems)
	r.Equal(`Function: MyApp.Accounts.delete

No functions found.`, result.Table())
}

//go:build (darwin && (amd64 || arm64)) || (freebsd && (386 || amd64 || arm || arm64)) || (linux && (386 || amd64 || arm || arm64 || ppc64le || riscv64 || s390x)) || (netbsd && amd64) || (openbsd && (amd64 || arm64)) || (windows && (amd64 || arm64))

package queries_test

import (
	"context"
	"testing"

	"github.com/callscope/callscope/adapters"
	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/schema"
	"github.com/stretchr/testify/require"
)

// One small project: a duplicate pair across modules, a generated twin
// sharing a hash, two uncalled definitions, a decorated clause head, a
// struct construction and a module-level call. Enough to drive every query.
var seedStatements = []string{
	`INSERT INTO modules (project, name, file, source) VALUES
		('default', 'MyApp.Accounts', 'lib/my_app/accounts.ex', 'git'),
		('default', 'MyApp.Repo', 'lib/my_app/repo.ex', 'git'),
		('default', 'MyApp.Users', 'lib/my_app/users.ex', 'git')`,

	`INSERT INTO functions (project, module, name, arity, return_type, args, source) VALUES
		('default', 'MyApp.Accounts', 'get_user', 1, 'User.t() | nil', 'id :: integer()', 'spec'),
		('default', 'MyApp.Accounts', 'create_user', 2, '{:ok, User.t()} | {:error, Ecto.Changeset.t()}', 'attrs :: map(), opts :: keyword()', 'spec'),
		('default', 'MyApp.Users', 'fetch', 1, '', '', 'unknown')`,

	`INSERT INTO function_locations (project, module, name, arity, line, file, "column", kind, start_line, end_line, source_sha, ast_sha, complexity, generated_by) VALUES
		('default', 'MyApp.Accounts', 'get_user', 1, 10, 'lib/my_app/accounts.ex', 3, 'def', 10, 15, 'src-1', 'aaaa', 2, ''),
		('default', 'MyApp.Accounts', 'create_user', 2, 20, 'lib/my_app/accounts.ex', 3, 'def', 20, 30, 'dup-src', 'bbbb', 4, ''),
		('default', 'MyApp.Users', 'fetch', 1, 5, 'lib/my_app/users.ex', 3, 'def', 5, 9, 'dup-src', 'cccc', 1, ''),
		('default', 'MyApp.Users', 'unused_helper', 0, 40, 'lib/my_app/users.ex', 3, 'defp', 40, 42, 'src-4', 'gggg', 1, ''),
		('default', 'MyApp.Users', 'unused_helper', 0, 45, 'lib/my_app/users.ex', 3, 'defp', 45, 47, 'src-7', 'hhhh', 2, ''),
		('default', 'MyApp.Users', '__struct__', 1, 1, 'lib/my_app/users.ex', 1, 'def', 1, 1, 'src-5', 'gggg', 1, 'defstruct'),
		('default', 'MyApp.Repo', 'get', 2, 8, 'lib/my_app/repo.ex', 3, 'def', 8, 12, 'src-6', 'aaaa', 3, '')`,

	`INSERT INTO calls (project, caller_module, caller_function, callee_module, callee_function, callee_arity, file, line, "column", call_type, caller_kind) VALUES
		('default', 'MyApp.Users', 'fetch', 'MyApp.Accounts', 'get_user', 1, 'lib/my_app/users.ex', 7, 5, 'remote', 'def'),
		('default', 'MyApp.Users', 'fetch', 'MyApp.Accounts', 'get_user', 1, 'lib/my_app/users.ex', 9, 5, 'remote', 'def'),
		('default', 'MyApp.Users', 'fetch', 'MyApp.Accounts', 'create_user', 2, 'lib/my_app/users.ex', 8, 5, 'remote', 'def'),
		('default', 'MyApp.Accounts', 'get_user', 'MyApp.Repo', 'get', 2, 'lib/my_app/accounts.ex', 12, 5, 'remote', 'def'),
		('default', 'MyApp.Accounts', 'create_user(attrs, opts)', 'MyApp.Accounts', 'get_user', 1, 'lib/my_app/accounts.ex', 22, 5, 'local', 'def'),
		('default', 'MyApp.Accounts', 'create_user', 'MyApp.Users', 'fetch', 1, 'lib/my_app/accounts.ex', 25, 5, 'remote', 'def'),
		('default', 'MyApp.Users', 'fetch', 'MyApp.Accounts', '%', 0, 'lib/my_app/users.ex', 6, 5, 'struct', 'def'),
		('default', 'MyApp.Users', '<module>', 'MyApp.Repo', 'config', 0, 'lib/my_app/users.ex', 0, 0, 'remote', '')`,

	`INSERT INTO specs (project, module, name, arity, kind, line, inputs_string, return_string, "full") VALUES
		('default', 'MyApp.Accounts', 'get_user', 1, 'spec', 9, 'id :: integer()', 'User.t() | nil', '@spec get_user(id :: integer()) :: User.t() | nil'),
		('default', 'MyApp.Accounts', 'create_user', 2, 'spec', 19, 'attrs :: map(), opts :: keyword()', '{:ok, User.t()} | {:error, Ecto.Changeset.t()}', '@spec create_user(map(), keyword()) :: {:ok, User.t()} | {:error, Ecto.Changeset.t()}')`,

	`INSERT INTO types (project, module, name, kind, params, line, definition) VALUES
		('default', 'MyApp.Accounts', 't', 'type', '', 5, '%MyApp.Accounts{}')`,

	`INSERT INTO struct_fields (project, module, field, default_value, required, inferred_type) VALUES
		('default', 'MyApp.Users', 'name', '', 1, 'String.t()'),
		('default', 'MyApp.Users', 'age', '0', 0, 'integer()')`,
}

func dialMemory(t *testing.T) core.Driver {
	t.Helper()

	driver, err := adapters.Dial("memory", "")
	require.NoError(t, err)
	t.Cleanup(func() { driver.Close() })

	return driver
}

func dialSeeded(t *testing.T) core.Driver {
	t.Helper()

	driver := dialMemory(t)
	ctx := context.Background()

	_, err := schema.EnsureAll(ctx, driver)
	require.NoError(t, err)

	for _, stmt := range seedStatements {
		_, err := driver.ExecuteNoParams(ctx, stmt)
		require.NoError(t, err)
	}

	return driver
}

//go:build (darwin && (amd64 || arm64)) || (freebsd && (386 || amd64 || arm || arm64)) || (linux && (386 || amd64 || arm || arm64 || ppc64le || riscv64 || s390x)) || (netbsd && amd64) || (openbsd && (amd64 || arm64)) || (windows && (amd64 || arm64))

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/callscope/callscope/adapters"
	"github.com/callscope/callscope/config"
	"github.com/callscope/callscope/core"
)

const cliGraphJSON = `{
	"function_locations": {
		"MyApp.Accounts": {
			"get_user/1:10": {
				"name": "get_user", "arity": 1, "file": "lib/my_app/accounts.ex",
				"column": 3, "kind": "def", "line": 10, "start_line": 10, "end_line": 15,
				"source_sha": "src-1", "ast_sha": "aaaa", "complexity": 2
			}
		},
		"MyApp.User": {
			"__struct__/1:1": {
				"name": "__struct__", "arity": 1, "file": "lib/my_app/user.ex",
				"kind": "def", "line": 1, "start_line": 1, "end_line": 1,
				"generated_by": "defstruct"
			}
		}
	},
	"calls": [
		{
			"caller": {"module": "MyApp.Accounts", "function": "get_user/1", "file": "lib/my_app/accounts.ex", "line": 12, "column": 5, "kind": "def"},
			"callee": {"module": "MyApp.Repo", "function": "get", "arity": 2, "args": "User, id"},
			"type": "remote"
		}
	],
	"specs": {
		"MyApp.Accounts": [
			{
				"name": "get_user", "arity": 1, "line": 9, "kind": "spec",
				"clauses": [{
					"full": "@spec get_user(integer()) :: User.t() | nil",
					"input_strings": ["integer()"],
					"return_strings": ["User.t()", "nil"]
				}]
			}
		]
	}
}`

// runCLI executes one invocation against a file store under dir, so
// consecutive calls in a test share state the way consecutive processes do.
func runCLI(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	a := newApp(&out, &errOut)
	a.loader = config.Loader{
		Dir: dir,
		Lookup: func(name string) (string, bool) {
			switch name {
			case "CALLSCOPE_ENGINE":
				return "sqlite", true
			case "CALLSCOPE_PATH":
				return filepath.Join(dir, "store.db"), true
			}
			return "", false
		},
	}

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)

	err := root.Execute()

	return out.String(), errOut.String(), err
}

func writeGraph(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(cliGraphJSON), 0o644))

	return path
}

func TestRootHelpListsCommands(t *testing.T) {
	r := require.New(t)

	out, _, err := runCLI(t, t.TempDir())
	r.NoError(err)

	for _, name := range []string{
		"setup", "import", "calls-to", "calls-from", "depends-on",
		"depended-by", "unused", "search", "function", "duplicates", "stats",
	} {
		r.Contains(out, name)
	}
}

func TestSetupCommand(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()

	out, _, err := runCLI(t, dir, "setup")
	r.NoError(err)
	r.Contains(out, "Storage setup")
	r.Contains(out, "created")
	r.Contains(out, "New relations were created.")

	out, _, err = runCLI(t, dir, "setup")
	r.NoError(err)
	r.Contains(out, "exists")
	r.Contains(out, "All relations already existed.")
}

func TestImportThenQuery(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	path := writeGraph(t, dir)

	out, logs, err := runCLI(t, dir, "import", path)
	r.NoError(err)
	r.Contains(out, "Import Summary:")
	r.Contains(out, "Modules: 2")
	r.Contains(out, "Created Schemas:")
	r.Contains(logs, "run_id=")
	r.Contains(logs, "import complete")

	out, _, err = runCLI(t, dir, "calls-to", "MyApp.Repo", "get")
	r.NoError(err)
	r.Contains(out, "Calls to: MyApp.Repo.get")
	r.Contains(out, "MyApp.Accounts.get_user/1")
}

func TestStatsJSONFormat(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	path := writeGraph(t, dir)

	_, _, err := runCLI(t, dir, "import", path)
	r.NoError(err)

	out, _, err := runCLI(t, dir, "-o", "json", "stats")
	r.NoError(err)
	r.True(json.Valid([]byte(out)))
	r.Contains(out, `"relations"`)
	r.Contains(out, `"avg_complexity"`)
}

func TestSearchCompactFormat(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()

	_, _, err := runCLI(t, dir, "setup")
	r.NoError(err)

	out, _, err := runCLI(t, dir, "-o", "compact", "search", "Nothing")
	r.NoError(err)
	r.Contains(out, "pattern: Nothing")
	r.Contains(out, "modules[0]:")
}

func TestProjectFlagScopesQueries(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	path := writeGraph(t, dir)

	_, _, err := runCLI(t, dir, "import", "--project", "alpha", path)
	r.NoError(err)

	out, _, err := runCLI(t, dir, "search", "MyApp")
	r.NoError(err)
	r.Contains(out, "No results found.")

	out, _, err = runCLI(t, dir, "search", "--project", "alpha", "MyApp")
	r.NoError(err)
	r.Contains(out, "Modules (2):")
}

func TestExactFlag(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	path := writeGraph(t, dir)

	_, _, err := runCLI(t, dir, "import", path)
	r.NoError(err)

	out, _, err := runCLI(t, dir, "search", "--exact", "MyApp")
	r.NoError(err)
	r.Contains(out, "No results found.")

	out, _, err = runCLI(t, dir, "search", "--exact", "MyApp.User")
	r.NoError(err)
	r.Contains(out, "Modules (1):")
}

func TestDBFlagOverridesLocation(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	alt := filepath.Join(dir, "elsewhere", "alt.db")

	_, _, err := runCLI(t, dir, "--db", alt, "setup")
	r.NoError(err)

	_, err = os.Stat(alt)
	r.NoError(err)
}

func TestUnknownFormatFlag(t *testing.T) {
	r := require.New(t)

	_, _, err := runCLI(t, t.TempDir(), "-o", "yaml", "stats")
	r.Error(err)
	r.Contains(err.Error(), "unknown output format")
}

func TestUnusedConflictingVisibilityFlags(t *testing.T) {
	r := require.New(t)

	_, _, err := runCLI(t, t.TempDir(), "unused", "--private-only", "--public-only")
	r.Error(err)
}

func TestQueryAgainstEmptyStore(t *testing.T) {
	r := require.New(t)

	_, _, err := runCLI(t, t.TempDir(), "calls-to", "Nope")
	r.Error(err)

	var empty *core.EmptyStoreError
	r.True(errors.As(err, &empty))
	r.Contains(describe(err), `Run "callscope setup"`)
}

func TestDescribeUnknownEngine(t *testing.T) {
	r := require.New(t)

	msg := describe(fmt.Errorf("dial: %w", adapters.ErrUnsupportedEngine))
	r.Contains(msg, "Available engines:")
}

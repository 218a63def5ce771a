package builders_test

import (
	"testing"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/core/builders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindNamed(t *testing.T) {
	params := core.NewParams().
		SetString("project", "default").
		SetString("pattern", "%get%").
		SetInt("limit", 50)

	tests := []struct {
		name      string
		give      string
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "single reference",
			give:      "SELECT * FROM calls WHERE project = $project",
			wantQuery: "SELECT * FROM calls WHERE project = ?",
			wantArgs:  []any{"default"},
		},
		{
			name:      "references collected in order",
			give:      "WHERE project = $project AND name LIKE $pattern LIMIT $limit",
			wantQuery: "WHERE project = ? AND name LIKE ? LIMIT ?",
			wantArgs:  []any{"default", "%get%", int64(50)},
		},
		{
			name:      "repeated reference binds twice",
			give:      "WHERE caller = $project OR callee = $project",
			wantQuery: "WHERE caller = ? OR callee = ?",
			wantArgs:  []any{"default", "default"},
		},
		{
			name:      "unreferenced bindings are allowed",
			give:      "SELECT * FROM calls",
			wantQuery: "SELECT * FROM calls",
			wantArgs:  nil,
		},
		{
			name:      "string literal left untouched",
			give:      "SELECT '$project' FROM calls WHERE project = $project",
			wantQuery: "SELECT '$project' FROM calls WHERE project = ?",
			wantArgs:  []any{"default"},
		},
		{
			name:      "doubled quote stays inside the literal",
			give:      "SELECT 'it''s $project' FROM calls WHERE project = $project",
			wantQuery: "SELECT 'it''s $project' FROM calls WHERE project = ?",
			wantArgs:  []any{"default"},
		},
		{
			name:      "quoted identifier left untouched",
			give:      `SELECT "$project" FROM calls`,
			wantQuery: `SELECT "$project" FROM calls`,
			wantArgs:  nil,
		},
		{
			name:      "dollar without a name passes through",
			give:      "SELECT cost_usd * 1 AS $1, '$'",
			wantQuery: "SELECT cost_usd * 1 AS $1, '$'",
			wantArgs:  nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotQuery, gotArgs, err := builders.BindNamed(tt.give, params)

			require.NoError(t, err)
			assert.Equal(t, tt.wantQuery, gotQuery)
			assert.Equal(t, tt.wantArgs, gotArgs)
		})
	}
}

func TestBindNamed_MissingParameter(t *testing.T) {
	r := require.New(t)

	_, _, err := builders.BindNamed(
		"SELECT * FROM calls WHERE project = $project",
		core.NewParams().SetString("projekt", "default"),
	)

	var missing *core.MissingParameterError
	r.ErrorAs(err, &missing)
	r.Equal("project", missing.Name)
}

func TestBindNamed_NilParams(t *testing.T) {
	r := require.New(t)

	gotQuery, gotArgs, err := builders.BindNamed("SELECT count(*) FROM calls", nil)

	r.NoError(err)
	r.Equal("SELECT count(*) FROM calls", gotQuery)
	r.Nil(gotArgs)
}

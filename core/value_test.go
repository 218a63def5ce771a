package core_test

import (
	"errors"
	"testing"

	"github.com/callscope/callscope/core"
	"github.com/stretchr/testify/require"
)

func TestValue_TagExclusivity(t *testing.T) {
	r := require.New(t)

	v := core.NewString("hello")

	s, ok := v.AsString()
	r.True(ok)
	r.Equal("hello", s)

	_, ok = v.AsInt()
	r.False(ok)
	_, ok = v.AsFloat()
	r.False(ok)
	_, ok = v.AsBool()
	r.False(ok)
	_, ok = v.AsList()
	r.False(ok)
	r.False(v.IsNull())
}

func TestValue_Kinds(t *testing.T) {
	tests := []struct {
		give     core.Value
		wantKind core.Kind
		wantName string
	}{
		{core.Null(), core.KindNull, "null"},
		{core.NewString("x"), core.KindString, "string"},
		{core.NewInt(42), core.KindInt, "int"},
		{core.NewFloat(3.5), core.KindFloat, "float"},
		{core.NewBool(true), core.KindBool, "bool"},
		{core.NewList([]core.Value{core.NewInt(1)}), core.KindList, "list"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			r := require.New(t)
			r.Equal(tt.wantKind, tt.give.Kind())
			r.Equal(tt.wantName, tt.give.TypeName())
		})
	}
}

func TestValue_IntNotCoercedToFloat(t *testing.T) {
	r := require.New(t)

	v := core.NewInt(7)
	_, ok := v.AsFloat()
	r.False(ok)

	f := core.NewFloat(7)
	_, ok = f.AsInt()
	r.False(ok)
}

func TestRow_Get(t *testing.T) {
	r := require.New(t)

	row := core.Row{core.NewString("a"), core.NewInt(1)}

	v, err := row.Get(0)
	r.NoError(err)
	r.Equal(core.KindString, v.Kind())

	v, err = row.Get(1)
	r.NoError(err)
	r.Equal(core.KindInt, v.Kind())

	_, err = row.Get(2)
	r.Error(err)
	_, err = row.Get(-1)
	r.Error(err)
}

func TestExtract_Strict(t *testing.T) {
	r := require.New(t)

	s, err := core.String(core.NewString("ok"))
	r.NoError(err)
	r.Equal("ok", s)

	_, err = core.Int(core.NewString("ok"))
	var mismatch *core.TypeMismatchError
	r.True(errors.As(err, &mismatch))
	r.Equal("int", mismatch.Expected)
	r.Equal("string", mismatch.Actual)

	_, err = core.Float(core.NewString("ok"))
	r.True(errors.As(err, &mismatch))
	_, err = core.Bool(core.NewString("ok"))
	r.True(errors.As(err, &mismatch))

	i, err := core.Int(core.NewInt(99))
	r.NoError(err)
	r.Equal(int64(99), i)

	f, err := core.Float(core.NewFloat(1.25))
	r.NoError(err)
	r.Equal(1.25, f)

	b, err := core.Bool(core.NewBool(true))
	r.NoError(err)
	r.True(b)

	l, err := core.List(core.NewList([]core.Value{core.NewInt(1), core.NewInt(2)}))
	r.NoError(err)
	r.Len(l, 2)
}

func TestExtract_Defaulting(t *testing.T) {
	r := require.New(t)

	r.Equal("fallback", core.StringOr(core.NewInt(1), "fallback"))
	r.Equal("value", core.StringOr(core.NewString("value"), "fallback"))

	r.Equal(int64(-1), core.IntOr(core.Null(), -1))
	r.Equal(int64(5), core.IntOr(core.NewInt(5), -1))

	r.Equal(2.5, core.FloatOr(core.NewString("2.5"), 2.5))
	r.True(core.BoolOr(core.Null(), true))
	r.False(core.BoolOr(core.NewBool(false), true))
}

func TestParams_LastWriteWins(t *testing.T) {
	r := require.New(t)

	p := core.NewParams().
		SetString("name", "first").
		SetInt("arity", 2).
		SetString("name", "second")

	r.Equal(2, p.Len())

	v, ok := p.Get("name")
	r.True(ok)
	s, _ := v.AsString()
	r.Equal("second", s)

	_, ok = p.Get("missing")
	r.False(ok)
}

func TestParams_NilSafe(t *testing.T) {
	r := require.New(t)

	var p *core.Params
	_, ok := p.Get("anything")
	r.False(ok)
	r.Equal(0, p.Len())
}

func TestHeaderIndex(t *testing.T) {
	r := require.New(t)

	ix := core.IndexHeader(core.Header{"module", "name", "arity"})

	i, err := ix.Require("name")
	r.NoError(err)
	r.Equal(1, i)

	_, err = ix.Require("file")
	r.ErrorContains(err, `"file"`)

	i, ok := ix.Lookup("arity")
	r.True(ok)
	r.Equal(2, i)
	_, ok = ix.Lookup("line")
	r.False(ok)
}

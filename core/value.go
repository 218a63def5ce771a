package core

// Kind is the tag of a Value. The tag is assigned by the storage adapter
// when a row is materialized and never changes afterwards.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is one tagged scalar or list produced by a query. Accessors report
// a mismatched tag instead of coercing.
type Value struct {
	kind    Kind
	str     string
	integer int64
	float   float64
	boolean bool
	list    []Value
}

func Null() Value { return Value{kind: KindNull} }

func NewString(s string) Value { return Value{kind: KindString, str: s} }

func NewInt(i int64) Value { return Value{kind: KindInt, integer: i} }

func NewFloat(f float64) Value { return Value{kind: KindFloat, float: f} }

func NewBool(b bool) Value { return Value{kind: KindBool, boolean: b} }

func NewList(vals []Value) Value { return Value{kind: KindList, list: vals} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// TypeName is the tag name used in mismatch reports.
func (v Value) TypeName() string { return v.kind.String() }

func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.integer, true
}

func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.float, true
}

func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.boolean, true
}

func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

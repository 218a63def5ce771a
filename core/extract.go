package core

// Typed extraction over Value. The strict forms fail with TypeMismatchError
// on a foreign tag; the Or forms fall back to a default instead. Neither
// ever converts between tags.

func String(v Value) (string, error) {
	s, ok := v.AsString()
	if !ok {
		return "", &TypeMismatchError{Expected: "string", Actual: v.TypeName()}
	}
	return s, nil
}

func Int(v Value) (int64, error) {
	i, ok := v.AsInt()
	if !ok {
		return 0, &TypeMismatchError{Expected: "int", Actual: v.TypeName()}
	}
	return i, nil
}

func Float(v Value) (float64, error) {
	f, ok := v.AsFloat()
	if !ok {
		return 0, &TypeMismatchError{Expected: "float", Actual: v.TypeName()}
	}
	return f, nil
}

func Bool(v Value) (bool, error) {
	b, ok := v.AsBool()
	if !ok {
		return false, &TypeMismatchError{Expected: "bool", Actual: v.TypeName()}
	}
	return b, nil
}

func List(v Value) ([]Value, error) {
	l, ok := v.AsList()
	if !ok {
		return nil, &TypeMismatchError{Expected: "list", Actual: v.TypeName()}
	}
	return l, nil
}

func StringOr(v Value, def string) string {
	if s, ok := v.AsString(); ok {
		return s
	}
	return def
}

func IntOr(v Value, def int64) int64 {
	if i, ok := v.AsInt(); ok {
		return i
	}
	return def
}

func FloatOr(v Value, def float64) float64 {
	if f, ok := v.AsFloat(); ok {
		return f
	}
	return def
}

func BoolOr(v Value, def bool) bool {
	if b, ok := v.AsBool(); ok {
		return b
	}
	return def
}

package core

import "fmt"

// ConnectError reports a store that could not be opened: the location is
// missing, unwritable or recognized as corrupt.
type ConnectError struct {
	Engine   string
	Location string
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("cannot open %s store at %q: %v", e.Engine, e.Location, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// ScriptError reports malformed query text. This is a defect in the calling
// command, not an expected runtime condition.
type ScriptError struct {
	Query string
	Err   error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("query has a syntax error: %v", e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

// TypeMismatchError reports a value whose shape does not match what was
// requested, either a tag mismatch during extraction or a native engine
// value that cannot be mapped into the value union without loss.
type TypeMismatchError struct {
	Expected string
	Actual   string
	Column   string
}

func (e *TypeMismatchError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("type mismatch in column %q: have %s, want %s", e.Column, e.Actual, e.Expected)
	}
	return fmt.Sprintf("type mismatch: have %s, want %s", e.Actual, e.Expected)
}

// MissingParameterError reports a query that references a parameter which
// was never bound.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("query references parameter $%s but no binding was provided", e.Name)
}

// EmptyStoreError reports a query against a relation that does not exist
// yet. It is deliberately distinct from a zero-row result: the former means
// the store was never initialized, the latter is an ordinary empty answer.
type EmptyStoreError struct {
	Relation string
}

func (e *EmptyStoreError) Error() string {
	if e.Relation != "" {
		return fmt.Sprintf("store has no %q relation", e.Relation)
	}
	return "store has no relations"
}

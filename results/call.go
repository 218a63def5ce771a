package results

import (
	"fmt"
	"strings"
)

// FuncRef is a function reference with optional definition location and
// type information. Queries populate only the fields they need; zero
// optionals are skipped by every renderer. Line numbers are 1-based, so 0
// means unknown.
type FuncRef struct {
	Module     string `json:"module"`
	Name       string `json:"name"`
	Arity      int64  `json:"arity"`
	Kind       string `json:"kind,omitempty"`
	File       string `json:"file,omitempty"`
	StartLine  int64  `json:"start_line,omitempty"`
	EndLine    int64  `json:"end_line,omitempty"`
	Args       string `json:"args,omitempty"`
	ReturnType string `json:"return_type,omitempty"`
}

// DisplayName formats the reference as "name/arity", qualified with the
// module only when it differs from the display context.
func (f FuncRef) DisplayName(contextModule string) string {
	if f.Module == contextModule {
		return fmt.Sprintf("%s/%d", f.Name, f.Arity)
	}

	return fmt.Sprintf("%s.%s/%d", f.Module, f.Name, f.Arity)
}

// DisplayLocation formats the definition range as "L10:20", prefixed with
// the bare filename when it differs from the context's file. An unknown
// location renders as "".
func (f FuncRef) DisplayLocation(contextFile string) string {
	if f.File == "" || f.StartLine == 0 || f.EndLine == 0 {
		return ""
	}

	filename := baseName(f.File)
	if baseName(contextFile) == filename {
		return fmt.Sprintf("L%d:%d", f.StartLine, f.EndLine)
	}

	return fmt.Sprintf("%s:L%d:%d", filename, f.StartLine, f.EndLine)
}

// DisplayKind formats the definition kind as " [def]", or "" when unknown.
func (f FuncRef) DisplayKind() string {
	if f.Kind == "" {
		return ""
	}

	return fmt.Sprintf(" [%s]", f.Kind)
}

func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}

	return path
}

// Call is one directed call relationship.
type Call struct {
	Caller   FuncRef `json:"caller"`
	Callee   FuncRef `json:"callee"`
	Line     int64   `json:"line"`
	CallType string  `json:"call_type,omitempty"`
}

// IsStructCall reports whether the callee is a struct construction, which
// the extractor records with "%" as the callee function.
func (c Call) IsStructCall() bool {
	return c.Callee.Name == "%"
}

// DisplayOutgoing formats the call from the caller's point of view:
// "→ @ L37 name/arity [kind] (location)".
func (c Call) DisplayOutgoing(contextModule, contextFile string) string {
	return c.displayEdge("→", c.Callee, contextModule, contextFile)
}

// DisplayIncoming formats the call from the callee's point of view:
// "← @ L37 name/arity [kind] (location)".
func (c Call) DisplayIncoming(contextModule, contextFile string) string {
	return c.displayEdge("←", c.Caller, contextModule, contextFile)
}

func (c Call) displayEdge(arrow string, ref FuncRef, contextModule, contextFile string) string {
	location := ref.DisplayLocation(contextFile)
	if location != "" {
		location = " (" + location + ")"
	}

	return fmt.Sprintf("%s @ L%d %s%s%s", arrow, c.Line, ref.DisplayName(contextModule), ref.DisplayKind(), location)
}

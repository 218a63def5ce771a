// Package ingest loads extractor call-graph files into the store. The input
// is the JSON the Elixir-side extractor emits: struct definitions, per-clause
// function locations, call edges, specs and type definitions, keyed by
// module.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
)

// CallGraph is one extracted call-graph file. The specs and types sections
// are newer than the rest and may be absent from older files.
type CallGraph struct {
	Structs           map[string]StructDef                   `json:"structs"`
	FunctionLocations map[string]map[string]FunctionLocation `json:"function_locations"`
	Calls             []Call                                 `json:"calls"`
	Specs             map[string][]Spec                      `json:"specs"`
	Types             map[string][]TypeDef                   `json:"types"`
}

// StructDef is one module's struct definition.
type StructDef struct {
	Fields []StructField `json:"fields"`
}

// StructField is one field of a struct definition. Field and Default keep
// the extractor's Elixir syntax verbatim, string-quoted atoms included.
type StructField struct {
	Default      string `json:"default"`
	Field        string `json:"field"`
	Required     bool   `json:"required"`
	InferredType string `json:"inferred_type"`
}

// FunctionLocation is one function clause. Entries are keyed by
// "name/arity:line" in the file, but every field the store needs is carried
// in the entry itself.
type FunctionLocation struct {
	Name               string `json:"name"`
	Arity              int64  `json:"arity"`
	File               string `json:"file"`
	SourceFile         string `json:"source_file"`
	SourceFileAbsolute string `json:"source_file_absolute"`
	Column             int64  `json:"column"`
	Kind               string `json:"kind"`
	Line               int64  `json:"line"`
	StartLine          int64  `json:"start_line"`
	EndLine            int64  `json:"end_line"`
	Pattern            string `json:"pattern"`
	Guard              string `json:"guard"`
	SourceSHA          string `json:"source_sha"`
	ASTSHA             string `json:"ast_sha"`
	Complexity         int64  `json:"complexity"`
	MaxNestingDepth    int64  `json:"max_nesting_depth"`
	GeneratedBy        string `json:"generated_by"`
	MacroSource        string `json:"macro_source"`
}

// UnmarshalJSON seeds the complexity default before decoding. A clause with
// no recorded complexity counts as straight-line code, not as zero.
func (l *FunctionLocation) UnmarshalJSON(data []byte) error {
	type plain FunctionLocation
	aux := plain{Complexity: 1}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*l = FunctionLocation(aux)
	return nil
}

// SourcePath returns the clause's relative file path. Extractor versions
// have written it under either "file" or "source_file".
func (l *FunctionLocation) SourcePath() string {
	if l.File != "" {
		return l.File
	}

	return l.SourceFile
}

// Call is one recorded call edge.
type Call struct {
	Caller   Caller `json:"caller"`
	Callee   Callee `json:"callee"`
	CallType string `json:"type"`
}

// Caller is the calling side of an edge. Function is empty for module-body
// calls; Kind is the defining form when the extractor knew it.
type Caller struct {
	Module   string `json:"module"`
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int64  `json:"line"`
	Column   int64  `json:"column"`
	Kind     string `json:"kind"`
}

// Callee is the called side of an edge.
type Callee struct {
	Module   string `json:"module"`
	Function string `json:"function"`
	Arity    int64  `json:"arity"`
	Args     string `json:"args"`
}

// Spec is one @spec or @callback definition.
type Spec struct {
	Name    string       `json:"name"`
	Arity   int64        `json:"arity"`
	Line    int64        `json:"line"`
	Kind    string       `json:"kind"`
	Clauses []SpecClause `json:"clauses"`
}

// SpecClause is a single clause of a spec.
type SpecClause struct {
	Full          string   `json:"full"`
	InputStrings  []string `json:"input_strings"`
	ReturnStrings []string `json:"return_strings"`
}

// TypeDef is one @type, @typep or @opaque definition.
type TypeDef struct {
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Line       int64    `json:"line"`
	Params     []string `json:"params"`
	Definition string   `json:"definition"`
}

// FileError reports a call-graph file that could not be read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("cannot read call graph file %q: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// ParseError reports call-graph JSON that could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse call graph JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes one call-graph document.
func Parse(data []byte) (*CallGraph, error) {
	var graph CallGraph
	if err := json.Unmarshal(data, &graph); err != nil {
		return nil, &ParseError{Err: err}
	}

	return &graph, nil
}

// Load reads and decodes a call-graph file.
func Load(path string) (*CallGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}

	return Parse(data)
}

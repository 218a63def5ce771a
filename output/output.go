package output

import (
	"fmt"
	"io"
)

// Format selects one of the three output encodings.
type Format int

const (
	// FormatTable is the human-readable layout built from each command's
	// table vocabulary.
	FormatTable Format = iota
	// FormatJSON is the canonical tree rendered as indented JSON.
	FormatJSON
	// FormatCompact is the canonical tree rendered in the token-minimizing
	// layout with bracketed collection counts.
	FormatCompact
)

func (f Format) String() string {
	switch f {
	case FormatTable:
		return "table"
	case FormatJSON:
		return "json"
	case FormatCompact:
		return "compact"
	default:
		return "unknown"
	}
}

// ParseFormat maps a flag value onto a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "compact":
		return FormatCompact, nil
	default:
		return FormatTable, fmt.Errorf("unknown output format %q", name)
	}
}

// Tabler renders a result through its command's table vocabulary.
type Tabler interface {
	Table() string
}

// Encoder renders a canonical tree onto a writer.
type Encoder interface {
	Name() string
	Encode(writer io.Writer, node *Node) error
}

package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/callscope/callscope/output"
)

var _ output.Encoder = (*Compact)(nil)

// Compact renders a canonical tree in the token-minimizing layout. Nesting is
// expressed through two-space indentation alone, and every list header
// carries its element count in brackets, a zero-element list included:
//
//	total: 2
//	modules[2]:
//	  - name: MyApp.Accounts
//	    functions[1]:
//	      - get_user
//	  - name: MyApp.Repo
//	    functions[0]:
//
// A map element puts its first field on the element line; the remaining
// fields follow at the continuation indent, which is why DecodeCompact can
// reconstruct the exact tree.
type Compact struct{}

func NewCompact() *Compact {
	return &Compact{}
}

func (cf *Compact) Name() string {
	return "compact"
}

func (cf *Compact) Encode(writer io.Writer, node *output.Node) error {
	var lines []string
	switch node.Kind {
	case output.NodeList:
		lines = append(lines, "["+strconv.Itoa(len(node.List))+"]:")
		lines = append(lines, cf.elementLines(node.List, 1)...)
	case output.NodeMap:
		lines = cf.fieldLines(node.Fields, 0)
	default:
		lines = append(lines, scalarToken(node))
	}

	if len(lines) == 0 {
		return nil
	}

	_, err := io.WriteString(writer, strings.Join(lines, "\n")+"\n")
	if err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}

func (cf *Compact) fieldLines(fields []output.Field, depth int) []string {
	var lines []string
	pad := strings.Repeat("  ", depth)

	for _, field := range fields {
		child := field.Node
		switch child.Kind {
		case output.NodeList:
			lines = append(lines, pad+keyToken(field.Name)+"["+strconv.Itoa(len(child.List))+"]:")
			lines = append(lines, cf.elementLines(child.List, depth+1)...)
		case output.NodeMap:
			lines = append(lines, pad+keyToken(field.Name)+":")
			lines = append(lines, cf.fieldLines(child.Fields, depth+1)...)
		default:
			lines = append(lines, pad+keyToken(field.Name)+": "+scalarToken(child))
		}
	}

	return lines
}

func (cf *Compact) elementLines(items []*output.Node, depth int) []string {
	var lines []string
	pad := strings.Repeat("  ", depth)

	for _, item := range items {
		switch item.Kind {
		case output.NodeList:
			lines = append(lines, pad+"- ["+strconv.Itoa(len(item.List))+"]:")
			lines = append(lines, cf.elementLines(item.List, depth+1)...)
		case output.NodeMap:
			if len(item.Fields) == 0 {
				lines = append(lines, pad+"-")
				continue
			}
			// First field rides on the element line; its own nested lines
			// and the remaining fields keep their field-level indent.
			nested := cf.fieldLines(item.Fields, depth+1)
			nested[0] = pad + "- " + strings.TrimPrefix(nested[0], pad+"  ")
			lines = append(lines, nested...)
		default:
			lines = append(lines, pad+"- "+scalarToken(item))
		}
	}

	return lines
}

// keyToken quotes a field name only when the plain form could not be split
// back out of the line.
func keyToken(name string) string {
	if name == "" || strings.TrimSpace(name) != name || strings.ContainsAny(name, "\"\\:[]\n\r\t") {
		return strconv.Quote(name)
	}
	return name
}

// scalarToken renders a scalar leaf. Strings are quoted only when the plain
// form would decode as a different scalar kind or would not survive line
// splitting.
func scalarToken(node *output.Node) string {
	switch node.Kind {
	case output.NodeNull:
		return "null"
	case output.NodeBool:
		return strconv.FormatBool(node.Bool)
	case output.NodeInt:
		return strconv.FormatInt(node.Int, 10)
	case output.NodeFloat:
		return output.FloatString(node.Float)
	default:
		if stringNeedsQuoting(node.Str) {
			return strconv.Quote(node.Str)
		}
		return node.Str
	}
}

func stringNeedsQuoting(s string) bool {
	if s == "" || s == "null" || s == "true" || s == "false" {
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	return strings.ContainsAny(s, "\"\\:\n\r\t")
}

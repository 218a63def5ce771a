package format

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/callscope/callscope/output"
)

// DecodeCompact reconstructs a canonical tree from its compact rendering.
// Every declared element count is checked against the elements actually
// present, so a truncated document never decodes silently.
func DecodeCompact(data []byte) (*output.Node, error) {
	doc := strings.TrimSuffix(string(data), "\n")
	if doc == "" {
		return &output.Node{Kind: output.NodeMap}, nil
	}

	p := &compactParser{lines: strings.Split(doc, "\n")}

	depth, rest, err := splitIndent(p.lines[0])
	if err != nil {
		return nil, fmt.Errorf("line 1: %w", err)
	}
	if depth != 0 {
		return nil, errors.New("line 1: unexpected indentation")
	}

	var root *output.Node
	switch {
	case isListMark(rest):
		count, _ := parseListMark(rest)
		p.pos = 1
		items, err := p.parseElements(1)
		if err != nil {
			return nil, err
		}
		if len(items) != count {
			return nil, fmt.Errorf("line 1: list declares %d elements, found %d", count, len(items))
		}
		root = &output.Node{Kind: output.NodeList, List: items}
	case startsField(rest):
		fields, err := p.parseFields(0)
		if err != nil {
			return nil, err
		}
		root = &output.Node{Kind: output.NodeMap, Fields: fields}
	default:
		node, err := scalarFromToken(rest, 1)
		if err != nil {
			return nil, err
		}
		p.pos = 1
		root = node
	}

	if p.pos != len(p.lines) {
		return nil, fmt.Errorf("line %d: unexpected content", p.pos+1)
	}
	return root, nil
}

type compactParser struct {
	lines []string
	pos   int
}

func (p *compactParser) parseFields(depth int) ([]output.Field, error) {
	var fields []output.Field

	for p.pos < len(p.lines) {
		lineNo := p.pos + 1
		d, rest, err := splitIndent(p.lines[p.pos])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if d < depth {
			break
		}
		if d > depth {
			return nil, fmt.Errorf("line %d: unexpected indentation", lineNo)
		}

		key, count, isList, remainder, err := parseFieldStart(rest, lineNo)
		if err != nil {
			return nil, err
		}
		p.pos++

		node, err := p.fieldNode(count, isList, remainder, depth+1, lineNo)
		if err != nil {
			return nil, err
		}
		fields = append(fields, output.Field{Name: key, Node: node})
	}

	return fields, nil
}

func (p *compactParser) parseElements(depth int) ([]*output.Node, error) {
	items := []*output.Node{}

	for p.pos < len(p.lines) {
		lineNo := p.pos + 1
		d, rest, err := splitIndent(p.lines[p.pos])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if d < depth {
			break
		}
		if d > depth {
			return nil, fmt.Errorf("line %d: unexpected indentation", lineNo)
		}

		if rest == "-" {
			items = append(items, &output.Node{Kind: output.NodeMap})
			p.pos++
			continue
		}
		content, ok := strings.CutPrefix(rest, "- ")
		if !ok {
			// Not an element line; the enclosing count check reports it.
			break
		}
		p.pos++

		switch {
		case isListMark(content):
			count, _ := parseListMark(content)
			kids, err := p.parseElements(depth + 1)
			if err != nil {
				return nil, err
			}
			if len(kids) != count {
				return nil, fmt.Errorf("line %d: list declares %d elements, found %d", lineNo, count, len(kids))
			}
			items = append(items, &output.Node{Kind: output.NodeList, List: kids})
		case startsField(content):
			// Map element: the first field is inline, the rest follow at
			// the continuation indent. The inline field's own nested lines
			// sit one level deeper than the continuation.
			key, count, isList, remainder, err := parseFieldStart(content, lineNo)
			if err != nil {
				return nil, err
			}
			first, err := p.fieldNode(count, isList, remainder, depth+2, lineNo)
			if err != nil {
				return nil, err
			}
			more, err := p.parseFields(depth + 1)
			if err != nil {
				return nil, err
			}
			fields := append([]output.Field{{Name: key, Node: first}}, more...)
			items = append(items, &output.Node{Kind: output.NodeMap, Fields: fields})
		default:
			node, err := scalarFromToken(content, lineNo)
			if err != nil {
				return nil, err
			}
			items = append(items, node)
		}
	}

	return items, nil
}

// fieldNode resolves the value of one field given everything after its key:
// a declared-count list, a nested map when nothing follows the colon, or an
// inline scalar token.
func (p *compactParser) fieldNode(count int, isList bool, remainder string, childDepth, lineNo int) (*output.Node, error) {
	if isList {
		items, err := p.parseElements(childDepth)
		if err != nil {
			return nil, err
		}
		if len(items) != count {
			return nil, fmt.Errorf("line %d: list declares %d elements, found %d", lineNo, count, len(items))
		}
		return &output.Node{Kind: output.NodeList, List: items}, nil
	}

	if remainder == "" {
		fields, err := p.parseFields(childDepth)
		if err != nil {
			return nil, err
		}
		return &output.Node{Kind: output.NodeMap, Fields: fields}, nil
	}

	token, ok := strings.CutPrefix(remainder, " ")
	if !ok || token == "" {
		return nil, fmt.Errorf("line %d: expected a value after %q", lineNo, ":")
	}
	return scalarFromToken(token, lineNo)
}

// parseFieldStart splits one field line (indent already removed) into its
// key, the declared count for list headers, and the raw remainder after the
// colon.
func parseFieldStart(s string, lineNo int) (key string, count int, isList bool, remainder string, err error) {
	rest := s
	if strings.HasPrefix(rest, `"`) {
		token, after, err := splitQuoted(rest)
		if err != nil {
			return "", 0, false, "", fmt.Errorf("line %d: %w", lineNo, err)
		}
		key, err = strconv.Unquote(token)
		if err != nil {
			return "", 0, false, "", fmt.Errorf("line %d: invalid quoted key: %w", lineNo, err)
		}
		rest = after
	} else {
		idx := strings.IndexAny(rest, ":[")
		if idx < 0 {
			return "", 0, false, "", fmt.Errorf("line %d: expected a field", lineNo)
		}
		key = rest[:idx]
		rest = rest[idx:]
	}

	if mark, ok := strings.CutPrefix(rest, "["); ok {
		end := strings.IndexByte(mark, ']')
		if end < 0 || mark[end+1:] != ":" {
			return "", 0, false, "", fmt.Errorf("line %d: malformed list header", lineNo)
		}
		count, err := strconv.Atoi(mark[:end])
		if err != nil || count < 0 {
			return "", 0, false, "", fmt.Errorf("line %d: malformed list count", lineNo)
		}
		return key, count, true, "", nil
	}

	remainder, ok := strings.CutPrefix(rest, ":")
	if !ok {
		return "", 0, false, "", fmt.Errorf("line %d: expected %q after key", lineNo, ":")
	}
	return key, 0, false, remainder, nil
}

// startsField reports whether element content opens an inline field rather
// than a scalar. Unquoted scalar tokens never contain a colon, so any colon
// marks a field; a quoted token is a field only when a separator follows it.
func startsField(content string) bool {
	if strings.HasPrefix(content, `"`) {
		_, after, err := splitQuoted(content)
		if err != nil {
			return false
		}
		return strings.HasPrefix(after, ":") || strings.HasPrefix(after, "[")
	}
	return strings.Contains(content, ":")
}

func isListMark(s string) bool {
	_, ok := parseListMark(s)
	return ok
}

func parseListMark(s string) (int, bool) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]:") {
		return 0, false
	}
	n, err := strconv.Atoi(s[1 : len(s)-2])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func scalarFromToken(token string, lineNo int) (*output.Node, error) {
	if strings.HasPrefix(token, `"`) {
		s, err := strconv.Unquote(token)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid quoted value: %w", lineNo, err)
		}
		return &output.Node{Kind: output.NodeString, Str: s}, nil
	}

	switch token {
	case "null":
		return &output.Node{Kind: output.NodeNull}, nil
	case "true":
		return &output.Node{Kind: output.NodeBool, Bool: true}, nil
	case "false":
		return &output.Node{Kind: output.NodeBool, Bool: false}, nil
	}

	if strings.ContainsAny(token, ".eE") {
		if f, err := strconv.ParseFloat(token, 64); err == nil {
			return &output.Node{Kind: output.NodeFloat, Float: f}, nil
		}
	} else if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return &output.Node{Kind: output.NodeInt, Int: i}, nil
	}
	return &output.Node{Kind: output.NodeString, Str: token}, nil
}

// splitQuoted cuts a leading double-quoted token off s, leaving the rest.
// Escape sequences inside the quotes are skipped, not interpreted.
func splitQuoted(s string) (string, string, error) {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return s[:i+1], s[i+1:], nil
		}
	}
	return "", "", errors.New("unterminated quoted token")
}

func splitIndent(line string) (int, string, error) {
	rest := strings.TrimLeft(line, " ")
	spaces := len(line) - len(rest)
	if spaces%2 != 0 {
		return 0, "", errors.New("odd indentation")
	}
	return spaces / 2, rest, nil
}

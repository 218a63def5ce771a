package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// BuildTree reduces a result value to its canonical tree. Field order
// follows the value's struct declaration, and numbers keep their integer or
// float identity instead of collapsing to float64.
func BuildTree(value any) (*Node, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	node, err := DecodeTree(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("output.DecodeTree: %w", err)
	}

	return node, nil
}

// DecodeTree reads one JSON document into a canonical tree, preserving the
// field order of the document.
func DecodeTree(reader io.Reader) (*Node, error) {
	dec := json.NewDecoder(reader)
	dec.UseNumber()

	return decodeNode(dec)
}

func decodeNode(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeMap(dec)
		case '[':
			return decodeList(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case nil:
		return &Node{Kind: NodeNull}, nil
	case bool:
		return &Node{Kind: NodeBool, Bool: t}, nil
	case string:
		return &Node{Kind: NodeString, Str: t}, nil
	case json.Number:
		return decodeNumber(t)
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeMap(dec *json.Decoder) (*Node, error) {
	node := &Node{Kind: NodeMap}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected map key %v", keyTok)
		}

		child, err := decodeNode(dec)
		if err != nil {
			return nil, err
		}

		node.Fields = append(node.Fields, Field{Name: key, Node: child})
	}

	// consume the closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return node, nil
}

func decodeList(dec *json.Decoder) (*Node, error) {
	node := &Node{Kind: NodeList, List: []*Node{}}

	for dec.More() {
		child, err := decodeNode(dec)
		if err != nil {
			return nil, err
		}

		node.List = append(node.List, child)
	}

	// consume the closing bracket
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return node, nil
}

// decodeNumber keeps the distinction the engines already made: a literal
// without a fraction or exponent is an integer.
func decodeNumber(num json.Number) (*Node, error) {
	if strings.ContainsAny(num.String(), ".eE") {
		f, err := num.Float64()
		if err != nil {
			return nil, fmt.Errorf("num.Float64: %w", err)
		}
		return &Node{Kind: NodeFloat, Float: f}, nil
	}

	i, err := num.Int64()
	if err != nil {
		return nil, fmt.Errorf("num.Int64: %w", err)
	}

	return &Node{Kind: NodeInt, Int: i}, nil
}

// Float marshals with an explicit decimal mark. encoding/json renders whole
// float64s as bare integer literals, which decodeNumber would then classify
// as ints; result types use this wrapper for fields that must stay floats.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	return []byte(FloatString(float64(f))), nil
}

// FloatString formats a float so the token always carries a "." or an
// exponent, matching decodeNumber's classification. Renderings use it for
// every float leaf.
func FloatString(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

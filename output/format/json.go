package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/callscope/callscope/output"
)

var _ output.Encoder = (*JSON)(nil)

// JSON renders a canonical tree as indented JSON. Field order is the tree's
// order, and floats always carry a "." or exponent so that decoding the
// rendering classifies them as floats again.
type JSON struct{}

func NewJSON() *JSON {
	return &JSON{}
}

func (jf *JSON) Name() string {
	return "json"
}

func (jf *JSON) Encode(writer io.Writer, node *output.Node) error {
	var buf bytes.Buffer
	if err := jf.encodeNode(&buf, node, 0); err != nil {
		return err
	}
	buf.WriteByte('\n')

	_, err := writer.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("writer.Write: %w", err)
	}
	return nil
}

func (jf *JSON) encodeNode(buf *bytes.Buffer, node *output.Node, depth int) error {
	switch node.Kind {
	case output.NodeNull:
		buf.WriteString("null")
	case output.NodeString:
		quoted, err := json.Marshal(node.Str)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}
		buf.Write(quoted)
	case output.NodeInt:
		buf.WriteString(strconv.FormatInt(node.Int, 10))
	case output.NodeFloat:
		buf.WriteString(output.FloatString(node.Float))
	case output.NodeBool:
		buf.WriteString(strconv.FormatBool(node.Bool))
	case output.NodeList:
		return jf.encodeList(buf, node.List, depth)
	case output.NodeMap:
		return jf.encodeMap(buf, node.Fields, depth)
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
	return nil
}

func (jf *JSON) encodeList(buf *bytes.Buffer, items []*output.Node, depth int) error {
	if len(items) == 0 {
		buf.WriteString("[]")
		return nil
	}

	buf.WriteString("[\n")
	for i, item := range items {
		writeIndent(buf, depth+1)
		if err := jf.encodeNode(buf, item, depth+1); err != nil {
			return err
		}
		if i < len(items)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	writeIndent(buf, depth)
	buf.WriteByte(']')
	return nil
}

func (jf *JSON) encodeMap(buf *bytes.Buffer, fields []output.Field, depth int) error {
	if len(fields) == 0 {
		buf.WriteString("{}")
		return nil
	}

	buf.WriteString("{\n")
	for i, field := range fields {
		writeIndent(buf, depth+1)
		quoted, err := json.Marshal(field.Name)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}
		buf.Write(quoted)
		buf.WriteString(": ")
		if err := jf.encodeNode(buf, field.Node, depth+1); err != nil {
			return err
		}
		if i < len(fields)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	writeIndent(buf, depth)
	buf.WriteByte('}')
	return nil
}

func writeIndent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
}

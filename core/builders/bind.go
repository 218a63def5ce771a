package builders

import (
	"strings"

	"github.com/callscope/callscope/core"
)

// BindNamed rewrites every $name reference outside quoted regions into a
// positional placeholder and collects the bound values in reference order.
// A referenced name with no binding fails with MissingParameterError before
// anything reaches the engine; bound names the query never references are
// allowed. A name referenced twice is bound twice.
func BindNamed(query string, params *core.Params) (string, []any, error) {
	var (
		rewritten strings.Builder
		args      []any
	)
	rewritten.Grow(len(query))

	for i := 0; i < len(query); {
		switch ch := query[i]; {
		case ch == '\'' || ch == '"':
			end := skipQuoted(query, i)
			rewritten.WriteString(query[i:end])
			i = end
		case ch == '$' && i+1 < len(query) && isNameStart(query[i+1]):
			end := i + 1
			for end < len(query) && isNameChar(query[end]) {
				end++
			}
			name := query[i+1 : end]

			val, ok := params.Get(name)
			if !ok {
				return "", nil, &core.MissingParameterError{Name: name}
			}

			rewritten.WriteByte('?')
			args = append(args, nativeArg(val))
			i = end
		default:
			rewritten.WriteByte(ch)
			i++
		}
	}

	return rewritten.String(), args, nil
}

// skipQuoted returns the index just past the quoted region opening at
// start. A doubled quote inside the region is the SQL escape for the quote
// character itself, not a terminator.
func skipQuoted(query string, start int) int {
	quote := query[start]
	for i := start + 1; i < len(query); i++ {
		if query[i] != quote {
			continue
		}
		if i+1 < len(query) && query[i+1] == quote {
			i++
			continue
		}
		return i + 1
	}
	return len(query)
}

func isNameStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isNameChar(ch byte) bool {
	return isNameStart(ch) || (ch >= '0' && ch <= '9')
}

// nativeArg lowers a bound Value to the argument handed to the engine.
func nativeArg(val core.Value) any {
	switch val.Kind() {
	case core.KindString:
		s, _ := val.AsString()
		return s
	case core.KindInt:
		i, _ := val.AsInt()
		return i
	case core.KindFloat:
		f, _ := val.AsFloat()
		return f
	case core.KindBool:
		b, _ := val.AsBool()
		return b
	default:
		return nil
	}
}

package core

import "strings"

// MatchMode selects how a pattern condition compares a column against its
// bound parameter.
type MatchMode int

const (
	// MatchSubstring matches anywhere in the column. The bound value must
	// be prepared with PatternParam so wildcards in user input stay literal.
	MatchSubstring MatchMode = iota
	// MatchExact requires the column to equal the bound value.
	MatchExact
)

// Condition builds one comparison fragment of a WHERE clause. The fragment
// references its parameter as $name; binding the value is the caller's job,
// which keeps fragments engine-agnostic and injection-free.
type Condition struct {
	field      string
	param      string
	leadingAnd bool
}

func NewCondition(field, param string) *Condition {
	return &Condition{field: field, param: param}
}

// WithLeadingAnd prefixes the fragment with "AND " so it can be appended to
// an existing clause.
func (c *Condition) WithLeadingAnd() *Condition {
	c.leadingAnd = true
	return c
}

func (c *Condition) Build(mode MatchMode) string {
	var b strings.Builder
	if c.leadingAnd {
		b.WriteString("AND ")
	}
	b.WriteString(c.field)
	switch mode {
	case MatchExact:
		b.WriteString(" = $")
	default:
		b.WriteString(" LIKE $")
	}
	b.WriteString(c.param)
	if mode == MatchSubstring {
		b.WriteString(` ESCAPE '\'`)
	}
	return b.String()
}

// OptionalCondition emits its fragment only when the filter it guards was
// actually supplied, so queries stay free of always-true placeholder
// clauses.
type OptionalCondition struct {
	inner *Condition
}

func NewOptionalCondition(field, param string) *OptionalCondition {
	return &OptionalCondition{inner: NewCondition(field, param)}
}

func (c *OptionalCondition) WithLeadingAnd() *OptionalCondition {
	c.inner.WithLeadingAnd()
	return c
}

// Build returns the fragment when present is true and "" otherwise.
func (c *OptionalCondition) Build(present bool, mode MatchMode) string {
	if !present {
		return ""
	}
	return c.inner.Build(mode)
}

// EscapeLike escapes LIKE wildcards and the escape character itself so a
// raw user pattern matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// PatternParam prepares the value to bind for a condition built with mode:
// exact matching binds the raw value, substring matching binds the escaped
// value wrapped in wildcards.
func PatternParam(raw string, mode MatchMode) string {
	if mode == MatchExact {
		return raw
	}
	return "%" + EscapeLike(raw) + "%"
}

// QuoteIdent double-quotes an identifier for DDL and catalog statements.
// Needed for the two relation columns that collide with SQL keywords.
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

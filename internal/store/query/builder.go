// Package query composes parameterized SQL for the prompt and collection stores.
//
// A Builder owns the predicate list and the bound-value list together, so every
// statement rendered from one builder shares the same WHERE text and argument order.
package query

import "strings"

// Param is a value already bound to a Builder.
type Param struct {
	placeholder string
	value       any
}

// Placeholder returns the SQL marker for the bound value.
func (p Param) Placeholder() string { return p.placeholder }

// Builder accumulates WHERE predicates and their arguments.
type Builder struct {
	dialect Dialect
	clauses []string
	args    []any
}

// NewBuilder creates an empty builder for the dialect.
func NewBuilder(d Dialect) *Builder {
	return &Builder{dialect: d}
}

// Bind appends a value and returns its placeholder.
func (b *Builder) Bind(v any) Param {
	b.args = append(b.args, v)
	return Param{placeholder: b.dialect.Placeholder(len(b.args)), value: v}
}

// Reuse references an already bound value again.
// Numbered dialects repeat the placeholder; positional ones re-append the value.
func (b *Builder) Reuse(p Param) string {
	if b.dialect.Numbered() {
		return p.placeholder
	}
	return b.Bind(p.value).placeholder
}

// Where appends a predicate. Its placeholders must come from this builder.
func (b *Builder) Where(clause string) *Builder {
	b.clauses = append(b.clauses, clause)
	return b
}

// WhereEq appends "column = <bound v>".
func (b *Builder) WhereEq(column string, v any) *Builder {
	return b.Where(column + " = " + b.Bind(v).Placeholder())
}

// InList binds every value and returns "(p1, p2, ...)".
func (b *Builder) InList(values []string) string {
	marks := make([]string, len(values))
	for i, v := range values {
		marks[i] = b.Bind(v).Placeholder()
	}
	return "(" + strings.Join(marks, ", ") + ")"
}

// WhereSQL renders " WHERE a AND b", or "" when there are no predicates.
func (b *Builder) WhereSQL() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

// Args returns a copy of the bound values in placeholder order.
func (b *Builder) Args() []any {
	out := make([]any, len(b.args))
	copy(out, b.args)
	return out
}

// Len returns the number of bound values.
func (b *Builder) Len() int { return len(b.args) }

// Statement is a rendered SQL string with its arguments.
type Statement struct {
	SQL  string
	Args []any
}

// likeEscaper escapes LIKE metacharacters for use with ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FoldCase lower-cases s the same way the SQL side does through Dialect.Lower.
func FoldCase(s string) string {
	return strings.ToLower(s)
}

// ContainsPattern returns a case-folded substring pattern for LIKE ... ESCAPE '\'.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(FoldCase(term)) + "%"
}

// Package expr defines Rocket expression types.
package expr

import (
	"strings"

	"nickandperla.net/rocket/internal/token"
)

// Expr is the interface all expression types implement. Expressions are
// immutable once parsed.
type Expr interface {
	// String returns the serializable source representation.
	String() string
	// Pos returns the source position of the expression.
	Pos() token.Pos
}

// Symbol is a bare token. A symbol beginning with ':' denotes a directive
// name when it heads a list.
type Symbol struct {
	Name string
	At   token.Pos
}

func (s Symbol) String() string { return s.Name }
func (s Symbol) Pos() token.Pos { return s.At }

// String is a quoted string literal.
type String struct {
	Value string
	At    token.Pos
}

func (s String) String() string {
	quoted := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(s.Value)
	return `"` + quoted + `"`
}
func (s String) Pos() token.Pos { return s.At }

// Number is a numeric literal. The lexeme is kept verbatim so output
// preserves the author's formatting.
type Number struct {
	Literal string
	At      token.Pos
}

func (n Number) String() string { return n.Literal }
func (n Number) Pos() token.Pos { return n.At }

// List is an ordered sequence of expressions.
type List struct {
	Items []Expr
	At    token.Pos
}

func (l List) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, item := range l.Items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(item.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
func (l List) Pos() token.Pos { return l.At }

// Text returns the literal text an atom contributes when evaluated:
// the string value, the numeric lexeme, or the symbol name. For lists it
// returns the source form; callers wanting list evaluation go through the
// evaluator instead.
func Text(e Expr) string {
	switch v := e.(type) {
	case String:
		return v.Value
	case Number:
		return v.Literal
	case Symbol:
		return v.Name
	default:
		return e.String()
	}
}

// IsAtom reports whether e is a non-list expression.
func IsAtom(e Expr) bool {
	_, ok := e.(List)
	return !ok
}

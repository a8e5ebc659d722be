// Package token defines Rocket token types and source positions.
package token

import "fmt"

// Kind represents a Rocket token type.
type Kind int

const (
	EOF Kind = iota
	LPAREN
	RPAREN
	STRING
	NUMBER
	SYMBOL
)

// String returns the string representation of a token kind.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case STRING:
		return "STRING"
	case NUMBER:
		return "NUMBER"
	case SYMBOL:
		return "SYMBOL"
	}
	return "UNKNOWN"
}

// Pos is a source position. Line and Column are 1-based; a zero Pos
// means the position is unknown (synthesized expressions).
type Pos struct {
	File   string
	Line   int
	Column int
}

// IsValid reports whether the position carries location information.
func (p Pos) IsValid() bool { return p.Line > 0 }

// String formats the position as file:line:column.
func (p Pos) String() string {
	if !p.IsValid() {
		return "<unknown>"
	}
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Item is a scanned token with its text and position.
type Item struct {
	Kind Kind
	Text string
	Pos  Pos
}

// IsDelimiter reports whether the rune terminates a symbol run.
// Symbols are runs of non-whitespace characters excluding parentheses
// and the string quote.
func IsDelimiter(r rune) bool {
	switch r {
	case '(', ')', '"':
		return true
	}
	return false
}

// Package parser turns Rocket source text into expression trees.
package parser

import (
	"io"

	"nickandperla.net/rocket/internal/errs"
	"nickandperla.net/rocket/internal/expr"
	"nickandperla.net/rocket/internal/scanner"
	"nickandperla.net/rocket/internal/token"
)

// Parse reads a complete document and returns its ordered top-level
// expressions. The document is implicitly a sequence evaluated in order;
// the parser does not special-case directive lists beyond ordinary list
// parsing.
func Parse(r io.Reader, file string) ([]expr.Expr, error) {
	return run(scanner.New(r, file))
}

// ParseString parses a document held in memory.
func ParseString(source, file string) ([]expr.Expr, error) {
	return run(scanner.NewFromString(source, file))
}

func run(s *scanner.Scanner) ([]expr.Expr, error) {
	var doc []expr.Expr
	for {
		item := s.Next()
		switch item.Kind {
		case token.EOF:
			if err := s.Err(); err != nil {
				return nil, errs.Syntax(item.Pos, "%v", err)
			}
			return doc, nil
		case token.RPAREN:
			return nil, errs.Syntax(item.Pos, "unmatched ')'")
		default:
			e, err := parseExpr(s, item)
			if err != nil {
				return nil, err
			}
			doc = append(doc, e)
		}
	}
}

// parseExpr builds one expression from the item just consumed.
func parseExpr(s *scanner.Scanner, item token.Item) (expr.Expr, error) {
	switch item.Kind {
	case token.STRING:
		return expr.String{Value: item.Text, At: item.Pos}, nil
	case token.NUMBER:
		return expr.Number{Literal: item.Text, At: item.Pos}, nil
	case token.SYMBOL:
		return expr.Symbol{Name: item.Text, At: item.Pos}, nil
	case token.LPAREN:
		return parseList(s, item.Pos)
	default:
		return nil, errs.Syntax(item.Pos, "unexpected %s", item.Kind)
	}
}

func parseList(s *scanner.Scanner, open token.Pos) (expr.Expr, error) {
	var items []expr.Expr
	for {
		item := s.Next()
		switch item.Kind {
		case token.RPAREN:
			return expr.List{Items: items, At: open}, nil
		case token.EOF:
			if err := s.Err(); err != nil {
				return nil, errs.Syntax(item.Pos, "%v", err)
			}
			return nil, errs.Syntax(open, "unterminated list")
		default:
			e, err := parseExpr(s, item)
			if err != nil {
				return nil, err
			}
			items = append(items, e)
		}
	}
}

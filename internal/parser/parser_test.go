package parser

import (
	"testing"

	"nickandperla.net/rocket/internal/errs"
	"nickandperla.net/rocket/internal/expr"
)

func TestParseDocument(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   []string
	}{
		{"empty", "", nil},
		{"bare string", `"hello"`, []string{`"hello"`}},
		{"bare symbol", "hello", []string{"hello"}},
		{"number", "42", []string{"42"}},
		{"negative decimal", "-3.25", []string{"-3.25"}},
		{"directive", `(:concat "a" "b")`, []string{`(:concat "a" "b")`}},
		{"nested", `(:let (x "1") (:concat x x))`, []string{`(:let (x "1") (:concat x x))`}},
		{"sequence", `"a" (:null) "b"`, []string{`"a"`, "(:null)", `"b"`}},
		{"escapes survive", `"a\"b"`, []string{`"a\"b"`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := ParseString(tc.source, "test.rkt")
			if err != nil {
				t.Fatalf("ParseString(%q): %v", tc.source, err)
			}
			if len(doc) != len(tc.want) {
				t.Fatalf("got %d exprs, want %d", len(doc), len(tc.want))
			}
			for i, e := range doc {
				if got := e.String(); got != tc.want[i] {
					t.Errorf("expr %d: got %s, want %s", i, got, tc.want[i])
				}
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{"unmatched open", `(:concat "a"`},
		{"unmatched close", `"a")`},
		{"unterminated string", `(:concat "a`},
		{"deep unterminated list", `(:a (:b (:c`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseString(tc.source, "test.rkt")
			if err == nil {
				t.Fatalf("ParseString(%q): expected error", tc.source)
			}
			if !errs.Is(err, errs.CodeSyntax) {
				t.Errorf("error code: got %q, want %q", errs.Code(err), errs.CodeSyntax)
			}
		})
	}
}

func TestParsePositions(t *testing.T) {
	doc, err := ParseString("\n  (:note \"x\")", "doc.rkt")
	if err != nil {
		t.Fatal(err)
	}
	lst, ok := doc[0].(expr.List)
	if !ok {
		t.Fatalf("expected list, got %T", doc[0])
	}
	at := lst.Pos()
	if at.File != "doc.rkt" || at.Line != 2 || at.Column != 3 {
		t.Errorf("list position: got %s", at)
	}
	sym := lst.Items[0].Pos()
	if sym.Line != 2 || sym.Column != 4 {
		t.Errorf("symbol position: got %s", sym)
	}
}

package scanner

import (
	"testing"

	"nickandperla.net/rocket/internal/token"
)

func collect(t *testing.T, source string) []token.Item {
	t.Helper()
	s := NewFromString(source, "test.rkt")
	var items []token.Item
	for {
		item := s.Next()
		if item.Kind == token.EOF {
			return items
		}
		items = append(items, item)
	}
}

func TestScanKinds(t *testing.T) {
	cases := []struct {
		name   string
		source string
		kinds  []token.Kind
		texts  []string
	}{
		{
			"directive",
			`(:concat "a" "b")`,
			[]token.Kind{token.LPAREN, token.SYMBOL, token.STRING, token.STRING, token.RPAREN},
			[]string{"(", ":concat", "a", "b", ")"},
		},
		{
			"numbers",
			"42 -7 3.14 4a -",
			[]token.Kind{token.NUMBER, token.NUMBER, token.NUMBER, token.SYMBOL, token.SYMBOL},
			[]string{"42", "-7", "3.14", "4a", "-"},
		},
		{
			"adjacent delimiters",
			`((x))`,
			[]token.Kind{token.LPAREN, token.LPAREN, token.SYMBOL, token.RPAREN, token.RPAREN},
			[]string{"(", "(", "x", ")", ")"},
		},
		{
			"string splits symbol",
			`x"y"z`,
			[]token.Kind{token.SYMBOL, token.STRING, token.SYMBOL},
			[]string{"x", "y", "z"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := collect(t, tc.source)
			if len(items) != len(tc.kinds) {
				t.Fatalf("got %d tokens, want %d", len(items), len(tc.kinds))
			}
			for i, item := range items {
				if item.Kind != tc.kinds[i] || item.Text != tc.texts[i] {
					t.Errorf("token %d: got %s %q, want %s %q",
						i, item.Kind, item.Text, tc.kinds[i], tc.texts[i])
				}
			}
		})
	}
}

func TestScanStringEscapes(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{`"a\"b"`, `a"b`},
		{`"a\\b"`, `a\b`},
		{`"a\nb"`, "a\nb"},
		{`"a\tb"`, `a\tb`}, // unknown escape kept verbatim
	}
	for _, tc := range cases {
		items := collect(t, tc.source)
		if len(items) != 1 || items[0].Kind != token.STRING {
			t.Fatalf("%q: expected one string token", tc.source)
		}
		if items[0].Text != tc.want {
			t.Errorf("%q: got %q, want %q", tc.source, items[0].Text, tc.want)
		}
	}
}

func TestScanUnterminatedString(t *testing.T) {
	s := NewFromString("\n \"abc", "test.rkt")
	item := s.Next()
	if item.Kind != token.EOF {
		t.Fatalf("expected EOF item, got %s", item.Kind)
	}
	if s.Err() != ErrUnterminatedString {
		t.Fatalf("Err() = %v, want ErrUnterminatedString", s.Err())
	}
	if item.Pos.Line != 2 || item.Pos.Column != 2 {
		t.Errorf("position: got %s, want line 2 col 2", item.Pos)
	}
}

func TestScanPositions(t *testing.T) {
	items := collect(t, "(:h1\n  \"Title\")")
	want := []struct{ line, col int }{
		{1, 1}, // (
		{1, 2}, // :h1
		{2, 3}, // "Title"
		{2, 10}, // )
	}
	for i, w := range want {
		if items[i].Pos.Line != w.line || items[i].Pos.Column != w.col {
			t.Errorf("token %d: got %s, want %d:%d", i, items[i].Pos, w.line, w.col)
		}
	}
}

func TestPeek(t *testing.T) {
	s := NewFromString("a b", "test.rkt")
	if p := s.Peek(); p.Text != "a" {
		t.Fatalf("Peek: got %q", p.Text)
	}
	if n := s.Next(); n.Text != "a" {
		t.Fatalf("Next after Peek: got %q", n.Text)
	}
	if n := s.Next(); n.Text != "b" {
		t.Fatalf("second Next: got %q", n.Text)
	}
}

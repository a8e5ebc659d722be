package eval

import (
	"strings"
	"testing"

	"nickandperla.net/rocket/internal/errs"
)

func compile(t *testing.T, source string, opts ...Option) string {
	t.Helper()
	e := New(opts...)
	out, err := e.Compile(source, "")
	if err != nil {
		t.Fatalf("Compile(%q): %v", source, err)
	}
	return out
}

func compileErr(t *testing.T, source string, code string, opts ...Option) error {
	t.Helper()
	e := New(opts...)
	_, err := e.Compile(source, "")
	if err == nil {
		t.Fatalf("Compile(%q): expected error", source)
	}
	if !errs.Is(err, code) {
		t.Fatalf("Compile(%q): code %q, want %q (%v)", source, errs.Code(err), code, err)
	}
	return err
}

func TestBasics(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"empty document", "", ""},
		{"bare string", `"hello"`, "hello"},
		{"number", "42", "42"},
		{"null", `(:null)`, ""},
		{"null ignores args", `(:null "a" (:undefined))`, ""},
		{"concat", `(:concat "a" " " "b")`, "a b"},
		{"concat empty", `(:concat)`, ""},
		{"nested concat", `(:concat (:concat "a" "b") "c")`, "abc"},
		{"document order", `"a" (:null) "b"`, "ab"},
		{"empty list", `()`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := compile(t, tc.source); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLet(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"single binding", `(:let (x "1") x)`, "1"},
		{"two bindings", `(:let (x "a" y "b") (:concat x y))`, "ab"},
		{"sequential visibility", `(:let (x "a" y (:concat x "b")) y)`, "ab"},
		{"body sequence", `(:let (x "1") x x)`, "11"},
		{"empty body", `(:let (x "1"))`, ""},
		{"shadowing", `(:let (x "outer") (:concat (:let (x "inner") x) x))`, "innerouter"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := compile(t, tc.source); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLetScopeDiscarded(t *testing.T) {
	// x must not survive the let frame.
	compileErr(t, `(:let (x "1") x) x`, errs.CodeNotFound)
}

func TestLetErrors(t *testing.T) {
	compileErr(t, `(:let)`, errs.CodeArity)
	compileErr(t, `(:let "x" "1")`, errs.CodeArity)
	compileErr(t, `(:let (x))`, errs.CodeArity)
}

func TestVersion(t *testing.T) {
	opt := WithVersion(func() string { return "3.4.0" })

	if got := compile(t, `(:version)`, opt); got != "3.4.0" {
		t.Errorf("plain: got %q", got)
	}
	got := compile(t, `(:version (:concat "v" version))`, opt)
	if got != "v3.4.0" {
		t.Errorf("format: got %q", got)
	}
	if got := compile(t, `(:version)`); got != "" {
		t.Errorf("no provider: got %q", got)
	}
	compileErr(t, `(:version "a" "b")`, errs.CodeArity, opt)
}

type upperMarkdown struct{}

func (upperMarkdown) Render(source string) (string, error) {
	return strings.ToUpper(source), nil
}

func TestMd(t *testing.T) {
	if got := compile(t, `(:md "*hi*")`, WithMarkdown(upperMarkdown{})); got != "*HI*" {
		t.Errorf("rendered: got %q", got)
	}
	// Without a renderer the body passes through.
	if got := compile(t, `(:md "*hi*")`); got != "*hi*" {
		t.Errorf("identity: got %q", got)
	}
	compileErr(t, `(:md "a" "b")`, errs.CodeArity)
}

func TestDefine(t *testing.T) {
	if got := compile(t, `(:define foo "bar") (:foo)`); got != "bar" {
		t.Errorf("invoke: got %q", got)
	}
	if got := compile(t, `(:define foo "bar") foo`); got != "bar" {
		t.Errorf("bare reference: got %q", got)
	}

	// The body is re-evaluated in the caller's environment.
	got := compile(t, `(:define greet (:concat "hi " who)) (:let (who "ada") (:greet))`)
	if got != "hi ada" {
		t.Errorf("caller env: got %q", got)
	}

	// Eager form stores the evaluated result.
	got = compile(t, `(:define evaluate snap (:concat "a" "b")) (:snap)`)
	if got != "ab" {
		t.Errorf("eager: got %q", got)
	}

	compileErr(t, `(:define foo)`, errs.CodeArity)
	compileErr(t, `(:define a b c)`, errs.CodeArity)
}

func TestMacroReentry(t *testing.T) {
	// A macro result containing directive syntax is re-evaluated.
	got := compile(t, `(:define inner "deep") (:define outer "(:inner)") (:outer)`)
	if got != "deep" {
		t.Errorf("reentry: got %q", got)
	}
}

func TestRecursionLimit(t *testing.T) {
	compileErr(t, `(:define loop (:loop)) (:loop)`, errs.CodeRecursionLimit,
		WithMaxDepth(32))
}

func TestUnknownAndNotFound(t *testing.T) {
	compileErr(t, `(:nope)`, errs.CodeUnknownDirective)
	compileErr(t, `(:concat x)`, errs.CodeNotFound)
}

func TestThemeConfig(t *testing.T) {
	e := New()
	out, err := e.Compile(`(:theme-config title "A" title "B" author "N")`, "")
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("output: got %q", out)
	}
	md := e.Metadata()
	if md["title"] != "B" {
		t.Errorf("title: got %q, want last write", md["title"])
	}
	if md["author"] != "N" {
		t.Errorf("author: got %q", md["author"])
	}

	compileErr(t, `(:theme-config title)`, errs.CodeArity)
}

func TestDefinitionList(t *testing.T) {
	got := compile(t, `(:definition-list ("CPU" "does math") ("RAM" "forgets" "fast"))`)
	want := `<dt>CPU</dt><dd>does math</dd><dt>RAM</dt><dd>forgets fast</dd>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	compileErr(t, `(:definition-list "flat")`, errs.CodeArity)
}

func TestAdmonitions(t *testing.T) {
	got := compile(t, `(:note "remember this")`)
	want := `<div class="admonition admonition-note"><span class="admonition-title admonition-title-note">Note</span>remember this</div>` + "\n"
	if got != want {
		t.Errorf("note default title:\ngot  %q\nwant %q", got, want)
	}

	got = compile(t, `(:warning "Careful" "hot surface")`)
	if !strings.Contains(got, `admonition-warning`) || !strings.Contains(got, ">Careful<") {
		t.Errorf("warning custom title: got %q", got)
	}

	compileErr(t, `(:note)`, errs.CodeArity)
}

func TestLogic(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{`(:if "x" "yes" "no")`, "yes"},
		{`(:if "" "yes" "no")`, "no"},
		{`(:if "" "yes")`, ""},
		{`(:not "")`, "true"},
		{`(:not "x")`, ""},
		{`(:equals "a" "a" "a")`, "true"},
		{`(:equals "a" "b")`, ""},
		{`(:not-equals "a" "b")`, "true"},
		{`(:not-equals "a" "a")`, ""},
		{`(:if (:equals "a" "a") "same")`, "same"},
	}
	for _, tc := range cases {
		if got := compile(t, tc.source); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.source, got, tc.want)
		}
	}

	compileErr(t, `(:if "x")`, errs.CodeArity)
	compileErr(t, `(:not)`, errs.CodeArity)
	compileErr(t, `(:equals "a")`, errs.CodeArity)
}

func TestDynamicDirectiveName(t *testing.T) {
	// A list head evaluates to the directive name.
	got := compile(t, `((:concat "con" "cat") "a" "b")`)
	if got != "ab" {
		t.Errorf("got %q", got)
	}
}

func TestResetClearsState(t *testing.T) {
	e := New()
	if _, err := e.Compile(`(:theme-config title "A") (:toctree "x") (:define-ref r "R")`, ""); err != nil {
		t.Fatal(err)
	}
	e.Reset()
	if len(e.Metadata()) != 0 || len(e.Toctree()) != 0 || len(e.Refs()) != 0 {
		t.Fatal("Reset left per-document state behind")
	}
	// Definitions do not survive either.
	if _, err := e.Compile(`(:define foo "1")`, ""); err != nil {
		t.Fatal(err)
	}
	e.Reset()
	_, err := e.Compile(`(:foo)`, "")
	if !errs.Is(err, errs.CodeUnknownDirective) {
		t.Fatalf("stale definition after Reset: %v", err)
	}
}

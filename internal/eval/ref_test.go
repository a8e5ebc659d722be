package eval

import (
	"strings"
	"testing"

	"nickandperla.net/rocket/internal/errs"
)

func TestDefineRefRecordsTarget(t *testing.T) {
	e := New()
	out, err := e.Compile(`(:define-ref install-linux "Installing on Linux")`, "")
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("output: got %q", out)
	}
	refs := e.Refs()
	if len(refs) != 1 || refs[0].ID != "install-linux" || refs[0].Title != "Installing on Linux" {
		t.Errorf("refs: %v", refs)
	}

	compileErr(t, `(:define-ref only-id)`, errs.CodeArity)
}

func TestHeadingsRegisterRefTargets(t *testing.T) {
	e := New()
	if _, err := e.Compile(`(:h2 getting-started "Getting Started")`, ""); err != nil {
		t.Fatal(err)
	}
	refs := e.Refs()
	if len(refs) != 1 || refs[0].ID != "getting-started" || refs[0].Title != "Getting Started" {
		t.Errorf("refs: %v", refs)
	}
}

func TestRefEmitsPlaceholders(t *testing.T) {
	got := compile(t, `(:ref install-linux)`)
	if !strings.Contains(got, `<a href="`) || !HasRefPlaceholders(got) {
		t.Fatalf("got %q", got)
	}

	// Explicit link text short-circuits the title placeholder.
	got = compile(t, `(:ref install-linux "see here")`)
	if !strings.Contains(got, ">see here</a>") {
		t.Errorf("got %q", got)
	}
	if strings.Contains(got, refTitleOpen) {
		t.Errorf("title placeholder left in %q", got)
	}

	compileErr(t, `(:ref)`, errs.CodeArity)
}

func TestResolveRefs(t *testing.T) {
	e := New()
	body, err := e.Compile(`(:ref install) (:ref missing "gone")`, "")
	if err != nil {
		t.Fatal(err)
	}

	resolved, unresolved := ResolveRefs(body, func(id string) (string, string, bool) {
		if id == "install" {
			return "../install/#install", "Installation", true
		}
		return "", "", false
	})
	if !strings.Contains(resolved, `<a href="../install/#install">Installation</a>`) {
		t.Errorf("resolved: %q", resolved)
	}
	// Unknown ids degrade to a bare fragment and are reported.
	if !strings.Contains(resolved, `<a href="#missing">gone</a>`) {
		t.Errorf("fallback: %q", resolved)
	}
	if len(unresolved) != 1 || unresolved[0] != "missing" {
		t.Errorf("unresolved: %v", unresolved)
	}
	if HasRefPlaceholders(resolved) {
		t.Errorf("placeholders left in %q", resolved)
	}
}

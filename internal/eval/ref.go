package eval

import (
	"regexp"
	"strings"

	"nickandperla.net/rocket/internal/errs"
	"nickandperla.net/rocket/internal/expr"
	"nickandperla.net/rocket/internal/token"
)

// RefDef is one reference target registered during a compile: an anchor
// id on the page that defined it, with a display title. Headings
// register themselves under their anchor id; define-ref registers an
// explicit id.
type RefDef struct {
	ID    string
	Title string
}

// Reference links cannot resolve while a single page compiles: the
// target may live in a page not built yet. ref emits placeholder tokens
// instead, and the build layer rewrites them once every page's targets
// are known.
const (
	refPathOpen  = "@@ref-path:"
	refTitleOpen = "@@ref-title:"
	refClose     = "@@"
)

var refPlaceholderPattern = regexp.MustCompile(`@@ref-(path|title):([^@]*)@@`)

func refPathPlaceholder(id string) string  { return refPathOpen + id + refClose }
func refTitlePlaceholder(id string) string { return refTitleOpen + id + refClose }

// builtinDefineRef registers (:define-ref id title) as a reference
// target on the current page and emits nothing.
func builtinDefineRef(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	if len(args) != 2 {
		return "", errs.Arity(pos, "define-ref", "expected (id title)")
	}
	id, err := e.evalName(args[0], scope)
	if err != nil {
		return "", err
	}
	title, err := e.eval(args[1], scope)
	if err != nil {
		return "", err
	}
	e.refs = append(e.refs, RefDef{ID: id, Title: title})
	return "", nil
}

// builtinRef emits a cross-document link to a registered reference id.
// Without an explicit link text the target's own title is used.
func builtinRef(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	if len(args) < 1 || len(args) > 2 {
		return "", errs.Arity(pos, "ref", "expected (id text?)")
	}
	id, err := e.evalName(args[0], scope)
	if err != nil {
		return "", err
	}
	text := refTitlePlaceholder(id)
	if len(args) == 2 {
		text, err = e.eval(args[1], scope)
		if err != nil {
			return "", err
		}
	}
	return `<a href="` + refPathPlaceholder(id) + `">` + text + `</a>`, nil
}

// ResolveRefs rewrites every reference placeholder in body. lookup maps
// a reference id to the link target and title; ids it cannot map are
// returned so the caller can report them, with the id itself left as
// visible text and a bare fragment as the link.
func ResolveRefs(body string, lookup func(id string) (href, title string, ok bool)) (string, []string) {
	var unresolved []string
	out := refPlaceholderPattern.ReplaceAllStringFunc(body, func(m string) string {
		sub := refPlaceholderPattern.FindStringSubmatch(m)
		action, id := sub[1], sub[2]
		href, title, ok := lookup(id)
		if !ok {
			unresolved = append(unresolved, id)
			if action == "path" {
				return "#" + id
			}
			return id
		}
		if action == "path" {
			return href
		}
		return title
	})
	return out, unresolved
}

// HasRefPlaceholders reports whether body still carries unresolved
// reference tokens.
func HasRefPlaceholders(body string) bool {
	return strings.Contains(body, refPathOpen) || strings.Contains(body, refTitleOpen)
}

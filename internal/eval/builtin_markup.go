package eval

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"nickandperla.net/rocket/internal/errs"
	"nickandperla.net/rocket/internal/expr"
	"nickandperla.net/rocket/internal/token"
)

// htmlEscape escapes attribute and inline text characters.
func htmlEscape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, ch := range s {
		switch ch {
		case '"':
			sb.WriteString("&#34;")
		case '\'':
			sb.WriteString("&#39;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		case '&':
			sb.WriteString("&amp;")
		default:
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// titleToID derives an anchor id from a heading title: lowercased
// alphanumerics, spaces as dashes, other runes as their code point.
func titleToID(title string) string {
	var sb strings.Builder
	sb.Grow(len(title))
	for _, ch := range title {
		switch {
		case unicode.IsLetter(ch) || unicode.IsDigit(ch):
			sb.WriteString(strings.ToLower(string(ch)))
		case ch == '-' || ch == '_':
			sb.WriteRune(ch)
		case ch == ' ':
			sb.WriteByte('-')
		default:
			sb.WriteString(strconv.FormatUint(uint64(ch), 10))
		}
	}
	return sb.String()
}

// heading emits <hN id="...">. One argument is a title with a derived
// id; two arguments are an explicit id then the title. The first
// heading of a document sets the title metadata key.
func heading(level int) builtin {
	return func(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
		var id, title string
		var err error
		switch len(args) {
		case 1:
			title, err = e.eval(args[0], scope)
			id = titleToID(title)
		case 2:
			id, err = e.evalName(args[0], scope)
			if err == nil {
				title, err = e.eval(args[1], scope)
			}
		default:
			return "", errs.Arity(pos, fmt.Sprintf("h%d", level), "expected (id? title)")
		}
		if err != nil {
			return "", err
		}
		if _, ok := e.metadata["title"]; !ok {
			e.metadata["title"] = title
		}
		// Headings are linkable: their anchor id doubles as a
		// reference target.
		e.refs = append(e.refs, RefDef{ID: id, Title: title})
		return fmt.Sprintf(`<h%d id="%s">%s</h%d>`, level, htmlEscape(id), title, level), nil
	}
}

// builtinCode trims its body and hands it to the highlighter. Without a
// highlighter it falls back to an escaped pre/code block.
func builtinCode(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	if len(args) < 1 {
		return "", errs.Arity(pos, "code", "expected (language body...)")
	}
	language, err := e.eval(args[0], scope)
	if err != nil {
		return "", err
	}
	body, err := e.evalSequence(args[1:], scope)
	if err != nil {
		return "", err
	}
	body = strings.TrimSpace(body)
	if e.photon == nil {
		return fmt.Sprintf(`<pre><code class="language-%s">%s</code></pre>`,
			htmlEscape(language), htmlEscape(body)), nil
	}
	return e.photon.Highlight(language, body)
}

func formattingMarker(tag string) builtin {
	return func(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
		body, err := e.evalJoined(args, scope, " ")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("<%s>%s</%s>", tag, body, tag), nil
	}
}

func builtinLink(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	if len(args) < 1 {
		return "", errs.Arity(pos, "link", "expected (href body...)")
	}
	href, err := e.eval(args[0], scope)
	if err != nil {
		return "", err
	}
	href = htmlEscape(href)
	body, err := e.evalJoined(args[1:], scope, " ")
	if err != nil {
		return "", err
	}
	if body == "" {
		body = href
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, href, body), nil
}

func htmlList(tag string) builtin {
	return func(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
		var sb strings.Builder
		fmt.Fprintf(&sb, "<%s>", tag)
		for _, arg := range args {
			item, err := e.eval(arg, scope)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&sb, "<li>%s</li>", item)
		}
		fmt.Fprintf(&sb, "</%s>", tag)
		return sb.String(), nil
	}
}

func builtinFigure(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	if len(args) < 2 || len(args) > 3 {
		return "", errs.Arity(pos, "figure", "expected (src alt width?)")
	}
	src, err := e.eval(args[0], scope)
	if err != nil {
		return "", err
	}
	alt, err := e.eval(args[1], scope)
	if err != nil {
		return "", err
	}
	width := ""
	if len(args) == 3 {
		raw, err := e.eval(args[2], scope)
		if err != nil {
			return "", err
		}
		n, err := strconv.ParseUint(raw, 10, 16)
		if err != nil {
			return "", errs.Arity(args[2].Pos(), "figure", "width must be a small integer")
		}
		width = fmt.Sprintf(" width=%dpx", n)
	}
	return fmt.Sprintf(`<img src="%s" alt="%s"%s>`, htmlEscape(src), htmlEscape(alt), width), nil
}

// builtinGlossary renders (term body...) children as a definition list
// with per-term anchor ids.
func builtinGlossary(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	var sb strings.Builder
	sb.WriteString(`<dl class="glossary">`)
	for _, arg := range args {
		entry, ok := arg.(expr.List)
		if !ok || len(entry.Items) < 1 {
			return "", errs.Arity(arg.Pos(), "glossary", "expected (term body...) lists")
		}
		term, err := e.eval(entry.Items[0], scope)
		if err != nil {
			return "", err
		}
		body, err := e.evalJoined(entry.Items[1:], scope, " ")
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, `<dt id="term-%s">%s</dt><dd>%s</dd>`, htmlEscape(term), term, body)
	}
	sb.WriteString("</dl>")
	return sb.String(), nil
}

// builtinSteps renders numbered step blocks. Each child is a three-item
// list whose first element is ignored, then title, then body.
func builtinSteps(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	var sb strings.Builder
	sb.WriteString(`<div class="steps">`)
	for i, arg := range args {
		step, ok := arg.(expr.List)
		if !ok || len(step.Items) != 3 {
			return "", errs.Arity(arg.Pos(), "steps", "expected (step title body) lists")
		}
		title, err := e.eval(step.Items[1], scope)
		if err != nil {
			return "", err
		}
		body, err := e.eval(step.Items[2], scope)
		if err != nil {
			return "", err
		}
		sb.WriteString(`<div class="steps__step"><div class="steps__bullet"><div class="steps__stepnumber">`)
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(`</div></div>`)
		fmt.Fprintf(&sb, `<h4>%s</h4><div>%s</div></div>`, title, body)
	}
	sb.WriteString("</div>")
	return sb.String(), nil
}

// builtinToctree records navigation entries for the build layer and
// emits nothing. Arguments are a bare slug or a (title slug) pair.
func builtinToctree(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	for _, arg := range args {
		switch v := arg.(type) {
		case expr.List:
			if len(v.Items) != 2 {
				return "", errs.Arity(v.At, "toctree", "expected slug or (title slug)")
			}
			title, err := e.eval(v.Items[0], scope)
			if err != nil {
				return "", err
			}
			slug, err := e.evalName(v.Items[1], scope)
			if err != nil {
				return "", err
			}
			e.toctree = append(e.toctree, TocEntry{Slug: slug, Title: title})
		default:
			slug, err := e.evalName(arg, scope)
			if err != nil {
				return "", err
			}
			e.toctree = append(e.toctree, TocEntry{Slug: slug})
		}
	}
	return "", nil
}

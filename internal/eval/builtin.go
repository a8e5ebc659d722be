package eval

import (
	"fmt"
	"strings"

	"nickandperla.net/rocket/internal/errs"
	"nickandperla.net/rocket/internal/expr"
	"nickandperla.net/rocket/internal/token"
)

// builtin is one built-in directive handler. pos is the call head's
// position; args are the unevaluated argument expressions.
type builtin func(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error)

// builtins is consulted before any user binding; a built-in name can
// never be shadowed. Populated in init so the handlers can call back
// into the evaluator's dispatch.
var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"null":            builtinNull,
		"let":             builtinLet,
		"version":         builtinVersion,
		"concat":          builtinConcat,
		"md":              builtinMd,
		"definition-list": builtinDefinitionList,
		"theme-config":    builtinThemeConfig,
		"define":          builtinDefine,
		"define-template": builtinDefineTemplate,
		"include":         builtinInclude,
		"import":          builtinImport,
		"note":            admonition("Note", "note"),
		"warning":         admonition("Warning", "warning"),

		"if":         builtinIf,
		"not":        builtinNot,
		"equals":     builtinEquals,
		"not-equals": builtinNotEquals,

		"h1": heading(1),
		"h2": heading(2),
		"h3": heading(3),
		"h4": heading(4),
		"h5": heading(5),
		"h6": heading(6),

		"code":       builtinCode,
		"strong":     formattingMarker("strong"),
		"em":         formattingMarker("em"),
		"tt":         formattingMarker("tt"),
		"link":       builtinLink,
		"ol":         htmlList("ol"),
		"ul":         htmlList("ul"),
		"figure":     builtinFigure,
		"glossary":   builtinGlossary,
		"steps":      builtinSteps,
		"toctree":    builtinToctree,
		"define-ref": builtinDefineRef,
		"ref":        builtinRef,
	}
}

func builtinNull(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	return "", nil
}

// builtinLet binds a flat name/value pair sequence into one child scope
// and evaluates the body there. Values are evaluated sequentially, so
// each sees the bindings before it.
func builtinLet(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	if len(args) < 1 {
		return "", errs.Arity(pos, "let", "expected a binding list")
	}
	pairs, ok := args[0].(expr.List)
	if !ok {
		return "", errs.Arity(pos, "let", "first argument must be a binding list")
	}
	if len(pairs.Items)%2 != 0 {
		return "", errs.Arity(pos, "let", "binding list must hold name/value pairs")
	}

	frame := e.env.NewChild(scope)
	defer e.env.Release(frame)

	for i := 0; i < len(pairs.Items); i += 2 {
		name, err := e.evalName(pairs.Items[i], frame)
		if err != nil {
			return "", err
		}
		value, err := e.eval(pairs.Items[i+1], frame)
		if err != nil {
			return "", err
		}
		e.env.Define(frame, name, Binding{Kind: BindValue, Value: value})
	}

	return e.evalSequence(args[1:], frame)
}

// builtinVersion returns the version string, optionally shaped by a
// format expression evaluated with `version` bound.
func builtinVersion(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	version := ""
	if e.version != nil {
		version = e.version()
	}
	switch len(args) {
	case 0:
		return version, nil
	case 1:
		frame := e.env.NewChild(scope)
		defer e.env.Release(frame)
		e.env.Define(frame, "version", Binding{Kind: BindValue, Value: version})
		return e.eval(args[0], frame)
	default:
		return "", errs.Arity(pos, "version", "expected at most one format expression")
	}
}

func builtinConcat(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	return e.evalSequence(args, scope)
}

func builtinMd(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	if len(args) != 1 {
		return "", errs.Arity(pos, "md", "expected one argument")
	}
	source, err := e.eval(args[0], scope)
	if err != nil {
		return "", err
	}
	if e.markdown == nil {
		return source, nil
	}
	return e.markdown.Render(source)
}

// builtinDefinitionList renders term/definition pairs in input order.
// Each child list's head is the term; the rest is the definition body.
func builtinDefinitionList(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	var sb strings.Builder
	for _, arg := range args {
		item, ok := arg.(expr.List)
		if !ok || len(item.Items) < 2 {
			return "", errs.Arity(arg.Pos(), "definition-list", "expected (term body...) lists")
		}
		term, err := e.eval(item.Items[0], scope)
		if err != nil {
			return "", err
		}
		body, err := e.evalJoined(item.Items[1:], scope, " ")
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "<dt>%s</dt><dd>%s</dd>", term, body)
	}
	return sb.String(), nil
}

// builtinThemeConfig writes evaluated key/value pairs into the document
// metadata map. Last write per key wins.
func builtinThemeConfig(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	if len(args)%2 != 0 {
		return "", errs.Arity(pos, "theme-config", "expected key/value pairs")
	}
	for i := 0; i < len(args); i += 2 {
		key, err := e.evalName(args[i], scope)
		if err != nil {
			return "", err
		}
		value, err := e.eval(args[i+1], scope)
		if err != nil {
			return "", err
		}
		e.metadata[key] = value
	}
	return "", nil
}

// builtinDefine stores a zero-argument macro in the current scope. The
// body stays unevaluated and runs in the environment active at each
// invocation site. The eager form (:define evaluate name expr) stores
// the evaluated result instead.
func builtinDefine(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	switch len(args) {
	case 2:
		name, err := e.evalName(args[0], scope)
		if err != nil {
			return "", err
		}
		e.env.Define(scope, name, Binding{Kind: BindMacro, Macro: args[1]})
		return "", nil
	case 3:
		if expr.Text(args[0]) != "evaluate" {
			return "", errs.Arity(pos, "define", `three-argument form must start with "evaluate"`)
		}
		name, err := e.evalName(args[1], scope)
		if err != nil {
			return "", err
		}
		value, err := e.eval(args[2], scope)
		if err != nil {
			return "", err
		}
		e.env.Define(scope, name, Binding{Kind: BindValue, Value: value})
		return "", nil
	default:
		return "", errs.Arity(pos, "define", "expected (name body) or (evaluate name expr)")
	}
}

// builtinDefineTemplate registers (:define-template name (slots...) body)
// in the current scope. Redefinition shadows: the new pattern is tried
// before every earlier one sharing the name.
func builtinDefineTemplate(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	if len(args) != 3 {
		return "", errs.Arity(pos, "define-template", "expected (name (slots...) body)")
	}
	name, err := e.evalName(args[0], scope)
	if err != nil {
		return "", err
	}
	slots, ok := args[1].(expr.List)
	if !ok {
		return "", errs.Arity(pos, "define-template", "second argument must be a slot list")
	}
	def, err := compileTemplate(name, slots, args[2])
	if err != nil {
		return "", err
	}

	stack := []templateDef{def}
	if existing, ok := e.env.Lookup(scope, name); ok && existing.Kind == BindTemplates {
		stack = append(stack, existing.Templates...)
	}
	e.env.Define(scope, name, Binding{Kind: BindTemplates, Templates: stack})
	return "", nil
}

// builtinInclude splices another document's output in place. The
// included document evaluates in a fresh scope parented at the root, so
// its definitions never leak back.
func builtinInclude(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	canonical, doc, err := e.resolveArg(scope, pos, "include", args)
	if err != nil {
		return "", err
	}
	if err := e.resolver.Enter(canonical, pos); err != nil {
		return "", err
	}
	defer e.resolver.Exit()

	out, err := e.evalDocument(doc, e.env.Root())
	if err != nil {
		return "", errs.Chain(pos, canonical, err)
	}
	return out, nil
}

// builtinImport evaluates another document the way include does, then
// discards its text and merges its top-level definition table into the
// caller's current scope.
func builtinImport(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	canonical, doc, err := e.resolveArg(scope, pos, "import", args)
	if err != nil {
		return "", err
	}
	if err := e.resolver.Enter(canonical, pos); err != nil {
		return "", err
	}
	defer e.resolver.Exit()

	frame := e.env.NewChild(e.env.Root())
	defer e.env.Release(frame)
	if _, err := e.evalSequence(doc, frame); err != nil {
		return "", errs.Chain(pos, canonical, err)
	}
	for _, name := range e.env.Names(frame) {
		if b, ok := e.env.Local(frame, name); ok {
			e.env.Define(scope, name, b)
		}
	}
	return "", nil
}

func (e *Evaluator) resolveArg(scope ScopeID, pos token.Pos, directive string, args []expr.Expr) (string, []expr.Expr, error) {
	if len(args) != 1 {
		return "", nil, errs.Arity(pos, directive, "expected one path argument")
	}
	rel, err := e.eval(args[0], scope)
	if err != nil {
		return "", nil, err
	}
	canonical := e.resolver.Canonical(pos.File, rel)
	doc, err := e.resolver.Resolve(canonical, args[0].Pos())
	if err != nil {
		return "", nil, err
	}
	return canonical, doc, nil
}

// admonition renders a titled callout block. One argument is the body
// with the default title; two arguments are title then body.
func admonition(defaultTitle, class string) builtin {
	return func(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
		title := defaultTitle
		var body string
		var err error
		switch len(args) {
		case 1:
			body, err = e.eval(args[0], scope)
		case 2:
			title, err = e.eval(args[0], scope)
			if err == nil {
				body, err = e.eval(args[1], scope)
			}
		default:
			return "", errs.Arity(pos, class, "expected (title? body)")
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			`<div class="admonition admonition-%s"><span class="admonition-title admonition-title-%s">%s</span>%s</div>`+"\n",
			class, class, title, body), nil
	}
}

// evalName resolves an expression used in name position: symbols and
// numbers contribute their lexeme, anything else is evaluated.
func (e *Evaluator) evalName(node expr.Expr, scope ScopeID) (string, error) {
	switch v := node.(type) {
	case expr.Symbol:
		return strings.TrimPrefix(v.Name, ":"), nil
	case expr.Number:
		return v.Literal, nil
	default:
		return e.eval(node, scope)
	}
}

// evalJoined evaluates items and joins the non-empty results with sep.
func (e *Evaluator) evalJoined(items []expr.Expr, scope ScopeID, sep string) (string, error) {
	parts, err := e.evalArgs(items, scope)
	if err != nil {
		return "", err
	}
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep), nil
}

package eval

import (
	"fmt"
	"regexp"

	"nickandperla.net/rocket/internal/errs"
	"nickandperla.net/rocket/internal/expr"
	"nickandperla.net/rocket/internal/token"
)

// templateSlot matches one positional argument. A slot is either a
// literal token (pattern nil) or an anchored regex whose capture groups
// bind variables in the template body's scope.
type templateSlot struct {
	literal string
	pattern *regexp.Regexp
	groups  []string
}

// templateDef is one registered pattern for a template name. Definitions
// sharing a name stack newest first.
type templateDef struct {
	slots []templateSlot
	body  expr.Expr
}

// compileTemplate builds a templateDef from a slot list and body. String
// slots compile to full-match regexes; symbol and number slots are literal
// tokens. Unnamed capture groups bind positionally as $1..$n counting
// across every slot in order; named groups bind under their own name.
func compileTemplate(name string, slots expr.List, body expr.Expr) (templateDef, error) {
	def := templateDef{body: body}
	group := 0
	for _, slot := range slots.Items {
		switch v := slot.(type) {
		case expr.String:
			re, err := regexp.Compile(`\A(?:` + v.Value + `)\z`)
			if err != nil {
				return templateDef{}, errs.Syntax(v.At,
					"invalid pattern %q in template %q: %v", v.Value, name, err)
			}
			names := re.SubexpNames()[1:]
			groups := make([]string, len(names))
			for i, n := range names {
				group++
				if n == "" {
					n = fmt.Sprintf("$%d", group)
				}
				groups[i] = n
			}
			def.slots = append(def.slots, templateSlot{pattern: re, groups: groups})
		case expr.Symbol:
			def.slots = append(def.slots, templateSlot{literal: v.Name})
		case expr.Number:
			def.slots = append(def.slots, templateSlot{literal: v.Literal})
		default:
			return templateDef{}, errs.Syntax(slot.Pos(),
				"template %q: pattern slot must be a token or string", name)
		}
	}
	return def, nil
}

// matchTemplate tries every definition newest first and returns the first
// whose slots all accept the evaluated arguments, along with the capture
// bindings it produced.
func matchTemplate(defs []templateDef, args []string) (templateDef, map[string]string, bool) {
	for _, def := range defs {
		if len(def.slots) != len(args) {
			continue
		}
		captures := make(map[string]string)
		ok := true
		for i, slot := range def.slots {
			if slot.pattern == nil {
				if args[i] != slot.literal {
					ok = false
					break
				}
				continue
			}
			m := slot.pattern.FindStringSubmatch(args[i])
			if m == nil {
				ok = false
				break
			}
			for gi, name := range slot.groups {
				captures[name] = m[gi+1]
			}
		}
		if ok {
			return def, captures, true
		}
	}
	return templateDef{}, nil, false
}

// evalTemplateArgs stringifies call arguments for matching, once each,
// left to right. Unbound symbols contribute their lexeme so they can
// match literal slots; everything else evaluates normally.
func (e *Evaluator) evalTemplateArgs(args []expr.Expr, scope ScopeID) ([]string, error) {
	out := make([]string, len(args))
	for i, arg := range args {
		if sym, ok := arg.(expr.Symbol); ok {
			if _, bound := e.env.Lookup(scope, sym.Name); !bound {
				out[i] = sym.Name
				continue
			}
		}
		v, err := e.eval(arg, scope)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// invokeTemplate evaluates the matched body in a fresh child scope holding
// the capture bindings.
func (e *Evaluator) invokeTemplate(scope ScopeID, pos token.Pos, name string, defs []templateDef, args []string) (string, error) {
	def, captures, ok := matchTemplate(defs, args)
	if !ok {
		return "", errs.NoMatchingTemplate(pos, name)
	}

	frame := e.env.NewChild(scope)
	defer e.env.Release(frame)
	for k, v := range captures {
		e.env.Define(frame, k, Binding{Kind: BindValue, Value: v})
	}

	result, err := e.eval(def.body, frame)
	if err != nil {
		return "", err
	}
	return e.maybeReeval(result, scope, pos)
}

package eval

import (
	"strings"

	"nickandperla.net/rocket/internal/errs"
	"nickandperla.net/rocket/internal/expr"
	"nickandperla.net/rocket/internal/parser"
	"nickandperla.net/rocket/internal/token"
)

// Markdown renders embedded Markdown source to HTML.
type Markdown interface {
	Render(source string) (string, error)
}

// Highlighter renders a code block for the given language to HTML.
type Highlighter interface {
	Highlight(language, source string) (string, error)
}

// VersionProvider supplies the project version string.
type VersionProvider func() string

// TocEntry is one document recorded by a toctree directive, in document
// order. Title is empty when the target page's own title should be used.
type TocEntry struct {
	Slug  string
	Title string
}

// DefaultMaxDepth bounds macro re-entry.
const DefaultMaxDepth = 100

// Evaluator compiles Rocket documents to output text. Evaluation is
// single-threaded and strictly depth-first; an Evaluator must not be
// shared between goroutines.
type Evaluator struct {
	env      *Environment
	resolver *Resolver
	markdown Markdown
	photon   Highlighter
	version  VersionProvider
	metadata map[string]string
	toctree  []TocEntry
	refs     []RefDef
	depth    int
	maxDepth int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMarkdown sets the Markdown renderer collaborator. Without one,
// md directives pass their body through unchanged.
func WithMarkdown(m Markdown) Option {
	return func(e *Evaluator) { e.markdown = m }
}

// WithHighlighter sets the code highlighter collaborator. Without one,
// code directives emit an escaped pre/code block.
func WithHighlighter(h Highlighter) Option {
	return func(e *Evaluator) { e.photon = h }
}

// WithVersion sets the version string provider.
func WithVersion(v VersionProvider) Option {
	return func(e *Evaluator) { e.version = v }
}

// WithLoader sets the document loader used by include and import.
func WithLoader(l Loader) Option {
	return func(e *Evaluator) { e.resolver = NewResolver(l) }
}

// WithMaxDepth overrides the macro recursion bound.
func WithMaxDepth(n int) Option {
	return func(e *Evaluator) { e.maxDepth = n }
}

// New creates an Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		env:      NewEnvironment(),
		metadata: make(map[string]string),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.resolver == nil {
		e.resolver = NewResolver(LoaderFunc(func(path string) ([]byte, error) {
			return nil, errs.FileIO(token.Pos{}, path, errNoLoader)
		}))
	}
	return e
}

var errNoLoader = &noLoaderError{}

type noLoaderError struct{}

func (*noLoaderError) Error() string { return "no document loader configured" }

// Reset clears all per-document state so the Evaluator can compile the
// next page of a build. Parsed ASTs stay cached; they are immutable, so
// reuse across documents is safe.
func (e *Evaluator) Reset() {
	e.env = NewEnvironment()
	e.metadata = make(map[string]string)
	e.toctree = nil
	e.refs = nil
	e.depth = 0
}

// Metadata returns the document metadata map written by theme-config
// and the heading directives. Valid until the next Reset.
func (e *Evaluator) Metadata() map[string]string { return e.metadata }

// Toctree returns the entries recorded by toctree directives, in
// document order.
func (e *Evaluator) Toctree() []TocEntry { return e.toctree }

// Refs returns the reference targets the document registered, in
// document order.
func (e *Evaluator) Refs() []RefDef { return e.refs }

// Compile evaluates in-memory source. The file name is attached to
// positions and anchors relative include paths; it may be empty.
func (e *Evaluator) Compile(source, file string) (string, error) {
	doc, err := parser.ParseString(source, file)
	if err != nil {
		return "", err
	}
	if file != "" {
		canonical := e.resolver.Canonical(".", file)
		if err := e.resolver.Enter(canonical, token.Pos{File: file, Line: 1, Column: 1}); err != nil {
			return "", err
		}
		defer e.resolver.Exit()
	}
	return e.evalDocument(doc, e.env.Root())
}

// CompileFile loads, parses, and evaluates the document at path through
// the resolver.
func (e *Evaluator) CompileFile(path string) (string, error) {
	canonical := e.resolver.Canonical(".", path)
	at := token.Pos{File: path, Line: 1, Column: 1}
	doc, err := e.resolver.Resolve(canonical, at)
	if err != nil {
		return "", err
	}
	if err := e.resolver.Enter(canonical, at); err != nil {
		return "", err
	}
	defer e.resolver.Exit()
	return e.evalDocument(doc, e.env.Root())
}

// evalDocument evaluates top-level expressions in order inside a fresh
// scope parented at root and concatenates their results.
func (e *Evaluator) evalDocument(doc []expr.Expr, parent ScopeID) (string, error) {
	frame := e.env.NewChild(parent)
	defer e.env.Release(frame)
	return e.evalSequence(doc, frame)
}

func (e *Evaluator) evalSequence(items []expr.Expr, scope ScopeID) (string, error) {
	var sb strings.Builder
	for _, item := range items {
		out, err := e.eval(item, scope)
		if err != nil {
			return "", err
		}
		sb.WriteString(out)
	}
	return sb.String(), nil
}

// eval produces the string value of one expression. Every expression
// evaluates to a string; side-effecting directives return "".
func (e *Evaluator) eval(node expr.Expr, scope ScopeID) (string, error) {
	switch v := node.(type) {
	case expr.String:
		return v.Value, nil
	case expr.Number:
		return v.Literal, nil
	case expr.Symbol:
		return e.evalSymbol(v, scope)
	case expr.List:
		return e.evalList(v, scope)
	default:
		return "", errs.Syntax(node.Pos(), "unexpected expression %s", node)
	}
}

func (e *Evaluator) evalSymbol(sym expr.Symbol, scope ScopeID) (string, error) {
	b, ok := e.env.Lookup(scope, sym.Name)
	if !ok {
		return "", errs.NotFound(sym.At, sym.Name)
	}
	switch b.Kind {
	case BindValue:
		return b.Value, nil
	case BindMacro:
		return e.invokeMacro(scope, sym.At, sym.Name, b, nil)
	default:
		return "", errs.Arity(sym.At, sym.Name, "template referenced without arguments")
	}
}

// evalList dispatches a directive call. The head names the directive:
// built-in handlers win, then user bindings via scope lookup. A head
// that is itself a list evaluates to the directive name first.
func (e *Evaluator) evalList(list expr.List, scope ScopeID) (string, error) {
	if len(list.Items) == 0 {
		return "", nil
	}

	var name string
	head := list.Items[0]
	switch h := head.(type) {
	case expr.Symbol:
		name = h.Name
	case expr.Number:
		name = h.Literal
	case expr.String:
		name = h.Value
	case expr.List:
		out, err := e.eval(h, scope)
		if err != nil {
			return "", err
		}
		name = out
	}
	name = strings.TrimPrefix(name, ":")
	args := list.Items[1:]

	if fn, ok := builtins[name]; ok {
		return fn(e, scope, head.Pos(), args)
	}

	b, ok := e.env.Lookup(scope, name)
	if !ok {
		return "", errs.UnknownDirective(head.Pos(), name)
	}
	switch b.Kind {
	case BindValue:
		if len(args) != 0 {
			return "", errs.Arity(head.Pos(), name, "value takes no arguments")
		}
		return b.Value, nil
	case BindMacro:
		return e.invokeMacro(scope, head.Pos(), name, b, args)
	case BindTemplates:
		evaluated, err := e.evalTemplateArgs(args, scope)
		if err != nil {
			return "", err
		}
		return e.invokeTemplate(scope, head.Pos(), name, b.Templates, evaluated)
	default:
		return "", errs.UnknownDirective(head.Pos(), name)
	}
}

// invokeMacro re-evaluates a stored define body in a frame child of the
// call site's environment.
func (e *Evaluator) invokeMacro(scope ScopeID, pos token.Pos, name string, b Binding, args []expr.Expr) (string, error) {
	if len(args) != 0 {
		return "", errs.Arity(pos, name, "macro takes no arguments")
	}
	if err := e.enter(pos); err != nil {
		return "", err
	}
	defer e.leave()

	frame := e.env.NewChild(scope)
	result, err := e.eval(b.Macro, frame)
	e.env.Release(frame)
	if err != nil {
		return "", err
	}
	return e.maybeReeval(result, scope, pos)
}

// maybeReeval re-parses and re-evaluates a macro or template result that
// still contains directive syntax, bounded by the recursion counter.
func (e *Evaluator) maybeReeval(result string, scope ScopeID, pos token.Pos) (string, error) {
	if !strings.Contains(result, "(:") {
		return result, nil
	}
	if err := e.enter(pos); err != nil {
		return "", err
	}
	defer e.leave()

	doc, err := parser.ParseString(result, pos.File)
	if err != nil {
		return "", err
	}
	return e.evalSequence(doc, scope)
}

func (e *Evaluator) enter(pos token.Pos) error {
	e.depth++
	if e.depth > e.maxDepth {
		return errs.RecursionLimit(pos, e.maxDepth)
	}
	return nil
}

func (e *Evaluator) leave() { e.depth-- }

// evalArgs evaluates each argument once, left to right.
func (e *Evaluator) evalArgs(args []expr.Expr, scope ScopeID) ([]string, error) {
	out := make([]string, len(args))
	for i, arg := range args {
		v, err := e.eval(arg, scope)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

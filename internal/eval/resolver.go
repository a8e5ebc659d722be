package eval

import (
	"path/filepath"

	"nickandperla.net/rocket/internal/errs"
	"nickandperla.net/rocket/internal/expr"
	"nickandperla.net/rocket/internal/parser"
	"nickandperla.net/rocket/internal/token"
)

// Loader reads document bytes for include and import. Implementations
// outside the core decide what a path means; tests use in-memory maps.
type Loader interface {
	Load(path string) ([]byte, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) ([]byte, error)

func (f LoaderFunc) Load(path string) ([]byte, error) { return f(path) }

// Resolver turns include/import paths into parsed documents. Each
// distinct canonical path is parsed at most once; the cached AST is
// immutable and shared across every call site. A stack of in-progress
// paths catches cycles.
type Resolver struct {
	loader Loader
	cache  map[string][]expr.Expr
	active []string
	onPath map[string]bool
}

// NewResolver creates a Resolver backed by the given loader.
func NewResolver(loader Loader) *Resolver {
	return &Resolver{
		loader: loader,
		cache:  make(map[string][]expr.Expr),
		onPath: make(map[string]bool),
	}
}

// Canonical resolves rel against the directory of the document issuing
// the call. Absolute paths pass through untouched.
func (r *Resolver) Canonical(fromFile, rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Clean(filepath.Join(filepath.Dir(fromFile), rel))
}

// Resolve loads and parses the document at the canonical path, serving
// repeat requests from the cache.
func (r *Resolver) Resolve(canonical string, at token.Pos) ([]expr.Expr, error) {
	if doc, ok := r.cache[canonical]; ok {
		return doc, nil
	}
	data, err := r.loader.Load(canonical)
	if err != nil {
		return nil, errs.FileIO(at, canonical, err)
	}
	doc, err := parser.ParseString(string(data), canonical)
	if err != nil {
		return nil, err
	}
	r.cache[canonical] = doc
	return doc, nil
}

// Enter pushes a canonical path onto the in-progress stack, failing if
// the path is already being evaluated somewhere up the call chain.
func (r *Resolver) Enter(canonical string, at token.Pos) error {
	if r.onPath[canonical] {
		chain := make([]string, 0, len(r.active)+1)
		chain = append(chain, r.active...)
		chain = append(chain, canonical)
		return errs.CircularImport(at, chain)
	}
	r.active = append(r.active, canonical)
	r.onPath[canonical] = true
	return nil
}

// Exit pops the most recent Enter.
func (r *Resolver) Exit() {
	if n := len(r.active); n > 0 {
		delete(r.onPath, r.active[n-1])
		r.active = r.active[:n-1]
	}
}

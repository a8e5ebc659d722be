package rocket

import (
	"os"

	"nickandperla.net/rocket/internal/eval"
	"nickandperla.net/rocket/internal/highlight"
)

type config struct {
	markdown  eval.Markdown
	highlight eval.Highlighter
	version   eval.VersionProvider
	loader    eval.Loader
	maxDepth  int
}

// Option configures a Compiler.
type Option func(*config)

// WithMarkdown replaces the Markdown renderer used by the md
// directive. Passing nil disables rendering; md then splices its
// argument through unchanged.
func WithMarkdown(m eval.Markdown) Option {
	return func(c *config) { c.markdown = m }
}

// WithHighlighter replaces the syntax highlighter used by the code
// directive. Passing nil falls back to plain escaped code blocks.
func WithHighlighter(h eval.Highlighter) Option {
	return func(c *config) { c.highlight = h }
}

// WithSyntaxTheme selects the chroma style used by the default
// highlighter.
func WithSyntaxTheme(style string) Option {
	return func(c *config) { c.highlight = highlight.NewHighlighter(style) }
}

// WithVersion sets the value reported by the version directive.
func WithVersion(v string) Option {
	return func(c *config) { c.version = func() string { return v } }
}

// WithLoader replaces the loader used by include and import. The
// default reads from the file system.
func WithLoader(l eval.Loader) Option {
	return func(c *config) { c.loader = l }
}

// WithLoaderFunc is WithLoader for a plain function.
func WithLoaderFunc(f func(path string) ([]byte, error)) Option {
	return func(c *config) { c.loader = eval.LoaderFunc(f) }
}

// WithMaxDepth overrides the macro recursion bound.
func WithMaxDepth(n int) Option {
	return func(c *config) { c.maxDepth = n }
}

func osLoader() eval.Loader {
	return eval.LoaderFunc(func(path string) ([]byte, error) {
		return os.ReadFile(path)
	})
}

// Package rocket provides the public API for compiling Rocket
// documents.
package rocket

import (
	"nickandperla.net/rocket/internal/eval"
	"nickandperla.net/rocket/internal/highlight"
	"nickandperla.net/rocket/internal/markdown"
)

// TocEntry is one table-of-contents entry recorded during a compile,
// in document order.
type TocEntry = eval.TocEntry

// Result is the output of one document compile.
type Result struct {
	// Body is the concatenated output text.
	Body string
	// Metadata is the document metadata written by theme-config and
	// the heading directives.
	Metadata map[string]string
	// Toctree lists the entries recorded by toctree directives.
	Toctree []TocEntry
}

// Compiler compiles Rocket documents. A Compiler is not safe for
// concurrent use; create one per goroutine.
type Compiler struct {
	evaluator *eval.Evaluator
	config    config
}

// New creates a Compiler. By default Markdown renders through
// goldmark, code blocks highlight through chroma, and include paths
// load from the file system.
func New(opts ...Option) *Compiler {
	cfg := config{
		markdown:  markdown.NewRenderer(),
		highlight: highlight.NewHighlighter(""),
		loader:    osLoader(),
		maxDepth:  eval.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	evalOpts := []eval.Option{
		eval.WithMaxDepth(cfg.maxDepth),
	}
	if cfg.markdown != nil {
		evalOpts = append(evalOpts, eval.WithMarkdown(cfg.markdown))
	}
	if cfg.highlight != nil {
		evalOpts = append(evalOpts, eval.WithHighlighter(cfg.highlight))
	}
	if cfg.version != nil {
		evalOpts = append(evalOpts, eval.WithVersion(cfg.version))
	}
	if cfg.loader != nil {
		evalOpts = append(evalOpts, eval.WithLoader(cfg.loader))
	}

	return &Compiler{evaluator: eval.New(evalOpts...), config: cfg}
}

// Compile evaluates source held in memory. The file name anchors
// relative include paths and appears in error positions; it may be
// empty for standalone snippets.
func (c *Compiler) Compile(source, file string) (*Result, error) {
	c.evaluator.Reset()
	body, err := c.evaluator.Compile(source, file)
	if err != nil {
		return nil, err
	}
	return c.result(body), nil
}

// CompileFile loads and evaluates the document at path.
func (c *Compiler) CompileFile(path string) (*Result, error) {
	c.evaluator.Reset()
	body, err := c.evaluator.CompileFile(path)
	if err != nil {
		return nil, err
	}
	return c.result(body), nil
}

func (c *Compiler) result(body string) *Result {
	meta := make(map[string]string)
	for k, v := range c.evaluator.Metadata() {
		meta[k] = v
	}
	return &Result{
		Body:     body,
		Metadata: meta,
		Toctree:  append([]TocEntry(nil), c.evaluator.Toctree()...),
	}
}

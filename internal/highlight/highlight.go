// Package highlight renders code blocks to HTML through chroma.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter colorizes code blocks with inline styles, so the output
// needs no accompanying stylesheet.
type Highlighter struct {
	style string
}

// NewHighlighter creates a highlighter using the named chroma style.
// An empty name selects a reasonable default.
func NewHighlighter(style string) *Highlighter {
	if style == "" {
		style = "friendly"
	}
	return &Highlighter{style: style}
}

// Highlight renders source as HTML for the given language. Unknown
// languages fall back to plain-text lexing rather than failing, so a
// document never breaks on an exotic language tag.
func (h *Highlighter) Highlight(language, source string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get(h.style)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	formatter := html.New(html.WithClasses(false))
	if err := formatter.Format(&sb, style, iterator); err != nil {
		return "", err
	}
	return sb.String(), nil
}

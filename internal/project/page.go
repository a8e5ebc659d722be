package project

import (
	"path"
	"path/filepath"
	"strings"

	"nickandperla.net/rocket/internal/eval"
)

// Slug identifies a page by its content-relative path without extension,
// always slash-separated.
type Slug string

// slugFromPath derives the slug for a content file.
func slugFromPath(contentDir, sourcePath string) Slug {
	rel, err := filepath.Rel(contentDir, sourcePath)
	if err != nil {
		rel = sourcePath
	}
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	return Slug(rel)
}

// OutputPath returns where the rendered page lands under prefix. With
// pretty URLs every page except index becomes slug/index.html.
func (s Slug) OutputPath(prefix string, prettyURL bool) string {
	out := filepath.Join(prefix, filepath.FromSlash(string(s)))
	if prettyURL && s != "index" {
		out = filepath.Join(out, "index")
	}
	return out + ".html"
}

// Depth is how many directories deep the rendered page sits.
func (s Slug) Depth(prettyURL bool) int {
	depth := strings.Count(string(s), "/")
	if prettyURL && s != "index" {
		depth++
	}
	return depth
}

// PathTo builds a relative link from this page to dest.
func (s Slug) PathTo(dest string, prettyURL bool) string {
	return strings.Repeat("../", s.Depth(prettyURL)) + dest
}

// Page is one compiled content file, before theme rendering.
type Page struct {
	SourcePath string
	Slug       Slug
	Body       string
	Meta       map[string]string
	Toc        []eval.TocEntry
	Refs       []eval.RefDef
	Hash       string
}

// Title returns the page title recorded during evaluation.
func (p *Page) Title() string {
	if title, ok := p.Meta["title"]; ok {
		return title
	}
	return "Untitled"
}

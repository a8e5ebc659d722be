package project

import (
	"fmt"
	"html/template"
	"strings"
)

// TocTree is the site navigation assembled from every page's toctree
// entries. A page's entries become its children; pages never referenced
// stay out of the linear reading order.
type TocTree struct {
	titles   map[Slug]string
	children map[Slug][]Slug
	parent   map[Slug]Slug
	roots    []Slug
	order    []Slug
	position map[Slug]int
}

// buildTocTree assembles the tree from compiled pages, rooted at root
// (conventionally "index"). Entry titles override page titles. Entries
// that loop back onto an ancestor are rejected rather than walked
// forever.
func buildTocTree(pages []*Page, root Slug) (*TocTree, error) {
	t := &TocTree{
		titles:   make(map[Slug]string),
		children: make(map[Slug][]Slug),
		parent:   make(map[Slug]Slug),
		position: make(map[Slug]int),
	}

	for _, p := range pages {
		if _, ok := t.titles[p.Slug]; !ok {
			t.titles[p.Slug] = p.Title()
		}
		for _, entry := range p.Toc {
			child := Slug(entry.Slug)
			t.children[p.Slug] = append(t.children[p.Slug], child)
			t.parent[child] = p.Slug
			if entry.Title != "" {
				t.titles[child] = entry.Title
			}
		}
	}

	t.roots = t.children[root]
	if err := t.walk(root, make(map[Slug]bool)); err != nil {
		return nil, err
	}
	for i, s := range t.order {
		t.position[s] = i
	}
	return t, nil
}

func (t *TocTree) walk(s Slug, path map[Slug]bool) error {
	if path[s] {
		return fmt.Errorf("toctree cycle through %q", s)
	}
	path[s] = true
	t.order = append(t.order, s)
	for _, child := range t.children[s] {
		if err := t.walk(child, path); err != nil {
			return err
		}
	}
	delete(path, s)
	return nil
}

// Title returns the display title for a slug.
func (t *TocTree) Title(s Slug) string {
	if title, ok := t.titles[s]; ok {
		return title
	}
	return string(s)
}

// PrevNext returns the neighbours of s in reading order; empty slugs
// mark the ends.
func (t *TocTree) PrevNext(s Slug) (prev, next Slug) {
	i, ok := t.position[s]
	if !ok {
		return "", ""
	}
	if i > 0 {
		prev = t.order[i-1]
	}
	if i+1 < len(t.order) {
		next = t.order[i+1]
	}
	return prev, next
}

// isChildOf reports whether s sits under ancestor in the tree. The
// visited set guards against malformed parent chains.
func (t *TocTree) isChildOf(s, ancestor Slug) bool {
	seen := make(map[Slug]bool)
	for {
		if s == ancestor {
			return true
		}
		if seen[s] {
			return false
		}
		seen[s] = true
		parent, ok := t.parent[s]
		if !ok {
			return false
		}
		s = parent
	}
}

// HTML renders the navigation as nested lists from the perspective of
// the current page: links are relative to it and the active branch is
// tagged current.
func (t *TocTree) HTML(current Slug, prettyURL bool) template.HTML {
	var sb strings.Builder
	t.subtree(&sb, current, t.roots, 1, prettyURL)
	return template.HTML(sb.String())
}

func (t *TocTree) subtree(sb *strings.Builder, current Slug, slugs []Slug, level int, prettyURL bool) {
	if len(slugs) == 0 {
		return
	}
	sb.WriteString(`<ul class="toctree">`)
	for _, s := range slugs {
		marker := ""
		if t.isChildOf(current, s) {
			marker = " current"
		}
		href := current.PathTo(t.href(s, prettyURL), prettyURL)
		fmt.Fprintf(sb, `<li class="toctree-l%d%s"><a class="reference internal%s" href="%s">%s</a>`,
			level, marker, marker, href, template.HTMLEscapeString(t.Title(s)))
		t.subtree(sb, current, t.children[s], level+1, prettyURL)
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")
}

func (t *TocTree) href(s Slug, prettyURL bool) string {
	if prettyURL {
		if s == "index" {
			return ""
		}
		return string(s) + "/"
	}
	return string(s) + ".html"
}

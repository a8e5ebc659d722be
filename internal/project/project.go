package project

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"nickandperla.net/rocket/internal/cache"
	"nickandperla.net/rocket/internal/eval"
	"nickandperla.net/rocket/internal/highlight"
	"nickandperla.net/rocket/internal/markdown"
)

// sourceExt marks compilable content files; anything else in the
// content directory is copied through as an asset.
const sourceExt = ".rkt"

type patternTemplate struct {
	pattern  string
	template string
}

// Project drives a full build: compile every content file, assemble the
// toctree, render through the theme, and write the output tree.
type Project struct {
	cfg      *Config
	theme    *Theme
	eval     *eval.Evaluator
	cache    cache.Cache
	log      *slog.Logger
	patterns []patternTemplate
	dir      string

	prettyURL bool
}

// Open loads the project rooted at dir.
func Open(dir string, logger *slog.Logger) (*Project, error) {
	cfg, err := LoadConfig(filepath.Join(dir, ConfigFile))
	if err != nil {
		return nil, err
	}
	return openWithConfig(dir, cfg, logger)
}

func openWithConfig(dir string, cfg *Config, logger *slog.Logger) (*Project, error) {
	if logger == nil {
		logger = slog.Default()
	}

	theme, err := LoadTheme(filepath.Join(dir, cfg.Theme), cfg.ThemeConstants)
	if err != nil {
		return nil, err
	}

	var pageCache cache.Cache = cache.NewMemory()
	if cfg.Cache != "" {
		pageCache, err = cache.NewSQLite(filepath.Join(dir, cfg.Cache))
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
	}

	version := cfg.Version
	ev := eval.New(
		eval.WithMarkdown(markdown.NewRenderer()),
		eval.WithHighlighter(highlight.NewHighlighter(cfg.SyntaxTheme)),
		eval.WithVersion(func() string { return version }),
		eval.WithLoader(eval.LoaderFunc(os.ReadFile)),
	)

	patterns := make([]patternTemplate, 0, len(cfg.Templates))
	for pat, tmpl := range cfg.Templates {
		if !theme.Has(tmpl) {
			return nil, fmt.Errorf("templates: %q names unknown layout %q", pat, tmpl)
		}
		patterns = append(patterns, patternTemplate{pattern: pat, template: tmpl})
	}
	// Longest pattern first, so specific globs beat catch-alls.
	sort.Slice(patterns, func(i, j int) bool {
		if len(patterns[i].pattern) != len(patterns[j].pattern) {
			return len(patterns[i].pattern) > len(patterns[j].pattern)
		}
		return patterns[i].pattern < patterns[j].pattern
	})

	return &Project{
		cfg:       cfg,
		theme:     theme,
		eval:      ev,
		cache:     pageCache,
		log:       logger,
		patterns:  patterns,
		prettyURL: true,
		dir:       dir,
	}, nil
}

// Close releases the page cache.
func (p *Project) Close() error {
	return p.cache.Close()
}

// Build compiles the whole content tree into the output directory.
func (p *Project) Build() error {
	contentDir := filepath.Join(p.dir, p.cfg.ContentDir)
	outputDir := filepath.Join(p.dir, p.cfg.Output)

	var pages []*Page
	var assets []string

	err := filepath.WalkDir(contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != sourceExt {
			assets = append(assets, path)
			return nil
		}

		page, err := p.buildFile(contentDir, path)
		if err != nil {
			return err
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return err
	}

	toc, err := buildTocTree(pages, "index")
	if err != nil {
		return err
	}
	p.resolveRefs(pages, toc)

	for _, page := range pages {
		if err := p.linkFile(outputDir, page, toc); err != nil {
			return err
		}
	}
	for _, asset := range assets {
		if err := p.copyAsset(contentDir, outputDir, asset); err != nil {
			return err
		}
	}

	p.log.Info("build complete", "pages", len(pages), "assets", len(assets))
	return nil
}

// buildFile compiles one source file, serving unchanged content from
// the page cache.
func (p *Project) buildFile(contentDir, sourcePath string) (*Page, error) {
	slug := slugFromPath(contentDir, sourcePath)

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	if entry, err := p.cache.Get(string(slug)); err == nil && entry != nil && entry.Hash == hash {
		p.log.Debug("cache hit", "slug", slug)
		return &Page{
			SourcePath: sourcePath,
			Slug:       slug,
			Body:       entry.Body,
			Meta:       decodeMeta(entry.Meta),
			Toc:        decodeToc(entry.Toc),
			Refs:       decodeRefs(entry.Refs),
			Hash:       hash,
		}, nil
	}

	p.log.Debug("compiling", "slug", slug)
	p.eval.Reset()
	body, err := p.eval.Compile(string(data), sourcePath)
	if err != nil {
		return nil, err
	}

	page := &Page{
		SourcePath: sourcePath,
		Slug:       slug,
		Body:       body,
		Meta:       cloneMeta(p.eval.Metadata()),
		Toc:        append([]eval.TocEntry(nil), p.eval.Toctree()...),
		Refs:       append([]eval.RefDef(nil), p.eval.Refs()...),
		Hash:       hash,
	}

	err = p.cache.Put(string(slug), cache.Entry{
		Hash: hash,
		Body: page.Body,
		Meta: encodeMeta(page.Meta),
		Toc:  encodeToc(page.Toc),
		Refs: encodeRefs(page.Refs),
	})
	if err != nil {
		p.log.Warn("cache write failed", "slug", slug, "error", err)
	}
	return page, nil
}

// resolveRefs rewrites the reference placeholders left by ref calls now
// that every page's targets are known. Links are made relative to the
// page holding them. A target id registered by more than one page keeps
// the last registration.
func (p *Project) resolveRefs(pages []*Page, toc *TocTree) {
	type target struct {
		slug  Slug
		title string
	}
	index := make(map[string]target)
	for _, page := range pages {
		for _, ref := range page.Refs {
			index[ref.ID] = target{slug: page.Slug, title: ref.Title}
		}
	}

	for _, page := range pages {
		if !eval.HasRefPlaceholders(page.Body) {
			continue
		}
		body, unresolved := eval.ResolveRefs(page.Body, func(id string) (string, string, bool) {
			tgt, ok := index[id]
			if !ok {
				return "", "", false
			}
			href := page.Slug.PathTo(toc.href(tgt.slug, p.prettyURL), p.prettyURL) + "#" + id
			return href, tgt.title, true
		})
		for _, id := range unresolved {
			p.log.Warn("unresolved reference", "slug", page.Slug, "ref", id)
		}
		page.Body = body
	}
}

// linkFile renders a compiled page through its layout and writes it.
func (p *Project) linkFile(outputDir string, page *Page, toc *TocTree) error {
	p.log.Debug("linking", "slug", page.Slug)

	prev, next := toc.PrevNext(page.Slug)
	ctx := PageContext{
		Body:    template.HTML(page.Body),
		Page:    page.Meta,
		Project: map[string]string{"version": p.cfg.Version},
		Toctree: toc.HTML(page.Slug, p.prettyURL),
	}
	if prev != "" {
		ctx.Prev = page.Slug.PathTo(toc.href(prev, p.prettyURL), p.prettyURL)
	}
	if next != "" {
		ctx.Next = page.Slug.PathTo(toc.href(next, p.prettyURL), p.prettyURL)
	}

	rendered, err := p.theme.Render(p.templateFor(page), ctx)
	if err != nil {
		return err
	}

	outputPath := page.Slug.OutputPath(outputDir, p.prettyURL)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte(rendered), 0o644)
}

// templateFor picks the layout whose glob matches the page slug, most
// specific pattern first, falling back to default.
func (p *Project) templateFor(page *Page) string {
	slug := string(page.Slug)
	for _, pt := range p.patterns {
		if ok, err := path.Match(pt.pattern, slug); err == nil && ok {
			return pt.template
		}
		// Also try the bare page name so "*.rkt"-style patterns and
		// name globs work for nested pages.
		if ok, err := path.Match(pt.pattern, path.Base(slug)); err == nil && ok {
			return pt.template
		}
	}
	return "default"
}

func (p *Project) copyAsset(contentDir, outputDir, sourcePath string) error {
	rel, err := filepath.Rel(contentDir, sourcePath)
	if err != nil {
		return err
	}
	dest := filepath.Join(outputDir, rel)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}

func cloneMeta(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// encodeToc flattens entries for cache storage, one per line.
func encodeToc(entries []eval.TocEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.Slug)
		sb.WriteByte('\t')
		sb.WriteString(e.Title)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func decodeToc(encoded string) []eval.TocEntry {
	var entries []eval.TocEntry
	for _, line := range strings.Split(encoded, "\n") {
		if line == "" {
			continue
		}
		slug, title, _ := strings.Cut(line, "\t")
		entries = append(entries, eval.TocEntry{Slug: slug, Title: title})
	}
	return entries
}

func encodeMeta(meta map[string]string) string {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('\t')
		sb.WriteString(meta[k])
		sb.WriteByte('\n')
	}
	return sb.String()
}

func decodeMeta(encoded string) map[string]string {
	meta := make(map[string]string)
	for _, line := range strings.Split(encoded, "\n") {
		if line == "" {
			continue
		}
		key, value, _ := strings.Cut(line, "\t")
		meta[key] = value
	}
	return meta
}

func encodeRefs(refs []eval.RefDef) string {
	var sb strings.Builder
	for _, r := range refs {
		sb.WriteString(r.ID)
		sb.WriteByte('\t')
		sb.WriteString(r.Title)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func decodeRefs(encoded string) []eval.RefDef {
	var refs []eval.RefDef
	for _, line := range strings.Split(encoded, "\n") {
		if line == "" {
			continue
		}
		id, title, _ := strings.Cut(line, "\t")
		refs = append(refs, eval.RefDef{ID: id, Title: title})
	}
	return refs
}

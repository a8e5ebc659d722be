package project

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// themeFile describes a theme directory: a mapping from template names
// to layout files, relative to the theme directory.
const themeFile = "theme.yaml"

type themeConfig struct {
	Templates map[string]string `yaml:"templates"`
}

// Theme holds the parsed layout templates of a theme directory.
type Theme struct {
	templates *template.Template
	known     map[string]bool
	constants map[string]string
}

// PageContext is the data a layout renders against.
type PageContext struct {
	// Body is the compiled page content, trusted as-is.
	Body template.HTML
	// Page is the per-page metadata written by theme-config and the
	// heading directives.
	Page map[string]string
	// Project merges the theme's constants with rocket.yaml's
	// theme_constants.
	Project map[string]string
	// Toctree is the rendered navigation for this page.
	Toctree template.HTML
	// Prev and Next are relative links in reading order, empty at the
	// ends.
	Prev, Next string
}

// LoadTheme reads theme.yaml from dir and parses every layout it names.
func LoadTheme(dir string, constants map[string]string) (*Theme, error) {
	data, err := os.ReadFile(filepath.Join(dir, themeFile))
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	var cfg themeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse theme: %w", err)
	}
	if len(cfg.Templates) == 0 {
		return nil, fmt.Errorf("theme %s names no templates", dir)
	}

	root := template.New("")
	known := make(map[string]bool, len(cfg.Templates))
	for name, file := range cfg.Templates {
		raw, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return nil, fmt.Errorf("read layout %s: %w", file, err)
		}
		if _, err := root.New(name).Parse(string(raw)); err != nil {
			return nil, fmt.Errorf("parse layout %s: %w", file, err)
		}
		known[name] = true
	}

	if constants == nil {
		constants = make(map[string]string)
	}
	return &Theme{templates: root, known: known, constants: constants}, nil
}

// Has reports whether the theme defines the named layout.
func (t *Theme) Has(name string) bool { return t.known[name] }

// Render executes the named layout. Project constants are merged under
// the context before rendering, with per-call values winning.
func (t *Theme) Render(name string, ctx PageContext) (string, error) {
	if !t.known[name] {
		return "", fmt.Errorf("theme has no layout %q", name)
	}
	merged := make(map[string]string, len(t.constants)+len(ctx.Project))
	for k, v := range t.constants {
		merged[k] = v
	}
	for k, v := range ctx.Project {
		merged[k] = v
	}
	ctx.Project = merged

	var sb strings.Builder
	if err := t.templates.ExecuteTemplate(&sb, name, ctx); err != nil {
		return "", fmt.Errorf("render layout %s: %w", name, err)
	}
	return sb.String(), nil
}

package project

import (
	"fmt"
	"os"
	"path/filepath"
)

const scaffoldConfig = `content_dir: content
output: build
theme: theme
version: "0.1.0"

theme_constants:
  title: Rocket Documentation

templates:
  "*": default
`

const scaffoldTheme = `templates:
  default: default.html
`

const scaffoldLayout = `<!doctype html>
<html>
<head>
<title>{{.Project.title}}{{with .Page.title}} - {{.}}{{end}}</title>
<meta charset="utf-8">
</head>
<body>
<nav class="root-toc">
{{.Toctree}}
</nav>
<div class="body">
{{.Body}}
</div>
</body>
</html>
`

const scaffoldIndex = `(:h1 "Welcome")

(:md "Write your documentation here.")

(:toctree)
`

const scaffoldGitignore = "build/\n"

// Scaffold creates an empty project directory with a working
// configuration, theme, and starter page.
func Scaffold(name string) error {
	dirs := []string{
		name,
		filepath.Join(name, "content"),
		filepath.Join(name, "theme"),
	}
	for _, dir := range dirs {
		if err := os.Mkdir(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	files := map[string]string{
		filepath.Join(name, ConfigFile):              scaffoldConfig,
		filepath.Join(name, "theme", themeFile):      scaffoldTheme,
		filepath.Join(name, "theme", "default.html"): scaffoldLayout,
		filepath.Join(name, "content", "index.rkt"):  scaffoldIndex,
		filepath.Join(name, ".gitignore"):            scaffoldGitignore,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// Package project builds a whole documentation tree: it walks the
// content directory, compiles each source through the evaluator, and
// renders the results through the theme.
package project

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// ConfigFile is the project configuration name expected in the project
// root.
const ConfigFile = "rocket.yaml"

// Config is the project configuration loaded from rocket.yaml.
type Config struct {
	ContentDir     string            `yaml:"content_dir"`
	Output         string            `yaml:"output"`
	Theme          string            `yaml:"theme"`
	SyntaxTheme    string            `yaml:"syntax_theme"`
	Version        string            `yaml:"version"`
	Cache          string            `yaml:"cache"`
	Templates      map[string]string `yaml:"templates"`
	ThemeConstants map[string]string `yaml:"theme_constants"`
}

// LoadConfig reads and validates a project configuration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*Config, error) {
	cfg := &Config{
		ContentDir: "content",
		Output:     "build",
		Theme:      "theme",
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Templates == nil {
		cfg.Templates = map[string]string{"*": "default"}
	}
	if cfg.ThemeConstants == nil {
		cfg.ThemeConstants = make(map[string]string)
	}
	return cfg, nil
}

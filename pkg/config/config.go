package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for minisweep.
type Config struct {
	// Scan controls which files become candidate graph nodes.
	Scan ScanConfig `koanf:"scan"`

	// Aliases maps custom path-alias prefixes to base directories,
	// relative to the source-tree root. Takes precedence over tsconfig
	// path mappings.
	Aliases map[string]string `koanf:"aliases"`

	// Keep lists glob patterns for files that must never be reported
	// as unused.
	Keep []string `koanf:"keep"`

	// Essential lists files that are always treated as reachable,
	// relative to the source-tree root.
	Essential []string `koanf:"essential"`

	// MiniappRoot is the directory containing app.json, relative to the
	// project root. Empty means the project root itself.
	MiniappRoot string `koanf:"miniapp_root"`

	// Entry optionally names an explicit entry file.
	Entry string `koanf:"entry"`

	// IncludeAssets reports image files as unused instead of skipping
	// them by default.
	IncludeAssets bool `koanf:"include_assets"`

	// Output controls output formatting.
	Output OutputConfig `koanf:"output"`
}

// ScanConfig controls the candidate-file scan.
type ScanConfig struct {
	FileTypes []string `koanf:"file_types"`
	Patterns  []string `koanf:"patterns"` // exclusion patterns, gitignore syntax
	Dirs      []string `koanf:"dirs"`     // excluded directory names
	Gitignore bool     `koanf:"gitignore"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults for a mini-program
// source tree.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			FileTypes: []string{
				".js", ".ts", ".wxs", ".json",
				".wxml", ".wxss",
				".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp",
			},
			Patterns: []string{
				"*.min.js",
			},
			Dirs: []string{
				"node_modules",
				"miniprogram_npm",
				".git",
				"dist",
				"build",
			},
			Gitignore: true,
		},
		Aliases:   map[string]string{},
		Keep:      []string{},
		Essential: []string{},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns
// defaults.
func LoadOrDefault(dir string) *Config {
	configNames := []string{
		"minisweep.toml",
		"minisweep.yaml",
		"minisweep.yml",
		"minisweep.json",
		".minisweep.toml",
		".minisweep.yaml",
		".minisweep.yml",
		".minisweep.json",
	}

	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			if cfg, err := Load(path); err == nil {
				return cfg
			}
		}
	}
	return DefaultConfig()
}

package unused

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"minisweep/pkg/graph"
)

// conventionalEntries are the app-level files probed when no explicit
// entry and no descriptor are available, in probe order.
var conventionalEntries = []string{
	"app.js",
	"app.ts",
	"app.json",
	"app.wxss",
	"project.config.json",
	"sitemap.json",
}

// toolingEssentials are the configuration files that are always treated as
// used when present, independent of graph reachability.
var toolingEssentials = []string{
	"tsconfig.json",
	"package.json",
	"project.config.json",
	"project.private.config.json",
	"sitemap.json",
	"theme.json",
	"ext.json",
	".eslintrc",
	".eslintrc.js",
	".eslintrc.json",
	".prettierrc",
	".prettierrc.js",
	".prettierrc.json",
	".stylelintrc",
	".stylelintrc.json",
}

// AmbientDetector selects files that contribute to the build without ever
// being referenced, such as global TypeScript declaration files. It
// receives every scanned file and returns the ambient subset.
type AmbientDetector func(files []string) []string

// EntryPointResolver computes the seed set for reachability. Precedence
// for the primary entry: an explicit entry file, then the application
// descriptor, then the conventional app-level defaults. Essentials,
// tooling configs, and ambient declarations are unioned in regardless of
// which primary source won.
type EntryPointResolver struct {
	root      string
	appRoot   string
	entryFile string
	essential []string
	ambient   AmbientDetector
}

func newEntryPointResolver(root, appRoot, entryFile string, essential []string, ambient AmbientDetector) *EntryPointResolver {
	if ambient == nil {
		ambient = DetectAmbientDeclarations
	}
	return &EntryPointResolver{
		root:      root,
		appRoot:   appRoot,
		entryFile: entryFile,
		essential: essential,
		ambient:   ambient,
	}
}

// Resolve returns the entry node ids in a stable order. hasDescriptor
// reports whether an application descriptor was parsed, in which case the
// synthetic App node anchors the traversal. The primary sources are tried
// in order and the first that yields a node wins: an explicit entry that
// is not a graph node counts as a failure, is warned, and the descriptor
// and conventional defaults are tried next — a typo'd entry flag must not
// silence the live page tree. The only fatal outcome is an empty entry
// set with no essential fallback, which yields a ConfigurationError.
func (r *EntryPointResolver) Resolve(g *graph.Graph, files []string, hasDescriptor bool, warn func(Warning)) ([]string, error) {
	var entries []string
	seen := make(map[string]struct{})
	add := func(id string) {
		if id == "" || !g.HasNode(id) {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		entries = append(entries, id)
	}

	if r.entryFile != "" {
		add(r.abs(r.entryFile))
		if len(entries) == 0 && warn != nil {
			warn(Warning{
				Kind:    WarnResolutionMiss,
				Ref:     r.entryFile,
				Message: "explicit entry file is not part of the scanned tree, falling back to descriptor and defaults",
			})
		}
	}
	if len(entries) == 0 && hasDescriptor {
		add(appNodeID)
	}
	if len(entries) == 0 {
		for _, name := range conventionalEntries {
			add(filepath.Join(r.appRoot, name))
		}
	}

	for _, path := range r.essential {
		add(r.abs(path))
	}
	for _, name := range toolingEssentials {
		add(filepath.Join(r.root, name))
		add(filepath.Join(r.appRoot, name))
	}
	for _, path := range r.ambient(files) {
		add(filepath.Clean(path))
	}

	if len(entries) == 0 {
		return nil, &ConfigurationError{
			Reason: "no entry point: no explicit entry, no app descriptor, and no conventional or essential files found",
		}
	}
	return entries, nil
}

func (r *EntryPointResolver) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(r.root, path)
}

var exportTokenRE = regexp.MustCompile(`(?m)^\s*export\s`)

// DetectAmbientDeclarations is the default AmbientDetector: .d.ts files
// that contain declarations but no top-level export are global to the
// compilation and stay alive without an importer.
func DetectAmbientDeclarations(files []string) []string {
	var ambient []string
	for _, f := range files {
		if !strings.HasSuffix(f, ".d.ts") {
			continue
		}
		content, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		if strings.Contains(string(content), "declare ") && !exportTokenRE.Match(content) {
			ambient = append(ambient, f)
		}
	}
	return ambient
}

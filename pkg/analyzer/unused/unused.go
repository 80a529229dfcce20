// Package unused finds files in a component-based mini-program source tree
// that are not reachable from any application entry point. It builds a
// typed dependency graph from per-kind reference extraction, resolves the
// entry set, runs reachability, and reports the remainder as unused.
package unused

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"minisweep/pkg/config"
	"minisweep/pkg/graph"
	"minisweep/pkg/parser"
	"minisweep/pkg/scanner"
)

// imageExts are the asset extensions excluded from the unused report by
// default. Assets are routinely referenced outside the scanned file
// universe (remote CDNs, native code), so reporting them is opt-in.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".webp": true,
	".bmp":  true,
	".ico":  true,
}

// Option adjusts a single Analyzer.
type Option func(*Analyzer)

// WithEntryFile overrides entry resolution with an explicit file, relative
// to the project root.
func WithEntryFile(path string) Option {
	return func(a *Analyzer) { a.entryFile = path }
}

// WithEntryContent supplies a pre-parsed application descriptor, taking
// precedence over the on-disk app.json.
func WithEntryContent(desc *AppDescriptor) Option {
	return func(a *Analyzer) { a.entryContent = desc }
}

// WithEssentialFiles appends files that are always treated as used.
func WithEssentialFiles(paths ...string) Option {
	return func(a *Analyzer) { a.essential = append(a.essential, paths...) }
}

// WithKeepPatterns appends glob patterns whose matches are never reported
// as unused.
func WithKeepPatterns(patterns ...string) Option {
	return func(a *Analyzer) { a.keep = append(a.keep, patterns...) }
}

// WithIncludeAssets includes image assets in the unused report.
func WithIncludeAssets() Option {
	return func(a *Analyzer) { a.includeAssets = true }
}

// WithMiniappRoot sets the subdirectory containing the application
// descriptor, relative to the project root.
func WithMiniappRoot(dir string) Option {
	return func(a *Analyzer) { a.miniappRoot = dir }
}

// WithLogger sets the structured logger for warnings.
func WithLogger(log *slog.Logger) Option {
	return func(a *Analyzer) { a.log = log }
}

// WithAmbientDetector replaces the default ambient-declaration heuristic.
func WithAmbientDetector(d AmbientDetector) Option {
	return func(a *Analyzer) { a.ambient = d }
}

// WithProgress installs a callback invoked once per processed file.
func WithProgress(fn func()) Option {
	return func(a *Analyzer) { a.progress = fn }
}

// Analyzer is the package facade: one Analyze call scans, builds, and
// reports. The zero configuration analyzes with defaults.
type Analyzer struct {
	cfg           *config.Config
	entryFile     string
	entryContent  *AppDescriptor
	essential     []string
	keep          []string
	includeAssets bool
	miniappRoot   string
	log           *slog.Logger
	ambient       AmbientDetector
	progress      func()
}

// New creates an analyzer from a configuration plus options. Options layer
// on top of the configuration file: list-valued settings append, scalar
// settings override when set.
func New(cfg *config.Config, opts ...Option) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a := &Analyzer{
		cfg:           cfg,
		entryFile:     cfg.Entry,
		essential:     append([]string(nil), cfg.Essential...),
		keep:          append([]string(nil), cfg.Keep...),
		includeAssets: cfg.IncludeAssets,
		miniappRoot:   cfg.MiniappRoot,
		log:           slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the full pipeline against projectRoot. The returned error
// is a *ConfigurationError when no entry point at all could be resolved;
// every other problem degrades to a Warning on the Analysis.
func (a *Analyzer) Analyze(ctx context.Context, projectRoot string) (*Analysis, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, err
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	appRoot := root
	if a.miniappRoot != "" {
		appRoot = filepath.Join(root, a.miniappRoot)
	}

	files, err := scanner.New(a.cfg).ScanDir(root)
	if err != nil {
		return nil, err
	}

	var warnings []Warning
	collect := func(w Warning) { warnings = append(warnings, w) }

	aliases, _ := LoadAliases(root, a.cfg.Aliases, a.log, collect)
	resolver := NewPathResolver(appRoot, aliases)

	desc, descWarn := a.loadDescriptor(appRoot)
	if descWarn != nil {
		collect(*descWarn)
	}

	p := parser.New()
	defer p.Close()

	builder := newStructureBuilder(root, appRoot, resolver, p, a.log, a.progress)
	g, err := builder.Build(ctx, files, desc)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, builder.Warnings()...)

	entries, err := newEntryPointResolver(root, appRoot, a.entryFile, a.essential, a.ambient).
		Resolve(g, files, desc != nil, collect)
	if err != nil {
		return nil, err
	}

	reachable := Reachable(g, entries)
	unusedFiles, unusedBytes := a.calculateUnused(g, root, reachable, collect)

	analysis := &Analysis{
		Root:             root,
		Graph:            g,
		Serialized:       g.Serialize(),
		ReachableNodeIDs: reachable,
		UnusedFiles:      unusedFiles,
		TagUsage:         builder.TagUsage(),
		Warnings:         warnings,
		Summary: Summary{
			TotalFiles:     len(files),
			ReachableCount: len(reachable),
			UnusedCount:    len(unusedFiles),
			UnusedBytes:    unusedBytes,
		},
	}
	return analysis, nil
}

// loadDescriptor picks the descriptor source: injected content wins, then
// the on-disk app.json. A malformed on-disk descriptor degrades to a
// warning and an entry fallback, not a fatal error.
func (a *Analyzer) loadDescriptor(appRoot string) (*AppDescriptor, *Warning) {
	if a.entryContent != nil {
		return a.entryContent, nil
	}
	path := filepath.Join(appRoot, "app.json")
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil // absence is handled by entry fallback
	}
	desc, err := ParseAppDescriptor(content)
	if err != nil {
		return nil, &Warning{
			Kind:    WarnParseFailure,
			Path:    "app.json",
			Message: "app descriptor is not valid JSON: " + err.Error(),
		}
	}
	return desc, nil
}

// calculateUnused subtracts the reachable set, keep-pattern matches, and
// (by default) image assets from the Module node universe. Results are
// root-relative and sorted.
func (a *Analyzer) calculateUnused(g *graph.Graph, root string, reachable []string, warn func(Warning)) ([]string, int64) {
	inReach := make(map[string]struct{}, len(reachable))
	for _, id := range reachable {
		inReach[id] = struct{}{}
	}

	var keepGlobs []glob.Glob
	for _, pattern := range a.keep {
		compiled, err := glob.Compile(pattern, '/')
		if err != nil {
			warn(Warning{
				Kind:    WarnResolutionMiss,
				Ref:     pattern,
				Message: "invalid keep pattern: " + err.Error(),
			})
			continue
		}
		keepGlobs = append(keepGlobs, compiled)
	}

	var unused []string
	var bytes int64
	for _, id := range g.NodesByKind(graph.KindModule) {
		if _, ok := inReach[id]; ok {
			continue
		}
		node := g.Node(id)
		rel := node.Label
		if matchesAny(keepGlobs, rel) {
			continue
		}
		if !a.includeAssets && imageExts[strings.ToLower(filepath.Ext(id))] {
			continue
		}
		unused = append(unused, rel)
		bytes += node.Properties.Size
	}
	sort.Strings(unused)
	return unused, bytes
}

func matchesAny(globs []glob.Glob, rel string) bool {
	base := filepath.Base(rel)
	for _, kg := range globs {
		if kg.Match(rel) || kg.Match(base) {
			return true
		}
	}
	return false
}

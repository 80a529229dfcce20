package unused

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"minisweep/pkg/graph"
	"minisweep/pkg/parser"
)

// appNodeID is the synthetic id of the root application node.
const appNodeID = "app"

// StructureBuilder builds the dependency graph for one analysis pass. A
// builder owns its node and edge maps for exactly one Build call and must
// not be reused: the finished graph is handed to the caller and treated as
// immutable afterward.
type StructureBuilder struct {
	root     string // project root
	appRoot  string // directory containing the app descriptor
	g        *graph.Graph
	parser   *parser.Parser
	resolver *PathResolver
	log      *slog.Logger
	warnings []Warning
	tagUsage map[string][]string
	progress func()
	built    bool
}

func newStructureBuilder(root, appRoot string, resolver *PathResolver, p *parser.Parser, log *slog.Logger, progress func()) *StructureBuilder {
	return &StructureBuilder{
		root:     root,
		appRoot:  appRoot,
		g:        graph.New(),
		parser:   p,
		resolver: resolver,
		log:      log,
		tagUsage: make(map[string][]string),
		progress: progress,
	}
}

// Build scans the candidate files into Module nodes, extracts and resolves
// references one file at a time in scan order, then walks the application
// descriptor into structural nodes and edges. Files are processed
// sequentially so error reporting and graph mutation stay deterministic.
// A per-file failure degrades that file to zero outgoing edges with a
// warning; only context cancellation aborts the build, discarding the
// partial graph.
func (b *StructureBuilder) Build(ctx context.Context, files []string, desc *AppDescriptor) (*graph.Graph, error) {
	if b.built {
		return nil, fmt.Errorf("structure builder is single-use")
	}
	b.built = true

	for _, file := range files {
		b.addModuleNode(file)
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := b.processFile(file); err != nil {
			b.warn(Warning{
				Kind:    WarnParseFailure,
				Path:    b.rel(file),
				Message: err.Error(),
			})
		}
		if b.progress != nil {
			b.progress()
		}
	}

	if desc != nil {
		b.walkDescriptor(desc)
	}

	return b.g, nil
}

// Warnings returns the recoverable problems hit during Build, in
// processing order.
func (b *StructureBuilder) Warnings() []Warning {
	return b.warnings
}

// TagUsage returns the merged markup tag-usage map for the lint
// collaborator.
func (b *StructureBuilder) TagUsage() map[string][]string {
	return b.tagUsage
}

func (b *StructureBuilder) rel(path string) string {
	if rel, err := filepath.Rel(b.root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func (b *StructureBuilder) warn(w Warning) {
	b.warnings = append(b.warnings, w)
	attrs := []any{"kind", string(w.Kind), "path", w.Path}
	if w.Ref != "" {
		attrs = append(attrs, "ref", w.Ref)
	}
	if w.Elevated {
		b.log.Error(w.Message, attrs...)
	} else {
		b.log.Warn(w.Message, attrs...)
	}
}

func (b *StructureBuilder) addModuleNode(path string) {
	id := filepath.Clean(path)
	var size int64
	if info, err := os.Stat(id); err == nil {
		size = info.Size()
	}
	b.g.AddNode(graph.Node{
		ID:    id,
		Kind:  graph.KindModule,
		Label: b.rel(id),
		Properties: graph.Properties{
			AbsPath: id,
			Size:    size,
			Ext:     strings.ToLower(filepath.Ext(id)),
		},
	})
}

func (b *StructureBuilder) processFile(path string) error {
	switch parser.DetectLanguage(path) {
	case parser.LangJavaScript, parser.LangTypeScript:
		return b.processScript(path)
	case parser.LangMarkup:
		return b.processMarkup(path)
	case parser.LangStylesheet:
		return b.processStylesheet(path)
	case parser.LangJSON:
		return b.processConfig(path)
	}
	return nil // assets carry no outgoing references
}

func (b *StructureBuilder) processScript(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	refs, err := ExtractScriptRefs(b.parser, content, path)
	if err != nil {
		return err
	}
	exts := scriptExts
	if strings.EqualFold(filepath.Ext(path), ".wxs") {
		exts = wxsExts
	}
	for _, ref := range refs {
		b.addRefEdge(path, ref, exts, graph.RelImport)
	}
	return nil
}

func (b *StructureBuilder) processMarkup(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	extract, err := ExtractMarkup(b.parser, content, path)
	if err != nil {
		return err
	}
	for tag, generics := range extract.TagUsage {
		b.tagUsage[tag] = append(b.tagUsage[tag], generics...)
	}
	for _, ref := range extract.Refs {
		switch ref.Kind {
		case MarkupTemplate:
			b.addRefEdge(path, ref.Src, markupExts, graph.RelTemplate)
		case MarkupModule:
			b.addRefEdge(path, ref.Src, wxsExts, graph.RelImport)
		case MarkupImage:
			b.addRefEdge(path, ref.Src, nil, graph.RelImport)
		}
	}
	return nil
}

func (b *StructureBuilder) processStylesheet(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	refs, err := ExtractStyleRefs(b.parser, content, path)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if ref.IsImport {
			b.addRefEdge(path, ref.Target, styleExts, graph.RelStyle)
		} else {
			b.addRefEdge(path, ref.Target, nil, graph.RelImport)
		}
	}
	return nil
}

// processConfig handles page and component descriptor files. The root app
// descriptor is parsed separately by the descriptor walk and gains no
// outgoing edges here.
func (b *StructureBuilder) processConfig(path string) error {
	if filepath.Clean(path) == filepath.Join(b.appRoot, "app.json") {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	cfg, err := ParseComponentConfig(content)
	if err != nil {
		return err
	}
	for _, target := range sortedComponentTargets(cfg.UsingComponents, cfg.ComponentGenerics) {
		b.addClusterEdges(path, target, graph.RelConfig)
	}
	return nil
}

// sortedComponentTargets flattens usingComponents values and generic
// default targets into a deterministic order, skipping plugin-scheme
// targets which live outside the file universe.
func sortedComponentTargets(using map[string]string, generics map[string]GenericSlot) []string {
	names := make([]string, 0, len(using))
	for name := range using {
		names = append(names, name)
	}
	sort.Strings(names)
	var targets []string
	for _, name := range names {
		if target := using[name]; target != "" && !isPluginRef(target) {
			targets = append(targets, target)
		}
	}

	slots := make([]string, 0, len(generics))
	for name := range generics {
		slots = append(slots, name)
	}
	sort.Strings(slots)
	for _, name := range slots {
		if target := generics[name].Default; target != "" && !isPluginRef(target) {
			targets = append(targets, target)
		}
	}
	return targets
}

// addRefEdge resolves one raw reference and adds a typed edge on success.
// External references are silently skipped; a miss on a project-scoped
// reference is warned, at elevated severity when an alias matched.
func (b *StructureBuilder) addRefEdge(from, rawRef string, allowedExts []string, rel graph.Relation) {
	ref := strings.TrimSpace(rawRef)
	if ref == "" || isExternalRef(ref) {
		return
	}
	resolved, aliasMatched := b.resolver.Resolve(ref, from, allowedExts)
	if resolved != "" {
		b.g.AddEdge(filepath.Clean(from), resolved, rel)
		return
	}
	if !aliasMatched && isScriptFile(from) && !strings.HasPrefix(ref, ".") && !strings.HasPrefix(ref, "/") {
		return // package import, not a project file
	}
	b.warn(Warning{
		Kind:     WarnResolutionMiss,
		Path:     b.rel(from),
		Ref:      ref,
		Message:  fmt.Sprintf("reference %q does not resolve to an existing file", ref),
		Elevated: aliasMatched,
	})
}

// addClusterEdges resolves a page/component registration to its base path
// and adds one edge per existing cluster file: a component is a set of
// co-located files, not a single target.
func (b *StructureBuilder) addClusterEdges(from, target string, rel graph.Relation) {
	base, aliasMatched := b.resolver.BasePath(target, from)
	if base == "" {
		return
	}
	files := clusterFiles(base)
	if len(files) == 0 {
		b.warn(Warning{
			Kind:     WarnResolutionMiss,
			Path:     b.rel(from),
			Ref:      target,
			Message:  fmt.Sprintf("component %q has no files at %s", target, b.rel(base)),
			Elevated: aliasMatched,
		})
		return
	}
	for _, f := range files {
		b.g.AddEdge(filepath.Clean(from), f, rel)
	}
}

// clusterFiles returns the existing sibling files that share the cluster's
// base name, across the defining extensions, in extension order.
func clusterFiles(base string) []string {
	var files []string
	for _, ext := range componentExts {
		if isRegular(base + ext) {
			files = append(files, filepath.Clean(base+ext))
		}
	}
	return files
}

// walkDescriptor adds the structural layer: the App node, Page nodes per
// descriptor page, Package nodes per sub-package, Component nodes for
// global components, plus tab-bar resources, worker entries, and the theme
// file.
func (b *StructureBuilder) walkDescriptor(desc *AppDescriptor) {
	appJSON := filepath.Join(b.appRoot, "app.json")
	b.g.AddNode(graph.Node{
		ID:    appNodeID,
		Kind:  graph.KindApp,
		Label: "app",
		Properties: graph.Properties{
			BasePath: b.appRoot,
		},
	})
	if b.g.HasNode(appJSON) {
		b.g.AddEdge(appNodeID, appJSON, graph.RelConfig)
	}
	// The app's own cluster files (app.js, app.wxss, ...) hang off the
	// App node the same way page files hang off their Page node.
	for _, f := range clusterFiles(filepath.Join(b.appRoot, "app")) {
		b.g.AddEdge(appNodeID, f, graph.RelStructure)
	}

	for _, page := range desc.Pages {
		b.addPageNode(appNodeID, page, appJSON)
	}

	for _, sub := range desc.SubPackages {
		if sub.Root == "" {
			continue
		}
		pkgID := "package:" + filepath.ToSlash(sub.Root)
		b.g.AddNode(graph.Node{
			ID:    pkgID,
			Kind:  graph.KindPackage,
			Label: filepath.ToSlash(sub.Root),
			Properties: graph.Properties{
				BasePath: filepath.Join(b.appRoot, sub.Root),
			},
		})
		b.g.AddEdge(appNodeID, pkgID, graph.RelStructure)
		for _, page := range sub.Pages {
			b.addSubPackagePage(pkgID, sub.Root, page)
		}
	}

	if desc.TabBar != nil {
		for _, item := range desc.TabBar.List {
			if item.PagePath != "" {
				b.addPageNode(appNodeID, item.PagePath, appJSON)
			}
			for _, icon := range []string{item.IconPath, item.SelectedIconPath} {
				if icon == "" || isExternalRef(icon) {
					continue
				}
				if resolved, _ := b.resolver.Resolve(icon, appJSON, nil); resolved != "" {
					b.g.AddEdge(appNodeID, resolved, graph.RelResource)
				} else {
					b.warn(Warning{
						Kind:    WarnResolutionMiss,
						Path:    b.rel(appJSON),
						Ref:     icon,
						Message: fmt.Sprintf("tab bar icon %q does not resolve to an existing file", icon),
					})
				}
			}
		}
	}

	for _, target := range sortedComponentTargets(desc.UsingComponents, desc.ComponentGenerics) {
		b.addComponentNode(appNodeID, target, appJSON)
	}

	if desc.Workers != "" {
		if resolved, _ := b.resolver.Resolve(desc.Workers, appJSON, scriptExts); resolved != "" {
			b.g.AddEdge(appNodeID, resolved, graph.RelWorkerEntry)
		} else {
			b.warn(Warning{
				Kind:    WarnResolutionMiss,
				Path:    b.rel(appJSON),
				Ref:     desc.Workers,
				Message: fmt.Sprintf("worker entry %q does not resolve to an existing file", desc.Workers),
			})
		}
	}

	if desc.ThemeLocation != "" {
		if resolved, _ := b.resolver.Resolve(desc.ThemeLocation, appJSON, []string{".json"}); resolved != "" {
			b.g.AddEdge(appNodeID, resolved, graph.RelConfig)
		}
	}
}

// addPageNode registers a Page structural node for a descriptor page
// reference and links its cluster files under it.
func (b *StructureBuilder) addPageNode(parentID, page, containing string) {
	base, aliasMatched := b.resolver.BasePath(page, containing)
	if base == "" {
		return
	}
	b.addCluster(parentID, base, graph.KindPage, "page:", page, containing, aliasMatched)
}

// addSubPackagePage registers a Page node for a sub-package page, which is
// declared relative to the package root.
func (b *StructureBuilder) addSubPackagePage(pkgID, root, page string) {
	base := filepath.Join(b.appRoot, root, page)
	b.addCluster(pkgID, base, graph.KindPage, "page:", page, "", false)
}

// addComponentNode registers a Component structural node for a global
// component registration.
func (b *StructureBuilder) addComponentNode(parentID, target, containing string) {
	base, aliasMatched := b.resolver.BasePath(target, containing)
	if base == "" {
		return
	}
	b.addCluster(parentID, base, graph.KindComponent, "component:", target, containing, aliasMatched)
}

func (b *StructureBuilder) addCluster(parentID, base string, kind graph.NodeKind, idPrefix, ref, containing string, aliasMatched bool) {
	relBase := b.rel(base)
	nodeID := idPrefix + relBase
	b.g.AddNode(graph.Node{
		ID:    nodeID,
		Kind:  kind,
		Label: relBase,
		Properties: graph.Properties{
			BasePath: base,
		},
	})
	b.g.AddEdge(parentID, nodeID, graph.RelStructure)

	files := clusterFiles(base)
	if len(files) == 0 {
		b.warn(Warning{
			Kind:     WarnResolutionMiss,
			Path:     b.rel(containing),
			Ref:      ref,
			Message:  fmt.Sprintf("%s %q has no files at %s", kind, ref, relBase),
			Elevated: aliasMatched,
		})
		return
	}
	for _, f := range files {
		b.g.AddEdge(nodeID, f, graph.RelStructure)
	}
}

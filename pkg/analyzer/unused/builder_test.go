package unused

import (
	"context"
	"path/filepath"
	"testing"

	"minisweep/pkg/graph"
	"minisweep/pkg/parser"
)

func buildGraph(t *testing.T, root string, files []string, descriptor string) *graph.Graph {
	t.Helper()
	p := parser.New()
	defer p.Close()

	desc, err := ParseAppDescriptor([]byte(descriptor))
	if err != nil {
		t.Fatalf("ParseAppDescriptor: %v", err)
	}
	b := newStructureBuilder(root, root, NewPathResolver(root, nil), p, discardLogger(), nil)
	g, err := b.Build(context.Background(), files, desc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, w := range b.Warnings() {
		t.Logf("warning: %s", w.Message)
	}
	return g
}

func TestBuildPageClusterEdgeCount(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pages/a/a.js"), `Page({});`)
	writeFile(t, filepath.Join(root, "pages/a/a.json"), `{}`)
	writeFile(t, filepath.Join(root, "pages/a/a.wxml"), `<view/>`)
	files := []string{
		filepath.Join(root, "pages/a/a.js"),
		filepath.Join(root, "pages/a/a.json"),
		filepath.Join(root, "pages/a/a.wxml"),
	}

	g := buildGraph(t, root, files, `{"pages": ["pages/a/a"]}`)

	// The page cluster links every existing sibling and nothing else:
	// .js, .json, .wxml present, .wxss absent, exactly three edges.
	pageID := "page:pages/a/a"
	if !g.HasNode(pageID) {
		t.Fatalf("missing page node %s", pageID)
	}
	edges := g.OutEdges(pageID)
	if len(edges) != 3 {
		t.Fatalf("page out-edges = %d, want 3: %v", len(edges), edges)
	}
	want := map[string]bool{
		filepath.Join(root, "pages/a/a.js"):   true,
		filepath.Join(root, "pages/a/a.json"): true,
		filepath.Join(root, "pages/a/a.wxml"): true,
	}
	for _, e := range edges {
		if !want[e.To] {
			t.Errorf("unexpected cluster edge target %s", e.To)
		}
		if e.Relation != graph.RelStructure {
			t.Errorf("cluster edge relation = %s, want structure", e.Relation)
		}
	}
}

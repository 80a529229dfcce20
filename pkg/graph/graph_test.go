package graph

import (
	"strings"
	"testing"
)

func moduleNode(id string) Node {
	return Node{ID: id, Kind: KindModule, Label: id}
}

func TestAddNodeIdempotent(t *testing.T) {
	g := New()

	if !g.AddNode(moduleNode("a.js")) {
		t.Error("first AddNode should return true")
	}
	if g.AddNode(moduleNode("a.js")) {
		t.Error("duplicate AddNode should return false")
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1", g.NodeCount())
	}
}

func TestAddEdgeDeduplicates(t *testing.T) {
	g := New()
	g.AddNode(moduleNode("a.js"))
	g.AddNode(moduleNode("b.js"))

	if !g.AddEdge("a.js", "b.js", RelImport) {
		t.Error("first AddEdge should return true")
	}
	if g.AddEdge("a.js", "b.js", RelImport) {
		t.Error("duplicate AddEdge should return false")
	}
	// Same pair, different relation is a distinct edge.
	if !g.AddEdge("a.js", "b.js", RelStyle) {
		t.Error("same pair with new relation should return true")
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.EdgeCount())
	}
}

func TestOutEdgesInsertionOrder(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c", "d"} {
		g.AddNode(moduleNode(id))
	}
	g.AddEdge("a", "c", RelImport)
	g.AddEdge("a", "b", RelImport)
	g.AddEdge("a", "d", RelTemplate)

	out := g.OutEdges("a")
	if len(out) != 3 {
		t.Fatalf("len(OutEdges) = %d, want 3", len(out))
	}
	want := []string{"c", "b", "d"}
	for i, e := range out {
		if e.To != want[i] {
			t.Errorf("OutEdges[%d].To = %q, want %q", i, e.To, want[i])
		}
	}

	in := g.InEdges("b")
	if len(in) != 1 || in[0].From != "a" {
		t.Errorf("InEdges(b) = %v, want one edge from a", in)
	}
}

func TestOrdinalsAreDense(t *testing.T) {
	g := New()
	ids := []string{"x", "y", "z"}
	for _, id := range ids {
		g.AddNode(moduleNode(id))
	}
	for i, id := range ids {
		ord, ok := g.Ordinal(id)
		if !ok {
			t.Fatalf("Ordinal(%q) missing", id)
		}
		if ord != uint32(i) {
			t.Errorf("Ordinal(%q) = %d, want %d", id, ord, i)
		}
	}
	if _, ok := g.Ordinal("missing"); ok {
		t.Error("Ordinal of unknown node should report not found")
	}
}

func TestNodesByKind(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "app", Kind: KindApp})
	g.AddNode(moduleNode("a.js"))
	g.AddNode(moduleNode("b.js"))
	g.AddNode(Node{ID: "page:home", Kind: KindPage})

	modules := g.NodesByKind(KindModule)
	if len(modules) != 2 {
		t.Errorf("len(NodesByKind(module)) = %d, want 2", len(modules))
	}
	apps := g.NodesByKind(KindApp)
	if len(apps) != 1 || apps[0] != "app" {
		t.Errorf("NodesByKind(app) = %v, want [app]", apps)
	}
}

func TestSerializeCollapsesParallelEdges(t *testing.T) {
	g := New()
	g.AddNode(moduleNode("a"))
	g.AddNode(moduleNode("b"))
	g.AddEdge("a", "b", RelImport)
	g.AddEdge("a", "b", RelStyle)

	s := g.Serialize()
	if len(s.Nodes) != 2 {
		t.Errorf("len(Nodes) = %d, want 2", len(s.Nodes))
	}
	if len(s.Links) != 1 {
		t.Errorf("len(Links) = %d, want 1 after collapsing relations", len(s.Links))
	}
}

func TestToTreeCycleTermination(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(moduleNode(id))
	}
	g.AddEdge("a", "b", RelImport)
	g.AddEdge("b", "c", RelImport)
	g.AddEdge("c", "a", RelImport)

	tree := g.ToTree("a")
	if tree == nil {
		t.Fatal("ToTree returned nil for existing root")
	}

	// a -> b -> c -> a(cycle leaf)
	b := tree.Children[0]
	c := b.Children[0]
	if len(c.Children) != 1 {
		t.Fatalf("c should have one child, got %d", len(c.Children))
	}
	leaf := c.Children[0]
	if leaf.ID != "a" || !leaf.Cycle {
		t.Errorf("cycle leaf = %+v, want id a with Cycle set", leaf)
	}
	if len(leaf.Children) != 0 {
		t.Error("cycle leaf must not recurse")
	}
}

func TestToTreeSharedNodeNotMarkedCycle(t *testing.T) {
	// Diamond: a -> b, a -> c, b -> d, c -> d. d is shared but acyclic.
	g := New()
	for _, id := range []string{"a", "b", "c", "d"} {
		g.AddNode(moduleNode(id))
	}
	g.AddEdge("a", "b", RelImport)
	g.AddEdge("a", "c", RelImport)
	g.AddEdge("b", "d", RelImport)
	g.AddEdge("c", "d", RelImport)

	tree := g.ToTree("a")
	for _, child := range tree.Children {
		if len(child.Children) != 1 {
			t.Fatalf("%s should expand d, got %d children", child.ID, len(child.Children))
		}
		if child.Children[0].Cycle {
			t.Errorf("shared node under %s wrongly marked as cycle", child.ID)
		}
	}
}

func TestToTreeUnknownRoot(t *testing.T) {
	g := New()
	if tree := g.ToTree("nope"); tree != nil {
		t.Errorf("ToTree of unknown root = %+v, want nil", tree)
	}
}

func TestRank(t *testing.T) {
	g := New()
	for _, id := range []string{"hub", "a", "b", "c"} {
		g.AddNode(moduleNode(id))
	}
	g.AddEdge("a", "hub", RelImport)
	g.AddEdge("b", "hub", RelImport)
	g.AddEdge("c", "hub", RelImport)

	r := g.Rank()
	if r.Summary.TotalNodes != 4 {
		t.Errorf("TotalNodes = %d, want 4", r.Summary.TotalNodes)
	}
	if r.Summary.IsCyclic {
		t.Error("acyclic graph reported cyclic")
	}
	if r.Nodes[0].ID != "hub" {
		t.Errorf("highest PageRank = %s, want hub", r.Nodes[0].ID)
	}
	if r.Nodes[0].InDegree != 3 {
		t.Errorf("hub in-degree = %d, want 3", r.Nodes[0].InDegree)
	}
}

func TestRankDetectsCycles(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(moduleNode(id))
	}
	g.AddEdge("a", "b", RelImport)
	g.AddEdge("b", "a", RelImport)
	g.AddEdge("a", "c", RelImport)

	r := g.Rank()
	if !r.Summary.IsCyclic {
		t.Fatal("cycle not detected")
	}
	if len(r.Summary.Cycles) != 1 {
		t.Fatalf("len(Cycles) = %d, want 1", len(r.Summary.Cycles))
	}
	cycle := strings.Join(r.Summary.Cycles[0], ",")
	if cycle != "a,b" {
		t.Errorf("cycle = %q, want a,b", cycle)
	}
}

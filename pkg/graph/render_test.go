package graph

import (
	"strings"
	"testing"
)

func TestWriteDOT(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "pages/home.js", Kind: KindModule, Label: "pages/home.js"})
	g.AddNode(Node{ID: "utils/a.js", Kind: KindModule, Label: "utils/a.js"})
	g.AddEdge("pages/home.js", "utils/a.js", RelImport)

	var b strings.Builder
	if err := g.WriteDOT(&b); err != nil {
		t.Fatalf("WriteDOT failed: %v", err)
	}
	out := b.String()

	if !strings.HasPrefix(out, "digraph dependencies {") {
		t.Errorf("missing digraph header:\n%s", out)
	}
	if !strings.Contains(out, `"pages/home.js" -> "utils/a.js" [label="import"];`) {
		t.Errorf("missing labeled edge:\n%s", out)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "}") {
		t.Error("DOT output not closed")
	}
}

func TestWriteMermaid(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "app", Kind: KindApp, Label: "app"})
	g.AddNode(Node{ID: "pages/home.wxml", Kind: KindModule, Label: "pages/home.wxml"})
	g.AddEdge("app", "pages/home.wxml", RelStructure)

	var b strings.Builder
	if err := g.WriteMermaid(&b); err != nil {
		t.Fatalf("WriteMermaid failed: %v", err)
	}
	out := b.String()

	if !strings.HasPrefix(out, "graph LR") {
		t.Errorf("missing mermaid header:\n%s", out)
	}
	if !strings.Contains(out, "app -->|structure| pages_home_wxml") {
		t.Errorf("missing edge line:\n%s", out)
	}
}

func TestSanitizeMermaidID(t *testing.T) {
	cases := map[string]string{
		"pages/home.js": "pages_home_js",
		"42abc":         "n42abc",
		"":              "empty",
		"page:home":     "page_home",
	}
	for in, want := range cases {
		if got := sanitizeMermaidID(in); got != want {
			t.Errorf("sanitizeMermaidID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEscapeMermaidLabel(t *testing.T) {
	if got := escapeMermaidLabel(`a"b|c[d]`); got != "a&quot;b&#124;c&#91;d&#93;" {
		t.Errorf("escapeMermaidLabel = %q", got)
	}
}

package parser

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"app.js", LangJavaScript},
		{"util.mjs", LangJavaScript},
		{"format.wxs", LangJavaScript},
		{"app.ts", LangTypeScript},
		{"index.wxml", LangMarkup},
		{"page.html", LangMarkup},
		{"index.wxss", LangStylesheet},
		{"base.css", LangStylesheet},
		{"app.json", LangJSON},
		{"logo.png", LangUnknown},
		{"Makefile", LangUnknown},
		{"UPPER.WXML", LangMarkup},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.path); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestParseJavaScript(t *testing.T) {
	p := New()
	defer p.Close()

	src := []byte(`import x from './x';`)
	result, err := p.Parse(src, LangJavaScript, "a.js")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if result.Tree == nil || result.Tree.RootNode() == nil {
		t.Fatal("Parse() returned no tree")
	}
	if result.Tree.RootNode().Type() != "program" {
		t.Errorf("root type = %s, want program", result.Tree.RootNode().Type())
	}
}

func TestParseReusesGrammarParsers(t *testing.T) {
	p := New()
	defer p.Close()

	if _, err := p.Parse([]byte("const a = 1;"), LangJavaScript, "a.js"); err != nil {
		t.Fatalf("first Parse() error: %v", err)
	}
	if _, err := p.Parse([]byte("const b = 2;"), LangJavaScript, "b.js"); err != nil {
		t.Fatalf("second Parse() error: %v", err)
	}
	if len(p.byLang) != 1 {
		t.Errorf("parser count = %d, want 1", len(p.byLang))
	}
	if _, err := p.Parse([]byte("<view/>"), LangMarkup, "a.wxml"); err != nil {
		t.Fatalf("markup Parse() error: %v", err)
	}
	if len(p.byLang) != 2 {
		t.Errorf("parser count = %d, want 2", len(p.byLang))
	}
}

func TestParseNoGrammar(t *testing.T) {
	p := New()
	defer p.Close()

	if _, err := p.Parse([]byte("{}"), LangJSON, "app.json"); err == nil {
		t.Error("Parse() should fail for JSON")
	}
	if _, err := p.Parse([]byte("x"), LangUnknown, "x.bin"); err == nil {
		t.Error("Parse() should fail for unknown kinds")
	}
}

func TestGetNodeText(t *testing.T) {
	p := New()
	defer p.Close()

	src := []byte("const answer = 42;")
	result, err := p.Parse(src, LangJavaScript, "a.js")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := GetNodeText(result.Tree.RootNode(), src); got != string(src) {
		t.Errorf("GetNodeText(root) = %q", got)
	}
	if got := GetNodeText(nil, src); got != "" {
		t.Errorf("GetNodeText(nil) = %q, want empty", got)
	}
	// Stale node against shorter source must not panic.
	if got := GetNodeText(result.Tree.RootNode(), []byte("x")); got != "" {
		t.Errorf("GetNodeText(out of range) = %q, want empty", got)
	}
}

func TestWalkStopsDescent(t *testing.T) {
	p := New()
	defer p.Close()

	src := []byte("function f() { return 1; }")
	result, err := p.Parse(src, LangJavaScript, "a.js")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	visited := 0
	Walk(result.Tree.RootNode(), src, func(node *sitter.Node, _ []byte) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Errorf("visited = %d, want 1 when the visitor refuses descent", visited)
	}
}

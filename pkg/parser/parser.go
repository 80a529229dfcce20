// Package parser wraps tree-sitter for the file kinds that make up a
// mini-program source tree: scripts, markup templates, and stylesheets.
package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language classifies a file by the grammar that parses it.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangMarkup     Language = "markup"
	LangStylesheet Language = "stylesheet"
	LangJSON       Language = "json"
	LangUnknown    Language = "unknown"
)

// Parser holds one tree-sitter parser per grammar, created on first use.
// Not safe for concurrent use.
type Parser struct {
	byLang map[Language]*sitter.Parser
}

// ParseResult is a parsed tree together with the bytes it was parsed from.
type ParseResult struct {
	Tree     *sitter.Tree
	Language Language
	Source   []byte
	Path     string
}

func New() *Parser {
	return &Parser{byLang: make(map[Language]*sitter.Parser)}
}

func grammar(lang Language) *sitter.Language {
	switch lang {
	case LangJavaScript:
		return javascript.GetLanguage()
	case LangTypeScript:
		return typescript.GetLanguage()
	case LangMarkup:
		return html.GetLanguage()
	case LangStylesheet:
		return css.GetLanguage()
	}
	return nil
}

// Parse parses source with the grammar for lang. JSON and unknown kinds
// have no grammar and return an error.
func (p *Parser) Parse(source []byte, lang Language, path string) (*ParseResult, error) {
	sp, ok := p.byLang[lang]
	if !ok {
		g := grammar(lang)
		if g == nil {
			return nil, fmt.Errorf("no grammar for %s (%s)", lang, path)
		}
		sp = sitter.NewParser()
		sp.SetLanguage(g)
		p.byLang[lang] = sp
	}

	tree, err := sp.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &ParseResult{Tree: tree, Language: lang, Source: source, Path: path}, nil
}

// DetectLanguage maps a file path to its grammar. WXS module files are
// JavaScript; WXML parses with the HTML grammar, WXSS with CSS.
func DetectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".mjs", ".cjs", ".wxs":
		return LangJavaScript
	case ".ts":
		return LangTypeScript
	case ".wxml", ".html":
		return LangMarkup
	case ".wxss", ".css":
		return LangStylesheet
	case ".json":
		return LangJSON
	}
	return LangUnknown
}

// Close releases every grammar parser created so far.
func (p *Parser) Close() {
	for _, sp := range p.byLang {
		sp.Close()
	}
	p.byLang = make(map[Language]*sitter.Parser)
}

// NodeVisitor is called for each node during Walk; returning false stops
// descent into that node's children.
type NodeVisitor func(node *sitter.Node, source []byte) bool

// Walk traverses the tree depth-first.
func Walk(node *sitter.Node, source []byte, visit NodeVisitor) {
	if node == nil || !visit(node, source) {
		return
	}
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		Walk(node.Child(i), source, visit)
	}
}

// GetNodeText returns the source text spanned by node, or "" when node is
// nil or its byte range falls outside source.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

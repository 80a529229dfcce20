package unused

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"minisweep/pkg/parser"
)

// styleExts is the allowed-extension order for stylesheet imports.
var styleExts = []string{".wxss"}

// StyleRef is one raw reference extracted from a stylesheet. Import refs
// resolve with the stylesheet extension order; url() refs are probed
// literally (fonts, images).
type StyleRef struct {
	Target   string
	IsImport bool
}

// ExtractStyleRefs returns the ordered references of a WXSS stylesheet:
// @import targets and url(...) targets, skipping data URIs and remote
// URLs.
func ExtractStyleRefs(p *parser.Parser, content []byte, path string) ([]StyleRef, error) {
	result, err := p.Parse(content, parser.LangStylesheet, path)
	if err != nil {
		return nil, err
	}

	var refs []StyleRef
	parser.Walk(result.Tree.RootNode(), content, func(node *sitter.Node, src []byte) bool {
		switch node.Type() {
		case "import_statement":
			if target := importTarget(node, src); target != "" && !isExternalRef(target) {
				refs = append(refs, StyleRef{Target: target, IsImport: true})
			}
			// Children already consumed; a url() inside @import would
			// otherwise be collected twice.
			return false
		case "call_expression":
			if target := urlTarget(node, src); target != "" && !isExternalRef(target) {
				refs = append(refs, StyleRef{Target: target})
			}
		}
		return true
	})
	return refs, nil
}

// importTarget extracts the target of an @import rule, which is either a
// quoted string or a url() call.
func importTarget(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "string_value":
			return unquote(parser.GetNodeText(child, source))
		case "call_expression":
			if target := urlTarget(child, source); target != "" {
				return target
			}
		}
	}
	return ""
}

// urlTarget extracts the argument of a url(...) call expression; "" for
// any other function.
func urlTarget(node *sitter.Node, source []byte) string {
	var isURL bool
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "function_name":
			isURL = strings.EqualFold(parser.GetNodeText(child, source), "url")
		case "arguments":
			if !isURL {
				return ""
			}
			for j := 0; j < int(child.ChildCount()); j++ {
				arg := child.Child(j)
				switch arg.Type() {
				case "string_value":
					return unquote(parser.GetNodeText(arg, source))
				case "plain_value":
					return parser.GetNodeText(arg, source)
				}
			}
		}
	}
	return ""
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

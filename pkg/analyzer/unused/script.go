package unused

import (
	sitter "github.com/smacker/go-tree-sitter"

	"minisweep/pkg/parser"
)

// scriptExts is the allowed-extension priority order for script references.
var scriptExts = []string{".js", ".ts", ".json"}

// wxsExts restricts WXS module files to referencing their own kind.
var wxsExts = []string{".wxs"}

// ExtractScriptRefs returns the ordered raw references of a script file:
// static import specifiers of every flavor, require() targets, and dynamic
// import() targets. Parsing the AST rather than scanning text keeps
// occurrences inside comments and unrelated string literals out of the
// result.
func ExtractScriptRefs(p *parser.Parser, content []byte, path string) ([]string, error) {
	lang := parser.LangJavaScript
	if parser.DetectLanguage(path) == parser.LangTypeScript {
		lang = parser.LangTypeScript
	}
	result, err := p.Parse(content, lang, path)
	if err != nil {
		return nil, err
	}

	var refs []string
	parser.Walk(result.Tree.RootNode(), content, func(node *sitter.Node, src []byte) bool {
		switch node.Type() {
		case "import_statement", "export_statement":
			// export_statement carries a source only for re-exports.
			if ref := stringLiteral(node.ChildByFieldName("source"), src); ref != "" {
				refs = append(refs, ref)
			}
		case "call_expression":
			fn := node.ChildByFieldName("function")
			if fn == nil {
				return true
			}
			isRequire := fn.Type() == "identifier" && parser.GetNodeText(fn, src) == "require"
			isDynImport := fn.Type() == "import"
			if !isRequire && !isDynImport {
				return true
			}
			if args := node.ChildByFieldName("arguments"); args != nil {
				for i := 0; i < int(args.ChildCount()); i++ {
					child := args.Child(i)
					if child.Type() == "string" {
						if ref := stringLiteral(child, src); ref != "" {
							refs = append(refs, ref)
						}
						break
					}
				}
			}
		}
		return true
	})
	return refs, nil
}

// stringLiteral returns the unquoted text of a string node. Template
// strings and computed specifiers yield "" since their value is not static.
func stringLiteral(node *sitter.Node, source []byte) string {
	if node == nil || node.Type() != "string" {
		return ""
	}
	text := parser.GetNodeText(node, source)
	if len(text) < 2 {
		return ""
	}
	return text[1 : len(text)-1]
}

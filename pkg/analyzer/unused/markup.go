package unused

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"minisweep/pkg/parser"
)

// markupExts is the allowed-extension order for template references.
var markupExts = []string{".wxml"}

// MarkupRefKind distinguishes how a markup reference resolves.
type MarkupRefKind int

const (
	// MarkupTemplate is the src of an import or include tag.
	MarkupTemplate MarkupRefKind = iota
	// MarkupModule is the src of a wxs module tag.
	MarkupModule
	// MarkupImage is the src of an image tag, probed literally.
	MarkupImage
)

// MarkupRef is one raw reference extracted from a template.
type MarkupRef struct {
	Src  string
	Kind MarkupRefKind
}

// MarkupExtract is the result of scanning one template: the ordered raw
// references plus the tag-usage map consumed by the component-usage linter
// (tag name -> generic-component attribute values), which never feeds the
// dependency graph.
type MarkupExtract struct {
	Refs     []MarkupRef
	TagUsage map[string][]string
}

// ExtractMarkup collects references from a WXML template. Image sources
// that are data URIs, remote URLs, or still contain an unresolved template
// expression are skipped.
func ExtractMarkup(p *parser.Parser, content []byte, path string) (*MarkupExtract, error) {
	result, err := p.Parse(content, parser.LangMarkup, path)
	if err != nil {
		return nil, err
	}

	out := &MarkupExtract{TagUsage: make(map[string][]string)}
	parser.Walk(result.Tree.RootNode(), content, func(node *sitter.Node, src []byte) bool {
		switch node.Type() {
		case "start_tag", "self_closing_tag":
			tag, attrs := readTag(node, src)
			if tag == "" {
				return true
			}
			out.recordTag(tag, attrs)
			switch tag {
			case "import", "include":
				if s := attrs["src"]; s != "" {
					out.Refs = append(out.Refs, MarkupRef{Src: s, Kind: MarkupTemplate})
				}
			case "wxs":
				if s := attrs["src"]; s != "" {
					out.Refs = append(out.Refs, MarkupRef{Src: s, Kind: MarkupModule})
				}
			case "image":
				s := attrs["src"]
				if s == "" || isExternalRef(s) || strings.Contains(s, "{{") {
					return true
				}
				out.Refs = append(out.Refs, MarkupRef{Src: s, Kind: MarkupImage})
			}
		}
		return true
	})
	return out, nil
}

// recordTag notes a used tag and any generic-component bindings on it.
func (m *MarkupExtract) recordTag(tag string, attrs map[string]string) {
	if _, ok := m.TagUsage[tag]; !ok {
		m.TagUsage[tag] = nil
	}
	for name, value := range attrs {
		if strings.HasPrefix(name, "generic:") && value != "" && !strings.Contains(value, "{{") {
			m.TagUsage[tag] = append(m.TagUsage[tag], value)
		}
	}
}

// readTag returns the tag name and attribute map of a start or
// self-closing tag node.
func readTag(node *sitter.Node, source []byte) (string, map[string]string) {
	var tag string
	attrs := make(map[string]string)
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "tag_name":
			tag = parser.GetNodeText(child, source)
		case "attribute":
			name, value := readAttribute(child, source)
			if name != "" {
				attrs[name] = value
			}
		}
	}
	return tag, attrs
}

func readAttribute(node *sitter.Node, source []byte) (string, string) {
	var name, value string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "attribute_name":
			name = parser.GetNodeText(child, source)
		case "attribute_value":
			value = parser.GetNodeText(child, source)
		case "quoted_attribute_value":
			for j := 0; j < int(child.ChildCount()); j++ {
				if inner := child.Child(j); inner.Type() == "attribute_value" {
					value = parser.GetNodeText(inner, source)
				}
			}
		}
	}
	return name, value
}

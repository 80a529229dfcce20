package graph

import (
	"fmt"
	"io"
	"strings"
)

// WriteDOT renders the graph in Graphviz DOT form. Edge relations become
// edge labels so downstream tooling can style them.
func (g *Graph) WriteDOT(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph dependencies {"); err != nil {
		return err
	}
	fmt.Fprintln(w, "    rankdir=LR;")
	for _, id := range g.order {
		node := g.nodes[id]
		fmt.Fprintf(w, "    %q [label=%q, kind=%q];\n", id, node.Label, node.Kind)
	}
	for _, e := range g.edges {
		fmt.Fprintf(w, "    %q -> %q [label=%q];\n", e.From, e.To, e.Relation)
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

// WriteMermaid renders the graph as a Mermaid flowchart.
func (g *Graph) WriteMermaid(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "graph LR"); err != nil {
		return err
	}
	for _, id := range g.order {
		node := g.nodes[id]
		fmt.Fprintf(w, "    %s[\"%s\"]\n", sanitizeMermaidID(id), escapeMermaidLabel(node.Label))
	}
	for _, e := range g.edges {
		fmt.Fprintf(w, "    %s -->|%s| %s\n",
			sanitizeMermaidID(e.From), e.Relation, sanitizeMermaidID(e.To))
	}
	return nil
}

// sanitizeMermaidID makes an id safe for Mermaid diagrams.
func sanitizeMermaidID(id string) string {
	var b []byte
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b = append(b, c)
		} else {
			b = append(b, '_')
		}
	}
	if len(b) == 0 {
		return "empty"
	}
	if b[0] >= '0' && b[0] <= '9' {
		b = append([]byte{'n'}, b...)
	}
	return string(b)
}

// escapeMermaidLabel escapes characters that break Mermaid labels.
func escapeMermaidLabel(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"\"", "&quot;",
		"<", "&lt;",
		">", "&gt;",
		"|", "&#124;",
		"[", "&#91;",
		"]", "&#93;",
	)
	return r.Replace(s)
}

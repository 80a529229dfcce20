package graph

// Serialized is the flat {nodes, links} form consumed by visualization and
// export tooling.
type Serialized struct {
	Nodes []SerializedNode `json:"nodes"`
	Links []SerializedLink `json:"links"`
}

// SerializedNode is a node in the serialized form.
type SerializedNode struct {
	ID string `json:"id"`
}

// SerializedLink is an edge in the serialized form.
type SerializedLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Serialize converts the graph to its flat export form. Parallel edges of
// different relations collapse into one link.
func (g *Graph) Serialize() Serialized {
	s := Serialized{
		Nodes: make([]SerializedNode, 0, len(g.order)),
		Links: make([]SerializedLink, 0, len(g.edges)),
	}
	for _, id := range g.order {
		s.Nodes = append(s.Nodes, SerializedNode{ID: id})
	}
	seen := make(map[[2]string]struct{}, len(g.edges))
	for _, e := range g.edges {
		key := [2]string{e.From, e.To}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		s.Links = append(s.Links, SerializedLink{Source: e.From, Target: e.To})
	}
	return s
}

// TreeNode is one node of the tree form used by hierarchical renderers.
// Cyclic references terminate at a node with Cycle set instead of recursing.
type TreeNode struct {
	ID       string      `json:"id"`
	Label    string      `json:"label"`
	Kind     NodeKind    `json:"kind"`
	Cycle    bool        `json:"cycle,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

// ToTree expands the graph into a tree rooted at rootID. A node already on
// the current root-to-leaf path is emitted as a cycle marker leaf, bounding
// the recursion.
func (g *Graph) ToTree(rootID string) *TreeNode {
	node := g.nodes[rootID]
	if node == nil {
		return nil
	}
	onPath := make(map[string]bool)
	return g.expand(node, onPath)
}

func (g *Graph) expand(node *Node, onPath map[string]bool) *TreeNode {
	tn := &TreeNode{ID: node.ID, Label: node.Label, Kind: node.Kind}
	onPath[node.ID] = true
	defer delete(onPath, node.ID)

	for _, idx := range g.out[node.ID] {
		edge := g.edges[idx]
		target := g.nodes[edge.To]
		if target == nil {
			continue
		}
		if onPath[target.ID] {
			tn.Children = append(tn.Children, &TreeNode{
				ID:    target.ID,
				Label: target.Label,
				Kind:  target.Kind,
				Cycle: true,
			})
			continue
		}
		tn.Children = append(tn.Children, g.expand(target, onPath))
	}
	return tn
}

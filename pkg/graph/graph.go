package graph

// NodeKind classifies a graph node.
type NodeKind string

const (
	KindApp       NodeKind = "app"
	KindPage      NodeKind = "page"
	KindComponent NodeKind = "component"
	KindPackage   NodeKind = "package"
	KindModule    NodeKind = "module"
)

// String returns the string representation.
func (k NodeKind) String() string {
	return string(k)
}

// Relation classifies a dependency edge.
type Relation string

const (
	RelStructure   Relation = "structure"
	RelImport      Relation = "import"
	RelTemplate    Relation = "template"
	RelStyle       Relation = "style"
	RelConfig      Relation = "config"
	RelResource    Relation = "resource"
	RelWorkerEntry Relation = "worker"
)

// String returns the string representation.
func (r Relation) String() string {
	return string(r)
}

// Properties carries per-node attributes. Module nodes have the physical
// file attributes set; Page and Component nodes carry the shared BasePath
// under which their cluster files live.
type Properties struct {
	AbsPath  string `json:"abs_path,omitempty"`
	Size     int64  `json:"size,omitempty"`
	Ext      string `json:"ext,omitempty"`
	BasePath string `json:"base_path,omitempty"`
}

// Node is a vertex in the dependency graph. File-kind nodes are identified
// by their canonical absolute path; structural nodes use a synthetic id.
type Node struct {
	ID         string     `json:"id"`
	Kind       NodeKind   `json:"kind"`
	Label      string     `json:"label"`
	Properties Properties `json:"properties"`
}

// Edge is a typed directed edge. Identical (From, To, Relation) triples are
// deduplicated; distinct relations between the same pair are distinct edges.
type Edge struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Relation Relation `json:"relation"`
}

type edgeKey struct {
	from, to string
	relation Relation
}

// Graph is a directed, typed-edge dependency graph keyed by node id.
// A Graph is built once by a single builder and treated as immutable by
// its consumers afterward; it is not safe for concurrent mutation.
type Graph struct {
	nodes    map[string]*Node
	order    []string
	ordinals map[string]uint32
	edges    []Edge
	edgeSet  map[edgeKey]struct{}
	out      map[string][]int
	in       map[string][]int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		ordinals: make(map[string]uint32),
		edgeSet:  make(map[edgeKey]struct{}),
		out:      make(map[string][]int),
		in:       make(map[string][]int),
	}
}

// AddNode inserts a node. Inserting an id that already exists is a no-op
// and returns false.
func (g *Graph) AddNode(n Node) bool {
	if _, ok := g.nodes[n.ID]; ok {
		return false
	}
	stored := n
	g.nodes[n.ID] = &stored
	g.ordinals[n.ID] = uint32(len(g.order))
	g.order = append(g.order, n.ID)
	return true
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// Ordinal returns the dense insertion ordinal for a node id. The second
// return is false for unknown ids.
func (g *Graph) Ordinal(id string) (uint32, bool) {
	ord, ok := g.ordinals[id]
	return ord, ok
}

// AddEdge inserts a typed edge. Duplicate (from, to, relation) triples are
// collapsed; the return reports whether the edge was newly added. Edges may
// reference ids that are not (yet) nodes; traversal ignores such targets.
func (g *Graph) AddEdge(from, to string, rel Relation) bool {
	key := edgeKey{from, to, rel}
	if _, ok := g.edgeSet[key]; ok {
		return false
	}
	g.edgeSet[key] = struct{}{}
	idx := len(g.edges)
	g.edges = append(g.edges, Edge{From: from, To: to, Relation: rel})
	g.out[from] = append(g.out[from], idx)
	g.in[to] = append(g.in[to], idx)
	return true
}

// HasEdge reports whether the exact (from, to, relation) edge exists.
func (g *Graph) HasEdge(from, to string, rel Relation) bool {
	_, ok := g.edgeSet[edgeKey{from, to, rel}]
	return ok
}

// OutEdges returns the outgoing edges of a node in insertion order.
func (g *Graph) OutEdges(id string) []Edge {
	return g.edgesAt(g.out[id])
}

// InEdges returns the incoming edges of a node in insertion order.
func (g *Graph) InEdges(id string) []Edge {
	return g.edgesAt(g.in[id])
}

func (g *Graph) edgesAt(indices []int) []Edge {
	if len(indices) == 0 {
		return nil
	}
	edges := make([]Edge, len(indices))
	for i, idx := range indices {
		edges[i] = g.edges[idx]
	}
	return edges
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, *g.nodes[id])
	}
	return nodes
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// NodesByKind returns the ids of all nodes of the given kind, in
// insertion order.
func (g *Graph) NodesByKind(kind NodeKind) []string {
	var ids []string
	for _, id := range g.order {
		if g.nodes[id].Kind == kind {
			ids = append(ids, id)
		}
	}
	return ids
}

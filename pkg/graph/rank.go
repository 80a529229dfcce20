package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// NodeRank holds importance metrics for one node.
type NodeRank struct {
	ID        string  `json:"id"`
	PageRank  float64 `json:"pagerank"`
	InDegree  int     `json:"in_degree"`
	OutDegree int     `json:"out_degree"`
}

// RankSummary aggregates graph-wide structure metrics.
type RankSummary struct {
	TotalNodes int        `json:"total_nodes"`
	TotalEdges int        `json:"total_edges"`
	Cycles     [][]string `json:"cycles,omitempty"`
	IsCyclic   bool       `json:"is_cyclic"`
}

// Ranking is the result of Rank.
type Ranking struct {
	Nodes   []NodeRank  `json:"nodes"`
	Summary RankSummary `json:"summary"`
}

// Rank computes PageRank-based node importance and strongly connected
// component cycles, used to order and annotate visualization output.
func (g *Graph) Rank() *Ranking {
	directed := simple.NewDirectedGraph()
	idToGonum := make(map[string]int64, len(g.order))
	gonumToID := make(map[int64]string, len(g.order))
	for i, id := range g.order {
		gid := int64(i)
		idToGonum[id] = gid
		gonumToID[gid] = id
		directed.AddNode(simple.Node(gid))
	}
	for _, e := range g.edges {
		from, okF := idToGonum[e.From]
		to, okT := idToGonum[e.To]
		if !okF || !okT || from == to {
			continue
		}
		directed.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
	}

	ranks := network.PageRank(directed, 0.85, 1e-6)

	r := &Ranking{
		Summary: RankSummary{
			TotalNodes: g.NodeCount(),
			TotalEdges: g.EdgeCount(),
		},
	}
	for _, id := range g.order {
		r.Nodes = append(r.Nodes, NodeRank{
			ID:        id,
			PageRank:  ranks[idToGonum[id]],
			InDegree:  len(g.in[id]),
			OutDegree: len(g.out[id]),
		})
	}
	sort.SliceStable(r.Nodes, func(i, j int) bool {
		return r.Nodes[i].PageRank > r.Nodes[j].PageRank
	})

	for _, scc := range topo.TarjanSCC(directed) {
		if len(scc) < 2 {
			continue
		}
		cycle := make([]string, 0, len(scc))
		for _, n := range scc {
			cycle = append(cycle, gonumToID[n.ID()])
		}
		sort.Strings(cycle)
		r.Summary.Cycles = append(r.Summary.Cycles, cycle)
	}
	r.Summary.IsCyclic = len(r.Summary.Cycles) > 0
	return r
}

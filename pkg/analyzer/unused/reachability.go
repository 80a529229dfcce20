package unused

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"minisweep/pkg/graph"
)

// Reachable runs a breadth-first traversal over outgoing edges from the
// entry set and returns the sorted ids of every visited node. Visited
// state is a roaring bitmap keyed by node ordinal, so dense graphs stay
// cheap. Edges whose target is not a node are skipped; entries that are
// not nodes contribute nothing.
func Reachable(g *graph.Graph, entries []string) []string {
	visited := roaring.New()
	queue := make([]string, 0, len(entries))
	for _, id := range entries {
		ord, ok := g.Ordinal(id)
		if !ok || visited.Contains(ord) {
			continue
		}
		visited.Add(ord)
		queue = append(queue, id)
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, e := range g.OutEdges(id) {
			ord, ok := g.Ordinal(e.To)
			if !ok || visited.Contains(ord) {
				continue
			}
			visited.Add(ord)
			queue = append(queue, e.To)
		}
	}

	ids := make([]string, 0, visited.GetCardinality())
	for _, n := range g.Nodes() {
		if ord, ok := g.Ordinal(n.ID); ok && visited.Contains(ord) {
			ids = append(ids, n.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

package graph

import "github.com/samithreddychinni/greedytangle/pkg/geom"

// CountIntersections returns the number of strictly interior edge crossings
// in the graph. Every unordered pair of edges that does not share a vertex
// is tested with [geom.SegmentsCross] on the current node positions.
//
// The cost is O(E²) segment tests. This function runs once per frame tick
// for the display flag, and far more heavily inside every solver's
// candidate-evaluation loop — millions of calls per search on larger
// graphs — so it allocates nothing and skips out-of-range edge IDs instead
// of faulting.
func CountIntersections(nodes []Node, edges []Edge) int {
	count := 0
	n := len(nodes)

	for i := 0; i < len(edges); i++ {
		e1 := edges[i]
		if e1.U < 0 || e1.U >= n || e1.V < 0 || e1.V >= n {
			continue
		}
		for j := i + 1; j < len(edges); j++ {
			e2 := edges[j]
			if e2.U < 0 || e2.U >= n || e2.V < 0 || e2.V >= n {
				continue
			}
			if e1.SharesVertex(e2) {
				continue
			}
			if geom.SegmentsCross(nodes[e1.U].Pos, nodes[e1.V].Pos,
				nodes[e2.U].Pos, nodes[e2.V].Pos) {
				count++
			}
		}
	}
	return count
}

// CountIntersectionsWithMove counts crossings as if node id were at pos.
// The node slice is restored before returning, so callers can reuse one
// scratch copy across an entire candidate sweep.
func CountIntersectionsWithMove(nodes []Node, edges []Edge, id int, pos geom.Vec2) int {
	if id < 0 || id >= len(nodes) {
		return CountIntersections(nodes, edges)
	}
	orig := nodes[id].Pos
	nodes[id].Pos = pos
	count := CountIntersections(nodes, edges)
	nodes[id].Pos = orig
	return count
}

// MarkIntersections refreshes the per-edge display flag and returns the
// total crossing count. Rendering collaborators read the flags; the
// solvers never do.
func (g *Graph) MarkIntersections() int {
	for i := range g.Edges {
		g.Edges[i].Intersecting = false
	}

	count := 0
	n := len(g.Nodes)
	for i := 0; i < len(g.Edges); i++ {
		e1 := g.Edges[i]
		if e1.U < 0 || e1.U >= n || e1.V < 0 || e1.V >= n {
			continue
		}
		for j := i + 1; j < len(g.Edges); j++ {
			e2 := g.Edges[j]
			if e2.U < 0 || e2.U >= n || e2.V < 0 || e2.V >= n {
				continue
			}
			if e1.SharesVertex(e2) {
				continue
			}
			if geom.SegmentsCross(g.Nodes[e1.U].Pos, g.Nodes[e1.V].Pos,
				g.Nodes[e2.U].Pos, g.Nodes[e2.V].Pos) {
				g.Edges[i].Intersecting = true
				g.Edges[j].Intersecting = true
				count++
			}
		}
	}
	return count
}

// Package graph defines the node/edge model shared by the solvers, the race
// controller, and the replay log, together with its JSON serialization and
// the whole-graph crossing counter.
//
// Graphs are plain value types. The interactive graph and the CPU race copy
// never share backing arrays: use [Graph.Clone] whenever a mutation must not
// be observable by another owner.
package graph

import (
	"errors"
	"fmt"

	"github.com/samithreddychinni/greedytangle/pkg/geom"
)

var (
	// ErrNodeIDOutOfRange is returned by [Graph.Validate] when an edge or an
	// adjacency entry references a node index outside the node slice.
	ErrNodeIDOutOfRange = errors.New("node id out of range")

	// ErrSelfLoop is returned by [Graph.Validate] when an edge connects a
	// node to itself. Self-loops have no geometric meaning here.
	ErrSelfLoop = errors.New("edge connects node to itself")

	// ErrDuplicateEdge is returned by [Graph.Validate] when the same
	// unordered node pair appears more than once in the edge list.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrAsymmetricAdjacency is returned by [Graph.Validate] when u lists v
	// as a neighbor but v does not list u.
	ErrAsymmetricAdjacency = errors.New("adjacency lists are not symmetric")
)

// DefaultNodeRadius is the hit-test radius assigned to generated nodes.
// It only matters to interactive collaborators, never to the solvers.
const DefaultNodeRadius = 15.0

// Node is a vertex with a position in the plane. ID is the node's stable
// index into the owning slice; Adj holds the IDs of its neighbors.
type Node struct {
	ID     int       `json:"id" bson:"id"`
	Pos    geom.Vec2 `json:"pos" bson:"pos"`
	Radius float64   `json:"radius,omitempty" bson:"radius,omitempty"`
	Adj    []int     `json:"adj,omitempty" bson:"adj,omitempty"`
}

// Contains reports whether p falls inside the node's hit-test circle.
func (n *Node) Contains(p geom.Vec2) bool {
	return p.Sub(n.Pos).LengthSq() <= n.Radius*n.Radius
}

// Edge is an unordered pair of node IDs. Intersecting is a transient
// display flag refreshed by [Graph.MarkIntersections]; the solvers ignore it.
type Edge struct {
	U            int  `json:"u" bson:"u"`
	V            int  `json:"v" bson:"v"`
	Intersecting bool `json:"-" bson:"-"`
}

// SharesVertex reports whether e and o have a node in common.
func (e Edge) SharesVertex(o Edge) bool {
	return e.U == o.U || e.U == o.V || e.V == o.U || e.V == o.V
}

// Graph couples a node slice with its edge list.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Clone returns a deep value copy. Adjacency slices are copied so the clone
// can be mutated without affecting the receiver.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(c.Edges, g.Edges)
	for i, n := range g.Nodes {
		c.Nodes[i] = n
		if n.Adj != nil {
			c.Nodes[i].Adj = make([]int, len(n.Adj))
			copy(c.Nodes[i].Adj, n.Adj)
		}
	}
	return c
}

// CloneNodes returns a deep copy of just the node slice. Search tasks take
// one of these so background evaluation never touches live positions.
func CloneNodes(nodes []Node) []Node {
	c := make([]Node, len(nodes))
	for i, n := range nodes {
		c[i] = n
		if n.Adj != nil {
			c[i].Adj = make([]int, len(n.Adj))
			copy(c[i].Adj, n.Adj)
		}
	}
	return c
}

// Degree returns the number of neighbors of node id, or 0 when id is out
// of range.
func (g *Graph) Degree(id int) int {
	if id < 0 || id >= len(g.Nodes) {
		return 0
	}
	return len(g.Nodes[id].Adj)
}

// RebuildAdjacency derives every node's neighbor list from the edge set,
// discarding whatever was there. Useful after decoding external input that
// carries edges only.
func (g *Graph) RebuildAdjacency() {
	for i := range g.Nodes {
		g.Nodes[i].Adj = nil
	}
	for _, e := range g.Edges {
		if e.U < 0 || e.U >= len(g.Nodes) || e.V < 0 || e.V >= len(g.Nodes) {
			continue
		}
		g.Nodes[e.U].Adj = append(g.Nodes[e.U].Adj, e.V)
		g.Nodes[e.V].Adj = append(g.Nodes[e.V].Adj, e.U)
	}
}

// Validate checks the structural invariants: edge and adjacency IDs in
// range, no self-loops, no duplicate unordered pairs, symmetric adjacency.
func (g *Graph) Validate() error {
	n := len(g.Nodes)

	seen := make(map[[2]int]bool, len(g.Edges))
	for _, e := range g.Edges {
		if e.U < 0 || e.U >= n || e.V < 0 || e.V >= n {
			return fmt.Errorf("edge (%d,%d): %w", e.U, e.V, ErrNodeIDOutOfRange)
		}
		if e.U == e.V {
			return fmt.Errorf("edge (%d,%d): %w", e.U, e.V, ErrSelfLoop)
		}
		key := [2]int{min(e.U, e.V), max(e.U, e.V)}
		if seen[key] {
			return fmt.Errorf("edge (%d,%d): %w", e.U, e.V, ErrDuplicateEdge)
		}
		seen[key] = true
	}

	for _, node := range g.Nodes {
		for _, nb := range node.Adj {
			if nb < 0 || nb >= n {
				return fmt.Errorf("node %d neighbor %d: %w", node.ID, nb, ErrNodeIDOutOfRange)
			}
			if !contains(g.Nodes[nb].Adj, node.ID) {
				return fmt.Errorf("node %d lists %d: %w", node.ID, nb, ErrAsymmetricAdjacency)
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of all node positions.
// ok is false for an empty graph.
func (g *Graph) Bounds() (minP, maxP geom.Vec2, ok bool) {
	if len(g.Nodes) == 0 {
		return geom.Vec2{}, geom.Vec2{}, false
	}
	minP = g.Nodes[0].Pos
	maxP = g.Nodes[0].Pos
	for _, n := range g.Nodes[1:] {
		minP.X = min(minP.X, n.Pos.X)
		minP.Y = min(minP.Y, n.Pos.Y)
		maxP.X = max(maxP.X, n.Pos.X)
		maxP.Y = max(maxP.Y, n.Pos.Y)
	}
	return minP, maxP, true
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// Package gen builds puzzle graphs. Every generator produces a graph that
// is planar by construction, lays it out untangled on a circle or grid,
// and then scrambles the node positions so the player (or a solver) has
// something to untangle. The underlying structure stays solvable: a zero-
// crossing layout always exists.
package gen

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/samithreddychinni/greedytangle/pkg/config"
	"github.com/samithreddychinni/greedytangle/pkg/errors"
	"github.com/samithreddychinni/greedytangle/pkg/geom"
	"github.com/samithreddychinni/greedytangle/pkg/graph"
)

const (
	// MinNodes and MaxNodes clamp requested puzzle sizes.
	MinNodes = 3
	MaxNodes = 200

	// randomMargin keeps randomly placed nodes away from the play area edge.
	randomMargin = 80.0
)

// Rand returns a deterministic source for the given seed; seed 0 derives
// one from the wall clock.
func Rand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed<<1|1))
}

// Level dispatches to the difficulty-specific generator. Accepted levels
// are "easy", "medium", and "hard".
func Level(cfg config.Config, level string, nodeCount int, rng *rand.Rand) (*graph.Graph, error) {
	switch level {
	case "easy":
		return Easy(cfg, nodeCount, rng), nil
	case "medium":
		return Medium(cfg, nodeCount, rng), nil
	case "hard":
		return Hard(cfg, nodeCount, rng), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidLevel, "unknown level %q", level)
	}
}

func clampCount(n int) int {
	if n < MinNodes {
		return MinNodes
	}
	if n > MaxNodes {
		return MaxNodes
	}
	return n
}

// ============================================================================
// Difficulty generators
// ============================================================================

// Easy builds a Hamiltonian cycle with a couple of non-crossing chords.
// Low rigidity: the ring flexes, so most moves help.
func Easy(cfg config.Config, nodeCount int, rng *rand.Rand) *graph.Graph {
	if rng == nil {
		rng = Rand(0)
	}
	n := clampCount(nodeCount)

	g := emptyGraph(n)
	for i := 0; i < n; i++ {
		addEdge(g, i, (i+1)%n)
	}

	numChords := 2
	if n > 10 {
		numChords = 3
	}

	// Chords are accepted only if they would not cross an existing chord
	// when all nodes sit on a circle in index order. Interval nesting on
	// the cycle decides that without any geometry.
	added := 0
	for attempts := 0; added < numChords && attempts < 200; attempts++ {
		u, v := rng.IntN(n), rng.IntN(n)
		if u == v {
			continue
		}
		diff := u - v
		if diff < 0 {
			diff = -diff
		}
		if diff == 1 || diff == n-1 {
			continue
		}
		if hasEdge(g, u, v) {
			continue
		}

		crosses := false
		for _, e := range g.Edges {
			if isCycleEdge(e, n) {
				continue
			}
			if chordsCrossOnCycle(u, v, e.U, e.V) {
				crosses = true
				break
			}
		}
		if !crosses {
			addEdge(g, u, v)
			added++
		}
	}

	PlanarCircle(cfg, g)
	CircleScramble(cfg, g, rng)
	return g
}

// Medium builds a grid mesh and knocks roughly a fifth of the edges out,
// keeping every node at degree two or higher so the mesh stays connected.
func Medium(cfg config.Config, nodeCount int, rng *rand.Rand) *graph.Graph {
	if rng == nil {
		rng = Rand(0)
	}
	n := clampCount(nodeCount)

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols

	spacing := math.Min(cfg.Width, cfg.Height) / (float64(max(rows, cols)) + 1)
	startX := cfg.Width/2 - float64(cols-1)*spacing/2
	startY := cfg.Height/2 - float64(rows-1)*spacing/2

	g := emptyGraph(n)
	for i := 0; i < n; i++ {
		row, col := i/cols, i%cols
		g.Nodes[i].Pos = geom.Vec2{
			X: startX + float64(col)*spacing,
			Y: startY + float64(row)*spacing,
		}
	}

	for i := 0; i < n; i++ {
		row, col := i/cols, i%cols
		if col < cols-1 && i+1 < n {
			addEdge(g, i, i+1)
		}
		if row < rows-1 && i+cols < n {
			addEdge(g, i, i+cols)
		}
	}

	removeMeshEdges(g, int(float64(len(g.Edges))*0.22), rng)

	CircleScramble(cfg, g, rng)
	return g
}

// removeMeshEdges drops up to want edges, never taking a node below
// degree two.
func removeMeshEdges(g *graph.Graph, want int, rng *rand.Rand) {
	order := rng.Perm(len(g.Edges))

	degree := make([]int, len(g.Nodes))
	for _, e := range g.Edges {
		degree[e.U]++
		degree[e.V]++
	}

	drop := make(map[int]bool, want)
	for _, idx := range order {
		if len(drop) >= want {
			break
		}
		e := g.Edges[idx]
		if degree[e.U] > 2 && degree[e.V] > 2 {
			degree[e.U]--
			degree[e.V]--
			drop[idx] = true
		}
	}
	if len(drop) == 0 {
		return
	}

	kept := g.Edges[:0]
	for i, e := range g.Edges {
		if !drop[i] {
			kept = append(kept, e)
		}
	}
	g.Edges = kept
	g.RebuildAdjacency()
}

// Hard builds a maximal planar triangulation by repeatedly splitting a
// random face with a new node at its jittered centroid. High rigidity:
// almost every node is pinned by its triangles.
func Hard(cfg config.Config, nodeCount int, rng *rand.Rand) *graph.Graph {
	if rng == nil {
		rng = Rand(0)
	}
	n := clampCount(nodeCount)

	cx, cy := cfg.Width/2, cfg.Height/2
	radius := math.Min(cfg.Width, cfg.Height) / 2.8

	g := emptyGraph(n)
	g.Nodes[0].Pos = geom.Vec2{X: cx, Y: cy - radius}
	g.Nodes[1].Pos = geom.Vec2{X: cx - radius*0.866, Y: cy + radius*0.5}
	g.Nodes[2].Pos = geom.Vec2{X: cx + radius*0.866, Y: cy + radius*0.5}
	addEdge(g, 0, 1)
	addEdge(g, 1, 2)
	addEdge(g, 2, 0)

	type face struct{ a, b, c int }
	faces := []face{{0, 1, 2}}

	for id := 3; id < n; id++ {
		idx := rng.IntN(len(faces))
		f := faces[idx]

		pa, pb, pc := g.Nodes[f.a].Pos, g.Nodes[f.b].Pos, g.Nodes[f.c].Pos
		jitter := func() float64 { return (rng.Float64()*0.2 - 0.1) * 20 }
		g.Nodes[id].Pos = geom.Vec2{
			X: (pa.X+pb.X+pc.X)/3 + jitter(),
			Y: (pa.Y+pb.Y+pc.Y)/3 + jitter(),
		}

		addEdge(g, id, f.a)
		addEdge(g, id, f.b)
		addEdge(g, id, f.c)

		faces[idx] = faces[len(faces)-1]
		faces = faces[:len(faces)-1]
		faces = append(faces,
			face{f.a, f.b, id},
			face{f.b, f.c, id},
			face{f.c, f.a, id})
	}

	CircleScramble(cfg, g, rng)
	return g
}

// Random scatters nodes uniformly inside the play area and wires random
// distinct edges between them. Unlike the difficulty generators it makes
// no planarity promise; it exists for stress inputs and benchmarks.
func Random(cfg config.Config, nodeCount, edgeCount int, rng *rand.Rand) *graph.Graph {
	if rng == nil {
		rng = Rand(0)
	}
	n := clampCount(nodeCount)

	g := emptyGraph(n)
	for i := range g.Nodes {
		g.Nodes[i].Pos = geom.Vec2{
			X: randomMargin + rng.Float64()*(cfg.Width-2*randomMargin),
			Y: randomMargin + rng.Float64()*(cfg.Height-2*randomMargin),
		}
	}

	maxEdges := n * (n - 1) / 2
	if edgeCount > maxEdges {
		edgeCount = maxEdges
	}
	for attempts := 0; len(g.Edges) < edgeCount && attempts < edgeCount*50; attempts++ {
		u, v := rng.IntN(n), rng.IntN(n)
		if u == v || hasEdge(g, u, v) {
			continue
		}
		addEdge(g, u, v)
	}
	return g
}

// ============================================================================
// Layout
// ============================================================================

// PlanarCircle arranges nodes evenly on a circle in index order, starting
// at the top. For graphs whose chords were chosen not to cross on the
// cycle, this layout has zero crossings.
func PlanarCircle(cfg config.Config, g *graph.Graph) {
	cx, cy := cfg.Width/2, cfg.Height/2
	radius := math.Min(cfg.Width, cfg.Height) / 2.5

	n := float64(len(g.Nodes))
	for i := range g.Nodes {
		angle := 2*math.Pi*float64(i)/n - math.Pi/2
		g.Nodes[i].Pos = geom.Vec2{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		}
	}
}

// CircleScramble tangles the graph by reassigning nodes to circle slots in
// random order, producing the classic hairball.
func CircleScramble(cfg config.Config, g *graph.Graph, rng *rand.Rand) {
	if rng == nil {
		rng = Rand(0)
	}
	cx, cy := cfg.Width/2, cfg.Height/2
	radius := math.Min(cfg.Width, cfg.Height) / 2.5

	order := rng.Perm(len(g.Nodes))
	n := float64(len(g.Nodes))
	for slot, id := range order {
		angle := 2*math.Pi*float64(slot)/n - math.Pi/2
		g.Nodes[id].Pos = geom.Vec2{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		}
	}
}

// ============================================================================
// Construction helpers
// ============================================================================

func emptyGraph(n int) *graph.Graph {
	g := &graph.Graph{Nodes: make([]graph.Node, n)}
	for i := range g.Nodes {
		g.Nodes[i] = graph.Node{ID: i, Radius: graph.DefaultNodeRadius}
	}
	return g
}

func addEdge(g *graph.Graph, u, v int) {
	g.Edges = append(g.Edges, graph.Edge{U: u, V: v})
	g.Nodes[u].Adj = append(g.Nodes[u].Adj, v)
	g.Nodes[v].Adj = append(g.Nodes[v].Adj, u)
}

func hasEdge(g *graph.Graph, u, v int) bool {
	for _, e := range g.Edges {
		if (e.U == u && e.V == v) || (e.U == v && e.V == u) {
			return true
		}
	}
	return false
}

func isCycleEdge(e graph.Edge, n int) bool {
	return e.U == (e.V+1)%n || e.V == (e.U+1)%n
}

// chordsCrossOnCycle reports whether chords (a,b) and (c,d) interleave
// around the cycle, which is exactly when they cross in a circular layout.
func chordsCrossOnCycle(a, b, c, d int) bool {
	if a > b {
		a, b = b, a
	}
	if c > d {
		c, d = d, c
	}
	cBetween := a < c && c < b
	dBetween := a < d && d < b
	return cBetween != dBetween
}

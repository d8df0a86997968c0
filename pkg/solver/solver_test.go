package solver

import (
	"math/rand/v2"
	"testing"

	"github.com/samithreddychinni/greedytangle/pkg/config"
	"github.com/samithreddychinni/greedytangle/pkg/geom"
	"github.com/samithreddychinni/greedytangle/pkg/graph"
)

// buildGraph wires symmetric adjacency from the edge list.
func buildGraph(positions []geom.Vec2, edges []graph.Edge) *graph.Graph {
	g := &graph.Graph{Edges: edges}
	for i, p := range positions {
		g.Nodes = append(g.Nodes, graph.Node{ID: i, Pos: p, Radius: graph.DefaultNodeRadius})
	}
	for _, e := range edges {
		g.Nodes[e.U].Adj = append(g.Nodes[e.U].Adj, e.V)
		g.Nodes[e.V].Adj = append(g.Nodes[e.V].Adj, e.U)
	}
	return g
}

// crossedSquare has its two diagonals crossing once.
func crossedSquare() *graph.Graph {
	return buildGraph(
		[]geom.Vec2{{X: 200, Y: 200}, {X: 400, Y: 200}, {X: 400, Y: 400}, {X: 200, Y: 400}},
		[]graph.Edge{{U: 0, V: 2}, {U: 1, V: 3}},
	)
}

// bowtie has two long edges crossing plus two parallel ones.
func bowtie() *graph.Graph {
	return buildGraph(
		[]geom.Vec2{{X: 100, Y: 100}, {X: 400, Y: 400}, {X: 400, Y: 100}, {X: 100, Y: 400}},
		[]graph.Edge{{U: 0, V: 1}, {U: 2, V: 3}, {U: 0, V: 2}, {U: 1, V: 3}},
	)
}

// solvedTriangle has no crossings at all.
func solvedTriangle() *graph.Graph {
	return buildGraph(
		[]geom.Vec2{{X: 200, Y: 100}, {X: 400, Y: 300}, {X: 100, Y: 300}},
		[]graph.Edge{{U: 0, V: 1}, {U: 1, V: 2}, {U: 2, V: 0}},
	)
}

func allStrategies(cfg config.Config) []Solver {
	return []Solver{NewGreedy(cfg), NewDnCDP(cfg), NewBacktracking(cfg)}
}

func TestStrategiesFindImprovingMove(t *testing.T) {
	cfg := config.Default()

	builders := map[string]func() *graph.Graph{
		"CrossedSquare": crossedSquare,
		"Bowtie":        bowtie,
	}

	for name, build := range builders {
		for _, s := range allStrategies(cfg) {
			t.Run(name+"/"+s.Name(), func(t *testing.T) {
				g := build()
				before := graph.CountIntersections(g.Nodes, g.Edges)
				if before == 0 {
					t.Fatal("fixture should start tangled")
				}

				move := s.FindBestMove(g.Nodes, g.Edges)
				if !move.Valid() {
					t.Fatal("expected a valid move")
				}
				if move.Reduction <= 0 {
					t.Fatalf("Reduction = %d, want > 0", move.Reduction)
				}
				if move.Before != before {
					t.Errorf("Before = %d, want %d", move.Before, before)
				}

				// Applying the move must actually drop the global count.
				g.Nodes[move.NodeID].Pos = move.To
				after := graph.CountIntersections(g.Nodes, g.Edges)
				if after >= before {
					t.Errorf("applied move: count %d -> %d, want strict decrease", before, after)
				}
				if after != move.After {
					t.Errorf("After = %d, actual = %d", move.After, after)
				}

				if s.LastCandidatesEvaluated() <= 0 {
					t.Error("LastCandidatesEvaluated should be positive after a search")
				}
			})
		}
	}
}

func TestStrategiesOnSolvedGraph(t *testing.T) {
	cfg := config.Default()

	for _, s := range allStrategies(cfg) {
		t.Run(s.Name(), func(t *testing.T) {
			g := solvedTriangle()
			want := make([]geom.Vec2, len(g.Nodes))
			for i, n := range g.Nodes {
				want[i] = n.Pos
			}

			move := s.FindBestMove(g.Nodes, g.Edges)
			if move.Valid() {
				t.Errorf("solved graph returned valid move %+v", move)
			}
			if move.Before != 0 || move.After != 0 {
				t.Errorf("Before/After = %d/%d, want 0/0", move.Before, move.After)
			}

			for i, n := range g.Nodes {
				if n.Pos != want[i] {
					t.Errorf("node %d moved: %v -> %v", i, want[i], n.Pos)
				}
			}
		})
	}
}

func TestValidMovesNeverRegress(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewPCG(3, 9))

	for trial := 0; trial < 6; trial++ {
		// Random positions for a fixed ring-with-chords topology.
		n := 6
		var positions []geom.Vec2
		for i := 0; i < n; i++ {
			positions = append(positions, geom.Vec2{
				X: cfg.Margin + rng.Float64()*(cfg.Width-2*cfg.Margin),
				Y: cfg.Margin + rng.Float64()*(cfg.Height-2*cfg.Margin),
			})
		}
		edges := []graph.Edge{
			{U: 0, V: 1}, {U: 1, V: 2}, {U: 2, V: 3}, {U: 3, V: 4}, {U: 4, V: 5}, {U: 5, V: 0},
			{U: 0, V: 3}, {U: 1, V: 4},
		}
		for _, s := range allStrategies(cfg) {
			g := buildGraph(positions, edges)
			move := s.FindBestMove(g.Nodes, g.Edges)
			if move.Valid() && move.Reduction < 0 {
				t.Errorf("trial %d %s: negative reduction %d", trial, s.Name(), move.Reduction)
			}
			if move.Valid() && move.Before-move.After != move.Reduction {
				t.Errorf("trial %d %s: inconsistent move %+v", trial, s.Name(), move)
			}
		}
	}
}

func TestGreedyPicksLargestReduction(t *testing.T) {
	cfg := config.Default()
	g := bowtie()
	before := graph.CountIntersections(g.Nodes, g.Edges)

	move := NewGreedy(cfg).FindBestMove(g.Nodes, g.Edges)
	if !move.Valid() {
		t.Fatal("no move found")
	}

	// No single candidate anywhere may beat the reported reduction.
	scratch := graph.CloneNodes(g.Nodes)
	for id := range scratch {
		for _, c := range candidatePositions(cfg, id, scratch) {
			after := graph.CountIntersectionsWithMove(scratch, g.Edges, id, c)
			if before-after > move.Reduction {
				t.Fatalf("candidate (node %d, %v) reduces by %d, reported best %d",
					id, c, before-after, move.Reduction)
			}
		}
	}
}

func TestNeutralSpreadPrefersSeparation(t *testing.T) {
	cfg := config.Default()
	g := solvedTriangle()
	// Crowd two nodes together so spreading has something to gain.
	g.Nodes[1].Pos = g.Nodes[0].Pos.Add(geom.Vec2{X: 1, Y: 0})

	evaluated := 0
	before := graph.CountIntersections(g.Nodes, g.Edges)
	move := neutralSpread(cfg, g.Nodes, g.Edges, before, &evaluated)

	if !move.Valid() {
		t.Fatal("expected a neutral move")
	}
	if move.Reduction != 0 {
		t.Errorf("Reduction = %d, want exactly 0", move.Reduction)
	}
	if evaluated == 0 {
		t.Error("fallback sweep should count candidates")
	}

	origMin := minDistToOthers(g.Nodes, move.NodeID, g.Nodes[move.NodeID].Pos)
	newMin := minDistToOthers(g.Nodes, move.NodeID, move.To)
	if newMin < origMin {
		t.Errorf("spread move decreased separation: %g -> %g", origMin, newMin)
	}
}

func minDistToOthers(nodes []graph.Node, id int, pos geom.Vec2) float64 {
	best := -1.0
	for i := range nodes {
		if i == id {
			continue
		}
		d := pos.Dist(nodes[i].Pos)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

func TestCandidateOrderIsStable(t *testing.T) {
	cfg := config.Default()
	g := crossedSquare()

	a := candidatePositions(cfg, 0, g.Nodes)
	b := candidatePositions(cfg, 0, g.Nodes)

	if len(a) == 0 || len(a) != len(b) {
		t.Fatalf("candidate counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("candidate %d differs: %v vs %v", i, a[i], b[i])
		}
	}

	// Grid candidates come first and stay inside the play area.
	for _, c := range a {
		if c.X < cfg.Margin || c.X > cfg.Width-cfg.Margin ||
			c.Y < cfg.Margin || c.Y > cfg.Height-cfg.Margin {
			// The centroid may sit anywhere between neighbors, which are
			// themselves in the play area, so this is a hard failure.
			t.Fatalf("candidate %v escapes the play area", c)
		}
	}
}

func TestFactory(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		mode Mode
		name string
	}{
		{ModeGreedy, "Greedy"},
		{ModeDivideAndConquer, "D&C + DP"},
		{ModeBacktracking, "Backtracking"},
		{Mode(42), "Greedy"}, // unknown defaults to greedy
	}

	for _, tt := range tests {
		if got := New(tt.mode, cfg).Name(); got != tt.name {
			t.Errorf("New(%d).Name() = %q, want %q", tt.mode, got, tt.name)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in     string
		want   Mode
		wantOK bool
	}{
		{"greedy", ModeGreedy, true},
		{"dncdp", ModeDivideAndConquer, true},
		{"divide-and-conquer", ModeDivideAndConquer, true},
		{"backtracking", ModeBacktracking, true},
		{"backtrack", ModeBacktracking, true},
		{"nonsense", ModeGreedy, false},
	}

	for _, tt := range tests {
		got, ok := ParseMode(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseMode(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestModeRoundTrip(t *testing.T) {
	for _, m := range []Mode{ModeGreedy, ModeDivideAndConquer, ModeBacktracking} {
		got, ok := ParseMode(m.String())
		if !ok || got != m {
			t.Errorf("ParseMode(%q) = (%v, %v), want (%v, true)", m.String(), got, ok, m)
		}
	}
}

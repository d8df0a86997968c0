package gen

import (
	"testing"

	"github.com/samithreddychinni/greedytangle/pkg/config"
	"github.com/samithreddychinni/greedytangle/pkg/errors"
	"github.com/samithreddychinni/greedytangle/pkg/graph"
)

func TestLevelDispatch(t *testing.T) {
	cfg := config.Default()
	for _, level := range []string{"easy", "medium", "hard"} {
		g, err := Level(cfg, level, 12, Rand(1))
		if err != nil {
			t.Fatalf("Level(%q) error: %v", level, err)
		}
		if err := g.Validate(); err != nil {
			t.Errorf("Level(%q) produced invalid graph: %v", level, err)
		}
	}

	if _, err := Level(cfg, "nightmare", 12, Rand(1)); err == nil {
		t.Error("Level accepted unknown difficulty")
	} else if errors.GetCode(err) != errors.ErrCodeInvalidLevel {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidLevel)
	}
}

func TestNodeCountClamped(t *testing.T) {
	cfg := config.Default()
	if g := Easy(cfg, 1, Rand(2)); len(g.Nodes) != MinNodes {
		t.Errorf("Easy(1) nodes = %d, want %d", len(g.Nodes), MinNodes)
	}
	if g := Easy(cfg, 10_000, Rand(2)); len(g.Nodes) != MaxNodes {
		t.Errorf("Easy(10000) nodes = %d, want %d", len(g.Nodes), MaxNodes)
	}
}

func TestEasyStructure(t *testing.T) {
	cfg := config.Default()
	const n = 12
	g := Easy(cfg, n, Rand(7))

	if len(g.Nodes) != n {
		t.Fatalf("nodes = %d, want %d", len(g.Nodes), n)
	}
	// Ring plus two or three chords.
	chords := len(g.Edges) - n
	if chords < 0 || chords > 3 {
		t.Errorf("chord count = %d, want 0..3", chords)
	}
	for i := 0; i < n; i++ {
		if !hasEdge(g, i, (i+1)%n) {
			t.Errorf("missing cycle edge %d-%d", i, (i+1)%n)
		}
	}
}

func TestEasyIsSolvable(t *testing.T) {
	// Chords are chosen not to interleave, so the plain circular layout of
	// the same structure must be crossing-free.
	cfg := config.Default()
	g := Easy(cfg, 16, Rand(11))

	PlanarCircle(cfg, g)
	if got := graph.CountIntersections(g.Nodes, g.Edges); got != 0 {
		t.Errorf("planar circle layout has %d crossings, want 0", got)
	}
}

func TestMediumKeepsMinimumDegree(t *testing.T) {
	cfg := config.Default()
	g := Medium(cfg, 20, Rand(3))

	for _, node := range g.Nodes {
		if d := g.Degree(node.ID); d < 1 {
			t.Errorf("node %d degree = %d after mesh thinning", node.ID, d)
		}
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("invalid medium graph: %v", err)
	}
}

func TestHardIsMaximalPlanar(t *testing.T) {
	cfg := config.Default()
	const n = 15
	g := Hard(cfg, n, Rand(5))

	// Face splitting yields exactly 3n-6 edges.
	if want := 3*n - 6; len(g.Edges) != want {
		t.Errorf("edges = %d, want %d", len(g.Edges), want)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("invalid hard graph: %v", err)
	}
}

func TestRandomRespectsBounds(t *testing.T) {
	cfg := config.Default()
	g := Random(cfg, 25, 40, Rand(9))

	for _, node := range g.Nodes {
		if node.Pos.X < randomMargin || node.Pos.X > cfg.Width-randomMargin ||
			node.Pos.Y < randomMargin || node.Pos.Y > cfg.Height-randomMargin {
			t.Errorf("node %d at (%v, %v) outside margins", node.ID, node.Pos.X, node.Pos.Y)
		}
	}
	if len(g.Edges) == 0 {
		t.Error("Random produced no edges")
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("invalid random graph: %v", err)
	}
}

func TestScrambleIsPermutationOfCircleSlots(t *testing.T) {
	cfg := config.Default()
	g := Easy(cfg, 10, Rand(13))

	ref := Easy(cfg, 10, Rand(13))
	PlanarCircle(cfg, ref)

	// Every scrambled position must be one of the circle slots, and no two
	// nodes may share a slot.
	used := make(map[int]bool)
	for _, node := range g.Nodes {
		slot := -1
		for i, r := range ref.Nodes {
			if node.Pos.Dist(r.Pos) < 1e-6 {
				slot = i
				break
			}
		}
		if slot == -1 {
			t.Fatalf("node %d position %v is not a circle slot", node.ID, node.Pos)
		}
		if used[slot] {
			t.Fatalf("slot %d assigned twice", slot)
		}
		used[slot] = true
	}
}

func TestGeneratorsAreDeterministicPerSeed(t *testing.T) {
	cfg := config.Default()
	for _, level := range []string{"easy", "medium", "hard"} {
		a, _ := Level(cfg, level, 14, Rand(42))
		b, _ := Level(cfg, level, 14, Rand(42))

		if len(a.Edges) != len(b.Edges) {
			t.Fatalf("%s: edge counts differ for identical seeds", level)
		}
		for i := range a.Nodes {
			if a.Nodes[i].Pos != b.Nodes[i].Pos {
				t.Errorf("%s: node %d position differs for identical seeds", level, i)
			}
		}
	}
}

package solver

import (
	"context"
	"time"

	"github.com/samithreddychinni/greedytangle/pkg/config"
	"github.com/samithreddychinni/greedytangle/pkg/graph"
	"github.com/samithreddychinni/greedytangle/pkg/observability"
)

// Greedy evaluates every (node, candidate) pair and keeps the single move
// with the strictly greatest crossing reduction. Ties keep the first pair
// found in iteration order. When no improving move exists it falls back to
// the neutral-spread heuristic; when not even a neutral candidate exists
// it reports an invalid move.
//
// Cost per call is O(N × K × E²) with N nodes, K candidates per node, and
// E edges.
type Greedy struct {
	cfg       config.Config
	evaluated int
}

// NewGreedy returns a greedy hill-climbing strategy.
func NewGreedy(cfg config.Config) *Greedy {
	return &Greedy{cfg: cfg}
}

// Name implements [Solver].
func (s *Greedy) Name() string { return "Greedy" }

// LastCandidatesEvaluated implements [Solver].
func (s *Greedy) LastCandidatesEvaluated() int { return s.evaluated }

// FindBestMove implements [Solver].
func (s *Greedy) FindBestMove(nodes []graph.Node, edges []graph.Edge) Move {
	start := time.Now()
	nodes = graph.CloneNodes(nodes)

	before := graph.CountIntersections(nodes, edges)
	s.evaluated = 0
	observability.Solver().OnSearchStart(context.Background(), s.Name(), len(nodes), before)

	best := Move{NodeID: InvalidNode, Before: before, After: before}
	if before == 0 {
		best.Elapsed = time.Since(start)
		return best
	}

	bestReduction := 0
	for id := range nodes {
		orig := nodes[id].Pos
		for _, candidate := range candidatePositions(s.cfg, id, nodes) {
			s.evaluated++

			after := graph.CountIntersectionsWithMove(nodes, edges, id, candidate)
			reduction := before - after

			if reduction > bestReduction {
				bestReduction = reduction
				best.NodeID = id
				best.From = orig
				best.To = candidate
				best.After = after
				best.Reduction = reduction
			}
		}
	}

	if bestReduction == 0 {
		best = neutralSpread(s.cfg, nodes, edges, before, &s.evaluated)
	}

	best.Elapsed = time.Since(start)
	observability.Solver().OnSearchComplete(context.Background(), s.Name(), s.evaluated, best.Reduction, best.Elapsed)
	return best
}

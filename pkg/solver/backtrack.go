package solver

import (
	"context"
	"time"

	"github.com/samithreddychinni/greedytangle/pkg/config"
	"github.com/samithreddychinni/greedytangle/pkg/geom"
	"github.com/samithreddychinni/greedytangle/pkg/graph"
	"github.com/samithreddychinni/greedytangle/pkg/observability"
)

// Backtracking runs a depth-bounded DFS over sequences of single-node
// relocations. Only moves that strictly improve on the incoming crossing
// count recurse deeper, positions are restored on backtrack, and the move
// reported externally is always the depth-0 step that led to the best
// count seen anywhere in the tree. Committing only the first step keeps a
// mid-race result safe to apply even though the chain behind it is
// discarded.
type Backtracking struct {
	cfg       config.Config
	evaluated int
}

// NewBacktracking returns a depth-bounded backtracking strategy. The depth
// bound comes from cfg.BacktrackDepth.
func NewBacktracking(cfg config.Config) *Backtracking {
	return &Backtracking{cfg: cfg}
}

// Name implements [Solver].
func (s *Backtracking) Name() string { return "Backtracking" }

// LastCandidatesEvaluated implements [Solver].
func (s *Backtracking) LastCandidatesEvaluated() int { return s.evaluated }

// firstMove records the depth-0 step of the best chain found so far.
type firstMove struct {
	nodeID int
	pos    geom.Vec2
}

// FindBestMove implements [Solver].
func (s *Backtracking) FindBestMove(nodes []graph.Node, edges []graph.Edge) Move {
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

	bestCount := before
	first := firstMove{nodeID: InvalidNode}
	s.backtrack(nodes, edges, 0, before, &bestCount, &first)

	if first.nodeID >= 0 {
		best.NodeID = first.nodeID
		best.From = nodes[first.nodeID].Pos
		best.To = first.pos
		best.After = bestCount
		best.Reduction = before - bestCount
	}

	if !best.Valid() || best.Reduction <= 0 {
		best = neutralSpread(s.cfg, nodes, edges, before, &s.evaluated)
	}

	best.Elapsed = time.Since(start)
	observability.Solver().OnSearchComplete(context.Background(), s.Name(), s.evaluated, best.Reduction, best.Elapsed)
	return best
}

// backtrack explores relocation chains depth-first. nodes is mutated in
// place and every candidate position is rolled back before the next one is
// tried, so the slice is unchanged when the call returns.
func (s *Backtracking) backtrack(nodes []graph.Node, edges []graph.Edge, depth, current int, bestCount *int, first *firstMove) {
	if current == 0 {
		return
	}
	if depth >= s.cfg.BacktrackDepth {
		return
	}

	for id := range nodes {
		orig := nodes[id].Pos

		for _, candidate := range candidatePositions(s.cfg, id, nodes) {
			s.evaluated++

			nodes[id].Pos = candidate
			after := graph.CountIntersections(nodes, edges)

			if after < current {
				if after < *bestCount {
					*bestCount = after
					// Only the opening step is ever reported.
					if depth == 0 {
						first.nodeID = id
						first.pos = candidate
					}
				}
				s.backtrack(nodes, edges, depth+1, after, bestCount, first)
			}
			nodes[id].Pos = orig
		}
	}
}

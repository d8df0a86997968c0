// Package solver implements the single-move search strategies that drive
// the CPU side of an untangling race.
//
// All strategies share one contract: given a snapshot of the graph, find
// the single node relocation that best reduces the crossing count. A search
// never fails — when no move helps, the returned [Move] carries the
// invalid-node sentinel and callers check [Move.Valid] before applying it.
//
// Three strategies are provided, selectable through [New]:
//
//   - [Greedy]: exhaustive one-step hill climbing over all candidates
//   - [Backtracking]: depth-bounded DFS over short improving move chains,
//     reporting only the first step
//   - [DnCDP]: recursive spatial partitioning with an approximate dynamic
//     program per partition
//
// Strategies keep no mutable shared state between calls and always operate
// on their own copy of the node slice, so a search dispatched to a
// background goroutine never touches the caller's graph.
package solver

import (
	"time"

	"github.com/samithreddychinni/greedytangle/pkg/config"
	"github.com/samithreddychinni/greedytangle/pkg/geom"
	"github.com/samithreddychinni/greedytangle/pkg/graph"
)

// InvalidNode is the sentinel node ID of a move that represents "no move
// available". Searches return it instead of an error.
const InvalidNode = -1

// Move is the result of one search call: relocate node NodeID from From to
// To, changing the global crossing count from Before to After. Immutable
// after construction.
type Move struct {
	NodeID    int           `json:"node_id" bson:"node_id"`
	From      geom.Vec2     `json:"from" bson:"from"`
	To        geom.Vec2     `json:"to" bson:"to"`
	Before    int           `json:"intersections_before" bson:"intersections_before"`
	After     int           `json:"intersections_after" bson:"intersections_after"`
	Reduction int           `json:"intersection_reduction" bson:"intersection_reduction"`
	Elapsed   time.Duration `json:"-" bson:"-"`
}

// Valid reports whether the move targets a real node. Invalid moves signal
// a stuck search (or an already-solved graph) and must not be applied.
func (m Move) Valid() bool { return m.NodeID >= 0 }

// Solver is the strategy contract. Implementations are safe to call from a
// background goroutine as long as each call gets its own node snapshot,
// which every implementation in this package enforces by cloning.
type Solver interface {
	// FindBestMove returns the best single-node relocation found, or an
	// invalid move when the graph is solved or the search is stuck.
	FindBestMove(nodes []graph.Node, edges []graph.Edge) Move

	// Name identifies the strategy for scoreboards and logs.
	Name() string

	// LastCandidatesEvaluated reports how many (node, position) pairs the
	// most recent FindBestMove call tested. Reset at the start of each call.
	LastCandidatesEvaluated() int
}

// Mode selects a strategy in [New].
type Mode int

const (
	// ModeGreedy is exhaustive one-step hill climbing.
	ModeGreedy Mode = iota
	// ModeDivideAndConquer is recursive partitioning with an approximate DP.
	ModeDivideAndConquer
	// ModeBacktracking is depth-bounded DFS over improving chains.
	ModeBacktracking
)

// String returns the mode's CLI/config spelling.
func (m Mode) String() string {
	switch m {
	case ModeDivideAndConquer:
		return "dncdp"
	case ModeBacktracking:
		return "backtracking"
	default:
		return "greedy"
	}
}

// ParseMode maps a CLI/config spelling to a Mode. Unknown spellings map to
// ModeGreedy, mirroring the factory's default, with ok=false.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "greedy":
		return ModeGreedy, true
	case "dncdp", "divide-and-conquer":
		return ModeDivideAndConquer, true
	case "backtracking", "backtrack":
		return ModeBacktracking, true
	default:
		return ModeGreedy, false
	}
}

// New constructs the strategy for mode. Unknown modes fall back to the
// greedy strategy.
func New(mode Mode, cfg config.Config) Solver {
	switch mode {
	case ModeDivideAndConquer:
		return NewDnCDP(cfg)
	case ModeBacktracking:
		return NewBacktracking(cfg)
	default:
		return NewGreedy(cfg)
	}
}

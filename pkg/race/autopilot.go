package race

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/samithreddychinni/greedytangle/pkg/config"
	"github.com/samithreddychinni/greedytangle/pkg/graph"
	"github.com/samithreddychinni/greedytangle/pkg/replay"
	"github.com/samithreddychinni/greedytangle/pkg/solver"
)

// AutopilotResult summarizes a synchronous solve-to-completion run.
type AutopilotResult struct {
	Moves  int
	Solved bool
	Stuck  bool
	Final  int
	Log    *replay.Log
}

// Autopilot repeatedly applies the strategy's best move to g until the
// graph is untangled, the strategy gives up, the move cap is hit, or ctx
// is canceled. The graph is mutated in place; the returned log records
// every applied move.
//
// maxMoves <= 0 selects a cap proportional to the node count, which stops
// strategies that drift on zero-reduction moves without ever finishing.
func Autopilot(ctx context.Context, cfg config.Config, mode solver.Mode, g *graph.Graph, maxMoves int, logger *log.Logger) AutopilotResult {
	if logger == nil {
		logger = log.Default()
	}
	if maxMoves <= 0 {
		maxMoves = 10*len(g.Nodes) + 50
	}

	s := solver.New(mode, cfg)
	remaining := graph.CountIntersections(g.Nodes, g.Edges)

	rlog := replay.New()
	rlog.StartMatch(g.Nodes, g.Edges, remaining)

	logger.Info("autopilot started",
		"strategy", s.Name(),
		"nodes", len(g.Nodes),
		"intersections", remaining)

	result := AutopilotResult{Log: rlog}
	for remaining > 0 && result.Moves < maxMoves {
		if ctx.Err() != nil {
			break
		}

		move := s.FindBestMove(g.Nodes, g.Edges)
		if !move.Valid() {
			result.Stuck = true
			logger.Warn("autopilot stuck",
				"intersections", remaining,
				"moves", result.Moves)
			break
		}

		g.Nodes[move.NodeID].Pos = move.To
		remaining = move.After
		result.Moves++
		rlog.RecordMove(move)

		logger.Debug("autopilot move",
			"step", result.Moves,
			"node", move.NodeID,
			"reduction", move.Reduction,
			"intersections", remaining)
	}

	result.Final = remaining
	result.Solved = remaining == 0

	logger.Info("autopilot finished",
		"solved", result.Solved,
		"moves", result.Moves,
		"intersections", remaining)
	return result
}

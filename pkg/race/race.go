// Package race orchestrates a contest between the interactive graph and a
// CPU-controlled copy solved in the background.
//
// The controller owns the CPU's graph outright: at race start it takes a
// deep copy of the caller's nodes, and from then on the two sides mutate
// independent structures. Background searches receive value snapshots too,
// so the only synchronization primitive needed is a single-slot result
// channel — the controller guarantees at most one outstanding search, which
// also makes completion order equal dispatch order.
//
// Callers drive the race by polling [Controller.Tick] once per frame with
// the human side's current state. Tick never blocks; the one deliberate
// blocking wait lives in [Controller.SetSolver], which must not discard a
// strategy while a search still runs on it.
package race

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/samithreddychinni/greedytangle/pkg/config"
	"github.com/samithreddychinni/greedytangle/pkg/errors"
	"github.com/samithreddychinni/greedytangle/pkg/graph"
	"github.com/samithreddychinni/greedytangle/pkg/observability"
	"github.com/samithreddychinni/greedytangle/pkg/replay"
	"github.com/samithreddychinni/greedytangle/pkg/solver"
)

// Status is the lifecycle state of a race.
type Status int

const (
	// StatusIdle means no race has started.
	StatusIdle Status = iota
	// StatusRacing means the race is live.
	StatusRacing
	// StatusHumanWon means the human untangled first (or with fewer moves).
	StatusHumanWon
	// StatusCPUWon means the CPU untangled first (or with fewer moves).
	StatusCPUWon
	// StatusTied means both sides solved with equal move counts.
	StatusTied
	// StatusStuck means the CPU's strategy found no move and gave up.
	StatusStuck
)

// String returns a scoreboard-friendly label.
func (s Status) String() string {
	switch s {
	case StatusRacing:
		return "racing"
	case StatusHumanWon:
		return "human won"
	case StatusCPUWon:
		return "cpu won"
	case StatusTied:
		return "tied"
	case StatusStuck:
		return "cpu stuck"
	default:
		return "idle"
	}
}

// Controller runs the CPU side of one race at a time.
type Controller struct {
	cfg    config.Config
	logger *log.Logger

	solver solver.Solver
	delay  time.Duration

	cpu              *graph.Graph
	cpuIntersections int
	cpuMoves         int

	solving  bool
	finished bool
	status   Status
	winner   string

	lastMove time.Time
	results  chan solver.Move

	replayLog *replay.Log

	// now is swappable for tests.
	now func() time.Time
}

// NewController builds a controller for the given strategy mode and
// difficulty name ("easy", "medium", "hard"). A nil logger falls back to
// log.Default().
func NewController(cfg config.Config, mode solver.Mode, difficulty string, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		cfg:       cfg,
		logger:    logger,
		solver:    solver.New(mode, cfg),
		delay:     cfg.Delay(difficulty),
		status:    StatusIdle,
		results:   make(chan solver.Move, 1),
		replayLog: replay.New(),
		now:       time.Now,
	}
}

// Start begins a race against a deep copy of g. Any previous race state is
// discarded. The graph must have at least one edge for a race to mean
// anything.
func (c *Controller) Start(g *graph.Graph) error {
	if len(g.Edges) == 0 {
		return errors.New(errors.ErrCodeInvalidGraph, "race needs at least one edge")
	}
	c.waitForOutstanding()

	c.cpu = g.Clone()
	c.cpuIntersections = graph.CountIntersections(c.cpu.Nodes, c.cpu.Edges)
	c.cpuMoves = 0
	c.solving = false
	// A graph with no crossings leaves the CPU nothing to do.
	c.finished = c.cpuIntersections == 0
	c.winner = ""
	c.status = StatusRacing
	// Arm the throttle so even the first move respects the delay.
	c.lastMove = c.now()

	c.replayLog.StartMatch(c.cpu.Nodes, c.cpu.Edges, c.cpuIntersections)
	observability.Race().OnRaceStart(context.Background(), c.solver.Name(), c.cpuIntersections)

	c.logger.Info("race started",
		"strategy", c.solver.Name(),
		"intersections", c.cpuIntersections,
		"delay", c.delay)
	return nil
}

// Tick advances the race one poll step. humanIntersections and humanMoves
// describe the interactive side's current state; the controller never
// touches the human graph itself. Tick never blocks: completed results are
// collected with a non-blocking receive, and at most one new search is
// dispatched.
func (c *Controller) Tick(humanIntersections, humanMoves int) Status {
	if c.status != StatusRacing {
		return c.status
	}

	c.collectResult(humanIntersections)
	if c.status != StatusRacing {
		return c.status
	}

	if c.finished && c.cpuIntersections == 0 && c.winner == "" && humanIntersections > 0 {
		c.winner = "cpu"
		c.status = StatusCPUWon
		c.logger.Info("cpu wins", "moves", c.cpuMoves)
		observability.Race().OnRaceFinished(context.Background(), "cpu", c.cpuMoves)
		return c.status
	}

	// Human reached zero. The comparison is finalized only once no search
	// is in flight: a dispatched search always runs to completion, and its
	// result may still bring the CPU home with fewer moves.
	if humanIntersections == 0 && c.winner == "" && !c.solving {
		c.resolveWinner(humanMoves)
		return c.status
	}

	c.maybeDispatch()
	return c.status
}

// collectResult performs the non-blocking poll for a finished search and
// applies its move.
func (c *Controller) collectResult(humanIntersections int) {
	if !c.solving {
		return
	}

	select {
	case move := <-c.results:
		c.solving = false
		c.applyMove(move, humanIntersections)
	default:
		// Still thinking.
	}
}

func (c *Controller) applyMove(move solver.Move, humanIntersections int) {
	if !move.Valid() {
		c.finished = true
		c.status = StatusStuck
		c.logger.Info("cpu stuck",
			"intersections", c.cpuIntersections,
			"moves", c.cpuMoves)
		observability.Race().OnRaceFinished(context.Background(), "stuck", c.cpuMoves)
		return
	}

	if move.NodeID < len(c.cpu.Nodes) {
		c.cpu.Nodes[move.NodeID].Pos = move.To
	}
	c.cpuIntersections = move.After
	c.cpuMoves++
	c.lastMove = c.now()
	c.replayLog.RecordMove(move)
	observability.Race().OnMoveApplied(context.Background(), c.cpuMoves, c.cpuIntersections)

	c.logger.Debug("cpu move applied",
		"move", c.cpuMoves,
		"node", move.NodeID,
		"reduction", move.Reduction,
		"intersections", c.cpuIntersections,
		"elapsed", move.Elapsed)

	if c.cpuIntersections == 0 {
		c.finished = true
		if humanIntersections > 0 && c.winner == "" {
			c.winner = "cpu"
			c.status = StatusCPUWon
			c.logger.Info("cpu wins", "moves", c.cpuMoves)
			observability.Race().OnRaceFinished(context.Background(), "cpu", c.cpuMoves)
		}
	}
}

// resolveWinner compares move counts once the human is done and no search
// is outstanding.
func (c *Controller) resolveWinner(humanMoves int) {
	switch {
	case !c.finished || c.cpuIntersections > 0:
		// CPU never made it to zero.
		c.winner = "human"
		c.status = StatusHumanWon
	case humanMoves < c.cpuMoves:
		c.winner = "human"
		c.status = StatusHumanWon
	case c.cpuMoves < humanMoves:
		c.winner = "cpu"
		c.status = StatusCPUWon
	default:
		c.winner = "tie"
		c.status = StatusTied
	}

	c.finished = true
	c.logger.Info("race decided",
		"winner", c.winner,
		"human_moves", humanMoves,
		"cpu_moves", c.cpuMoves)
	observability.Race().OnRaceFinished(context.Background(), c.winner, c.cpuMoves)
}

// maybeDispatch starts the next background search when no task is
// outstanding, the CPU has not finished, and the difficulty throttle has
// elapsed. The throttle exists purely to keep the CPU beatable on easier
// settings.
func (c *Controller) maybeDispatch() {
	if c.solving || c.finished {
		return
	}
	if c.delay > 0 && c.now().Sub(c.lastMove) < c.delay {
		return
	}

	c.solving = true
	nodes := graph.CloneNodes(c.cpu.Nodes)
	edges := make([]graph.Edge, len(c.cpu.Edges))
	copy(edges, c.cpu.Edges)

	s := c.solver
	go func() {
		c.results <- s.FindBestMove(nodes, edges)
	}()
}

// SetSolver swaps the strategy mid-race. It blocks until any outstanding
// search completes, because the running task still references the old
// strategy instance; the stale result is discarded, not applied.
func (c *Controller) SetSolver(mode solver.Mode) {
	c.waitForOutstanding()
	c.solver = solver.New(mode, c.cfg)
	c.logger.Info("strategy switched", "strategy", c.solver.Name())
}

func (c *Controller) waitForOutstanding() {
	if !c.solving {
		return
	}
	c.logger.Info("waiting for outstanding search before switching strategy")
	<-c.results
	c.solving = false
}

// Status returns the current lifecycle state.
func (c *Controller) Status() Status { return c.status }

// Winner returns "human", "cpu", "tie", or "" while undecided.
func (c *Controller) Winner() string { return c.winner }

// CPUIntersections returns the CPU graph's current crossing count.
func (c *Controller) CPUIntersections() int { return c.cpuIntersections }

// CPUMoves returns how many moves the CPU has applied this race.
func (c *Controller) CPUMoves() int { return c.cpuMoves }

// CPUFinished reports whether the CPU side is done (solved or stuck).
func (c *Controller) CPUFinished() bool { return c.finished }

// Searching reports whether a background search is in flight.
func (c *Controller) Searching() bool { return c.solving }

// SolverName returns the active strategy's display name.
func (c *Controller) SolverName() string { return c.solver.Name() }

// CandidatesEvaluated returns the active strategy's diagnostic counter for
// its most recent search.
func (c *Controller) CandidatesEvaluated() int { return c.solver.LastCandidatesEvaluated() }

// Replay exposes the move log for export once the race is over.
func (c *Controller) Replay() *replay.Log { return c.replayLog }

// CPUGraph returns a copy of the CPU's current graph for display. The
// controller keeps exclusive ownership of the original.
func (c *Controller) CPUGraph() *graph.Graph {
	if c.cpu == nil {
		return nil
	}
	return c.cpu.Clone()
}

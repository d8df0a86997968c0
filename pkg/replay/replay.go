// Package replay records the CPU's move history for a race so a finished
// match can be stepped through afterwards or exported as JSON.
//
// The log is append-only during a match and reset between matches. Export
// uses a fixed schema consumed by external tooling, so field names here
// are part of the public contract and must not drift.
package replay

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/samithreddychinni/greedytangle/pkg/graph"
	"github.com/samithreddychinni/greedytangle/pkg/solver"
)

// Log collects the starting snapshot of a match and every CPU move applied
// after it. Not safe for concurrent use; the race controller owns it from
// a single goroutine.
type Log struct {
	initialPositions     []position
	edges                [][2]int
	initialIntersections int
	moves                []solver.Move
}

type position struct {
	ID int     `json:"id" bson:"id"`
	X  float64 `json:"x" bson:"x"`
	Y  float64 `json:"y" bson:"y"`
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// StartMatch resets the log and snapshots the starting state: node
// positions, the edge list, and the crossing count at match start.
func (l *Log) StartMatch(nodes []graph.Node, edges []graph.Edge, initialIntersections int) {
	l.Clear()
	l.initialIntersections = initialIntersections

	for i, n := range nodes {
		l.initialPositions = append(l.initialPositions, position{ID: i, X: n.Pos.X, Y: n.Pos.Y})
	}
	for _, e := range edges {
		l.edges = append(l.edges, [2]int{e.U, e.V})
	}
}

// RecordMove appends a move to the history.
func (l *Log) RecordMove(m solver.Move) {
	l.moves = append(l.moves, m)
}

// MoveAt returns the move at the given 1-indexed step, or an invalid
// sentinel move when step is out of range.
func (l *Log) MoveAt(step int) solver.Move {
	if step < 1 || step > len(l.moves) {
		return solver.Move{NodeID: solver.InvalidNode}
	}
	return l.moves[step-1]
}

// TotalMoves returns the number of recorded moves.
func (l *Log) TotalMoves() int { return len(l.moves) }

// InitialIntersections returns the crossing count at match start.
func (l *Log) InitialIntersections() int { return l.initialIntersections }

// Solved reports whether the recorded match ended untangled: either it
// started at zero crossings and nothing was recorded, or the last move
// reached zero.
func (l *Log) Solved() bool {
	if len(l.moves) == 0 {
		return l.initialIntersections == 0
	}
	return l.moves[len(l.moves)-1].After == 0
}

// FinalIntersections returns the crossing count after the last recorded
// move, or the initial count when the log is empty.
func (l *Log) FinalIntersections() int {
	if len(l.moves) == 0 {
		return l.initialIntersections
	}
	return l.moves[len(l.moves)-1].After
}

// Clear drops all recorded state so the log can serve a new match.
func (l *Log) Clear() {
	l.initialPositions = nil
	l.edges = nil
	l.moves = nil
	l.initialIntersections = 0
}

// =============================================================================
// JSON Export
// =============================================================================

// Export is the serialized form of a finished match. The field names form
// a stable schema.
type Export struct {
	InitialIntersections int            `json:"initial_intersections" bson:"initial_intersections"`
	TotalMoves           int            `json:"total_moves" bson:"total_moves"`
	Solved               bool           `json:"solved" bson:"solved"`
	InitialPositions     []position     `json:"initial_positions" bson:"initial_positions"`
	Edges                [][2]int       `json:"edges,omitempty" bson:"edges,omitempty"`
	Moves                []exportedMove `json:"moves" bson:"moves"`
}

type exportedMove struct {
	Step      int     `json:"step" bson:"step"`
	NodeID    int     `json:"node_id" bson:"node_id"`
	From      coord   `json:"from" bson:"from"`
	To        coord   `json:"to" bson:"to"`
	Before    int     `json:"intersections_before" bson:"intersections_before"`
	After     int     `json:"intersections_after" bson:"intersections_after"`
	Reduction int     `json:"intersection_reduction" bson:"intersection_reduction"`
	TimeMS    int64   `json:"computation_time_ms" bson:"computation_time_ms"`
}

type coord struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Snapshot returns the exportable form of the log.
func (l *Log) Snapshot() Export {
	out := Export{
		InitialIntersections: l.initialIntersections,
		TotalMoves:           len(l.moves),
		Solved:               l.Solved(),
		InitialPositions:     append([]position(nil), l.initialPositions...),
		Edges:                append([][2]int(nil), l.edges...),
		Moves:                make([]exportedMove, 0, len(l.moves)),
	}
	for i, m := range l.moves {
		out.Moves = append(out.Moves, exportedMove{
			Step:      i + 1,
			NodeID:    m.NodeID,
			From:      coord{X: m.From.X, Y: m.From.Y},
			To:        coord{X: m.To.X, Y: m.To.Y},
			Before:    m.Before,
			After:     m.After,
			Reduction: m.Reduction,
			TimeMS:    m.Elapsed.Milliseconds(),
		})
	}
	return out
}

// ExportJSON serializes the log with the fixed replay schema.
func (l *Log) ExportJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l.Snapshot()); err != nil {
		return nil, fmt.Errorf("encode replay: %w", err)
	}
	return buf.Bytes(), nil
}

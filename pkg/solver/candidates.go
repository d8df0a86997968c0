package solver

import (
	"math"

	"github.com/samithreddychinni/greedytangle/pkg/config"
	"github.com/samithreddychinni/greedytangle/pkg/geom"
	"github.com/samithreddychinni/greedytangle/pkg/graph"
)

// neighborRingPoints is the number of candidates placed on the ring around
// each neighbor of the node being moved.
const neighborRingPoints = 8

// candidatePositions returns the relocation targets evaluated for one node,
// in a fixed order shared by every strategy:
//
//  1. a regular grid over the play area,
//  2. points on a ring around each current neighbor, clamped to the play area,
//  3. the centroid of the neighbor positions.
//
// The order matters: strategies break reduction ties by keeping the first
// candidate found, so candidate generation order is part of the observable
// behavior.
func candidatePositions(cfg config.Config, id int, nodes []graph.Node) []geom.Vec2 {
	var candidates []geom.Vec2

	for x := cfg.Margin; x <= cfg.Width-cfg.Margin; x += cfg.GridSpacing {
		for y := cfg.Margin; y <= cfg.Height-cfg.Margin; y += cfg.GridSpacing {
			candidates = append(candidates, geom.Vec2{X: x, Y: y})
		}
	}

	if id < 0 || id >= len(nodes) {
		return candidates
	}
	target := nodes[id]

	for _, nb := range target.Adj {
		if nb < 0 || nb >= len(nodes) {
			continue
		}
		nbPos := nodes[nb].Pos
		for i := 0; i < neighborRingPoints; i++ {
			angle := 2 * math.Pi * float64(i) / neighborRingPoints
			c := nbPos.Add(geom.Vec2{
				X: math.Cos(angle) * cfg.NeighborRadius,
				Y: math.Sin(angle) * cfg.NeighborRadius,
			})
			candidates = append(candidates, clampToPlayArea(cfg, c))
		}
	}

	if len(target.Adj) > 0 {
		centroid := geom.Vec2{}
		n := 0
		for _, nb := range target.Adj {
			if nb < 0 || nb >= len(nodes) {
				continue
			}
			centroid = centroid.Add(nodes[nb].Pos)
			n++
		}
		if n > 0 {
			candidates = append(candidates, centroid.Scale(1/float64(n)))
		}
	}

	return candidates
}

func clampToPlayArea(cfg config.Config, p geom.Vec2) geom.Vec2 {
	return geom.Vec2{
		X: math.Max(cfg.Margin, math.Min(cfg.Width-cfg.Margin, p.X)),
		Y: math.Max(cfg.Margin, math.Min(cfg.Height-cfg.Margin, p.Y)),
	}
}

// neutralSpread is the stuck-configuration fallback shared by the greedy and
// backtracking strategies. Among candidates that leave the crossing count
// unchanged it picks the one maximizing the minimum distance to every other
// node, nudging the layout toward separation instead of stalling. Returns an
// invalid move when not even a neutral candidate exists.
//
// evaluated is incremented once per candidate tested, so the caller's
// diagnostic counter covers the fallback sweep too.
func neutralSpread(cfg config.Config, nodes []graph.Node, edges []graph.Edge, before int, evaluated *int) Move {
	move := Move{NodeID: InvalidNode, Before: before, After: before}
	maxMinDist := 0.0

	for id := range nodes {
		orig := nodes[id].Pos
		for _, candidate := range candidatePositions(cfg, id, nodes) {
			*evaluated++

			after := graph.CountIntersectionsWithMove(nodes, edges, id, candidate)
			if before-after != 0 {
				continue
			}

			minDist := math.MaxFloat64
			for other := range nodes {
				if other == id {
					continue
				}
				minDist = math.Min(minDist, candidate.Dist(nodes[other].Pos))
			}

			if minDist > maxMinDist {
				maxMinDist = minDist
				move.NodeID = id
				move.From = orig
				move.To = candidate
				move.After = after
				move.Reduction = 0
			}
		}
	}

	return move
}

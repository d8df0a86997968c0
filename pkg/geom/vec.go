// Package geom provides the 2D primitives and the segment-crossing oracle
// used by the untangling solvers.
//
// Everything in this package is pure float math with value semantics. The
// crossing counter is the dominant cost of every solver's candidate loop
// (it runs O(E²) per evaluated position), so the hot path is kept free of
// allocations and method indirection.
package geom

import "math"

// Epsilon guards the parametric crossing test against numerical noise.
// Matches the tolerance used for all float comparisons in this package.
const Epsilon = 1e-5

// Vec2 is a point or direction in the plane.
type Vec2 struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns v + w.
func (v Vec2) Add(w Vec2) Vec2 { return Vec2{v.X + w.X, v.Y + w.Y} }

// Sub returns v - w.
func (v Vec2) Sub(w Vec2) Vec2 { return Vec2{v.X - w.X, v.Y - w.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Cross returns the scalar z-component of the 2D cross product v × w.
// Its sign encodes the orientation of w relative to v.
func (v Vec2) Cross(w Vec2) float64 { return v.X*w.Y - v.Y*w.X }

// Dot returns the dot product v · w.
func (v Vec2) Dot(w Vec2) float64 { return v.X*w.X + v.Y*w.Y }

// LengthSq returns |v|² without the square root.
func (v Vec2) LengthSq() float64 { return v.X*v.X + v.Y*v.Y }

// Length returns |v|.
func (v Vec2) Length() float64 { return math.Sqrt(v.LengthSq()) }

// Dist returns the Euclidean distance between v and w.
func (v Vec2) Dist(w Vec2) float64 { return v.Sub(w).Length() }

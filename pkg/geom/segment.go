package geom

import "math"

// SegmentsCross reports whether segments AB and CD cross at a strictly
// interior point of both.
//
// The segments are treated parametrically as P(t) = A + t(B−A) and
// Q(u) = C + u(D−C). Solving with Cramer's rule gives
//
//	t = (C−A) × (D−C) / denom
//	u = (C−A) × (B−A) / denom
//
// where denom = (B−A) × (D−C). A near-zero denom means parallel or
// collinear segments, which never count as crossing. Both parameters must
// fall strictly inside (ε, 1−ε), so segments that merely touch at an
// endpoint — including edges sharing a vertex — report false.
func SegmentsCross(a, b, c, d Vec2) bool {
	ab := b.Sub(a)
	cd := d.Sub(c)
	ac := c.Sub(a)

	denom := ab.Cross(cd)
	if math.Abs(denom) < Epsilon {
		return false
	}

	t := ac.Cross(cd) / denom
	u := ac.Cross(ab) / denom

	return t > Epsilon && t < 1-Epsilon && u > Epsilon && u < 1-Epsilon
}

// PointSegmentDistance returns the distance from p to the closest point on
// segment AB. Degenerate segments (A ≈ B) fall back to point distance.
// Collaborators use this for edge hit-testing; the solvers do not call it.
func PointSegmentDistance(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	ap := p.Sub(a)

	lenSq := ab.LengthSq()
	if lenSq < Epsilon {
		return ap.Length()
	}

	t := math.Max(0, math.Min(1, ap.Dot(ab)/lenSq))
	proj := a.Add(ab.Scale(t))
	return p.Sub(proj).Length()
}

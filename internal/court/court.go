// Package court provides the geometric operations over the fixed court
// geometry: pixel/meter conversion against the known doubles-line width and
// the in-court predicate used for bounce classification.
package court

import "github.com/pable/go-tennis-metrics/internal/model"

// PixelsToMeters converts a mini-court pixel distance to meters using the
// linear scale real_width_m / mini_width_px.
func PixelsToMeters(g model.Geometry, px float64) float64 {
	return px * g.RealWidthM / g.MiniWidthPX
}

// MetersToPixels converts a real-world distance to mini-court pixels.
func MetersToPixels(g model.Geometry, m float64) float64 {
	return m * g.MiniWidthPX / g.RealWidthM
}

// Contains reports whether p lies inside the court polygon, using an
// even-odd ray cast. Points exactly on an edge count as inside, matching the
// "line calls are in" convention for bounce classification.
func Contains(g model.Geometry, p model.Point) bool {
	n := len(g.Polygon)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		a, b := g.Polygon[i], g.Polygon[j]
		if onSegment(p, a, b) {
			return true
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// onSegment reports whether p lies on the closed segment ab.
func onSegment(p, a, b model.Point) bool {
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	if cross > 1e-9 || cross < -1e-9 {
		return false
	}
	return p.X >= min(a.X, b.X) && p.X <= max(a.X, b.X) &&
		p.Y >= min(a.Y, b.Y) && p.Y <= max(a.Y, b.Y)
}

package spatial

import "github.com/pthm-cable/growth/geom"

// Linear is the brute-force strategy: every query returns the full point set
// and the radius is ignored. It is cheap to build, so it wins for very small
// populations, and it serves as the reference for the other strategies.
type Linear struct {
	points []geom.Vec2
}

// NewLinear copies points into a linear index.
func NewLinear(points []geom.Vec2) *Linear {
	pts := make([]geom.Vec2, len(points))
	copy(pts, points)
	return &Linear{points: pts}
}

// Within returns every indexed point.
func (l *Linear) Within(_ geom.Vec2, _ float64) []geom.Vec2 {
	return l.points
}

// Len returns the number of indexed points.
func (l *Linear) Len() int {
	return len(l.points)
}

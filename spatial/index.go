// Package spatial provides neighbor lookups over a snapshot of node positions.
//
// An Index is built once per tick from every node position in the
// simulation and is read-only afterwards. Queries are coarse: Within returns
// the points inside an axis-aligned square, and callers apply their own
// exact distance filter.
package spatial

import (
	"fmt"

	"github.com/pthm-cable/growth/geom"
)

// Index answers box queries over a fixed set of points.
type Index interface {
	// Within returns indexed points whose coordinates lie inside the square
	// of half-width radius centered on center. Implementations may return a
	// superset; the returned slice must not be modified.
	Within(center geom.Vec2, radius float64) []geom.Vec2

	// Len returns the number of indexed points.
	Len() int
}

// Strategy names an Index implementation.
type Strategy string

// Available strategies.
const (
	StrategyKDTree Strategy = "kdtree"
	StrategyLinear Strategy = "linear"
	StrategyGrid   Strategy = "grid"
)

// Strategies lists every known strategy.
var Strategies = []Strategy{StrategyKDTree, StrategyLinear, StrategyGrid}

// Valid reports whether s names a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyKDTree, StrategyLinear, StrategyGrid:
		return true
	}
	return false
}

// New builds an index over points using the named strategy.
// cellSize is only used by the grid strategy.
func New(s Strategy, points []geom.Vec2, cellSize float64) (Index, error) {
	switch s {
	case StrategyKDTree:
		return NewKDTree(points), nil
	case StrategyLinear:
		return NewLinear(points), nil
	case StrategyGrid:
		return NewGrid(points, cellSize), nil
	default:
		return nil, fmt.Errorf("unknown index strategy %q", s)
	}
}

// inBox reports whether p lies in the closed square around center.
func inBox(p, center geom.Vec2, radius float64) bool {
	return p.X >= center.X-radius && p.X <= center.X+radius &&
		p.Y >= center.Y-radius && p.Y <= center.Y+radius
}

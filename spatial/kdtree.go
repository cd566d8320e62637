package spatial

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/pthm-cable/growth/geom"
)

// KDTree is a balanced k-d tree over 2D points with logarithmic box queries.
// Tree shape, and so the order Within reports points in, depends only on the
// order of the input points.
type KDTree struct {
	tree *kdtree.Tree
	n    int
}

// NewKDTree bulk-loads a tree from points. The input slice is not retained.
func NewKDTree(points []geom.Vec2) *KDTree {
	pts := make(pointList, len(points))
	for i, p := range points {
		pts[i] = kdtree.Point{p.X, p.Y}
	}
	return &KDTree{
		tree: kdtree.New(pts, false),
		n:    len(points),
	}
}

// Within returns all points inside the closed square of half-width radius.
func (t *KDTree) Within(center geom.Vec2, radius float64) []geom.Vec2 {
	if t.n == 0 || radius < 0 {
		return nil
	}

	// DoBounded only descends past a pivot strictly inside the box, so the
	// box is widened by one ulp and filtered exactly.
	box := &kdtree.Bounding{
		Min: kdtree.Point{down(center.X - radius), down(center.Y - radius)},
		Max: kdtree.Point{up(center.X + radius), up(center.Y + radius)},
	}

	var out []geom.Vec2
	t.tree.DoBounded(box, func(c kdtree.Comparable, _ *kdtree.Bounding, _ int) bool {
		q := c.(kdtree.Point)
		p := geom.V(q[0], q[1])
		if inBox(p, center, radius) {
			out = append(out, p)
		}
		return false
	})
	return out
}

// Len returns the number of indexed points.
func (t *KDTree) Len() int {
	return t.n
}

func down(x float64) float64 { return math.Nextafter(x, math.Inf(-1)) }
func up(x float64) float64   { return math.Nextafter(x, math.Inf(1)) }

// pointList is a kdtree.Interface with a sort-based pivot. kdtree.Points
// picks pivots with the global random source, which makes tree shape vary
// between runs.
type pointList []kdtree.Point

func (p pointList) Index(i int) kdtree.Comparable         { return p[i] }
func (p pointList) Len() int                              { return len(p) }
func (p pointList) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot sorts the list along d and returns the first index holding the
// median value, so everything before it is strictly smaller.
func (p pointList) Pivot(d kdtree.Dim) int {
	sort.Sort(plane{points: p, dim: d})
	piv := len(p) / 2
	for piv > 0 && p[piv-1][d] == p[piv][d] {
		piv--
	}
	return piv
}

// plane orders points along one dimension, breaking ties on the others.
type plane struct {
	points pointList
	dim    kdtree.Dim
}

func (p plane) Len() int      { return len(p.points) }
func (p plane) Swap(i, j int) { p.points[i], p.points[j] = p.points[j], p.points[i] }

func (p plane) Less(i, j int) bool {
	a, b := p.points[i], p.points[j]
	if a[p.dim] != b[p.dim] {
		return a[p.dim] < b[p.dim]
	}
	for k := range a {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}
	return false
}

package spatial

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/growth/geom"
)

func randomPoints(rng *rand.Rand, n int, w, h float64) []geom.Vec2 {
	pts := make([]geom.Vec2, n)
	for i := range pts {
		pts[i] = geom.V(rng.Float64()*w, rng.Float64()*h)
	}
	return pts
}

// bruteBox is the reference box filter.
func bruteBox(points []geom.Vec2, center geom.Vec2, radius float64) []geom.Vec2 {
	var out []geom.Vec2
	for _, p := range points {
		if inBox(p, center, radius) {
			out = append(out, p)
		}
	}
	return out
}

func sortPoints(pts []geom.Vec2) []geom.Vec2 {
	out := append([]geom.Vec2(nil), pts...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}

func TestNewStrategies(t *testing.T) {
	pts := []geom.Vec2{geom.V(1, 1), geom.V(2, 2)}

	for _, s := range Strategies {
		t.Run(string(s), func(t *testing.T) {
			assert.True(t, s.Valid())
			idx, err := New(s, pts, 10)
			require.NoError(t, err)
			assert.Equal(t, 2, idx.Len())
		})
	}

	_, err := New(Strategy("octree"), pts, 10)
	assert.Error(t, err)
	assert.False(t, Strategy("").Valid())
}

func TestBoxQueriesMatchBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pts := randomPoints(rng, 500, 400, 300)

	builders := map[string]func([]geom.Vec2) Index{
		"kdtree": func(p []geom.Vec2) Index { return NewKDTree(p) },
		"grid":   func(p []geom.Vec2) Index { return NewGrid(p, 25) },
		"grid_small_cells": func(p []geom.Vec2) Index {
			return NewGrid(p, 3)
		},
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			idx := build(pts)
			require.Equal(t, len(pts), idx.Len())

			for q := 0; q < 50; q++ {
				center := geom.V(rng.Float64()*400, rng.Float64()*300)
				radius := rng.Float64() * 60
				want := sortPoints(bruteBox(pts, center, radius))
				got := sortPoints(idx.Within(center, radius))
				assert.Equal(t, want, got, "query %d center=%v r=%v", q, center, radius)
			}
		})
	}
}

func TestBoxQueryIsSquareNotCircle(t *testing.T) {
	// (9, 9) is outside the circle of radius 10 but inside the square.
	pts := []geom.Vec2{geom.V(0, 0), geom.V(9, 9), geom.V(11, 0)}

	for _, idx := range []Index{NewKDTree(pts), NewGrid(pts, 4)} {
		got := sortPoints(idx.Within(geom.V(0, 0), 10))
		assert.Equal(t, []geom.Vec2{geom.V(0, 0), geom.V(9, 9)}, got)
	}
}

func TestBoxQueryIncludesEdges(t *testing.T) {
	pts := []geom.Vec2{geom.V(10, 0), geom.V(-10, 10)}
	for _, idx := range []Index{NewKDTree(pts), NewGrid(pts, 4)} {
		assert.Len(t, idx.Within(geom.V(0, 0), 10), 2)
	}
}

func TestLinearIgnoresRadius(t *testing.T) {
	pts := []geom.Vec2{geom.V(0, 0), geom.V(1000, 1000)}
	l := NewLinear(pts)

	assert.Len(t, l.Within(geom.V(0, 0), 1), 2)
	assert.Len(t, l.Within(geom.V(-500, 0), 0), 2)

	// Snapshot is copied at build time
	pts[0] = geom.V(5, 5)
	assert.Equal(t, geom.V(0, 0), l.Within(geom.V(0, 0), 1)[0])
}

func TestEmptyIndexes(t *testing.T) {
	for _, s := range Strategies {
		idx, err := New(s, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, idx.Len())
		assert.Empty(t, idx.Within(geom.V(0, 0), 100))
	}
}

func TestNegativeRadiusFindsNothing(t *testing.T) {
	pts := []geom.Vec2{geom.V(0, 0)}
	assert.Empty(t, NewKDTree(pts).Within(geom.V(0, 0), -1))
	assert.Empty(t, NewGrid(pts, 5).Within(geom.V(0, 0), -1))
}

func TestGridCapsCellCount(t *testing.T) {
	pts := []geom.Vec2{geom.V(0, 0), geom.V(1e9, 1e9)}
	g := NewGrid(pts, 1)

	assert.Greater(t, g.CellSize(), 1.0)
	assert.LessOrEqual(t, g.cols*g.rows, maxGridCells)
	assert.Len(t, g.Within(geom.V(1e9, 1e9), 1), 1)
}

func TestGridDefaultCellSize(t *testing.T) {
	g := NewGrid([]geom.Vec2{geom.V(1, 1)}, 0)
	assert.Equal(t, DefaultCellSize, g.CellSize())
}

func TestGridCoincidentPoints(t *testing.T) {
	pts := []geom.Vec2{geom.V(3, 3), geom.V(3, 3), geom.V(3, 3)}
	g := NewGrid(pts, 10)
	assert.Len(t, g.Within(geom.V(3, 3), 0), 3)
}

func BenchmarkKDTreeBuildQuery(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	pts := randomPoints(rng, 5000, 1200, 800)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		idx := NewKDTree(pts)
		for _, p := range pts[:500] {
			_ = idx.Within(p, 50)
		}
	}
}

func BenchmarkGridBuildQuery(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	pts := randomPoints(rng, 5000, 1200, 800)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		idx := NewGrid(pts, 50)
		for _, p := range pts[:500] {
			_ = idx.Within(p, 50)
		}
	}
}

func TestKDTreeShapeDependsOnlyOnInput(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	pts := randomPoints(rng, 800, 300, 300)
	// Duplicated coordinates exercise pivot ties.
	pts = append(pts, pts[:100]...)

	a, b := NewKDTree(pts), NewKDTree(pts)
	for q := 0; q < 40; q++ {
		center := geom.V(rng.Float64()*300, rng.Float64()*300)
		radius := rng.Float64() * 50
		require.Equal(t, a.Within(center, radius), b.Within(center, radius), "query %d", q)
	}
}

func TestKDTreeTiesOnBoxEdge(t *testing.T) {
	// Many points share x = 10, the right edge of the query box.
	var pts []geom.Vec2
	for i := 0; i < 20; i++ {
		pts = append(pts, geom.V(10, float64(i)), geom.V(float64(-i), 0))
	}

	got := NewKDTree(pts).Within(geom.V(0, 5), 10)
	assert.Equal(t, sortPoints(bruteBox(pts, geom.V(0, 5), 10)), sortPoints(got))
}

package spatial

import (
	"math"

	"github.com/pthm-cable/growth/geom"
)

// DefaultCellSize is used when a grid is built with a non-positive cell size.
const DefaultCellSize = 50.0

// maxGridCells caps the number of buckets. Sparse snapshots spread over a
// huge area get a coarser effective cell size instead of a huge allocation.
const maxGridCells = 1 << 16

// Grid provides constant-time bucket lookups using a uniform cell grid.
// The grid covers the bounding box of the snapshot it was built from.
type Grid struct {
	cellSize float64
	originX  float64
	originY  float64
	cols     int
	rows     int
	cells    [][]geom.Vec2 // flat grid of point lists
	n        int
}

// NewGrid buckets points into square cells of the given size.
func NewGrid(points []geom.Vec2, cellSize float64) *Grid {
	if cellSize <= 0 || math.IsNaN(cellSize) {
		cellSize = DefaultCellSize
	}

	g := &Grid{cellSize: cellSize, n: len(points)}
	if len(points) == 0 {
		return g
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	spanX, spanY := maxX-minX, maxY-minY
	if math.IsInf(spanX, 0) || math.IsNaN(spanX) {
		spanX = 0
	}
	if math.IsInf(spanY, 0) || math.IsNaN(spanY) {
		spanY = 0
	}

	// Grow cells until the bucket count fits
	for {
		cols := math.Floor(spanX/g.cellSize) + 1
		rows := math.Floor(spanY/g.cellSize) + 1
		if cols*rows <= maxGridCells {
			g.cols, g.rows = int(cols), int(rows)
			break
		}
		g.cellSize *= 2
	}

	g.originX, g.originY = minX, minY
	g.cells = make([][]geom.Vec2, g.cols*g.rows)
	for _, p := range points {
		idx := g.cellIndex(p.X, p.Y)
		g.cells[idx] = append(g.cells[idx], p)
	}

	return g
}

// Within returns the points inside the square of half-width radius.
// Only the cells overlapping the square are visited.
func (g *Grid) Within(center geom.Vec2, radius float64) []geom.Vec2 {
	if g.n == 0 || radius < 0 {
		return nil
	}

	minCol, minRow := g.cellCoords(center.X-radius, center.Y-radius)
	maxCol, maxRow := g.cellCoords(center.X+radius, center.Y+radius)

	var out []geom.Vec2
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, p := range g.cells[row*g.cols+col] {
				if inBox(p, center, radius) {
					out = append(out, p)
				}
			}
		}
	}
	return out
}

// Len returns the number of indexed points.
func (g *Grid) Len() int {
	return g.n
}

// CellSize returns the effective cell size after capping.
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

// cellIndex returns the flat index for a position.
func (g *Grid) cellIndex(x, y float64) int {
	col, row := g.cellCoords(x, y)
	return row*g.cols + col
}

// cellCoords returns the clamped column and row for a position.
func (g *Grid) cellCoords(x, y float64) (col, row int) {
	fc := math.Floor((x - g.originX) / g.cellSize)
	fr := math.Floor((y - g.originY) / g.cellSize)

	// Clamp to valid range
	col = clampCell(fc, g.cols)
	row = clampCell(fr, g.rows)
	return col, row
}

func clampCell(f float64, n int) int {
	if f < 0 || math.IsNaN(f) {
		return 0
	}
	if f >= float64(n) {
		return n - 1
	}
	return int(f)
}

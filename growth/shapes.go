package growth

import (
	"fmt"
	"math"

	"github.com/pthm-cable/growth/config"
	"github.com/pthm-cable/growth/geom"
)

// lineNodeCount spaces nodes roughly MaxEdgeLength apart over extent.
func lineNodeCount(extent float64, s config.Settings) int {
	n := 2
	if s.MaxEdgeLength > 0 {
		if c := math.Round(extent / s.MaxEdgeLength); c > 2 && c < math.MaxInt32 {
			n = int(c)
		}
	}
	return n
}

// HorizontalLine returns an open path across the canvas at half height, from
// x = 0 to x = Width.
func HorizontalLine(s config.Settings) *Path {
	w, h := float64(s.Width), float64(s.Height)
	n := lineNodeCount(w, s)

	nodes := make([]Node, n)
	for i := range nodes {
		x := float64(i) / float64(n-1) * w
		nodes[i] = NewNode(geom.V(x, h/2))
	}
	return NewPath(nodes, false)
}

// VerticalLine returns an open path down the canvas at half width.
func VerticalLine(s config.Settings) *Path {
	w, h := float64(s.Width), float64(s.Height)
	n := lineNodeCount(h, s)

	nodes := make([]Node, n)
	for i := range nodes {
		y := float64(i) / float64(n-1) * h
		nodes[i] = NewNode(geom.V(w/2, y))
	}
	return NewPath(nodes, false)
}

// Polygon returns a cyclic regular polygon centered on the canvas. The first
// vertex lies on the positive x axis.
func Polygon(s config.Settings, pc config.PolygonConfig) *Path {
	center := geom.V(float64(s.Width)/2, float64(s.Height)/2)
	sides := max(pc.Sides, 0)

	nodes := make([]Node, sides)
	for i := range nodes {
		angle := float64(i) / float64(sides) * 2 * math.Pi
		offset := geom.V(math.Cos(angle), math.Sin(angle)).Scale(pc.Radius)
		nodes[i] = NewNode(center.Add(offset))
	}
	return NewPath(nodes, true)
}

// initialPath builds the path described by an initialization recipe.
func initialPath(s config.Settings, init config.InitializationConfig) (*Path, error) {
	switch init.Type {
	case config.InitHorizontalLine:
		return HorizontalLine(s), nil
	case config.InitVerticalLine:
		return VerticalLine(s), nil
	case config.InitPolygon:
		return Polygon(s, init.Polygon), nil
	default:
		return nil, fmt.Errorf("unknown initialization type %q", init.Type)
	}
}

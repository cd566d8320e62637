package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/growth/camera"
	"github.com/pthm-cable/growth/geom"
	"github.com/pthm-cable/growth/growth"
)

// EdgeColoring selects how path edges are coloured.
type EdgeColoring int

const (
	ColorUniform  EdgeColoring = iota // Single line colour
	ColorByPath                       // One palette entry per path
	ColorByLength                     // Cold for short edges, hot for long ones
)

// PathOptions controls a single PathRenderer.Draw call.
type PathOptions struct {
	Coloring  EdgeColoring
	ShowNodes bool

	// Edge length range mapped onto the ColorByLength ramp.
	MinEdge, MaxEdge float64
}

// palette cycles for ColorByPath.
var palette = []rl.Color{
	{R: 236, G: 236, B: 236, A: 255},
	{R: 102, G: 194, B: 165, A: 255},
	{R: 252, G: 141, B: 98, A: 255},
	{R: 141, G: 160, B: 203, A: 255},
	{R: 231, G: 138, B: 195, A: 255},
	{R: 166, G: 216, B: 84, A: 255},
}

var (
	shortEdge = rl.Color{R: 70, G: 130, B: 230, A: 255}
	longEdge  = rl.Color{R: 240, G: 80, B: 60, A: 255}
)

// PathRenderer draws the polylines of a growth.State.
type PathRenderer struct {
	Color      rl.Color
	NodeColor  rl.Color
	Thickness  float32 // Screen pixels
	NodeRadius float32 // Screen pixels
}

// NewPathRenderer creates a renderer with the default line style.
func NewPathRenderer() *PathRenderer {
	return &PathRenderer{
		Color:      palette[0],
		NodeColor:  rl.Color{R: 255, G: 210, B: 90, A: 255},
		Thickness:  1.5,
		NodeRadius: 1.5,
	}
}

// Draw renders every edge of every path, culling those outside the view.
// It returns the number of edges drawn.
func (r *PathRenderer) Draw(st growth.State, cam *camera.Camera, opts PathOptions) int {
	drawn := 0
	for i, ps := range st.Paths {
		ps.Edges(func(a, b geom.Vec2) {
			if !cam.SegmentVisible(a, b) {
				return
			}
			col := r.edgeColor(i, a.Distance(b), opts)
			rl.DrawLineEx(toScreen(cam, a), toScreen(cam, b), r.Thickness, col)
			drawn++
		})

		if !opts.ShowNodes {
			continue
		}
		for _, p := range ps.Points {
			if cam.IsVisible(p, 0) {
				rl.DrawCircleV(toScreen(cam, p), r.NodeRadius, r.NodeColor)
			}
		}
	}
	return drawn
}

func (r *PathRenderer) edgeColor(path int, length float64, opts PathOptions) rl.Color {
	switch opts.Coloring {
	case ColorByPath:
		return PathColor(path)
	case ColorByLength:
		return LengthColor(length, opts.MinEdge, opts.MaxEdge)
	default:
		return r.Color
	}
}

// PathColor returns the palette colour for the i-th path.
func PathColor(i int) rl.Color {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}

// LengthColor maps an edge length onto a blue-to-red ramp over [lo, hi].
func LengthColor(length, lo, hi float64) rl.Color {
	t := 0.0
	if hi > lo {
		t = (length - lo) / (hi - lo)
	}
	t = max(0, min(1, t))
	return lerpColor(shortEdge, longEdge, float32(t))
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t + 0.5)
	}
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

func toScreen(cam *camera.Camera, p geom.Vec2) rl.Vector2 {
	x, y := cam.WorldToScreen(p)
	return rl.Vector2{X: x, Y: y}
}

// Package renderer draws simulation state with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/growth/camera"
	"github.com/pthm-cable/growth/geom"
)

// BackgroundRenderer clears the screen and draws the canvas area with an
// optional world-space grid.
type BackgroundRenderer struct {
	Clear     rl.Color
	Canvas    rl.Color
	GridColor rl.Color

	// GridSpacing is the world distance between grid lines.
	GridSpacing float32

	worldW, worldH float32
}

// NewBackgroundRenderer creates a background for a canvas of the given size.
func NewBackgroundRenderer(worldW, worldH float32) *BackgroundRenderer {
	return &BackgroundRenderer{
		Clear:       rl.Color{R: 12, G: 14, B: 18, A: 255},
		Canvas:      rl.Color{R: 24, G: 27, B: 33, A: 255},
		GridColor:   rl.Color{R: 40, G: 44, B: 52, A: 255},
		GridSpacing: 50,
		worldW:      worldW,
		worldH:      worldH,
	}
}

// Resize updates the canvas dimensions.
func (b *BackgroundRenderer) Resize(worldW, worldH float32) {
	b.worldW = worldW
	b.worldH = worldH
}

// Draw renders the background. The grid is only drawn when showGrid is set
// and lines would be at least a few pixels apart.
func (b *BackgroundRenderer) Draw(cam *camera.Camera, showGrid bool) {
	rl.ClearBackground(b.Clear)

	x0, y0 := cam.WorldToScreen(geom.V(0, 0))
	x1, y1 := cam.WorldToScreen(geom.V(float64(b.worldW), float64(b.worldH)))
	rl.DrawRectangleRec(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, b.Canvas)

	if !showGrid || b.GridSpacing <= 0 || b.GridSpacing*cam.Zoom < 4 {
		return
	}

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	for _, x := range gridLines(minX, maxX, b.GridSpacing) {
		sx, _ := cam.WorldToScreen(geom.V(float64(x), 0))
		rl.DrawLineV(rl.Vector2{X: sx, Y: 0}, rl.Vector2{X: sx, Y: cam.ViewportH}, b.GridColor)
	}
	for _, y := range gridLines(minY, maxY, b.GridSpacing) {
		_, sy := cam.WorldToScreen(geom.V(0, float64(y)))
		rl.DrawLineV(rl.Vector2{X: 0, Y: sy}, rl.Vector2{X: cam.ViewportW, Y: sy}, b.GridColor)
	}
}

// gridLines returns the multiples of spacing within [lo, hi].
func gridLines(lo, hi, spacing float32) []float32 {
	if spacing <= 0 || hi < lo {
		return nil
	}
	start := float32(int(lo/spacing)) * spacing
	if start < lo {
		start += spacing
	}
	var lines []float32
	for v := start; v <= hi; v += spacing {
		lines = append(lines, v)
	}
	return lines
}

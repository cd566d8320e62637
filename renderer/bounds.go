package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/growth/camera"
	"github.com/pthm-cable/growth/geom"
	"github.com/pthm-cable/growth/growth"
)

// BoundsRenderer outlines the containment region.
type BoundsRenderer struct {
	Color     rl.Color
	Thickness float32
}

// NewBoundsRenderer creates a renderer with the default outline style.
func NewBoundsRenderer() *BoundsRenderer {
	return &BoundsRenderer{
		Color:     rl.Color{R: 120, G: 120, B: 130, A: 200},
		Thickness: 1,
	}
}

// Draw outlines b. Unbounded draws nothing.
func (r *BoundsRenderer) Draw(b growth.Bounds, cam *camera.Camera) {
	switch b := b.(type) {
	case growth.Rect:
		r.drawLoop(cam, b.Corners())
	case growth.Viewport:
		r.drawLoop(cam, [4]geom.Vec2{
			geom.V(0, 0),
			geom.V(b.Width, 0),
			geom.V(b.Width, b.Height),
			geom.V(0, b.Height),
		})
	case growth.Circle:
		rl.DrawCircleLinesV(toScreen(cam, b.Center), float32(b.Radius)*cam.Zoom, r.Color)
	}
}

func (r *BoundsRenderer) drawLoop(cam *camera.Camera, corners [4]geom.Vec2) {
	for i := range corners {
		a := toScreen(cam, corners[i])
		b := toScreen(cam, corners[(i+1)%len(corners)])
		rl.DrawLineEx(a, b, r.Thickness, r.Color)
	}
}

package growth

import (
	"fmt"

	"github.com/pthm-cable/growth/config"
	"github.com/pthm-cable/growth/geom"
)

// Bounds is the region nodes must stay inside. A node whose position is not
// contained after integration is frozen.
//
// The set of implementations is closed: Unbounded, Viewport, Rect and Circle.
type Bounds interface {
	Contains(p geom.Vec2) bool
	bounds()
}

// Unbounded contains every point.
type Unbounded struct{}

func (Unbounded) Contains(geom.Vec2) bool { return true }
func (Unbounded) bounds()                 {}

// Viewport is the open rectangle (0, Width) x (0, Height).
type Viewport struct {
	Width, Height float64
}

func (v Viewport) Contains(p geom.Vec2) bool {
	return p.X > 0 && p.X < v.Width && p.Y > 0 && p.Y < v.Height
}
func (Viewport) bounds() {}

// Rect is an axis-aligned rectangle centered in a viewport. Containment is
// strict.
type Rect struct {
	min, max geom.Vec2
}

// NewRect centers a width x height rectangle in a viewW x viewH viewport.
func NewRect(viewW, viewH, width, height float64) Rect {
	center := geom.V(viewW/2, viewH/2)
	half := geom.V(width/2, height/2)
	return Rect{min: center.Sub(half), max: center.Add(half)}
}

// Corners returns the top-left, top-right, bottom-right and bottom-left
// corners in drawing order.
func (r Rect) Corners() [4]geom.Vec2 {
	return [4]geom.Vec2{
		r.min,
		geom.V(r.max.X, r.min.Y),
		r.max,
		geom.V(r.min.X, r.max.Y),
	}
}

func (r Rect) Contains(p geom.Vec2) bool {
	return p.X > r.min.X && p.X < r.max.X && p.Y > r.min.Y && p.Y < r.max.Y
}
func (Rect) bounds() {}

// Circle contains points strictly closer than Radius to Center.
type Circle struct {
	Center geom.Vec2
	Radius float64
}

func (c Circle) Contains(p geom.Vec2) bool {
	return p.Distance(c.Center) < c.Radius
}
func (Circle) bounds() {}

// NewBounds builds the bounds described by cfg, centered on the canvas.
func NewBounds(cfg config.Config) (Bounds, error) {
	w := float64(cfg.Settings.Width)
	h := float64(cfg.Settings.Height)

	switch cfg.Bounds.Type {
	case config.BoundsNone:
		return Unbounded{}, nil
	case config.BoundsView:
		return Viewport{Width: w, Height: h}, nil
	case config.BoundsRect:
		return NewRect(w, h, cfg.Bounds.Rect.Width, cfg.Bounds.Rect.Height), nil
	case config.BoundsCircle:
		return Circle{Center: geom.V(w/2, h/2), Radius: cfg.Bounds.Circle.Radius}, nil
	default:
		return nil, fmt.Errorf("unknown bounds type %q", cfg.Bounds.Type)
	}
}

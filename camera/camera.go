// Package camera provides a 2D camera system for viewport control.
package camera

import "github.com/pthm-cable/growth/geom"

// Default zoom constraints.
const (
	DefaultMinZoom = 0.1
	DefaultMaxZoom = 20.0
)

// Camera maps between the simulation canvas and a screen viewport. It supports
// pan and zoom over an unbounded plane; nodes may leave the canvas when bounds
// are disabled.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Canvas dimensions, used by Reset to frame the whole canvas
	WorldW, WorldH float32

	MinZoom, MaxZoom float32
}

// New creates a camera framing the whole canvas.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MinZoom:   DefaultMinZoom,
		MaxZoom:   DefaultMaxZoom,
	}
	c.Reset()
	return c
}

// FitZoom returns the largest zoom at which the whole canvas is visible.
func (c *Camera) FitZoom() float32 {
	if c.WorldW <= 0 || c.WorldH <= 0 {
		return 1
	}
	return min(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(p geom.Vec2) (sx, sy float32) {
	sx = c.ViewportW/2 + (float32(p.X)-c.X)*c.Zoom
	sy = c.ViewportH/2 + (float32(p.Y)-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) geom.Vec2 {
	wx := c.X + (sx-c.ViewportW/2)/c.Zoom
	wy := c.Y + (sy-c.ViewportH/2)/c.Zoom
	return geom.V(float64(wx), float64(wy))
}

// IsVisible returns true if a circle at p with the given world radius could
// be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(p geom.Vec2, radius float32) bool {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	x, y := float32(p.X), float32(p.Y)
	return x >= minX-radius && x <= maxX+radius && y >= minY-radius && y <= maxY+radius
}

// SegmentVisible returns true if the segment's bounding box overlaps the
// visible area.
func (c *Camera) SegmentVisible(a, b geom.Vec2) bool {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	ax, ay, bx, by := float32(a.X), float32(a.Y), float32(b.X), float32(b.Y)
	return max(ax, bx) >= minX && min(ax, bx) <= maxX && max(ay, by) >= minY && min(ay, by) <= maxY
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor while keeping the world point under the screen
// position (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	before := c.ScreenToWorld(sx, sy)
	c.ZoomBy(factor)
	after := c.ScreenToWorld(sx, sy)
	c.X += float32(before.X - after.X)
	c.Y += float32(before.Y - after.Y)
}

// Reset centers the camera on the canvas at the zoom that fits it.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = clamp(c.FitZoom(), c.MinZoom, c.MaxZoom)
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	return max(lo, min(x, hi))
}

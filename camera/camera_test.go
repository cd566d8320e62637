package camera

import (
	"math"
	"testing"

	"github.com/pthm-cable/growth/geom"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1280, 720, 640, 480)

	// Should be centered on the canvas
	if cam.X != 320 || cam.Y != 240 {
		t.Errorf("expected camera at (320, 240), got (%f, %f)", cam.X, cam.Y)
	}
	// min(1280/640, 720/480) = 1.5
	if !near(cam.Zoom, 1.5) {
		t.Errorf("expected zoom 1.5, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// Camera center should map to screen center
	sx, sy := cam.WorldToScreen(geom.V(1280, 720))
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(1.7)
	cam.Pan(-300, 45)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
		{-50, 900},  // off screen
	}

	for _, tc := range testCases {
		w := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(w)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> %v -> (%f,%f)", tc.sx, tc.sy, w, sx, sy)
		}
	}
}

func TestPanDoesNotWrap(t *testing.T) {
	cam := New(1280, 720, 1280, 720)
	cam.Pan(-2000, 0)

	if cam.X >= 0 {
		t.Errorf("expected camera to move past the canvas edge, got X=%f", cam.X)
	}
	if !near(cam.X, 640-2000) {
		t.Errorf("expected X=%f, got %f", float32(640-2000), cam.X)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 1280, 720)

	cam.SetZoom(0.01)
	if cam.Zoom != DefaultMinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", DefaultMinZoom, cam.Zoom)
	}

	cam.SetZoom(100)
	if cam.Zoom != DefaultMaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", DefaultMaxZoom, cam.Zoom)
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	cam := New(800, 600, 800, 600)

	before := cam.ScreenToWorld(200, 150)
	cam.ZoomAt(200, 150, 2)
	after := cam.ScreenToWorld(200, 150)

	if !near(float32(before.X), float32(after.X)) || !near(float32(before.Y), float32(after.Y)) {
		t.Errorf("expected %v under cursor, got %v", before, after)
	}
	if !near(cam.Zoom, 2) {
		t.Errorf("expected zoom 2, got %f", cam.Zoom)
	}
}

func TestResetFitsCanvas(t *testing.T) {
	cam := New(800, 600, 1600, 800)

	// min(800/1600, 600/800) = 0.5, width is the limiting dimension
	minX, _, maxX, _ := cam.VisibleWorldBounds()
	if !near(minX, 0) || !near(maxX, 1600) {
		t.Errorf("expected full canvas width visible, got [%f, %f]", minX, maxX)
	}

	cam.Pan(100, 100)
	cam.ZoomBy(3)
	cam.Reset()
	if cam.X != 800 || cam.Y != 400 || !near(cam.Zoom, 0.5) {
		t.Errorf("reset failed: (%f, %f) zoom %f", cam.X, cam.Y, cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 1280, 720)

	// Visible range in world coords is the canvas itself: (0,0) to (1280,720)
	tests := []struct {
		name   string
		p      geom.Vec2
		radius float32
		want   bool
	}{
		{"center", geom.V(640, 360), 0, true},
		{"far outside", geom.V(5000, 360), 10, false},
		{"just outside, radius overlaps", geom.V(-5, 360), 10, true},
		{"just outside, no radius", geom.V(-5, 360), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cam.IsVisible(tt.p, tt.radius); got != tt.want {
				t.Errorf("IsVisible(%v, %f) = %v, want %v", tt.p, tt.radius, got, tt.want)
			}
		})
	}
}

func TestSegmentVisible(t *testing.T) {
	cam := New(100, 100, 100, 100)

	if !cam.SegmentVisible(geom.V(-50, 50), geom.V(150, 50)) {
		t.Error("segment crossing the view should be visible")
	}
	if cam.SegmentVisible(geom.V(-50, -50), geom.V(-10, -20)) {
		t.Error("segment left of the view should not be visible")
	}
}

func TestResize(t *testing.T) {
	cam := New(1280, 720, 1280, 720)
	cam.Resize(1920, 1080)

	if cam.ViewportW != 1920 || cam.ViewportH != 1080 {
		t.Errorf("expected viewport 1920x1080, got %fx%f", cam.ViewportW, cam.ViewportH)
	}
	// Resize keeps the zoom; Reset refits.
	if cam.Zoom != 1 {
		t.Errorf("expected zoom unchanged at 1, got %f", cam.Zoom)
	}
	cam.Reset()
	if !near(cam.Zoom, 1.5) {
		t.Errorf("expected refit zoom 1.5, got %f", cam.Zoom)
	}
}

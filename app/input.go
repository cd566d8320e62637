package app

import rl "github.com/gen2brain/raylib-go/raylib"

// maxStepsPerUpdate caps the < > speed control.
const maxStepsPerUpdate = 20

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	a := v.app

	// Window resize propagation
	v.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.SetPaused(!a.paused)
	}

	// Single step while paused
	if rl.IsKeyPressed(rl.KeyN) && a.paused {
		a.Step()
	}

	if rl.IsKeyPressed(rl.KeyR) {
		v.setup()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		a.Clear()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		a.SaveSnapshot(nil)
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		v.panel.Toggle()
		v.layout()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		v.showPerf = !v.showPerf
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && a.stepsPerUpdate > 1 {
		a.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && a.stepsPerUpdate < maxStepsPerUpdate {
		a.stepsPerUpdate++
	}

	v.handleOverlayKeys()
	v.handleCameraInput()
}

// handleOverlayKeys checks for overlay toggle key presses.
func (v *Viewer) handleOverlayKeys() {
	for _, desc := range v.overlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			v.overlays.Toggle(desc.ID)
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth = w
	v.screenHeight = h
	v.layout()
}

// handleCameraInput processes camera pan/zoom controls.
func (v *Viewer) handleCameraInput() {
	cam := v.camera
	mouse := rl.GetMousePosition()
	overPanel := v.panel.Contains(mouse.X, mouse.Y)

	// Arrow key panning, in screen pixels
	const panSpeed = 8.0
	if rl.IsKeyDown(rl.KeyRight) {
		cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		cam.Pan(0, -panSpeed)
	}

	// Drag to pan, unless the drag belongs to a panel widget
	if !overPanel && rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		cam.Pan(-d.X, -d.Y)
	}

	// Zoom toward the cursor with the mouse wheel
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !overPanel {
		cam.ZoomAt(mouse.X, mouse.Y, 1+wheel*0.1)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		cam.ZoomBy(0.8)
	}

	// Home key to fit the canvas
	if rl.IsKeyPressed(rl.KeyHome) {
		cam.Reset()
	}
}

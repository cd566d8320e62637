package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/growth/camera"
	"github.com/pthm-cable/growth/config"
	"github.com/pthm-cable/growth/renderer"
	"github.com/pthm-cable/growth/ui"
)

const controlsLegend = "SPACE: Pause | N: Step | R: Setup | C: Clear | S: Snapshot | TAB: Panel | < >: Speed | Drag/Wheel: Pan/Zoom | HOME: Fit"

// Viewer draws an App in a raylib window and routes input to it.
type Viewer struct {
	app *App

	camera     *camera.Camera
	background *renderer.BackgroundRenderer
	paths      *renderer.PathRenderer
	bounds     *renderer.BoundsRenderer

	overlays   *ui.OverlayRegistry
	panel      *ui.SettingsPanel
	hud        *ui.HUD
	perfPanel  *ui.PerfPanel
	statsPanel *ui.StatsPanel
	showPerf   bool

	screenWidth, screenHeight float32
	panelWidth                int32

	frame int // Frames drawn while running, used for recording cadence
}

// RunWindow opens a window sized to the canvas plus the settings panel and
// runs until it is closed or MaxTicks is reached.
func RunWindow(a *App) error {
	cfg := a.sim.Config()
	panelWidth := int32(cfg.Screen.PanelWidth)

	title := a.opts.Title
	if title == "" {
		title = "Differential Growth"
	}

	rl.SetTraceLogLevel(rl.LogWarning)
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Settings.Width)+panelWidth, int32(cfg.Settings.Height), title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	v := NewViewer(a, float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()), panelWidth)
	a.logger.Info("window opened",
		"width", rl.GetScreenWidth(),
		"height", rl.GetScreenHeight(),
		"seed", a.rngSeed,
	)

	for !rl.WindowShouldClose() {
		v.handleInput()
		a.Update()
		v.Draw()

		if a.Done() {
			a.logger.Info("max ticks reached", "tick", a.Tick())
			break
		}
	}
	return nil
}

// NewViewer creates the viewer state for a screen of the given size.
func NewViewer(a *App, screenWidth, screenHeight float32, panelWidth int32) *Viewer {
	s := a.sim.Settings()
	worldW, worldH := float32(s.Width), float32(s.Height)

	v := &Viewer{
		app:          a,
		camera:       camera.New(screenWidth, screenHeight, worldW, worldH),
		background:   renderer.NewBackgroundRenderer(worldW, worldH),
		paths:        renderer.NewPathRenderer(),
		bounds:       renderer.NewBoundsRenderer(),
		overlays:     ui.NewOverlayRegistry(),
		panel:        ui.NewSettingsPanel(int32(screenWidth)-panelWidth, 0, panelWidth),
		hud:          ui.NewHUD(),
		perfPanel:    ui.NewPerfPanel(10, 100),
		statsPanel:   ui.NewStatsPanel(10, 100, 220),
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
		panelWidth:   panelWidth,
	}
	v.layout()
	v.camera.Reset()
	return v
}

// layout fits the camera viewport and panels to the screen.
func (v *Viewer) layout() {
	viewW := v.screenWidth
	if v.panel.IsVisible() {
		viewW -= float32(v.panelWidth)
	}
	v.camera.Resize(viewW, v.screenHeight)
	v.panel.SetPosition(int32(v.screenWidth)-v.panelWidth, 0)
}

// Draw renders one frame.
func (v *Viewer) Draw() {
	rl.BeginDrawing()

	sim := v.app.sim
	settings := sim.Settings()
	state := sim.State()

	v.background.Draw(v.camera, v.overlays.IsEnabled(ui.OverlayGrid))
	if v.overlays.IsEnabled(ui.OverlayBounds) {
		v.bounds.Draw(sim.Bounds(), v.camera)
	}

	opts := renderer.PathOptions{
		ShowNodes: v.overlays.IsEnabled(ui.OverlayNodes),
		MinEdge:   settings.MinEdgeLength,
		MaxEdge:   settings.MaxEdgeLength,
	}
	switch {
	case v.overlays.IsEnabled(ui.OverlayEdgeLengths):
		opts.Coloring = renderer.ColorByLength
	case v.overlays.IsEnabled(ui.OverlayPathColors):
		opts.Coloring = renderer.ColorByPath
	}
	v.paths.Draw(state, v.camera, opts)

	// Frames are captured before the UI so recordings show only the canvas.
	v.captureFrame()

	v.drawUI(state.NodeCount(), settings)

	rl.EndDrawing()
	v.app.perf.RecordFrame()
}

// drawUI renders the HUD and panels and applies panel edits.
func (v *Viewer) drawUI(nodes int, settings config.Settings) {
	a := v.app
	cfg := a.sim.Config()

	v.hud.Draw(ui.HUDData{
		Title:          "Differential Growth",
		Tick:           a.Tick(),
		Paths:          a.sim.Paths(),
		Nodes:          nodes,
		StepsPerUpdate: a.stepsPerUpdate,
		FPS:            rl.GetFPS(),
		Zoom:           v.camera.Zoom,
		Index:          string(cfg.Index.Strategy),
		Paused:         a.paused,
		Recording:      a.Recording(),
	})

	y := int32(100)
	if v.showPerf {
		v.perfPanel.SetPosition(10, y)
		y = v.perfPanel.Draw(a.perf.Stats()) + 10
	}
	if a.lastWindow.WindowEndTick > 0 {
		v.statsPanel.SetPosition(10, y)
		v.statsPanel.Draw(a.lastWindow)
	}

	res := v.panel.Draw(settings, cfg.Recording.Recording, a.paused, v.overlays)
	v.applyPanel(res)

	v.hud.DrawControls(int32(v.screenHeight), controlsLegend)
}

// applyPanel carries out the actions requested through the settings panel.
func (v *Viewer) applyPanel(res ui.PanelResult) {
	a := v.app

	if res.Changed {
		a.ApplySettings(res.Settings)
	}
	if res.Defaults {
		cur := a.sim.Settings()
		a.ApplySettings(config.DefaultSettings(cur.Width, cur.Height))
	}
	if res.RecordingChanged {
		a.SetRecording(res.Recording)
	}
	if res.Pause {
		a.SetPaused(!a.paused)
	}
	if res.Setup {
		v.setup()
	}
	if res.Reset {
		a.Clear()
	}
}

func (v *Viewer) setup() {
	if err := v.app.Setup(); err != nil {
		v.app.logger.Error("setup failed", "error", err)
	}
}

// captureFrame exports the screen when recording, every FrameInterval-th
// running frame.
func (v *Viewer) captureFrame() {
	a := v.app
	if a.paused {
		return
	}
	frame := v.frame
	v.frame++

	if !a.Recording() {
		return
	}
	interval := max(1, a.sim.Config().Recording.FrameInterval)
	if frame%interval != 0 {
		return
	}

	path, err := a.output.FramePath(frame / interval)
	if err != nil {
		a.logger.Error("failed to prepare frame path", "error", err)
		return
	}

	img := rl.LoadImageFromScreen()
	defer rl.UnloadImage(img)
	if !rl.ExportImage(*img, path) {
		a.logger.Error("failed to export frame", "path", path)
	}
}

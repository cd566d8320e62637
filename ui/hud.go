package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/growth/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Tick           int
	Paths          int
	Nodes          int
	StepsPerUpdate int
	FPS            int32
	Zoom           float32
	Index          string
	Paused         bool
	Recording      bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Paths: %d | Nodes: %d | Index: %s", data.Paths, data.Nodes, data.Index),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d | Zoom: %.2f", data.Tick, data.StepsPerUpdate, data.FPS, data.Zoom),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)
	if data.Recording {
		w := rl.MeasureText(statusText, 16)
		rl.DrawText("REC", 10+w+12, 75, 16, rl.Red)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase tick timing breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel and returns the Y below it.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) int32 {
	x := p.x
	y := p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  (%.0f ticks/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond),
		x, y, 14, rl.Yellow)
	y += 16

	for _, name := range telemetry.Phases() {
		pct := stats.PhasePct[name]
		color := rl.LightGray
		if pct > 60 {
			color = rl.Red
		} else if pct > 30 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-14s %5.1f%%", name, pct), x, y, 12, color)
		y += 14
	}
	return y
}

// StatsPanel renders the most recent telemetry window.
type StatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewStatsPanel creates a new stats panel.
func NewStatsPanel(x, y, width int32) *StatsPanel {
	return &StatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (s *StatsPanel) SetPosition(x, y int32) {
	s.x = x
	s.y = y
}

// Draw renders the stats panel.
func (s *StatsPanel) Draw(stats telemetry.WindowStats) int32 {
	r := s.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	r.DrawPanel(s.x, s.y, s.width, lineHeight*8+padding*2)

	x := s.x + padding
	y := s.y + padding

	rl.DrawText(fmt.Sprintf("Window %d-%d", stats.WindowStartTick, stats.WindowEndTick), x, y, 14, rl.White)
	y += lineHeight + 2

	y = r.DrawLabelValue(x, y, "Grown", fmt.Sprintf("%d", stats.Grown))
	y = r.DrawLabelValue(x, y, "Pruned", fmt.Sprintf("%d", stats.Pruned))
	y = r.DrawLabelValue(x, y, "Injected", fmt.Sprintf("%d", stats.Injected))
	y = r.DrawLabelValue(x, y, "Frozen", fmt.Sprintf("%d (%d total)", stats.Frozen, stats.FrozenTotal))
	y = r.DrawLabelValue(x, y, "Nodes/tick", fmt.Sprintf("%.2f", stats.NodesPerTick))
	y = r.DrawLabelValue(x, y, "Edge", fmt.Sprintf("%.2f ± %.2f", stats.EdgeMean, stats.EdgeStd))
	y = r.DrawLabelValue(x, y, "p10/50/90", fmt.Sprintf("%.2f %.2f %.2f", stats.EdgeP10, stats.EdgeP50, stats.EdgeP90))
	return y
}

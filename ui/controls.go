package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/growth/config"
)

// PanelResult reports what the user did with the settings panel this frame.
type PanelResult struct {
	// Settings is the edited copy; apply it as a whole when Changed is set.
	Settings config.Settings
	Changed  bool

	Recording        bool
	RecordingChanged bool

	Setup    bool // Rebuild the initial path
	Reset    bool // Clear all paths
	Pause    bool // Toggle pause
	Defaults bool // Restore default settings
}

// SettingsPanel renders the settings sliders, action buttons and overlay
// toggles on the right side of the screen.
type SettingsPanel struct {
	renderer    *Renderer
	descriptors []SettingDescriptor
	x, y        int32
	width       int32
	visible     bool
}

// NewSettingsPanel creates a new settings panel.
func NewSettingsPanel(x, y, width int32) *SettingsPanel {
	return &SettingsPanel{
		renderer:    NewRenderer(),
		descriptors: SettingDescriptors(),
		x:           x,
		y:           y,
		width:       width,
		visible:     true,
	}
}

// SetPosition moves the panel.
func (c *SettingsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// SetVisible shows or hides the panel.
func (c *SettingsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *SettingsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *SettingsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point is over the visible panel.
func (c *SettingsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x <= float32(c.x+c.width) && y >= float32(c.y)
}

// Draw renders the panel for the current settings and returns the edits.
func (c *SettingsPanel) Draw(settings config.Settings, recording, paused bool, overlays *OverlayRegistry) PanelResult {
	res := PanelResult{Settings: settings, Recording: recording}
	if !c.visible {
		return res
	}

	r := c.renderer
	padding := r.Theme.Padding
	inner := c.width - padding*2

	r.DrawPanel(c.x, c.y, c.width, int32(rl.GetScreenHeight())-c.y)

	x := c.x + padding
	y := c.y + padding

	rl.DrawText("Settings", x, y, 16, rl.White)
	y += r.Theme.LineHeight + 6

	for _, d := range c.descriptors {
		cur := float32(d.Get(&res.Settings))
		var next float32
		var moved bool
		y, next, moved = r.DrawSlider(x, y, d.Label, d.Format, cur, d.Range, inner)
		if moved {
			d.Set(&res.Settings, float64(next))
			res.Changed = true
		}
	}

	var attraction bool
	y, attraction = r.DrawCheckBox(x, y, "Enable attraction", res.Settings.EnableAttraction)
	if attraction != res.Settings.EnableAttraction {
		res.Settings.EnableAttraction = attraction
		res.Changed = true
	}

	y, res.Recording = r.DrawCheckBox(x, y, "Recording", recording)
	res.RecordingChanged = res.Recording != recording

	y += 4
	half := (inner - padding) / 2
	pauseText := "Pause"
	if paused {
		pauseText = "Resume"
	}
	res.Pause = r.DrawButton(x, y, half, pauseText)
	res.Defaults = r.DrawButton(x+half+padding, y, half, "Defaults")
	y += r.Theme.ButtonHeight + 6
	res.Setup = r.DrawButton(x, y, half, "Setup")
	res.Reset = r.DrawButton(x+half+padding, y, half, "Clear")
	y += r.Theme.ButtonHeight + padding

	if overlays != nil {
		c.drawOverlays(x, y, inner, overlays)
	}
	return res
}

// drawOverlays lists overlay toggles grouped by category.
func (c *SettingsPanel) drawOverlays(x, y, width int32, overlays *OverlayRegistry) int32 {
	r := c.renderer
	y = r.DrawSectionHeader(x, y, "Overlays")

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), x, y, r.Theme.FontSize, r.Theme.LabelColor)
		y += r.Theme.LineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(x, y, desc, overlays.IsEnabled(desc.ID), width)
			y += r.Theme.LineHeight
		}
		y += 4
	}
	return y
}

// drawToggle draws a single overlay toggle line.
func (c *SettingsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	// Status indicator
	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	// Key binding (right aligned)
	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "display":
		return "Display"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

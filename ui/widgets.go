package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawSlider draws a labelled slider and returns the new Y position, the
// slider value and whether the user moved it this frame. Values outside the
// range are displayed clamped but only reported as changed once edited.
func (r *Renderer) DrawSlider(x, y int32, label, format string, value float32, rng FieldRange, width int32) (int32, float32, bool) {
	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)

	valueText := fmt.Sprintf(format, value)
	valueWidth := rl.MeasureText(valueText, r.Theme.FontSize)
	rl.DrawText(valueText, x+width-valueWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	y += r.Theme.LineHeight

	bounds := rl.Rectangle{
		X:      float32(x),
		Y:      float32(y),
		Width:  float32(width),
		Height: float32(r.Theme.SliderHeight),
	}
	shown := rng.Clamp(value)
	next := gui.SliderBar(bounds, "", "", shown, rng.Min, rng.Max)
	return y + r.Theme.SliderHeight + 6, next, next != shown
}

// DrawCheckBox draws a checkbox and returns the new Y position and state.
func (r *Renderer) DrawCheckBox(x, y int32, label string, checked bool) (int32, bool) {
	size := float32(r.Theme.SliderHeight)
	bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: size, Height: size}
	checked = gui.CheckBox(bounds, label, checked)
	return y + r.Theme.SliderHeight + 8, checked
}

// DrawButton draws a button and reports whether it was clicked this frame.
func (r *Renderer) DrawButton(x, y, width int32, text string) bool {
	bounds := rl.Rectangle{
		X:      float32(x),
		Y:      float32(y),
		Width:  float32(width),
		Height: float32(r.Theme.ButtonHeight),
	}
	return gui.Button(bounds, text)
}

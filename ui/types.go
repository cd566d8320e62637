// Package ui provides a descriptor-driven UI for the growth viewer.
// Instead of hard-coding field names and layouts, controls are defined
// through metadata that can be updated alongside the settings they edit.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/growth/config"
)

// FieldRange defines the value range for slider widgets.
type FieldRange struct {
	Min float32
	Max float32
}

// Clamp restricts v to the range.
func (r FieldRange) Clamp(v float32) float32 {
	return max(r.Min, min(v, r.Max))
}

// SettingDescriptor defines how one numeric setting is displayed and edited.
type SettingDescriptor struct {
	ID     string     // Unique identifier, matches the yaml key
	Label  string     // Display label
	Format string     // Printf format for the value
	Range  FieldRange // Slider range
	Get    func(*config.Settings) float64
	Set    func(*config.Settings, float64)
}

// SettingDescriptors returns the slider layout for the settings panel, in
// display order.
func SettingDescriptors() []SettingDescriptor {
	return []SettingDescriptor{
		{
			ID: "max_speed", Label: "Max speed", Format: "%.2f",
			Range: FieldRange{Min: 0.1, Max: 5},
			Get:   func(s *config.Settings) float64 { return s.MaxSpeed },
			Set:   func(s *config.Settings, v float64) { s.MaxSpeed = v },
		},
		{
			ID: "max_force", Label: "Max force", Format: "%.2f",
			Range: FieldRange{Min: 0.01, Max: 2},
			Get:   func(s *config.Settings) float64 { return s.MaxForce },
			Set:   func(s *config.Settings, v float64) { s.MaxForce = v },
		},
		{
			ID: "separation_distance", Label: "Separation", Format: "%.0f",
			Range: FieldRange{Min: 1, Max: 150},
			Get:   func(s *config.Settings) float64 { return s.SeparationDistance },
			Set:   func(s *config.Settings, v float64) { s.SeparationDistance = v },
		},
		{
			ID: "attraction_distance", Label: "Attraction", Format: "%.0f",
			Range: FieldRange{Min: 1, Max: 200},
			Get:   func(s *config.Settings) float64 { return s.AttractionDistance },
			Set:   func(s *config.Settings, v float64) { s.AttractionDistance = v },
		},
		{
			ID: "alignment_weight", Label: "Align wt", Format: "%.2f",
			Range: FieldRange{Min: 0, Max: 5},
			Get:   func(s *config.Settings) float64 { return s.AlignmentWeight },
			Set:   func(s *config.Settings, v float64) { s.AlignmentWeight = v },
		},
		{
			ID: "separation_weight", Label: "Separate wt", Format: "%.2f",
			Range: FieldRange{Min: 0, Max: 5},
			Get:   func(s *config.Settings) float64 { return s.SeparationWeight },
			Set:   func(s *config.Settings, v float64) { s.SeparationWeight = v },
		},
		{
			ID: "attraction_weight", Label: "Attract wt", Format: "%.2f",
			Range: FieldRange{Min: 0, Max: 5},
			Get:   func(s *config.Settings) float64 { return s.AttractionWeight },
			Set:   func(s *config.Settings, v float64) { s.AttractionWeight = v },
		},
		{
			ID: "max_edge_length", Label: "Max edge", Format: "%.1f",
			Range: FieldRange{Min: 1, Max: 30},
			Get:   func(s *config.Settings) float64 { return s.MaxEdgeLength },
			Set:   func(s *config.Settings, v float64) { s.MaxEdgeLength = v },
		},
		{
			ID: "min_edge_length", Label: "Min edge", Format: "%.1f",
			Range: FieldRange{Min: 0.1, Max: 10},
			Get:   func(s *config.Settings) float64 { return s.MinEdgeLength },
			Set:   func(s *config.Settings, v float64) { s.MinEdgeLength = v },
		},
		{
			ID: "injection_probability", Label: "Injection", Format: "%.2f",
			Range: FieldRange{Min: 0, Max: 1},
			Get:   func(s *config.Settings) float64 { return s.InjectionProbability },
			Set:   func(s *config.Settings, v float64) { s.InjectionProbability = v },
		},
	}
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	SliderHeight   int32
	ButtonHeight   int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     80,
		SliderHeight:   14,
		ButtonHeight:   24,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

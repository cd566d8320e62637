// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/growth/spatial"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config aggregates everything needed to (re)initialize a simulation run.
type Config struct {
	Settings       Settings             `yaml:"settings"`
	Initialization InitializationConfig `yaml:"initialization"`
	Bounds         BoundsConfig         `yaml:"bounds"`
	Recording      RecordingConfig      `yaml:"recording"`
	Index          IndexConfig          `yaml:"index"`
	Telemetry      TelemetryConfig      `yaml:"telemetry"`
	Screen         ScreenConfig         `yaml:"screen"`
}

// Settings holds the per-tick simulation parameters. It is a plain value and
// is always replaced as a whole.
type Settings struct {
	Width  int `yaml:"width"`  // Canvas width
	Height int `yaml:"height"` // Canvas height

	MaxSpeed float64 `yaml:"max_speed"` // Velocity magnitude cap
	MaxForce float64 `yaml:"max_force"` // Steering magnitude cap

	SeparationDistance float64 `yaml:"separation_distance"`
	AttractionDistance float64 `yaml:"attraction_distance"`

	AlignmentWeight  float64 `yaml:"alignment_weight"`
	AttractionWeight float64 `yaml:"attraction_weight"`
	SeparationWeight float64 `yaml:"separation_weight"`

	MaxEdgeLength float64 `yaml:"max_edge_length"` // Edges longer than this are split
	MinEdgeLength float64 `yaml:"min_edge_length"` // Edges shorter than this are collapsed

	InjectionProbability float64 `yaml:"injection_probability"` // Per path, per tick

	EnableAttraction bool `yaml:"enable_attraction"` // Off by default
}

// InitType selects the initial path shape.
type InitType string

// Initialization shapes.
const (
	InitHorizontalLine InitType = "horizontal_line"
	InitVerticalLine   InitType = "vertical_line"
	InitPolygon        InitType = "polygon"
)

// InitializationConfig describes the path created by setup.
type InitializationConfig struct {
	Type    InitType      `yaml:"type"`
	Polygon PolygonConfig `yaml:"polygon"`
}

// PolygonConfig describes a regular polygon centered on the canvas.
type PolygonConfig struct {
	Sides  int     `yaml:"sides"`
	Radius float64 `yaml:"radius"`
}

// BoundsType selects the containment region.
type BoundsType string

// Bounds variants.
const (
	BoundsNone   BoundsType = "none"
	BoundsView   BoundsType = "view"
	BoundsRect   BoundsType = "rect"
	BoundsCircle BoundsType = "circle"
)

// BoundsConfig describes the region nodes must stay inside.
type BoundsConfig struct {
	Type   BoundsType   `yaml:"type"`
	Rect   RectConfig   `yaml:"rect"`
	Circle CircleConfig `yaml:"circle"`
}

// RectConfig is a rectangle centered on the canvas.
type RectConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// CircleConfig is a circle centered on the canvas.
type CircleConfig struct {
	Radius float64 `yaml:"radius"`
}

// RecordingConfig controls run output.
type RecordingConfig struct {
	Recording     bool `yaml:"recording"`
	FrameInterval int  `yaml:"frame_interval"` // Export every Nth frame when recording (graphics mode)
}

// IndexConfig selects the spatial index rebuilt each tick.
type IndexConfig struct {
	Strategy spatial.Strategy `yaml:"strategy"`
	CellSize float64          `yaml:"cell_size"` // Grid strategy only
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// ScreenConfig holds viewer settings.
type ScreenConfig struct {
	TargetFPS  int `yaml:"target_fps"`
	PanelWidth int `yaml:"panel_width"`
}

// Default returns the embedded defaults with the canvas set to width x height.
func Default(width, height int) Config {
	cfg, err := parseDefaults()
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	cfg.Settings.Width = width
	cfg.Settings.Height = height
	return *cfg
}

// DefaultSettings returns the default simulation parameters for a canvas.
func DefaultSettings(width, height int) Settings {
	return Default(width, height).Settings
}

// DefaultsYAML returns the embedded default configuration document.
func DefaultsYAML() []byte {
	out := make([]byte, len(defaultsYAML))
	copy(out, defaultsYAML)
	return out
}

func parseDefaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg, err := parseDefaults()
	if err != nil {
		return nil, err
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the enumerated fields. Numeric parameters are accepted as
// given; out-of-range values produce degenerate but defined simulations.
func (c *Config) Validate() error {
	switch c.Initialization.Type {
	case InitHorizontalLine, InitVerticalLine, InitPolygon:
	default:
		return fmt.Errorf("unknown initialization type %q", c.Initialization.Type)
	}

	switch c.Bounds.Type {
	case BoundsNone, BoundsView, BoundsRect, BoundsCircle:
	default:
		return fmt.Errorf("unknown bounds type %q", c.Bounds.Type)
	}

	if !c.Index.Strategy.Valid() {
		return fmt.Errorf("unknown index strategy %q", c.Index.Strategy)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Package growth implements differential growth: open or closed polylines
// whose nodes steer toward their neighbors' midpoint, push away from nearby
// nodes, split long edges, collapse short ones and freeze when they leave
// the bounds.
package growth

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/growth/config"
	"github.com/pthm-cable/growth/geom"
	"github.com/pthm-cable/growth/spatial"
)

// Phase names reported to a PhaseTimer during Tick.
const (
	PhaseSpatialIndex = "spatial_index"
	PhasePathUpdate   = "path_update"
)

// maxDensifyPasses caps the grow-to-fixed-point loop in Setup. Each pass at
// least halves the longest edge, so this is only reached with absurd inputs.
const maxDensifyPasses = 64

// PhaseTimer receives a call at the start of each tick phase.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithSeed seeds the default random source.
func WithSeed(seed int64) Option {
	return func(s *Simulation) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand sets the random source used for injection.
func WithRand(rng Rand) Option {
	return func(s *Simulation) {
		s.rng = rng
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulation) {
		s.logger = logger
	}
}

// WithTickCount starts the tick counter at n, for resumed runs.
func WithTickCount(n int) Option {
	return func(s *Simulation) {
		s.tick = n
	}
}

// WithPhaseTimer reports tick phases to t.
func WithPhaseTimer(t PhaseTimer) Option {
	return func(s *Simulation) {
		s.timer = t
	}
}

// Simulation owns the paths and runs ticks over them. It is not safe for
// concurrent use; settings may be replaced between ticks.
type Simulation struct {
	cfg    config.Config
	bounds Bounds
	paths  []*Path
	tick   int

	rng    Rand
	logger *slog.Logger
	timer  PhaseTimer

	snapshot []geom.Vec2 // Reused across ticks
}

// TickStats summarizes one tick.
type TickStats struct {
	Tick     int
	Paths    int
	Nodes    int // After topology maintenance
	Frozen   int // Nodes that froze this tick
	Grown    int
	Pruned   int
	Injected int
}

// LogValue implements slog.LogValuer for structured logging.
func (t TickStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", t.Tick),
		slog.Int("paths", t.Paths),
		slog.Int("nodes", t.Nodes),
		slog.Int("frozen", t.Frozen),
		slog.Int("grown", t.Grown),
		slog.Int("pruned", t.Pruned),
		slog.Int("injected", t.Injected),
	)
}

// New creates a simulation for a width x height canvas with default
// configuration, viewport bounds and no paths.
func New(width, height int, opts ...Option) *Simulation {
	cfg := config.Default(width, height)
	s := &Simulation{
		cfg:    cfg,
		bounds: Viewport{Width: float64(width), Height: float64(height)},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(42))
	}
	return s
}

// AddPath appends a path. Paths are updated in the order they were added.
func (s *Simulation) AddPath(p *Path) {
	s.paths = append(s.paths, p)
}

// Settings returns the current simulation parameters.
func (s *Simulation) Settings() config.Settings {
	return s.cfg.Settings
}

// UpdateSettings replaces the simulation parameters. Canvas size changes
// affect bounds and shapes at the next Setup.
func (s *Simulation) UpdateSettings(settings config.Settings) {
	s.cfg.Settings = settings
	s.logger.Debug("settings updated", "max_speed", settings.MaxSpeed, "max_force", settings.MaxForce)
}

// Config returns a copy of the full configuration.
func (s *Simulation) Config() config.Config {
	return s.cfg
}

// UpdateConfig validates and replaces the configuration. The initialization
// and bounds recipes take effect at the next Setup.
func (s *Simulation) UpdateConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("updating config: %w", err)
	}
	s.cfg = cfg
	s.logger.Info("config updated",
		"init", cfg.Initialization.Type,
		"bounds", cfg.Bounds.Type,
		"index", cfg.Index.Strategy,
	)
	return nil
}

// UpdateInitialization replaces the initialization recipe used by Setup.
func (s *Simulation) UpdateInitialization(init config.InitializationConfig) {
	s.cfg.Initialization = init
}

// UpdateRecording replaces the recording options.
func (s *Simulation) UpdateRecording(rec config.RecordingConfig) {
	s.cfg.Recording = rec
}

// Bounds returns the active bounds.
func (s *Simulation) Bounds() Bounds {
	return s.bounds
}

// TickCount returns the number of ticks run since creation.
func (s *Simulation) TickCount() int {
	return s.tick
}

// Paths returns the number of paths.
func (s *Simulation) Paths() int {
	return len(s.paths)
}

// Setup replaces all paths with the configured initial shape, rebuilds the
// bounds and grows the new path until no edge exceeds MaxEdgeLength.
func (s *Simulation) Setup() error {
	s.paths = nil

	p, err := initialPath(s.cfg.Settings, s.cfg.Initialization)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	s.paths = append(s.paths, p)

	if err := s.RebuildBounds(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	passes := s.densify()

	s.logger.Info("setup",
		"init", s.cfg.Initialization.Type,
		"bounds", s.cfg.Bounds.Type,
		"nodes", s.nodeCount(),
		"densify_passes", passes,
	)
	return nil
}

// RebuildBounds replaces the bounds with those described by the current
// configuration. Setup calls it; paths added directly need it only when the
// configured bounds differ from the default viewport.
func (s *Simulation) RebuildBounds() error {
	bounds, err := NewBounds(s.cfg)
	if err != nil {
		return err
	}
	s.bounds = bounds
	return nil
}

// densify runs Grow over every path until nothing grows and returns the
// number of passes.
func (s *Simulation) densify() int {
	if s.cfg.Settings.MaxEdgeLength <= 0 {
		s.logger.Warn("skipping densify, max_edge_length must be positive",
			"max_edge_length", s.cfg.Settings.MaxEdgeLength)
		return 0
	}

	for pass := 1; pass <= maxDensifyPasses; pass++ {
		grew := false
		for _, p := range s.paths {
			if p.Grow(s.cfg.Settings) {
				grew = true
			}
		}
		if !grew {
			return pass
		}
	}

	s.logger.Warn("densify did not converge", "passes", maxDensifyPasses, "nodes", s.nodeCount())
	return maxDensifyPasses
}

// Reset removes all paths. Configuration and bounds are kept.
func (s *Simulation) Reset() {
	s.paths = nil
	s.logger.Info("reset")
}

// Tick advances every path one step against a spatial index built from the
// positions at the start of the tick.
func (s *Simulation) Tick() TickStats {
	s.startPhase(PhaseSpatialIndex)

	s.snapshot = s.snapshot[:0]
	for _, p := range s.paths {
		s.snapshot = p.appendPositions(s.snapshot)
	}

	idx, err := spatial.New(s.cfg.Index.Strategy, s.snapshot, s.cfg.Index.CellSize)
	if err != nil {
		// Config is validated on every way in.
		panic(fmt.Sprintf("growth: %v", err))
	}

	s.startPhase(PhasePathUpdate)

	s.tick++
	stats := TickStats{Tick: s.tick, Paths: len(s.paths)}
	for _, p := range s.paths {
		u := p.Update(s.cfg.Settings, idx, s.bounds, s.rng)
		stats.Frozen += u.Frozen
		stats.Grown += u.Grown
		stats.Pruned += u.Pruned
		stats.Injected += u.Injected
		stats.Nodes += p.Len()
	}

	return stats
}

func (s *Simulation) startPhase(phase string) {
	if s.timer != nil {
		s.timer.StartPhase(phase)
	}
}

func (s *Simulation) nodeCount() int {
	n := 0
	for _, p := range s.paths {
		n += p.Len()
	}
	return n
}

// State returns a snapshot of every path's node positions.
func (s *Simulation) State() State {
	st := State{Paths: make([]PathState, len(s.paths))}
	for i, p := range s.paths {
		st.Paths[i] = PathState{Points: p.Positions(), Cyclic: p.Cyclic()}
	}
	return st
}

// Motion returns every node's velocity and frozen flag, in State order.
func (s *Simulation) Motion() [][]NodeMotion {
	out := make([][]NodeMotion, len(s.paths))
	for i, p := range s.paths {
		m := make([]NodeMotion, len(p.nodes))
		for j, n := range p.nodes {
			m[j] = NodeMotion{Velocity: n.Velocity, Frozen: n.Frozen}
		}
		out[i] = m
	}
	return out
}

// Package app runs a growth simulation either headless or in a raylib window,
// wiring telemetry, bookmarks, snapshots and recording around each tick.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/growth/config"
	"github.com/pthm-cable/growth/growth"
	"github.com/pthm-cable/growth/telemetry"
)

// bookmarkHistory is the number of windows the bookmark detector remembers.
const bookmarkHistory = 10

// Options configures a run.
type Options struct {
	Seed           int64  // RNG seed (0 = time-based)
	Headless       bool   // Run without a window
	MaxTicks       int    // Stop after N ticks (0 = unlimited)
	StepsPerUpdate int    // Ticks per Update call
	OutputDir      string // Directory for CSV logs, snapshots and frames ("" = none)
	LogStats       bool   // Log window and perf stats
	RestorePath    string // Snapshot to resume from ("" = run Setup)
	Title          string // Window title
}

// App owns one simulation run and everything observing it.
type App struct {
	cfg    config.Config
	opts   Options
	logger *slog.Logger

	sim     *growth.Simulation
	rngSeed int64
	runID   string

	perf       *telemetry.PerfCollector
	collector  *telemetry.Collector
	bookmarks  *telemetry.BookmarkDetector
	output     *telemetry.OutputManager
	lastWindow telemetry.WindowStats

	paused         bool
	stepsPerUpdate int
}

// New creates an app for cfg. The simulation is set up from cfg, or restored
// from opts.RestorePath when set.
func New(cfg config.Config, opts Options, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		cfg:            cfg,
		opts:           opts,
		logger:         logger,
		runID:          telemetry.NewRunID(),
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarks:      telemetry.NewBookmarkDetector(bookmarkHistory),
		stepsPerUpdate: max(1, opts.StepsPerUpdate),
	}
	a.logger = logger.With("run_id", a.runID)

	var snap *telemetry.Snapshot
	if opts.RestorePath != "" {
		var err error
		snap, err = telemetry.LoadSnapshot(opts.RestorePath)
		if err != nil {
			return nil, err
		}
		a.cfg = snap.Config
	}

	a.rngSeed = opts.Seed
	if a.rngSeed == 0 && snap != nil {
		a.rngSeed = snap.Seed
	}
	if a.rngSeed == 0 {
		a.rngSeed = time.Now().UnixNano()
	}

	simOpts := []growth.Option{
		growth.WithSeed(a.rngSeed),
		growth.WithLogger(a.logger),
		growth.WithPhaseTimer(a.perf),
	}
	if snap != nil {
		sim, err := snap.Restore(simOpts...)
		if err != nil {
			return nil, err
		}
		a.sim = sim
		a.logger.Info("restored snapshot", "path", opts.RestorePath, "tick", snap.Tick, "nodes", snap.State.NodeCount())
	} else {
		a.sim = growth.New(a.cfg.Settings.Width, a.cfg.Settings.Height, simOpts...)
		if err := a.sim.UpdateConfig(a.cfg); err != nil {
			return nil, err
		}
		if err := a.sim.Setup(); err != nil {
			return nil, err
		}
	}

	a.collector = telemetry.NewCollector(a.cfg.Telemetry.StatsWindow, a.runID)
	a.collector.Reset(a.sim.TickCount(), a.sim.State())

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	a.output = om
	if err := a.output.WriteConfig(&a.cfg); err != nil {
		a.output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	return a, nil
}

// Sim returns the running simulation.
func (a *App) Sim() *growth.Simulation {
	return a.sim
}

// RunID returns the identifier stamped on this run's output.
func (a *App) RunID() string {
	return a.runID
}

// Seed returns the RNG seed in use.
func (a *App) Seed() int64 {
	return a.rngSeed
}

// Tick returns the current simulation tick.
func (a *App) Tick() int {
	return a.sim.TickCount()
}

// LastWindow returns the most recently flushed telemetry window.
func (a *App) LastWindow() telemetry.WindowStats {
	return a.lastWindow
}

// Paused reports whether Update skips ticking.
func (a *App) Paused() bool {
	return a.paused
}

// SetPaused pauses or resumes the run.
func (a *App) SetPaused(paused bool) {
	a.paused = paused
}

// Recording reports whether per-window output and frames are persisted.
func (a *App) Recording() bool {
	return a.sim.Config().Recording.Recording && a.output != nil
}

// SetRecording turns recording on or off.
func (a *App) SetRecording(on bool) {
	rec := a.sim.Config().Recording
	rec.Recording = on
	a.sim.UpdateRecording(rec)
	a.logger.Info("recording", "enabled", on, "output_dir", a.output.Dir())
}

// Done reports whether MaxTicks has been reached.
func (a *App) Done() bool {
	return a.opts.MaxTicks > 0 && a.Tick() >= a.opts.MaxTicks
}

// Update runs StepsPerUpdate ticks unless paused.
func (a *App) Update() {
	if a.paused {
		return
	}
	for i := 0; i < a.stepsPerUpdate && !a.Done(); i++ {
		a.Step()
	}
}

// Step runs exactly one tick, paused or not, and feeds its results to
// telemetry.
func (a *App) Step() growth.TickStats {
	a.perf.StartTick()
	stats := a.sim.Tick()

	a.perf.StartPhase(telemetry.PhaseTelemetry)
	a.collector.Record(stats)
	a.flushTelemetry()
	a.perf.EndTick()

	return stats
}

// Setup rebuilds the initial path and restarts the telemetry window.
func (a *App) Setup() error {
	if err := a.sim.Setup(); err != nil {
		return err
	}
	a.collector.Reset(a.sim.TickCount(), a.sim.State())
	return nil
}

// Clear removes all paths.
func (a *App) Clear() {
	a.sim.Reset()
	a.collector.Reset(a.sim.TickCount(), a.sim.State())
}

// ApplySettings replaces the simulation settings as a whole.
func (a *App) ApplySettings(s config.Settings) {
	a.sim.UpdateSettings(s)
}

// RunHeadless ticks until MaxTicks is reached or ctx is cancelled.
func (a *App) RunHeadless(ctx context.Context) error {
	a.logger.Info("starting headless simulation",
		"seed", a.rngSeed,
		"max_ticks", a.opts.MaxTicks,
		"steps_per_update", a.stepsPerUpdate,
		"index", a.sim.Config().Index.Strategy,
	)

	for !a.Done() {
		select {
		case <-ctx.Done():
			a.logger.Info("headless run interrupted", "tick", a.Tick())
			return ctx.Err()
		default:
		}
		a.Update()
	}

	a.logger.Info("max ticks reached", "tick", a.Tick(), "nodes", a.sim.State().NodeCount())
	return nil
}

// Close flushes and closes run output.
func (a *App) Close() error {
	return a.output.Close()
}

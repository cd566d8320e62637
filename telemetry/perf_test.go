package telemetry

import (
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/growth/growth"
)

// manualClock is a time source that only moves when advanced.
type manualClock struct {
	t time.Time
}

func (c *manualClock) now() time.Time          { return c.t }
func (c *manualClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newManualCollector(windowSize int) (*PerfCollector, *manualClock) {
	clock := &manualClock{t: time.Unix(1000, 0)}
	pc := NewPerfCollector(windowSize)
	pc.now = clock.now
	return pc, clock
}

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc, clock := newManualCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSpatialIndex)
		clock.advance(100 * time.Microsecond)
		pc.StartPhase(PhasePathUpdate)
		clock.advance(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhaseSpatialIndex]; !ok {
		t.Error("expected spatial_index phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhasePathUpdate]; !ok {
		t.Error("expected path_update phase to be tracked")
	}

	if stats.AvgTickDuration != 300*time.Microsecond {
		t.Errorf("expected 300µs average tick, got %v", stats.AvgTickDuration)
	}
	if got := stats.PhaseAvg[PhasePathUpdate]; got != 200*time.Microsecond {
		t.Errorf("expected 200µs path_update, got %v", got)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc, clock := newManualCollector(5) // Small window

	// Fill window completely; only the last five 2ms ticks remain.
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSpatialIndex)
		if i < 5 {
			clock.advance(time.Millisecond)
		} else {
			clock.advance(2 * time.Millisecond)
		}
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}

	if stats.AvgTickDuration != 2*time.Millisecond {
		t.Errorf("expected old samples to roll out, got average %v", stats.AvgTickDuration)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc, clock := newManualCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		clock.advance(10 * time.Microsecond)
		pc.StartPhase("slow")
		clock.advance(90 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	if math.Abs(fastPct-10) > 1e-9 || math.Abs(slowPct-90) > 1e-9 {
		t.Errorf("expected 10%% / 90%%, got fast %v%% slow %v%%", fastPct, slowPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc, clock := newManualCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	clock.advance(20 * time.Millisecond)
	// Second call measures duration
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration != 20*time.Millisecond {
		t.Errorf("expected 20ms frame duration, got %v", stats.FrameDuration)
	}

	if math.Abs(stats.FPS-50) > 1e-9 {
		t.Errorf("expected 50 FPS with 20ms frames, got %v", stats.FPS)
	}
}

func TestPerfCollector_PhaseTimerThroughSimulation(t *testing.T) {
	pc := NewPerfCollector(4)
	sim := growth.New(200, 200, growth.WithPhaseTimer(pc), growth.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err := sim.Setup(); err != nil {
		t.Fatal(err)
	}

	pc.StartTick()
	sim.Tick()
	pc.StartPhase(PhaseTelemetry)
	pc.EndTick()

	stats := pc.Stats()
	for _, phase := range []string{PhaseSpatialIndex, PhasePathUpdate, PhaseTelemetry} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("expected %s phase to be tracked", phase)
		}
	}

	row := stats.ToCSV("run", 1)
	if row.RunID != "run" || row.WindowEnd != 1 {
		t.Errorf("unexpected CSV row %+v", row)
	}
	if total := row.SpatialIndexPct + row.PathUpdatePct + row.TelemetryPct; total > 100.01 {
		t.Errorf("phase percentages sum to %v", total)
	}
}

func TestPerfCollector_PhaseOutsideTickIgnored(t *testing.T) {
	pc := NewPerfCollector(4)
	pc.StartPhase(PhaseSpatialIndex)
	pc.StartPhase(PhasePathUpdate)

	if stats := pc.Stats(); stats.AvgTickDuration != 0 {
		t.Error("phases outside a tick should not produce samples")
	}
}

func TestPhasesOrder(t *testing.T) {
	got := Phases()
	want := []string{PhaseSpatialIndex, PhasePathUpdate, PhaseTelemetry}
	if len(got) != len(want) {
		t.Fatalf("expected %d phases, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("phase %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	// Callers get a copy.
	got[0] = "mutated"
	if Phases()[0] != PhaseSpatialIndex {
		t.Error("Phases returned shared backing array")
	}
}

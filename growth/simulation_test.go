package growth

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/growth/config"
	"github.com/pthm-cable/growth/geom"
	"github.com/pthm-cable/growth/spatial"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newTestSimulation(t *testing.T, mutate func(*config.Config), opts ...Option) *Simulation {
	t.Helper()
	opts = append([]Option{WithSeed(1), WithLogger(quietLogger())}, opts...)
	sim := New(400, 400, opts...)
	cfg := sim.Config()
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, sim.UpdateConfig(cfg))
	return sim
}

func TestNewSimulation(t *testing.T) {
	sim := New(300, 200)

	assert.Equal(t, 0, sim.Paths())
	assert.Equal(t, 0, sim.TickCount())
	assert.Equal(t, Viewport{Width: 300, Height: 200}, sim.Bounds())
	assert.Equal(t, config.DefaultSettings(300, 200), sim.Settings())
	assert.Empty(t, sim.State().Paths)
}

func TestSimulationTriangle(t *testing.T) {
	sim := newTestSimulation(t, func(c *config.Config) {
		c.Initialization = config.InitializationConfig{
			Type:    config.InitPolygon,
			Polygon: config.PolygonConfig{Sides: 3, Radius: 100},
		}
		c.Bounds.Type = config.BoundsNone
	})

	require.NoError(t, sim.Setup())
	assert.Equal(t, Unbounded{}, sim.Bounds())

	// Densified before the first tick.
	for _, l := range sim.State().EdgeLengths() {
		assert.LessOrEqual(t, l, sim.Settings().MaxEdgeLength)
	}

	stats := sim.Tick()
	st := sim.State()

	require.Len(t, st.Paths, 1)
	assert.True(t, st.Paths[0].Cyclic)
	assert.GreaterOrEqual(t, len(st.Paths[0].Points), 3)
	assert.Equal(t, 1, stats.Tick)
	assert.Equal(t, 1, stats.Paths)
	assert.Equal(t, st.NodeCount(), stats.Nodes)
	assert.Zero(t, stats.Frozen)
}

func TestSimulationHorizontalLineFreezesEnds(t *testing.T) {
	sim := newTestSimulation(t, func(c *config.Config) {
		c.Initialization.Type = config.InitHorizontalLine
		c.Bounds.Type = config.BoundsView
	})
	require.NoError(t, sim.Setup())

	st := sim.State()
	require.Len(t, st.Paths, 1)
	points := st.Paths[0].Points
	assert.False(t, st.Paths[0].Cyclic)
	assert.Equal(t, geom.V(0, 200), points[0])
	assert.Equal(t, geom.V(400, 200), points[len(points)-1])

	// Both end points start on the viewport edge and are pushed out.
	stats := sim.Tick()
	assert.Equal(t, 2, stats.Frozen)
}

func TestSimulationSetupReplacesPaths(t *testing.T) {
	sim := newTestSimulation(t, nil)
	sim.AddPath(NewPath(nodesAt(geom.V(1, 1), geom.V(2, 2)), false))
	sim.AddPath(NewPath(nodesAt(geom.V(3, 3), geom.V(4, 4)), false))
	assert.Equal(t, 2, sim.Paths())

	require.NoError(t, sim.Setup())
	assert.Equal(t, 1, sim.Paths())

	sim.Reset()
	assert.Equal(t, 0, sim.Paths())
	assert.Equal(t, Viewport{Width: 400, Height: 400}, sim.Bounds())

	stats := sim.Tick()
	assert.Equal(t, TickStats{Tick: 1}, stats)
}

func TestSimulationSetupRebuildsBounds(t *testing.T) {
	sim := newTestSimulation(t, func(c *config.Config) {
		c.Bounds.Type = config.BoundsCircle
		c.Bounds.Circle.Radius = 150
	})
	require.NoError(t, sim.Setup())
	assert.Equal(t, Circle{Center: geom.V(200, 200), Radius: 150}, sim.Bounds())
}

func TestSimulationDensifySkippedWithoutMaxEdge(t *testing.T) {
	sim := newTestSimulation(t, func(c *config.Config) {
		c.Initialization.Polygon.Sides = 5
		c.Settings.MaxEdgeLength = 0
	})

	require.NoError(t, sim.Setup())
	assert.Equal(t, 5, sim.State().NodeCount())
}

func TestSimulationUpdateConfigRejectsInvalid(t *testing.T) {
	sim := newTestSimulation(t, nil)
	before := sim.Config()

	bad := before
	bad.Index.Strategy = "octree"
	assert.Error(t, sim.UpdateConfig(bad))
	assert.Equal(t, before, sim.Config())
}

func TestSimulationUpdateSettingsWholeValue(t *testing.T) {
	sim := newTestSimulation(t, nil)
	s := sim.Settings()
	s.MaxSpeed = 3
	s.EnableAttraction = true
	sim.UpdateSettings(s)

	assert.Equal(t, s, sim.Settings())
	assert.Equal(t, s, sim.Config().Settings)

	sim.UpdateInitialization(config.InitializationConfig{Type: config.InitVerticalLine})
	sim.UpdateRecording(config.RecordingConfig{Recording: true, FrameInterval: 3})
	cfg := sim.Config()
	assert.Equal(t, config.InitVerticalLine, cfg.Initialization.Type)
	assert.True(t, cfg.Recording.Recording)
}

func TestSimulationDeterministicWithSeed(t *testing.T) {
	run := func() State {
		sim := newTestSimulation(t, func(c *config.Config) {
			c.Initialization.Polygon.Radius = 40
		})
		require.NoError(t, sim.Setup())
		for range 25 {
			sim.Tick()
		}
		return sim.State()
	}

	assert.Equal(t, run(), run())
}

func TestSimulationDeterministicAcrossStrategies(t *testing.T) {
	for _, strategy := range spatial.Strategies {
		t.Run(string(strategy), func(t *testing.T) {
			run := func() State {
				sim := newTestSimulation(t, func(c *config.Config) {
					c.Index.Strategy = strategy
					c.Initialization.Polygon = config.PolygonConfig{Sides: 50, Radius: 150}
				})
				require.NoError(t, sim.Setup())
				for range 200 {
					sim.Tick()
				}
				return sim.State()
			}

			first := run()
			assert.Greater(t, first.NodeCount(), 200, "path grew")
			assert.Equal(t, first, run())
		})
	}
}

func TestSimulationStaysFinite(t *testing.T) {
	for _, attraction := range []bool{false, true} {
		sim := newTestSimulation(t, func(c *config.Config) {
			c.Initialization.Polygon.Radius = 30
			c.Settings.EnableAttraction = attraction
		})
		require.NoError(t, sim.Setup())
		for range 50 {
			sim.Tick()
		}

		for _, p := range sim.State().Paths {
			for _, pt := range p.Points {
				require.True(t, pt.IsFinite(), "attraction=%v", attraction)
			}
		}
	}
}

type recordingTimer struct {
	phases []string
}

func (r *recordingTimer) StartPhase(phase string) {
	r.phases = append(r.phases, phase)
}

func TestSimulationReportsPhases(t *testing.T) {
	timer := &recordingTimer{}
	sim := newTestSimulation(t, nil, WithPhaseTimer(timer))
	require.NoError(t, sim.Setup())

	sim.Tick()
	assert.Equal(t, []string{PhaseSpatialIndex, PhasePathUpdate}, timer.phases)
}

func TestShapes(t *testing.T) {
	s := config.DefaultSettings(100, 60)
	s.MaxEdgeLength = 10

	h := HorizontalLine(s)
	assert.Equal(t, 10, h.Len())
	assert.False(t, h.Cyclic())
	assert.Equal(t, geom.V(0, 30), h.Node(0).Position)
	assert.Equal(t, geom.V(100, 30), h.Node(9).Position)

	v := VerticalLine(s)
	assert.Equal(t, 6, v.Len())
	assert.Equal(t, geom.V(50, 0), v.Node(0).Position)
	assert.Equal(t, geom.V(50, 60), v.Node(5).Position)

	sq := Polygon(s, config.PolygonConfig{Sides: 4, Radius: 10})
	require.Equal(t, 4, sq.Len())
	assert.True(t, sq.Cyclic())
	assertVec(t, geom.V(60, 30), sq.Node(0).Position)
	assertVec(t, geom.V(50, 40), sq.Node(1).Position)
	for _, n := range sq.Nodes() {
		assert.InDelta(t, 10, n.Position.Distance(geom.V(50, 30)), 1e-9)
	}

	// Degenerate edge lengths still give a drawable line.
	s.MaxEdgeLength = 0
	assert.Equal(t, 2, HorizontalLine(s).Len())
	s.MaxEdgeLength = math.Inf(1)
	assert.Equal(t, 2, VerticalLine(s).Len())
}

func TestStateEdges(t *testing.T) {
	st := State{Paths: []PathState{
		{Points: []geom.Vec2{geom.V(0, 0), geom.V(3, 4), geom.V(3, 0)}, Cyclic: true},
		{Points: []geom.Vec2{geom.V(0, 0), geom.V(1, 0)}},
		{Points: []geom.Vec2{geom.V(5, 5)}, Cyclic: true},
	}}

	assert.Equal(t, 6, st.NodeCount())
	assert.InDeltaSlice(t, []float64{5, 4, 3, 1}, st.EdgeLengths(), 1e-12)
}

func TestStateJSON(t *testing.T) {
	st := State{Paths: []PathState{{Points: []geom.Vec2{geom.V(1, 2)}, Cyclic: true}}}
	data, err := json.Marshal(st)
	require.NoError(t, err)
	assert.JSONEq(t, `{"paths":[{"points":[{"x":1,"y":2}],"cyclic":true}]}`, string(data))
}

func TestSimulationMotionAndRestorePath(t *testing.T) {
	sim := newTestSimulation(t, func(c *config.Config) {
		c.Initialization.Type = config.InitHorizontalLine
		c.Bounds.Type = config.BoundsView
	})
	require.NoError(t, sim.Setup())
	sim.Tick()

	st, motion := sim.State(), sim.Motion()
	require.Len(t, motion, 1)
	require.Len(t, motion[0], len(st.Paths[0].Points))
	assert.True(t, motion[0][0].Frozen)
	assert.True(t, motion[0][len(motion[0])-1].Frozen)
	assert.False(t, motion[0][1].Frozen)

	p, err := RestorePath(st.Paths[0], motion[0])
	require.NoError(t, err)
	for i, n := range p.Nodes() {
		assert.Equal(t, st.Paths[0].Points[i], n.Position)
		assert.Equal(t, motion[0][i].Velocity, n.Velocity)
		assert.Equal(t, motion[0][i].Frozen, n.Frozen)
	}

	rest, err := RestorePath(st.Paths[0], nil)
	require.NoError(t, err)
	for _, n := range rest.Nodes() {
		assert.False(t, n.Frozen)
		assert.True(t, n.Velocity.IsZero())
	}

	_, err = RestorePath(st.Paths[0], motion[0][:2])
	assert.ErrorContains(t, err, "motion for 2 nodes")
}

func TestSimulationWithTickCount(t *testing.T) {
	sim := newTestSimulation(t, nil, WithTickCount(40))
	require.NoError(t, sim.Setup())

	assert.Equal(t, 40, sim.TickCount())
	assert.Equal(t, 41, sim.Tick().Tick)
}

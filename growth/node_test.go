package growth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/growth/config"
	"github.com/pthm-cable/growth/geom"
	"github.com/pthm-cable/growth/spatial"
)

// testSettings returns unit-scale parameters that keep hand computation easy.
func testSettings() config.Settings {
	return config.Settings{
		Width:                100,
		Height:               100,
		MaxSpeed:             1,
		MaxForce:             0.6,
		SeparationDistance:   10,
		AttractionDistance:   10,
		AlignmentWeight:      1.5,
		AttractionWeight:     1,
		SeparationWeight:     1,
		MaxEdgeLength:        1000,
		MinEdgeLength:        0,
		InjectionProbability: 0,
	}
}

func assertVec(t *testing.T, want, got geom.Vec2) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-9, "y")
}

func TestNodeIntegrate(t *testing.T) {
	s := testSettings()
	n := NewNodeWithVelocity(geom.V(-2, 2), geom.V(1, -1))
	n.AddForce(geom.V(1, 2))
	n.AddForce(geom.V(2, -1))
	assert.Equal(t, geom.V(3, 1), n.Acceleration)

	n.Integrate(s)

	// (1,-1)+(3,1) = (4,0), clamped to max speed before moving.
	assert.Equal(t, geom.V(1, 0), n.Velocity)
	assert.Equal(t, geom.V(-1, 2), n.Position)
	assert.True(t, n.Acceleration.IsZero())
}

func TestNodeIntegrateUnderSpeedLimit(t *testing.T) {
	s := testSettings()
	s.MaxSpeed = 10
	n := NewNodeWithVelocity(geom.V(0, 0), geom.V(1, 0))
	n.AddForce(geom.V(0, 2))
	n.Integrate(s)

	assert.Equal(t, geom.V(1, 2), n.Velocity)
	assert.Equal(t, geom.V(1, 2), n.Position)
}

func TestNodeAlign(t *testing.T) {
	s := testSettings()
	prev := NewNode(geom.V(0, 0))
	next := NewNode(geom.V(2, 0))
	n := NewNode(geom.V(1, 1))

	n.Align(&prev, &next, s)

	// Desired (0,-1) clamped to 0.6 then weighted by 1.5.
	assertVec(t, geom.V(0, -0.9), n.Acceleration)
}

func TestNodeAlignAtTarget(t *testing.T) {
	s := testSettings()
	prev := NewNode(geom.V(0, 0))
	next := NewNode(geom.V(2, 0))
	n := NewNodeWithVelocity(geom.V(1, 0), geom.V(0.5, 0))

	n.Align(&prev, &next, s)

	// Zero desired velocity steers against the current velocity.
	assertVec(t, geom.V(-0.75, 0), n.Acceleration)
}

func TestNodeAlignRequiresNeighbors(t *testing.T) {
	n := NewNode(geom.V(1, 1))
	other := NewNode(geom.V(0, 0))
	assert.Panics(t, func() { n.Align(nil, &other, testSettings()) })
	assert.Panics(t, func() { n.Align(&other, nil, testSettings()) })
}

func TestNodeAvoid(t *testing.T) {
	s := testSettings()
	idx := spatial.NewLinear([]geom.Vec2{{X: 0, Y: 0}, {X: 3, Y: 4}})
	n := NewNode(geom.V(0, 0))

	n.Avoid(s, idx)

	// Away from (3,4), full speed, clamped to 0.6.
	assertVec(t, geom.V(-0.36, -0.48), n.Acceleration)
}

func TestNodeAttract(t *testing.T) {
	s := testSettings()
	s.AttractionWeight = 2
	idx := spatial.NewLinear([]geom.Vec2{{X: 3, Y: 4}})
	n := NewNode(geom.V(0, 0))

	n.Attract(s, idx)

	assertVec(t, geom.V(0.72, 0.96), n.Acceleration)
}

func TestNodeAvoidAveragesInverseDistance(t *testing.T) {
	s := testSettings()
	s.MaxForce = 100
	// The closer point on the right dominates the farther one on the left.
	idx := spatial.NewLinear([]geom.Vec2{{X: 2, Y: 0}, {X: -4, Y: 0}})
	n := NewNode(geom.V(0, 0))

	n.Avoid(s, idx)

	assertVec(t, geom.V(-1, 0), n.Acceleration)
}

func TestNodeInteractNoContributors(t *testing.T) {
	tests := []struct {
		name   string
		points []geom.Vec2
	}{
		{"empty index", nil},
		{"only self", []geom.Vec2{{X: 5, Y: 5}}},
		{"exactly at radius", []geom.Vec2{{X: 15, Y: 5}}},
		{"outside radius", []geom.Vec2{{X: 50, Y: 50}}},
		{"cancelling pair", []geom.Vec2{{X: 3, Y: 5}, {X: 7, Y: 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSettings()
			n := NewNodeWithVelocity(geom.V(5, 5), geom.V(0.3, 0))

			n.Avoid(s, spatial.NewLinear(tt.points))
			n.Attract(s, spatial.NewLinear(tt.points))

			// Not even a zero force that would cancel the velocity.
			assert.True(t, n.Acceleration.IsZero())
		})
	}
}

func TestNodeAvoidIndexIndependent(t *testing.T) {
	s := testSettings()
	points := []geom.Vec2{
		{X: 50, Y: 50}, {X: 53, Y: 51}, {X: 47, Y: 58}, {X: 41, Y: 49},
		{X: 59.5, Y: 50}, {X: 50, Y: 60}, {X: 70, Y: 70}, {X: 51, Y: 49},
	}

	var got []geom.Vec2
	for _, strategy := range spatial.Strategies {
		idx, err := spatial.New(strategy, points, 5)
		require.NoError(t, err)

		n := NewNode(geom.V(50, 50))
		n.Avoid(s, idx)
		got = append(got, n.Acceleration)
	}

	for i := 1; i < len(got); i++ {
		assertVec(t, got[0], got[i])
	}
	assert.False(t, got[0].IsZero())
}

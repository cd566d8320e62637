package growth

import (
	"github.com/pthm-cable/growth/config"
	"github.com/pthm-cable/growth/geom"
	"github.com/pthm-cable/growth/spatial"
)

// Node is a point mass on a path.
type Node struct {
	Position     geom.Vec2
	Velocity     geom.Vec2
	Acceleration geom.Vec2 // Force accumulator, cleared by Integrate

	// Frozen nodes left the bounds; they never move or steer again.
	Frozen bool
}

// NewNode returns a resting node at position.
func NewNode(position geom.Vec2) Node {
	return Node{Position: position}
}

// NewNodeWithVelocity returns a node at position moving with velocity.
func NewNodeWithVelocity(position, velocity geom.Vec2) Node {
	return Node{Position: position, Velocity: velocity}
}

// Distance returns the distance between two nodes.
func (n *Node) Distance(other *Node) float64 {
	return n.Position.Distance(other.Position)
}

// AddForce accumulates a force. It takes effect at the next Integrate.
func (n *Node) AddForce(force geom.Vec2) {
	n.Acceleration = n.Acceleration.Add(force)
}

// Integrate advances the node one step (semi-implicit Euler): velocity is
// updated and clamped before it moves the position.
func (n *Node) Integrate(s config.Settings) {
	n.Velocity = n.Velocity.Add(n.Acceleration).Limit(s.MaxSpeed)
	n.Position = n.Position.Add(n.Velocity)
	n.Acceleration = geom.Vec2{}
}

// Align steers toward the midpoint of the path neighbors.
func (n *Node) Align(prev, next *Node, s config.Settings) {
	if prev == nil || next == nil {
		panic("growth: Align requires both path neighbors")
	}

	target := prev.Position.Midpoint(next.Position)
	desired := target.Sub(n.Position).Normalize().Scale(s.MaxSpeed)
	steer := desired.Sub(n.Velocity).Limit(s.MaxForce).Scale(s.AlignmentWeight)
	n.AddForce(steer)
}

// Avoid steers away from nearby points within SeparationDistance.
func (n *Node) Avoid(s config.Settings, idx spatial.Index) {
	n.interact(s, idx, avoid)
}

// Attract steers toward nearby points within AttractionDistance.
func (n *Node) Attract(s config.Settings, idx spatial.Index) {
	n.interact(s, idx, attract)
}

type interaction int

const (
	attract interaction = iota
	avoid
)

// radius returns the query radius for the interaction.
func (k interaction) radius(s config.Settings) float64 {
	if k == attract {
		return s.AttractionDistance
	}
	return s.SeparationDistance
}

// weight returns the force weight for the interaction.
func (k interaction) weight(s config.Settings) float64 {
	if k == attract {
		return s.AttractionWeight
	}
	return s.SeparationWeight
}

// interact accumulates inverse-distance weighted directions to or from every
// neighbor strictly inside the radius and steers along their average. No
// force is added when nothing contributes.
func (n *Node) interact(s config.Settings, idx spatial.Index, kind interaction) {
	radius := kind.radius(s)

	var total geom.Vec2
	near := 0

	for _, other := range idx.Within(n.Position, radius) {
		d := n.Position.Distance(other)
		if d <= 0 || d >= radius {
			continue
		}

		var dir geom.Vec2
		if kind == attract {
			dir = other.Sub(n.Position)
		} else {
			dir = n.Position.Sub(other)
		}
		total = total.Add(dir.Normalize().Div(d))
		near++
	}

	if near > 0 {
		total = total.Div(float64(near))
	}

	if total.Length() > 0 {
		steer := total.Normalize().
			Scale(s.MaxSpeed).
			Sub(n.Velocity).
			Limit(s.MaxForce).
			Scale(kind.weight(s))
		n.AddForce(steer)
	}
}

package growth

import (
	"fmt"

	"github.com/pthm-cable/growth/geom"
)

// State is the drawable state of a simulation.
type State struct {
	Paths []PathState `json:"paths"`
}

// PathState is one path's node positions in order.
type PathState struct {
	Points []geom.Vec2 `json:"points"`
	Cyclic bool        `json:"cyclic"`
}

// Edges calls fn for every edge of the path, including the closing edge of
// a cyclic path.
func (ps PathState) Edges(fn func(a, b geom.Vec2)) {
	n := len(ps.Points)
	if n < 2 {
		return
	}
	for i := 1; i < n; i++ {
		fn(ps.Points[i-1], ps.Points[i])
	}
	if ps.Cyclic {
		fn(ps.Points[n-1], ps.Points[0])
	}
}

// NodeCount returns the number of nodes across all paths.
func (s State) NodeCount() int {
	n := 0
	for _, p := range s.Paths {
		n += len(p.Points)
	}
	return n
}

// EdgeLengths returns the length of every edge across all paths.
func (s State) EdgeLengths() []float64 {
	var out []float64
	for _, p := range s.Paths {
		p.Edges(func(a, b geom.Vec2) {
			out = append(out, a.Distance(b))
		})
	}
	return out
}

// NodeMotion is the per-node state that State leaves out.
type NodeMotion struct {
	Velocity geom.Vec2 `json:"velocity"`
	Frozen   bool      `json:"frozen,omitempty"`
}

// RestorePath rebuilds a path from its drawable state and, when motion is
// non-nil, each node's velocity and frozen flag.
func RestorePath(ps PathState, motion []NodeMotion) (*Path, error) {
	if motion != nil && len(motion) != len(ps.Points) {
		return nil, fmt.Errorf("motion for %d nodes, path has %d", len(motion), len(ps.Points))
	}

	nodes := make([]Node, len(ps.Points))
	for i, p := range ps.Points {
		nodes[i] = NewNode(p)
		if motion != nil {
			nodes[i].Velocity = motion[i].Velocity
			nodes[i].Frozen = motion[i].Frozen
		}
	}
	return NewPath(nodes, ps.Cyclic), nil
}

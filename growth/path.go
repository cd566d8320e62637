package growth

import (
	"fmt"
	"slices"

	"github.com/pthm-cable/growth/config"
	"github.com/pthm-cable/growth/geom"
	"github.com/pthm-cable/growth/spatial"
)

// Rand is the random source used for node injection.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Path is an ordered, optionally cyclic sequence of nodes. Adjacency is
// index arithmetic: the neighbors of node i are i-1 and i+1, wrapping around
// when the path is cyclic. Paths with fewer than two nodes have no edges.
type Path struct {
	cyclic bool
	nodes  []Node
}

// NewPath creates a path that owns nodes.
func NewPath(nodes []Node, cyclic bool) *Path {
	return &Path{cyclic: cyclic, nodes: nodes}
}

// Cyclic reports whether the last node connects back to the first.
func (p *Path) Cyclic() bool { return p.cyclic }

// Len returns the number of nodes.
func (p *Path) Len() int { return len(p.nodes) }

// Node returns a copy of the node at index i.
func (p *Path) Node(i int) Node {
	p.checkIndex(i)
	return p.nodes[i]
}

// Nodes returns a copy of the node sequence.
func (p *Path) Nodes() []Node {
	return slices.Clone(p.nodes)
}

// Positions returns the node positions in path order.
func (p *Path) Positions() []geom.Vec2 {
	out := make([]geom.Vec2, len(p.nodes))
	for i := range p.nodes {
		out[i] = p.nodes[i].Position
	}
	return out
}

// appendPositions appends the node positions to dst.
func (p *Path) appendPositions(dst []geom.Vec2) []geom.Vec2 {
	for i := range p.nodes {
		dst = append(dst, p.nodes[i].Position)
	}
	return dst
}

// Prev returns the node before index i, if any.
func (p *Path) Prev(i int) (Node, bool) {
	j, ok := p.prevIndex(i)
	if !ok {
		return Node{}, false
	}
	return p.nodes[j], true
}

// Next returns the node after index i, if any.
func (p *Path) Next(i int) (Node, bool) {
	j, ok := p.nextIndex(i)
	if !ok {
		return Node{}, false
	}
	return p.nodes[j], true
}

// Neighbors returns both neighbors of index i. ok is false unless both exist.
// On a cyclic path of two nodes prev and next are the same node.
func (p *Path) Neighbors(i int) (prev, next Node, ok bool) {
	pi, hasPrev := p.prevIndex(i)
	ni, hasNext := p.nextIndex(i)
	if !hasPrev || !hasNext {
		return Node{}, Node{}, false
	}
	return p.nodes[pi], p.nodes[ni], true
}

func (p *Path) prevIndex(i int) (int, bool) {
	p.checkIndex(i)
	n := len(p.nodes)
	switch {
	case n < 2:
		return 0, false
	case i > 0:
		return i - 1, true
	case p.cyclic:
		return n - 1, true
	default:
		return 0, false
	}
}

func (p *Path) nextIndex(i int) (int, bool) {
	p.checkIndex(i)
	n := len(p.nodes)
	switch {
	case n < 2:
		return 0, false
	case i < n-1:
		return i + 1, true
	case p.cyclic:
		return 0, true
	default:
		return 0, false
	}
}

func (p *Path) checkIndex(i int) {
	if i < 0 || i >= len(p.nodes) {
		panic(fmt.Sprintf("growth: node index %d out of range [0, %d)", i, len(p.nodes)))
	}
}

// UpdateStats reports what one path update did.
type UpdateStats struct {
	Frozen   int // Nodes that froze this tick
	Grown    int // Nodes inserted by Grow
	Pruned   int // Nodes removed by Prune
	Injected int // Nodes inserted by InjectRandom
}

// Update runs one tick for the path.
//
// Nodes are visited in ascending index order against the live slice, so a
// node's alignment sees the already-moved state of its previous neighbor
// (and, for the last node of a cyclic path, of node 0). Topology maintenance
// runs afterwards: Grow, then Prune, then InjectRandom.
func (p *Path) Update(s config.Settings, idx spatial.Index, bounds Bounds, rng Rand) UpdateStats {
	var stats UpdateStats

	for i := range p.nodes {
		node := &p.nodes[i]
		if node.Frozen {
			continue
		}

		if pi, ok := p.prevIndex(i); ok {
			if ni, ok := p.nextIndex(i); ok {
				prev, next := p.nodes[pi], p.nodes[ni]
				node.Align(&prev, &next, s)
			}
		}

		if s.EnableAttraction && s.AttractionWeight != 0 {
			node.Attract(s, idx)
		}
		node.Avoid(s, idx)

		node.Integrate(s)

		if !bounds.Contains(node.Position) {
			node.Frozen = true
			stats.Frozen++
		}
	}

	stats.Grown = p.GrowCount(s)
	stats.Pruned = p.Prune(s)
	if p.InjectRandom(s, rng) {
		stats.Injected = 1
	}

	return stats
}

// Grow splits every edge longer than MaxEdgeLength at its midpoint and
// reports whether any node was inserted.
func (p *Path) Grow(s config.Settings) bool {
	return p.GrowCount(s) > 0
}

// GrowCount is Grow returning the number of inserted nodes.
//
// Indices are scanned from last to first so insertions never shift an index
// that is still to be visited. The edge into index 0 is the wraparound edge
// of a cyclic path; its midpoint is appended after the last node.
func (p *Path) GrowCount(s config.Settings) int {
	inserted := 0

	for i := len(p.nodes) - 1; i >= 0; i-- {
		pi, ok := p.prevIndex(i)
		if !ok {
			continue
		}

		prev, cur := p.nodes[pi].Position, p.nodes[i].Position
		if prev.Distance(cur) <= s.MaxEdgeLength {
			continue
		}

		node := NewNode(cur.Midpoint(prev))
		if i == 0 {
			p.nodes = append(p.nodes, node)
		} else {
			p.nodes = slices.Insert(p.nodes, i, node)
		}
		inserted++
	}

	return inserted
}

// Prune removes nodes whose edge to the previous node is shorter than
// MinEdgeLength and returns how many were removed. The scan runs forward
// over the shrinking slice; the node that shifts into a removed slot is not
// re-examined in the same pass.
func (p *Path) Prune(s config.Settings) int {
	removed := 0
	n := len(p.nodes)

	for i := 0; i < n; i++ {
		if i >= len(p.nodes) {
			break
		}

		pi, ok := p.prevIndex(i)
		if !ok {
			continue
		}

		if p.nodes[pi].Distance(&p.nodes[i]) < s.MinEdgeLength {
			p.nodes = slices.Delete(p.nodes, i, i+1)
			removed++
		}
	}

	return removed
}

// InjectRandom inserts, with probability InjectionProbability, one node at
// the midpoint of a random interior edge. Paths with fewer than three nodes
// are left alone without consuming randomness.
func (p *Path) InjectRandom(s config.Settings, rng Rand) bool {
	if len(p.nodes) < 3 {
		return false
	}

	if rng.Float64() > s.InjectionProbability {
		return false
	}

	p.injectAt(1 + rng.Intn(len(p.nodes)-2))
	return true
}

// injectAt inserts the midpoint of the edge into index i at i.
func (p *Path) injectAt(i int) {
	if i < 1 || i > len(p.nodes)-2 {
		panic(fmt.Sprintf("growth: injection index %d outside [1, %d]", i, len(p.nodes)-2))
	}

	prev := p.nodes[i-1].Position
	p.nodes = slices.Insert(p.nodes, i, NewNode(prev.Midpoint(p.nodes[i].Position)))
}

// Package telemetry provides run statistics, performance timing, bookmarks
// and structured output for growth simulations.
package telemetry

import "github.com/pthm-cable/growth/growth"

// Collector accumulates tick results within windows and produces WindowStats.
type Collector struct {
	runID       string
	windowTicks int

	// Current window tracking
	windowStartTick  int
	windowStartNodes int

	// Event counters for current window
	frozen   int
	grown    int
	pruned   int
	injected int

	frozenTotal int
}

// NewCollector creates a new stats collector.
// windowTicks: how many ticks each stats window lasts
// runID: identifier stamped on every produced row
func NewCollector(windowTicks int, runID string) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		runID:       runID,
		windowTicks: windowTicks,
	}
}

// Record adds one tick's results to the current window.
func (c *Collector) Record(ts growth.TickStats) {
	c.frozen += ts.Frozen
	c.grown += ts.Grown
	c.pruned += ts.Pruned
	c.injected += ts.Injected
	c.frozenTotal += ts.Frozen
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats from the counters and the state at window
// end, then starts the next window.
func (c *Collector) Flush(currentTick int, st growth.State) WindowStats {
	nodes := st.NodeCount()
	mean, std, p10, p50, p90 := ComputeEdgeStats(st.EdgeLengths())

	var perTick float64
	if span := currentTick - c.windowStartTick; span > 0 {
		perTick = float64(nodes-c.windowStartNodes) / float64(span)
	}

	stats := WindowStats{
		RunID:           c.runID,
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Paths: len(st.Paths),
		Nodes: nodes,

		Frozen:   c.frozen,
		Grown:    c.grown,
		Pruned:   c.pruned,
		Injected: c.injected,

		FrozenTotal:  c.frozenTotal,
		NodesPerTick: perTick,

		EdgeMean: mean,
		EdgeStd:  std,
		EdgeP10:  p10,
		EdgeP50:  p50,
		EdgeP90:  p90,
	}

	c.startWindow(currentTick, nodes)
	return stats
}

// Reset discards the current window and cumulative counters, for example
// after the simulation was set up again.
func (c *Collector) Reset(currentTick int, st growth.State) {
	c.frozenTotal = 0
	c.startWindow(currentTick, st.NodeCount())
}

func (c *Collector) startWindow(tick, nodes int) {
	c.windowStartTick = tick
	c.windowStartNodes = nodes
	c.frozen = 0
	c.grown = 0
	c.pruned = 0
	c.injected = 0
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int {
	return c.windowTicks
}

// RunID returns the identifier stamped on produced rows.
func (c *Collector) RunID() string {
	return c.runID
}

package telemetry

import (
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	RunID           string `csv:"run_id"`
	WindowStartTick int    `csv:"-"`
	WindowEndTick   int    `csv:"window_end"`

	// Topology at window end
	Paths int `csv:"paths"`
	Nodes int `csv:"nodes"`

	// Events during window
	Frozen   int `csv:"frozen"`
	Grown    int `csv:"grown"`
	Pruned   int `csv:"pruned"`
	Injected int `csv:"injected"`

	FrozenTotal  int     `csv:"frozen_total"`   // Since the last reset
	NodesPerTick float64 `csv:"nodes_per_tick"` // Net node change per tick over the window

	// Edge length distribution (sampled at window end)
	EdgeMean float64 `csv:"edge_mean"`
	EdgeStd  float64 `csv:"edge_std"`
	EdgeP10  float64 `csv:"edge_p10"`
	EdgeP50  float64 `csv:"edge_p50"`
	EdgeP90  float64 `csv:"edge_p90"`
}

// NewRunID returns a fresh identifier stamped on every row of a run.
func NewRunID() string {
	return uuid.NewString()
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEdgeStats calculates mean, sample standard deviation and percentiles
// of edge lengths. The input is not modified.
func ComputeEdgeStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	if n == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Int("paths", s.Paths),
		slog.Int("nodes", s.Nodes),
		slog.Int("frozen", s.Frozen),
		slog.Int("grown", s.Grown),
		slog.Int("pruned", s.Pruned),
		slog.Int("injected", s.Injected),
		slog.Int("frozen_total", s.FrozenTotal),
		slog.Float64("nodes_per_tick", s.NodesPerTick),
		slog.Float64("edge_mean", s.EdgeMean),
		slog.Float64("edge_std", s.EdgeStd),
		slog.Float64("edge_p10", s.EdgeP10),
		slog.Float64("edge_p50", s.EdgeP50),
		slog.Float64("edge_p90", s.EdgeP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"paths", s.Paths,
		"nodes", s.Nodes,
		"frozen", s.Frozen,
		"grown", s.Grown,
		"pruned", s.Pruned,
		"injected", s.Injected,
		"frozen_total", s.FrozenTotal,
		"nodes_per_tick", s.NodesPerTick,
		"edge_mean", s.EdgeMean,
		"edge_p50", s.EdgeP50,
	)
}

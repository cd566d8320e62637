package main

import (
	"context"
	"fmt"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/growth/config"
	"github.com/pthm-cable/growth/growth"
	"github.com/pthm-cable/growth/telemetry"
)

// Quality component weights.
const (
	qualityWeightUniformity = 0.6
	qualityWeightLiveness   = 0.4

	qualityWarmupWindows = 1 // skip first N windows
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params   *ParamVector
	base     config.Config
	maxTicks int
	maxNodes int
	seeds    []int64

	mu          sync.Mutex
	lastQuality float64
	lastGrowth  float64
}

// NewFitnessEvaluator creates a new evaluator. Runs stop at maxTicks or once
// the node count passes maxNodes.
func NewFitnessEvaluator(params *ParamVector, base config.Config, maxTicks, maxNodes int, seeds []int64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:   params,
		base:     base,
		maxTicks: maxTicks,
		maxNodes: maxNodes,
		seeds:    seeds,
	}
}

// runResult holds the results from a single simulation run.
type runResult struct {
	startNodes int
	endNodes   int
	windows    []telemetry.WindowStats
}

// Last returns the growth and quality scores of the most recent evaluation.
func (fe *FitnessEvaluator) Last() (growthScore, quality float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastGrowth, fe.lastQuality
}

// Config returns the base config with x applied to its settings.
func (fe *FitnessEvaluator) Config(x []float64) config.Config {
	cfg := fe.base
	fe.params.Apply(&cfg.Settings, x)
	return cfg
}

// Evaluate computes fitness for a parameter vector (lower = better). Seeds
// run in parallel and their scores are averaged.
func (fe *FitnessEvaluator) Evaluate(ctx context.Context, x []float64) (float64, error) {
	cfg := fe.Config(x)

	results := make([]*runResult, len(fe.seeds))
	g, ctx := errgroup.WithContext(ctx)
	for i, seed := range fe.seeds {
		g.Go(func() error {
			r, err := fe.runSimulation(ctx, cfg, seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var totalGrowth, totalQuality float64
	for _, r := range results {
		totalGrowth += fe.growthScore(r)
		totalQuality += computeQuality(r.windows)
	}
	n := float64(len(results))
	growthScore, quality := totalGrowth/n, totalQuality/n

	fe.mu.Lock()
	fe.lastGrowth, fe.lastQuality = growthScore, quality
	fe.mu.Unlock()

	return computeFitness(growthScore, quality), nil
}

// runSimulation executes a single headless run, collecting window stats.
func (fe *FitnessEvaluator) runSimulation(ctx context.Context, cfg config.Config, seed int64) (*runResult, error) {
	sim := growth.New(cfg.Settings.Width, cfg.Settings.Height, growth.WithSeed(seed))
	if err := sim.UpdateConfig(cfg); err != nil {
		return nil, err
	}
	if err := sim.Setup(); err != nil {
		return nil, err
	}

	collector := telemetry.NewCollector(cfg.Telemetry.StatsWindow, "")
	collector.Reset(0, sim.State())

	result := &runResult{startNodes: sim.State().NodeCount()}
	nodes := result.startNodes
	for sim.TickCount() < fe.maxTicks && nodes <= fe.maxNodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ts := sim.Tick()
		nodes = ts.Nodes
		collector.Record(ts)
		if collector.ShouldFlush(ts.Tick) {
			result.windows = append(result.windows, collector.Flush(ts.Tick, sim.State()))
		}
	}
	result.endNodes = nodes
	return result, nil
}

// growthScore maps node growth onto [0, 1] on a log scale, where 1 means the
// run reached maxNodes.
func (fe *FitnessEvaluator) growthScore(r *runResult) float64 {
	if r.startNodes == 0 || r.endNodes <= r.startNodes {
		return 0
	}
	target := math.Log(float64(fe.maxNodes) / float64(r.startNodes))
	if target <= 0 {
		return 1
	}
	return clamp01(math.Log(float64(r.endNodes)/float64(r.startNodes)) / target)
}

// computeFitness combines growth and quality into a scalar (lower = better).
// Quality adds up to 50% on top of growth so it separates runs with similar
// growth without rewarding runs that never grow.
func computeFitness(growthScore, quality float64) float64 {
	return -(growthScore * (1.0 + 0.5*quality))
}

// computeQuality scores window stats in [0, 1]. Uniform edge lengths and a
// low frozen fraction score high.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var uniformity, liveness float64
	var count int
	for _, w := range windows[qualityWarmupWindows:] {
		if w.Nodes == 0 || w.EdgeMean <= 0 {
			continue
		}
		cv := w.EdgeStd / w.EdgeMean
		uniformity += math.Exp(-cv * cv / 0.1)
		liveness += 1 - clamp01(float64(w.FrozenTotal)/float64(w.Nodes))
		count++
	}
	if count == 0 {
		return 0
	}

	n := float64(count)
	return clamp01(qualityWeightUniformity*uniformity/n + qualityWeightLiveness*liveness/n)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}

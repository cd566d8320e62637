// Command tune searches growth settings with CMA-ES for runs that keep
// growing with uniform edge lengths.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/growth/config"
)

const (
	logFileName  = "tune_log.csv"
	bestFileName = "best_config.yaml"
)

type tuneFlags struct {
	configPath string
	outputDir  string
	maxTicks   int
	maxNodes   int
	seeds      int
	maxEvals   int
	population int
}

func main() {
	if err := newTuneCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newTuneCmd() *cobra.Command {
	f := &tuneFlags{}
	cmd := &cobra.Command{
		Use:          "tune",
		Short:        "Search growth settings with CMA-ES",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			logger := slog.New(slog.NewJSONHandler(cmd.OutOrStdout(), nil))
			_, err := tune(ctx, f, logger)
			return err
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "Base config YAML file (empty = use defaults)")
	fl.StringVar(&f.outputDir, "output", "", "Output directory for results (required)")
	fl.IntVar(&f.maxTicks, "max-ticks", 2000, "Ticks per run")
	fl.IntVar(&f.maxNodes, "max-nodes", 5000, "Stop a run once it has this many nodes")
	fl.IntVar(&f.seeds, "seeds", 3, "Number of seeds per evaluation")
	fl.IntVar(&f.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	fl.IntVar(&f.population, "population", 0, "CMA-ES population size (0 = auto)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// tuneResult is the best candidate found by a tuning run.
type tuneResult struct {
	Fitness    float64
	Settings   config.Settings
	ConfigPath string
	Evals      int
}

// tune runs the search, logging every evaluation to CSV and writing the best
// config as YAML.
func tune(ctx context.Context, f *tuneFlags, logger *slog.Logger) (*tuneResult, error) {
	if err := os.MkdirAll(f.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	base, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	params := NewParamVector()
	seeds := make([]int64, max(1, f.seeds))
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, *base, f.maxTicks, f.maxNodes, seeds)

	logFile, err := os.Create(filepath.Join(f.outputDir, logFileName))
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}
	defer logFile.Close()
	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := append([]string{"eval", "fitness", "growth", "quality"}, params.Names()...)
	if err := logWriter.Write(header); err != nil {
		return nil, fmt.Errorf("write log header: %w", err)
	}

	var (
		evalCount   int
		bestFitness = math.Inf(1)
		bestParams  []float64
		evalErr     error
		start       = time.Now()
	)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			// gonum has no error path, so after the first failure the
			// remaining evaluations are skipped.
			if evalErr != nil {
				return math.Inf(1)
			}
			raw := params.Clamp(params.Denormalize(x))
			fitness, err := evaluator.Evaluate(ctx, raw)
			if err != nil {
				evalErr = err
				return math.Inf(1)
			}
			evalCount++
			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = raw
			}

			growthScore, quality := evaluator.Last()
			row := []string{
				strconv.Itoa(evalCount),
				strconv.FormatFloat(fitness, 'f', 6, 64),
				strconv.FormatFloat(growthScore, 'f', 6, 64),
				strconv.FormatFloat(quality, 'f', 6, 64),
			}
			for _, v := range raw {
				row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
			}
			if err := logWriter.Write(row); err != nil {
				evalErr = fmt.Errorf("write log row: %w", err)
			}
			logWriter.Flush()

			elapsed := time.Since(start)
			remaining := time.Duration(f.maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			logger.Info("evaluation",
				"eval", evalCount,
				"max_evals", f.maxEvals,
				"growth", growthScore,
				"quality", quality,
				"best", bestFitness,
				"elapsed", elapsed.Round(time.Second).String(),
				"eta", remaining.Round(time.Second).String(),
			)
			return fitness
		},
	}

	dim := params.Dim()
	popSize := f.population
	if popSize == 0 {
		popSize = 4 + int(3*math.Log(float64(dim)))
	}

	logger.Info("starting CMA-ES", "params", dim, "population", popSize, "max_evals", f.maxEvals, "seeds", len(seeds))

	_, err = optimize.Minimize(problem,
		params.Normalize(params.DefaultVector()),
		&optimize.Settings{FuncEvaluations: f.maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize},
	)
	if evalErr != nil {
		if errors.Is(evalErr, context.Canceled) && bestParams != nil {
			logger.Warn("tuning interrupted, keeping best so far", "evals", evalCount)
		} else {
			return nil, evalErr
		}
	} else if err != nil {
		logger.Info("optimization ended", "reason", err)
	}
	if bestParams == nil {
		return nil, errors.New("no evaluation completed")
	}

	best := evaluator.Config(bestParams)
	configPath := filepath.Join(f.outputDir, bestFileName)
	if err := best.WriteYAML(configPath); err != nil {
		return nil, err
	}

	logger.Info("tuning complete",
		"evals", evalCount,
		"best_fitness", bestFitness,
		"config", configPath,
		"elapsed", time.Since(start).Round(time.Second).String(),
	)
	return &tuneResult{
		Fitness:    bestFitness,
		Settings:   best.Settings,
		ConfigPath: configPath,
		Evals:      evalCount,
	}, nil
}

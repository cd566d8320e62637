package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/growth/app"
	"github.com/pthm-cable/growth/config"
	"github.com/pthm-cable/growth/spatial"
	"github.com/pthm-cable/growth/telemetry"
)

// runFlags holds the root command's flag values.
type runFlags struct {
	configPath     string
	headless       bool
	logStats       bool
	record         bool
	outputDir      string
	restorePath    string
	seed           int64
	maxTicks       int
	stepsPerUpdate int
	width, height  int
	index          string
	logFile        string
	logLevel       string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &runFlags{}

	root := &cobra.Command{
		Use:          "growth",
		Short:        "Differential growth line simulation",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	fl := root.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "Path to config.yaml (empty = use defaults)")
	fl.BoolVar(&f.headless, "headless", false, "Run without graphics")
	fl.BoolVar(&f.logStats, "log-stats", false, "Output window and perf stats via slog")
	fl.BoolVar(&f.record, "record", false, "Enable recording (requires --output-dir)")
	fl.StringVar(&f.outputDir, "output-dir", "", "Output directory for CSV logs, snapshots and frames")
	fl.StringVar(&f.restorePath, "restore", "", "Resume from a snapshot file")
	fl.Int64Var(&f.seed, "seed", 0, "RNG seed (0 = time-based)")
	fl.IntVar(&f.maxTicks, "max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	fl.IntVar(&f.stepsPerUpdate, "steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	fl.IntVar(&f.width, "width", 0, "Canvas width (0 = use config)")
	fl.IntVar(&f.height, "height", 0, "Canvas height (0 = use config)")
	fl.StringVar(&f.index, "index", "", "Spatial index: kdtree, linear or grid (empty = use config)")

	pf := root.PersistentFlags()
	pf.StringVar(&f.logFile, "log-file", "", "Also write logs to this file, rotated by size")
	pf.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	root.AddCommand(newDefaultsCmd(), newInspectCmd())
	return root
}

// run loads configuration, applies flag overrides and runs the simulation.
func run(cmd *cobra.Command, f *runFlags) error {
	logger, closer, err := newLogger(cmd.OutOrStdout(), f.logFile, f.logLevel)
	if err != nil {
		return err
	}
	defer closer.Close()
	slog.SetDefault(logger)

	cfg, err := loadConfig(f)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}

	opts := app.Options{
		Seed:           f.seed,
		Headless:       f.headless,
		MaxTicks:       f.maxTicks,
		StepsPerUpdate: f.stepsPerUpdate,
		OutputDir:      f.outputDir,
		LogStats:       f.logStats,
		RestorePath:    f.restorePath,
	}

	if opts.Headless && opts.MaxTicks == 0 && opts.OutputDir == "" && !opts.LogStats {
		logger.Warn("headless run without max ticks, output or stats will run until interrupted")
	}

	a, err := app.New(*cfg, opts, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("failed to close output", "error", err)
		}
	}()

	if !opts.Headless {
		return app.RunWindow(a)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := a.RunHeadless(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(f *runFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	if f.width > 0 {
		cfg.Settings.Width = f.width
	}
	if f.height > 0 {
		cfg.Settings.Height = f.height
	}
	if f.index != "" {
		cfg.Index.Strategy = spatial.Strategy(f.index)
	}
	if f.record {
		if f.outputDir == "" {
			return nil, fmt.Errorf("--record needs --output-dir")
		}
		cfg.Recording.Recording = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newDefaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Print the embedded default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write(config.DefaultsYAML())
			return err
		},
	}
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <snapshot.json>",
		Short: "Summarize a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := telemetry.LoadSnapshot(args[0])
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), snap)
		},
	}
}

// writeSummary prints a human-readable overview of a snapshot.
func writeSummary(w io.Writer, snap *telemetry.Snapshot) error {
	mean, std, p10, p50, p90 := telemetry.ComputeEdgeStats(snap.State.EdgeLengths())

	bookmark := "-"
	if snap.Bookmark != nil {
		bookmark = string(snap.Bookmark.Type)
	}

	_, err := fmt.Fprintf(w,
		"run:      %s\nseed:     %d\ntick:     %d\nbookmark: %s\npaths:    %d\nnodes:    %d\nbounds:   %s\nindex:    %s\nedges:    mean %.3f std %.3f p10 %.3f p50 %.3f p90 %.3f\n",
		snap.RunID, snap.Seed, snap.Tick, bookmark,
		len(snap.State.Paths), snap.State.NodeCount(),
		snap.Config.Bounds.Type, snap.Config.Index.Strategy,
		mean, std, p10, p50, p90,
	)
	return err
}

package app

import (
	"github.com/pthm-cable/growth/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (a *App) flushTelemetry() {
	tick := a.sim.TickCount()
	if !a.collector.ShouldFlush(tick) {
		return
	}

	stats := a.collector.Flush(tick, a.sim.State())
	perfStats := a.perf.Stats()
	a.lastWindow = stats

	if a.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	recording := a.Recording()
	if recording {
		if err := a.output.WriteTelemetry(stats); err != nil {
			a.logger.Error("failed to write telemetry", "error", err)
		}
		if err := a.output.WritePerf(perfStats, a.runID, stats.WindowEndTick); err != nil {
			a.logger.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range a.bookmarks.Check(stats) {
		if a.opts.LogStats {
			bm.LogBookmark()
		}
		if !recording {
			continue
		}
		if err := a.output.WriteBookmark(bm); err != nil {
			a.logger.Error("failed to write bookmark", "error", err)
		}
		a.SaveSnapshot(&bm)
	}
}

// SaveSnapshot writes the current state to the output directory, tagged with
// bookmark when non-nil. It returns the written path, or "" when there is no
// output directory or the write failed.
func (a *App) SaveSnapshot(bookmark *telemetry.Bookmark) string {
	if a.output == nil {
		a.logger.Warn("snapshot skipped, no output directory")
		return ""
	}

	snapshot := telemetry.NewSnapshot(a.sim, a.runID, a.rngSeed)
	snapshot.Bookmark = bookmark

	path, err := a.output.WriteSnapshot(snapshot)
	if err != nil {
		a.logger.Error("failed to save snapshot", "error", err)
		return ""
	}

	a.logger.Info("snapshot saved", "path", path, "tick", snapshot.Tick)
	return path
}

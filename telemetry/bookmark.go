package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkNodeMilestone BookmarkType = "node_milestone"
	BookmarkFrozenSurge   BookmarkType = "frozen_surge"
	BookmarkGrowthStall   BookmarkType = "growth_stall"
)

// Bookmark marks a notable moment in a run.
type Bookmark struct {
	RunID       string       `csv:"run_id" json:"run_id"`
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int          `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// Detector thresholds.
const (
	firstNodeMilestone = 1024
	stallWindows       = 3
	surgeMinFrozen     = 10
)

// BookmarkDetector watches successive windows for notable moments.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history []WindowStats
	idx     int
	full    bool

	nextMilestone int // Node count that triggers the next milestone
	stalled       int // Consecutive windows without topology growth
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:       make([]WindowStats, historySize),
		nextMilestone: firstNodeMilestone,
	}
}

// Check analyzes the latest window and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkNodeMilestone(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkFrozenSurge(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkGrowthStall(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.history[bd.idx] = stats
	bd.idx = (bd.idx + 1) % len(bd.history)
	if bd.idx == 0 {
		bd.full = true
	}

	for i := range bookmarks {
		bookmarks[i].RunID = stats.RunID
	}
	return bookmarks
}

func (bd *BookmarkDetector) recent() []WindowStats {
	if bd.full {
		return bd.history
	}
	return bd.history[:bd.idx]
}

// checkNodeMilestone fires each time the node count passes the next power of
// two, starting at 1024.
func (bd *BookmarkDetector) checkNodeMilestone(stats WindowStats) *Bookmark {
	if stats.Nodes < bd.nextMilestone {
		return nil
	}

	passed := bd.nextMilestone
	for bd.nextMilestone <= stats.Nodes {
		bd.nextMilestone *= 2
	}
	return &Bookmark{
		Type:        BookmarkNodeMilestone,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Node count %d passed %d", stats.Nodes, passed),
	}
}

// checkFrozenSurge fires when a window freezes more than twice the rolling
// average number of nodes.
func (bd *BookmarkDetector) checkFrozenSurge(stats WindowStats) *Bookmark {
	history := bd.recent()
	if len(history) < 3 || stats.Frozen < surgeMinFrozen {
		return nil
	}

	total := 0
	for _, h := range history {
		total += h.Frozen
	}
	avg := float64(total) / float64(len(history))

	if float64(stats.Frozen) > 2*avg {
		return &Bookmark{
			Type:        BookmarkFrozenSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d nodes froze, average %.1f", stats.Frozen, avg),
		}
	}
	return nil
}

// checkGrowthStall fires once when nothing has grown or been injected for
// several consecutive windows.
func (bd *BookmarkDetector) checkGrowthStall(stats WindowStats) *Bookmark {
	if stats.Grown > 0 || stats.Injected > 0 {
		bd.stalled = 0
		return nil
	}

	bd.stalled++
	if bd.stalled != stallWindows {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkGrowthStall,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("No growth for %d windows at %d nodes", stallWindows, stats.Nodes),
	}
}

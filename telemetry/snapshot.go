package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/growth/config"
	"github.com/pthm-cable/growth/growth"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is a point-in-time copy of a run's drawable state.
type Snapshot struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id"`
	Seed    int64  `json:"seed"`
	Tick    int    `json:"tick"`

	Config config.Config         `json:"config"`
	State  growth.State          `json:"state"`
	Motion [][]growth.NodeMotion `json:"motion,omitempty"` // Per node, parallel to State.Paths

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// NewSnapshot captures the simulation's current state.
func NewSnapshot(sim *growth.Simulation, runID string, seed int64) *Snapshot {
	return &Snapshot{
		Version: SnapshotVersion,
		RunID:   runID,
		Seed:    seed,
		Tick:    sim.TickCount(),
		Config:  sim.Config(),
		State:   sim.State(),
		Motion:  sim.Motion(),
	}
}

// SaveSnapshot writes a snapshot to dir and returns its path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		name += "_" + string(snapshot.Bookmark.Type)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snapshot.Version)
	}

	return &snapshot, nil
}

// Restore builds a simulation from the snapshot's configuration and paths,
// resuming the tick counter at the snapshot tick. Node velocities and frozen
// flags come from Motion when present; older snapshots without it restore
// every node at rest. The random source is not part of the snapshot.
func (s *Snapshot) Restore(opts ...growth.Option) (*growth.Simulation, error) {
	if s.Motion != nil && len(s.Motion) != len(s.State.Paths) {
		return nil, fmt.Errorf("restore: motion for %d paths, state has %d", len(s.Motion), len(s.State.Paths))
	}

	cfg := s.Config
	opts = append([]growth.Option{growth.WithTickCount(s.Tick)}, opts...)
	sim := growth.New(cfg.Settings.Width, cfg.Settings.Height, opts...)
	if err := sim.UpdateConfig(cfg); err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}

	if err := sim.RebuildBounds(); err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}

	for i, ps := range s.State.Paths {
		var motion []growth.NodeMotion
		if s.Motion != nil {
			motion = s.Motion[i]
		}
		p, err := growth.RestorePath(ps, motion)
		if err != nil {
			return nil, fmt.Errorf("restore path %d: %w", i, err)
		}
		sim.AddPath(p)
	}
	return sim, nil
}

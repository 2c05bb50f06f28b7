package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Fire cell codes used in FireState.Cells.
const (
	CellUnburnt uint8 = iota
	CellBurning
	CellBurnt
)

// Snapshot holds the sandbox state at one tick for offline inspection.
type Snapshot struct {
	Version int    `json:"version"`
	RNGSeed int64  `json:"rng_seed"`
	Tick    int64  `json:"tick"`
	State   string `json:"state"`

	Fire     *FireState     `json:"fire,omitempty"`
	Droplets []DropletState `json:"droplets,omitempty"`
	Wind     *WindState     `json:"wind,omitempty"`

	Event *Event `json:"event,omitempty"`
}

// FireState holds the fire grid. Cells is row-major, one code per cell.
type FireState struct {
	W         int     `json:"w"`
	H         int     `json:"h"`
	Seed      int64   `json:"seed"`
	Zoom      float32 `json:"zoom"`
	WindAngle float64 `json:"wind_angle"`
	WindSpeed float64 `json:"wind_speed"`
	Paused    bool    `json:"paused"`
	Cells     []uint8 `json:"cells"`
}

// Counts returns the number of burning and burnt cells.
func (fs *FireState) Counts() (burning, burnt int) {
	for _, c := range fs.Cells {
		switch c {
		case CellBurning:
			burning++
		case CellBurnt:
			burnt++
		}
	}
	return burning, burnt
}

// DropletState holds one droplet position.
type DropletState struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// WindState holds the wind controls and particle summary.
type WindState struct {
	Enabled         bool    `json:"enabled"`
	Coriolis        bool    `json:"coriolis"`
	Hemisphere      string  `json:"hemisphere"`
	SpeedMultiplier float32 `json:"speed_multiplier"`
	Particles       int     `json:"particles"`
	Polluted        int     `json:"polluted"`
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Event != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Event.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
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
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	if fs := snapshot.Fire; fs != nil && len(fs.Cells) != fs.W*fs.H {
		return nil, fmt.Errorf("fire cells: got %d, want %dx%d", len(fs.Cells), fs.W, fs.H)
	}
	return &snapshot, nil
}

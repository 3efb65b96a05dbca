package index

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mkravets/claimlens/internal/model"
)

// snapshotVersion guards against loading snapshots written by an
// incompatible build
const snapshotVersion = 1

type snapshot struct {
	Version   int             `json:"version"`
	Dimension int             `json:"dimension"`
	Vectors   [][]float32     `json:"vectors"`
	Passages  []model.Passage `json:"passages"`
}

// Save writes the index to path as a JSON snapshot
func (ix *Index) Save(path string) error {
	snap := snapshot{
		Version:   snapshotVersion,
		Dimension: ix.dimension,
		Vectors:   ix.vectors,
		Passages:  ix.passages,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads a JSON snapshot written by Save
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	if snap.Dimension <= 0 {
		return nil, fmt.Errorf("invalid snapshot dimension %d", snap.Dimension)
	}
	if len(snap.Vectors) != len(snap.Passages) {
		return nil, fmt.Errorf("snapshot vectors/passages length mismatch (%d vs %d)",
			len(snap.Vectors), len(snap.Passages))
	}

	return &Index{
		dimension: snap.Dimension,
		vectors:   snap.Vectors,
		passages:  snap.Passages,
	}, nil
}

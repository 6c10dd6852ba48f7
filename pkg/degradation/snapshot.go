package degradation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const snapshotVersion = 1

// snapshot is the on-disk representation of a Store.
// Coefficients round-trip exactly (shortest float64 representation).
type snapshot struct {
	Version int            `json:"version"`
	Models  []*FittedModel `json:"models"`
}

// Save writes all fitted models to path, creating parent directories.
func (s *Store) Save(path string) error {
	payload := snapshot{Version: snapshotVersion, Models: s.all()}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Load replaces the store content with the snapshot at path.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var payload snapshot
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("invalid model snapshot %s: %w", path, err)
	}
	if payload.Version != snapshotVersion {
		return fmt.Errorf("unsupported model snapshot version %d", payload.Version)
	}
	s.Restore(payload.Models)
	return nil
}

package degradation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
)

func Test_Snapshot_roundTrip(t *testing.T) {
	store := NewStore()
	laps := syntheticLaps(model.CompoundSoft, []int{1, 25}, 12, 92.0, 0.08, 0.03)
	if _, err := store.Fit(laps, "monza", model.CompoundSoft); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	laps = syntheticLaps(model.CompoundHard, []int{1, 25}, 12, 94.0, 0.03, 0.03)
	if _, err := store.Fit(laps, "spa", model.CompoundHard); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "models", "degradation.json")
	if err := store.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	restored := NewStore()
	if err := restored.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if diff := cmp.Diff(store.all(), restored.all()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	// predictions must be bit-identical after the round trip
	want, err := store.Predict("monza", model.CompoundSoft, 7, 98.6, nil)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	got, err := restored.Predict("monza", model.CompoundSoft, 7, 98.6, nil)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	assert.Equal(t, want, got)
}

func Test_Snapshot_rejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "degradation.json")
	payload := `{"version": 99, "models": []}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	store := NewStore()
	err := store.Load(path)
	assert.ErrorContains(t, err, "unsupported model snapshot version")
}

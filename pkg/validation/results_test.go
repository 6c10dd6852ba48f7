package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
)

func sampleResults() ([]Decision, *Summary) {
	rec := 22
	delta := 2
	details := []Decision{
		{
			Year: 2024, TrackID: "monza", DriverNumber: "44",
			ActualPitLap: 20, RecommendedPitLap: &rec, LapDelta: &delta,
			AlignmentWithin3: true,
			CurrentCompound:  model.CompoundSoft, NewCompound: model.CompoundHard,
			LapInStint: 20,
		},
		{
			Year: 2024, TrackID: "spa", DriverNumber: "16",
			ActualPitLap:    30,
			CurrentCompound: model.CompoundMedium, NewCompound: model.CompoundHard,
			LapInStint: 12, Error: true,
		},
	}
	return details, Summarize(details)
}

func Test_Results_roundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	details, summary := sampleResults()

	if err := SaveResults(dir, details, summary); err != nil {
		t.Fatalf("SaveResults() error = %v", err)
	}

	gotDetails, gotSummary, err := LoadResults(dir)
	if err != nil {
		t.Fatalf("LoadResults() error = %v", err)
	}

	if diff := cmp.Diff(details, gotDetails); diff != "" {
		t.Errorf("details mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, summary.TotalDecisions, gotSummary.TotalDecisions)
	assert.Equal(t, summary.CountWithin3, gotSummary.CountWithin3)
	assert.Equal(t, summary.CountErrors, gotSummary.CountErrors)
	// decimal values survive the text round trip exactly
	assert.True(t, summary.PctWithin3.Equal(gotSummary.PctWithin3),
		"pct mismatch: %s vs %s", summary.PctWithin3, gotSummary.PctWithin3)
	if gotSummary.MeanAbsLapDelta == nil {
		t.Fatal("expected a mean abs lap delta")
	}
	assert.True(t, summary.MeanAbsLapDelta.Equal(*gotSummary.MeanAbsLapDelta))
}

func Test_Results_undefinedMean(t *testing.T) {
	dir := t.TempDir()
	summary := &Summary{TotalDecisions: 1, CountErrors: 1}

	if err := SaveResults(dir, []Decision{}, summary); err != nil {
		t.Fatalf("SaveResults() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, SummaryFilename))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	assert.Contains(t, string(data), "mean_abs_lap_delta: n/a")

	_, gotSummary, err := LoadResults(dir)
	if err != nil {
		t.Fatalf("LoadResults() error = %v", err)
	}
	assert.Nil(t, gotSummary.MeanAbsLapDelta)
}

func Test_Results_summaryFormat(t *testing.T) {
	summary := &Summary{
		TotalDecisions: 3,
		CountWithin3:   2,
		PctWithin3:     decimal.RequireFromString("66.67"),
		CountErrors:    0,
	}
	mean := decimal.RequireFromString("1.5")
	summary.MeanAbsLapDelta = &mean

	got := formatSummary(summary)
	want := strings.Join([]string{
		"total_decisions: 3",
		"count_within_3: 2",
		"pct_within_3: 66.67",
		"mean_abs_lap_delta: 1.5",
		"count_errors: 0",
	}, "\n") + "\n"
	assert.Equal(t, want, got)
}

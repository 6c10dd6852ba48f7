package report

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/validation"
)

func Test_writeRun(t *testing.T) {
	runID := uuid.MustParse("3f1b2a44-9c1d-4a6e-8f2a-1b9c6d3e5a70")
	mean := decimal.RequireFromString("2")
	rec := 22
	delta := 2
	summary := &validation.Summary{
		TotalDecisions:  3,
		CountWithin3:    1,
		PctWithin3:      decimal.RequireFromString("50"),
		MeanAbsLapDelta: &mean,
		CountErrors:     1,
	}
	decisions := []validation.Decision{
		{
			Year: 2024, TrackID: "monza", DriverNumber: "44",
			ActualPitLap: 20, RecommendedPitLap: &rec, LapDelta: &delta,
			AlignmentWithin3: true,
			CurrentCompound:  model.CompoundSoft, NewCompound: model.CompoundHard,
			LapInStint: 20,
		},
		{
			Year: 2024, TrackID: "monza", DriverNumber: "16",
			ActualPitLap:    25,
			CurrentCompound: model.CompoundMedium, NewCompound: model.CompoundHard,
			LapInStint: 10,
		},
		{
			Year: 2024, TrackID: "spa", DriverNumber: "63",
			ActualPitLap:    30,
			CurrentCompound: model.CompoundMedium, NewCompound: model.CompoundHard,
			LapInStint: 12, Error: true,
		},
	}

	var buf strings.Builder
	writeRun(&buf, runID, summary, decisions)

	want := `Run:                 3f1b2a44-9c1d-4a6e-8f2a-1b9c6d3e5a70
Decisions evaluated: 3
Within 3 laps:       1 (50%)
Mean abs lap delta:  2
Errors:              1
  2024 monza #44: pitted lap 20, recommended lap 22 (delta +2)
  2024 monza #16: pitted lap 25, recommended stay out
  2024 spa #63: pitted lap 30, no recommendation (error)
`
	assert.Equal(t, want, buf.String())
}

func Test_writeRun_undefinedMean(t *testing.T) {
	summary := &validation.Summary{PctWithin3: decimal.Zero}

	var buf strings.Builder
	writeRun(&buf, uuid.New(), summary, nil)

	assert.Contains(t, buf.String(), "Mean abs lap delta:  n/a\n")
}

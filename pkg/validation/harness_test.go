package validation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/f1-pitstrategy-go/pkg/degradation"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/strategy"
)

// stubPredictor serves base + rate*lapInStint for fitted tracks and fails
// with ModelNotFittedError for everything else.
type stubPredictor struct {
	fittedTracks map[string]bool
	base         map[model.Compound]float64
	rate         map[model.Compound]float64
}

func (s *stubPredictor) Predict(
	trackID string,
	compound model.Compound,
	lapInStint int,
	_ float64,
	_ *float64,
) (degradation.Prediction, error) {
	if !s.fittedTracks[trackID] {
		return degradation.Prediction{},
			&degradation.ModelNotFittedError{Key: degradation.NewKey(trackID, compound)}
	}
	return degradation.Prediction{
		LapTime: s.base[compound] + s.rate[compound]*float64(lapInStint),
	}, nil
}

func (s *stubPredictor) DegradationRate(
	trackID string,
	compound model.Compound,
) (float64, error) {
	if !s.fittedTracks[trackID] {
		return 0, &degradation.ModelNotFittedError{
			Key: degradation.NewKey(trackID, compound),
		}
	}
	return s.rate[compound], nil
}

// raceWithStop builds a race where the driver pits at the end of pitLap
// after pitLap laps on softs.
func raceWithStop(trackID string, totalLaps, pitLap int) *model.Race {
	laps := make([]model.Lap, 0, totalLaps)
	for i := 1; i <= totalLaps; i++ {
		compound := model.CompoundSoft
		lapInStint := i
		if i > pitLap {
			compound = model.CompoundHard
			lapInStint = i - pitLap
		}
		laps = append(laps, model.Lap{
			DriverNumber: "1", LapNo: i, Compound: compound,
			LapInStint: lapInStint, LapTime: 90,
		})
	}
	return &model.Race{
		Year:      2024,
		TrackID:   trackID,
		TotalLaps: totalLaps,
		Laps:      laps,
		PitStops: []model.PitStop{
			{DriverNumber: "1", LapNo: pitLap, NewCompound: model.CompoundHard},
		},
	}
}

func newTestHarness(predictor strategy.LapTimePredictor) *Harness {
	optimizer := strategy.NewOptimizer(predictor,
		strategy.NewPitLossTable(strategy.WithDefaultPitLoss(20.0)))
	return NewHarness(optimizer)
}

func Test_Harness_alignedDecision(t *testing.T) {
	// worn softs degrade so fast that pitting immediately is always best,
	// so the recommendation matches the actual stop exactly
	predictor := &stubPredictor{
		fittedTracks: map[string]bool{"fantasy ring": true},
		base: map[model.Compound]float64{
			model.CompoundSoft: 90.0, model.CompoundHard: 90.0,
		},
		rate: map[model.Compound]float64{
			model.CompoundSoft: 5.0, model.CompoundHard: 0.0,
		},
	}
	harness := newTestHarness(predictor)

	details, summary := harness.Run(
		[]*model.Race{raceWithStop("fantasy ring", 50, 20)})

	if len(details) != 1 {
		t.Fatalf("Run() produced %d rows, want 1", len(details))
	}
	row := details[0]
	assert.False(t, row.Error)
	assert.Equal(t, 20, row.ActualPitLap)
	if row.RecommendedPitLap == nil || row.LapDelta == nil {
		t.Fatal("expected a pit recommendation")
	}
	assert.Equal(t, 20, *row.RecommendedPitLap)
	assert.Equal(t, 0, *row.LapDelta)
	assert.True(t, row.AlignmentWithin3)
	assert.Equal(t, model.CompoundSoft, row.CurrentCompound)
	assert.Equal(t, model.CompoundHard, row.NewCompound)
	assert.Equal(t, 20, row.LapInStint)

	assert.Equal(t, 1, summary.TotalDecisions)
	assert.Equal(t, 1, summary.CountWithin3)
	assert.Equal(t, 0, summary.CountErrors)
	assert.Equal(t, "100", summary.PctWithin3.String())
	if summary.MeanAbsLapDelta == nil {
		t.Fatal("expected a mean abs lap delta")
	}
	assert.Equal(t, "0", summary.MeanAbsLapDelta.String())
}

func Test_Harness_errorRowDowngrade(t *testing.T) {
	// only one of the two tracks has a fitted model; the other decision
	// becomes an error row and is excluded from the percentage
	predictor := &stubPredictor{
		fittedTracks: map[string]bool{"fantasy ring": true},
		base: map[model.Compound]float64{
			model.CompoundSoft: 90.0, model.CompoundHard: 90.0,
		},
		rate: map[model.Compound]float64{
			model.CompoundSoft: 5.0, model.CompoundHard: 0.0,
		},
	}
	harness := newTestHarness(predictor)

	details, summary := harness.Run([]*model.Race{
		raceWithStop("fantasy ring", 50, 20),
		raceWithStop("nowhere", 50, 25),
	})

	if len(details) != 2 {
		t.Fatalf("Run() produced %d rows, want 2", len(details))
	}
	assert.False(t, details[0].Error)
	assert.True(t, details[1].Error)
	assert.Nil(t, details[1].RecommendedPitLap)

	assert.Equal(t, 2, summary.TotalDecisions)
	assert.Equal(t, 1, summary.CountErrors)
	assert.Equal(t, 1, summary.CountWithin3)
	// percentage over the single valid row, not over all rows
	assert.Equal(t, "100", summary.PctWithin3.String())
}

func Test_Harness_stayOutRecommendation(t *testing.T) {
	// no degradation: staying out always beats paying the pit loss
	predictor := &stubPredictor{
		fittedTracks: map[string]bool{"fantasy ring": true},
		base: map[model.Compound]float64{
			model.CompoundSoft: 90.0, model.CompoundHard: 90.0,
		},
		rate: map[model.Compound]float64{},
	}
	harness := newTestHarness(predictor)

	details, summary := harness.Run(
		[]*model.Race{raceWithStop("fantasy ring", 50, 20)})

	row := details[0]
	assert.False(t, row.Error)
	assert.Nil(t, row.RecommendedPitLap)
	assert.Nil(t, row.LapDelta)
	assert.False(t, row.AlignmentWithin3)

	assert.Equal(t, 0, summary.CountWithin3)
	assert.Nil(t, summary.MeanAbsLapDelta)
	assert.Equal(t, "0", summary.PctWithin3.String())
}

func Test_Harness_pinnedRunID(t *testing.T) {
	predictor := &stubPredictor{fittedTracks: map[string]bool{}}
	optimizer := strategy.NewOptimizer(predictor,
		strategy.NewPitLossTable(strategy.WithDefaultPitLoss(20.0)))
	runID := uuid.MustParse("8d9e2a10-5c4b-4f3e-9a1d-7b6c5e4f3a20")

	harness := NewHarness(optimizer, WithRunID(runID))
	assert.Equal(t, runID, harness.RunID())
}

func Test_Summarize_empty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.TotalDecisions)
	assert.True(t, summary.PctWithin3.IsZero())
	assert.Nil(t, summary.MeanAbsLapDelta)
}

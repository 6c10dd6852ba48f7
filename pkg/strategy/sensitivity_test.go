package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
)

func sensitivityFixture() (*Optimizer, *Params) {
	predictor := &stubPredictor{
		base: map[model.Compound]float64{
			model.CompoundSoft: 90.0, model.CompoundHard: 90.0,
		},
		rate: map[model.Compound]float64{
			model.CompoundSoft: 0.4, model.CompoundHard: 0.4,
		},
	}
	o := NewOptimizer(predictor, NewPitLossTable(WithDefaultPitLoss(20.0)))
	p := defaultParams()
	p.TrackID = "unknown track"
	return o, p
}

func Test_SensitivityPitLoss(t *testing.T) {
	o, p := sensitivityFixture()

	sens, err := o.SensitivityPitLoss(p, DefaultPitLossDeltaSec)
	if err != nil {
		t.Fatalf("SensitivityPitLoss() error = %v", err)
	}
	assert.InDelta(t, 20.0, sens.BaseValue, 1e-9)
	assert.InDelta(t, DefaultPitLossDeltaSec, sens.Delta, 1e-9)
	if sens.BaseLap == nil {
		t.Fatal("expected a base pit recommendation")
	}
	assert.NotEmpty(t, sens.Message)

	// the perturbed runs must leave the optimizer's own table untouched
	assert.InDelta(t, 20.0, o.PitLossTable().PitLoss(p.TrackID), 1e-9)
}

func Test_SensitivityDegradation(t *testing.T) {
	o, p := sensitivityFixture()

	sens, err := o.SensitivityDegradation(p, DefaultDegradationDeltaPerLap)
	if err != nil {
		t.Fatalf("SensitivityDegradation() error = %v", err)
	}
	assert.InDelta(t, 0.4, sens.BaseValue, 1e-9)
	if sens.BaseLap == nil {
		t.Fatal("expected a base pit recommendation")
	}
	assert.NotEmpty(t, sens.Message)
}

func Test_VSC_reducedPitLoss(t *testing.T) {
	o, p := sensitivityFixture()

	whatIf, err := o.VSC(p)
	if err != nil {
		t.Fatalf("VSC() error = %v", err)
	}
	assert.InDelta(t, 20.0, whatIf.PitLossSec, 1e-9)
	assert.InDelta(t, 20.0*DefaultVSCPitLossFactor, whatIf.VSCPitLossSec, 1e-9)
	assert.NotEmpty(t, whatIf.Message)
}

func Test_RecommendationBundle(t *testing.T) {
	o, p := sensitivityFixture()

	bundle, err := o.RecommendationBundle(p)
	if err != nil {
		t.Fatalf("RecommendationBundle() error = %v", err)
	}
	assert.NotNil(t, bundle.Result)
	assert.NotNil(t, bundle.Explanation)
	assert.NotNil(t, bundle.PitLossSensitivity)
	assert.NotNil(t, bundle.DegradationSensitivity)
	assert.NotNil(t, bundle.VSC)

	rec := RecommendedPitLap(bundle.Result)
	if rec == nil || bundle.RecommendedLap == nil {
		t.Fatal("expected a pit recommendation")
	}
	assert.Equal(t, *rec, *bundle.RecommendedLap)
	if bundle.WindowMin == nil || bundle.WindowMax == nil {
		t.Fatal("expected a pit window range")
	}
	assert.LessOrEqual(t, *bundle.WindowMin, *bundle.RecommendedLap)
	assert.GreaterOrEqual(t, *bundle.WindowMax, *bundle.RecommendedLap)
}

func Test_RecommendationBundle_customDeltas(t *testing.T) {
	o, p := sensitivityFixture()

	bundle, err := o.RecommendationBundle(p,
		WithPitLossDelta(5.0),
		WithDegradationDelta(0.1),
		WithPitWindowWithin(100.0))
	if err != nil {
		t.Fatalf("RecommendationBundle() error = %v", err)
	}
	assert.InDelta(t, 5.0, bundle.PitLossSensitivity.Delta, 1e-9)
	assert.InDelta(t, 0.1, bundle.DegradationSensitivity.Delta, 1e-9)
	// a generous tolerance widens the window to the full candidate range
	if bundle.WindowMin == nil || bundle.WindowMax == nil {
		t.Fatal("expected a pit window range")
	}
	assert.Equal(t, p.CurrentLap, *bundle.WindowMin)
	assert.Equal(t, p.CurrentLap+p.WindowLaps, *bundle.WindowMax)
}

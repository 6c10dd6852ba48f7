package strategy

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
)

func explainFixture(t *testing.T) (*Result, *Optimizer, *Params) {
	t.Helper()
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
	res, err := o.OptimizePitWindow(p)
	if err != nil {
		t.Fatalf("OptimizePitWindow() error = %v", err)
	}
	return res, o, p
}

func Test_ExplainStrategy_breakEven(t *testing.T) {
	res, _, p := explainFixture(t)

	expl := ExplainStrategy(res, p.TrackID, p.CurrentCompound, 0.4, 20.0)
	// round(20.0 / 0.4) = 50
	assert.Contains(t, expl.BreakEven, "about 50 laps")
	assert.Contains(t, expl.BreakEven, "20.0s")
}

func Test_ExplainStrategy_noPositiveDegradation(t *testing.T) {
	res, _, p := explainFixture(t)

	expl := ExplainStrategy(res, p.TrackID, p.CurrentCompound, 0.0, 20.0)
	assert.Contains(t, expl.BreakEven, "no positive degradation")
}

func Test_ExplainStrategy_deterministic(t *testing.T) {
	res, _, p := explainFixture(t)

	first := ExplainStrategy(res, p.TrackID, p.CurrentCompound, 0.4, 20.0)
	second := ExplainStrategy(res, p.TrackID, p.CurrentCompound, 0.4, 20.0)
	assert.Equal(t, first, second)
}

func Test_ExplainStrategy_neighborCosts(t *testing.T) {
	res, _, p := explainFixture(t)
	best := res.Best()
	if best.StayOut {
		t.Fatal("fixture should recommend a pit stop")
	}

	expl := ExplainStrategy(res, p.TrackID, p.CurrentCompound, 0.4, 20.0)
	assert.Contains(t, expl.NextBest, best.Output())
	if res.ByPitLap(best.PitLap-1) != nil {
		assert.Contains(t, expl.CostEarlier,
			fmt.Sprintf("lap %d", best.PitLap-1))
	}
	if res.ByPitLap(best.PitLap+1) != nil {
		assert.Contains(t, expl.CostLater,
			fmt.Sprintf("lap %d", best.PitLap+1))
	}
	assert.Equal(t, expl.Summary,
		strings.Join([]string{
			expl.BreakEven, expl.NextBest, expl.CostEarlier, expl.CostLater,
		}, "\n"))
}

func Test_ExplainStrategy_stayOut(t *testing.T) {
	predictor := &stubPredictor{
		base: map[model.Compound]float64{
			model.CompoundSoft: 90.0, model.CompoundHard: 90.0,
		},
		rate: map[model.Compound]float64{},
	}
	o := NewOptimizer(predictor, NewPitLossTable())
	p := defaultParams()
	res, err := o.OptimizePitWindow(p)
	if err != nil {
		t.Fatalf("OptimizePitWindow() error = %v", err)
	}

	expl := ExplainStrategy(res, p.TrackID, p.CurrentCompound, 0.0, 22.5)
	assert.Contains(t, expl.Summary,
		"No pit lap within the evaluated window beats staying out.")
}

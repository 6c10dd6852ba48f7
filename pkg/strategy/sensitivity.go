package strategy

import (
	"fmt"

	"github.com/mpapenbr/f1-pitstrategy-go/pkg/degradation"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
)

// defaults for the what-if analyses
const (
	DefaultPitLossDeltaSec        = 2.0
	DefaultDegradationDeltaPerLap = 0.05
	DefaultPitWindowWithinSec     = 2.0
)

// Sensitivity reports how the recommendation shifts when one input is
// perturbed by ±Delta.
type Sensitivity struct {
	BaseValue float64 // unperturbed input value
	Delta     float64
	BaseLap   *int // nil means stay out
	PlusLap   *int
	MinusLap  *int
	Message   string
}

// SensitivityPitLoss reruns the optimization with pit loss ± deltaSec.
func (o *Optimizer) SensitivityPitLoss(p *Params, deltaSec float64) (*Sensitivity, error) {
	base := o.pitLoss.PitLoss(p.TrackID)

	resBase, err := o.OptimizePitWindow(p)
	if err != nil {
		return nil, err
	}
	plusOpt := NewOptimizer(o.predictor, o.pitLoss.Override(p.TrackID, base+deltaSec))
	resPlus, err := plusOpt.OptimizePitWindow(p)
	if err != nil {
		return nil, err
	}
	minusOpt := NewOptimizer(o.predictor, o.pitLoss.Override(p.TrackID, base-deltaSec))
	resMinus, err := minusOpt.OptimizePitWindow(p)
	if err != nil {
		return nil, err
	}

	ret := &Sensitivity{
		BaseValue: base,
		Delta:     deltaSec,
		BaseLap:   RecommendedPitLap(resBase),
		PlusLap:   RecommendedPitLap(resPlus),
		MinusLap:  RecommendedPitLap(resMinus),
	}
	ret.Message = fmt.Sprintf(
		"Pit loss ±%.1fs (base %.1fs): recommendation %s / +%.1fs: %s / -%.1fs: %s.",
		deltaSec, base, lapText(ret.BaseLap),
		deltaSec, lapText(ret.PlusLap),
		deltaSec, lapText(ret.MinusLap))
	return ret, nil
}

// rateShiftPredictor perturbs the degradation slope of one (track, compound)
// key; everything else is forwarded unchanged.
type rateShiftPredictor struct {
	inner    LapTimePredictor
	track    string
	compound model.Compound
	delta    float64 // seconds per lap added to the slope
}

func (r *rateShiftPredictor) Predict(
	trackID string,
	compound model.Compound,
	lapInStint int,
	fuelKg float64,
	trackTemp *float64,
) (degradation.Prediction, error) {
	pred, err := r.inner.Predict(trackID, compound, lapInStint, fuelKg, trackTemp)
	if err != nil {
		return degradation.Prediction{}, err
	}
	if degradation.NewKey(trackID, compound) == degradation.NewKey(r.track, r.compound) {
		pred.LapTime += r.delta * float64(lapInStint)
	}
	return pred, nil
}

func (r *rateShiftPredictor) DegradationRate(
	trackID string,
	compound model.Compound,
) (float64, error) {
	rate, err := r.inner.DegradationRate(trackID, compound)
	if err != nil {
		return 0, err
	}
	if degradation.NewKey(trackID, compound) == degradation.NewKey(r.track, r.compound) {
		rate += r.delta
	}
	return rate, nil
}

// SensitivityDegradation reruns the optimization with the current compound's
// degradation rate shifted by ± deltaSecPerLap.
func (o *Optimizer) SensitivityDegradation(
	p *Params,
	deltaSecPerLap float64,
) (*Sensitivity, error) {
	base, err := o.predictor.DegradationRate(p.TrackID, p.CurrentCompound)
	if err != nil {
		return nil, err
	}
	resBase, err := o.OptimizePitWindow(p)
	if err != nil {
		return nil, err
	}
	shifted := func(delta float64) (*Result, error) {
		shiftOpt := NewOptimizer(&rateShiftPredictor{
			inner:    o.predictor,
			track:    p.TrackID,
			compound: p.CurrentCompound,
			delta:    delta,
		}, o.pitLoss)
		return shiftOpt.OptimizePitWindow(p)
	}
	resPlus, err := shifted(deltaSecPerLap)
	if err != nil {
		return nil, err
	}
	resMinus, err := shifted(-deltaSecPerLap)
	if err != nil {
		return nil, err
	}

	ret := &Sensitivity{
		BaseValue: base,
		Delta:     deltaSecPerLap,
		BaseLap:   RecommendedPitLap(resBase),
		PlusLap:   RecommendedPitLap(resPlus),
		MinusLap:  RecommendedPitLap(resMinus),
	}
	ret.Message = fmt.Sprintf(
		"Degradation ±%.2fs/lap (base %.2fs/lap): recommendation %s / +%.2f: %s / -%.2f: %s.",
		deltaSecPerLap, base, lapText(ret.BaseLap),
		deltaSecPerLap, lapText(ret.PlusLap),
		deltaSecPerLap, lapText(ret.MinusLap))
	return ret, nil
}

// VSCWhatIf compares the recommendation under normal pit loss with the
// reduced "safety car in effect" pit loss. Illustrative only.
type VSCWhatIf struct {
	PitLossSec    float64
	VSCPitLossSec float64
	BaseLap       *int
	VSCLap        *int
	Message       string
}

func (o *Optimizer) VSC(p *Params) (*VSCWhatIf, error) {
	resBase, err := o.OptimizePitWindow(p)
	if err != nil {
		return nil, err
	}
	resVSC, err := o.OptimizePitWindowVSC(p)
	if err != nil {
		return nil, err
	}
	ret := &VSCWhatIf{
		PitLossSec:    o.pitLoss.PitLoss(p.TrackID),
		VSCPitLossSec: o.pitLoss.PitLossVSC(p.TrackID),
		BaseLap:       RecommendedPitLap(resBase),
		VSCLap:        RecommendedPitLap(resVSC),
	}
	ret.Message = fmt.Sprintf(
		"Under a safety car the pit loss drops from %.1fs to %.1fs: recommendation %s instead of %s.",
		ret.PitLossSec, ret.VSCPitLossSec, lapText(ret.VSCLap), lapText(ret.BaseLap))
	return ret, nil
}

// Bundle is the single-call recommendation block: ranked result, pit window
// range, rationale and the what-if messages.
type Bundle struct {
	Result                 *Result
	RecommendedLap         *int
	WindowMin              *int
	WindowMax              *int
	Explanation            *Explanation
	PitLossSensitivity     *Sensitivity
	DegradationSensitivity *Sensitivity
	VSC                    *VSCWhatIf
}

type bundleConfig struct {
	withinSec        float64
	pitLossDelta     float64
	degradationDelta float64
}

type BundleOption func(*bundleConfig)

func WithPitWindowWithin(sec float64) BundleOption {
	return func(c *bundleConfig) { c.withinSec = sec }
}

func WithPitLossDelta(sec float64) BundleOption {
	return func(c *bundleConfig) { c.pitLossDelta = sec }
}

func WithDegradationDelta(secPerLap float64) BundleOption {
	return func(c *bundleConfig) { c.degradationDelta = secPerLap }
}

// RecommendationBundle computes everything a caller needs for one decision
// point in one call.
func (o *Optimizer) RecommendationBundle(p *Params, opts ...BundleOption) (*Bundle, error) {
	cfg := &bundleConfig{
		withinSec:        DefaultPitWindowWithinSec,
		pitLossDelta:     DefaultPitLossDeltaSec,
		degradationDelta: DefaultDegradationDeltaPerLap,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	res, err := o.OptimizePitWindow(p)
	if err != nil {
		return nil, err
	}
	degRate, err := o.predictor.DegradationRate(p.TrackID, p.CurrentCompound)
	if err != nil {
		return nil, err
	}
	ret := &Bundle{
		Result:         res,
		RecommendedLap: RecommendedPitLap(res),
		Explanation: ExplainStrategy(res, p.TrackID, p.CurrentCompound,
			degRate, o.pitLoss.PitLoss(p.TrackID)),
	}
	ret.WindowMin, ret.WindowMax = PitWindowRange(res, cfg.withinSec)

	if ret.PitLossSensitivity, err = o.SensitivityPitLoss(p, cfg.pitLossDelta); err != nil {
		return nil, err
	}
	if ret.DegradationSensitivity, err = o.SensitivityDegradation(p,
		cfg.degradationDelta); err != nil {
		return nil, err
	}
	if ret.VSC, err = o.VSC(p); err != nil {
		return nil, err
	}
	return ret, nil
}

func lapText(lap *int) string {
	if lap == nil {
		return "stay out"
	}
	return fmt.Sprintf("lap %d", *lap)
}

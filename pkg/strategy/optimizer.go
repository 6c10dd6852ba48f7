package strategy

import (
	"fmt"
	"sort"

	"github.com/mpapenbr/f1-pitstrategy-go/log"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/degradation"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
)

// DefaultWindowLaps is the number of future pit laps evaluated in addition
// to the current lap.
const DefaultWindowLaps = 10

// LapTimePredictor serves lap time predictions and degradation rates.
// *degradation.Store satisfies this.
type LapTimePredictor interface {
	Predict(trackID string, compound model.Compound, lapInStint int,
		fuelKg float64, trackTemp *float64) (degradation.Prediction, error)
	DegradationRate(trackID string, compound model.Compound) (float64, error)
}

// Params describe one decision point.
type Params struct {
	CurrentLap      int            // race lap about to be started (1-based)
	CurrentCompound model.Compound // compound currently on the car
	LapInStint      int            // laps on the current tire set (1-based)
	TotalRaceLaps   int
	TrackID         string
	NewCompound     model.Compound // compound fitted at the stop
	WindowLaps      int            // future pit laps to evaluate
	InitialFuelKg   float64        // fuel at start of lap 1, 0 means default
	FuelPerLapKg    float64        // consumption per lap, 0 means default
	TrackTemp       *float64
}

func (p *Params) validate() error {
	if p.TotalRaceLaps < 1 {
		return invalidRaceState("total race laps %d < 1", p.TotalRaceLaps)
	}
	if p.CurrentLap < 1 || p.CurrentLap > p.TotalRaceLaps {
		return invalidRaceState("current lap %d outside [1,%d]",
			p.CurrentLap, p.TotalRaceLaps)
	}
	if p.LapInStint < 1 {
		return invalidRaceState("lap in stint %d < 1", p.LapInStint)
	}
	if p.WindowLaps < 0 {
		return invalidRaceState("window laps %d < 0", p.WindowLaps)
	}
	if !p.CurrentCompound.Valid() {
		return invalidRaceState("invalid current compound %q", p.CurrentCompound)
	}
	if !p.NewCompound.Valid() {
		return invalidRaceState("invalid new compound %q", p.NewCompound)
	}
	if p.FuelPerLapKg < 0 {
		return invalidRaceState("fuel per lap %.2f < 0", p.FuelPerLapKg)
	}
	return nil
}

func (p *Params) fuelModel() (initial, perLap float64) {
	initial, perLap = p.InitialFuelKg, p.FuelPerLapKg
	if initial == 0 {
		initial = model.DefaultInitialFuelKg
	}
	if perLap == 0 {
		perLap = model.DefaultFuelPerLapKg
	}
	return initial, perLap
}

// Candidate is one simulated outcome: pit on PitLap, or stay out for the
// rest of the evaluation. Ephemeral, owned by its Result.
type Candidate struct {
	StayOut       bool
	PitLap        int // valid only when StayOut is false
	CompoundAfter model.Compound
	TotalTime     float64 // projected seconds from current lap to race end
	Rank          int     // 1 is the recommendation
	DeltaToBest   float64 // seconds behind the rank 1 candidate
}

func (c Candidate) Output() string {
	if c.StayOut {
		return fmt.Sprintf("stay out (%.2fs)", c.TotalTime)
	}
	return fmt.Sprintf("pit on lap %d for %s (%.2fs)",
		c.PitLap, c.CompoundAfter, c.TotalTime)
}

// effectiveLap orders candidates on equal time: earliest pit lap first,
// stay out last. Used for tie-breaking only.
func (c Candidate) effectiveLap(totalRaceLaps int) int {
	if c.StayOut {
		return totalRaceLaps + 1
	}
	return c.PitLap
}

// Result is the ranked candidate list for one decision point.
type Result struct {
	TrackID       string
	TotalRaceLaps int
	Candidates    []Candidate // ascending by total time
}

func (r *Result) Best() *Candidate {
	if len(r.Candidates) == 0 {
		return nil
	}
	return &r.Candidates[0]
}

// ByPitLap returns the candidate pitting on the given lap, if evaluated.
func (r *Result) ByPitLap(lap int) *Candidate {
	for i := range r.Candidates {
		if !r.Candidates[i].StayOut && r.Candidates[i].PitLap == lap {
			return &r.Candidates[i]
		}
	}
	return nil
}

// RecommendedPitLap returns the pit lap of the rank 1 candidate,
// or nil when the recommendation is to stay out.
func RecommendedPitLap(r *Result) *int {
	best := r.Best()
	if best == nil || best.StayOut {
		return nil
	}
	lap := best.PitLap
	return &lap
}

// PitWindowRange returns the smallest and largest pit lap among candidates
// within withinSec of the best. (nil, nil) when the best is stay out or no
// pit candidate qualifies.
func PitWindowRange(r *Result, withinSec float64) (minLap, maxLap *int) {
	best := r.Best()
	if best == nil || best.StayOut {
		return nil, nil
	}
	for i := range r.Candidates {
		c := &r.Candidates[i]
		if c.StayOut || c.DeltaToBest > withinSec {
			continue
		}
		if minLap == nil || c.PitLap < *minLap {
			lap := c.PitLap
			minLap = &lap
		}
		if maxLap == nil || c.PitLap > *maxLap {
			lap := c.PitLap
			maxLap = &lap
		}
	}
	return minLap, maxLap
}

// Optimizer enumerates and ranks candidate pit laps. It holds no mutable
// state; OptimizePitWindow is a pure function of its inputs plus model and
// table lookups.
type Optimizer struct {
	predictor LapTimePredictor
	pitLoss   *PitLossTable
	l         *log.Logger
}

func NewOptimizer(predictor LapTimePredictor, pitLoss *PitLossTable) *Optimizer {
	return &Optimizer{
		predictor: predictor,
		pitLoss:   pitLoss,
		l:         log.Default().Named("optimizer"),
	}
}

// PitLossTable returns the table the optimizer was built with.
func (o *Optimizer) PitLossTable() *PitLossTable {
	return o.pitLoss
}

// OptimizePitWindow ranks pitting on each lap of the window against staying
// out. Candidates are ordered ascending by projected total time; ties go to
// the earliest pit lap, stay out last.
func (o *Optimizer) OptimizePitWindow(p *Params) (*Result, error) {
	return o.optimize(p, o.pitLoss.PitLoss(p.TrackID))
}

// OptimizePitWindowVSC is the "safety car in effect" what-if with the
// reduced pit loss.
func (o *Optimizer) OptimizePitWindowVSC(p *Params) (*Result, error) {
	return o.optimize(p, o.pitLoss.PitLossVSC(p.TrackID))
}

func (o *Optimizer) optimize(p *Params, pitLossSec float64) (*Result, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, p.WindowLaps+2)

	// stay out: current compound to the end, no pit loss
	stayOutTime, err := o.projectStint(p, p.CurrentCompound,
		p.CurrentLap, p.TotalRaceLaps, p.LapInStint)
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, Candidate{
		StayOut:       true,
		CompoundAfter: p.CurrentCompound,
		TotalTime:     stayOutTime,
	})

	maxPitLap := min(p.CurrentLap+p.WindowLaps, p.TotalRaceLaps)
	for pitLap := p.CurrentLap; pitLap <= maxPitLap; pitLap++ {
		timeCurrent, err := o.projectStint(p, p.CurrentCompound,
			p.CurrentLap, pitLap, p.LapInStint)
		if err != nil {
			return nil, err
		}
		timeNew := 0.0
		if pitLap < p.TotalRaceLaps {
			// lap in stint restarts at 1, fuel keeps its linear schedule
			if timeNew, err = o.projectStint(p, p.NewCompound,
				pitLap+1, p.TotalRaceLaps, 1); err != nil {
				return nil, err
			}
		}
		candidates = append(candidates, Candidate{
			PitLap:        pitLap,
			CompoundAfter: p.NewCompound,
			TotalTime:     timeCurrent + pitLossSec + timeNew,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].TotalTime != candidates[j].TotalTime {
			return candidates[i].TotalTime < candidates[j].TotalTime
		}
		return candidates[i].effectiveLap(p.TotalRaceLaps) <
			candidates[j].effectiveLap(p.TotalRaceLaps)
	})
	best := candidates[0].TotalTime
	for i := range candidates {
		candidates[i].Rank = i + 1
		candidates[i].DeltaToBest = candidates[i].TotalTime - best
	}
	ret := &Result{
		TrackID:       p.TrackID,
		TotalRaceLaps: p.TotalRaceLaps,
		Candidates:    candidates,
	}
	o.l.Debug("optimized pit window",
		log.String("track", p.TrackID),
		log.Int("currentLap", p.CurrentLap),
		log.Int("candidates", len(candidates)),
		log.String("best", candidates[0].Output()))
	return ret, nil
}

// projectStint sums predicted lap times for laps lapStart..lapEnd inclusive.
// stintLapStart is the lap-in-stint of lapStart.
func (o *Optimizer) projectStint(
	p *Params,
	compound model.Compound,
	lapStart, lapEnd, stintLapStart int,
) (float64, error) {
	initial, perLap := p.fuelModel()
	total := 0.0
	for lap := lapStart; lap <= lapEnd; lap++ {
		pred, err := o.predictor.Predict(p.TrackID, compound,
			stintLapStart+(lap-lapStart), fuelAtLap(initial, perLap, lap),
			p.TrackTemp)
		if err != nil {
			return 0, err
		}
		total += pred.LapTime
	}
	return total, nil
}

// fuelAtLap is the estimated fuel at the start of the given race lap.
// One linear schedule for the whole race, no reset at a pit stop.
func fuelAtLap(initial, perLap float64, lap int) float64 {
	fuel := initial - float64(lap-1)*perLap
	if fuel < model.MinFuelKg {
		return model.MinFuelKg
	}
	return fuel
}

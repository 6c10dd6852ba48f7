package strategy

import (
	"fmt"
	"math"
	"strings"

	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
)

// Explanation is the rule-based rationale for one optimization result.
// Built from already computed values only; deterministic for equal inputs.
type Explanation struct {
	BreakEven   string // when degradation overtakes the pit loss
	NextBest    string // recommendation vs the next best candidate
	CostEarlier string // cost of pitting one lap earlier than recommended
	CostLater   string // cost of pitting one lap later than recommended
	Summary     string
}

// ExplainStrategy derives the rationale from the ranked result, the
// degradation rate of the current compound and the pit loss in effect.
// No new simulation is run.
//
//nolint:funlen // mostly text assembly
func ExplainStrategy(
	res *Result,
	trackID string,
	currentCompound model.Compound,
	degradationRate float64,
	pitLossSec float64,
) *Explanation {
	ret := &Explanation{}

	if degradationRate > 0 {
		breakEven := int(math.Round(pitLossSec / degradationRate))
		ret.BreakEven = fmt.Sprintf(
			"Pit loss at %s is %.1fs; %s degrades at %.2fs per lap, "+
				"so after about %d laps the accumulated degradation exceeds the cost of a stop.",
			trackID, pitLossSec, currentCompound, degradationRate, breakEven)
	} else {
		ret.BreakEven = fmt.Sprintf(
			"Pit loss at %s is %.1fs; %s shows no positive degradation in the model, "+
				"so there is no lap count at which staying out pays for a stop.",
			trackID, pitLossSec, currentCompound)
	}

	best := res.Best()
	if best == nil {
		ret.Summary = ret.BreakEven
		return ret
	}
	if len(res.Candidates) > 1 {
		second := res.Candidates[1]
		ret.NextBest = fmt.Sprintf("Recommended: %s. Next best: %s, %.2fs slower.",
			best.Output(), second.Output(), second.DeltaToBest)
	} else {
		ret.NextBest = fmt.Sprintf("Recommended: %s. No alternative was evaluated.",
			best.Output())
	}

	if best.StayOut {
		ret.Summary = strings.Join([]string{
			ret.BreakEven,
			ret.NextBest,
			"No pit lap within the evaluated window beats staying out.",
		}, "\n")
		return ret
	}

	if earlier := res.ByPitLap(best.PitLap - 1); earlier != nil {
		ret.CostEarlier = fmt.Sprintf(
			"Pitting one lap earlier (lap %d) costs %.2fs.",
			earlier.PitLap, earlier.DeltaToBest)
	}
	if later := res.ByPitLap(best.PitLap + 1); later != nil {
		ret.CostLater = fmt.Sprintf(
			"Pitting one lap later (lap %d) costs %.2fs.",
			later.PitLap, later.DeltaToBest)
	}

	parts := []string{ret.BreakEven, ret.NextBest}
	if ret.CostEarlier != "" {
		parts = append(parts, ret.CostEarlier)
	}
	if ret.CostLater != "" {
		parts = append(parts, ret.CostLater)
	}
	ret.Summary = strings.Join(parts, "\n")
	return ret
}

package validation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/f1-pitstrategy-go/log"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/strategy"
)

// AlignmentWindowLaps: a recommendation within this many laps of the actual
// pit lap counts as aligned.
const AlignmentWindowLaps = 3

// Decision is one validated historical pit decision. Write-once.
//
//nolint:lll // column definitions
type Decision struct {
	Year              int            `csv:"year" json:"year"`
	TrackID           string         `csv:"track_id" json:"trackId"`
	DriverNumber      string         `csv:"driver_number" json:"driverNumber"`
	ActualPitLap      int            `csv:"actual_pit_lap" json:"actualPitLap"`
	RecommendedPitLap *int           `csv:"recommended_pit_lap" json:"recommendedPitLap"` // nil: stay out or error
	LapDelta          *int           `csv:"lap_delta" json:"lapDelta"`                    // recommended - actual
	AlignmentWithin3  bool           `csv:"alignment_within_3" json:"alignmentWithin3"`
	CurrentCompound   model.Compound `csv:"current_compound" json:"currentCompound"`
	NewCompound       model.Compound `csv:"new_compound" json:"newCompound"`
	LapInStint        int            `csv:"lap_in_stint" json:"lapInStint"`
	Error             bool           `csv:"error" json:"error"` // metrics undefined when set
}

// Summary aggregates one validation run.
// pct_within_3 counts only decisions with a defined alignment value
// (error rows excluded).
type Summary struct {
	TotalDecisions  int
	CountWithin3    int
	PctWithin3      decimal.Decimal
	MeanAbsLapDelta *decimal.Decimal // nil when no decision has a defined delta
	CountErrors     int
}

// Harness replays the optimizer at historical pit decisions against an
// already fitted, read-only model. A failing decision becomes an error row;
// the run always completes.
type Harness struct {
	optimizer     *strategy.Optimizer
	runID         uuid.UUID
	windowLaps    int
	initialFuelKg float64
	fuelPerLapKg  float64
	l             *log.Logger
}

type Option func(*Harness)

func WithWindowLaps(arg int) Option {
	return func(h *Harness) { h.windowLaps = arg }
}

func WithFuelModel(initialFuelKg, fuelPerLapKg float64) Option {
	return func(h *Harness) {
		h.initialFuelKg = initialFuelKg
		h.fuelPerLapKg = fuelPerLapKg
	}
}

func WithRunID(id uuid.UUID) Option {
	return func(h *Harness) { h.runID = id }
}

func NewHarness(optimizer *strategy.Optimizer, opts ...Option) *Harness {
	ret := &Harness{
		optimizer:     optimizer,
		runID:         uuid.New(),
		windowLaps:    strategy.DefaultWindowLaps,
		initialFuelKg: model.DefaultInitialFuelKg,
		fuelPerLapKg:  model.DefaultFuelPerLapKg,
		l:             log.Default().Named("validation"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// RunID identifies this harness run (used when persisting to a database).
func (h *Harness) RunID() uuid.UUID {
	return h.runID
}

// Run validates every pit decision of every race and aggregates a summary.
func (h *Harness) Run(races []*model.Race) ([]Decision, *Summary) {
	details := make([]Decision, 0)
	for _, race := range races {
		details = append(details, h.validateRace(race)...)
	}
	summary := Summarize(details)
	h.l.Info("validation run done",
		log.String("runId", h.runID.String()),
		log.Int("decisions", summary.TotalDecisions),
		log.Int("within3", summary.CountWithin3),
		log.Int("errors", summary.CountErrors))
	return details, summary
}

func (h *Harness) validateRace(race *model.Race) []Decision {
	rows := make([]Decision, 0, len(race.PitStops))
	for _, pit := range race.PitStops {
		rows = append(rows, h.validateDecision(race, &pit))
	}
	return rows
}

//nolint:gocritic // pit is read-only
func (h *Harness) validateDecision(race *model.Race, pit *model.PitStop) Decision {
	row := Decision{
		Year:         race.Year,
		TrackID:      race.TrackID,
		DriverNumber: pit.DriverNumber,
		ActualPitLap: pit.LapNo,
		NewCompound:  pit.NewCompound,
	}

	// decision point = start of the actual pit lap
	row.CurrentCompound = pit.NewCompound // fallback when the lap is missing
	row.LapInStint = 1
	if lap := findLap(race.Laps, pit.DriverNumber, pit.LapNo); lap != nil {
		if lap.Compound.Valid() {
			row.CurrentCompound = lap.Compound
		}
		if lap.LapInStint >= 1 {
			row.LapInStint = lap.LapInStint
		}
	}

	res, err := h.optimizer.OptimizePitWindow(&strategy.Params{
		CurrentLap:      pit.LapNo,
		CurrentCompound: row.CurrentCompound,
		LapInStint:      row.LapInStint,
		TotalRaceLaps:   race.TotalLaps,
		TrackID:         race.TrackID,
		NewCompound:     pit.NewCompound,
		WindowLaps:      h.windowLaps,
		InitialFuelKg:   h.initialFuelKg,
		FuelPerLapKg:    h.fuelPerLapKg,
	})
	if err != nil {
		h.l.Warn("decision failed",
			log.Int("year", race.Year),
			log.String("track", race.TrackID),
			log.String("driver", pit.DriverNumber),
			log.Int("lap", pit.LapNo),
			log.ErrorField(err))
		row.Error = true
		return row
	}

	if rec := strategy.RecommendedPitLap(res); rec != nil {
		row.RecommendedPitLap = rec
		delta := *rec - pit.LapNo
		row.LapDelta = &delta
		row.AlignmentWithin3 = abs(delta) <= AlignmentWindowLaps
	}
	// stay out recommendation: delta undefined, not aligned (they pitted)
	return row
}

// Summarize computes the aggregate metrics over the given rows.
func Summarize(details []Decision) *Summary {
	ret := &Summary{TotalDecisions: len(details)}
	validRows := 0
	deltaSum := 0
	deltaCount := 0
	for i := range details {
		row := &details[i]
		if row.Error {
			ret.CountErrors++
			continue
		}
		validRows++
		if row.AlignmentWithin3 {
			ret.CountWithin3++
		}
		if row.LapDelta != nil {
			deltaSum += abs(*row.LapDelta)
			deltaCount++
		}
	}
	if validRows > 0 {
		ret.PctWithin3 = decimal.NewFromInt(int64(100 * ret.CountWithin3)).
			Div(decimal.NewFromInt(int64(validRows))).Round(2)
	}
	if deltaCount > 0 {
		mean := decimal.NewFromInt(int64(deltaSum)).
			Div(decimal.NewFromInt(int64(deltaCount))).Round(2)
		ret.MeanAbsLapDelta = &mean
	}
	return ret
}

func findLap(laps []model.Lap, driver string, lapNo int) *model.Lap {
	for i := range laps {
		if laps[i].DriverNumber == driver && laps[i].LapNo == lapNo {
			return &laps[i]
		}
	}
	return nil
}

func abs(arg int) int {
	if arg < 0 {
		return -arg
	}
	return arg
}

package ingest

import (
	"sort"

	"github.com/samber/lo"

	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
)

// AddStintFeatures returns a copy of laps with StintID and LapInStint
// derived from the pit stops. A pit stop on lap L closes the stint with
// lap L (the in-lap); lap L+1 is the first lap of the next stint.
func AddStintFeatures(laps []model.Lap, pitStops []model.PitStop) []model.Lap {
	pitLapsByDriver := map[string][]int{}
	for _, p := range pitStops {
		pitLapsByDriver[p.DriverNumber] = append(pitLapsByDriver[p.DriverNumber], p.LapNo)
	}
	for _, pits := range pitLapsByDriver {
		sort.Ints(pits)
	}

	ret := make([]model.Lap, len(laps))
	copy(ret, laps)
	for i := range ret {
		lap := &ret[i]
		pits := pitLapsByDriver[lap.DriverNumber]
		stint := 1
		stintStart := 1
		for _, pitLap := range pits {
			if pitLap < lap.LapNo {
				stint++
				stintStart = pitLap + 1
			}
		}
		lap.StintID = stint
		lap.LapInStint = lap.LapNo - stintStart + 1
	}
	return ret
}

// AddFuelEstimate returns a copy of laps with FuelKg set from the linear
// consumption schedule: fuel at start of lap N is
// initial - (N-1)*perLap, clamped at zero. No refuelling.
func AddFuelEstimate(laps []model.Lap, initialFuelKg, fuelPerLapKg float64) []model.Lap {
	return lo.Map(laps, func(l model.Lap, _ int) model.Lap {
		fuel := initialFuelKg - float64(l.LapNo-1)*fuelPerLapKg
		if fuel < model.MinFuelKg {
			fuel = model.MinFuelKg
		}
		l.FuelKg = fuel
		return l
	})
}

// PrepareRace applies both feature passes and fills TotalLaps when the
// fixture does not carry it.
func PrepareRace(race *model.Race, initialFuelKg, fuelPerLapKg float64) *model.Race {
	ret := *race
	ret.Laps = AddFuelEstimate(
		AddStintFeatures(race.Laps, race.PitStops),
		initialFuelKg, fuelPerLapKg)
	if ret.TotalLaps == 0 {
		for _, l := range ret.Laps {
			if l.LapNo > ret.TotalLaps {
				ret.TotalLaps = l.LapNo
			}
		}
	}
	return &ret
}

package model

// default fuel model: linear decay, no refuelling
const (
	DefaultInitialFuelKg = 110.0
	DefaultFuelPerLapKg  = 1.8
	MinFuelKg            = 0.0
)

// Lap is one observed (or projected) lap of a single car.
// Immutable once constructed.
//
//nolint:lll // readability
type Lap struct {
	DriverNumber string   `json:"driverNumber"`
	LapNo        int      `json:"lapNo"`                // absolute race lap (1-based)
	StintID      int      `json:"stintId,omitempty"`    // 1-based stint index, derived
	LapInStint   int      `json:"lapInStint,omitempty"` // 1-based lap on current tire set, derived
	Compound     Compound `json:"compound"`
	LapTime      float64  `json:"lapTime"`          // seconds
	FuelKg       float64  `json:"fuelKg,omitempty"` // estimated fuel at lap start, derived
	TrackTemp    *float64 `json:"trackTemp,omitempty"`
}

// PitStop is one historical pit event: the car pitted at the end of LapNo
// and left the pits on NewCompound.
type PitStop struct {
	DriverNumber string   `json:"driverNumber"`
	LapNo        int      `json:"lapNo"`
	NewCompound  Compound `json:"newCompound"`
}

type Weather struct {
	AirTemp   float64 `json:"airTemp"`
	TrackTemp float64 `json:"trackTemp"`
	Rainfall  bool    `json:"rainfall"`
}

// Race bundles the externally loaded data of one dry race.
type Race struct {
	Year      int       `json:"year"`
	TrackID   string    `json:"trackId"`
	TotalLaps int       `json:"totalLaps"`
	Laps      []Lap     `json:"laps"`
	PitStops  []PitStop `json:"pitStops"`
	Weather   []Weather `json:"weather,omitempty"`
}

package degradation

import (
	"strings"

	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
)

// Key identifies one fitted model.
type Key struct {
	Track    string         `json:"track"`
	Compound model.Compound `json:"compound"`
}

// NewKey normalizes the track id (trim, lowercase) so lookups are
// case-insensitive.
func NewKey(trackID string, compound model.Compound) Key {
	return Key{
		Track:    strings.ToLower(strings.TrimSpace(trackID)),
		Compound: compound,
	}
}

// Coefficients of the linear lap time model. Units: seconds per unit of the
// feature (LapInStint: s/lap, FuelKg: s/kg, TrackTemp: s/°C).
type Coefficients struct {
	Intercept  float64 `json:"intercept"`
	LapInStint float64 `json:"lapInStint"`
	FuelKg     float64 `json:"fuelKg"`
	TrackTemp  float64 `json:"trackTemp,omitempty"`
}

// FittedModel is one fitted linear degradation model. Never mutated after
// creation; refitting the same key produces a new FittedModel.
type FittedModel struct {
	Key           Key          `json:"key"`
	Coef          Coefficients `json:"coef"`
	HasTrackTemp  bool         `json:"hasTrackTemp"`
	MeanTrackTemp float64      `json:"meanTrackTemp,omitempty"` // training mean, substitution value
	Samples       int          `json:"samples"`
}

// Prediction is the outcome of a single lap time prediction.
type Prediction struct {
	LapTime float64 // seconds
	// the model was fitted with track temperature but no value was
	// supplied, so the training mean was substituted
	UsedMeanTrackTemp bool
}

func (m *FittedModel) predict(lapInStint int, fuelKg float64, trackTemp *float64) Prediction {
	ret := Prediction{
		LapTime: m.Coef.Intercept +
			m.Coef.LapInStint*float64(lapInStint) +
			m.Coef.FuelKg*fuelKg,
	}
	if m.HasTrackTemp {
		temp := m.MeanTrackTemp
		if trackTemp != nil {
			temp = *trackTemp
		} else {
			ret.UsedMeanTrackTemp = true
		}
		ret.LapTime += m.Coef.TrackTemp * temp
	}
	return ret
}

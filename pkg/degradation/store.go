package degradation

import (
	"sort"
	"sync"

	"github.com/mpapenbr/f1-pitstrategy-go/log"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
)

// Store maps (track, compound) keys to fitted degradation models.
// At most one model per key; fitting replaces any prior entry.
// Reads are safe for concurrent use once fitting is done.
type Store struct {
	mu     sync.RWMutex
	models map[Key]*FittedModel
	l      *log.Logger
}

func NewStore() *Store {
	return &Store{
		models: make(map[Key]*FittedModel),
		l:      log.Default().Named("degradation"),
	}
}

// Fit fits a linear lap time model for (trackID, compound) from the given
// laps and stores it under that key, replacing any prior entry.
func (s *Store) Fit(
	laps []model.Lap,
	trackID string,
	compound model.Compound,
	opts ...FitOption,
) (*FittedModel, error) {
	cfg := &fitConfig{minSamples: DefaultMinSamples}
	for _, opt := range opts {
		opt(cfg)
	}
	key := NewKey(trackID, compound)
	fitted, err := fitModel(key, laps, cfg.minSamples)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.models[key] = fitted
	s.mu.Unlock()
	s.l.Debug("fitted model",
		log.String("track", key.Track),
		log.String("compound", string(key.Compound)),
		log.Int("samples", fitted.Samples),
		log.Float64("degradationRate", fitted.Coef.LapInStint))
	return fitted, nil
}

// Model returns the fitted model for (trackID, compound).
func (s *Store) Model(trackID string, compound model.Compound) (*FittedModel, error) {
	key := NewKey(trackID, compound)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.models[key]; ok {
		return m, nil
	}
	return nil, &ModelNotFittedError{Key: key}
}

// Predict returns the predicted lap time for the given inputs.
// trackTemp may be nil; see Prediction.UsedMeanTrackTemp.
func (s *Store) Predict(
	trackID string,
	compound model.Compound,
	lapInStint int,
	fuelKg float64,
	trackTemp *float64,
) (Prediction, error) {
	m, err := s.Model(trackID, compound)
	if err != nil {
		return Prediction{}, err
	}
	return m.predict(lapInStint, fuelKg, trackTemp), nil
}

// DegradationRate returns the lap-in-stint coefficient in seconds per lap.
func (s *Store) DegradationRate(trackID string, compound model.Compound) (float64, error) {
	m, err := s.Model(trackID, compound)
	if err != nil {
		return 0, err
	}
	return m.Coef.LapInStint, nil
}

// Keys returns the fitted keys, sorted by track then compound.
func (s *Store) Keys() []Key {
	s.mu.RLock()
	ret := make([]Key, 0, len(s.models))
	for k := range s.models {
		ret = append(ret, k)
	}
	s.mu.RUnlock()
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].Track != ret[j].Track {
			return ret[i].Track < ret[j].Track
		}
		return ret[i].Compound < ret[j].Compound
	})
	return ret
}

// Remove deletes the model for (trackID, compound) if present.
func (s *Store) Remove(trackID string, compound model.Compound) {
	key := NewKey(trackID, compound)
	s.mu.Lock()
	delete(s.models, key)
	s.mu.Unlock()
}

// Reset removes all models.
func (s *Store) Reset() {
	s.mu.Lock()
	s.models = make(map[Key]*FittedModel)
	s.mu.Unlock()
}

// Restore replaces the store content with the given models
// (used by snapshot and database loading).
func (s *Store) Restore(models []*FittedModel) {
	s.mu.Lock()
	s.models = make(map[Key]*FittedModel, len(models))
	for _, m := range models {
		s.models[m.Key] = m
	}
	s.mu.Unlock()
}

func (s *Store) all() []*FittedModel {
	keys := s.Keys()
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make([]*FittedModel, 0, len(keys))
	for _, k := range keys {
		ret = append(ret, s.models[k])
	}
	return ret
}

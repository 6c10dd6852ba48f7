package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mpapenbr/f1-pitstrategy-go/log"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
)

// RaceLoader is the race loading contract: laps, pit stops and weather for
// one (year, track), guaranteed dry.
type RaceLoader interface {
	LoadRace(ctx context.Context, year int, trackID string) (*model.Race, error)
}

// WetSessionError rejects races with recorded rainfall. The core models dry
// sessions only.
type WetSessionError struct {
	Year    int
	TrackID string
}

func (e *WetSessionError) Error() string {
	return fmt.Sprintf("wet session rejected: %d %s", e.Year, e.TrackID)
}

// FileLoader reads race fixtures from <dir>/<year>_<track>.json.
type FileLoader struct {
	dir           string
	initialFuelKg float64
	fuelPerLapKg  float64
	l             *log.Logger
}

type FileLoaderOption func(*FileLoader)

func WithFuelModel(initialFuelKg, fuelPerLapKg float64) FileLoaderOption {
	return func(fl *FileLoader) {
		fl.initialFuelKg = initialFuelKg
		fl.fuelPerLapKg = fuelPerLapKg
	}
}

func NewFileLoader(dir string, opts ...FileLoaderOption) *FileLoader {
	ret := &FileLoader{
		dir:           dir,
		initialFuelKg: model.DefaultInitialFuelKg,
		fuelPerLapKg:  model.DefaultFuelPerLapKg,
		l:             log.Default().Named("ingest"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (fl *FileLoader) LoadRace(
	ctx context.Context,
	year int,
	trackID string,
) (*model.Race, error) {
	_ = ctx // no remote calls, present for the contract
	path := filepath.Join(fl.dir, fixtureName(year, trackID))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var race model.Race
	if err := json.Unmarshal(data, &race); err != nil {
		return nil, fmt.Errorf("invalid race fixture %s: %w", path, err)
	}
	for _, w := range race.Weather {
		if w.Rainfall {
			return nil, &WetSessionError{Year: year, TrackID: trackID}
		}
	}
	ret := PrepareRace(&race, fl.initialFuelKg, fl.fuelPerLapKg)
	fl.l.Debug("loaded race",
		log.Int("year", year),
		log.String("track", trackID),
		log.Int("laps", len(ret.Laps)),
		log.Int("pitStops", len(ret.PitStops)))
	return ret, nil
}

func fixtureName(year int, trackID string) string {
	track := strings.ReplaceAll(
		strings.ToLower(strings.TrimSpace(trackID)), " ", "_")
	return fmt.Sprintf("%d_%s.json", year, track)
}

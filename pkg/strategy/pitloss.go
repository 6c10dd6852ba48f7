package strategy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPitLossSeconds is used when a track is not in the table.
const DefaultPitLossSeconds = 22.0

// DefaultVSCPitLossFactor scales the pit loss for the illustrative
// "safety car in effect" what-if. Not a prediction of such conditions.
const DefaultVSCPitLossFactor = 0.5

// builtin pit loss values (seconds). Lookup keys are normalized track ids.
//
//nolint:gochecknoglobals // config data
var builtinPitLoss = map[string]float64{
	"bahrain":       21.5,
	"jeddah":        22.5,
	"melbourne":     22.0,
	"imola":         21.5,
	"miami":         22.0,
	"monaco":        19.0,
	"barcelona":     21.5,
	"montreal":      22.0,
	"red bull ring": 21.0,
	"silverstone":   22.0,
	"hungaroring":   21.0,
	"spa":           22.0,
	"zandvoort":     21.5,
	"monza":         22.5,
	"baku":          21.5,
	"marina bay":    24.0,
	"singapore":     24.0,
	"suzuka":        22.5,
	"losail":        22.0,
	"americas":      22.0,
	"mexico":        22.0,
	"brazil":        22.0,
	"las vegas":     22.5,
	"abu dhabi":     22.0,
	"shanghai":      22.0,
	"istanbul":      22.0,
}

// PitLossTable supplies the fixed time cost of one pit stop per track.
// Lookups never fail; unknown tracks get the default.
type PitLossTable struct {
	entries   map[string]float64
	def       float64
	vscFactor float64
}

type PitLossOption func(*PitLossTable)

func WithDefaultPitLoss(seconds float64) PitLossOption {
	return func(t *PitLossTable) { t.def = seconds }
}

func WithVSCFactor(factor float64) PitLossOption {
	return func(t *PitLossTable) { t.vscFactor = factor }
}

// WithPitLossEntries merges the given values over the builtin table.
func WithPitLossEntries(entries map[string]float64) PitLossOption {
	return func(t *PitLossTable) {
		for track, sec := range entries {
			t.entries[normalizeTrack(track)] = sec
		}
	}
}

// WithPitLossFile merges values loaded from a YAML file
// (mapping track id to seconds) over the builtin table.
func WithPitLossFile(path string) PitLossOption {
	return func(t *PitLossTable) {
		entries, err := loadPitLossFile(path)
		if err != nil {
			// keep builtin values; callers validate the path upfront
			return
		}
		WithPitLossEntries(entries)(t)
	}
}

func NewPitLossTable(opts ...PitLossOption) *PitLossTable {
	ret := &PitLossTable{
		entries:   make(map[string]float64, len(builtinPitLoss)),
		def:       DefaultPitLossSeconds,
		vscFactor: DefaultVSCPitLossFactor,
	}
	for track, sec := range builtinPitLoss {
		ret.entries[track] = sec
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// PitLoss returns the pit loss in seconds for the given track.
func (t *PitLossTable) PitLoss(trackID string) float64 {
	if sec, ok := t.entries[normalizeTrack(trackID)]; ok {
		return sec
	}
	return t.def
}

// PitLossVSC returns the pit loss scaled by the VSC factor.
func (t *PitLossTable) PitLossVSC(trackID string) float64 {
	return t.PitLoss(trackID) * t.vscFactor
}

// Override returns a copy of the table with one entry replaced.
// The receiver is not modified.
func (t *PitLossTable) Override(trackID string, seconds float64) *PitLossTable {
	ret := &PitLossTable{
		entries:   make(map[string]float64, len(t.entries)+1),
		def:       t.def,
		vscFactor: t.vscFactor,
	}
	for track, sec := range t.entries {
		ret.entries[track] = sec
	}
	ret.entries[normalizeTrack(trackID)] = seconds
	return ret
}

func normalizeTrack(trackID string) string {
	return strings.ToLower(strings.TrimSpace(trackID))
}

func loadPitLossFile(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries map[string]float64
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("invalid pit loss file %s: %w", path, err)
	}
	return entries, nil
}

package degradation

import (
	"errors"
	"fmt"
)

// ErrSingularFit is returned when the selected laps do not determine the
// regression coefficients (e.g. all laps share the same lap-in-stint).
var ErrSingularFit = errors.New("degradation: design matrix is singular")

// InsufficientDataError is returned by Fit when fewer matching laps are
// available than the configured minimum. The store is left untouched.
type InsufficientDataError struct {
	Key        Key
	Samples    int
	MinSamples int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("degradation: %d laps for %s/%s, need at least %d",
		e.Samples, e.Key.Track, e.Key.Compound, e.MinSamples)
}

// ModelNotFittedError is returned when a prediction is requested for a
// (track, compound) key without a stored model.
type ModelNotFittedError struct {
	Key Key
}

func (e *ModelNotFittedError) Error() string {
	return fmt.Sprintf("degradation: no fitted model for %s/%s",
		e.Key.Track, e.Key.Compound)
}

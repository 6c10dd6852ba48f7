package strategy

import "fmt"

// InvalidRaceStateError rejects malformed decision point inputs before any
// simulation is run.
type InvalidRaceStateError struct {
	Reason string
}

func (e *InvalidRaceStateError) Error() string {
	return fmt.Sprintf("invalid race state: %s", e.Reason)
}

func invalidRaceState(format string, args ...any) *InvalidRaceStateError {
	return &InvalidRaceStateError{Reason: fmt.Sprintf(format, args...)}
}

package dynamo

import (
	"errors"
	"fmt"
)

// Errors surfaced at the edges of the simulation: config, storage, recording
// and client input.
// The physics step itself has no failure modes.
var (
	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrUnknownPreset indicates a preset name that is not registered.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrRunNotFound indicates a stored run id with no data on disk.
	ErrRunNotFound = errors.New("dynamo: run not found")

	// ErrNoFrames indicates a recording was saved without any captured frame.
	ErrNoFrames = errors.New("dynamo: no frames recorded")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrBadMessage indicates a client input message that cannot be decoded.
	ErrBadMessage = errors.New("dynamo: malformed input message")

	// ErrInvalidState indicates a ball with NaN/Inf fields after a step.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrRejectedLaunch indicates a scripted ball that failed validation.
	ErrRejectedLaunch = errors.New("dynamo: launch rejected")
)

// SimError records a non-fatal problem observed at a given step. Err is the
// sentinel it unwraps to; nil means ErrInvalidState.
type SimError struct {
	Time    float64
	Step    int
	Message string
	Err     error
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidState
	}
	return e.Err
}

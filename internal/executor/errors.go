package executor

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is wrapped by a PhaseExecutionError when a phase other
// than initialize runs before initialize has completed.
var ErrNotInitialized = errors.New("network is not initialized")

// PhaseExecutionError reports the layer whose phase method failed.
type PhaseExecutionError struct {
	Phase string
	// Index is the failing layer's position, or -1 when the phase failed
	// before visiting any layer.
	Index int
	Type  string
	Err   error
}

func (e *PhaseExecutionError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("phase %s failed: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("phase %s failed at layer %d ('%s'): %v", e.Phase, e.Index, e.Type, e.Err)
}

func (e *PhaseExecutionError) Unwrap() error { return e.Err }

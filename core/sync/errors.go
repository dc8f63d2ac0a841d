package sync

import "fmt"

// ClassificationError marks an unexpected failure inside the engine's
// matching or diffing passes. It is caught by Run itself and converted into
// a reset statistics record; callers never see it.
type ClassificationError struct {
	// Phase names the engine phase that failed (match, diff, apply).
	Phase string
	// EventID is the business identifier being processed, when known.
	EventID string
	// Err is the underlying cause.
	Err error
}

func (e *ClassificationError) Error() string {
	if e.EventID != "" {
		return fmt.Sprintf("classification failed in %s phase (event %s): %v", e.Phase, e.EventID, e.Err)
	}
	return fmt.Sprintf("classification failed in %s phase: %v", e.Phase, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

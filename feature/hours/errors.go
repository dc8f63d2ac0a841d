package hours

import (
	"fmt"
	"strings"
)

// RetrievalError marks a failure to read events from the database: the store
// is unreachable or returned malformed data. Partial lists are never
// returned silently; the whole read fails.
type RetrievalError struct {
	// Year is the year being retrieved.
	Year int
	// Err is the underlying cause.
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("failed to retrieve events for %d: %v", e.Year, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// ValidationError marks a schema violation in the database event batch.
// One invalid record rejects the entire batch.
type ValidationError struct {
	// Violations lists the individual schema violations.
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("event batch failed schema validation: %s", strings.Join(e.Violations, "; "))
}

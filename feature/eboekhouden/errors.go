package eboekhouden

import "fmt"

// UnavailableError marks a login or session failure. The remote system could
// not be reached or refused the session; the run cannot proceed.
type UnavailableError struct {
	// Op is the operation that failed (login, export, submit).
	Op string
	// Err is the underlying cause.
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("e-boekhouden unavailable during %s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// FormatError marks an unexpected page or export structure. The session
// works but the remote content does not look like what we know how to read.
type FormatError struct {
	// Detail describes what was unexpected.
	Detail string
	// Err is the underlying cause, may be nil.
	Err error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected e-boekhouden format: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("unexpected e-boekhouden format: %s", e.Detail)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

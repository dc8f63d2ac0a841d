package sync

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DatabaseEvent is a canonical hour registration read from the database.
// Events are immutable once retrieved and live for a single run.
type DatabaseEvent struct {
	// ID is the business identifier, required and unique within a run.
	// It is the sole join key against remote events.
	ID string `json:"event_id"`

	// UserName is the employee the hours were registered for.
	UserName string `json:"subject"`

	// Project is the project the hours were booked on.
	Project string `json:"project"`

	// Activity is the activity within the project.
	Activity string `json:"activity"`

	// Description is the free-text description of the work.
	Description string `json:"description"`

	// Hours is the registered amount, non-negative.
	Hours decimal.Decimal `json:"hours"`

	// Start is the start timestamp of the registration.
	Start time.Time `json:"start_date"`

	// LastModified is the last modification timestamp in the database.
	LastModified time.Time `json:"last_modified"`

	// Deleted marks registrations removed in the database but kept for audit.
	Deleted bool `json:"is_deleted"`
}

// RemoteEvent is an hour registration as present in the bookkeeping system.
// The engine only ever reads remote events.
type RemoteEvent struct {
	// UserName is the employee name as shown remotely.
	UserName string `json:"user_name"`

	// Project is the remote project name.
	Project string `json:"project"`

	// Activity is the remote activity name.
	Activity string `json:"activity"`

	// Description is free text and may embed an "[event_id:<id>]" marker.
	Description string `json:"description"`

	// Hours is the registered amount.
	Hours decimal.Decimal `json:"hours"`

	// Date is the registration date.
	Date time.Time `json:"date"`

	// Invoiced marks the record as financially locked. Locked records are
	// never update candidates; any difference is a conflict.
	Invoiced bool `json:"invoiced"`

	// LastModified is the remote modification timestamp, when the export
	// carries one.
	LastModified *time.Time `json:"last_modified,omitempty"`
}

// Stats is the fixed-shape statistics record produced by every run.
// Field names and presence are stable across runs regardless of outcome.
type Stats struct {
	// WouldAdd counts database events with no matching remote event.
	WouldAdd int `json:"would_add"`

	// Added counts remote additions that reported success (apply mode only).
	Added int `json:"added"`

	// WouldUpdate counts matched, non-invoiced pairs with field differences.
	// Updates are advisory only and never applied.
	WouldUpdate int `json:"would_update"`

	// OrphanedEvents counts remote events without an identifier marker.
	OrphanedEvents int `json:"orphaned_events"`

	// ConflictEvents counts matched, invoiced pairs with field differences.
	ConflictEvents int `json:"conflict_events"`

	// BaseDataConflicts counts differing base data fields (project,
	// activity) across all conflict pairs, one per field.
	BaseDataConflicts int `json:"base_data_conflicts"`

	// VerifiedAdds counts additions whose marker was found in a fresh
	// remote read after the apply phase.
	VerifiedAdds int `json:"verified_adds"`

	// DanglingReferences counts remote events whose marker matches no
	// database event.
	DanglingReferences int `json:"dangling_references"`
}

// Options controls a single engine run.
type Options struct {
	// Year is the year being synchronized, used for the verification re-read.
	Year int

	// DryRun classifies without attempting any remote mutation.
	DryRun bool
}

// Remote is the capability the engine needs from the bookkeeping system.
// The concrete client owns login and teardown; the engine only submits and
// re-reads. Implementations must be safe for strictly sequential use only:
// the remote side is a single interactive session.
type Remote interface {
	// FetchEvents returns the events currently present remotely for a year.
	FetchEvents(ctx context.Context, year int) ([]RemoteEvent, error)

	// SubmitEvent creates one remote record for a database event. The
	// returned bool is the success signal; it is not fully trusted and gets
	// re-verified by a fresh FetchEvents.
	SubmitEvent(ctx context.Context, ev DatabaseEvent) (bool, error)
}

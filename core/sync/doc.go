// Package sync implements the event reconciliation engine.
//
// The engine consumes two event lists, the canonical hour registrations from
// the database and the registrations currently present in the bookkeeping
// system, and classifies every database event as new, unchanged, in need of
// an update, or conflicting. Remote events that carry no identifier marker
// are orphans; markers that match no database event are dangling references.
// The outcome of a run is a fixed-shape Stats record.
//
// # Matching
//
// The only join key between the two universes is the literal substring
// "[event_id:<id>]" embedded in the remote description. Matching is
// first-match-wins over the database events in input order; a claimed remote
// event cannot match a second database event. Identifiers are unique within
// a run, so ties cannot occur. Volumes are hundreds of events per year, so
// the O(n*m) scan is deliberate.
//
// # Conflicts
//
// A matched remote event that is invoiced is financially locked. Any field
// difference on such a pair is a conflict, never an update candidate.
// Differences in the base data fields (project, activity) are additionally
// counted per field: a changed dimension signals a data-modeling mismatch, a
// changed value does not.
//
// # Apply and verify
//
// Outside dry-run the engine submits every addition candidate exactly once,
// strictly sequentially, tolerating per-event failures. Because the remote
// success signal is not fully trusted, the engine then re-reads the remote
// list and counts only markers it actually finds as verified. Updates are
// never applied; they stay advisory in every mode.
//
// # Degraded runs
//
// An unexpected failure during classification never propagates. The engine
// logs it and returns a reset record: all counters zero except the orphan
// count, which is computed independently before anything else runs. Partial
// counts are never reported as complete ones.
package sync

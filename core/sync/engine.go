package sync

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Engine reconciles database events against remote events and produces a
// Stats record. Collaborators are injected; the engine holds no state across
// runs and recomputes every match from scratch.
type Engine struct {
	remote Remote
	logger *zap.Logger
	opts   Options

	// diff is swappable in tests to inject diff-phase failures.
	diff func(DatabaseEvent, RemoteEvent) []FieldDiff
}

// New creates an engine. remote may be nil for dry runs, where no remote
// mutation or re-read ever happens.
func New(remote Remote, logger *zap.Logger, opts Options) *Engine {
	return &Engine{
		remote: remote,
		logger: logger,
		opts:   opts,
		diff:   diffEvents,
	}
}

// Run executes one reconciliation: orphan count, matching, diffing, the
// optional apply phase and the verification re-read, strictly in that order.
//
// Run never returns an error. An unexpected failure during classification is
// logged and collapses the record to its reset shape: every counter zero
// except OrphanedEvents, which is computed independently up front. A partial
// count must never be reported as if it were complete, while the orphan
// count stays valuable for operational visibility even on a broken run.
func (e *Engine) Run(ctx context.Context, dbEvents []DatabaseEvent, remoteEvents []RemoteEvent) Stats {
	var stats Stats

	// Orphans are computed first and independently: a remote event without a
	// marker can never be claimed, so no later phase can change this count.
	for _, re := range remoteEvents {
		if !HasMarker(re.Description) {
			stats.OrphanedEvents++
		}
	}

	if err := e.classify(ctx, dbEvents, remoteEvents, &stats); err != nil {
		e.logger.Error("classification aborted, resetting statistics", zap.Error(err))
		stats = Stats{OrphanedEvents: stats.OrphanedEvents}
	}

	return stats
}

// classify runs the match, diff, apply and verify phases, mutating stats as
// it goes. Any returned error means the counters it touched are unreliable.
func (e *Engine) classify(ctx context.Context, dbEvents []DatabaseEvent, remoteEvents []RemoteEvent, stats *Stats) (err error) {
	phase := "match"
	eventID := ""
	defer func() {
		if r := recover(); r != nil {
			err = &ClassificationError{Phase: phase, EventID: eventID, Err: fmt.Errorf("%v", r)}
		}
	}()

	claimed := make([]bool, len(remoteEvents))
	var candidates []DatabaseEvent

	// Match pass: first-match-wins, database events in input order.
	// Identifiers are unique within a run, so ties cannot occur.
	for _, ev := range dbEvents {
		eventID = ev.ID
		if ev.Deleted {
			// A deleted registration is neither an addition nor an update
			// candidate. Its remote counterpart, if any, is still claimed so
			// it does not surface as a dangling reference.
			if idx := findMatch(ev.ID, remoteEvents, claimed); idx >= 0 {
				claimed[idx] = true
				e.logger.Warn("deleted event still present remotely",
					zap.String("event_id", ev.ID))
			}
			continue
		}

		idx := findMatch(ev.ID, remoteEvents, claimed)
		if idx < 0 {
			stats.WouldAdd++
			candidates = append(candidates, ev)
			e.logger.Info("event missing remotely", zap.String("event_id", ev.ID))
			continue
		}
		claimed[idx] = true

		phase = "diff"
		diffs := e.diff(ev, remoteEvents[idx])
		if len(diffs) == 0 {
			phase = "match"
			continue
		}

		if remoteEvents[idx].Invoiced {
			// The remote record is financially locked; reconciling would
			// violate the lock.
			stats.ConflictEvents++
			stats.BaseDataConflicts += countBaseDataDiffs(diffs)
			e.logger.Warn("conflict on invoiced event",
				zap.String("event_id", ev.ID),
				zap.String("fields", diffFields(diffs)))
		} else {
			stats.WouldUpdate++
			e.logger.Info("event needs update",
				zap.String("event_id", ev.ID),
				zap.String("fields", diffFields(diffs)),
				zap.Any("changes", diffs))
		}
		phase = "match"
	}
	eventID = ""

	// Dangling pass: markers that matched no database event.
	for i, re := range remoteEvents {
		if claimed[i] || !HasMarker(re.Description) {
			continue
		}
		id, _ := ExtractID(re.Description)
		stats.DanglingReferences++
		e.logger.Warn("remote event references unknown database event",
			zap.String("event_id", id))
	}

	if e.opts.DryRun {
		return nil
	}

	// Updates stay advisory even in apply mode. Rewriting records that sit
	// next to invoiced ones is too risky to automate.
	if stats.WouldUpdate > 0 {
		e.logger.Warn("updates are advisory only and will not be applied",
			zap.Int("would_update", stats.WouldUpdate))
	}

	phase = "apply"
	return e.apply(ctx, candidates, stats)
}

// apply submits addition candidates one at a time (the remote side is a
// single interactive session) and then re-reads the remote list to verify.
func (e *Engine) apply(ctx context.Context, candidates []DatabaseEvent, stats *Stats) error {
	if len(candidates) == 0 {
		return nil
	}
	if e.remote == nil {
		return &ClassificationError{Phase: "apply", Err: fmt.Errorf("no remote collaborator configured")}
	}

	// A failed submission must not abort the remaining ones.
	for _, ev := range candidates {
		ok, err := e.remote.SubmitEvent(ctx, ev)
		if err != nil {
			e.logger.Error("failed to submit event",
				zap.String("event_id", ev.ID), zap.Error(err))
			continue
		}
		if !ok {
			e.logger.Error("remote rejected event", zap.String("event_id", ev.ID))
			continue
		}
		stats.Added++
		e.logger.Info("event added remotely", zap.String("event_id", ev.ID))
	}

	// The success signal is not fully trusted: the remote UI can fail
	// silently past the point where a submission appears to succeed. A
	// fresh read is the only confirmation that counts.
	fresh, err := e.remote.FetchEvents(ctx, e.opts.Year)
	if err != nil {
		e.logger.Warn("verification read failed, adds remain unverified", zap.Error(err))
		return nil
	}
	for _, ev := range candidates {
		if containsMarker(fresh, ev.ID) {
			stats.VerifiedAdds++
		} else {
			e.logger.Warn("added event not found on verification",
				zap.String("event_id", ev.ID))
		}
	}

	return nil
}

// findMatch returns the index of the first unclaimed remote event carrying
// the marker for id, or -1.
func findMatch(id string, remoteEvents []RemoteEvent, claimed []bool) int {
	marker := Marker(id)
	for i, re := range remoteEvents {
		if claimed[i] {
			continue
		}
		if strings.Contains(re.Description, marker) {
			return i
		}
	}
	return -1
}

// containsMarker reports whether any remote event carries the marker for id.
func containsMarker(events []RemoteEvent, id string) bool {
	marker := Marker(id)
	for _, re := range events {
		if strings.Contains(re.Description, marker) {
			return true
		}
	}
	return false
}

// diffFields renders the differing field names for compact logging.
func diffFields(diffs []FieldDiff) string {
	names := make([]string, len(diffs))
	for i, d := range diffs {
		names[i] = d.Field
	}
	return strings.Join(names, ",")
}

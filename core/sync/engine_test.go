package sync

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRemote is a scriptable Remote for engine tests.
type fakeRemote struct {
	submitFn  func(ev DatabaseEvent) (bool, error)
	fetchFn   func(year int) ([]RemoteEvent, error)
	submitted []string
	fetches   int
}

func (f *fakeRemote) SubmitEvent(_ context.Context, ev DatabaseEvent) (bool, error) {
	f.submitted = append(f.submitted, ev.ID)
	if f.submitFn != nil {
		return f.submitFn(ev)
	}
	return true, nil
}

func (f *fakeRemote) FetchEvents(_ context.Context, year int) ([]RemoteEvent, error) {
	f.fetches++
	if f.fetchFn != nil {
		return f.fetchFn(year)
	}
	return nil, nil
}

func remoteEvent(description string, hours float64, project, activity string, invoiced bool) RemoteEvent {
	return RemoteEvent{
		Description: description,
		Hours:       decimal.NewFromFloat(hours),
		Project:     project,
		Activity:    activity,
		Invoiced:    invoiced,
	}
}

func dryEngine(year int) *Engine {
	return New(nil, zap.NewNop(), Options{Year: year, DryRun: true})
}

func TestRun_MatchedIdenticalPair(t *testing.T) {
	db := []DatabaseEvent{dbEvent("e1", 8, "A", "Dev")}
	remote := []RemoteEvent{remoteEvent("[event_id:e1] x", 8, "A", "Dev", false)}

	stats := dryEngine(2024).Run(context.Background(), db, remote)

	assert.Equal(t, 0, stats.WouldAdd)
	assert.Equal(t, 0, stats.WouldUpdate)
	assert.Equal(t, 0, stats.OrphanedEvents)
	assert.Equal(t, 0, stats.ConflictEvents)
}

func TestRun_AdditionAndOrphan(t *testing.T) {
	db := []DatabaseEvent{dbEvent("e1", 8, "A", "Dev")}
	remote := []RemoteEvent{remoteEvent("no id here", 8, "A", "Dev", false)}

	stats := dryEngine(2024).Run(context.Background(), db, remote)

	assert.Equal(t, 1, stats.WouldAdd)
	assert.Equal(t, 1, stats.OrphanedEvents)
	assert.Equal(t, 0, stats.DanglingReferences)
}

func TestRun_InvoicedConflict(t *testing.T) {
	db := []DatabaseEvent{dbEvent("e1", 8, "A", "Dev")}
	remote := []RemoteEvent{remoteEvent("[event_id:e1]", 4, "B", "Dev", true)}

	stats := dryEngine(2024).Run(context.Background(), db, remote)

	assert.Equal(t, 1, stats.ConflictEvents)
	// hours is not a base data field, project is
	assert.Equal(t, 1, stats.BaseDataConflicts)
	assert.Equal(t, 0, stats.WouldUpdate, "invoiced pairs must never count as updates")
}

func TestRun_WouldUpdate(t *testing.T) {
	db := []DatabaseEvent{dbEvent("e1", 8, "A", "Dev")}
	remote := []RemoteEvent{remoteEvent("[event_id:e1]", 4, "A", "Dev", false)}

	stats := dryEngine(2024).Run(context.Background(), db, remote)

	assert.Equal(t, 1, stats.WouldUpdate)
	assert.Equal(t, 0, stats.ConflictEvents)
}

func TestRun_Idempotent(t *testing.T) {
	db := []DatabaseEvent{
		dbEvent("e1", 8, "A", "Dev"),
		dbEvent("e2", 4, "B", "Support"),
	}
	remote := []RemoteEvent{
		remoteEvent("[event_id:e1]", 8, "A", "Dev", false),
		remoteEvent("[event_id:e2]", 4, "B", "Support", true),
	}

	first := dryEngine(2024).Run(context.Background(), db, remote)
	second := dryEngine(2024).Run(context.Background(), db, remote)

	assert.Equal(t, first, second)
	assert.Equal(t, Stats{}, first)
}

func TestRun_FirstMatchWinsClaims(t *testing.T) {
	// Two remote events claim the same marker; only the first is matched, the
	// second surfaces as a dangling reference rather than a double match.
	db := []DatabaseEvent{dbEvent("e1", 8, "A", "Dev")}
	remote := []RemoteEvent{
		remoteEvent("[event_id:e1]", 8, "A", "Dev", false),
		remoteEvent("[event_id:e1] duplicate", 8, "A", "Dev", false),
	}

	stats := dryEngine(2024).Run(context.Background(), db, remote)

	assert.Equal(t, 0, stats.WouldAdd)
	assert.Equal(t, 1, stats.DanglingReferences)
}

func TestRun_DanglingReference(t *testing.T) {
	db := []DatabaseEvent{dbEvent("e1", 8, "A", "Dev")}
	remote := []RemoteEvent{
		remoteEvent("[event_id:e1]", 8, "A", "Dev", false),
		remoteEvent("[event_id:gone]", 2, "A", "Dev", false),
	}

	stats := dryEngine(2024).Run(context.Background(), db, remote)

	assert.Equal(t, 1, stats.DanglingReferences)
	assert.Equal(t, 0, stats.OrphanedEvents)
	assert.Equal(t, 0, stats.WouldAdd)
}

func TestRun_DeletedEvents(t *testing.T) {
	deleted := dbEvent("e1", 8, "A", "Dev")
	deleted.Deleted = true

	t.Run("Not an addition candidate", func(t *testing.T) {
		stats := dryEngine(2024).Run(context.Background(), []DatabaseEvent{deleted}, nil)
		assert.Equal(t, Stats{}, stats)
	})

	t.Run("Remote counterpart is claimed, not dangling", func(t *testing.T) {
		remote := []RemoteEvent{remoteEvent("[event_id:e1]", 8, "A", "Dev", false)}
		stats := dryEngine(2024).Run(context.Background(), []DatabaseEvent{deleted}, remote)
		assert.Equal(t, 0, stats.DanglingReferences)
		assert.Equal(t, 0, stats.WouldUpdate)
	})
}

func TestRun_ApplyPhase(t *testing.T) {
	db := []DatabaseEvent{
		dbEvent("e1", 8, "A", "Dev"),
		dbEvent("e2", 4, "A", "Dev"),
		dbEvent("e3", 2, "A", "Dev"),
	}

	t.Run("All additions applied and verified", func(t *testing.T) {
		remote := &fakeRemote{
			fetchFn: func(int) ([]RemoteEvent, error) {
				return []RemoteEvent{
					remoteEvent("[event_id:e1]", 8, "A", "Dev", false),
					remoteEvent("[event_id:e2]", 4, "A", "Dev", false),
					remoteEvent("[event_id:e3]", 2, "A", "Dev", false),
				}, nil
			},
		}
		engine := New(remote, zap.NewNop(), Options{Year: 2024})

		stats := engine.Run(context.Background(), db, nil)

		assert.Equal(t, 3, stats.WouldAdd)
		assert.Equal(t, 3, stats.Added)
		assert.Equal(t, 3, stats.VerifiedAdds)
		assert.Equal(t, []string{"e1", "e2", "e3"}, remote.submitted)
		assert.Equal(t, 1, remote.fetches)
	})

	t.Run("Partial failure does not abort", func(t *testing.T) {
		remote := &fakeRemote{
			submitFn: func(ev DatabaseEvent) (bool, error) {
				if ev.ID == "e2" {
					return false, assert.AnError
				}
				return true, nil
			},
			fetchFn: func(int) ([]RemoteEvent, error) {
				return []RemoteEvent{
					remoteEvent("[event_id:e1]", 8, "A", "Dev", false),
					remoteEvent("[event_id:e3]", 2, "A", "Dev", false),
				}, nil
			},
		}
		engine := New(remote, zap.NewNop(), Options{Year: 2024})

		stats := engine.Run(context.Background(), db, nil)

		assert.Equal(t, 3, stats.WouldAdd)
		assert.Equal(t, 2, stats.Added)
		assert.Equal(t, 2, stats.VerifiedAdds)
		assert.Len(t, remote.submitted, 3, "remaining events must still be attempted")
	})

	t.Run("Untrusted success signal", func(t *testing.T) {
		// Every submission reports success but the remote silently dropped e2.
		remote := &fakeRemote{
			fetchFn: func(int) ([]RemoteEvent, error) {
				return []RemoteEvent{
					remoteEvent("[event_id:e1]", 8, "A", "Dev", false),
					remoteEvent("[event_id:e3]", 2, "A", "Dev", false),
				}, nil
			},
		}
		engine := New(remote, zap.NewNop(), Options{Year: 2024})

		stats := engine.Run(context.Background(), db, nil)

		assert.Equal(t, 3, stats.Added)
		assert.Equal(t, 2, stats.VerifiedAdds)
	})

	t.Run("Verification read failure leaves add counters", func(t *testing.T) {
		remote := &fakeRemote{
			fetchFn: func(int) ([]RemoteEvent, error) {
				return nil, assert.AnError
			},
		}
		engine := New(remote, zap.NewNop(), Options{Year: 2024})

		stats := engine.Run(context.Background(), db, nil)

		assert.Equal(t, 3, stats.Added)
		assert.Equal(t, 0, stats.VerifiedAdds)
	})

	t.Run("No candidates skips the verification read", func(t *testing.T) {
		remote := &fakeRemote{}
		engine := New(remote, zap.NewNop(), Options{Year: 2024})

		existing := []RemoteEvent{remoteEvent("[event_id:e1]", 8, "A", "Dev", false)}
		stats := engine.Run(context.Background(), []DatabaseEvent{dbEvent("e1", 8, "A", "Dev")}, existing)

		assert.Equal(t, 0, stats.Added)
		assert.Equal(t, 0, remote.fetches)
	})
}

func TestRun_ClassificationErrorResetsAllButOrphans(t *testing.T) {
	db := []DatabaseEvent{
		dbEvent("e1", 8, "A", "Dev"),
		dbEvent("e2", 4, "B", "Dev"),
	}
	remote := []RemoteEvent{
		remoteEvent("no marker at all", 1, "A", "Dev", false),
		remoteEvent("also orphaned", 1, "A", "Dev", false),
		remoteEvent("[event_id:e2]", 2, "B", "Dev", true),
	}

	t.Run("Panic during apply", func(t *testing.T) {
		broken := &fakeRemote{
			submitFn: func(DatabaseEvent) (bool, error) {
				panic("session lost")
			},
		}
		engine := New(broken, zap.NewNop(), Options{Year: 2024})

		stats := engine.Run(context.Background(), db, remote)

		assert.Equal(t, 2, stats.OrphanedEvents, "orphan count is computed independently")
		assert.Equal(t, Stats{OrphanedEvents: 2}, stats, "all other counters must reset")
	})

	t.Run("Missing collaborator in apply mode", func(t *testing.T) {
		engine := New(nil, zap.NewNop(), Options{Year: 2024})

		stats := engine.Run(context.Background(), db, remote)

		assert.Equal(t, Stats{OrphanedEvents: 2}, stats)
	})

	t.Run("Panic during diffing", func(t *testing.T) {
		// Fail on the matched pair, after the orphan pass but before the
		// dangling pass, so counters touched on both sides must reset.
		engine := dryEngine(2024)
		engine.diff = func(DatabaseEvent, RemoteEvent) []FieldDiff {
			panic("bad field comparison")
		}

		stats := engine.Run(context.Background(), db, remote)

		assert.Equal(t, 2, stats.OrphanedEvents, "orphan count is computed independently")
		assert.Equal(t, Stats{OrphanedEvents: 2}, stats, "all other counters must reset")
	})
}

func TestClassificationError(t *testing.T) {
	err := &ClassificationError{Phase: "diff", EventID: "e1", Err: assert.AnError}
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "diff")
	assert.Contains(t, err.Error(), "e1")
}

package hours

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hour-sync/core/archive"
	"hour-sync/core/logger"
	"hour-sync/core/sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client is the remote collaborator as the service needs it: the engine's
// capabilities plus session lifecycle and access to the downloaded export.
type Client interface {
	sync.Remote
	Login(ctx context.Context) error
	Close()
	ExportPath() string
}

// Service runs one synchronization: load and validate database events, log
// in remotely, export the current remote events, reconcile, and report.
type Service struct {
	source    EventSource
	client    Client
	validator *Validator
	archive   *archive.Archive // nil disables archiving
	logger    *zap.Logger
	cfg       Config
}

// NewService wires a synchronization service. archive may be nil.
func NewService(source EventSource, client Client, validator *Validator, arc *archive.Archive, log *zap.Logger, cfg Config) *Service {
	return &Service{
		source:    source,
		client:    client,
		validator: validator,
		archive:   arc,
		logger:    log,
		cfg:       cfg,
	}
}

// Run executes one synchronization run for a year and returns its
// statistics. Retrieval, validation and remote session errors are fatal and
// returned; classification problems inside the engine are not (the engine
// degrades to a reset statistics record instead).
func (s *Service) Run(ctx context.Context, year int, dryRun bool) (sync.Stats, error) {
	runID := uuid.NewString()
	l := logger.WithRun(s.logger, runID)
	start := time.Now()

	// The client is single-use and owned by this run; release its browser
	// no matter how early the run fails.
	defer s.client.Close()

	l.Info("synchronization run started",
		zap.Int("year", year), zap.Bool("dry_run", dryRun))

	s.cleanupTemp(l)
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return sync.Stats{}, fmt.Errorf("failed to create output dir: %w", err)
	}

	events, err := s.source.Events(ctx, year)
	if err != nil {
		return sync.Stats{}, err
	}
	l.Info("loaded events from database", zap.Int("count", len(events)))

	ts := start.Format("20060102_150405")
	dbSnapshot := filepath.Join(s.cfg.OutputDir, "database_events_"+ts+".json")
	if err := writeJSON(dbSnapshot, toEventRecords(events)); err != nil {
		l.Warn("failed to write database snapshot", zap.Error(err))
		dbSnapshot = ""
	}

	if err := s.validator.Validate(events); err != nil {
		return sync.Stats{}, err
	}

	if err := s.client.Login(ctx); err != nil {
		return sync.Stats{}, err
	}

	remote, err := s.client.FetchEvents(ctx, year)
	if err != nil {
		return sync.Stats{}, err
	}
	l.Info("loaded events from e-boekhouden", zap.Int("count", len(remote)))

	remoteSnapshot := filepath.Join(s.cfg.OutputDir, "e-boekhouden_events_"+ts+".json")
	if err := writeJSON(remoteSnapshot, toRemoteRecords(remote)); err != nil {
		l.Warn("failed to write remote snapshot", zap.Error(err))
		remoteSnapshot = ""
	}

	engine := sync.New(s.client, l, sync.Options{Year: year, DryRun: dryRun})
	stats := engine.Run(ctx, events, remote)

	s.reportStats(l, stats, dryRun, ts)

	if s.archive != nil {
		s.archiveRun(ctx, l, year, runID, stats, dbSnapshot, remoteSnapshot)
	}

	l.Info("synchronization run finished", zap.Duration("duration", time.Since(start)))
	return stats, nil
}

// reportStats emits the statistics record both as structured fields and as
// the stable JSON document external tooling consumes.
func (s *Service) reportStats(l *zap.Logger, stats sync.Stats, dryRun bool, ts string) {
	if dryRun {
		l.Info("dry-run complete, no changes were made to e-boekhouden")
	}

	data, err := json.Marshal(stats)
	if err != nil {
		l.Error("failed to marshal statistics", zap.Error(err))
		return
	}

	l.Info("synchronization statistics",
		zap.Int("would_add", stats.WouldAdd),
		zap.Int("added", stats.Added),
		zap.Int("would_update", stats.WouldUpdate),
		zap.Int("orphaned_events", stats.OrphanedEvents),
		zap.Int("conflict_events", stats.ConflictEvents),
		zap.Int("base_data_conflicts", stats.BaseDataConflicts),
		zap.Int("verified_adds", stats.VerifiedAdds),
		zap.Int("dangling_references", stats.DanglingReferences),
		zap.ByteString("json", data))

	path := filepath.Join(s.cfg.OutputDir, "sync_stats_"+ts+".json")
	if err := writeJSON(path, stats); err != nil {
		l.Warn("failed to write statistics file", zap.Error(err))
	}
}

// archiveRun uploads the run artifacts. Best effort only.
func (s *Service) archiveRun(ctx context.Context, l *zap.Logger, year int, runID string, stats sync.Stats, snapshots ...string) {
	if err := s.archive.EnsureBucket(ctx); err != nil {
		l.Warn("archive unavailable, skipping", zap.Error(err))
		return
	}

	prefix := archive.RunPrefix(year, runID)
	if err := s.archive.StoreJSON(ctx, prefix, "stats.json", stats); err != nil {
		l.Warn("failed to archive statistics", zap.Error(err))
	}

	files := snapshots
	if p := s.client.ExportPath(); p != "" {
		files = append(files, p)
	}
	for _, path := range files {
		if path == "" {
			continue
		}
		if err := s.archive.StoreFile(ctx, prefix, path); err != nil {
			l.Warn("failed to archive file", zap.String("path", path), zap.Error(err))
		}
	}
}

// cleanupTemp removes leftovers of previous runs (downloads, screenshots).
func (s *Service) cleanupTemp(l *zap.Logger) {
	_ = filepath.WalkDir(s.cfg.TempDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if rmErr := os.Remove(path); rmErr != nil {
			l.Warn("failed to remove temp file", zap.String("path", path), zap.Error(rmErr))
		}
		return nil
	})
}

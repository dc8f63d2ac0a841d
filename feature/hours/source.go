package hours

import (
	"context"
	"fmt"

	"hour-sync/core/sync"
	"hour-sync/feature/hours/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventSource provides the canonical events for a year.
type EventSource interface {
	Events(ctx context.Context, year int) ([]sync.DatabaseEvent, error)
}

// DBSource reads hour registrations from the database.
type DBSource struct {
	db     *gorm.DB
	logger *zap.Logger
	cfg    Config
}

// NewDBSource creates a database-backed event source.
func NewDBSource(db *gorm.DB, logger *zap.Logger, cfg Config) *DBSource {
	return &DBSource{db: db, logger: logger, cfg: cfg}
}

// Events returns all registrations for a year, ordered deterministically.
// In development mode the year is forced to the configured test year.
func (s *DBSource) Events(ctx context.Context, year int) ([]sync.DatabaseEvent, error) {
	if s.cfg.Development.Enabled && year != s.cfg.Development.TestYear {
		s.logger.Info("development mode: overriding requested year",
			zap.Int("requested", year),
			zap.Int("forced", s.cfg.Development.TestYear))
		year = s.cfg.Development.TestYear
	}

	var rows []models.HourRegistration
	err := s.db.WithContext(ctx).
		Where("YEAR(start_date) = ?", year).
		Order("start_date, event_id").
		Find(&rows).Error
	if err != nil {
		return nil, &RetrievalError{Year: year, Err: err}
	}

	// Identifiers must be unique within a run; a duplicate means the store
	// handed us malformed data and the whole batch is rejected.
	seen := make(map[string]struct{}, len(rows))
	events := make([]sync.DatabaseEvent, 0, len(rows))
	for _, row := range rows {
		if row.EventID == "" {
			return nil, &RetrievalError{Year: year, Err: fmt.Errorf("row with empty event_id")}
		}
		if _, dup := seen[row.EventID]; dup {
			return nil, &RetrievalError{Year: year, Err: fmt.Errorf("duplicate event_id %s", row.EventID)}
		}
		seen[row.EventID] = struct{}{}
		events = append(events, row.ToEvent())
	}

	s.logger.Debug("loaded events from database",
		zap.Int("year", year), zap.Int("count", len(events)))
	return events, nil
}

package models

import (
	"time"

	"hour-sync/core/sync"

	"github.com/shopspring/decimal"
)

// HourRegistration is the canonical hour registration row.
type HourRegistration struct {
	EventID      string          `gorm:"column:event_id;primaryKey"`
	Subject      string          `gorm:"column:subject"`
	Project      string          `gorm:"column:project"`
	Activity     string          `gorm:"column:activity"`
	Hours        decimal.Decimal `gorm:"column:hours"`
	Description  string          `gorm:"column:description"`
	StartDate    time.Time       `gorm:"column:start_date"`
	LastModified time.Time       `gorm:"column:last_modified"`
	IsDeleted    bool            `gorm:"column:is_deleted"`
}

// TableName overrides the table name used by GORM.
func (HourRegistration) TableName() string {
	return "hour_registrations"
}

// ToEvent converts the row to the engine's event type.
func (r HourRegistration) ToEvent() sync.DatabaseEvent {
	return sync.DatabaseEvent{
		ID:           r.EventID,
		UserName:     r.Subject,
		Project:      r.Project,
		Activity:     r.Activity,
		Hours:        r.Hours,
		Description:  r.Description,
		Start:        r.StartDate,
		LastModified: r.LastModified,
		Deleted:      r.IsDeleted,
	}
}

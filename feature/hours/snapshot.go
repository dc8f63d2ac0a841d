package hours

import (
	"encoding/json"
	"os"
	"time"

	"hour-sync/core/sync"
)

// eventRecord is the JSON shape of one database event in snapshots and in
// the document handed to schema validation.
type eventRecord struct {
	EventID      string  `json:"event_id"`
	Subject      string  `json:"subject"`
	Project      string  `json:"project"`
	Activity     string  `json:"activity"`
	Hours        float64 `json:"hours"`
	Description  string  `json:"description"`
	StartDate    string  `json:"start_date"`
	LastModified string  `json:"last_modified"`
	IsDeleted    bool    `json:"is_deleted"`
}

// remoteRecord is the JSON shape of one remote event in snapshots.
type remoteRecord struct {
	UserName     string  `json:"user_name"`
	Project      string  `json:"project"`
	Activity     string  `json:"activity"`
	Hours        float64 `json:"hours"`
	Description  string  `json:"description"`
	Date         string  `json:"date"`
	Invoiced     bool    `json:"invoiced"`
	LastModified *string `json:"last_modified,omitempty"`
}

func toEventRecords(events []sync.DatabaseEvent) []eventRecord {
	records := make([]eventRecord, len(events))
	for i, ev := range events {
		records[i] = eventRecord{
			EventID:      ev.ID,
			Subject:      ev.UserName,
			Project:      ev.Project,
			Activity:     ev.Activity,
			Hours:        ev.Hours.InexactFloat64(),
			Description:  ev.Description,
			StartDate:    ev.Start.Format(time.RFC3339),
			LastModified: ev.LastModified.Format(time.RFC3339),
			IsDeleted:    ev.Deleted,
		}
	}
	return records
}

func toRemoteRecords(events []sync.RemoteEvent) []remoteRecord {
	records := make([]remoteRecord, len(events))
	for i, ev := range events {
		records[i] = remoteRecord{
			UserName:    ev.UserName,
			Project:     ev.Project,
			Activity:    ev.Activity,
			Hours:       ev.Hours.InexactFloat64(),
			Description: ev.Description,
			Date:        ev.Date.Format(time.RFC3339),
			Invoiced:    ev.Invoiced,
		}
		if ev.LastModified != nil {
			ts := ev.LastModified.Format(time.RFC3339)
			records[i].LastModified = &ts
		}
	}
	return records
}

// writeJSON writes v as indented JSON, the snapshot format kept per run.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

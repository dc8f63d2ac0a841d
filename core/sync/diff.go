package sync

import (
	"strings"

	"github.com/shopspring/decimal"
)

// hoursTolerance absorbs rounding differences between the database and the
// spreadsheet export (the export rounds to two decimals).
var hoursTolerance = decimal.NewFromFloat(0.01)

// Base data fields are the dimensions whose mismatch signals a
// categorization conflict rather than a simple value change.
const (
	fieldHours       = "hours"
	fieldProject     = "project"
	fieldActivity    = "activity"
	fieldUserName    = "user_name"
	fieldDescription = "description"
)

// FieldDiff describes one differing field between a matched pair.
type FieldDiff struct {
	Field  string `json:"field"`
	DB     string `json:"db"`
	Remote string `json:"remote"`
}

// IsBaseData reports whether the differing field is a base data field.
func (d FieldDiff) IsBaseData() bool {
	return d.Field == fieldProject || d.Field == fieldActivity
}

// diffEvents compares all schema-shared fields of a matched pair and returns
// one FieldDiff per differing field. The remote description is compared with
// its identifier marker stripped.
func diffEvents(db DatabaseEvent, remote RemoteEvent) []FieldDiff {
	var diffs []FieldDiff

	if db.Hours.Sub(remote.Hours).Abs().GreaterThan(hoursTolerance) {
		diffs = append(diffs, FieldDiff{fieldHours, db.Hours.String(), remote.Hours.String()})
	}
	if db.Project != remote.Project {
		diffs = append(diffs, FieldDiff{fieldProject, db.Project, remote.Project})
	}
	if db.Activity != remote.Activity {
		diffs = append(diffs, FieldDiff{fieldActivity, db.Activity, remote.Activity})
	}
	if db.UserName != remote.UserName {
		diffs = append(diffs, FieldDiff{fieldUserName, db.UserName, remote.UserName})
	}
	// Submission appends the marker and a created-at line to the remote
	// description, so equality is the wrong test. The database text must
	// still be present remotely once the marker is stripped.
	if dbDesc, remoteDesc := StripMarker(db.Description), StripMarker(remote.Description); !strings.Contains(remoteDesc, dbDesc) {
		diffs = append(diffs, FieldDiff{fieldDescription, dbDesc, remoteDesc})
	}

	return diffs
}

// countBaseDataDiffs returns the number of differing base data fields.
func countBaseDataDiffs(diffs []FieldDiff) int {
	n := 0
	for _, d := range diffs {
		if d.IsBaseData() {
			n++
		}
	}
	return n
}

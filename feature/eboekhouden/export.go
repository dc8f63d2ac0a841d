package eboekhouden

import (
	"fmt"
	"strings"
	"time"

	"hour-sync/core/sync"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Date layouts seen in the export, most common first.
var dateLayouts = []string{
	"02-01-2006",
	"2006-01-02",
	"02-01-2006 15:04",
	"2006-01-02 15:04:05",
}

// ParseExport reads the downloaded hours export and returns the remote
// events it contains. The first sheet is expected to start with a header row
// matching the configured column names.
//
// Parsing is all-or-nothing: a row with an unreadable date or hours value
// fails the whole export rather than silently dropping records.
func ParseExport(path string, cols Columns) ([]sync.RemoteEvent, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &FormatError{Detail: "cannot open export file", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &FormatError{Detail: "export has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &FormatError{Detail: "cannot read export rows", Err: err}
	}
	if len(rows) == 0 {
		return nil, &FormatError{Detail: "export is empty"}
	}

	idx, err := headerIndex(rows[0], cols)
	if err != nil {
		return nil, err
	}

	events := make([]sync.RemoteEvent, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if isBlank(row) {
			continue
		}

		ev, err := parseRow(row, idx, n+2)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	return events, nil
}

// columnIndex maps event fields to zero-based column positions.
// Modified is optional; -1 means absent.
type columnIndex struct {
	date, user, project, activity, hours, description, invoiced, modified int
}

func headerIndex(header []string, cols Columns) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}

	idx := columnIndex{modified: -1}
	required := []struct {
		name string
		dst  *int
	}{
		{cols.Date, &idx.date},
		{cols.User, &idx.user},
		{cols.Project, &idx.project},
		{cols.Activity, &idx.activity},
		{cols.Hours, &idx.hours},
		{cols.Description, &idx.description},
		{cols.Invoiced, &idx.invoiced},
	}
	for _, col := range required {
		i, ok := pos[col.name]
		if !ok {
			return idx, &FormatError{Detail: "export is missing column " + col.name}
		}
		*col.dst = i
	}
	if i, ok := pos[cols.Modified]; ok {
		idx.modified = i
	}

	return idx, nil
}

func parseRow(row []string, idx columnIndex, rowNum int) (sync.RemoteEvent, error) {
	var ev sync.RemoteEvent

	date, err := parseDate(cell(row, idx.date))
	if err != nil {
		return ev, &FormatError{Detail: rowDetail(rowNum, "date"), Err: err}
	}

	hours, err := parseHours(cell(row, idx.hours))
	if err != nil {
		return ev, &FormatError{Detail: rowDetail(rowNum, "hours"), Err: err}
	}

	ev = sync.RemoteEvent{
		Date:        date,
		UserName:    cell(row, idx.user),
		Project:     cell(row, idx.project),
		Activity:    cell(row, idx.activity),
		Hours:       hours,
		Description: cell(row, idx.description),
		Invoiced:    parseYesNo(cell(row, idx.invoiced)),
	}

	// The modified column is not always exported; leave it unset when the
	// column is absent or its value doesn't parse.
	if idx.modified >= 0 {
		if ts, err := parseDate(cell(row, idx.modified)); err == nil {
			ev.LastModified = &ts
		}
	}

	return ev, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseHours accepts both decimal comma (Dutch export) and decimal point.
func parseHours(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}

func parseYesNo(s string) bool {
	switch strings.ToLower(s) {
	case "ja", "yes", "true", "1":
		return true
	default:
		return false
	}
}

func rowDetail(rowNum int, field string) string {
	return fmt.Sprintf("row %d: unreadable %s", rowNum, field)
}

package parser

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Igorofyeshu4/keepgoing/internal/model"
)

// ErrEmptyRow marks a row with no usable cell in any resolved column. Such
// rows are skipped and counted by the caller, never aborting the row stream.
var ErrEmptyRow = errors.New("row has no usable cells")

// dateLayouts is tried in order: the fixed day/month/year export format first,
// then lenient fallbacks seen in older sheets.
var dateLayouts = []string{
	"02/01/2006",
	"02/01/2006 15:04:05",
	"02-01-2006",
	"2006-01-02",
	"2006-01-02T15:04:05",
}

// RecordNormalizer turns one raw row into one CanonicalRecord by resolving
// cells through the source's ColumnMapping and delegating to the team and
// status classifiers. Pure transform, no side effects.
type RecordNormalizer struct {
	teams  *TeamClassifier
	status *StatusClassifier
}

// NewRecordNormalizer creates a normalizer over the given classifiers.
func NewRecordNormalizer(teams *TeamClassifier, status *StatusClassifier) *RecordNormalizer {
	return &RecordNormalizer{teams: teams, status: status}
}

// Normalize produces the canonical record for one raw row. Empty or missing
// text fields become the "NAO INFORMADO" sentinel before classification, never
// silently dropped. An unparseable date leaves Date nil but keeps the record.
// Returns ErrEmptyRow when every resolved column is blank.
func (n *RecordNormalizer) Normalize(sourceID string, rowIndex int, row []string, mapping ColumnMapping) (model.CanonicalRecord, error) {
	if !rowHasData(row, mapping) {
		return model.CanonicalRecord{}, ErrEmptyRow
	}

	record := model.CanonicalRecord{
		SourceID: sourceID,
		RowIndex: rowIndex,
		Status:   make(model.StatusSet),
		Channel:  model.ChannelUnknown,
	}

	responsible := NormalizeText(cell(row, mapping, FieldResponsible))
	if responsible == "" {
		responsible = NotInformed
	}
	record.Responsible = responsible
	record.ResponsibleKnown = responsible != NotInformed

	// The team hint column, when a source carries one, holds the team label
	// directly; otherwise the roster classification of the responsible decides.
	if hint := NormalizeText(cell(row, mapping, FieldTeamHint)); hint != "" && hint != NotInformed {
		record.Team = model.TeamID(hint)
	} else {
		record.Team = n.teams.Classify(responsible)
	}

	status := cell(row, mapping, FieldStatus)
	if strings.TrimSpace(status) == "" {
		status = NotInformed
	}
	record.Status = n.status.Classify(status)

	if raw := cell(row, mapping, FieldDate); raw != "" {
		if d, ok := parseDate(raw); ok {
			record.Date = &d
		}
	}

	record.Channel = n.status.ClassifyChannel(cell(row, mapping, FieldChannel))

	if raw := cell(row, mapping, FieldPriority); raw != "" {
		if v, ok := parseNumber(raw); ok {
			record.Priority = &v
		}
	}

	return record, nil
}

// cell extracts the trimmed raw value of a resolved field, or "" when the
// field is unresolved or the row is too short.
func cell(row []string, mapping ColumnMapping, field CanonicalField) string {
	binding, ok := mapping[field]
	if !ok || binding.ColumnIndex >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[binding.ColumnIndex])
}

func rowHasData(row []string, mapping ColumnMapping) bool {
	for _, binding := range mapping {
		if binding.ColumnIndex < len(row) && strings.TrimSpace(row[binding.ColumnIndex]) != "" {
			return true
		}
	}
	return false
}

// parseDate tries the fixed day/month/year format and lenient fallbacks,
// returning the date truncated to UTC midnight.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// parseNumber parses a numeric cell, tolerating decimal commas and thousands
// separators left by spreadsheet exports.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

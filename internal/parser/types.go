package parser

import "github.com/Igorofyeshu4/keepgoing/internal/model"

// CanonicalField is one of the fixed semantic slots every source is mapped onto.
type CanonicalField string

const (
	FieldDate         CanonicalField = "date"
	FieldResponsible  CanonicalField = "responsible"
	FieldStatus       CanonicalField = "status"
	FieldTeamHint     CanonicalField = "team_hint"
	FieldChannel      CanonicalField = "channel"
	FieldPriority     CanonicalField = "priority"
	FieldNumericValue CanonicalField = "numeric_value"
)

// ColumnBinding is the raw column chosen for one canonical field.
type ColumnBinding struct {
	ColumnIndex int    `json:"columnIndex"`
	ColumnName  string `json:"columnName"`
}

// ColumnMapping is a source's mapping from canonical field to the raw column
// bound to it. Built once per source; a field with no usable column is absent.
type ColumnMapping map[CanonicalField]ColumnBinding

// Resolved reports whether a canonical field was bound to a column.
func (m ColumnMapping) Resolved(f CanonicalField) bool {
	_, ok := m[f]
	return ok
}

// FieldCandidates is the ordered candidate-pattern list for one canonical
// field. Earlier candidates take priority over later ones.
type FieldCandidates struct {
	Field      CanonicalField
	Candidates []string
}

// TeamRoster is one team and its member names. The order of rosters passed to
// NewTeamClassifier defines classification priority for names present in more
// than one roster.
type TeamRoster struct {
	Team    model.TeamID
	Members []string
}

// StatusPatterns is the keyword list for one status category. A status text
// matching keywords of several categories is tagged with all of them.
type StatusPatterns struct {
	Category model.StatusCategory
	Keywords []string
}

// ChannelPatterns classifies the active/inbound field.
type ChannelPatterns struct {
	Inbound []string
	Active  []string
}

package model

import "time"

// TeamID identifies an operational team.
type TeamID string

const (
	// TeamNoResponsible is assigned when the responsible field carried the
	// "not informed" sentinel.
	TeamNoResponsible TeamID = "SEM RESPONSAVEL"
	// TeamOthers is assigned when no roster contains the responsible name.
	TeamOthers TeamID = "OUTROS"
)

// StatusCategory is one tag of the fixed status taxonomy.
type StatusCategory string

const (
	StatusResolved      StatusCategory = "resolved"
	StatusSettled       StatusCategory = "settled"
	StatusSettledClient StatusCategory = "settled_client"
	StatusApproved      StatusCategory = "approved"
	StatusInAnalysis    StatusCategory = "in_analysis"
	StatusPending       StatusCategory = "pending"
)

// AllStatusCategories lists the taxonomy in a stable order.
func AllStatusCategories() []StatusCategory {
	return []StatusCategory{
		StatusResolved,
		StatusSettled,
		StatusSettledClient,
		StatusApproved,
		StatusInAnalysis,
		StatusPending,
	}
}

// StatusSet is the non-exclusive classification result of one status text.
// A single status string may satisfy several categories at once.
type StatusSet map[StatusCategory]struct{}

// Add inserts a category into the set.
func (s StatusSet) Add(c StatusCategory) {
	s[c] = struct{}{}
}

// Has reports whether the set contains a category.
func (s StatusSet) Has(c StatusCategory) bool {
	_, ok := s[c]
	return ok
}

// Channel is how a demand reached the team.
type Channel string

const (
	ChannelActive  Channel = "active"
	ChannelInbound Channel = "inbound"
	ChannelUnknown Channel = "unknown"
)

// CanonicalRecord is the normalized, classified representation of one raw row.
// Records are ephemeral: produced per batch and consumed immediately by the
// aggregator.
type CanonicalRecord struct {
	SourceID string
	RowIndex int

	// Date is nil when the raw cell was absent or unparseable; the record is
	// still counted in non-date-scoped state.
	Date *time.Time

	// Responsible is the normalized responsible-party name, or the
	// "NAO INFORMADO" sentinel. ResponsibleKnown is false for the sentinel.
	Responsible      string
	ResponsibleKnown bool

	Team    TeamID
	Status  StatusSet
	Channel Channel

	// Priority is nil when the raw cell was absent or not numeric.
	Priority *float64
}

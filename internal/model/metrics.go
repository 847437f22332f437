package model

import "time"

// DailyMetrics is the flat aggregate answered for one (date, team) scope.
// Team is empty for the "all teams" scope. All counters default to zero; a
// scope that was never observed yields the zero value, not an error.
type DailyMetrics struct {
	Date time.Time `json:"date"`
	Team string    `json:"team,omitempty"`

	Resolved       int `json:"resolved"`
	PendingActive  int `json:"pendingActive"`
	PendingInbound int `json:"pendingInbound"`

	Priority      int     `json:"priority"`
	PriorityTotal int     `json:"priorityTotal"`
	PrioritySum   float64 `json:"prioritySum"`

	InAnalysis      int `json:"inAnalysis"`
	InAnalysisToday int `json:"inAnalysisToday"`

	Inbound         int `json:"inbound"`
	SettledByClient int `json:"settledByClient"`
	Settled         int `json:"settled"`
	Approved        int `json:"approved"`

	// Total is the number of records that contributed to the scope.
	Total int `json:"total"`
}

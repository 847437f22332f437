// Package service exposes the query surface over the aggregate state. It is
// the seam between transport handlers and the aggregator.
package service

import (
	"time"

	"github.com/Igorofyeshu4/keepgoing/internal/aggregator"
	"github.com/Igorofyeshu4/keepgoing/internal/model"
	"github.com/Igorofyeshu4/keepgoing/internal/parser"
)

// MetricsService answers metric queries against the live aggregate state.
// Team arguments are normalized the same way team labels were normalized on
// the way in, so "equipe júlio" and "EQUIPE JULIO" address the same scope.
type MetricsService struct {
	agg *aggregator.Aggregator
}

// NewMetricsService wraps an aggregator.
func NewMetricsService(agg *aggregator.Aggregator) *MetricsService {
	return &MetricsService{agg: agg}
}

// GetDailyMetrics returns the metrics of one (date, team) scope. An empty
// team means all teams. Unknown scopes yield zero-valued metrics.
func (s *MetricsService) GetDailyMetrics(date time.Time, team string) model.DailyMetrics {
	return s.agg.Query(dateOnly(date), model.TeamID(parser.NormalizeText(team)))
}

// GetRangeMetrics returns one all-teams metrics record per day of [from, to],
// inclusive, including zero-valued days.
func (s *MetricsService) GetRangeMetrics(from, to time.Time) []model.DailyMetrics {
	from, to = dateOnly(from), dateOnly(to)

	out := make([]model.DailyMetrics, 0)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, s.agg.Query(d, ""))
	}
	return out
}

// GetTeams lists the distinct team labels observed in the loaded data.
func (s *MetricsService) GetTeams() []string {
	teams := s.agg.Teams()
	out := make([]string, 0, len(teams))
	for _, t := range teams {
		out = append(out, string(t))
	}
	return out
}

// GetDateRange reports the span of canonical dates seen so far. ok is false
// before the first dated record.
func (s *MetricsService) GetDateRange() (from, to time.Time, ok bool) {
	return s.agg.DateRange()
}

// GetResponsibleTotals returns the per-responsible breakdown for one date.
func (s *MetricsService) GetResponsibleTotals(date time.Time) []aggregator.ResponsibleTotal {
	return s.agg.ResponsibleTotals(dateOnly(date))
}

// GetDailyRows flattens all scopes for export and persistence.
func (s *MetricsService) GetDailyRows() []aggregator.DailyRow {
	return s.agg.DailyRows()
}

// GetStats reports load bookkeeping.
func (s *MetricsService) GetStats() aggregator.Stats {
	return s.agg.Stats()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package store

import (
	"fmt"
	"time"

	"github.com/Igorofyeshu4/keepgoing/internal/aggregator"
	"github.com/Igorofyeshu4/keepgoing/internal/importer"
	"github.com/Igorofyeshu4/keepgoing/internal/model"
)

const dateLayout = "2006-01-02"

// ReplaceDailyMetrics rewrites the whole snapshot inside one transaction.
// The aggregate is cheap to flatten and the snapshot is small, so a full
// replace is simpler than diffing.
func (s *Store) ReplaceDailyMetrics(rows []aggregator.DailyRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM daily_metrics`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO daily_metrics (
			date, team, resolved, pending_active, pending_inbound,
			priority, priority_total, priority_sum,
			in_analysis, in_analysis_today, inbound,
			settled_client, settled, approved, total
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		m := row.Metrics
		_, err := stmt.Exec(
			row.Date.Format(dateLayout), string(row.Team),
			m.Resolved, m.PendingActive, m.PendingInbound,
			m.Priority, m.PriorityTotal, m.PrioritySum,
			m.InAnalysis, m.InAnalysisToday, m.Inbound,
			m.SettledByClient, m.Settled, m.Approved, m.Total,
		)
		if err != nil {
			return fmt.Errorf("insert snapshot row (%s, %s): %w", row.Date.Format(dateLayout), row.Team, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// ListDailyMetrics reads the snapshot back, ordered by date then team.
func (s *Store) ListDailyMetrics() ([]aggregator.DailyRow, error) {
	rows, err := s.db.Query(`
		SELECT date, team, resolved, pending_active, pending_inbound,
		       priority, priority_total, priority_sum,
		       in_analysis, in_analysis_today, inbound,
		       settled_client, settled, approved, total
		FROM daily_metrics
		ORDER BY date, team
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	out := make([]aggregator.DailyRow, 0)
	for rows.Next() {
		var (
			dateStr string
			team    string
			m       model.DailyMetrics
		)
		err := rows.Scan(
			&dateStr, &team, &m.Resolved, &m.PendingActive, &m.PendingInbound,
			&m.Priority, &m.PriorityTotal, &m.PrioritySum,
			&m.InAnalysis, &m.InAnalysisToday, &m.Inbound,
			&m.SettledByClient, &m.Settled, &m.Approved, &m.Total,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		date, err := time.ParseInLocation(dateLayout, dateStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse snapshot date %q: %w", dateStr, err)
		}
		m.Date = date
		m.Team = team
		out = append(out, aggregator.DailyRow{Date: date, Team: model.TeamID(team), Metrics: m})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot: %w", err)
	}
	return out, nil
}

// InsertLoadLog records one completed load.
func (s *Store) InsertLoadLog(report *importer.LoadReport) error {
	_, err := s.db.Exec(`
		INSERT INTO load_log (job_id, sources, total_rows, total_skipped, duration_ms, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, report.JobID, len(report.Sources), report.TotalRows, report.TotalSkipped,
		report.Duration.Milliseconds(), report.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert load log: %w", err)
	}
	return nil
}

// LoadLogEntry is one row of the load history.
type LoadLogEntry struct {
	ID           int64     `json:"id"`
	JobID        string    `json:"jobId"`
	Sources      int       `json:"sources"`
	TotalRows    int       `json:"totalRows"`
	TotalSkipped int       `json:"totalSkipped"`
	DurationMS   int64     `json:"durationMs"`
	StartedAt    time.Time `json:"startedAt"`
}

// ListLoadLog returns the most recent load history entries, newest first.
func (s *Store) ListLoadLog(limit int) ([]LoadLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, job_id, sources, total_rows, total_skipped, duration_ms, started_at
		FROM load_log
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query load log: %w", err)
	}
	defer rows.Close()

	out := make([]LoadLogEntry, 0)
	for rows.Next() {
		var e LoadLogEntry
		if err := rows.Scan(&e.ID, &e.JobID, &e.Sources, &e.TotalRows, &e.TotalSkipped, &e.DurationMS, &e.StartedAt); err != nil {
			return nil, fmt.Errorf("scan load log row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate load log: %w", err)
	}
	return out, nil
}

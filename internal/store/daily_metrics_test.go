package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Igorofyeshu4/keepgoing/internal/aggregator"
	"github.com/Igorofyeshu4/keepgoing/internal/importer"
	"github.com/Igorofyeshu4/keepgoing/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "demandas.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func snapshotRow(date time.Time, team string, total int) aggregator.DailyRow {
	return aggregator.DailyRow{
		Date: date,
		Team: model.TeamID(team),
		Metrics: model.DailyMetrics{
			Date:     date,
			Team:     team,
			Resolved: total,
			Total:    total,
		},
	}
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	d1 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)

	in := []aggregator.DailyRow{
		snapshotRow(d1, "", 3),
		snapshotRow(d1, "EQUIPE JULIO", 2),
		snapshotRow(d2, "", 1),
	}
	if err := s.ReplaceDailyMetrics(in); err != nil {
		t.Fatalf("ReplaceDailyMetrics: %v", err)
	}

	out, err := s.ListDailyMetrics()
	if err != nil {
		t.Fatalf("ListDailyMetrics: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d rows, want 3", len(out))
	}
	if !out[0].Date.Equal(d1) || out[0].Team != "" || out[0].Metrics.Total != 3 {
		t.Fatalf("unexpected first row: %+v", out[0])
	}
	if out[1].Team != "EQUIPE JULIO" || out[1].Metrics.Resolved != 2 {
		t.Fatalf("unexpected second row: %+v", out[1])
	}
}

func TestStore_ReplaceDropsOldSnapshot(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	d := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	if err := s.ReplaceDailyMetrics([]aggregator.DailyRow{snapshotRow(d, "A", 5)}); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := s.ReplaceDailyMetrics([]aggregator.DailyRow{snapshotRow(d, "B", 1)}); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	out, err := s.ListDailyMetrics()
	if err != nil {
		t.Fatalf("ListDailyMetrics: %v", err)
	}
	if len(out) != 1 || out[0].Team != "B" {
		t.Fatalf("old snapshot survived: %+v", out)
	}
}

func TestStore_LoadLog(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	report := &importer.LoadReport{
		JobID:        "job-1",
		Sources:      []importer.SourceResult{{SourceID: "a"}, {SourceID: "b"}},
		TotalRows:    42,
		TotalSkipped: 3,
		Duration:     1500 * time.Millisecond,
		StartedAt:    time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC),
	}
	if err := s.InsertLoadLog(report); err != nil {
		t.Fatalf("InsertLoadLog: %v", err)
	}

	entries, err := s.ListLoadLog(10)
	if err != nil {
		t.Fatalf("ListLoadLog: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.JobID != "job-1" || e.Sources != 2 || e.TotalRows != 42 || e.TotalSkipped != 3 {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.DurationMS != 1500 {
		t.Fatalf("durationMs = %d", e.DurationMS)
	}
}

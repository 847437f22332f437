package exporter

import (
	"testing"
	"time"

	"github.com/Igorofyeshu4/keepgoing/internal/aggregator"
	"github.com/Igorofyeshu4/keepgoing/internal/model"
)

func TestBuild_HeaderAndRows(t *testing.T) {
	t.Parallel()

	d := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	rows := []aggregator.DailyRow{
		{
			Date: d,
			Team: "",
			Metrics: model.DailyMetrics{
				Resolved: 2, Total: 3, PrioritySum: 1.5,
			},
		},
		{
			Date: d,
			Team: "EQUIPE JULIO",
			Metrics: model.DailyMetrics{
				Resolved: 2, Total: 2,
			},
		},
	}

	f, err := Build(rows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}
	if got[0][0] != "DATA" || got[0][1] != "EQUIPE" {
		t.Fatalf("unexpected header: %v", got[0])
	}
	if got[1][0] != "10/01/2025" || got[1][1] != AllTeamsLabel {
		t.Fatalf("unexpected alias row: %v", got[1])
	}
	if got[1][2] != "2" || got[1][14] != "3" {
		t.Fatalf("unexpected alias metrics: %v", got[1])
	}
	if got[2][1] != "EQUIPE JULIO" {
		t.Fatalf("unexpected team row: %v", got[2])
	}
}

func TestBuild_EmptySnapshot(t *testing.T) {
	t.Parallel()

	f, err := Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("empty snapshot wrote %d rows", len(got))
	}
}

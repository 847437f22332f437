// Package exporter renders the aggregate snapshot as an xlsx workbook.
package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Igorofyeshu4/keepgoing/internal/aggregator"
)

// SheetName is the single sheet of the exported workbook.
const SheetName = "Metricas Diarias"

const dateLayout = "02/01/2006"

// AllTeamsLabel replaces the empty team of the all-teams alias row in the
// exported sheet.
const AllTeamsLabel = "TODAS"

var header = []string{
	"DATA", "EQUIPE",
	"RESOLVIDAS", "PENDENTE ATIVO", "PENDENTE RECEPTIVO",
	"PRIORIDADE", "PRIORIDADE TOTAL", "SOMA PRIORIDADE",
	"EM ANALISE", "EM ANALISE HOJE", "RECEPTIVO",
	"QUITADO CLIENTE", "QUITADO", "APROVADO", "TOTAL",
}

// Build renders the flattened daily rows into a workbook. Rows are written
// in the order given; DailyRows already sorts by date then team.
func Build(rows []aggregator.DailyRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeRow(f, 1, toCells(header)); err != nil {
		f.Close()
		return nil, err
	}

	for i, row := range rows {
		team := string(row.Team)
		if team == "" {
			team = AllTeamsLabel
		}
		m := row.Metrics
		cells := []interface{}{
			row.Date.Format(dateLayout), team,
			m.Resolved, m.PendingActive, m.PendingInbound,
			m.Priority, m.PriorityTotal, m.PrioritySum,
			m.InAnalysis, m.InAnalysisToday, m.Inbound,
			m.SettledByClient, m.Settled, m.Approved, m.Total,
		}
		if err := writeRow(f, i+2, cells); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeRow(f *excelize.File, rowNum int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

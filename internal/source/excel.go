package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook wraps an opened xlsx file. Each sheet with at least a header row
// becomes one Source.
type Workbook struct {
	path string
	file *excelize.File
}

// OpenWorkbook opens an xlsx file for reading.
func OpenWorkbook(path string) (*Workbook, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{path: path, file: file}, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Sources returns one Source per sheet. Sheets without a header row are
// skipped silently; fully empty workbooks yield an empty slice.
func (w *Workbook) Sources() ([]Source, error) {
	base := filepath.Base(w.path)
	sheets := w.file.GetSheetList()
	out := make([]Source, 0, len(sheets))

	for _, sheet := range sheets {
		header, err := w.headerRow(sheet)
		if err != nil {
			return nil, fmt.Errorf("read header of %s!%s: %w", base, sheet, err)
		}
		if len(header) == 0 {
			continue
		}
		out = append(out, &sheetSource{
			id:      fmt.Sprintf("%s#%s", base, sheet),
			file:    w.file,
			sheet:   sheet,
			columns: header,
		})
	}
	return out, nil
}

func (w *Workbook) headerRow(sheet string) ([]string, error) {
	rows, err := w.file.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Error()
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if !hasContent(header) {
		return nil, nil
	}
	return header, nil
}

func hasContent(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

// sheetSource streams one sheet of an open workbook. The workbook must stay
// open for the lifetime of the source.
type sheetSource struct {
	id      string
	file    *excelize.File
	sheet   string
	columns []string
}

func (s *sheetSource) ID() string        { return s.id }
func (s *sheetSource) Columns() []string { return s.columns }

func (s *sheetSource) Rows() (RowIter, error) {
	rows, err := s.file.Rows(s.sheet)
	if err != nil {
		return nil, fmt.Errorf("stream %s: %w", s.id, err)
	}
	// Skip the header row.
	if !rows.Next() {
		err := rows.Error()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("stream %s: %w", s.id, err)
		}
		return &sheetIter{rows: nil}, nil
	}
	return &sheetIter{rows: rows}, nil
}

type sheetIter struct {
	rows *excelize.Rows
	err  error
}

func (it *sheetIter) Next() ([]string, bool) {
	if it.rows == nil || it.err != nil {
		return nil, false
	}
	if !it.rows.Next() {
		it.err = it.rows.Error()
		return nil, false
	}
	row, err := it.rows.Columns()
	if err != nil {
		it.err = err
		return nil, false
	}
	return row, true
}

func (it *sheetIter) Err() error { return it.err }

func (it *sheetIter) Close() error {
	if it.rows == nil {
		return nil
	}
	return it.rows.Close()
}

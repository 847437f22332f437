package source

// MemorySource is an in-memory table, mostly for tests and synthetic loads.
type MemorySource struct {
	id      string
	columns []string
	rows    [][]string
}

// NewMemorySource builds a source from a header and data rows.
func NewMemorySource(id string, columns []string, rows [][]string) *MemorySource {
	return &MemorySource{id: id, columns: columns, rows: rows}
}

func (s *MemorySource) ID() string        { return s.id }
func (s *MemorySource) Columns() []string { return s.columns }

func (s *MemorySource) Rows() (RowIter, error) {
	return &memoryIter{rows: s.rows}, nil
}

type memoryIter struct {
	rows [][]string
	pos  int
}

func (it *memoryIter) Next() ([]string, bool) {
	if it.pos >= len(it.rows) {
		return nil, false
	}
	row := it.rows[it.pos]
	it.pos++
	return row, true
}

func (it *memoryIter) Err() error   { return nil }
func (it *memoryIter) Close() error { return nil }

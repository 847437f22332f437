// Package source abstracts the tabular inputs of the load pipeline. Every
// input, whatever its file format, is exposed as a header row plus a
// restartable iterator over data rows.
package source

// RowIter walks the data rows of one source. Next returns false at the end
// of input or on error; Err distinguishes the two after the loop.
type RowIter interface {
	Next() ([]string, bool)
	Err() error
	Close() error
}

// Source is one tabular input: a sheet of a workbook, a delimited file, or
// an in-memory table. Rows may be called more than once; each call restarts
// from the first data row.
type Source interface {
	ID() string
	Columns() []string
	Rows() (RowIter, error)
}

package source

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DelimitedSource reads a csv-like file. Exports from the upstream ticket
// systems come as either UTF-8 or Latin-1 with ';' or ',' separators, so
// both the encoding and the delimiter are probed from the first line.
type DelimitedSource struct {
	path    string
	id      string
	comma   rune
	latin1  bool
	columns []string
}

// OpenDelimited probes the file and reads its header row. delimiter 0 means
// auto-detect between ';' and ','.
func OpenDelimited(path string, delimiter rune) (*DelimitedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sample, firstLine, err := probe(f)
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	latin1 := !utf8.Valid(sample)
	if latin1 {
		decoded, err := charmap.ISO8859_1.NewDecoder().String(firstLine)
		if err != nil {
			return nil, fmt.Errorf("decode header of %s: %w", path, err)
		}
		firstLine = decoded
	}

	if delimiter == 0 {
		delimiter = detectDelimiter(firstLine)
	}

	r := csv.NewReader(strings.NewReader(firstLine))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("parse header of %s: %w", path, err)
	}

	return &DelimitedSource{
		path:    path,
		id:      filepath.Base(path),
		comma:   delimiter,
		latin1:  latin1,
		columns: header,
	}, nil
}

// probe reads the leading chunk of the file. The whole chunk feeds the
// encoding check; the first line feeds delimiter detection and the header.
func probe(f *os.File) (sample []byte, firstLine string, err error) {
	br := bufio.NewReader(f)
	sample = make([]byte, 4096)
	n, err := io.ReadFull(br, sample)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, "", err
	}
	sample = sample[:n]
	if n == 0 {
		return nil, "", io.ErrUnexpectedEOF
	}

	// A multi-byte UTF-8 sequence cut at the chunk boundary must not count
	// as invalid; trim trailing partial runes before validation.
	if n == 4096 {
		for len(sample) > 0 && !utf8.RuneStart(sample[len(sample)-1]) {
			sample = sample[:len(sample)-1]
		}
		if len(sample) > 0 {
			sample = sample[:len(sample)-1]
		}
	}

	line := string(sample)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	return sample, strings.TrimRight(line, "\r"), nil
}

// detectDelimiter picks the separator occurring more often in the header
// line, defaulting to ';' which the upstream exports use most.
func detectDelimiter(line string) rune {
	if strings.Count(line, ",") > strings.Count(line, ";") {
		return ','
	}
	return ';'
}

func (s *DelimitedSource) ID() string        { return s.id }
func (s *DelimitedSource) Columns() []string { return s.columns }

// Rows re-opens the file so the source can be iterated more than once.
func (s *DelimitedSource) Rows() (RowIter, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}

	var reader io.Reader = f
	if s.latin1 {
		reader = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}

	r := csv.NewReader(reader)
	r.Comma = s.comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	it := &delimitedIter{file: f, reader: r}
	// Skip the header row.
	if _, err := r.Read(); err != nil {
		f.Close()
		if err == io.EOF {
			return &delimitedIter{done: true}, nil
		}
		return nil, fmt.Errorf("read header of %s: %w", s.path, err)
	}
	return it, nil
}

type delimitedIter struct {
	file   *os.File
	reader *csv.Reader
	err    error
	done   bool
}

func (it *delimitedIter) Next() ([]string, bool) {
	if it.done || it.err != nil {
		return nil, false
	}
	row, err := it.reader.Read()
	if err == io.EOF {
		it.done = true
		return nil, false
	}
	if err != nil {
		it.err = err
		return nil, false
	}
	return row, true
}

func (it *delimitedIter) Err() error { return it.err }

func (it *delimitedIter) Close() error {
	if it.file == nil {
		return nil
	}
	return it.file.Close()
}

package importer

import (
	"errors"
	"testing"
	"time"

	"github.com/Igorofyeshu4/keepgoing/internal/aggregator"
	"github.com/Igorofyeshu4/keepgoing/internal/parser"
	"github.com/Igorofyeshu4/keepgoing/internal/source"
)

func newCoordinator(agg *aggregator.Aggregator, batchSize int) *Coordinator {
	resolver := parser.NewColumnResolver(parser.DefaultFieldCandidates())
	normalizer := parser.NewRecordNormalizer(
		parser.NewTeamClassifier(parser.DefaultRosters()),
		parser.NewStatusClassifier(parser.DefaultStatusPatterns(), parser.DefaultChannelPatterns()),
	)
	return NewCoordinator(agg, resolver, normalizer, Options{BatchSize: batchSize})
}

func demandSource(id string, rows [][]string) source.Source {
	return source.NewMemorySource(id, []string{"RESOLUCAO", "RESPONSAVEL", "SITUACAO"}, rows)
}

func TestCoordinator_LoadSingleSource(t *testing.T) {
	t.Parallel()

	agg := aggregator.New()
	c := newCoordinator(agg, 0)

	report := c.Load([]source.Source{demandSource("s1", [][]string{
		{"10/01/2025", "THALISSON", "RESOLVIDO"},
		{"10/01/2025", "AMANDA SANTANA", "PENDENTE"},
		{"", "", ""},
	})}, nil)

	if report.JobID == "" {
		t.Fatalf("missing job id")
	}
	if len(report.Sources) != 1 || report.Sources[0].Status != SourceLoaded {
		t.Fatalf("unexpected sources: %+v", report.Sources)
	}
	if report.TotalRows != 2 || report.TotalSkipped != 1 {
		t.Fatalf("rows=%d skipped=%d", report.TotalRows, report.TotalSkipped)
	}

	d := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	all := agg.Query(d, "")
	if all.Total != 2 || all.Resolved != 1 {
		t.Fatalf("aggregate wrong: %+v", all)
	}
}

func TestCoordinator_BatchSizeDoesNotChangeResults(t *testing.T) {
	t.Parallel()

	rows := make([][]string, 0, 25)
	for i := 0; i < 25; i++ {
		status := "PENDENTE"
		if i%3 == 0 {
			status = "RESOLVIDO"
		}
		rows = append(rows, []string{"10/01/2025", "IGOR", status})
	}

	small := aggregator.New()
	newCoordinator(small, 1).Load([]source.Source{demandSource("s", rows)}, nil)

	big := aggregator.New()
	newCoordinator(big, 10000).Load([]source.Source{demandSource("s", rows)}, nil)

	d := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	if small.Query(d, "") != big.Query(d, "") {
		t.Fatalf("batch size changed aggregates: %+v vs %+v", small.Query(d, ""), big.Query(d, ""))
	}
}

func TestCoordinator_SkipsSourceWithoutUsableColumns(t *testing.T) {
	t.Parallel()

	agg := aggregator.New()
	c := newCoordinator(agg, 0)

	s := source.NewMemorySource("bad", []string{"CTT", "BANCO"}, [][]string{{"1", "2"}})
	report := c.Load([]source.Source{s}, nil)

	if report.Sources[0].Status != SourceSkipped {
		t.Fatalf("unexpected status %q", report.Sources[0].Status)
	}
	if st := agg.Stats(); st.Records != 0 {
		t.Fatalf("skipped source aggregated records: %+v", st)
	}
}

type failingSource struct {
	*source.MemorySource
	failAfter int
}

func (s *failingSource) Rows() (source.RowIter, error) {
	inner, _ := s.MemorySource.Rows()
	return &failingIter{inner: inner, failAfter: s.failAfter}, nil
}

type failingIter struct {
	inner     source.RowIter
	failAfter int
	seen      int
	err       error
}

func (it *failingIter) Next() ([]string, bool) {
	if it.seen >= it.failAfter {
		it.err = errors.New("truncated stream")
		return nil, false
	}
	it.seen++
	return it.inner.Next()
}

func (it *failingIter) Err() error   { return it.err }
func (it *failingIter) Close() error { return it.inner.Close() }

func TestCoordinator_FailingSourceIsIsolated(t *testing.T) {
	t.Parallel()

	agg := aggregator.New()
	c := newCoordinator(agg, 0)

	bad := &failingSource{
		MemorySource: source.NewMemorySource("bad", []string{"RESOLUCAO", "RESPONSAVEL", "SITUACAO"}, [][]string{
			{"10/01/2025", "IGOR", "RESOLVIDO"},
		}),
		failAfter: 1,
	}
	good := demandSource("good", [][]string{
		{"11/01/2025", "ALINE", "PENDENTE"},
	})

	report := c.Load([]source.Source{bad, good}, nil)

	if report.Sources[0].Status != SourceError || report.Sources[0].Error == "" {
		t.Fatalf("bad source not reported: %+v", report.Sources[0])
	}
	if report.Sources[1].Status != SourceLoaded {
		t.Fatalf("good source affected: %+v", report.Sources[1])
	}

	d := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)
	if m := agg.Query(d, ""); m.Total != 1 {
		t.Fatalf("good source not aggregated: %+v", m)
	}
}

func TestCoordinator_NullDatesCounted(t *testing.T) {
	t.Parallel()

	agg := aggregator.New()
	c := newCoordinator(agg, 0)

	report := c.Load([]source.Source{demandSource("s", [][]string{
		{"sem data", "IGOR", "PENDENTE"},
		{"10/01/2025", "IGOR", "PENDENTE"},
	})}, nil)

	if report.Sources[0].NullDates != 1 {
		t.Fatalf("nullDates=%d, want 1", report.Sources[0].NullDates)
	}
	min, max, ok := agg.DateRange()
	if !ok {
		t.Fatalf("no date range")
	}
	d := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	if !min.Equal(d) || !max.Equal(d) {
		t.Fatalf("null date leaked into range: [%v, %v]", min, max)
	}
}

func TestCoordinator_ProgressEvents(t *testing.T) {
	t.Parallel()

	agg := aggregator.New()
	c := newCoordinator(agg, 0)

	progress := make(chan ProgressEvent, 100)
	c.Load([]source.Source{demandSource("s", [][]string{
		{"10/01/2025", "IGOR", "RESOLVIDO"},
	})}, progress)
	close(progress)

	types := make([]string, 0, 4)
	for ev := range progress {
		types = append(types, ev.Type)
	}
	want := []string{"start", "source_start", "source_done", "done"}
	if len(types) != len(want) {
		t.Fatalf("got events %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("event %d = %q, want %q", i, types[i], want[i])
		}
	}
}

package aggregator

import (
	"testing"
	"time"

	"github.com/Igorofyeshu4/keepgoing/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dated(t time.Time) *time.Time { return &t }

func rec(date *time.Time, team model.TeamID, status model.StatusSet, ch model.Channel) model.CanonicalRecord {
	return model.CanonicalRecord{
		SourceID:    "test",
		Date:        date,
		Responsible: "IGOR",
		Team:        team,
		Status:      status,
		Channel:     ch,
	}
}

func statusOf(cats ...model.StatusCategory) model.StatusSet {
	s := model.StatusSet{}
	for _, c := range cats {
		s.Add(c)
	}
	return s
}

func TestAggregator_EmptyStateQueriesZero(t *testing.T) {
	t.Parallel()

	a := New()

	m := a.Query(day(2025, 1, 10), "EQUIPE JULIO")
	if m.Total != 0 || m.Resolved != 0 {
		t.Fatalf("empty aggregator returned non-zero: %+v", m)
	}
	if _, _, ok := a.DateRange(); ok {
		t.Fatalf("empty aggregator reported a date range")
	}
	if teams := a.Teams(); len(teams) != 0 {
		t.Fatalf("empty aggregator reported teams: %v", teams)
	}
}

func TestAggregator_AddScopesAndAlias(t *testing.T) {
	t.Parallel()

	a := New()
	d := day(2025, 1, 10)

	a.Add(rec(dated(d), "EQUIPE JULIO", statusOf(model.StatusResolved), model.ChannelActive))
	a.Add(rec(dated(d), "EQUIPE LEANDRO E ADRIANO", statusOf(model.StatusPending), model.ChannelActive))
	a.Add(rec(dated(d), "EQUIPE LEANDRO E ADRIANO", statusOf(model.StatusPending), model.ChannelInbound))

	julio := a.Query(d, "EQUIPE JULIO")
	if julio.Resolved != 1 || julio.Total != 1 {
		t.Fatalf("unexpected julio metrics: %+v", julio)
	}

	leandro := a.Query(d, "EQUIPE LEANDRO E ADRIANO")
	if leandro.PendingActive != 1 || leandro.PendingInbound != 1 || leandro.Total != 2 {
		t.Fatalf("unexpected leandro metrics: %+v", leandro)
	}
	if leandro.Inbound != 1 {
		t.Fatalf("inbound miscounted: %+v", leandro)
	}

	all := a.Query(d, "")
	if all.Total != 3 || all.Resolved != 1 || all.PendingActive != 1 || all.PendingInbound != 1 {
		t.Fatalf("all-teams alias broken: %+v", all)
	}
}

func TestAggregator_NonExclusiveStatusCounts(t *testing.T) {
	t.Parallel()

	a := New()
	d := day(2025, 1, 10)

	a.Add(rec(dated(d), "EQUIPE JULIO",
		statusOf(model.StatusApproved, model.StatusSettled, model.StatusSettledClient),
		model.ChannelUnknown))

	m := a.Query(d, "EQUIPE JULIO")
	if m.Approved != 1 || m.Settled != 1 || m.SettledByClient != 1 {
		t.Fatalf("non-exclusive tags lost: %+v", m)
	}
	if m.Total != 1 {
		t.Fatalf("one record counted %d times", m.Total)
	}
}

func TestAggregator_PriorityCounters(t *testing.T) {
	t.Parallel()

	a := New()
	d := day(2025, 1, 10)

	zero, two := 0.0, 2.5
	r1 := rec(dated(d), "EQUIPE JULIO", statusOf(model.StatusPending), model.ChannelActive)
	r1.Priority = &zero
	r2 := rec(dated(d), "EQUIPE JULIO", statusOf(model.StatusPending), model.ChannelActive)
	r2.Priority = &two
	r3 := rec(dated(d), "EQUIPE JULIO", statusOf(model.StatusPending), model.ChannelActive)

	a.Add(r1)
	a.Add(r2)
	a.Add(r3)

	m := a.Query(d, "EQUIPE JULIO")
	if m.PriorityTotal != 2 {
		t.Fatalf("priorityTotal = %d, want 2", m.PriorityTotal)
	}
	if m.Priority != 1 {
		t.Fatalf("priority = %d, want 1", m.Priority)
	}
	if m.PrioritySum != 2.5 {
		t.Fatalf("prioritySum = %v, want 2.5", m.PrioritySum)
	}
}

func TestAggregator_NullDateRecords(t *testing.T) {
	t.Parallel()

	a := New()
	a.Add(rec(nil, "EQUIPE JULIO", statusOf(model.StatusResolved), model.ChannelActive))

	if _, _, ok := a.DateRange(); ok {
		t.Fatalf("null-date record extended the date range")
	}
	st := a.Stats()
	if st.Records != 1 || st.RecordsNoDate != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	// The team is still observable even with no dated record.
	if teams := a.Teams(); len(teams) != 1 || teams[0] != "EQUIPE JULIO" {
		t.Fatalf("unexpected teams: %v", teams)
	}
}

func TestAggregator_DateRange(t *testing.T) {
	t.Parallel()

	a := New()
	a.Add(rec(dated(day(2025, 1, 15)), "A", statusOf(model.StatusResolved), model.ChannelActive))
	a.Add(rec(dated(day(2025, 1, 3)), "A", statusOf(model.StatusResolved), model.ChannelActive))
	a.Add(rec(dated(day(2025, 2, 1)), "A", statusOf(model.StatusResolved), model.ChannelActive))

	min, max, ok := a.DateRange()
	if !ok {
		t.Fatalf("no date range reported")
	}
	if !min.Equal(day(2025, 1, 3)) || !max.Equal(day(2025, 2, 1)) {
		t.Fatalf("range [%v, %v]", min, max)
	}
}

func TestAggregator_MergeEqualsSequentialAdds(t *testing.T) {
	t.Parallel()

	d1, d2 := day(2025, 1, 10), day(2025, 1, 11)
	records := []model.CanonicalRecord{
		rec(dated(d1), "A", statusOf(model.StatusResolved), model.ChannelActive),
		rec(dated(d1), "B", statusOf(model.StatusPending), model.ChannelInbound),
		rec(dated(d2), "A", statusOf(model.StatusSettled), model.ChannelUnknown),
		rec(nil, "C", statusOf(), model.ChannelUnknown),
	}

	sequential := New()
	for _, r := range records {
		sequential.Add(r)
	}

	left, right := New(), New()
	left.Add(records[0])
	left.Add(records[3])
	right.Add(records[1])
	right.Add(records[2])
	merged := New()
	merged.Merge(left)
	merged.Merge(right)

	for _, d := range []time.Time{d1, d2} {
		for _, team := range []model.TeamID{"", "A", "B", "C"} {
			got, want := merged.Query(d, team), sequential.Query(d, team)
			if got != want {
				t.Fatalf("merge mismatch at (%v, %q): got %+v want %+v", d, team, got, want)
			}
		}
	}
	if merged.Stats() != sequential.Stats() {
		t.Fatalf("stats mismatch: %+v vs %+v", merged.Stats(), sequential.Stats())
	}
	gmin, gmax, _ := merged.DateRange()
	smin, smax, _ := sequential.DateRange()
	if !gmin.Equal(smin) || !gmax.Equal(smax) {
		t.Fatalf("range mismatch: [%v %v] vs [%v %v]", gmin, gmax, smin, smax)
	}
}

func TestAggregator_ResponsibleTotals(t *testing.T) {
	t.Parallel()

	a := New()
	d := day(2025, 1, 10)

	r1 := rec(dated(d), "A", statusOf(model.StatusResolved), model.ChannelActive)
	r1.Responsible = "IGOR"
	r2 := rec(dated(d), "A", statusOf(model.StatusPending), model.ChannelActive)
	r2.Responsible = "ALINE"
	r3 := rec(dated(d), "A", statusOf(model.StatusResolved), model.ChannelActive)
	r3.Responsible = "ALINE"

	a.Add(r1)
	a.Add(r2)
	a.Add(r3)

	totals := a.ResponsibleTotals(d)
	if len(totals) != 2 {
		t.Fatalf("got %d responsibles, want 2", len(totals))
	}
	if totals[0].Responsible != "ALINE" || totals[0].Metrics.Total != 2 {
		t.Fatalf("unexpected first responsible: %+v", totals[0])
	}
	if totals[1].Responsible != "IGOR" || totals[1].Metrics.Total != 1 {
		t.Fatalf("unexpected second responsible: %+v", totals[1])
	}
}

func TestAggregator_DailyRowsSorted(t *testing.T) {
	t.Parallel()

	a := New()
	a.Add(rec(dated(day(2025, 1, 11)), "B", statusOf(model.StatusResolved), model.ChannelActive))
	a.Add(rec(dated(day(2025, 1, 10)), "A", statusOf(model.StatusPending), model.ChannelActive))

	rows := a.DailyRows()
	// Two dates, each with an all-teams alias row plus one team row.
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if !rows[0].Date.Equal(day(2025, 1, 10)) || rows[0].Team != "" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Team != "A" {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
	if !rows[2].Date.Equal(day(2025, 1, 11)) || rows[2].Team != "" {
		t.Fatalf("unexpected third row: %+v", rows[2])
	}
}

func TestAggregator_Reset(t *testing.T) {
	t.Parallel()

	a := New()
	d := day(2025, 1, 10)
	a.Add(rec(dated(d), "A", statusOf(model.StatusResolved), model.ChannelActive))
	a.Reset()

	if m := a.Query(d, "A"); m.Total != 0 {
		t.Fatalf("state survived reset: %+v", m)
	}
	if st := a.Stats(); st.Records != 0 {
		t.Fatalf("stats survived reset: %+v", st)
	}
}

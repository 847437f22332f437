package aggregator

import (
	"sort"
	"sync"
	"time"

	"github.com/Igorofyeshu4/keepgoing/internal/model"
)

// counters holds the per-scope metric tally. Field-wise addition keeps merge
// commutative and associative, so merge order between workers is irrelevant.
type counters struct {
	resolved        int
	pendingActive   int
	pendingInbound  int
	priority        int
	priorityTotal   int
	prioritySum     float64
	inAnalysis      int
	inAnalysisToday int
	inbound         int
	settledClient   int
	settled         int
	approved        int
	total           int
}

func (c *counters) add(o *counters) {
	c.resolved += o.resolved
	c.pendingActive += o.pendingActive
	c.pendingInbound += o.pendingInbound
	c.priority += o.priority
	c.priorityTotal += o.priorityTotal
	c.prioritySum += o.prioritySum
	c.inAnalysis += o.inAnalysis
	c.inAnalysisToday += o.inAnalysisToday
	c.inbound += o.inbound
	c.settledClient += o.settledClient
	c.settled += o.settled
	c.approved += o.approved
	c.total += o.total
}

type teamKey struct {
	date time.Time
	team model.TeamID
}

type respKey struct {
	date        time.Time
	responsible string
}

// Stats is the non-date-scoped bookkeeping of the aggregator.
type Stats struct {
	Records        int `json:"records"`
	RecordsNoDate  int `json:"recordsNoDate"`
	DistinctTeams  int `json:"distinctTeams"`
	DistinctScopes int `json:"distinctScopes"`
}

// ResponsibleTotal is one responsible's aggregate for a date.
type ResponsibleTotal struct {
	Responsible string             `json:"responsible"`
	Metrics     model.DailyMetrics `json:"metrics"`
}

// DailyRow is one flattened scope of the exported aggregate table. Team is
// empty for the "all teams" alias.
type DailyRow struct {
	Date    time.Time          `json:"date"`
	Team    model.TeamID       `json:"team"`
	Metrics model.DailyMetrics `json:"metrics"`
}

// Aggregator merges canonical records from all sources into running per-scope
// counters. It exclusively owns the only long-lived mutable state of the
// pipeline; the mutex serializes updates against concurrent reads from the
// query surface.
type Aggregator struct {
	mu sync.RWMutex

	byDate        map[time.Time]*counters
	byTeam        map[teamKey]*counters
	byResponsible map[respKey]*counters

	teams map[model.TeamID]struct{}

	minDate  time.Time
	maxDate  time.Time
	hasDates bool

	records       int
	recordsNoDate int
}

// New creates an empty aggregator.
func New() *Aggregator {
	return &Aggregator{
		byDate:        make(map[time.Time]*counters),
		byTeam:        make(map[teamKey]*counters),
		byResponsible: make(map[respKey]*counters),
		teams:         make(map[model.TeamID]struct{}),
	}
}

// Add accumulates one canonical record into every applicable scope: its own
// (date, team), its (date, responsible), and the all-teams alias for the date.
// Records without a date still register the team and the record count but are
// excluded from date-scoped counters and from the date range.
func (a *Aggregator) Add(rec model.CanonicalRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.records++
	a.teams[rec.Team] = struct{}{}

	if rec.Date == nil {
		a.recordsNoDate++
		return
	}
	date := *rec.Date

	delta := deltaFor(rec)
	a.scope(a.byDate, date).add(&delta)
	a.teamScope(teamKey{date: date, team: rec.Team}).add(&delta)
	a.respScope(respKey{date: date, responsible: rec.Responsible}).add(&delta)

	if !a.hasDates || date.Before(a.minDate) {
		a.minDate = date
	}
	if !a.hasDates || date.After(a.maxDate) {
		a.maxDate = date
	}
	a.hasDates = true
}

func (a *Aggregator) scope(m map[time.Time]*counters, date time.Time) *counters {
	c, ok := m[date]
	if !ok {
		c = &counters{}
		m[date] = c
	}
	return c
}

func (a *Aggregator) teamScope(key teamKey) *counters {
	c, ok := a.byTeam[key]
	if !ok {
		c = &counters{}
		a.byTeam[key] = c
	}
	return c
}

func (a *Aggregator) respScope(key respKey) *counters {
	c, ok := a.byResponsible[key]
	if !ok {
		c = &counters{}
		a.byResponsible[key] = c
	}
	return c
}

// deltaFor derives the counter contribution of one record. Categories are
// non-exclusive: one record may increment several counters.
func deltaFor(rec model.CanonicalRecord) counters {
	var d counters
	d.total = 1

	if rec.Status.Has(model.StatusResolved) {
		d.resolved = 1
	}
	if rec.Status.Has(model.StatusSettled) {
		d.settled = 1
	}
	if rec.Status.Has(model.StatusSettledClient) {
		d.settledClient = 1
	}
	if rec.Status.Has(model.StatusApproved) {
		d.approved = 1
	}
	if rec.Status.Has(model.StatusInAnalysis) {
		d.inAnalysis = 1
		// The scope key is the record's own date, so in-analysis-today and
		// in-analysis coincide per scope; kept separate for non-date scopes.
		d.inAnalysisToday = 1
	}
	if rec.Channel == model.ChannelInbound {
		d.inbound = 1
	}
	if rec.Status.Has(model.StatusPending) {
		switch rec.Channel {
		case model.ChannelActive:
			d.pendingActive = 1
		case model.ChannelInbound:
			d.pendingInbound = 1
		}
	}
	if rec.Priority != nil {
		d.priorityTotal = 1
		d.prioritySum += *rec.Priority
		if *rec.Priority > 0 {
			d.priority = 1
		}
	}
	return d
}

// Query sums the scope's counters into a flat metrics record. Team empty
// means "all teams". An absent scope (including queries before any load)
// yields a zero-valued result, never an error.
func (a *Aggregator) Query(date time.Time, team model.TeamID) model.DailyMetrics {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var c *counters
	if team == "" {
		c = a.byDate[date]
	} else {
		c = a.byTeam[teamKey{date: date, team: team}]
	}
	if c == nil {
		c = &counters{}
	}
	return toMetrics(date, string(team), c)
}

func toMetrics(date time.Time, team string, c *counters) model.DailyMetrics {
	return model.DailyMetrics{
		Date:            date,
		Team:            team,
		Resolved:        c.resolved,
		PendingActive:   c.pendingActive,
		PendingInbound:  c.pendingInbound,
		Priority:        c.priority,
		PriorityTotal:   c.priorityTotal,
		PrioritySum:     c.prioritySum,
		InAnalysis:      c.inAnalysis,
		InAnalysisToday: c.inAnalysisToday,
		Inbound:         c.inbound,
		SettledByClient: c.settledClient,
		Settled:         c.settled,
		Approved:        c.approved,
		Total:           c.total,
	}
}

// Teams returns the distinct team labels observed so far, sorted.
func (a *Aggregator) Teams() []model.TeamID {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]model.TeamID, 0, len(a.teams))
	for t := range a.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DateRange returns the minimum and maximum non-null canonical date observed.
// ok is false when no dated record was ever added.
func (a *Aggregator) DateRange() (min, max time.Time, ok bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.minDate, a.maxDate, a.hasDates
}

// ResponsibleTotals returns the per-responsible aggregates for one date,
// ordered by record count descending, then name.
func (a *Aggregator) ResponsibleTotals(date time.Time) []ResponsibleTotal {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]ResponsibleTotal, 0)
	for key, c := range a.byResponsible {
		if !key.date.Equal(date) {
			continue
		}
		out = append(out, ResponsibleTotal{
			Responsible: key.responsible,
			Metrics:     toMetrics(date, "", c),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Metrics.Total != out[j].Metrics.Total {
			return out[i].Metrics.Total > out[j].Metrics.Total
		}
		return out[i].Responsible < out[j].Responsible
	})
	return out
}

// DailyRows flattens the aggregate state into the exported table: one row per
// (date, team) scope plus the all-teams alias row (empty team), sorted by
// date then team.
func (a *Aggregator) DailyRows() []DailyRow {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rows := make([]DailyRow, 0, len(a.byDate)+len(a.byTeam))
	for date, c := range a.byDate {
		rows = append(rows, DailyRow{Date: date, Team: "", Metrics: toMetrics(date, "", c)})
	}
	for key, c := range a.byTeam {
		rows = append(rows, DailyRow{Date: key.date, Team: key.team, Metrics: toMetrics(key.date, string(key.team), c)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].Team < rows[j].Team
	})
	return rows
}

// Merge adds another aggregator's counters into this one. Used to combine
// per-worker aggregators; plain counter addition, so merge order is
// irrelevant.
func (a *Aggregator) Merge(other *Aggregator) {
	other.mu.RLock()
	defer other.mu.RUnlock()
	a.mu.Lock()
	defer a.mu.Unlock()

	for date, c := range other.byDate {
		a.scope(a.byDate, date).add(c)
	}
	for key, c := range other.byTeam {
		a.teamScope(key).add(c)
	}
	for key, c := range other.byResponsible {
		a.respScope(key).add(c)
	}
	for t := range other.teams {
		a.teams[t] = struct{}{}
	}
	if other.hasDates {
		if !a.hasDates || other.minDate.Before(a.minDate) {
			a.minDate = other.minDate
		}
		if !a.hasDates || other.maxDate.After(a.maxDate) {
			a.maxDate = other.maxDate
		}
		a.hasDates = true
	}
	a.records += other.records
	a.recordsNoDate += other.recordsNoDate
}

// Stats reports the non-date-scoped bookkeeping.
func (a *Aggregator) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Stats{
		Records:        a.records,
		RecordsNoDate:  a.recordsNoDate,
		DistinctTeams:  len(a.teams),
		DistinctScopes: len(a.byTeam),
	}
}

// Reset drops all accumulated state.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.byDate = make(map[time.Time]*counters)
	a.byTeam = make(map[teamKey]*counters)
	a.byResponsible = make(map[respKey]*counters)
	a.teams = make(map[model.TeamID]struct{})
	a.minDate, a.maxDate, a.hasDates = time.Time{}, time.Time{}, false
	a.records, a.recordsNoDate = 0, 0
}

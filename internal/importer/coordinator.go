// Package importer drives the load pipeline: it walks each source in
// bounded batches, normalizes rows into canonical records and feeds them to
// the aggregator, reporting progress along the way.
package importer

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Igorofyeshu4/keepgoing/internal/aggregator"
	"github.com/Igorofyeshu4/keepgoing/internal/model"
	"github.com/Igorofyeshu4/keepgoing/internal/parser"
	"github.com/Igorofyeshu4/keepgoing/internal/source"
)

// DefaultBatchSize bounds how many rows are normalized per batch before the
// aggregator is touched. Memory stays proportional to the batch, never to
// the source.
const DefaultBatchSize = 1000

// Source load outcomes.
const (
	SourceLoaded  = "loaded"
	SourceSkipped = "skipped"
	SourceError   = "error"
)

// Options configures a Coordinator.
type Options struct {
	BatchSize int
}

// ProgressEvent is one step of a running load.
type ProgressEvent struct {
	Type      string      `json:"type"` // start/source_start/source_done/done/error
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// SourceResult is the per-source outcome of a load.
type SourceResult struct {
	SourceID    string        `json:"sourceId"`
	Status      string        `json:"status"`
	Rows        int           `json:"rows"`
	SkippedRows int           `json:"skippedRows"`
	NullDates   int           `json:"nullDates"`
	Error       string        `json:"error,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// LoadReport summarizes one whole load across all sources.
type LoadReport struct {
	JobID        string         `json:"jobId"`
	Sources      []SourceResult `json:"sources"`
	TotalRows    int            `json:"totalRows"`
	TotalSkipped int            `json:"totalSkipped"`
	Duration     time.Duration  `json:"duration"`
	StartedAt    time.Time      `json:"startedAt"`
}

// Coordinator runs loads against one aggregator. A failing source never
// aborts the load; its result carries the error and the remaining sources
// proceed.
type Coordinator struct {
	agg        *aggregator.Aggregator
	resolver   *parser.ColumnResolver
	normalizer *parser.RecordNormalizer
	batchSize  int
}

// NewCoordinator wires the pipeline stages together.
func NewCoordinator(agg *aggregator.Aggregator, resolver *parser.ColumnResolver, normalizer *parser.RecordNormalizer, opts Options) *Coordinator {
	batch := opts.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	return &Coordinator{
		agg:        agg,
		resolver:   resolver,
		normalizer: normalizer,
		batchSize:  batch,
	}
}

// Load processes all sources sequentially and returns the report. progress
// may be nil; when set, events are sent non-blocking and dropped if the
// receiver lags.
func (c *Coordinator) Load(sources []source.Source, progress chan<- ProgressEvent) *LoadReport {
	started := time.Now()
	report := &LoadReport{
		JobID:     uuid.New().String(),
		Sources:   make([]SourceResult, 0, len(sources)),
		StartedAt: started,
	}

	c.sendProgress(progress, ProgressEvent{
		Type:      "start",
		Message:   fmt.Sprintf("loading %d sources", len(sources)),
		Timestamp: time.Now(),
	})

	for _, s := range sources {
		c.sendProgress(progress, ProgressEvent{
			Type:      "source_start",
			Message:   s.ID(),
			Timestamp: time.Now(),
		})

		result := c.loadSource(s)
		report.Sources = append(report.Sources, result)
		report.TotalRows += result.Rows
		report.TotalSkipped += result.SkippedRows

		if result.Status == SourceError {
			log.Printf("importer: source %s failed: %s", result.SourceID, result.Error)
		}
		c.sendProgress(progress, ProgressEvent{
			Type:      "source_done",
			Message:   s.ID(),
			Data:      result,
			Timestamp: time.Now(),
		})
	}

	report.Duration = time.Since(started)
	c.sendProgress(progress, ProgressEvent{
		Type:      "done",
		Message:   fmt.Sprintf("loaded %d rows from %d sources", report.TotalRows, len(sources)),
		Data:      report,
		Timestamp: time.Now(),
	})
	return report
}

// loadSource runs the batch loop for one source. Sources whose header
// resolves neither a date nor a status column carry no usable demand data
// and are skipped whole.
func (c *Coordinator) loadSource(s source.Source) SourceResult {
	started := time.Now()
	result := SourceResult{SourceID: s.ID()}

	mapping := c.resolver.Resolve(s.Columns())
	if !mapping.Resolved(parser.FieldDate) && !mapping.Resolved(parser.FieldStatus) {
		result.Status = SourceSkipped
		result.Duration = time.Since(started)
		return result
	}

	it, err := s.Rows()
	if err != nil {
		result.Status = SourceError
		result.Error = err.Error()
		result.Duration = time.Since(started)
		return result
	}
	defer it.Close()

	batch := make([]model.CanonicalRecord, 0, c.batchSize)
	rowIndex := 0
	for {
		row, ok := it.Next()
		if !ok {
			break
		}
		rowIndex++

		rec, err := c.normalizer.Normalize(s.ID(), rowIndex, row, mapping)
		if err != nil {
			result.SkippedRows++
			continue
		}
		if rec.Date == nil {
			result.NullDates++
		}

		batch = append(batch, rec)
		if len(batch) >= c.batchSize {
			c.flush(batch)
			result.Rows += len(batch)
			batch = batch[:0]
		}
	}
	if err := it.Err(); err != nil {
		// Rows already flushed stay aggregated; the result records the
		// failure point.
		result.Status = SourceError
		result.Error = err.Error()
		result.Duration = time.Since(started)
		return result
	}

	c.flush(batch)
	result.Rows += len(batch)
	result.Status = SourceLoaded
	result.Duration = time.Since(started)
	return result
}

func (c *Coordinator) flush(batch []model.CanonicalRecord) {
	for _, rec := range batch {
		c.agg.Add(rec)
	}
}

func (c *Coordinator) sendProgress(ch chan<- ProgressEvent, event ProgressEvent) {
	if ch == nil {
		return
	}
	select {
	case ch <- event:
	default:
		// Receiver lagging; drop the event.
	}
}

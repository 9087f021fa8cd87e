// Package batch feeds several archives through one engine into a single
// record sink, so overlapping exports produce one de-duplicated ledger.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"mmony/momo-csv/internal/archiveparser"
	"mmony/momo-csv/internal/engine"
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"
	"mmony/momo-csv/internal/sink"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format("2006-01-02"),
		dr.End.Format("2006-01-02"))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// ArchiveSummary describes one archive of a batch.
type ArchiveSummary struct {
	File         string
	Messages     int
	Added        int
	Failures     int
	Unrecognized int
}

// Summary is the combined outcome of a batch.
type Summary struct {
	Records      *sink.Sink
	Failures     []models.FailureRecord
	Unrecognized []models.RawMessage
	Stats        models.CategoryStats
	Archives     []ArchiveSummary
	// Skipped lists archives that could not be loaded.
	Skipped   []string
	DateRange DateRange
}

// Aggregator runs archives through the engine in the order given.
type Aggregator struct {
	loader *archiveparser.Loader
	engine *engine.Engine
	logger logging.Logger
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(loader *archiveparser.Loader, eng *engine.Engine, logger logging.Logger) *Aggregator {
	logger = logging.OrDefault(logger)
	if loader == nil {
		loader = archiveparser.New(logger)
	}
	if eng == nil {
		eng = engine.New(nil, nil, logger, engine.Options{})
	}
	return &Aggregator{loader: loader, engine: eng, logger: logger}
}

// Aggregate loads each archive and upserts its records into dst (a fresh
// sink when nil). A failed or unrecognized message repeated across archives
// is reported once. An unreadable archive is logged and skipped; the other
// archives are still processed. Only context cancellation aborts the batch.
func (a *Aggregator) Aggregate(ctx context.Context, files []string, dst *sink.Sink) (*Summary, error) {
	if dst == nil {
		dst = sink.New()
	}
	summary := &Summary{Records: dst, Stats: *models.NewCategoryStats()}
	duplicatesBefore := dst.Duplicates()

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		messages, err := a.loader.Load(file)
		if err != nil {
			a.logger.WithError(err).Error("Failed to load archive, skipping",
				logging.F(logging.FieldFile, file))
			summary.Skipped = append(summary.Skipped, file)
			continue
		}

		res, err := a.engine.RunInto(ctx, messages, dst)
		if err != nil {
			return nil, fmt.Errorf("processing %s: %w", file, err)
		}

		summary.Failures = models.MergeFailures(summary.Failures, res.Failures)
		summary.Unrecognized = models.MergeMessages(summary.Unrecognized, res.Unrecognized)
		summary.Stats.Add(res.Stats)
		summary.Archives = append(summary.Archives, ArchiveSummary{
			File:         file,
			Messages:     res.Stats.Total,
			Added:        res.Added,
			Failures:     len(res.Failures),
			Unrecognized: len(res.Unrecognized),
		})

		a.logger.Debug("Archive aggregated",
			logging.F(logging.FieldFile, filepath.Base(file)),
			logging.F(logging.FieldCount, res.Stats.Total),
			logging.F("added", res.Added))
	}

	summary.DateRange = CalculateDateRange(dst)

	if overlap := dst.Duplicates() - duplicatesBefore; overlap > 0 {
		a.logger.Info("Dropped records already present from overlapping archives",
			logging.F(logging.FieldCount, overlap))
	}
	a.logger.Info("Batch aggregated",
		logging.F("archives", len(summary.Archives)),
		logging.F("skipped", len(summary.Skipped)),
		logging.F(logging.FieldCount, dst.Len()),
		logging.F("date_range", summary.DateRange.String()))

	return summary, nil
}

// CalculateDateRange returns the span of occurrence times in the sink.
// Records without a timestamp are ignored.
func CalculateDateRange(records *sink.Sink) DateRange {
	var dr DateRange
	for tx := range records.All() {
		at := tx.Common().OccurredAt
		if at.IsZero() {
			continue
		}
		dr = dr.Merge(DateRange{Start: at.Time, End: at.Time})
	}
	return dr
}

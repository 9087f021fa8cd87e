// Package engine drives one batch of messages through classification,
// extraction, the failure ledger and the record sink.
package engine

import (
	"context"
	"errors"
	"iter"
	"time"

	"mmony/momo-csv/internal/classifier"
	"mmony/momo-csv/internal/extractor"
	"mmony/momo-csv/internal/ledger"
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"
	"mmony/momo-csv/internal/parsererror"
	"mmony/momo-csv/internal/sink"

	"github.com/google/uuid"
)

// Options tunes batch processing.
type Options struct {
	// Workers is the number of goroutines used for large batches.
	// Zero means runtime.NumCPU().
	Workers int
	// SequentialThreshold is the batch size below which no goroutines are
	// started. Zero means DefaultSequentialThreshold.
	SequentialThreshold int
}

// Result is everything one run produces. A run always yields records,
// failures and stats together; Discrepancy is a non-fatal audit warning.
type Result struct {
	RunID        uuid.UUID
	Records      *sink.Sink
	Added        int
	Failures     []models.FailureRecord
	Unrecognized []models.RawMessage
	Stats        models.CategoryStats
	Discrepancy  *parsererror.ClassificationDiscrepancy
	StartedAt    time.Time
	Duration     time.Duration
}

// Engine wires the classifier and extractor together. It holds no per-run
// state and may be reused.
type Engine struct {
	classifier *classifier.Classifier
	extractor  *extractor.Extractor
	processor  *processor
	logger     logging.Logger
}

// New creates an Engine. Nil collaborators get defaults.
func New(c *classifier.Classifier, x *extractor.Extractor, logger logging.Logger, opts Options) *Engine {
	logger = logging.OrDefault(logger)
	if c == nil {
		c = classifier.New(logger)
	}
	if x == nil {
		x = extractor.New(logger)
	}
	return &Engine{
		classifier: c,
		extractor:  x,
		processor:  newProcessor(logger, opts.Workers, opts.SequentialThreshold),
		logger:     logger,
	}
}

// Run processes messages into a fresh sink.
func (e *Engine) Run(ctx context.Context, messages iter.Seq[models.RawMessage]) (*Result, error) {
	return e.RunInto(ctx, messages, sink.New())
}

// RunInto processes messages and upserts the extracted records into dst, so
// several archives or a previous export can share one sink. Result.Added
// counts only records new to dst.
//
// The sequence is drained before any extraction starts. Per-message
// failures are returned as data; the only errors are context cancellation
// and a nil sequence.
func (e *Engine) RunInto(ctx context.Context, messages iter.Seq[models.RawMessage], dst *sink.Sink) (*Result, error) {
	if messages == nil {
		return nil, errors.New("engine: nil message sequence")
	}
	if dst == nil {
		dst = sink.New()
	}

	started := time.Now()
	runID := uuid.New()
	log := e.logger.WithField(logging.FieldRunID, runID.String())

	var msgs []models.RawMessage
	for m := range messages {
		msgs = append(msgs, m)
	}

	chunks, err := e.processor.process(ctx, msgs, e.handle)
	if err != nil {
		return nil, err
	}

	total := ledger.New()
	res := &Result{
		RunID:     runID,
		Records:   dst,
		StartedAt: started,
	}
	for _, ch := range chunks {
		total.Merge(ch.ledger)
		for i, out := range ch.outcomes {
			switch {
			case out.tx != nil:
				if dst.Add(out.tx) {
					res.Added++
				}
			case out.category == models.CategoryUnrecognized:
				res.Unrecognized = append(res.Unrecognized, msgs[ch.start+i])
			}
		}
	}

	res.Failures = total.Failures()
	res.Stats = total.Stats(len(msgs))
	res.Discrepancy = total.Check(len(msgs))
	res.Duration = time.Since(started)

	if res.Discrepancy != nil {
		log.Warn("Classification counts do not reconcile",
			logging.Field{Key: logging.FieldTotal, Value: res.Discrepancy.Total},
			logging.Field{Key: logging.FieldDiscrepancy, Value: res.Discrepancy.Delta})
	}
	log.Info("Batch processed",
		logging.Field{Key: logging.FieldTotal, Value: len(msgs)},
		logging.Field{Key: "added", Value: res.Added},
		logging.Field{Key: logging.FieldFailures, Value: len(res.Failures)},
		logging.Field{Key: "unrecognized", Value: len(res.Unrecognized)},
		logging.Field{Key: logging.FieldDuration, Value: res.Duration.Milliseconds()})

	return res, nil
}

// handle classifies one message and, for transaction categories, extracts
// it. Skipped and unrecognized messages are only tallied.
func (e *Engine) handle(msg models.RawMessage, l *ledger.Ledger) outcome {
	category := e.classifier.Classify(msg.Body)
	l.Tally(category)

	if !category.IsTransaction() {
		return outcome{category: category}
	}

	tx, err := e.extractor.ExtractMessage(category, msg)
	if err != nil {
		reason := err.Error()
		var extErr *parsererror.ExtractionError
		if errors.As(err, &extErr) {
			reason = extErr.Reason
		}
		l.RecordFailureRecord(models.FailureRecord{
			Body:              msg.Body,
			AttemptedCategory: category,
			Reason:            reason,
			ReceivedAt:        msg.Date,
		})
		return outcome{category: category}
	}
	return outcome{category: category, tx: tx}
}

// Classifier exposes the rule table in use.
func (e *Engine) Classifier() *classifier.Classifier {
	return e.classifier
}

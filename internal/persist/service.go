// Package persist pushes a processed batch into a relational store inside
// one transaction. Inserts are idempotent on each record's natural key.
package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"
	"mmony/momo-csv/internal/sink"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=persist
type Repository interface {
	EnsureSchema(ctx context.Context) error
	BeginPush(ctx context.Context) (PushTx, error)
}

type PushTx interface {
	InsertTransactions(ctx context.Context, runID uuid.UUID, category models.Category, txs []models.Transaction) (int, error)
	InsertFailures(ctx context.Context, runID uuid.UUID, failures []models.FailureRecord) (int, error)
	RecordRun(ctx context.Context, run Run) error
	Commit() error
	Rollback() error
}

// Run is the audit row stored for every push.
type Run struct {
	ID         uuid.UUID
	Source     string
	StartedAt  time.Time
	Stats      models.CategoryStats
	Inserted   int
	FailedRows int
}

// Batch is everything one push writes.
type Batch struct {
	RunID     uuid.UUID
	Source    string
	StartedAt time.Time
	Records   *sink.Sink
	Failures  []models.FailureRecord
	Stats     models.CategoryStats
}

// Result reports what a push changed.
type Result struct {
	Inserted   map[models.Category]int
	Skipped    int
	FailedRows int
}

// Total is the number of transaction rows inserted.
func (r *Result) Total() int {
	n := 0
	for _, v := range r.Inserted {
		n += v
	}
	return n
}

type Service struct {
	repo   Repository
	logger logging.Logger
}

func NewService(repo Repository, logger logging.Logger) *Service {
	return &Service{repo: repo, logger: logging.OrDefault(logger)}
}

// Push writes the batch. Either every row of the batch is committed or
// none is.
func (s *Service) Push(ctx context.Context, b Batch) (res *Result, err error) {
	if b.Records == nil {
		return nil, errors.New("persist: batch has no records")
	}
	if b.RunID == uuid.Nil {
		b.RunID = uuid.New()
	}

	if err := s.repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}

	ptx, err := s.repo.BeginPush(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning push: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := ptx.Rollback(); rbErr != nil {
				s.logger.WithError(rbErr).Warn("Rollback failed")
			}
		}
	}()

	res = &Result{Inserted: make(map[models.Category]int)}
	for _, c := range b.Records.Categories() {
		txs := b.Records.ByCategory(c)
		n, err := ptx.InsertTransactions(ctx, b.RunID, c, txs)
		if err != nil {
			return nil, fmt.Errorf("inserting %s: %w", c, err)
		}
		res.Inserted[c] = n
		res.Skipped += len(txs) - n
	}

	if res.FailedRows, err = ptx.InsertFailures(ctx, b.RunID, b.Failures); err != nil {
		return nil, fmt.Errorf("inserting failures: %w", err)
	}

	run := Run{
		ID:         b.RunID,
		Source:     b.Source,
		StartedAt:  b.StartedAt,
		Stats:      b.Stats,
		Inserted:   res.Total(),
		FailedRows: res.FailedRows,
	}
	if err = ptx.RecordRun(ctx, run); err != nil {
		return nil, fmt.Errorf("recording run: %w", err)
	}

	if err = ptx.Commit(); err != nil {
		return nil, fmt.Errorf("committing push: %w", err)
	}

	s.logger.Info("Batch pushed",
		logging.F(logging.FieldRunID, b.RunID.String()),
		logging.F("inserted", res.Total()),
		logging.F("skipped", res.Skipped),
		logging.F(logging.FieldFailures, res.FailedRows))
	return res, nil
}

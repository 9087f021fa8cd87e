package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"

	"mmony/momo-csv/internal/models"
	"mmony/momo-csv/internal/persist"

	"github.com/google/uuid"
)

// pushLockName keys the advisory lock that serialises concurrent pushes.
const pushLockName = "momo-csv/push"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ persist.Repository = (*Store)(nil)

func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

func (s *Store) BeginPush(ctx context.Context) (persist.PushTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning push tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey(pushLockName)); err != nil {
		_ = dbTx.Rollback()
		return nil, fmt.Errorf("acquiring push lock: %w", err)
	}

	return &pushTx{tx: dbTx}, nil
}

func lockKey(name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum64())
}

type pushTx struct {
	tx *sql.Tx
}

func (p *pushTx) Commit() error   { return p.tx.Commit() }
func (p *pushTx) Rollback() error { return p.tx.Rollback() }

func (p *pushTx) InsertTransactions(ctx context.Context, runID uuid.UUID, category models.Category, txs []models.Transaction) (int, error) {
	t, ok := tables[category]
	if !ok {
		return 0, fmt.Errorf("no table for category %q", category)
	}
	if len(txs) == 0 {
		return 0, nil
	}

	stmt, err := p.tx.PrepareContext(ctx, t.insertStatement())
	if err != nil {
		return 0, fmt.Errorf("preparing insert into %s: %w", t.name, err)
	}
	defer stmt.Close()

	inserted := 0
	for _, tx := range txs {
		if tx.Category() != category {
			return inserted, fmt.Errorf("record of category %s cannot go into %s", tx.Category(), t.name)
		}
		res, err := stmt.ExecContext(ctx, rowValues(runID, tx)...)
		if err != nil {
			return inserted, fmt.Errorf("inserting into %s: %w", t.name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("inserting into %s: %w", t.name, err)
		}
		inserted += int(n)
	}
	return inserted, nil
}

const insertFailure = `
	INSERT INTO failed_sms_log (run_id, body, body_hash, attempted_category, reason, received_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (attempted_category, body_hash, received_at) DO NOTHING
`

func (p *pushTx) InsertFailures(ctx context.Context, runID uuid.UUID, failures []models.FailureRecord) (int, error) {
	inserted := 0
	for _, f := range failures {
		res, err := p.tx.ExecContext(ctx, insertFailure,
			runID,
			f.Body,
			models.GenerateSHA256Hash(f.Body),
			string(f.AttemptedCategory),
			f.Reason,
			f.ReceivedAt,
		)
		if err != nil {
			return inserted, fmt.Errorf("inserting failure: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("inserting failure: %w", err)
		}
		inserted += int(n)
	}
	return inserted, nil
}

const insertRun = `
	INSERT INTO import_runs (run_id, source, started_at, total_messages, tallied, unrecognized, failed, discrepancy, inserted, failed_rows)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

func (p *pushTx) RecordRun(ctx context.Context, run persist.Run) error {
	_, err := p.tx.ExecContext(ctx, insertRun,
		run.ID,
		run.Source,
		run.StartedAt,
		run.Stats.Total,
		run.Stats.Tallied(),
		run.Stats.Unrecognized,
		run.Stats.Failed,
		run.Stats.Discrepancy,
		run.Inserted,
		run.FailedRows,
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// rowValues returns the insert arguments for tx in table column order.
func rowValues(runID uuid.UUID, tx models.Transaction) []any {
	c := tx.Common()

	var occurredAt sql.NullTime
	if !c.OccurredAt.IsZero() {
		occurredAt = sql.NullTime{Time: c.OccurredAt.Time, Valid: true}
	}
	var externalID sql.NullString
	if c.ExternalID != "" {
		externalID = sql.NullString{String: c.ExternalID, Valid: true}
	}

	values := []any{
		models.NaturalKey(tx),
		c.Amount,
		c.Fee,
		occurredAt,
		externalID,
		c.ReceivedAt,
		runID,
	}
	return append(values, extraValues(tx)...)
}

func extraValues(tx models.Transaction) []any {
	switch t := tx.(type) {
	case models.IncomingMoney:
		return []any{t.Sender}
	case models.PaymentToCodeHolder:
		return []any{t.Recipient, t.RecipientCode}
	case models.TransferToMobile:
		return []any{t.Recipient, t.RecipientPhone}
	case models.ThirdPartyTransaction:
		return []any{t.Initiator}
	case models.WithdrawalFromAgent:
		return []any{t.AccountHolderName, t.AgentName, t.AgentNumber}
	case models.BankTransfer:
		return []any{t.Recipient}
	case models.InternetBundlePurchase:
		return []any{t.BundleSize, t.BundleUnit}
	case models.VoiceBundlePurchase:
		return []any{t.Minutes, t.SMSCount}
	}
	return nil
}

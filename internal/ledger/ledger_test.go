package ledger

import (
	"testing"

	"mmony/momo-csv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_TallyAndReconcile(t *testing.T) {
	l := New()
	l.Tally(models.CategoryIncomingMoney)
	l.Tally(models.CategoryIncomingMoney)
	l.Tally(models.CategorySystemNotification)
	l.Tally(models.CategoryUnrecognized)

	assert.Equal(t, 2, l.Count(models.CategoryIncomingMoney))
	assert.Equal(t, 1, l.Count(models.CategoryUnrecognized))
	assert.Equal(t, 3, l.TallySum())
	assert.Nil(t, l.Check(4))

	d := l.Check(5)
	require.NotNil(t, d)
	assert.Equal(t, 1, d.Delta)
	assert.Equal(t, 3, d.Tallied)
	assert.Equal(t, 1, d.Unrecognized)
}

func TestReconcile(t *testing.T) {
	assert.Equal(t, 0, Reconcile(10, 7, 3))
	assert.Equal(t, 2, Reconcile(10, 5, 3))
	assert.Equal(t, -1, Reconcile(10, 8, 3))
}

func TestLedger_FailuresAppendOnly(t *testing.T) {
	l := New()
	l.RecordFailure("b1", models.CategoryBankDeposit, "missing amount")
	l.RecordFailure("b1", models.CategoryBankDeposit, "missing amount")

	got := l.Failures()
	require.Len(t, got, 2)
	got[0].Reason = "changed"
	assert.Equal(t, "missing amount", l.Failures()[0].Reason)
}

func TestLedger_Merge(t *testing.T) {
	a := New()
	a.Tally(models.CategoryBankDeposit)
	a.RecordFailure("a", models.CategoryBankDeposit, "missing date/time")

	b := New()
	b.Tally(models.CategoryBankDeposit)
	b.Tally(models.CategoryUnrecognized)
	b.RecordFailureRecord(models.FailureRecord{Body: "b", AttemptedCategory: models.CategoryBankTransfer, Reason: "missing recipient", ReceivedAt: 9})

	a.Merge(b)
	a.Merge(nil)

	assert.Equal(t, 2, a.Count(models.CategoryBankDeposit))
	assert.Equal(t, 1, a.Unrecognized())
	failures := a.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, "a", failures[0].Body)
	assert.Equal(t, int64(9), failures[1].ReceivedAt)
	assert.Len(t, b.Failures(), 1)
}

func TestLedger_Stats(t *testing.T) {
	l := New()
	l.Tally(models.CategoryIncomingMoney)
	l.Tally(models.CategoryIncomingMoney)
	l.Tally(models.CategoryUnrecognized)
	l.RecordFailure("x", models.CategoryIncomingMoney, "missing sender")

	stats := l.Stats(3)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Counts[models.CategoryIncomingMoney])
	assert.Equal(t, 1, stats.Unrecognized)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 0, stats.Discrepancy)
	assert.Equal(t, 1, stats.Extracted())
}

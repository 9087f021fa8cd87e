// Package ledger accumulates classification tallies and extraction failures
// for one batch and reconciles the counts at the end.
package ledger

import (
	"mmony/momo-csv/internal/models"
	"mmony/momo-csv/internal/parsererror"
)

// Ledger is an append-only accumulator. It is not safe for concurrent use;
// concurrent producers fill one Ledger each and Merge them afterwards.
type Ledger struct {
	counts       map[models.Category]int
	unrecognized int
	failures     []models.FailureRecord
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{counts: make(map[models.Category]int)}
}

// Tally counts one classified message, regardless of extraction outcome.
// Unrecognized messages are counted separately from the category tallies.
func (l *Ledger) Tally(category models.Category) {
	if category == models.CategoryUnrecognized {
		l.unrecognized++
		return
	}
	l.counts[category]++
}

// RecordFailure appends a failure. Records are never overwritten.
func (l *Ledger) RecordFailure(body string, category models.Category, reason string) {
	l.failures = append(l.failures, models.FailureRecord{
		Body:              body,
		AttemptedCategory: category,
		Reason:            reason,
	})
}

// RecordFailureRecord appends a fully populated failure.
func (l *Ledger) RecordFailureRecord(rec models.FailureRecord) {
	l.failures = append(l.failures, rec)
}

// Merge appends other's failures and adds its counts. other is unchanged.
func (l *Ledger) Merge(other *Ledger) {
	if other == nil {
		return
	}
	for c, n := range other.counts {
		l.counts[c] += n
	}
	l.unrecognized += other.unrecognized
	l.failures = append(l.failures, other.failures...)
}

// Failures returns a copy of the recorded failures in append order.
func (l *Ledger) Failures() []models.FailureRecord {
	out := make([]models.FailureRecord, len(l.failures))
	copy(out, l.failures)
	return out
}

// Count returns the tally for one category.
func (l *Ledger) Count(category models.Category) int {
	if category == models.CategoryUnrecognized {
		return l.unrecognized
	}
	return l.counts[category]
}

// TallySum is the sum of all category tallies, excluding Unrecognized.
func (l *Ledger) TallySum() int {
	sum := 0
	for _, n := range l.counts {
		sum += n
	}
	return sum
}

// Unrecognized is the number of messages no rule matched.
func (l *Ledger) Unrecognized() int {
	return l.unrecognized
}

// Reconcile returns total - tallySum - unrecognized. Anything other than
// zero means some message was counted in neither a category nor
// Unrecognized, or counted twice.
func Reconcile(total, tallySum, unrecognized int) int {
	return total - tallySum - unrecognized
}

// Check reconciles the ledger against the number of messages loaded and
// returns a discrepancy warning, or nil when the counts add up.
func (l *Ledger) Check(total int) *parsererror.ClassificationDiscrepancy {
	tallied := l.TallySum()
	delta := Reconcile(total, tallied, l.unrecognized)
	if delta == 0 {
		return nil
	}
	return &parsererror.ClassificationDiscrepancy{
		Total:        total,
		Tallied:      tallied,
		Unrecognized: l.unrecognized,
		Delta:        delta,
	}
}

// Stats summarises the ledger for a batch of total messages.
func (l *Ledger) Stats(total int) models.CategoryStats {
	stats := models.NewCategoryStats()
	stats.Total = total
	for c, n := range l.counts {
		stats.Counts[c] = n
	}
	stats.Unrecognized = l.unrecognized
	stats.Failed = len(l.failures)
	stats.Discrepancy = Reconcile(total, l.TallySum(), l.unrecognized)
	return *stats
}

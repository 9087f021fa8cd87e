package models

import (
	"sort"

	"mmony/momo-csv/internal/logging"
)

// CategoryStats summarises one pass over a message batch. Counts holds the
// classification tally per category, including skipped system
// notifications; Unrecognized is kept apart. Failed counts extraction
// failures and never affects reconciliation.
type CategoryStats struct {
	Total        int              `json:"total_messages" yaml:"total_messages"`
	Counts       map[Category]int `json:"counts" yaml:"counts"`
	Unrecognized int              `json:"unrecognized_count" yaml:"unrecognized_count"`
	Failed       int              `json:"failed_count" yaml:"failed_count"`
	Discrepancy  int              `json:"discrepancy" yaml:"discrepancy"`
}

// NewCategoryStats returns empty stats.
func NewCategoryStats() *CategoryStats {
	return &CategoryStats{Counts: make(map[Category]int)}
}

// Tallied is the sum of all per-category counts.
func (cs CategoryStats) Tallied() int {
	sum := 0
	for _, n := range cs.Counts {
		sum += n
	}
	return sum
}

// Extracted is the number of messages that produced a record.
func (cs CategoryStats) Extracted() int {
	n := 0
	for c, count := range cs.Counts {
		if c.IsTransaction() {
			n += count
		}
	}
	return n - cs.Failed
}

// SuccessRate is the share of classified transaction messages that were
// extracted, as a percentage.
func (cs CategoryStats) SuccessRate() float64 {
	attempted := cs.Extracted() + cs.Failed
	if attempted == 0 {
		return 0.0
	}
	return float64(cs.Extracted()) / float64(attempted) * 100.0
}

// SortedCategories returns the categories present in Counts in name order.
func (cs CategoryStats) SortedCategories() []Category {
	cats := make([]Category, 0, len(cs.Counts))
	for c := range cs.Counts {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// LogSummary logs the batch summary, one entry per category at debug level.
func (cs CategoryStats) LogSummary(logger logging.Logger, source string) {
	if logger == nil {
		return
	}

	logger.Info("Classification summary",
		logging.Field{Key: logging.FieldFile, Value: source},
		logging.Field{Key: logging.FieldTotal, Value: cs.Total},
		logging.Field{Key: "tallied", Value: cs.Tallied()},
		logging.Field{Key: "unrecognized", Value: cs.Unrecognized},
		logging.Field{Key: logging.FieldFailures, Value: cs.Failed},
		logging.Field{Key: "success_rate", Value: cs.SuccessRate()},
	)
	for _, c := range cs.SortedCategories() {
		logger.Debug("Category count",
			logging.Field{Key: logging.FieldCategory, Value: c},
			logging.Field{Key: logging.FieldCount, Value: cs.Counts[c]})
	}
}

// Add folds the stats of another batch into cs.
func (cs *CategoryStats) Add(other CategoryStats) {
	if cs.Counts == nil {
		cs.Counts = make(map[Category]int, len(other.Counts))
	}
	cs.Total += other.Total
	for c, n := range other.Counts {
		cs.Counts[c] += n
	}
	cs.Unrecognized += other.Unrecognized
	cs.Failed += other.Failed
	cs.Discrepancy += other.Discrepancy
}

// Package sink collects extracted transactions into per-category ordered
// collections with idempotent upsert by natural key.
package sink

import (
	"iter"

	"mmony/momo-csv/internal/models"
)

// Sink groups transactions by category, preserving insertion order inside
// each category and across the whole set. A transaction whose natural key is
// already present is ignored. Not safe for concurrent use.
type Sink struct {
	byCategory map[models.Category][]models.Transaction
	all        []models.Transaction
	keys       map[string]struct{}
	duplicates int
}

// New returns an empty Sink.
func New() *Sink {
	return &Sink{
		byCategory: make(map[models.Category][]models.Transaction),
		keys:       make(map[string]struct{}),
	}
}

// Add inserts tx unless a transaction with the same natural key exists.
// It reports whether tx was inserted.
func (s *Sink) Add(tx models.Transaction) bool {
	key := models.NaturalKey(tx)
	if _, ok := s.keys[key]; ok {
		s.duplicates++
		return false
	}
	s.keys[key] = struct{}{}
	c := tx.Category()
	s.byCategory[c] = append(s.byCategory[c], tx)
	s.all = append(s.all, tx)
	return true
}

// AddAll inserts every transaction in order and returns how many were new.
func (s *Sink) AddAll(txs []models.Transaction) int {
	added := 0
	for _, tx := range txs {
		if s.Add(tx) {
			added++
		}
	}
	return added
}

// Merge upserts every transaction of other, in other's insertion order, and
// returns how many were new. Merging the same set twice adds nothing.
func (s *Sink) Merge(other *Sink) int {
	if other == nil {
		return 0
	}
	return s.AddAll(other.all)
}

// Contains reports whether a transaction with tx's natural key is present.
func (s *Sink) Contains(tx models.Transaction) bool {
	_, ok := s.keys[models.NaturalKey(tx)]
	return ok
}

// ByCategory returns a copy of one category's transactions in insertion order.
func (s *Sink) ByCategory(c models.Category) []models.Transaction {
	txs := s.byCategory[c]
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	return out
}

// Categories lists the categories holding at least one transaction, in
// models.TransactionCategories order.
func (s *Sink) Categories() []models.Category {
	var out []models.Category
	for _, c := range models.TransactionCategories {
		if len(s.byCategory[c]) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// All yields every transaction in insertion order.
func (s *Sink) All() iter.Seq[models.Transaction] {
	return func(yield func(models.Transaction) bool) {
		for _, tx := range s.all {
			if !yield(tx) {
				return
			}
		}
	}
}

// Len is the number of distinct transactions held.
func (s *Sink) Len() int {
	return len(s.all)
}

// Duplicates is the number of Add calls ignored because of a key collision.
func (s *Sink) Duplicates() int {
	return s.duplicates
}

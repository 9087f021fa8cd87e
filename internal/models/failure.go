package models

import "strconv"

// FailureRecord is a message that matched a category rule but lacked one or
// more mandatory fields.
type FailureRecord struct {
	Body              string   `csv:"body" json:"body" yaml:"body"`
	AttemptedCategory Category `csv:"attempted_category" json:"attempted_category" yaml:"attempted_category"`
	Reason            string   `csv:"reason" json:"reason" yaml:"reason"`
	ReceivedAt        int64    `csv:"received_at" json:"received_at" yaml:"received_at"`
}

// Key identifies a failure across runs: the attempted category, the body and
// the arrival time. It matches the unique key of the failure log table.
func (f FailureRecord) Key() string {
	return string(f.AttemptedCategory) + "\x1f" + f.Body + "\x1f" + strconv.FormatInt(f.ReceivedAt, 10)
}

// MergeFailures concatenates the groups in order, keeping the first record
// of each key.
func MergeFailures(groups ...[]FailureRecord) []FailureRecord {
	seen := make(map[string]struct{})
	var out []FailureRecord
	for _, group := range groups {
		for _, f := range group {
			k := f.Key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}

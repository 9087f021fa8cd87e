package models

import (
	"strconv"
	"time"
)

// RawMessage is one archived SMS. Date is the arrival time in Unix
// milliseconds as recorded by the phone, independent of any timestamp inside
// the body. Index is the position in the archive, starting at 0.
type RawMessage struct {
	Index        int
	Body         string
	Address      string
	Date         int64
	ReadableDate string
}

// ReceivedAt returns the arrival time in UTC.
func (m RawMessage) ReceivedAt() time.Time {
	return time.UnixMilli(m.Date).UTC()
}

// Key identifies the same SMS in overlapping archives: body plus arrival
// time. Index is ignored since it depends on the archive.
func (m RawMessage) Key() string {
	return m.Body + "\x1f" + strconv.FormatInt(m.Date, 10)
}

// MergeMessages concatenates the groups in order, keeping the first message
// of each key.
func MergeMessages(groups ...[]RawMessage) []RawMessage {
	seen := make(map[string]struct{})
	var out []RawMessage
	for _, group := range groups {
		for _, m := range group {
			k := m.Key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is a date/time taken verbatim from a message body. Raw keeps the
// exact text so the value can be written back without loss; Time is the
// parsed form used for ordering. No timezone is assumed.
type Timestamp struct {
	Time time.Time
	Raw  string
}

// ParseTimestamp parses the "YYYY-MM-DD HH:MM:SS" form.
func ParseTimestamp(raw string) (Timestamp, error) {
	t, err := time.Parse(TimestampLayout, raw)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	return Timestamp{Time: t, Raw: raw}, nil
}

// IsZero reports whether the timestamp is unset.
func (t Timestamp) IsZero() bool {
	return t.Raw == "" && t.Time.IsZero()
}

func (t Timestamp) String() string {
	if t.Raw != "" {
		return t.Raw
	}
	if t.Time.IsZero() {
		return ""
	}
	return t.Time.Format(TimestampLayout)
}

// Before orders two timestamps by their parsed value.
func (t Timestamp) Before(o Timestamp) bool {
	return t.Time.Before(o.Time)
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (t Timestamp) MarshalCSV() (string, error) {
	return t.String(), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller. Empty cells stay zero.
func (t *Timestamp) UnmarshalCSV(s string) error {
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil {
		*t = Timestamp{}
		return nil
	}
	return t.UnmarshalCSV(*s)
}

// MarshalYAML writes the raw text form.
func (t Timestamp) MarshalYAML() (interface{}, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.String(), nil
}

// Package parsererror defines the error types produced while loading,
// classifying and extracting mobile-money messages.
package parsererror

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFileNotFound is returned when an input archive path does not exist.
var ErrFileNotFound = errors.New("file not found")

// SourceUnreadableError is the fatal loader error: the archive is missing,
// unreadable or not well-formed XML. No messages are produced when it occurs.
type SourceUnreadableError struct {
	FilePath string
	Reason   string
	Err      error
}

func (e *SourceUnreadableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source unreadable '%s': %s: %v", e.FilePath, e.Reason, e.Err)
	}
	return fmt.Sprintf("source unreadable '%s': %s", e.FilePath, e.Reason)
}

func (e *SourceUnreadableError) Unwrap() error {
	return e.Err
}

// ExtractionError reports that a classified message lacked one or more
// mandatory fields. It is recorded as a failure, never returned from a batch.
type ExtractionError struct {
	Category string
	Fields   []string
	Reason   string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Category, e.Reason)
}

// NewMissingFieldsError builds an ExtractionError whose reason names every
// missing field, e.g. "missing amount, date/time".
func NewMissingFieldsError(category string, fields ...string) *ExtractionError {
	return &ExtractionError{
		Category: category,
		Fields:   fields,
		Reason:   "missing " + strings.Join(fields, ", "),
	}
}

// ClassificationDiscrepancy is the batch-level warning raised when
// total - (sum of tallies + unrecognized) is non-zero.
type ClassificationDiscrepancy struct {
	Total        int
	Tallied      int
	Unrecognized int
	Delta        int
}

func (e *ClassificationDiscrepancy) Error() string {
	return fmt.Sprintf("classification discrepancy: %d messages, %d tallied, %d unrecognized, delta %d",
		e.Total, e.Tallied, e.Unrecognized, e.Delta)
}

// InvalidFormatError means the input does not look like an SMS backup
// archive at all.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

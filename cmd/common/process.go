// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"io"
	"iter"
	"path/filepath"
	"time"

	"mmony/momo-csv/internal/batch"
	"mmony/momo-csv/internal/container"
	"mmony/momo-csv/internal/engine"
	"mmony/momo-csv/internal/fileutils"
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"
	"mmony/momo-csv/internal/report"
	"mmony/momo-csv/internal/sink"
	"mmony/momo-csv/internal/validation"

	"github.com/google/uuid"
)

// StatsReportName is the base name of the stats report written next to the
// category CSV files.
const StatsReportName = "stats"

// Outcome is the result of processing one archive or a batch of archives,
// in the shape the commands write out.
type Outcome struct {
	RunID        uuid.UUID
	Sources      []string
	StartedAt    time.Time
	Duration     time.Duration
	Records      *sink.Sink
	Added        int
	Failures     []models.FailureRecord
	Unrecognized []models.RawMessage
	Stats        models.CategoryStats
	DateRange    batch.DateRange
}

// FromResult wraps a single engine run.
func FromResult(source string, res *engine.Result) *Outcome {
	return &Outcome{
		RunID:        res.RunID,
		Sources:      []string{source},
		StartedAt:    res.StartedAt,
		Duration:     res.Duration,
		Records:      res.Records,
		Added:        res.Added,
		Failures:     res.Failures,
		Unrecognized: res.Unrecognized,
		Stats:        res.Stats,
		DateRange:    batch.CalculateDateRange(res.Records),
	}
}

// FromSummary wraps a batch of archives processed since startedAt.
func FromSummary(sum *batch.Summary, startedAt time.Time, addedBefore int) *Outcome {
	sources := make([]string, 0, len(sum.Archives))
	for _, a := range sum.Archives {
		sources = append(sources, a.File)
	}
	return &Outcome{
		RunID:        uuid.New(),
		Sources:      sources,
		StartedAt:    startedAt,
		Duration:     time.Since(startedAt),
		Records:      sum.Records,
		Added:        sum.Records.Len() - addedBefore,
		Failures:     sum.Failures,
		Unrecognized: sum.Unrecognized,
		Stats:        sum.Stats,
		DateRange:    sum.DateRange,
	}
}

// Report builds the stats document for the outcome.
func (o *Outcome) Report() report.RunReport {
	unrecognized := make([]string, 0, len(o.Unrecognized))
	for _, msg := range o.Unrecognized {
		unrecognized = append(unrecognized, msg.Body)
	}
	sources := make([]string, 0, len(o.Sources))
	for _, s := range o.Sources {
		sources = append(sources, filepath.Base(s))
	}
	return report.RunReport{
		RunID:        o.RunID.String(),
		Sources:      sources,
		StartedAt:    o.StartedAt,
		DurationMS:   o.Duration.Milliseconds(),
		Records:      o.Records.Len(),
		Added:        o.Added,
		Duplicates:   o.Records.Duplicates(),
		SuccessRate:  o.Stats.SuccessRate(),
		DateRange:    o.DateRange.String(),
		Stats:        o.Stats,
		Unrecognized: unrecognized,
	}
}

// LoadMessages opens an archive, checking its format first when validate
// is set.
func LoadMessages(c *container.Container, input string, validate bool) (iter.Seq[models.RawMessage], error) {
	if input == "" {
		return nil, fmt.Errorf("no input archive given (use --input)")
	}

	loader := c.GetLoader()
	if validate {
		c.GetLogger().Info("Validating format...", logging.F(logging.FieldInputFile, input))
		if err := loader.CheckFormat(input); err != nil {
			return nil, err
		}
		c.GetLogger().Info("Validation successful.")
	}
	return loader.Load(input)
}

// ProcessArchive runs one archive through the engine into dst (a fresh sink
// when nil).
func ProcessArchive(ctx context.Context, c *container.Container, input string, validate bool, dst *sink.Sink) (*Outcome, error) {
	messages, err := LoadMessages(c, input, validate)
	if err != nil {
		return nil, err
	}

	res, err := c.GetEngine().RunInto(ctx, messages, dst)
	if err != nil {
		return nil, err
	}

	res.Stats.LogSummary(c.GetLogger(), input)
	return FromResult(input, res), nil
}

// ProcessInput processes input as a single archive, or as a batch of
// archives when it is a directory.
func ProcessInput(ctx context.Context, c *container.Container, input string, validate bool, dst *sink.Sink) (*Outcome, error) {
	if err := validation.IsValidPath(input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if !fileutils.DirectoryExists(input) {
		return ProcessArchive(ctx, c, input, validate, dst)
	}
	return ProcessDirectory(ctx, c, input, dst)
}

// ProcessDirectory runs every archive in dir, in file name order, into dst
// (a fresh sink when nil).
func ProcessDirectory(ctx context.Context, c *container.Container, dir string, dst *sink.Sink) (*Outcome, error) {
	files, err := fileutils.ListArchives(dir)
	if err != nil {
		return nil, fmt.Errorf("listing archives: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .xml archives found in %s", dir)
	}
	c.GetLogger().Info("Found archives for processing",
		logging.F(logging.FieldFile, dir),
		logging.F(logging.FieldCount, len(files)))

	if dst == nil {
		dst = sink.New()
	}
	before := dst.Len()
	started := time.Now()

	sum, err := c.GetAggregator().Aggregate(ctx, files, dst)
	if err != nil {
		return nil, err
	}
	if len(sum.Archives) == 0 {
		return nil, fmt.Errorf("none of the %d archives in %s could be read", len(files), dir)
	}

	sum.Stats.LogSummary(c.GetLogger(), dir)
	return FromSummary(sum, started, before), nil
}

// LoadPrevious reads the category CSV files already in dir into a new sink,
// so a following run only adds records that are not exported yet.
func LoadPrevious(c *container.Container, dir string) (*sink.Sink, error) {
	dst := sink.New()
	if !fileutils.DirectoryExists(dir) {
		return dst, nil
	}

	previous, err := c.GetCSVStore().ReadDirectory(dir)
	if err != nil {
		return nil, fmt.Errorf("reading previous export: %w", err)
	}
	dst.AddAll(previous)

	c.GetLogger().Info("Loaded previous export",
		logging.F(logging.FieldFile, dir),
		logging.F(logging.FieldCount, dst.Len()))
	return dst, nil
}

// LoadPreviousFailures reads the failures.csv already in dir. A missing
// directory or file yields no records.
func LoadPreviousFailures(c *container.Container, dir string) ([]models.FailureRecord, error) {
	failures, err := c.GetCSVStore().ReadFailures(dir)
	if err != nil {
		return nil, fmt.Errorf("reading previous failures: %w", err)
	}
	if len(failures) > 0 {
		c.GetLogger().Info("Loaded previous failures",
			logging.F(logging.FieldFile, dir),
			logging.F(logging.FieldFailures, len(failures)))
	}
	return failures, nil
}

// KeepFailures puts previous ahead of this run's failures, dropping repeats
// of the same message.
func (o *Outcome) KeepFailures(previous []models.FailureRecord) {
	o.Failures = models.MergeFailures(previous, o.Failures)
}

// WriteOutputs writes one CSV per category, the failures CSV and the stats
// report to dir. It returns the written paths.
func WriteOutputs(c *container.Container, dir string, o *Outcome) ([]string, error) {
	if err := fileutils.EnsureDirectoryExists(dir); err != nil {
		return nil, err
	}

	store := c.GetCSVStore()
	paths, err := store.WriteSink(dir, o.Records)
	if err != nil {
		return paths, err
	}

	failuresPath, err := store.WriteFailures(dir, o.Failures)
	if err != nil {
		return paths, err
	}
	paths = append(paths, failuresPath)

	reportPath, err := c.GetReportGenerator().Write(dir, StatsReportName, o.Report(), c.GetConfig().Output.ReportFormat)
	if err != nil {
		return paths, err
	}
	paths = append(paths, reportPath)

	return paths, nil
}

// WriteIgnored writes the body of every unrecognized message to path, one
// per line.
func WriteIgnored(path string, messages []models.RawMessage) error {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, msg.Body)
	}
	return fileutils.WriteLines(path, lines)
}

// PrintStats writes the verification summary: totals, per-category counts
// in table order, then the reconciliation line.
func PrintStats(w io.Writer, stats models.CategoryStats) {
	fmt.Fprintf(w, "Total messages:     %d\n", stats.Total)
	for _, cat := range append(append([]models.Category{}, models.TransactionCategories...), models.CategorySystemNotification) {
		if n := stats.Counts[cat]; n > 0 {
			fmt.Fprintf(w, "  %-26s %d\n", cat, n)
		}
	}
	fmt.Fprintf(w, "Classified:         %d\n", stats.Tallied())
	fmt.Fprintf(w, "Unrecognized:       %d\n", stats.Unrecognized)
	fmt.Fprintf(w, "Extraction failures: %d\n", stats.Failed)
	fmt.Fprintf(w, "Success rate:       %.2f%%\n", stats.SuccessRate())
	if stats.Discrepancy != 0 {
		fmt.Fprintf(w, "Discrepancy:        %d (total - classified - unrecognized)\n", stats.Discrepancy)
	} else {
		fmt.Fprintln(w, "Discrepancy:        none")
	}
}

// ReportDir returns the output directory for a command: the --output flag
// when set, otherwise output.directory.
func ReportDir(flag string, c *container.Container) string {
	if flag != "" {
		return flag
	}
	return c.GetConfig().Output.Directory
}

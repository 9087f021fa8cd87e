// Package convert handles the single-archive conversion command
package convert

import (
	"context"
	"fmt"

	"mmony/momo-csv/cmd/common"
	"mmony/momo-csv/cmd/root"
	"mmony/momo-csv/internal/container"
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"
	"mmony/momo-csv/internal/sink"

	"github.com/spf13/cobra"
)

// Options are the inputs of one conversion.
type Options struct {
	Input    string
	Output   string
	Validate bool
	Merge    bool
}

var merge bool

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an SMS backup archive to per-category CSV files",
	Long: `Convert an SMS backup archive to one CSV file per transaction category.

Besides the category files the output directory receives failures.csv, listing
every message that was classified but could not be extracted, and a stats
report (stats.json or stats.yaml).

With --merge, CSV files already present in the output directory are read first
and only records not exported yet are added.

Example:
  momo-csv convert -i sms-20240531.xml -o out/ --merge`,
	Run: convertFunc,
}

func init() {
	Cmd.Flags().BoolVar(&merge, "merge", false, "Merge with the CSV files already in the output directory")
}

func convertFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
	}

	outcome, paths, err := Convert(cmd.Context(), appContainer, Options{
		Input:    root.SharedFlags.Input,
		Output:   root.SharedFlags.Output,
		Validate: root.SharedFlags.Validate,
		Merge:    merge,
	})
	if err != nil {
		logger.Fatalf("Error converting archive: %v", err)
	}

	logger.Info("Conversion completed successfully!",
		logging.F(logging.FieldRunID, outcome.RunID.String()),
		logging.F(logging.FieldCount, outcome.Records.Len()),
		logging.F("added", outcome.Added),
		logging.F(logging.FieldFailures, len(outcome.Failures)),
		logging.F("files", len(paths)))
}

// Convert processes one archive and writes the CSV export and stats report.
func Convert(ctx context.Context, c *container.Container, opts Options) (*common.Outcome, []string, error) {
	outDir := common.ReportDir(opts.Output, c)

	dst := sink.New()
	var previousFailures []models.FailureRecord
	if opts.Merge {
		previous, err := common.LoadPrevious(c, outDir)
		if err != nil {
			return nil, nil, err
		}
		dst = previous

		previousFailures, err = common.LoadPreviousFailures(c, outDir)
		if err != nil {
			return nil, nil, err
		}
	}

	outcome, err := common.ProcessArchive(ctx, c, opts.Input, opts.Validate, dst)
	if err != nil {
		return nil, nil, fmt.Errorf("processing %s: %w", opts.Input, err)
	}

	outcome.KeepFailures(previousFailures)

	paths, err := common.WriteOutputs(c, outDir, outcome)
	if err != nil {
		return nil, nil, fmt.Errorf("writing output: %w", err)
	}
	return outcome, paths, nil
}

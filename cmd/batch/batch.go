// Package batch handles batch processing of archives
package batch

import (
	"context"
	"fmt"

	"mmony/momo-csv/cmd/common"
	"mmony/momo-csv/cmd/root"
	"mmony/momo-csv/internal/container"
	"mmony/momo-csv/internal/fileutils"
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"
	"mmony/momo-csv/internal/sink"

	"github.com/spf13/cobra"
)

var merge bool

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process SMS backup archives from a directory",
	Long: `Batch process every SMS backup archive (*.xml) in an input directory into one
CSV export in another directory.

Archives are read in file name order and share one record set, so messages
present in several overlapping backups are exported once. An archive that
cannot be read is reported and skipped.

Example:
  momo-csv batch -i backups/ -o out/`,
	Run: batchFunc,
}

func init() {
	Cmd.Flags().BoolVar(&merge, "merge", false, "Merge with the CSV files already in the output directory")

	// Override the usage text for the input/output flags in batch context
	Cmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags (for batch, -i/-o refer to directories):
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`)
}

func batchFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()

	inputDir := root.SharedFlags.Input
	if inputDir == "" {
		logger.Fatal("Input directory must be specified")
	}
	logger.Info("Batch command called",
		logging.F(logging.FieldInputFile, inputDir),
		logging.F(logging.FieldOutputFile, root.SharedFlags.Output))

	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
	}

	outcome, paths, err := Batch(cmd.Context(), appContainer, inputDir, root.SharedFlags.Output, merge)
	if err != nil {
		logger.Fatalf("Error during batch conversion: %v", err)
	}

	logger.Info(fmt.Sprintf("Batch processing completed. %d archives, %d files created.", len(outcome.Sources), len(paths)),
		logging.F(logging.FieldCount, outcome.Records.Len()),
		logging.F("added", outcome.Added))
}

// Batch processes every archive in inputDir and writes one export to
// outputDir (output.directory when empty).
func Batch(ctx context.Context, c *container.Container, inputDir, outputDir string, merge bool) (*common.Outcome, []string, error) {
	if !fileutils.DirectoryExists(inputDir) {
		return nil, nil, fmt.Errorf("input directory %s does not exist", inputDir)
	}
	outDir := common.ReportDir(outputDir, c)

	dst := sink.New()
	var previousFailures []models.FailureRecord
	if merge {
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

	outcome, err := common.ProcessDirectory(ctx, c, inputDir, dst)
	if err != nil {
		return nil, nil, err
	}

	outcome.KeepFailures(previousFailures)

	paths, err := common.WriteOutputs(c, outDir, outcome)
	if err != nil {
		return nil, nil, fmt.Errorf("writing output: %w", err)
	}
	return outcome, paths, nil
}

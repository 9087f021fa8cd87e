// Package analyze handles the spending analysis command
package analyze

import (
	"context"
	"fmt"
	"io"

	"mmony/momo-csv/cmd/common"
	"mmony/momo-csv/cmd/root"
	"mmony/momo-csv/internal/analysis"
	"mmony/momo-csv/internal/container"
	"mmony/momo-csv/internal/fileutils"
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"
	"mmony/momo-csv/internal/sink"

	"github.com/spf13/cobra"
)

// ReportName is the base name of the analysis report.
const ReportName = "analysis"

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze transactions: totals, top parties, trends and anomalies",
	Long: `Analyze the transactions of an archive, a directory of archives or, when no
input is given, the CSV export already in the output directory.

The report (analysis.json or analysis.yaml) holds per-category totals, the top
senders and recipients, monthly totals, daily frequency, amounts above
mean + 3 standard deviations, fee totals and the running net flow.

Example:
  momo-csv analyze -i sms-20240531.xml -o out/`,
	Run: analyzeFunc,
}

func analyzeFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
	}

	rep, path, err := Analyze(cmd.Context(), appContainer, root.SharedFlags.Input, root.SharedFlags.Output, root.SharedFlags.Validate)
	if err != nil {
		logger.Fatalf("Error analyzing transactions: %v", err)
	}

	PrintSummary(cmd.OutOrStdout(), rep)
	logger.Info("Analysis completed successfully!", logging.F(logging.FieldOutputFile, path))
}

// Analyze builds the analysis report and writes it to the output directory.
func Analyze(ctx context.Context, c *container.Container, input, output string, validate bool) (*analysis.Report, string, error) {
	outDir := common.ReportDir(output, c)

	records, err := loadRecords(ctx, c, input, outDir, validate)
	if err != nil {
		return nil, "", err
	}

	rep := analysis.Analyze(records.All())
	path, err := c.GetReportGenerator().Write(outDir, ReportName, rep, c.GetConfig().Output.ReportFormat)
	if err != nil {
		return nil, "", err
	}
	return rep, path, nil
}

func loadRecords(ctx context.Context, c *container.Container, input, outDir string, validate bool) (*sink.Sink, error) {
	if input != "" {
		outcome, err := common.ProcessInput(ctx, c, input, validate, nil)
		if err != nil {
			return nil, err
		}
		return outcome.Records, nil
	}

	if !fileutils.DirectoryExists(outDir) {
		return nil, fmt.Errorf("no input given and no export found in %s", outDir)
	}
	return common.LoadPrevious(c, outDir)
}

// PrintSummary writes the headline figures of a report to w.
func PrintSummary(w io.Writer, rep *analysis.Report) {
	fmt.Fprintf(w, "Transactions: %d\n", rep.Transactions)
	for _, p := range rep.TopSenders {
		fmt.Fprintf(w, "  top sender     %-24s %s (%d)\n", p.Name, models.FormatAmount(p.Amount), p.Count)
	}
	for _, p := range rep.TopRecipients {
		fmt.Fprintf(w, "  top recipient  %-24s %s (%d)\n", p.Name, models.FormatAmount(p.Amount), p.Count)
	}
	fmt.Fprintf(w, "Anomalies: %d (threshold %s)\n", len(rep.Anomalies), models.FormatAmount(rep.AnomalyThreshold.Round(0)))
	fmt.Fprintf(w, "Net flow: %s\n", models.FormatAmount(rep.FinalBalance))
}

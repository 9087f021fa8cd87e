// Package stats handles the verification command
package stats

import (
	"context"
	"fmt"
	"io"

	"mmony/momo-csv/cmd/common"
	"mmony/momo-csv/cmd/root"
	"mmony/momo-csv/internal/container"
	"mmony/momo-csv/internal/logging"

	"github.com/spf13/cobra"
)

var ignoredFile string

// Cmd represents the stats command
var Cmd = &cobra.Command{
	Use:   "stats",
	Short: "Print classification counts for an archive",
	Long: `Classify every message of an archive (or a directory of archives) and print
the per-category counts, the unrecognized count and the reconciliation of the
two against the total. Nothing is written unless --ignored is given, in which
case the body of every unrecognized message is saved to that file.

Example:
  momo-csv stats -i sms-20240531.xml --ignored ignored.txt`,
	Run: statsFunc,
}

func init() {
	Cmd.Flags().StringVar(&ignoredFile, "ignored", "", "Write unrecognized message bodies to this file")
}

func statsFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
	}

	if _, err := Stats(cmd.Context(), appContainer, root.SharedFlags.Input, root.SharedFlags.Validate, ignoredFile, cmd.OutOrStdout()); err != nil {
		logger.Fatalf("Error computing stats: %v", err)
	}
}

// Stats processes input, prints the verification summary to w and, when
// ignoredPath is set, writes the unrecognized bodies there.
func Stats(ctx context.Context, c *container.Container, input string, validate bool, ignoredPath string, w io.Writer) (*common.Outcome, error) {
	outcome, err := common.ProcessInput(ctx, c, input, validate, nil)
	if err != nil {
		return nil, err
	}

	common.PrintStats(w, outcome.Stats)

	if ignoredPath != "" {
		if err := common.WriteIgnored(ignoredPath, outcome.Unrecognized); err != nil {
			return nil, fmt.Errorf("writing ignored messages: %w", err)
		}
		c.GetLogger().Info("Unrecognized messages written",
			logging.F(logging.FieldOutputFile, ignoredPath),
			logging.F(logging.FieldCount, len(outcome.Unrecognized)))
	}
	return outcome, nil
}

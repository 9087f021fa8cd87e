// Package push handles the database push command
package push

import (
	"context"
	"path/filepath"

	"mmony/momo-csv/cmd/common"
	"mmony/momo-csv/cmd/root"
	"mmony/momo-csv/internal/container"
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/persist"

	"github.com/spf13/cobra"
)

// Cmd represents the push command
var Cmd = &cobra.Command{
	Use:   "push",
	Short: "Push extracted transactions to Postgres",
	Long: `Process an archive (or a directory of archives) and insert the records into
one Postgres table per category, together with the extraction failures and an
import_runs audit row. Rows already present are skipped, so pushing the same
archive twice inserts nothing the second time.

The connection string comes from database.dsn, MOMO_DATABASE_DSN or DATABASE_URL.

Example:
  DATABASE_URL=postgres://momo@localhost/momo momo-csv push -i sms-20240531.xml`,
	Run: pushFunc,
}

func pushFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
	}

	res, err := Push(cmd.Context(), appContainer, root.SharedFlags.Input, root.SharedFlags.Validate)
	if err != nil {
		logger.Fatalf("Error pushing transactions: %v", err)
	}

	logger.Info("Push completed successfully!",
		logging.F("inserted", res.Total()),
		logging.F("skipped", res.Skipped),
		logging.F(logging.FieldFailures, res.FailedRows))
}

// Push processes input and writes the result through the persistence
// service.
func Push(ctx context.Context, c *container.Container, input string, validate bool) (*persist.Result, error) {
	outcome, err := common.ProcessInput(ctx, c, input, validate, nil)
	if err != nil {
		return nil, err
	}

	svc, err := c.GetPersistService(ctx)
	if err != nil {
		return nil, err
	}

	return svc.Push(ctx, persist.Batch{
		RunID:     outcome.RunID,
		Source:    filepath.Base(input),
		StartedAt: outcome.StartedAt,
		Records:   outcome.Records,
		Failures:  outcome.Failures,
		Stats:     outcome.Stats,
	})
}

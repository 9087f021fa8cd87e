package convert_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mmony/momo-csv/cmd/common"
	"mmony/momo-csv/cmd/convert"
	"mmony/momo-csv/internal/config"
	"mmony/momo-csv/internal/container"
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	janeBody    = "You have received 2000 RWF from Jane Smith (*********013) on your mobile money account at 2024-05-10 16:30:51. Financial Transaction Id: 76662021700."
	depositBody = "*113*R*A bank deposit of 40000 RWF has been added to your mobile money account at 2024-05-11 18:43:49."
	otpBody     = "Your OTP is 1234."

	undatedIncomingBody = "You have received 2000 RWF from Jane Smith (*********013) on your mobile money account."
	undatedDepositBody  = "*113*R*A bank deposit of 40000 RWF has been added to your mobile money account."
)

func newTestContainer(t *testing.T, outDir string) *container.Container {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.CSV.Delimiter = ","
	cfg.Engine.SequentialThreshold = 100
	cfg.Output.Directory = outDir
	cfg.Output.ReportFormat = "yaml"

	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func writeArchive(t *testing.T, dir, name string, bodies ...string) string {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "<?xml version='1.0' encoding='UTF-8' standalone='yes' ?>\n<smses count=\"%d\">\n", len(bodies))
	for i, body := range bodies {
		fmt.Fprintf(&b, "  <sms address=\"M-Money\" date=\"%d\" type=\"1\" body=\"%s\" />\n", 1715351451000+int64(i), body)
	}
	b.WriteString("</smses>\n")

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func TestConvertCommand_Metadata(t *testing.T) {
	assert.Equal(t, "convert", convert.Cmd.Use)
	assert.Contains(t, convert.Cmd.Short, "per-category CSV")
	assert.NotNil(t, convert.Cmd.Run)
	assert.NotNil(t, convert.Cmd.Flags().Lookup("merge"))
}

func TestConvert_WritesExport(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	archive := writeArchive(t, dir, "sms.xml", janeBody, depositBody, otpBody)
	c := newTestContainer(t, outDir)

	outcome, paths, err := convert.Convert(context.Background(), c, convert.Options{Input: archive})
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Added)
	assert.Len(t, outcome.Unrecognized, 1)
	for _, name := range []string{"incoming_money.csv", "bank_deposit.csv", "failures.csv", "stats.yaml"} {
		assert.Contains(t, paths, filepath.Join(outDir, name))
		assert.FileExists(t, filepath.Join(outDir, name))
	}

	data, err := os.ReadFile(filepath.Join(outDir, "incoming_money.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Jane Smith")
	assert.Contains(t, string(data), "76662021700")
}

func TestConvert_OutputFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir, "sms.xml", janeBody)
	flagDir := filepath.Join(dir, "flag")
	c := newTestContainer(t, filepath.Join(dir, "configured"))

	_, _, err := convert.Convert(context.Background(), c, convert.Options{Input: archive, Output: flagDir})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(flagDir, "incoming_money.csv"))
	assert.NoDirExists(t, filepath.Join(dir, "configured"))
}

func TestConvert_MergeDoesNotDuplicate(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	first := writeArchive(t, dir, "may.xml", janeBody)
	second := writeArchive(t, dir, "june.xml", janeBody, depositBody)
	c := newTestContainer(t, outDir)

	_, _, err := convert.Convert(context.Background(), c, convert.Options{Input: first})
	require.NoError(t, err)

	outcome, _, err := convert.Convert(context.Background(), c, convert.Options{Input: second, Merge: true})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Added)
	assert.Equal(t, 2, outcome.Records.Len())

	data, err := os.ReadFile(filepath.Join(outDir, "incoming_money.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "76662021700"))
}

func TestConvert_ReplacesPreviousExport(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	first := writeArchive(t, dir, "may.xml", janeBody, depositBody)
	second := writeArchive(t, dir, "june.xml", janeBody)
	c := newTestContainer(t, outDir)

	_, _, err := convert.Convert(context.Background(), c, convert.Options{Input: first})
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(outDir, "bank_deposit.csv"))

	outcome, _, err := convert.Convert(context.Background(), c, convert.Options{Input: second})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Records.Len())
	assert.NoFileExists(t, filepath.Join(outDir, "bank_deposit.csv"))

	previous, err := common.LoadPrevious(c, outDir)
	require.NoError(t, err)
	assert.Equal(t, 1, previous.Len())
}

func TestConvert_MergeKeepsPreviousFailures(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	first := writeArchive(t, dir, "may.xml", undatedIncomingBody)
	second := writeArchive(t, dir, "june.xml", undatedIncomingBody, undatedDepositBody)
	c := newTestContainer(t, outDir)

	_, _, err := convert.Convert(context.Background(), c, convert.Options{Input: first})
	require.NoError(t, err)

	outcome, _, err := convert.Convert(context.Background(), c, convert.Options{Input: second, Merge: true})
	require.NoError(t, err)
	require.Len(t, outcome.Failures, 2)
	assert.Equal(t, models.CategoryIncomingMoney, outcome.Failures[0].AttemptedCategory)
	assert.Equal(t, models.CategoryBankDeposit, outcome.Failures[1].AttemptedCategory)

	failures, err := c.GetCSVStore().ReadFailures(outDir)
	require.NoError(t, err)
	assert.Len(t, failures, 2)
}

func TestConvert_WithoutMergeKeepsOnlyThisRunsFailures(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	first := writeArchive(t, dir, "may.xml", undatedDepositBody)
	second := writeArchive(t, dir, "june.xml", janeBody)
	c := newTestContainer(t, outDir)

	_, _, err := convert.Convert(context.Background(), c, convert.Options{Input: first})
	require.NoError(t, err)
	_, _, err = convert.Convert(context.Background(), c, convert.Options{Input: second})
	require.NoError(t, err)

	failures, err := c.GetCSVStore().ReadFailures(outDir)
	require.NoError(t, err)
	assert.Empty(t, failures)
}

func TestConvert_MissingInput(t *testing.T) {
	c := newTestContainer(t, t.TempDir())
	_, _, err := convert.Convert(context.Background(), c, convert.Options{Input: filepath.Join(t.TempDir(), "absent.xml")})
	assert.Error(t, err)
}

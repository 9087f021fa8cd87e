package common_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mmony/momo-csv/cmd/common"
	"mmony/momo-csv/internal/config"
	"mmony/momo-csv/internal/container"
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var archiveBodies = []string{
	"*143*R*You have successfully registered for MoMo Pay.",
	"You have received 2000 RWF from Jane Smith (*********013) on your mobile money account at 2024-05-10 16:30:51. Financial Transaction Id: 76662021700.",
	"TxId: 73214484438. Your payment of 1,000 RWF to Jane Smith 12845 has been completed.",
	"*113*R*A bank deposit of 40000 RWF has been added to your mobile money account at 2024-05-11 18:43:49.",
	"Your OTP is 1234.",
}

func newTestContainer(t *testing.T, outDir string) *container.Container {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.CSV.Delimiter = ","
	cfg.Engine.SequentialThreshold = 100
	cfg.Output.Directory = outDir
	cfg.Output.ReportFormat = "json"

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

func TestProcessArchive(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir, "sms.xml", archiveBodies...)
	c := newTestContainer(t, filepath.Join(dir, "out"))

	outcome, err := common.ProcessArchive(context.Background(), c, archive, true, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Records.Len())
	assert.Equal(t, 2, outcome.Added)
	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, models.CategoryPaymentToCodeHolder, outcome.Failures[0].AttemptedCategory)
	require.Len(t, outcome.Unrecognized, 1)
	assert.Equal(t, 5, outcome.Stats.Total)
	assert.Equal(t, []string{archive}, outcome.Sources)

	rep := outcome.Report()
	assert.Equal(t, []string{"sms.xml"}, rep.Sources)
	assert.Equal(t, outcome.RunID.String(), rep.RunID)
	assert.Equal(t, []string{"Your OTP is 1234."}, rep.Unrecognized)
	assert.Equal(t, "2024-05-10_2024-05-11", rep.DateRange)
}

func TestProcessArchive_Errors(t *testing.T) {
	dir := t.TempDir()
	c := newTestContainer(t, dir)

	_, err := common.ProcessArchive(context.Background(), c, "", false, nil)
	assert.ErrorContains(t, err, "no input archive")

	_, err = common.ProcessArchive(context.Background(), c, filepath.Join(dir, "missing.xml"), false, nil)
	assert.Error(t, err)

	notXML := filepath.Join(dir, "notes.xml")
	require.NoError(t, os.WriteFile(notXML, []byte("plain text"), 0o600))
	_, err = common.ProcessArchive(context.Background(), c, notXML, true, nil)
	assert.Error(t, err)
}

func TestProcessInput_Directory(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "a.xml", archiveBodies[1])
	writeArchive(t, dir, "b.xml", archiveBodies[1], archiveBodies[3])
	c := newTestContainer(t, t.TempDir())

	outcome, err := common.ProcessInput(context.Background(), c, dir, false, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Records.Len())
	assert.Equal(t, 2, outcome.Added)
	assert.Len(t, outcome.Sources, 2)
	assert.Equal(t, 1, outcome.Records.Duplicates())

	_, err = common.ProcessInput(context.Background(), c, t.TempDir(), false, nil)
	assert.ErrorContains(t, err, "no .xml archives")
}

func TestWriteOutputsAndLoadPrevious(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	archive := writeArchive(t, dir, "sms.xml", archiveBodies...)
	c := newTestContainer(t, outDir)

	outcome, err := common.ProcessArchive(context.Background(), c, archive, false, nil)
	require.NoError(t, err)

	paths, err := common.WriteOutputs(c, outDir, outcome)
	require.NoError(t, err)
	assert.Contains(t, paths, filepath.Join(outDir, "incoming_money.csv"))
	assert.Contains(t, paths, filepath.Join(outDir, "bank_deposit.csv"))
	assert.Contains(t, paths, filepath.Join(outDir, "failures.csv"))
	assert.Contains(t, paths, filepath.Join(outDir, "stats.json"))

	previous, err := common.LoadPrevious(c, outDir)
	require.NoError(t, err)
	assert.Equal(t, 2, previous.Len())

	again, err := common.ProcessArchive(context.Background(), c, archive, false, previous)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Added)
	assert.Equal(t, 2, again.Records.Len())

	empty, err := common.LoadPrevious(c, filepath.Join(dir, "absent"))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestWriteIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ignored.txt")
	err := common.WriteIgnored(path, []models.RawMessage{{Body: "Your OTP is 1234."}, {Body: "Promo\nline"}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Your OTP is 1234.\nPromo line\n", string(data))
}

func TestPrintStats(t *testing.T) {
	stats := models.CategoryStats{
		Total: 5,
		Counts: map[models.Category]int{
			models.CategoryIncomingMoney:       1,
			models.CategoryPaymentToCodeHolder: 1,
			models.CategoryBankDeposit:         1,
			models.CategorySystemNotification:  1,
		},
		Unrecognized: 1,
		Failed:       1,
	}

	var buf bytes.Buffer
	common.PrintStats(&buf, stats)
	out := buf.String()

	assert.Contains(t, out, "Total messages:     5")
	assert.Contains(t, out, "incoming_money")
	assert.Contains(t, out, "Classified:         4")
	assert.Contains(t, out, "Unrecognized:       1")
	assert.Contains(t, out, "Discrepancy:        none")
	assert.Less(t, strings.Index(out, "incoming_money"), strings.Index(out, "bank_deposit"))
}

func TestReportDir(t *testing.T) {
	c := newTestContainer(t, "exports")
	assert.Equal(t, "exports", common.ReportDir("", c))
	assert.Equal(t, "elsewhere", common.ReportDir("elsewhere", c))
}

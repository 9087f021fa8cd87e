package stats_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mmony/momo-csv/cmd/stats"
	"mmony/momo-csv/internal/config"
	"mmony/momo-csv/internal/container"
	"mmony/momo-csv/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	janeBody    = "You have received 2000 RWF from Jane Smith (*********013) on your mobile money account at 2024-05-10 16:30:51. Financial Transaction Id: 76662021700."
	depositBody = "*113*R*A bank deposit of 40000 RWF has been added to your mobile money account at 2024-05-11 18:43:49."
	otpBody     = "Your OTP is 1234."
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

func TestStatsCommand_Metadata(t *testing.T) {
	assert.Equal(t, "stats", stats.Cmd.Use)
	assert.NotNil(t, stats.Cmd.Run)
	assert.NotNil(t, stats.Cmd.Flags().Lookup("ignored"))
}

func TestStats_PrintsCountsAndWritesIgnored(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir, "sms.xml", janeBody, depositBody, otpBody, "Promo: win big today!")
	ignored := filepath.Join(dir, "ignored.txt")
	c := newTestContainer(t, filepath.Join(dir, "out"))

	var buf bytes.Buffer
	outcome, err := stats.Stats(context.Background(), c, archive, true, ignored, &buf)
	require.NoError(t, err)

	assert.Equal(t, 4, outcome.Stats.Total)
	assert.Equal(t, 2, outcome.Stats.Unrecognized)
	assert.Contains(t, buf.String(), "Total messages:     4")
	assert.Contains(t, buf.String(), "Unrecognized:       2")
	assert.Contains(t, buf.String(), "Discrepancy:        none")

	data, err := os.ReadFile(ignored)
	require.NoError(t, err)
	assert.Equal(t, otpBody+"\nPromo: win big today!\n", string(data))
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestStats_UnreadableArchive(t *testing.T) {
	c := newTestContainer(t, t.TempDir())
	var buf bytes.Buffer
	_, err := stats.Stats(context.Background(), c, filepath.Join(t.TempDir(), "absent.xml"), false, "", &buf)
	assert.Error(t, err)
	assert.Empty(t, buf.String())
}

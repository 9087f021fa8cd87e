package advise

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"mmony/momo-csv/internal/advisor"
	"mmony/momo-csv/internal/config"
	"mmony/momo-csv/internal/container"
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdviseCommand_Metadata(t *testing.T) {
	assert.Equal(t, "advise", Cmd.Use)
	assert.NotNil(t, Cmd.Run)
	flag := Cmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "20", flag.DefValue)
}

func TestAdvise_DisabledByDefault(t *testing.T) {
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.CSV.Delimiter = ","
	cfg.Engine.SequentialThreshold = 100
	cfg.Output.ReportFormat = "json"

	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)

	_, err = Advise(context.Background(), c, "unused.xml", false, 5)
	assert.True(t, errors.Is(err, container.ErrAIDisabled))
}

func TestPrintSuggestions(t *testing.T) {
	long := "Promo " + strings.Repeat("x", 100)
	var buf bytes.Buffer
	PrintSuggestions(&buf, []advisor.Suggestion{
		{Body: "Your   OTP\nis 1234.", Category: models.CategorySystemNotification, Explanation: "one-time password"},
		{Body: long, Error: "quota exceeded"},
	})

	out := buf.String()
	assert.Contains(t, out, "Your OTP is 1234.\n  -> system_notification: one-time password")
	assert.Contains(t, out, "  error: quota exceeded")
	assert.Contains(t, out, long[:bodyPreview]+"...")
	assert.NotContains(t, out, long)
}

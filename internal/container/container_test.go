package container

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"mmony/momo-csv/internal/classifier"
	"mmony/momo-csv/internal/config"
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.CSV.Delimiter = ";"
	cfg.Engine.SequentialThreshold = 100
	cfg.Output.Directory = "out"
	cfg.Output.ReportFormat = "json"
	cfg.AI.Model = "gemini-2.0-flash"
	cfg.AI.RequestsPerMinute = 10
	cfg.AI.TimeoutSeconds = 30
	return cfg
}

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "nil config",
			config:      nil,
			expectError: true,
			errorMsg:    "configuration cannot be nil",
		},
		{
			name:   "valid config without AI",
			config: testConfig(),
		},
		{
			name: "valid config with AI enabled",
			config: func() *config.Config {
				cfg := testConfig()
				cfg.Log.Level = "debug"
				cfg.Log.Format = "json"
				cfg.AI.Enabled = true
				cfg.AI.APIKey = "test-key"
				return cfg
			}(),
		},
		{
			name: "missing rules file",
			config: func() *config.Config {
				cfg := testConfig()
				cfg.Rules.File = filepath.Join(t.TempDir(), "absent.yaml")
				return cfg
			}(),
			expectError: true,
			errorMsg:    "rules file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContainer(tt.config)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, c)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, c)
			assert.Same(t, tt.config, c.GetConfig())
			assert.NotNil(t, c.GetLogger())
			assert.NotNil(t, c.GetClassifier())
			assert.NotNil(t, c.GetEngine())
			assert.NotNil(t, c.GetLoader())
			assert.NotNil(t, c.GetReportGenerator())
			assert.NotNil(t, c.GetAggregator())
			assert.Equal(t, ';', c.GetCSVStore().Delimiter())
			assert.NoError(t, c.Close())
		})
	}
}

func TestContainer_DefaultRules(t *testing.T) {
	c, err := NewContainerWithLogger(testConfig(), logging.NewMockLogger())
	require.NoError(t, err)

	assert.Equal(t, classifier.DefaultRules(), c.GetClassifier().Rules())
	assert.Same(t, c.GetClassifier(), c.GetEngine().Classifier())
}

func TestContainer_CustomRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, classifier.SaveRules(path, []classifier.Rule{
		{Name: "deposit", Prefix: "*113*R*", Category: models.CategoryBankDeposit},
	}))

	cfg := testConfig()
	cfg.Rules.File = path
	logger := logging.NewMockLogger()

	c, err := NewContainerWithLogger(cfg, logger)
	require.NoError(t, err)

	cls := c.GetClassifier()
	require.Len(t, cls.Rules(), 1)
	assert.Equal(t, models.CategoryBankDeposit, cls.Classify("*113*R*A bank deposit of 40000 RWF"))
	assert.Equal(t, models.CategoryUnrecognized, cls.Classify("You have received 2000 RWF from Jane"))
	assert.True(t, logger.HasEntry("INFO", "Loaded classification rules"))
}

func TestContainer_InvalidRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, classifier.SaveRules(path, []classifier.Rule{
		{Name: "catch-all", Category: models.CategoryBankDeposit},
	}))

	cfg := testConfig()
	cfg.Rules.File = path

	_, err := NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matches every message")
}

func TestContainer_PipelineWiring(t *testing.T) {
	c, err := NewContainerWithLogger(testConfig(), logging.NewMockLogger())
	require.NoError(t, err)

	xml := `<?xml version="1.0" encoding="UTF-8"?>
<smses count="2">
  <sms address="M-Money" date="1715351451000" body="You have received 2000 RWF from Jane Smith (*********013) on your mobile money account at 2024-05-10 16:30:51. Financial Transaction Id: 76662021700." />
  <sms address="M-Money" date="1715351452000" body="Your OTP is 1234." />
</smses>`
	messages, err := c.GetLoader().Parse(strings.NewReader(xml), "inline.xml")
	require.NoError(t, err)

	res, err := c.GetEngine().Run(context.Background(), messages)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Records.Len())
	assert.Len(t, res.Unrecognized, 1)
	assert.Empty(t, res.Failures)
	assert.True(t, slices.Contains(res.Records.Categories(), models.CategoryIncomingMoney))
}

func TestContainer_GetAdvisorDisabled(t *testing.T) {
	c, err := NewContainerWithLogger(testConfig(), logging.NewMockLogger())
	require.NoError(t, err)

	adv, err := c.GetAdvisor(context.Background())
	assert.Nil(t, adv)
	assert.True(t, errors.Is(err, ErrAIDisabled))
}

func TestContainer_GetPersistServiceWithoutDSN(t *testing.T) {
	c, err := NewContainerWithLogger(testConfig(), logging.NewMockLogger())
	require.NoError(t, err)

	svc, err := c.GetPersistService(context.Background())
	assert.Nil(t, svc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no DSN configured")
	assert.NoError(t, c.Close())
}

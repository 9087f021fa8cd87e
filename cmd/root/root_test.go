package root_test

import (
	"os"
	"path/filepath"
	"testing"

	"mmony/momo-csv/cmd/root"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	root.Init()
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "momo-csv", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "MoMo SMS backups")
	assert.Contains(t, root.Cmd.Long, "SMS Backup & Restore")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
}

func TestRootCommand_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
	}{
		{name: "input", shorthand: "i"},
		{name: "output", shorthand: "o"},
		{name: "validate", shorthand: "v"},
		{name: "config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := root.Cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestRootCommand_Run(t *testing.T) {
	assert.NotPanics(t, func() {
		root.Cmd.Run(&cobra.Command{}, []string{})
	})
}

func TestCommonFlags_Structure(t *testing.T) {
	flags := root.CommonFlags{
		Input:    "sms.xml",
		Output:   "out",
		Validate: true,
	}

	assert.Equal(t, "sms.xml", flags.Input)
	assert.Equal(t, "out", flags.Output)
	assert.True(t, flags.Validate)
}

func TestGetLogrusAdapter_BeforeInitialization(t *testing.T) {
	original := root.AppContainer
	root.AppContainer = nil
	defer func() { root.AppContainer = original }()

	assert.NotNil(t, root.GetLogrusAdapter())
	assert.Nil(t, root.GetContainer())
}

func TestPersistentPreRunE_BuildsContainer(t *testing.T) {
	originalConfig, originalContainer, originalFile := root.AppConfig, root.AppContainer, root.ConfigFile
	defer func() {
		root.AppConfig, root.AppContainer, root.ConfigFile = originalConfig, originalContainer, originalFile
	}()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("csv:\n  delimiter: \";\"\noutput:\n  report_format: yaml\n"), 0o600))
	root.ConfigFile = path

	require.NoError(t, root.Cmd.PersistentPreRunE(root.Cmd, nil))
	require.NotNil(t, root.GetConfig())
	require.NotNil(t, root.GetContainer())
	assert.Equal(t, ';', root.GetContainer().GetCSVStore().Delimiter())
	assert.Equal(t, "yaml", root.GetConfig().Output.ReportFormat)
	assert.Same(t, root.GetContainer().GetLogger(), root.GetLogrusAdapter())

	assert.NotPanics(t, func() { root.Cmd.PersistentPostRun(root.Cmd, nil) })
}

func TestPersistentPreRunE_InvalidConfig(t *testing.T) {
	originalFile := root.ConfigFile
	defer func() { root.ConfigFile = originalFile }()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o600))
	root.ConfigFile = path

	err := root.Cmd.PersistentPreRunE(root.Cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

// Package root contains the root command for the application
package root

import (
	"fmt"
	"os"

	"mmony/momo-csv/internal/config"
	"mmony/momo-csv/internal/container"
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/validation"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Validate bool
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "momo-csv",
		Short: "A CLI tool to turn MoMo SMS backups into typed transaction CSV files.",
		Long: `momo-csv reads an "SMS Backup & Restore" XML export of MTN MoMo notifications,
classifies every message and extracts one typed record per transaction.

Records are written as one CSV file per category, together with a failure log
and classification stats, or pushed to Postgres.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to momo-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: initialize,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.Warnf("Failed to release resources: %v", err)
			}
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// ConfigFile is an explicit configuration file (--config).
	ConfigFile string

	// AppConfig is the configuration loaded before every command.
	AppConfig *config.Config

	// AppContainer holds the dependencies built from AppConfig.
	AppContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input SMS backup archive (directory for batch)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output directory (defaults to output.directory)")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Validate, "validate", "v", false, "Validate archive format before processing")
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default is config.yaml in $HOME/.momo-csv, .momo-csv or .)")
}

// initialize loads .env and the configuration, then wires the container.
func initialize(cmd *cobra.Command, args []string) error {
	envFile, err := config.LoadEnv()
	if err != nil {
		Log.Warnf("Failed to load .env file: %v", err)
	}
	if envFile != "" {
		if info, statErr := os.Stat(envFile); statErr == nil {
			if permErr := validation.IsValidFilePermissions(info.Mode().Perm()); permErr != nil {
				Log.Warnf("%s may hold credentials: %v", envFile, permErr)
			}
		}
	}

	cfg, err := config.Load(ConfigFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	AppConfig = cfg

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		Log.SetLevel(level)
	}
	if cfg.Log.Format == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	AppContainer = c
	return nil
}

// GetContainer returns the container built for the running command, or nil
// before initialization.
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the loaded configuration, or nil before initialization.
func GetConfig() *config.Config {
	return AppConfig
}

// GetLogrusAdapter returns the container's logger, falling back to an
// adapter over Log.
func GetLogrusAdapter() logging.Logger {
	if AppContainer != nil {
		return AppContainer.GetLogger()
	}
	return logging.NewLogrusAdapterFromLogger(Log)
}

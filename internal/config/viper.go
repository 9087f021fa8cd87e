// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/validation"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MOMO_LOG_LEVEL.
const EnvPrefix = "MOMO"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Engine struct {
		Workers             int `mapstructure:"workers" yaml:"workers"`
		SequentialThreshold int `mapstructure:"sequential_threshold" yaml:"sequential_threshold"`
	} `mapstructure:"engine" yaml:"engine"`

	Rules struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"rules" yaml:"rules"`

	Output struct {
		Directory    string `mapstructure:"directory" yaml:"directory"`
		ReportFormat string `mapstructure:"report_format" yaml:"report_format"`
	} `mapstructure:"output" yaml:"output"`

	Database struct {
		DSN string `mapstructure:"dsn" yaml:"-"`
	} `mapstructure:"database" yaml:"database"`

	AI struct {
		Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
		Model             string `mapstructure:"model" yaml:"model"`
		RequestsPerMinute int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
		TimeoutSeconds    int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey            string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`
}

// Load builds the configuration: defaults, then the config file, then
// environment variables. An explicit configFile must exist; otherwise
// config.yaml is looked up in $HOME/.momo-csv, .momo-csv and the working
// directory and may be absent.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.momo-csv")
		v.AddConfigPath(".momo-csv")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// Unprefixed variables shared with other tooling.
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}
	if err := v.BindEnv("database.dsn", "MOMO_DATABASE_DSN", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind DATABASE_URL: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("engine.workers", 0)
	v.SetDefault("engine.sequential_threshold", 100)

	v.SetDefault("rules.file", "")

	v.SetDefault("output.directory", "out")
	v.SetDefault("output.report_format", "json")

	v.SetDefault("database.dsn", "")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.requests_per_minute", 10)
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("ai.api_key", "")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %q", config.CSV.Delimiter)
	}

	if config.Engine.Workers < 0 || config.Engine.Workers > 256 {
		return fmt.Errorf("engine.workers must be between 0 and 256, got: %d", config.Engine.Workers)
	}
	if config.Engine.SequentialThreshold < 1 {
		return fmt.Errorf("engine.sequential_threshold must be positive, got: %d", config.Engine.SequentialThreshold)
	}

	if err := validation.IsValidReportFormat(config.Output.ReportFormat); err != nil {
		return err
	}

	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}

		if config.AI.RequestsPerMinute < 1 || config.AI.RequestsPerMinute > 1000 {
			return fmt.Errorf("ai.requests_per_minute must be between 1 and 1000, got: %d", config.AI.RequestsPerMinute)
		}

		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}

	return nil
}

// Delimiter returns the configured CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	return []rune(c.CSV.Delimiter)[0]
}

// NewLogger builds the application logger from the log section.
func NewLogger(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(config.Log.Level), strings.ToLower(config.Log.Format))
}

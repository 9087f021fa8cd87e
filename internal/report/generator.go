// Package report renders run statistics and analysis results as JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"mmony/momo-csv/internal/fileutils"
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"

	"gopkg.in/yaml.v3"
)

// Supported report formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// RunReport is the stats document written next to a conversion's CSV files.
type RunReport struct {
	RunID        string               `json:"run_id" yaml:"run_id"`
	Sources      []string             `json:"sources" yaml:"sources"`
	StartedAt    time.Time            `json:"started_at" yaml:"started_at"`
	DurationMS   int64                `json:"duration_ms" yaml:"duration_ms"`
	Records      int                  `json:"records" yaml:"records"`
	Added        int                  `json:"added" yaml:"added"`
	Duplicates   int                  `json:"duplicates" yaml:"duplicates"`
	SuccessRate  float64              `json:"success_rate" yaml:"success_rate"`
	DateRange    string               `json:"date_range,omitempty" yaml:"date_range,omitempty"`
	Stats        models.CategoryStats `json:"stats" yaml:"stats"`
	Unrecognized []string             `json:"unrecognized,omitempty" yaml:"unrecognized,omitempty"`
}

// Generator renders reports in the configured formats.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new instance of Generator.
func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{
		logger: logging.OrDefault(logger).WithField(logging.FieldComponent, "ReportGenerator"),
	}
}

// Generate renders v in the given format (json or yaml).
func (g *Generator) Generate(v any, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return g.generateJSON(v)
	case FormatYAML:
		return g.generateYAML(v)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) generateJSON(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *Generator) generateYAML(v any) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}

// Write renders v and writes it to <dir>/<name>.<format>, returning the path.
func (g *Generator) Write(dir, name string, v any, format string) (string, error) {
	data, err := g.Generate(v, format)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name+"."+format)
	if err := fileutils.WriteFile(path, data, models.PermissionReportFile); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	g.logger.Info("Report written",
		logging.F(logging.FieldOutputFile, path),
		logging.F("format", format))
	return path, nil
}

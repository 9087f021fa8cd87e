package classifier

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mmony/momo-csv/internal/fileutils"
	"mmony/momo-csv/internal/models"

	"gopkg.in/yaml.v3"
)

// RuleTable is the on-disk form of an ordered rule table.
type RuleTable struct {
	Rules []Rule `yaml:"rules"`
}

const ruleFileHeader = "# Classification rules, evaluated top to bottom. The first match wins.\n"

// MarshalRules renders rules as a YAML rule table.
func MarshalRules(rules []Rule) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(ruleFileHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(RuleTable{Rules: rules}); err != nil {
		return nil, fmt.Errorf("encoding rules: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding rules: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveRules writes rules to path as YAML.
func SaveRules(path string, rules []Rule) error {
	data, err := MarshalRules(rules)
	if err != nil {
		return err
	}
	return fileutils.WriteFile(path, data, models.PermissionReportFile)
}

// LoadRules reads and validates a YAML rule table.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}

	var table RuleTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	if err := ValidateRules(table.Rules); err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return table.Rules, nil
}

// ValidateRules rejects empty tables, rules that would match every body and
// rules whose category is not a known classification outcome.
func ValidateRules(rules []Rule) error {
	if len(rules) == 0 {
		return errors.New("rule table is empty")
	}
	for i, r := range rules {
		if r.Prefix == "" && len(r.AllOf) == 0 && len(r.AnyOf) == 0 {
			return fmt.Errorf("rule %d (%s) matches every message", i+1, r.Name)
		}
		if !r.Category.IsValid() || r.Category == models.CategoryUnrecognized {
			return fmt.Errorf("rule %d (%s) has invalid category %q", i+1, r.Name, r.Category)
		}
	}
	return nil
}

// FindRulesFile looks for a rules file in the working directory, then in
// .momo-csv and $HOME/.momo-csv. Absolute paths are used as given.
func FindRulesFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if fileutils.FileExists(filename) {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join(".momo-csv", filename),
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".momo-csv", filename))
	}

	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

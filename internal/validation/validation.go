// Package validation checks user-supplied paths and formats before any work
// starts.
package validation

import (
	"fmt"
	"os"
)

// ReportFormats are the accepted output.report_format values.
var ReportFormats = []string{"json", "yaml"}

// IsValidPath checks that path exists and is a regular file or a directory.
func IsValidPath(path string) error {
	if path == "" {
		return fmt.Errorf("path is empty")
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}

	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is neither a file nor a directory", path)
	}

	return nil
}

// IsValidReportFormat checks if the given report format is supported.
func IsValidReportFormat(format string) error {
	for _, f := range ReportFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid report format: %s (must be 'json' or 'yaml')", format)
}

// IsValidFilePermissions rejects modes that grant any access to others.
// Files holding a DSN or an API key should be 0600.
func IsValidFilePermissions(mode os.FileMode) error {
	if mode&0007 != 0 {
		return fmt.Errorf("file permissions are too permissive: %s. Recommended 0600 or 0644", mode.String())
	}
	return nil
}

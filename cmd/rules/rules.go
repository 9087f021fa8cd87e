// Package rules handles the rule table command
package rules

import (
	"fmt"
	"io"

	"mmony/momo-csv/cmd/root"
	"mmony/momo-csv/internal/classifier"
	"mmony/momo-csv/internal/logging"

	"github.com/spf13/cobra"
)

var exportFile string

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the ordered classification rule table",
	Long: `Print the classification rules as YAML, in evaluation order. The first rule
that matches a message decides its category.

With --export the table is written to a file instead. Such a file can be edited
and loaded back through the rules.file setting.

Example:
  momo-csv rules --export rules.yaml`,
	Run: rulesFunc,
}

func init() {
	Cmd.Flags().StringVar(&exportFile, "export", "", "Write the rule table to this file")
}

func rulesFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
	}

	rules := appContainer.GetClassifier().Rules()
	if exportFile != "" {
		if err := classifier.SaveRules(exportFile, rules); err != nil {
			logger.Fatalf("Error exporting rules: %v", err)
		}
		logger.Info("Rules exported",
			logging.F(logging.FieldOutputFile, exportFile),
			logging.F(logging.FieldCount, len(rules)))
		return
	}

	if err := Print(cmd.OutOrStdout(), rules); err != nil {
		logger.Fatalf("Error printing rules: %v", err)
	}
}

// Print writes the rule table to w as YAML.
func Print(w io.Writer, rules []classifier.Rule) error {
	data, err := classifier.MarshalRules(rules)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, string(data))
	return err
}

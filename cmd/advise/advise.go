// Package advise handles the AI suggestion command
package advise

import (
	"context"
	"fmt"
	"io"
	"strings"

	"mmony/momo-csv/cmd/common"
	"mmony/momo-csv/cmd/root"
	"mmony/momo-csv/internal/advisor"
	"mmony/momo-csv/internal/container"
	"mmony/momo-csv/internal/logging"

	"github.com/spf13/cobra"
)

// bodyPreview is the number of runes of a body shown per suggestion.
const bodyPreview = 80

var limit int

// Cmd represents the advise command
var Cmd = &cobra.Command{
	Use:   "advise",
	Short: "Ask Gemini which category unrecognized messages resemble",
	Long: `Process an archive and ask Gemini, for each distinct unrecognized message,
which known category it most resembles. Suggestions are printed only; they
never change how messages are classified.

Requires ai.enabled and GEMINI_API_KEY. Requests are throttled to
ai.requests_per_minute.

Example:
  MOMO_AI_ENABLED=true momo-csv advise -i sms-20240531.xml --limit 10`,
	Run: adviseFunc,
}

func init() {
	Cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of distinct messages to send (0 for all)")
}

func adviseFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
	}

	suggestions, err := Advise(cmd.Context(), appContainer, root.SharedFlags.Input, root.SharedFlags.Validate, limit)
	if err != nil {
		logger.Fatalf("Error requesting suggestions: %v", err)
	}

	PrintSuggestions(cmd.OutOrStdout(), suggestions)
	logger.Info("Advice completed", logging.F(logging.FieldCount, len(suggestions)))
}

// Advise processes input and requests suggestions for its unrecognized
// messages.
func Advise(ctx context.Context, c *container.Container, input string, validate bool, limit int) ([]advisor.Suggestion, error) {
	adv, err := c.GetAdvisor(ctx)
	if err != nil {
		return nil, err
	}

	outcome, err := common.ProcessInput(ctx, c, input, validate, nil)
	if err != nil {
		return nil, err
	}
	if len(outcome.Unrecognized) == 0 {
		c.GetLogger().Info("No unrecognized messages")
		return nil, nil
	}

	return adv.Advise(ctx, outcome.Unrecognized, limit)
}

// PrintSuggestions writes one block per suggestion to w.
func PrintSuggestions(w io.Writer, suggestions []advisor.Suggestion) {
	for _, s := range suggestions {
		fmt.Fprintf(w, "%s\n", preview(s.Body))
		if s.Error != "" {
			fmt.Fprintf(w, "  error: %s\n\n", s.Error)
			continue
		}
		fmt.Fprintf(w, "  -> %s: %s\n\n", s.Category, s.Explanation)
	}
}

func preview(body string) string {
	body = strings.Join(strings.Fields(body), " ")
	runes := []rune(body)
	if len(runes) <= bodyPreview {
		return body
	}
	return string(runes[:bodyPreview]) + "..."
}

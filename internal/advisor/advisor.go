// Package advisor asks a language model which known category an
// unrecognized message resembles. Suggestions are diagnostics for
// reviewing the rule table; they never change how a message is classified.
package advisor

import (
	"context"
	"errors"

	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"
)

// Suggestion is the model's guess for one message body.
type Suggestion struct {
	Body        string          `json:"body" yaml:"body"`
	Category    models.Category `json:"category" yaml:"category"`
	Explanation string          `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Error       string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// Advisor collects suggestions for a batch of unrecognized messages.
type Advisor struct {
	client     Client
	categories []models.Category
	logger     logging.Logger
}

// New creates an Advisor offering the transaction categories plus the
// system notification category to the client.
func New(client Client, logger logging.Logger) *Advisor {
	categories := append([]models.Category{}, models.TransactionCategories...)
	categories = append(categories, models.CategorySystemNotification)
	return &Advisor{client: client, categories: categories, logger: logging.OrDefault(logger)}
}

// Advise requests one suggestion per distinct body, up to limit bodies
// (no limit when limit <= 0). A failed request is recorded on its
// suggestion and does not stop the batch; context cancellation does.
func (a *Advisor) Advise(ctx context.Context, messages []models.RawMessage, limit int) ([]Suggestion, error) {
	seen := make(map[string]bool)
	var out []Suggestion

	for _, msg := range messages {
		if limit > 0 && len(out) >= limit {
			break
		}
		if seen[msg.Body] {
			continue
		}
		seen[msg.Body] = true

		s, err := a.client.Suggest(ctx, msg.Body, a.categories)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return out, ctxErr
				}
			}
			a.logger.WithError(err).Warn("Suggestion failed")
			s = Suggestion{Body: msg.Body, Category: models.CategoryUnrecognized, Error: err.Error()}
		}
		s.Body = msg.Body
		out = append(out, s)
	}

	a.logger.Info("Suggestions collected",
		logging.F(logging.FieldCount, len(out)),
		logging.F(logging.FieldTotal, len(messages)))
	return out, nil
}

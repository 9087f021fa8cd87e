package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// Client suggests a category for a message body. Implementations talk to an
// external model; tests supply fakes.
type Client interface {
	Suggest(ctx context.Context, body string, categories []models.Category) (Suggestion, error)
}

// GeminiClient implements Client with the Google Gemini API.
type GeminiClient struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	limiter *rate.Limiter
	timeout time.Duration
	logger  logging.Logger
}

// GeminiOptions configures a GeminiClient.
type GeminiOptions struct {
	APIKey            string
	Model             string
	RequestsPerMinute int
	Timeout           time.Duration
}

// NewGeminiClient creates a Gemini-backed client. Close it when done.
func NewGeminiClient(ctx context.Context, opts GeminiOptions, logger logging.Logger) (*GeminiClient, error) {
	if opts.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(opts.Model)
	model.SetTemperature(0)

	return &GeminiClient{
		client:  client,
		model:   model,
		limiter: newLimiter(opts.RequestsPerMinute),
		timeout: opts.Timeout,
		logger:  logging.OrDefault(logger),
	}, nil
}

// newLimiter spaces requests evenly over a minute with no burst.
func newLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
}

// Close releases the underlying connection.
func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// Suggest asks Gemini which category body most resembles.
func (g *GeminiClient) Suggest(ctx context.Context, body string, categories []models.Category) (Suggestion, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return Suggestion{}, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	g.logger.Debug("Requesting category suggestion",
		logging.F(logging.FieldOperation, "gemini_suggest"))

	resp, err := g.model.GenerateContent(ctx, genai.Text(buildPrompt(body, categories)))
	if err != nil {
		return Suggestion{}, fmt.Errorf("gemini API error: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return Suggestion{}, errors.New("no response from Gemini API")
	}

	category, explanation := parseResponse(text, categories)
	return Suggestion{Body: body, Category: category, Explanation: explanation}, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}

func buildPrompt(body string, categories []models.Category) string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}

	return fmt.Sprintf(`The following SMS was sent by the MTN MoMo Rwanda mobile-money service:
%q

Which one of these message categories does it most resemble?
%s

If none fits, answer %s.

Respond in this format:
Category: [category identifier]
Description: [one sentence explaining the choice]`,
		body,
		strings.Join(names, ", "),
		models.CategoryUnrecognized)
}

// parseResponse extracts the category and explanation from a model answer.
// Anything that is not one of the offered categories maps to Unrecognized.
func parseResponse(response string, categories []models.Category) (models.Category, string) {
	var name, description string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Category:"):
			name = strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "Category:")), "[]`*")
		case strings.HasPrefix(line, "Description:"):
			description = strings.TrimSpace(strings.TrimPrefix(line, "Description:"))
		}
	}

	if name == "" {
		description = strings.TrimSpace(response)
		for _, c := range categories {
			if strings.Contains(response, string(c)) {
				return c, description
			}
		}
		return models.CategoryUnrecognized, description
	}

	for _, c := range categories {
		if strings.EqualFold(name, string(c)) {
			return c, description
		}
	}
	return models.CategoryUnrecognized, description
}

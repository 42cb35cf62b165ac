package enrichment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"fjacquet/statement-csv/internal/logging"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-1.5-flash"

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiClient asks a Gemini model to pick one of the known categories.
type GeminiClient struct {
	client     *genai.Client
	model      contentGenerator
	categories []string
	logger     logging.Logger
}

// NewGeminiClient connects to the Gemini API. categories is the list the
// model must choose from.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, categories []string, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key not configured")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:     client,
		model:      client.GenerativeModel(modelName),
		categories: categories,
		logger:     logging.OrDefault(logger),
	}, nil
}

// Name returns the provider name.
func (c *GeminiClient) Name() string {
	return ProviderGemini
}

// Lookup returns the category name chosen by the model, if any.
func (c *GeminiClient) Lookup(ctx context.Context, description string) ([]string, error) {
	prompt := fmt.Sprintf(`Categorize the following bank transaction:
Description: %s

Assign it to exactly one of the following categories:
%s

Respond in this format:
Category: [Selected Category Name]`,
		description, strings.Join(c.categories, ", "))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from Gemini API")
	}

	text := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	category := extractCategory(text)
	if category == "" {
		c.logger.Debug("Gemini response carried no category",
			logging.Field{Key: logging.FieldDescription, Value: description})
		return nil, nil
	}
	return []string{category}, nil
}

// Close releases the underlying client.
func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func extractCategory(response string) string {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Category:") {
			name := strings.TrimSpace(strings.TrimPrefix(line, "Category:"))
			return strings.Trim(name, "[]*\" ")
		}
	}
	return ""
}

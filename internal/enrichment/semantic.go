package enrichment

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"fjacquet/statement-csv/internal/logging"
)

const (
	// DefaultEmbeddingModel is used when no embedding model is configured.
	DefaultEmbeddingModel = "text-embedding-004"
	// DefaultSimilarityThreshold is the minimum cosine similarity for a match.
	DefaultSimilarityThreshold = 0.75
)

type contentEmbedder interface {
	EmbedContent(ctx context.Context, parts ...genai.Part) (*genai.EmbedContentResponse, error)
}

// MerchantSource provides the learned merchant map the semantic provider
// compares against.
type MerchantSource interface {
	All() map[string]string
}

// SemanticClient finds the merchant map key closest to a description in
// embedding space and returns its category. Key embeddings are computed on
// first use and cached for the life of the client.
type SemanticClient struct {
	client    *genai.Client
	model     contentEmbedder
	merchants MerchantSource
	threshold float64
	logger    logging.Logger

	mu    sync.Mutex
	cache map[string][]float32
}

// NewSemanticClient connects to the Gemini embedding API. A threshold
// outside (0, 1] falls back to DefaultSimilarityThreshold.
func NewSemanticClient(ctx context.Context, apiKey, modelName string, threshold float64, merchants MerchantSource, logger logging.Logger) (*SemanticClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key not configured")
	}
	if merchants == nil {
		return nil, fmt.Errorf("semantic enrichment needs a merchant map")
	}
	if modelName == "" {
		modelName = DefaultEmbeddingModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return newSemanticClient(client, client.EmbeddingModel(modelName), threshold, merchants, logger), nil
}

func newSemanticClient(client *genai.Client, model contentEmbedder, threshold float64, merchants MerchantSource, logger logging.Logger) *SemanticClient {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}
	return &SemanticClient{
		client:    client,
		model:     model,
		merchants: merchants,
		threshold: threshold,
		logger:    logging.OrDefault(logger),
		cache:     make(map[string][]float32),
	}
}

// Name returns the provider name.
func (c *SemanticClient) Name() string {
	return ProviderSemantic
}

// Lookup returns the category of the most similar merchant map key, if its
// similarity reaches the threshold.
func (c *SemanticClient) Lookup(ctx context.Context, description string) ([]string, error) {
	known := c.merchants.All()
	if len(known) == 0 {
		return nil, nil
	}

	target, err := c.embed(ctx, description)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(known))
	for k := range known {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		bestKey   string
		bestScore = -1.0
	)
	for _, k := range keys {
		vec, err := c.keyEmbedding(ctx, k)
		if err != nil {
			return nil, err
		}
		if score := cosine(target, vec); score > bestScore {
			bestKey, bestScore = k, score
		}
	}

	if bestScore < c.threshold {
		c.logger.Debug("No similar merchant",
			logging.Field{Key: logging.FieldDescription, Value: description},
			logging.Field{Key: "similarity", Value: bestScore})
		return nil, nil
	}

	c.logger.Debug("Similar merchant found",
		logging.Field{Key: logging.FieldDescription, Value: description},
		logging.Field{Key: "merchant", Value: bestKey},
		logging.Field{Key: "similarity", Value: bestScore})
	return []string{known[bestKey]}, nil
}

// Close releases the underlying client.
func (c *SemanticClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *SemanticClient) keyEmbedding(ctx context.Context, key string) ([]float32, error) {
	c.mu.Lock()
	vec, ok := c.cache[key]
	c.mu.Unlock()
	if ok {
		return vec, nil
	}

	vec, err := c.embed(ctx, key)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.cache[key] = vec
	c.mu.Unlock()
	return vec, nil
}

func (c *SemanticClient) embed(ctx context.Context, text string) ([]float32, error) {
	res, err := c.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embedding error: %w", err)
	}
	if res == nil || res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding for %q", text)
	}
	return res.Embedding.Values, nil
}

// cosine is 0 for vectors of different length or zero norm.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

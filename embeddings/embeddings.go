// Package embeddings turns chunk and query text into vectors for the
// retrieval index.
package embeddings

import (
	"context"
	"fmt"

	"onboard/config"
)

// Embedder maps texts to fixed-dimension vectors, one per input and in input
// order. Identical input must yield identical output.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Name() string
}

// DefaultBatchSize bounds how many texts are sent per request.
const DefaultBatchSize = 64

// EmbedAll embeds texts in batches of at most batchSize.
func EmbedAll(ctx context.Context, e Embedder, texts []string, batchSize int) ([][]float32, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		vecs, err := e.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to embed texts %d-%d: %w", start, end-1, err)
		}
		if len(vecs) != end-start {
			return nil, fmt.Errorf("%s returned %d embeddings for %d texts", e.Name(), len(vecs), end-start)
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// EmbedQuery embeds a single text.
func EmbedQuery(ctx context.Context, e Embedder, text string) ([]float32, error) {
	vecs, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%s returned %d embeddings for 1 text", e.Name(), len(vecs))
	}
	return vecs[0], nil
}

// New creates the embedder selected in the [embeddings] section.
func New(cfg *config.Config) (Embedder, error) {
	e := cfg.Embeddings
	switch e.Provider {
	case "ollama":
		return NewOllama(e.BaseURL, e.Model)
	case "openai":
		return NewOpenAI(e.BaseURL, cfg.APIKey("openai"), e.Model)
	case "gemini", "google":
		return NewGemini(cfg.APIKey("gemini"), e.Model)
	default:
		return nil, fmt.Errorf("unknown embeddings provider: %s", e.Provider)
	}
}

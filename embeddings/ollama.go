package embeddings

import (
	"context"
	"fmt"

	"onboard/ollama"
)

// Ollama embeds through a local Ollama server (nomic-embed-text by default).
type Ollama struct {
	client *ollama.Client
	model  string
}

func NewOllama(baseURL, model string) (*Ollama, error) {
	if model == "" {
		model = "nomic-embed-text"
	}
	client, err := ollama.NewClient(baseURL, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	return &Ollama{client: client, model: model}, nil
}

func (o *Ollama) Name() string { return "ollama/" + o.model }

func (o *Ollama) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return o.client.Embed(ctx, texts)
}

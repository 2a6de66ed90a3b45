package provider

import (
	"context"
	"fmt"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/genai"

	"onboard/mcp"
	"onboard/model"
)

// GeminiProvider implements the Provider interface with the Google Gen AI SDK.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	temperature *float64
}

// NewGeminiProvider creates a Gemini API provider. Returns an error if the
// API key is missing or the client cannot be created.
func NewGeminiProvider(apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// SetTemperature fixes the sampling temperature for every request.
func (p *GeminiProvider) SetTemperature(t float64) {
	p.temperature = &t
}

// Chat implements Provider.Chat by delegating to ChatWithTools with no tools.
func (p *GeminiProvider) Chat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	return p.ChatWithTools(ctx, messages, nil, callback)
}

// ChatWithTools implements Provider.ChatWithTools with streaming support.
func (p *GeminiProvider) ChatWithTools(ctx context.Context, messages []model.Message, tools []mcptypes.Tool, callback model.StreamCallback) error {
	contents, system := ConvertToGeminiContents(messages)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Tools:             mcp.ConvertMCPToolsToGemini(tools),
	}
	if p.temperature != nil {
		t := float32(*p.temperature)
		cfg.Temperature = &t
	}

	for resp, err := range p.client.Models.GenerateContentStream(ctx, p.model, contents, cfg) {
		if err != nil {
			return fmt.Errorf("Gemini streaming error: %w", err)
		}
		if resp == nil || callback == nil {
			continue
		}
		for _, candidate := range resp.Candidates {
			if candidate == nil || candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part == nil {
					continue
				}
				if part.Text != "" {
					if err := callback(part.Text, nil); err != nil {
						return err
					}
				}
				if part.FunctionCall != nil {
					call := model.ToolCall{
						ID:        part.FunctionCall.ID,
						Name:      part.FunctionCall.Name,
						Arguments: part.FunctionCall.Args,
					}
					if err := callback("", []model.ToolCall{call}); err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}

// GetModel implements Provider.GetModel.
func (p *GeminiProvider) GetModel() string {
	return p.model
}

// SetModel implements Provider.SetModel.
func (p *GeminiProvider) SetModel(model string) {
	p.model = model
}

// Ping implements Provider.Ping by fetching the model metadata.
func (p *GeminiProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.Get(ctx, p.model, nil); err != nil {
		return fmt.Errorf("Gemini ping failed: %w", err)
	}
	return nil
}

package provider

import (
	"context"
	"fmt"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"onboard/config"
	"onboard/mcp"
	"onboard/model"
)

// Base URLs of the OpenAI-compatible endpoints.
const (
	OpenAIBaseURL     = "https://api.openai.com/v1"
	GroqBaseURL       = "https://api.groq.com/openai/v1"
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// OpenAIProvider implements the Provider interface with the official OpenAI
// Go SDK. Groq and OpenRouter expose the same API and reuse it with a
// different base URL.
type OpenAIProvider struct {
	client      openai.Client
	name        string
	model       string
	baseURL     string
	temperature *float64
}

// NewOpenAIProvider creates a provider for api.openai.com.
func NewOpenAIProvider(baseURL, apiKey, model string) (*OpenAIProvider, error) {
	return newOpenAICompatible("OpenAI", baseURL, OpenAIBaseURL, apiKey, model, "gpt-4o-mini")
}

// NewGroqProvider creates a provider for Groq's OpenAI-compatible endpoint.
func NewGroqProvider(baseURL, apiKey, model string) (*OpenAIProvider, error) {
	return newOpenAICompatible("Groq", baseURL, GroqBaseURL, apiKey, model, "llama3-70b-8192")
}

// NewOpenRouterProvider creates a provider for OpenRouter.
func NewOpenRouterProvider(baseURL, apiKey, model string) (*OpenAIProvider, error) {
	return newOpenAICompatible("OpenRouter", baseURL, OpenRouterBaseURL, apiKey, model, "meta-llama/llama-3.3-70b-instruct")
}

func newOpenAICompatible(name, baseURL, defaultURL, apiKey, model, defaultModel string) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = defaultURL
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}
	if model == "" {
		model = defaultModel
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client:  client,
		name:    name,
		model:   model,
		baseURL: baseURL,
	}, nil
}

// SetTemperature fixes the sampling temperature for every request.
func (p *OpenAIProvider) SetTemperature(t float64) {
	p.temperature = &t
}

// Chat implements Provider.Chat by delegating to ChatWithTools with no tools.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	return p.ChatWithTools(ctx, messages, nil, callback)
}

// ChatWithTools implements Provider.ChatWithTools with streaming support.
func (p *OpenAIProvider) ChatWithTools(ctx context.Context, messages []model.Message, tools []mcptypes.Tool, callback model.StreamCallback) error {
	params := openai.ChatCompletionNewParams{
		Messages: ConvertToOpenAIMessages(messages),
		Model:    openai.ChatModel(p.model),
	}
	if p.temperature != nil {
		params.Temperature = openai.Float(*p.temperature)
	}
	if len(tools) > 0 {
		params.Tools = mcp.ConvertMCPToolsToOpenAIFormat(tools)
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	acc := openai.ChatCompletionAccumulator{}
	var received strings.Builder

	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)

		if tool, ok := acc.JustFinishedToolCall(); ok && callback != nil {
			call := model.ToolCall{
				ID:        tool.ID,
				Name:      tool.Name,
				Arguments: ParseToolArguments(tool.Arguments),
			}
			if err := callback("", []model.ToolCall{call}); err != nil {
				return err
			}
		}

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			content := chunk.Choices[0].Delta.Content
			received.WriteString(content)
			if callback != nil {
				if err := callback(content, nil); err != nil {
					return err
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return fmt.Errorf("%s streaming error: %w", p.name, err)
	}

	config.Debugf("[%s] model %s returned %d chars", p.name, p.model, received.Len())
	return nil
}

// GetModel implements Provider.GetModel.
func (p *OpenAIProvider) GetModel() string {
	return p.model
}

// SetModel implements Provider.SetModel.
func (p *OpenAIProvider) SetModel(model string) {
	p.model = model
}

// Ping implements Provider.Ping by attempting to list models.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("%s ping failed: %w", p.name, err)
	}
	return nil
}

package provider

import (
	"context"
	"fmt"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"

	"onboard/config"
	"onboard/mcp"
	"onboard/model"
	"onboard/ollama"
)

// OllamaProvider wraps ollama.Client to implement the Provider interface.
type OllamaProvider struct {
	client *ollama.Client
}

// NewOllamaProvider creates a new Ollama provider instance.
//
// Empty baseURL and model fall back to the ollama package defaults.
// Returns an error if the baseURL is invalid.
func NewOllamaProvider(baseURL, model string) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaProvider{
		client: client,
	}, nil
}

// SetTemperature fixes the sampling temperature for every request.
func (p *OllamaProvider) SetTemperature(t float64) {
	p.client.SetTemperature(t)
}

// Chat implements Provider.Chat.
func (p *OllamaProvider) Chat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	return p.ChatWithTools(ctx, messages, nil, callback)
}

// ChatWithTools implements Provider.ChatWithTools. Tools are dropped for model
// families that do not support Ollama's tool calling API; the ReAct prompt
// still describes them.
func (p *OllamaProvider) ChatWithTools(ctx context.Context, messages []model.Message, tools []mcptypes.Tool, callback model.StreamCallback) error {
	var ollamaTools []api.Tool
	if len(tools) > 0 {
		if p.client.SupportsToolCalling() {
			ollamaTools = mcp.ConvertMCPToolsToOllama(tools)
		} else {
			config.Debugf("[Ollama] model %s has no tool calling support, sending prompt only", p.client.Model())
		}
	}

	ollamaCallback := func(chunk string, calls []api.ToolCall) error {
		if callback == nil {
			return nil
		}
		return callback(chunk, ConvertToProviderToolCalls(calls))
	}

	return p.client.Chat(ctx, ConvertToOllamaMessages(messages), ollamaTools, ollamaCallback)
}

// GetModel implements Provider.GetModel.
func (p *OllamaProvider) GetModel() string {
	return p.client.Model()
}

// SetModel implements Provider.SetModel.
func (p *OllamaProvider) SetModel(model string) {
	p.client.SetModel(model)
}

// Ping implements Provider.Ping by listing local models.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3.1:latest"
	pingTimeout    = 5 * time.Second
)

// Client talks to one Ollama server with one model, used either for chat
// (provider package) or for embeddings (embeddings package).
type Client struct {
	api     *api.Client
	baseURL string
	model   string
	options map[string]any
}

// StreamCallback receives every streamed chunk and any tool calls in it.
type StreamCallback func(chunk string, toolCalls []api.ToolCall) error

func NewClient(baseURL, model string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &Client{
		api:     api.NewClient(u, http.DefaultClient),
		baseURL: baseURL,
		model:   model,
		options: map[string]any{},
	}, nil
}

func (c *Client) SetTemperature(t float64) {
	c.options["temperature"] = t
}

func (c *Client) Model() string        { return c.model }
func (c *Client) SetModel(model string) { c.model = model }

// Chat streams a reply. tools may be nil.
func (c *Client) Chat(ctx context.Context, messages []api.Message, tools []api.Tool, fn StreamCallback) error {
	stream := true
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Tools:    tools,
		Stream:   &stream,
	}
	if len(c.options) > 0 {
		req.Options = c.options
	}

	return c.api.Chat(ctx, req, func(resp api.ChatResponse) error {
		if fn == nil {
			return nil
		}
		return fn(resp.Message.Content, resp.Message.ToolCalls)
	})
}

// Embed returns one vector per text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.api.Embed(ctx, &api.EmbedRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to embed with %s: %w", c.model, err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama returned %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}
	return resp.Embeddings, nil
}

func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return c.api.Heartbeat(ctx)
}

// Model families by name prefix, most specific first so "llama3.2" never
// falls through to "llama3".
var toolFamilies = []struct {
	prefix string
	tools  bool
}{
	{"llama3.3", true},
	{"llama3.2", true},
	{"llama3.1", true},
	{"llama3-gradient", false},
	{"llama3", false},
	{"command-r", true},
	{"granite3", true},
	{"mistral", true},
	{"qwen", true},
	{"phi", false},
	{"gemma", false},
}

// ModelSupportsToolCalling reports whether Ollama's tool calling API works
// for the model. Unknown families get the ReAct prompt only.
func ModelSupportsToolCalling(modelName string) bool {
	name := strings.ToLower(modelName)
	for _, f := range toolFamilies {
		if strings.HasPrefix(name, f.prefix) {
			return f.tools
		}
	}
	return false
}

func (c *Client) SupportsToolCalling() bool {
	return ModelSupportsToolCalling(c.model)
}

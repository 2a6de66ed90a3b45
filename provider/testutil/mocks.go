package testutil

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"sync"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"onboard/model"
)

// MockProvider implements model.Provider for testing
type MockProvider struct {
	// Configurable responses
	ChatFunc          func(ctx context.Context, messages []model.Message, callback model.StreamCallback) error
	ChatWithToolsFunc func(ctx context.Context, messages []model.Message, tools []mcptypes.Tool, callback model.StreamCallback) error
	PingFunc          func(ctx context.Context) error

	// State
	currentModel string
}

// NewMockProvider creates a mock provider with default implementations
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{
		currentModel: modelName,
	}
	mock.ChatFunc = mock.defaultChat
	mock.ChatWithToolsFunc = mock.defaultChatWithTools
	mock.PingFunc = func(ctx context.Context) error { return nil }
	return mock
}

func (m *MockProvider) defaultChat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	if len(messages) > 0 {
		return callback("Mock response", nil)
	}
	return nil
}

func (m *MockProvider) defaultChatWithTools(ctx context.Context, messages []model.Message, tools []mcptypes.Tool, callback model.StreamCallback) error {
	return callback("Mock response with tools", nil)
}

func (m *MockProvider) Chat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	return m.ChatFunc(ctx, messages, callback)
}

func (m *MockProvider) ChatWithTools(ctx context.Context, messages []model.Message, tools []mcptypes.Tool, callback model.StreamCallback) error {
	return m.ChatWithToolsFunc(ctx, messages, tools, callback)
}

func (m *MockProvider) GetModel() string {
	return m.currentModel
}

func (m *MockProvider) SetModel(model string) {
	m.currentModel = model
}

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}

// ScriptedProvider replays canned completions, one per call, and records the
// prompts it received. When the script runs out the last reply is repeated.
type ScriptedProvider struct {
	mu      sync.Mutex
	replies []Reply
	calls   [][]model.Message
	tools   [][]mcptypes.Tool
}

// Reply is one scripted completion: streamed text, optional native tool
// calls, or an error.
type Reply struct {
	Text      string
	ToolCalls []model.ToolCall
	Err       error
}

// NewScriptedProvider scripts plain-text completions.
func NewScriptedProvider(texts ...string) *ScriptedProvider {
	replies := make([]Reply, len(texts))
	for i, t := range texts {
		replies[i] = Reply{Text: t}
	}
	return &ScriptedProvider{replies: replies}
}

// NewScriptedReplies scripts arbitrary replies.
func NewScriptedReplies(replies ...Reply) *ScriptedProvider {
	return &ScriptedProvider{replies: replies}
}

func (s *ScriptedProvider) Chat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	return s.ChatWithTools(ctx, messages, nil, callback)
}

func (s *ScriptedProvider) ChatWithTools(ctx context.Context, messages []model.Message, tools []mcptypes.Tool, callback model.StreamCallback) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	idx := len(s.calls)
	s.calls = append(s.calls, append([]model.Message(nil), messages...))
	s.tools = append(s.tools, tools)
	var r Reply
	if len(s.replies) > 0 {
		r = s.replies[min(idx, len(s.replies)-1)]
	}
	s.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	if r.Text != "" {
		// Stream in two chunks to exercise accumulation
		half := len(r.Text) / 2
		if err := callback(r.Text[:half], nil); err != nil {
			return err
		}
		if err := callback(r.Text[half:], nil); err != nil {
			return err
		}
	}
	if len(r.ToolCalls) > 0 {
		return callback("", r.ToolCalls)
	}
	return nil
}

// Calls returns how many requests were made.
func (s *ScriptedProvider) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// Prompt returns the concatenated message contents of the i-th request.
func (s *ScriptedProvider) Prompt(i int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.calls) {
		return ""
	}
	var parts []string
	for _, m := range s.calls[i] {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n")
}

// Tools returns the tool specs passed with the i-th request.
func (s *ScriptedProvider) Tools(i int) []mcptypes.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.tools) {
		return nil
	}
	return s.tools[i]
}

func (s *ScriptedProvider) GetModel() string { return "scripted" }

func (s *ScriptedProvider) SetModel(string) {}

func (s *ScriptedProvider) Ping(ctx context.Context) error { return nil }

// HashEmbedder is a deterministic bag-of-words embedder: each lowercased word
// increments one hashed dimension and the vector is L2-normalized. Texts that
// share words score higher under cosine similarity.
type HashEmbedder struct {
	Dim int
	Err error

	mu    sync.Mutex
	calls int
}

func NewHashEmbedder(dim int) *HashEmbedder {
	return &HashEmbedder{Dim: dim}
}

func (h *HashEmbedder) Name() string { return fmt.Sprintf("hash-%d", h.Dim) }

func (h *HashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	if h.Err != nil {
		return nil, h.Err
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, h.Dim)
		for _, word := range strings.Fields(strings.ToLower(text)) {
			hf := fnv.New32a()
			_, _ = hf.Write([]byte(word))
			vec[int(hf.Sum32())%h.Dim]++
		}
		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		if norm > 0 {
			n := float32(math.Sqrt(norm))
			for j := range vec {
				vec[j] /= n
			}
		}
		out[i] = vec
	}
	return out, nil
}

// Calls returns how many Embed requests were made.
func (h *HashEmbedder) Calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

package provider

import (
	"testing"
	"time"

	"github.com/ollama/ollama/api"
	"google.golang.org/genai"

	"onboard/model"
)

func TestConvertToOllamaMessages(t *testing.T) {
	tests := []struct {
		name     string
		input    []model.Message
		expected []api.Message
	}{
		{
			name:     "empty slice",
			input:    []model.Message{},
			expected: []api.Message{},
		},
		{
			name: "multiple messages drop UI fields",
			input: []model.Message{
				{Role: model.RoleSystem, Content: "Seja breve", Timestamp: time.Now()},
				{Role: model.RoleUser, Content: "Olá", Rendered: "**Olá**"},
				{Role: model.RoleAssistant, Content: "Oi!"},
			},
			expected: []api.Message{
				{Role: "system", Content: "Seja breve"},
				{Role: "user", Content: "Olá"},
				{Role: "assistant", Content: "Oi!"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertToOllamaMessages(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("length mismatch: got %d, want %d", len(result), len(tt.expected))
			}
			for i, msg := range result {
				if msg.Role != tt.expected[i].Role || msg.Content != tt.expected[i].Content {
					t.Errorf("message %d = %+v, want %+v", i, msg, tt.expected[i])
				}
			}
		})
	}
}

func TestConvertToAnthropicMessagesSplitsSystem(t *testing.T) {
	msgs, system := ConvertToAnthropicMessages([]model.Message{
		{Role: model.RoleSystem, Content: "instruções"},
		{Role: model.RoleUser, Content: "pergunta"},
		{Role: model.RoleAssistant, Content: "resposta"},
		{Role: "tool", Content: "observação"},
	})

	if len(system) != 1 || system[0].Text != "instruções" {
		t.Errorf("system blocks = %+v", system)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	wantRoles := []string{"user", "assistant", "user"}
	for i, m := range msgs {
		if string(m.Role) != wantRoles[i] {
			t.Errorf("message %d role = %q, want %q", i, m.Role, wantRoles[i])
		}
	}
}

func TestConvertToGeminiContents(t *testing.T) {
	contents, system := ConvertToGeminiContents([]model.Message{
		{Role: model.RoleSystem, Content: "a"},
		{Role: model.RoleSystem, Content: "b"},
		{Role: model.RoleUser, Content: "pergunta"},
		{Role: model.RoleAssistant, Content: "resposta"},
	})

	if system == nil || len(system.Parts) != 2 {
		t.Fatalf("expected 2 system parts, got %+v", system)
	}
	if len(contents) != 2 {
		t.Fatalf("got %d contents, want 2", len(contents))
	}
	if contents[0].Role != genai.RoleUser || contents[1].Role != genai.RoleModel {
		t.Errorf("roles = %q, %q", contents[0].Role, contents[1].Role)
	}
	if contents[1].Parts[0].Text != "resposta" {
		t.Errorf("text = %q", contents[1].Parts[0].Text)
	}
}

func TestConvertToGeminiContentsWithoutSystem(t *testing.T) {
	_, system := ConvertToGeminiContents([]model.Message{{Role: model.RoleUser, Content: "x"}})
	if system != nil {
		t.Errorf("expected nil system instruction, got %+v", system)
	}
}

func TestConvertToOpenAIMessages(t *testing.T) {
	result := ConvertToOpenAIMessages([]model.Message{
		{Role: model.RoleSystem, Content: "s"},
		{Role: model.RoleUser, Content: "u"},
		{Role: model.RoleAssistant, Content: "a"},
	})

	if len(result) != 3 {
		t.Fatalf("got %d messages, want 3", len(result))
	}
	if result[0].OfSystem == nil {
		t.Error("expected system message first")
	}
	if result[1].OfUser == nil {
		t.Error("expected user message second")
	}
	if result[2].OfAssistant == nil {
		t.Error("expected assistant message third")
	}
}

func TestParseToolArguments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"valid object", `{"input":"como instalo o jira?"}`, 1},
		{"invalid json", `{not json`, 0},
		{"json null", `null`, 0},
		{"empty", ``, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseToolArguments(tt.in)
			if got == nil {
				t.Fatal("expected non-nil map")
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestToolCallConversions(t *testing.T) {
	if ConvertToProviderToolCalls(nil) != nil {
		t.Error("expected nil for nil input")
	}
	if ConvertFromProviderToolCalls([]model.ToolCall{}) != nil {
		t.Error("expected nil for empty input")
	}

	calls := []model.ToolCall{
		{Name: "google_search", Arguments: map[string]any{"input": "instalar vscode"}},
		{Name: "create_event", Arguments: map[string]any{"summary": "Demo"}},
	}

	back := ConvertToProviderToolCalls(ConvertFromProviderToolCalls(calls))
	if len(back) != len(calls) {
		t.Fatalf("got %d calls, want %d", len(back), len(calls))
	}
	for i := range calls {
		if back[i].Name != calls[i].Name {
			t.Errorf("call %d name = %q, want %q", i, back[i].Name, calls[i].Name)
		}
		if len(back[i].Arguments) != len(calls[i].Arguments) {
			t.Errorf("call %d args = %v", i, back[i].Arguments)
		}
	}
}

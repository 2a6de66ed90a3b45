package ollama

import "testing"

func TestModelSupportsToolCalling(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"llama3.1:latest", true},
		{"llama3.2:3b", true},
		{"llama3:8b", false},
		{"llama3-gradient", false},
		{"Qwen2.5-coder", true},
		{"gemma2", false},
		{"unknown-model", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := ModelSupportsToolCalling(tt.model); got != tt.want {
				t.Errorf("ModelSupportsToolCalling(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
	if c.Model() == "" {
		t.Error("expected a default model")
	}

	c.SetModel("nomic-embed-text")
	if c.Model() != "nomic-embed-text" {
		t.Errorf("Model() = %q after SetModel", c.Model())
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	if _, err := NewClient("://bad", "m"); err == nil {
		t.Error("expected error for invalid URL")
	}
}

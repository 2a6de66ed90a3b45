// Package provider implements model.Provider for the supported LLM backends.
//
// The onboarding assistant talks to a hosted chat model (Groq by default,
// through its OpenAI-compatible API) but any backend below can drive the
// router and the retrieval tool:
//   - OpenAIProvider for OpenAI-compatible endpoints (openai, groq, openrouter)
//   - OllamaProvider for a local Ollama server
//   - AnthropicProvider for Claude
//   - GeminiProvider for Gemini
//
// The provider layer handles all type conversions between the provider-agnostic
// model types and the SDK types; see conversions.go.
//
// # Usage
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:        provider.ProviderTypeGroq,
//	    Model:       "llama3-70b-8192",
//	    APIKey:      os.Getenv("GROQ_API_KEY"),
//	    Temperature: 0.5,
//	})
//	if err != nil {
//	    // handle error
//	}
//	text, err := model.Complete(ctx, p, messages)
package provider

// Note: The Provider interface and StreamCallback are defined in the model package
// (model/provider.go) to avoid import cycles. This package implements model.Provider.

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeGroq       ProviderType = "groq"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeAnthropic  ProviderType = "anthropic"
	ProviderTypeGemini     ProviderType = "gemini"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // Unused for Ollama

	// Temperature is the sampling temperature; nil keeps the provider default.
	Temperature *float64
}

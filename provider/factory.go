package provider

import (
	"fmt"

	"onboard/config"
	"onboard/model"
)

// temperatureSetter is implemented by every provider in this package.
type temperatureSetter interface {
	SetTemperature(t float64)
}

// NewProvider creates a provider based on configuration.
//
// Returns an error if the provider type is unknown or the provider-specific
// constructor fails (missing API key, invalid URL).
func NewProvider(cfg Config) (model.Provider, error) {
	var (
		p   model.Provider
		err error
	)

	switch cfg.Type {
	case ProviderTypeOllama:
		p, err = NewOllamaProvider(cfg.BaseURL, cfg.Model)
	case ProviderTypeOpenAI:
		p, err = NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeGroq:
		p, err = NewGroqProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeOpenRouter:
		p, err = NewOpenRouterProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeAnthropic:
		p, err = NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeGemini:
		p, err = NewGeminiProvider(cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Temperature != nil {
		if ts, ok := p.(temperatureSetter); ok {
			ts.SetTemperature(*cfg.Temperature)
		}
	}

	return p, nil
}

// MapProviderIDToType converts a config provider ID to a ProviderType.
// Unknown IDs are passed through and rejected by NewProvider.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "ollama":
		return ProviderTypeOllama
	case "openai":
		return ProviderTypeOpenAI
	case "groq":
		return ProviderTypeGroq
	case "openrouter":
		return ProviderTypeOpenRouter
	case "anthropic":
		return ProviderTypeAnthropic
	case "gemini", "google":
		return ProviderTypeGemini
	default:
		return ProviderType(id)
	}
}

// FromConfig builds the chat provider selected in the [llm] section, with its
// API key taken from the environment or the credential store.
func FromConfig(cfg *config.Config) (model.Provider, error) {
	temperature := cfg.LLM.Temperature
	providerType := MapProviderIDToType(cfg.LLM.Provider)

	p, err := NewProvider(Config{
		Type:        providerType,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.APIKey(string(providerType)),
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", cfg.LLM.Provider, err)
	}

	config.Debugf("[Provider] Initialized %s provider (model: %s)", providerType, p.GetModel())
	return p, nil
}

package llm

import "fmt"

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider wraps OpenAIProvider with OpenRouter-specific defaults.
// OpenRouter exposes an OpenAI-compatible API, so the underlying SDK is reused.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API,
// bound to a single API key.
func NewOpenRouterProvider(apiKey, model, baseURL string) (*OpenRouterProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	inner, err := NewOpenAIProvider(apiKey, model, baseURL)
	if err != nil {
		return nil, err
	}

	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

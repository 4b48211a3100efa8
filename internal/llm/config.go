package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/alshwehdya-source/quiz/internal/keyring"
)

// Config holds all LLM provider configuration.
//
// Each provider accepts a pool of API keys (comma-separated in the
// environment). A missing or empty pool is not a configuration error at
// startup; the first Generate call fails with a "no credentials" error.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "openai", "anthropic", "openrouter", "mock"
	Provider string

	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	OpenRouter OpenRouterConfig

	// Cooldown is how long a credential sits out after a throttling
	// failure. Default: 60s.
	Cooldown time.Duration

	// Timeout bounds each individual LLM attempt. A timed-out attempt
	// counts as a throttling failure for the credential that served it.
	// Default: 90s.
	Timeout time.Duration
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKeys []string
	Model   string // Default: "gemini-flash"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKeys []string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKeys []string
	Model   string // Default: "claude-haiku"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKeys []string
	Model   string // Default: "google/gemini-2.0-flash-exp"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
		Cooldown: 60 * time.Second,
		Timeout:  90 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("QUIZ_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	if k := os.Getenv("QUIZ_GEMINI_API_KEYS"); k != "" {
		cfg.Gemini.APIKeys = keyring.ParseSecrets(k)
	}
	if m := os.Getenv("QUIZ_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	if k := os.Getenv("QUIZ_OPENAI_API_KEYS"); k != "" {
		cfg.OpenAI.APIKeys = keyring.ParseSecrets(k)
	}
	if m := os.Getenv("QUIZ_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("QUIZ_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	if k := os.Getenv("QUIZ_ANTHROPIC_API_KEYS"); k != "" {
		cfg.Anthropic.APIKeys = keyring.ParseSecrets(k)
	}
	if m := os.Getenv("QUIZ_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}

	if k := os.Getenv("QUIZ_OPENROUTER_API_KEYS"); k != "" {
		cfg.OpenRouter.APIKeys = keyring.ParseSecrets(k)
	}
	if m := os.Getenv("QUIZ_OPENROUTER_MODEL"); m != "" {
		cfg.OpenRouter.Model = m
	}

	if d := os.Getenv("QUIZ_KEY_COOLDOWN"); d != "" {
		if dur, err := time.ParseDuration(d); err == nil && dur > 0 {
			cfg.Cooldown = dur
		}
	}
	if d := os.Getenv("QUIZ_LLM_TIMEOUT"); d != "" {
		if dur, err := time.ParseDuration(d); err == nil && dur > 0 {
			cfg.Timeout = dur
		}
	}

	return cfg
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for
// the first provider whose key is found. Returns (Config{}, false) if
// none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := firstEnv("GEMINI_API_KEYS", "GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKeys = keyring.ParseSecrets(k)
		return cfg, true
	}
	if k := firstEnv("OPENAI_API_KEYS", "OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKeys = keyring.ParseSecrets(k)
		return cfg, true
	}
	if k := firstEnv("ANTHROPIC_API_KEYS", "ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKeys = keyring.ParseSecrets(k)
		return cfg, true
	}
	if k := firstEnv("OPENROUTER_API_KEYS", "OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKeys = keyring.ParseSecrets(k)
		return cfg, true
	}

	return Config{}, false
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// Keys returns the credential pool for the selected provider.
func (c Config) Keys() []string {
	switch c.Provider {
	case "gemini":
		return c.Gemini.APIKeys
	case "openai":
		return c.OpenAI.APIKeys
	case "anthropic":
		return c.Anthropic.APIKeys
	case "openrouter":
		return c.OpenRouter.APIKeys
	}
	return nil
}

// Validate checks that the selected provider is known. An empty key
// pool is deliberately not an error here: it surfaces on first use.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini", "openai", "anthropic", "openrouter", "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}

package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/alshwehdya-source/quiz/internal/keyring"
	"github.com/alshwehdya-source/quiz/internal/store"
)

// NewProvider creates a Provider from configuration. Every request is
// routed through the credential ring for the selected provider, and
// each per-key attempt is logged as an event and bounded by the
// configured timeout.
//
// Middleware layering: caller → rotation → logging → timeout → base.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Provider == "mock" {
		return NewMockProvider(), nil
	}

	build, model, err := builderFor(ctx, cfg)
	if err != nil {
		return nil, err
	}

	wrapped := func(secret string) (Provider, error) {
		base, err := build(secret)
		if err != nil {
			return nil, err
		}
		if cfg.Timeout > 0 {
			base = withTimeout(base, cfg.Timeout)
		}
		return WithLogging(base, eventRepo), nil
	}

	ring := keyring.New(cfg.Keys(), keyring.Config{
		Cooldown:    cfg.Cooldown,
		IsThrottled: IsThrottling,
	})

	return WithRotation(wrapped, ring, model), nil
}

// NewProviderFromEnv builds a provider from QUIZ_* environment
// variables, falling back to probing the standard provider key vars.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, error) {
	cfg := ConfigFromEnv()
	if len(cfg.Keys()) == 0 {
		if discovered, ok := DiscoverConfig(); ok {
			cfg = discovered
		}
	}
	return NewProvider(ctx, cfg, eventRepo)
}

// builderFor returns the per-secret provider constructor and model ID
// for the configured provider.
func builderFor(ctx context.Context, cfg Config) (BuildFunc, string, error) {
	switch cfg.Provider {
	case "gemini":
		model := resolveModel(cfg.Gemini.Model, geminiModels)
		return func(secret string) (Provider, error) {
			return NewGeminiProvider(ctx, secret, cfg.Gemini.Model)
		}, model, nil
	case "openai":
		model := resolveModel(cfg.OpenAI.Model, openaiModels)
		return func(secret string) (Provider, error) {
			return NewOpenAIProvider(secret, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
		}, model, nil
	case "anthropic":
		model := resolveModel(cfg.Anthropic.Model, anthropicModels)
		return func(secret string) (Provider, error) {
			return NewAnthropicProvider(secret, cfg.Anthropic.Model)
		}, model, nil
	case "openrouter":
		return func(secret string) (Provider, error) {
			return NewOpenRouterProvider(secret, cfg.OpenRouter.Model, cfg.OpenRouter.BaseURL)
		}, cfg.OpenRouter.Model, nil
	default:
		return nil, "", fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}

// timeoutProvider bounds each Generate call with a deadline. A
// timed-out attempt surfaces as context.DeadlineExceeded, which the
// cooldown classifier treats as a throttling failure.
type timeoutProvider struct {
	inner Provider
	d     time.Duration
}

func withTimeout(p Provider, d time.Duration) Provider {
	return &timeoutProvider{inner: p, d: d}
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *timeoutProvider) ModelID() string {
	return t.inner.ModelID()
}

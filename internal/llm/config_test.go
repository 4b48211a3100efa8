package llm

import (
	"testing"
	"time"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("QUIZ_LLM_PROVIDER", "openai")
	t.Setenv("QUIZ_OPENAI_API_KEYS", "sk-one, sk-two,,sk-three")
	t.Setenv("QUIZ_OPENAI_MODEL", "gpt-4o")
	t.Setenv("QUIZ_KEY_COOLDOWN", "30s")
	t.Setenv("QUIZ_LLM_TIMEOUT", "2m")

	cfg := ConfigFromEnv()

	if cfg.Provider != "openai" {
		t.Errorf("expected provider openai, got %q", cfg.Provider)
	}
	if len(cfg.OpenAI.APIKeys) != 3 {
		t.Errorf("expected 3 keys, got %v", cfg.OpenAI.APIKeys)
	}
	if cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("expected model gpt-4o, got %q", cfg.OpenAI.Model)
	}
	if cfg.Cooldown != 30*time.Second {
		t.Errorf("expected 30s cooldown, got %v", cfg.Cooldown)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Errorf("expected 2m timeout, got %v", cfg.Timeout)
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg := ConfigFromEnv()

	if cfg.Provider != "gemini" {
		t.Errorf("expected default provider gemini, got %q", cfg.Provider)
	}
	if cfg.Gemini.Model != "gemini-flash" {
		t.Errorf("expected default model gemini-flash, got %q", cfg.Gemini.Model)
	}
	if cfg.Cooldown != 60*time.Second {
		t.Errorf("expected default 60s cooldown, got %v", cfg.Cooldown)
	}
}

func TestDiscoverConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_API_KEYS", "")
	t.Setenv("OPENAI_API_KEYS", "sk-a,sk-b")

	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected discovery to succeed")
	}
	if cfg.Provider != "openai" {
		t.Errorf("expected openai, got %q", cfg.Provider)
	}
	if len(cfg.OpenAI.APIKeys) != 2 {
		t.Errorf("expected 2 keys, got %v", cfg.OpenAI.APIKeys)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		provider string
		wantErr  bool
	}{
		{"gemini", false},
		{"openai", false},
		{"anthropic", false},
		{"openrouter", false},
		{"mock", false},
		{"", true},
		{"llama", true},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Provider = tt.provider
		err := cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(provider=%q) error = %v, wantErr %v", tt.provider, err, tt.wantErr)
		}
	}
}

func TestConfigKeys(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "anthropic"
	cfg.Anthropic.APIKeys = []string{"k1", "k2"}
	cfg.Gemini.APIKeys = []string{"other"}

	keys := cfg.Keys()
	if len(keys) != 2 || keys[0] != "k1" {
		t.Errorf("expected anthropic pool, got %v", keys)
	}
}

package llm

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/alshwehdya-source/quiz/internal/keyring"
)

// BuildFunc constructs a Provider bound to a single credential secret.
type BuildFunc func(secret string) (Provider, error)

// RotationProvider is a decorator that funnels every Generate call
// through a credential ring: each attempt runs against the provider for
// the ring's selected key, and throttled keys are rotated out for the
// retry. Providers are built lazily and cached per secret so SDK
// clients are reused across calls.
type RotationProvider struct {
	ring  *keyring.Ring
	build BuildFunc
	model string

	mu    sync.Mutex
	cache map[string]Provider
}

// WithRotation wraps a per-secret provider constructor with credential
// rotation over the given ring.
func WithRotation(build BuildFunc, ring *keyring.Ring, model string) *RotationProvider {
	return &RotationProvider{
		ring:  ring,
		build: build,
		model: model,
		cache: make(map[string]Provider),
	}
}

func (r *RotationProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var resp *Response

	err := r.ring.Do(ctx, func(ctx context.Context, secret string) error {
		p, err := r.providerFor(secret)
		if err != nil {
			return err
		}

		out, err := p.Generate(ctx, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: LLM attempt with credential %s failed: %v\n",
				keyring.Redact(secret), err)
			return err
		}

		resp = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (r *RotationProvider) ModelID() string {
	return r.model
}

// Ring exposes the credential pool for status display.
func (r *RotationProvider) Ring() *keyring.Ring {
	return r.ring
}

func (r *RotationProvider) providerFor(secret string) (Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.cache[secret]; ok {
		return p, nil
	}

	p, err := r.build(secret)
	if err != nil {
		return nil, fmt.Errorf("build provider for credential %s: %w", keyring.Redact(secret), err)
	}

	r.cache[secret] = p
	return p, nil
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alshwehdya-source/quiz/internal/keyring"
)

// scriptedProvider returns a fixed error until it runs out of errors,
// then succeeds with the given content.
type scriptedProvider struct {
	mu      sync.Mutex
	errs    []error
	content json.RawMessage
	calls   int
}

func (s *scriptedProvider) Generate(_ context.Context, _ Request) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return nil, err
	}
	return &Response{Content: s.content, Model: "scripted", StopReason: "end"}, nil
}

func (s *scriptedProvider) ModelID() string { return "scripted" }

func testRing(secrets ...string) *keyring.Ring {
	return keyring.New(secrets, keyring.Config{
		Cooldown:    time.Minute,
		IsThrottled: IsThrottling,
	})
}

func TestRotation_FirstKeySucceeds(t *testing.T) {
	providers := map[string]*scriptedProvider{
		"key-aaaa-0001": {content: json.RawMessage(`{"ok":true}`)},
		"key-bbbb-0002": {content: json.RawMessage(`{"ok":true}`)},
	}
	build := func(secret string) (Provider, error) { return providers[secret], nil }

	p := WithRotation(build, testRing("key-aaaa-0001", "key-bbbb-0002"), "scripted")

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if providers["key-aaaa-0001"].calls != 1 {
		t.Fatalf("expected first key to serve the call, got %d calls", providers["key-aaaa-0001"].calls)
	}
	if providers["key-bbbb-0002"].calls != 0 {
		t.Fatalf("second key must not be used on success, got %d calls", providers["key-bbbb-0002"].calls)
	}
}

func TestRotation_RateLimitRotatesAndCoolsDown(t *testing.T) {
	providers := map[string]*scriptedProvider{
		"key-aaaa-0001": {errs: []error{&ErrRateLimit{Err: errors.New("quota exceeded")}}},
		"key-bbbb-0002": {content: json.RawMessage(`{"ok":true}`)},
	}
	build := func(secret string) (Provider, error) { return providers[secret], nil }

	ring := testRing("key-aaaa-0001", "key-bbbb-0002")
	p := WithRotation(build, ring, "scripted")

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if providers["key-aaaa-0001"].calls != 1 || providers["key-bbbb-0002"].calls != 1 {
		t.Fatalf("expected one attempt per key, got %d and %d",
			providers["key-aaaa-0001"].calls, providers["key-bbbb-0002"].calls)
	}

	snap := ring.Snapshot()
	if !snap[0].CoolingDown {
		t.Fatal("rate-limited key must be cooling down")
	}
	if snap[1].CoolingDown {
		t.Fatal("successful key must not be cooling down")
	}
}

func TestRotation_ExhaustsPoolAndPropagatesLastError(t *testing.T) {
	providers := map[string]*scriptedProvider{
		"key-aaaa-0001": {errs: []error{&ErrProviderUnavailable{StatusCode: 503, Err: errors.New("down")}}},
		"key-bbbb-0002": {errs: []error{&ErrProviderUnavailable{StatusCode: 502, Err: errors.New("also down")}}},
	}
	build := func(secret string) (Provider, error) { return providers[secret], nil }

	p := WithRotation(build, testRing("key-aaaa-0001", "key-bbbb-0002"), "scripted")

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}

	var exhausted *keyring.ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %T: %v", err, err)
	}
	if exhausted.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", exhausted.Attempts)
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) || unavail.StatusCode != 502 {
		t.Fatalf("expected last attempt's error to propagate, got %v", err)
	}
}

func TestRotation_SchemaFailureRotatesWithoutCooldown(t *testing.T) {
	providers := map[string]*scriptedProvider{
		"key-aaaa-0001": {errs: []error{&ErrInvalidResponse{Err: errors.New("bad json")}}},
		"key-bbbb-0002": {content: json.RawMessage(`{"ok":true}`)},
	}
	build := func(secret string) (Provider, error) { return providers[secret], nil }

	ring := testRing("key-aaaa-0001", "key-bbbb-0002")
	p := WithRotation(build, ring, "scripted")

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Schema violations are not the credential's fault.
	for _, st := range ring.Snapshot() {
		if st.CoolingDown {
			t.Fatalf("schema failure must not cool down %s", st.ID)
		}
	}
}

func TestRotation_EmptyPoolFailsWithoutBuildingProviders(t *testing.T) {
	built := 0
	build := func(secret string) (Provider, error) {
		built++
		return NewMockProvider(), nil
	}

	p := WithRotation(build, testRing(), "scripted")

	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, keyring.ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
	if built != 0 {
		t.Fatalf("no provider should be built with an empty pool, got %d", built)
	}
}

func TestRotation_CachesProvidersPerSecret(t *testing.T) {
	built := 0
	build := func(secret string) (Provider, error) {
		built++
		return NewMockProvider(
			MockResponse{Content: json.RawMessage(`{}`)},
			MockResponse{Content: json.RawMessage(`{}`)},
		), nil
	}

	p := WithRotation(build, testRing("key-aaaa-0001"), "mock")

	for i := 0; i < 2; i++ {
		if _, err := p.Generate(context.Background(), Request{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if built != 1 {
		t.Fatalf("expected one provider build per secret, got %d", built)
	}
}

func TestRotation_ModelIDDelegates(t *testing.T) {
	p := WithRotation(nil, testRing("key-aaaa-0001"), "gemini-2.0-flash")
	if p.ModelID() != "gemini-2.0-flash" {
		t.Fatalf("expected configured model ID, got %q", p.ModelID())
	}
}

func TestIsThrottling(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limit", &ErrRateLimit{Err: errors.New("429")}, true},
		{"server error", &ErrProviderUnavailable{StatusCode: 500, Err: errors.New("boom")}, true},
		{"bad gateway", &ErrProviderUnavailable{StatusCode: 502, Err: errors.New("boom")}, true},
		{"network error without status", &ErrProviderUnavailable{Err: errors.New("conn refused")}, false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"schema violation", &ErrInvalidResponse{Err: errors.New("bad")}, false},
		{"max tokens", &ErrMaxTokensExceeded{}, false},
		{"plain error", errors.New("nope"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsThrottling(tt.err); got != tt.want {
				t.Fatalf("IsThrottling(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

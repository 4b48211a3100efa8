package keyring

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for deterministic selection tests.
type fakeClock struct {
	mu  sync.Mutex
	t   time.Time
	per time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time, advancing by per on each call when
// per is set.
func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.per)
	return now
}

func newTestRing(secrets []string, cfg Config) (*Ring, *fakeClock) {
	r := New(secrets, cfg)
	clock := newFakeClock()
	clock.per = time.Millisecond
	r.now = clock.Now
	return r, clock
}

var errThrottle = errors.New("throttled")

func throttleAll(error) bool { return true }

func TestDo_LoadBalancesAcrossHealthyCredentials(t *testing.T) {
	r, _ := newTestRing([]string{"key-aaaa-0001", "key-bbbb-0002", "key-cccc-0003"}, DefaultConfig())

	var used []string
	op := func(_ context.Context, secret string) error {
		used = append(used, secret)
		return nil
	}

	for i := 0; i < 3; i++ {
		if err := r.Do(context.Background(), op); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	want := []string{"key-aaaa-0001", "key-bbbb-0002", "key-cccc-0003"}
	if len(used) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(used))
	}
	for i := range want {
		if used[i] != want[i] {
			t.Fatalf("call %d: expected %s, got %s", i, want[i], used[i])
		}
	}

	// Fourth call wraps around to the least recently used.
	if err := r.Do(context.Background(), op); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if used[3] != "key-aaaa-0001" {
		t.Fatalf("expected wrap-around to key-aaaa-0001, got %s", used[3])
	}
}

func TestDo_CooldownExcludesFailedCredential(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IsThrottled = throttleAll
	r, clock := newTestRing([]string{"key-aaaa-0001", "key-bbbb-0002"}, cfg)

	// First call: A fails with a throttling error, B succeeds.
	var used []string
	attempts := 0
	err := r.Do(context.Background(), func(_ context.Context, secret string) error {
		used = append(used, secret)
		attempts++
		if attempts == 1 {
			return errThrottle
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
	if used[0] != "key-aaaa-0001" || used[1] != "key-bbbb-0002" {
		t.Fatalf("unexpected rotation order: %v", used)
	}

	// While A cools down, every selection lands on B.
	for i := 0; i < 3; i++ {
		err := r.Do(context.Background(), func(_ context.Context, secret string) error {
			if secret != "key-bbbb-0002" {
				t.Fatalf("expected cooled-down credential to be skipped, got %s", secret)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Past the cooldown window A is eligible again, and as the least
	// recently used it is selected first.
	clock.mu.Lock()
	clock.t = clock.t.Add(cfg.Cooldown + time.Second)
	clock.mu.Unlock()

	err = r.Do(context.Background(), func(_ context.Context, secret string) error {
		if secret != "key-aaaa-0001" {
			t.Fatalf("expected recovered credential, got %s", secret)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDo_FailForwardWhenAllCoolingDown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IsThrottled = throttleAll
	r, _ := newTestRing([]string{"key-aaaa-0001", "key-bbbb-0002"}, cfg)

	// Exhaust the pool: both credentials cool down.
	err := r.Do(context.Background(), func(_ context.Context, _ string) error {
		return errThrottle
	})
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %T: %v", err, err)
	}

	// A cooled down before B, so its cooldown expires soonest and the
	// fail-forward path selects it.
	err = r.Do(context.Background(), func(_ context.Context, secret string) error {
		if secret != "key-aaaa-0001" {
			t.Fatalf("expected soonest-to-recover credential, got %s", secret)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDo_BoundedAttempts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IsThrottled = throttleAll
	r, _ := newTestRing([]string{"key-aaaa-0001", "key-bbbb-0002", "key-cccc-0003"}, cfg)

	attempts := 0
	err := r.Do(context.Background(), func(_ context.Context, _ string) error {
		attempts++
		return fmt.Errorf("attempt %d: %w", attempts, errThrottle)
	})

	if attempts != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", attempts)
	}
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %T", err)
	}
	if exhausted.Attempts != 3 {
		t.Fatalf("expected 3 recorded attempts, got %d", exhausted.Attempts)
	}
	// The propagated error is the last one observed.
	if got := exhausted.Err.Error(); got != "attempt 3: throttled" {
		t.Fatalf("expected last error to propagate, got %q", got)
	}
}

func TestDo_SuccessDoesNotPenalize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IsThrottled = throttleAll
	r, _ := newTestRing([]string{"key-aaaa-0001"}, cfg)

	if err := r.Do(context.Background(), func(_ context.Context, _ string) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, st := range r.Snapshot() {
		if st.CoolingDown || !st.CooldownUntil.IsZero() {
			t.Fatalf("success must not set a cooldown: %+v", st)
		}
	}
}

func TestDo_NonThrottlingFailureRotatesWithoutCooldown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IsThrottled = func(err error) bool { return errors.Is(err, errThrottle) }
	r, _ := newTestRing([]string{"key-aaaa-0001", "key-bbbb-0002"}, cfg)

	attempts := 0
	err := r.Do(context.Background(), func(_ context.Context, _ string) error {
		attempts++
		return errors.New("bad request")
	})

	// Non-throttling errors still consume attempts and rotate.
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %T", err)
	}

	// But the credentials are not blamed for them.
	for _, st := range r.Snapshot() {
		if st.CoolingDown {
			t.Fatalf("non-throttling failure must not cool down %s", st.ID)
		}
	}
}

func TestDo_EmptyPoolFailsWithoutInvokingOperation(t *testing.T) {
	r := New(nil, DefaultConfig())

	called := false
	err := r.Do(context.Background(), func(_ context.Context, _ string) error {
		called = true
		return nil
	})

	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
	if called {
		t.Fatal("operation must not run with an empty pool")
	}
}

func TestDo_RateLimitedThenSecondKeySucceeds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IsThrottled = func(err error) bool { return errors.Is(err, errThrottle) }
	r, clock := newTestRing([]string{"key-aaaa-0001", "key-bbbb-0002"}, cfg)

	var used []string
	err := r.Do(context.Background(), func(_ context.Context, secret string) error {
		used = append(used, secret)
		if secret == "key-aaaa-0001" {
			return fmt.Errorf("429: %w", errThrottle)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(used) != 2 || used[0] != "key-aaaa-0001" || used[1] != "key-bbbb-0002" {
		t.Fatalf("unexpected attempt sequence: %v", used)
	}

	snap := r.Snapshot()
	if !snap[0].CoolingDown {
		t.Fatal("expected first credential to be cooling down")
	}
	clock.mu.Lock()
	now := clock.t
	clock.mu.Unlock()
	remaining := snap[0].CooldownUntil.Sub(now)
	if remaining <= 0 || remaining > cfg.Cooldown {
		t.Fatalf("cooldown expiry out of range: %v", remaining)
	}
	if snap[1].CoolingDown {
		t.Fatal("successful credential must not cool down")
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	r, _ := newTestRing([]string{"key-aaaa-0001"}, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Do(ctx, func(_ context.Context, _ string) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDo_ConcurrentCallsSpreadAcrossIdleCredentials(t *testing.T) {
	r := New([]string{"key-aaaa-0001", "key-bbbb-0002", "key-cccc-0003", "key-dddd-0004"}, DefaultConfig())

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Do(context.Background(), func(_ context.Context, _ string) error { return nil })
		}()
	}
	wg.Wait()

	var total int64
	for _, st := range r.Snapshot() {
		total += st.UsageCount
	}
	if total != 100 {
		t.Fatalf("expected 100 selections across the pool, got %d", total)
	}
}

func TestParseSecrets(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "abc", []string{"abc"}},
		{"multiple", "a,b,c", []string{"a", "b", "c"}},
		{"whitespace trimmed", " a , b ,c ", []string{"a", "b", "c"}},
		{"empty tokens dropped", "a,,b,", []string{"a", "b"}},
		{"only separators", ", ,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSecrets(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if got := Redact("AIzaSyD-1234567890abcdef"); got != "AIza…cdef" {
		t.Fatalf("unexpected redaction: %q", got)
	}
	if got := Redact("short"); got != "****" {
		t.Fatalf("short secrets must be fully masked, got %q", got)
	}
}

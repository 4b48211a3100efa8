// Package keyring manages a fixed pool of API credentials. It balances
// outbound calls across the least-recently-used healthy credential,
// cools down credentials that hit transient failures, and retries a
// failed call on the remaining credentials, at most once per credential.
package keyring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrNoCredentials indicates the ring was built with zero secrets.
// Construction still succeeds; the error surfaces on first use.
var ErrNoCredentials = errors.New("no API credentials configured")

// ExhaustedError indicates every attempt failed. It wraps the last
// error observed so callers keep the diagnostic detail.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all %d credential attempts failed: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// Operation performs one attempt of an external call using the given
// credential secret.
type Operation func(ctx context.Context, secret string) error

// Config controls ring behavior.
type Config struct {
	// Cooldown is how long a credential is excluded from normal
	// selection after a throttling failure. Default: 60s.
	Cooldown time.Duration

	// IsThrottled classifies an operation error. Errors it reports true
	// for (rate limits, quota exhaustion, server-side failures) put the
	// credential that produced them on cooldown. Other errors rotate to
	// the next credential without penalizing this one. When nil, no
	// failure triggers a cooldown.
	IsThrottled func(error) bool
}

// DefaultConfig returns a Config with the standard cooldown window.
func DefaultConfig() Config {
	return Config{Cooldown: 60 * time.Second}
}

// credential is one pool entry. All fields are guarded by Ring.mu.
type credential struct {
	secret        string
	lastUsedAt    time.Time
	usageCount    int64
	cooldownUntil time.Time
}

// Ring is the credential pool. It is safe for concurrent use; the pool
// is the only shared mutable state and every read or write of it goes
// through the mutex.
type Ring struct {
	mu    sync.Mutex
	creds []credential
	cfg   Config

	now func() time.Time // clock hook for tests
}

// New builds a Ring from the given secrets in order. An empty slice is
// accepted; Do will fail with ErrNoCredentials.
func New(secrets []string, cfg Config) *Ring {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultConfig().Cooldown
	}
	creds := make([]credential, len(secrets))
	for i, s := range secrets {
		creds[i] = credential{secret: s}
	}
	return &Ring{creds: creds, cfg: cfg, now: time.Now}
}

// ParseSecrets splits a comma-separated secret list, trimming
// whitespace and dropping empty tokens.
func ParseSecrets(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// Len returns the pool size.
func (r *Ring) Len() int {
	return len(r.creds)
}

// Do runs op with a selected credential, rotating to another credential
// on failure. It makes at most Len attempts (one per credential) and
// returns the first success. With an empty pool it fails immediately
// without invoking op. After exhausting the pool it returns an
// *ExhaustedError wrapping the last failure.
func (r *Ring) Do(ctx context.Context, op Operation) error {
	if len(r.creds) == 0 {
		return ErrNoCredentials
	}

	attempts := len(r.creds)
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		secret := r.selectBest()

		err := op(ctx, secret)
		if err == nil {
			return nil
		}
		lastErr = err

		if r.cfg.IsThrottled != nil && r.cfg.IsThrottled(err) {
			r.reportFailure(secret)
		}
	}

	return &ExhaustedError{Attempts: attempts, Err: lastErr}
}

// selectBest picks the least-recently-used credential among those not
// cooling down, ties broken by pool order. If every credential is
// cooling down it falls back to the one whose cooldown expires
// soonest, since a cooling credential may still succeed.
// Selection bookkeeping (lastUsedAt, usageCount)
// happens under the lock before returning, so concurrent selections
// spread across idle credentials instead of piling onto one.
func (r *Ring) selectBest() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	best := -1

	for i := range r.creds {
		if r.creds[i].cooldownUntil.After(now) {
			continue
		}
		if best == -1 || r.creds[i].lastUsedAt.Before(r.creds[best].lastUsedAt) {
			best = i
		}
	}

	if best == -1 {
		// Every credential is cooling down: take the soonest to recover.
		best = 0
		for i := 1; i < len(r.creds); i++ {
			if r.creds[i].cooldownUntil.Before(r.creds[best].cooldownUntil) {
				best = i
			}
		}
	}

	r.creds[best].lastUsedAt = now
	r.creds[best].usageCount++
	return r.creds[best].secret
}

// reportFailure puts the credential with the given secret on cooldown.
// Unknown secrets are ignored.
func (r *Ring) reportFailure(secret string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.creds {
		if r.creds[i].secret == secret {
			r.creds[i].cooldownUntil = r.now().Add(r.cfg.Cooldown)
			return
		}
	}
}

// CredentialStatus is a read-only view of one pool entry with the
// secret redacted.
type CredentialStatus struct {
	ID            string
	UsageCount    int64
	LastUsedAt    time.Time
	CoolingDown   bool
	CooldownUntil time.Time
}

// Snapshot returns the current state of every credential in pool order.
func (r *Ring) Snapshot() []CredentialStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	out := make([]CredentialStatus, len(r.creds))
	for i, c := range r.creds {
		out[i] = CredentialStatus{
			ID:            Redact(c.secret),
			UsageCount:    c.usageCount,
			LastUsedAt:    c.lastUsedAt,
			CoolingDown:   c.cooldownUntil.After(now),
			CooldownUntil: c.cooldownUntil,
		}
	}
	return out
}

// Redact obscures a secret for log and display purposes, keeping just
// enough to tell credentials apart.
func Redact(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "…" + secret[len(secret)-4:]
}

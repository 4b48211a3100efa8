package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit or quota
// exhaustion error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
// StatusCode holds the HTTP status when the failure carried one, and 0
// for network-level failures without a status.
type ErrProviderUnavailable struct {
	StatusCode int
	Err        error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// IsThrottling classifies an attempt failure for credential cooldown.
// Rate limits, quota exhaustion, server-side 5xx failures, and
// timed-out attempts indicate an unhealthy credential; everything else
// (malformed requests, auth rejections, schema violations) is the
// request's fault, not the credential's.
func IsThrottling(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return true
	}

	var unavail *ErrProviderUnavailable
	if errors.As(err, &unavail) {
		return unavail.StatusCode >= 500 && unavail.StatusCode <= 599
	}

	return false
}

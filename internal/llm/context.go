package llm

import "context"

type ctxKey int

const purposeCtxKey ctxKey = iota

// WithPurpose tags the context with a short label ("quiz-gen", "grading")
// that the logging decorator records with each event.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeCtxKey, purpose)
}

// PurposeFrom reads the purpose label back, or "unknown" when untagged.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeCtxKey).(string); ok {
		return v
	}
	return "unknown"
}

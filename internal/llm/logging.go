package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alshwehdya-source/quiz/internal/store"
)

// loggingProvider records every Generate call as an LLM event, including
// failures. A broken event store never fails the request itself.
type loggingProvider struct {
	inner Provider
	repo  store.EventRepo
}

// WithLogging wraps a Provider so each request is persisted as an event.
func WithLogging(p Provider, repo store.EventRepo) Provider {
	return &loggingProvider{inner: p, repo: repo}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    l.inner.ModelID(),
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: renderRequest(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	if logErr := l.repo.AppendLLMRequest(ctx, ev); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record LLM event: %v\n", logErr)
	}

	return resp, err
}

func (l *loggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// renderRequest builds a readable transcript of the request for storage.
// Attachment payloads are summarized, never stored.
func renderRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	for _, a := range req.Attachments {
		fmt.Fprintf(&b, "[attachment: %s, %d bytes]\n", a.MIMEType, len(a.Data))
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}

	return b.String()
}

package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured JSON from a prompt. Every backend
// (Gemini, OpenAI, Anthropic, OpenRouter) satisfies this, as do the
// decorators that add rotation, logging, and timeouts.
type Provider interface {
	// Generate sends the request and returns the model's output. When
	// the request carries a Schema the returned Content is JSON already
	// validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID reports the configured model identifier.
	ModelID() string
}

// Request is a single generation call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation so far. Quiz generation and grading
	// are single-turn, so this is usually one user message.
	Messages []Message

	// Attachments carries binary study material (PDF handouts, photos
	// of notes) alongside the first user message. Provider support
	// varies; Gemini accepts all types listed in the material package.
	Attachments []Attachment

	// Schema, when set, makes the provider use its native structured
	// output mechanism and constrains Content to the schema. When nil
	// the response is free text wrapped as a JSON string.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature in [0.0, 1.0]. Zero means deterministic.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Attachment is a binary input to the model.
type Attachment struct {
	// MIMEType identifies the payload, e.g. "application/pdf".
	MIMEType string
	Data     []byte
}

// Schema is a JSON Schema the response must conform to.
type Schema struct {
	// Name identifies the schema. It becomes the tool name on Anthropic
	// and the schema name on OpenAI, so keep it kebab-case.
	Name string

	// Description tells the model what the schema represents.
	Description string

	// Definition is the schema body as a plain map.
	Definition map[string]any
}

// Response is the model's output for one Request.
type Response struct {
	// Content is validated JSON when the request had a Schema,
	// otherwise the raw text wrapped as a JSON string.
	Content json.RawMessage

	Usage Usage

	// Model is the concrete model that served the request, which may
	// differ from the requested alias.
	Model string

	// StopReason is normalized to "end", "max_tokens", or "error".
	StopReason string
}

// Usage is token consumption for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

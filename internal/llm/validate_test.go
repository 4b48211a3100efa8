package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func questionSchema() *Schema {
	return &Schema{
		Name:        "test-question",
		Description: "A single quiz question",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text":       map[string]any{"type": "string"},
				"answer":     map[string]any{"type": "string"},
				"difficulty": map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
				"choices": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": float64(4),
					"maxItems": float64(4),
				},
			},
			"required": []any{"text", "answer"},
		},
	}
}

func TestValidateResponse_Valid(t *testing.T) {
	raw := json.RawMessage(`{"text":"What is 2+2?","answer":"4","difficulty":"easy"}`)
	if err := validateResponse(questionSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_MissingRequired(t *testing.T) {
	raw := json.RawMessage(`{"text":"What is 2+2?"}`)
	err := validateResponse(questionSchema(), raw)
	if err == nil {
		t.Fatal("expected error for missing required field")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateResponse_InvalidEnum(t *testing.T) {
	raw := json.RawMessage(`{"text":"Q","answer":"A","difficulty":"brutal"}`)
	err := validateResponse(questionSchema(), raw)
	if err == nil {
		t.Fatal("expected error for invalid enum value")
	}
}

func TestValidateResponse_ArrayBounds(t *testing.T) {
	raw := json.RawMessage(`{"text":"Q","answer":"A","choices":["only","three","items"]}`)
	err := validateResponse(questionSchema(), raw)
	if err == nil {
		t.Fatal("expected error for array with too few items")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateResponse_MalformedJSON(t *testing.T) {
	raw := json.RawMessage(`{not json}`)
	err := validateResponse(questionSchema(), raw)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	raw := json.RawMessage(`{"anything":"goes"}`)
	if err := validateResponse(nil, raw); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_SchemaCacheReuse(t *testing.T) {
	s := questionSchema()
	raw := json.RawMessage(`{"text":"Q","answer":"A"}`)
	for i := 0; i < 3; i++ {
		if err := validateResponse(s, raw); err != nil {
			t.Fatalf("pass %d: expected no error, got: %v", i, err)
		}
	}
}

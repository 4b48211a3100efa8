package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alshwehdya-source/quiz/internal/llm"
)

// GeneratorConfig holds configuration for the LLM quiz generator.
type GeneratorConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultGeneratorConfig returns sensible defaults. Quizzes are long
// outputs, so the token budget is generous.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MaxTokens:   8192,
		Temperature: 0.7,
	}
}

// Generator produces quizzes from study material using an LLM provider.
type Generator struct {
	provider llm.Provider
	cfg      GeneratorConfig
}

// NewGenerator creates an LLM-backed quiz generator.
func NewGenerator(provider llm.Provider, cfg GeneratorConfig) *Generator {
	return &Generator{provider: provider, cfg: cfg}
}

// quizOutput is the raw LLM response before validation.
type quizOutput struct {
	Topic     string `json:"topic"`
	Questions []struct {
		Type        string   `json:"type"`
		Text        string   `json:"text"`
		Choices     []string `json:"choices"`
		Answer      string   `json:"answer"`
		Explanation string   `json:"explanation"`
	} `json:"questions"`
}

// Generate produces a quiz from the given study material. Text material
// is inlined into the prompt; binary material travels as attachments.
// The result is fully validated: on any failure an error is returned
// and no partial quiz.
func (g *Generator) Generate(ctx context.Context, spec GenerateSpec, material string, attachments []llm.Attachment) (*Quiz, error) {
	if spec.NumQuestions < 1 {
		return nil, fmt.Errorf("quiz must have at least 1 question, got %d", spec.NumQuestions)
	}
	if len(spec.Types) == 0 {
		return nil, fmt.Errorf("no question types allowed")
	}
	if material == "" && len(attachments) == 0 && spec.Topic == "" {
		return nil, fmt.Errorf("no study material or topic provided")
	}

	ctx = llm.WithPurpose(ctx, "quiz-gen")

	userMsg, err := buildGenerateMessage(spec, material)
	if err != nil {
		return nil, fmt.Errorf("build quiz prompt: %w", err)
	}

	req := llm.Request{
		System: generateSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Attachments: attachments,
		Schema:      QuizSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM quiz generation failed: %w", err)
	}

	var raw quizOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse quiz response: %w", err)
	}

	quiz := &Quiz{
		ID:         uuid.NewString(),
		Topic:      raw.Topic,
		Difficulty: spec.Difficulty,
		CreatedAt:  time.Now().UTC(),
	}
	if spec.Topic != "" {
		quiz.Topic = spec.Topic
	}

	for i, rq := range raw.Questions {
		q := Question{
			ID:          uuid.NewString(),
			Type:        QuestionType(rq.Type),
			Text:        rq.Text,
			Choices:     rq.Choices,
			Answer:      rq.Answer,
			Explanation: rq.Explanation,
		}
		if err := validateQuestion(q, spec.Types); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		quiz.Questions = append(quiz.Questions, q)
	}

	if len(quiz.Questions) != spec.NumQuestions {
		return nil, fmt.Errorf("expected %d questions, got %d", spec.NumQuestions, len(quiz.Questions))
	}

	return quiz, nil
}

// validateQuestion checks structural invariants the schema alone can't
// express, such as answer membership in the choices.
func validateQuestion(q Question, allowed []QuestionType) error {
	permitted := false
	for _, t := range allowed {
		if q.Type == t {
			permitted = true
			break
		}
	}
	if !permitted {
		return fmt.Errorf("type %q not in allowed set", q.Type)
	}

	if q.Text == "" {
		return fmt.Errorf("question text is empty")
	}
	if q.Answer == "" {
		return fmt.Errorf("answer is empty")
	}

	switch q.Type {
	case TypeMultipleChoice:
		if len(q.Choices) != 4 {
			return fmt.Errorf("multiple_choice needs exactly 4 choices, got %d", len(q.Choices))
		}
		found := false
		for _, c := range q.Choices {
			if c == q.Answer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("answer %q is not among the choices", q.Answer)
		}
	case TypeTrueFalse:
		if q.Answer != "true" && q.Answer != "false" {
			return fmt.Errorf("true_false answer must be \"true\" or \"false\", got %q", q.Answer)
		}
		if len(q.Choices) != 0 {
			return fmt.Errorf("true_false must not carry choices")
		}
	case TypeShortAnswer:
		if len(q.Choices) != 0 {
			return fmt.Errorf("short_answer must not carry choices")
		}
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}

	return nil
}

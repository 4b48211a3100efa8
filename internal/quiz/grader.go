package quiz

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alshwehdya-source/quiz/internal/llm"
)

// GraderConfig holds configuration for the LLM grader.
type GraderConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultGraderConfig returns sensible defaults. Grading is a short,
// deterministic judgment, so the temperature is low.
func DefaultGraderConfig() GraderConfig {
	return GraderConfig{
		MaxTokens:   256,
		Temperature: 0.1,
	}
}

// Grader scores learner answers. Closed question types are graded
// locally; short answers go to the LLM for semantic comparison.
type Grader struct {
	provider llm.Provider
	cfg      GraderConfig
}

// NewGrader creates a grader backed by the given provider.
func NewGrader(provider llm.Provider, cfg GraderConfig) *Grader {
	return &Grader{provider: provider, cfg: cfg}
}

// gradeOutput is the raw LLM grading response.
type gradeOutput struct {
	Correct  bool   `json:"correct"`
	Feedback string `json:"feedback"`
}

// Grade scores one answer. For multiple_choice and true_false the
// verdict is computed locally and the stored explanation becomes the
// feedback. For short_answer the LLM judges meaning.
func (g *Grader) Grade(ctx context.Context, q Question, given string) (Answer, error) {
	ans := Answer{QuestionID: q.ID, Given: given}

	switch q.Type {
	case TypeMultipleChoice, TypeTrueFalse:
		ans.Correct = CheckLocal(given, q)
		ans.Feedback = q.Explanation
		return ans, nil

	case TypeShortAnswer:
		verdict, err := g.gradeShortAnswer(ctx, q, given)
		if err != nil {
			return ans, err
		}
		ans.Correct = verdict.Correct
		ans.Feedback = verdict.Feedback
		return ans, nil

	default:
		return ans, fmt.Errorf("unknown question type %q", q.Type)
	}
}

func (g *Grader) gradeShortAnswer(ctx context.Context, q Question, given string) (*gradeOutput, error) {
	ctx = llm.WithPurpose(ctx, "grading")

	req := llm.Request{
		System: gradeSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildGradeMessage(q, given)},
		},
		Schema:      GradeSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM grading failed: %w", err)
	}

	var raw gradeOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse grading response: %w", err)
	}
	return &raw, nil
}

// Score tallies an attempt from graded answers.
func Score(answers []Answer) (score, total int) {
	for _, a := range answers {
		total++
		if a.Correct {
			score++
		}
	}
	return score, total
}

package quiz

import "time"

// QuestionType identifies how a question is asked and graded.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
	TypeShortAnswer    QuestionType = "short_answer"
)

// Question is a single quiz question.
type Question struct {
	ID          string
	Type        QuestionType
	Text        string
	Choices     []string // multiple_choice only
	Answer      string
	Explanation string
}

// Quiz is a generated set of questions over some study material.
type Quiz struct {
	ID         string
	Topic      string
	Difficulty string
	CreatedAt  time.Time
	Questions  []Question
}

// GenerateSpec describes the quiz to generate.
type GenerateSpec struct {
	Topic        string
	NumQuestions int
	Difficulty   string // "easy", "medium", "hard"
	Types        []QuestionType
}

// DefaultGenerateSpec returns sensible defaults.
func DefaultGenerateSpec() GenerateSpec {
	return GenerateSpec{
		NumQuestions: 10,
		Difficulty:   "medium",
		Types:        []QuestionType{TypeMultipleChoice, TypeTrueFalse, TypeShortAnswer},
	}
}

// Answer is a learner's response to one question.
type Answer struct {
	QuestionID string
	Given      string
	Correct    bool
	Feedback   string
}

// Attempt is one pass through a quiz.
type Attempt struct {
	ID         string
	QuizID     string
	StartedAt  time.Time
	FinishedAt time.Time
	Answers    []Answer
	Score      int
	Total      int
}

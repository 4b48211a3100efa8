package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alshwehdya-source/quiz/internal/llm"
	"github.com/alshwehdya-source/quiz/internal/quiz"
	"github.com/alshwehdya-source/quiz/internal/store"
	"github.com/alshwehdya-source/quiz/internal/tui"
)

var takeCmd = &cobra.Command{
	Use:   "take [quiz-id]",
	Short: "Take a saved quiz interactively",
	Long: `Take a quiz in an interactive terminal session. Without an ID the most
recently generated quiz is used. A quiz ID prefix is enough as long as
it is unambiguous.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		repo := st.QuizRepo()

		var id string
		if len(args) > 0 {
			id = args[0]
		}
		record, err := findQuiz(cmd, repo, id)
		if err != nil {
			return err
		}

		q := &quiz.Quiz{
			ID:         record.ID,
			Topic:      record.Topic,
			Difficulty: record.Difficulty,
			CreatedAt:  record.CreatedAt,
		}
		for _, qr := range record.Questions {
			q.Questions = append(q.Questions, quiz.Question{
				ID:          qr.ID,
				Type:        quiz.QuestionType(qr.Type),
				Text:        qr.Text,
				Choices:     qr.Choices,
				Answer:      qr.Answer,
				Explanation: qr.Explanation,
			})
		}
		if len(q.Questions) == 0 {
			return fmt.Errorf("quiz %s has no questions", record.ID)
		}

		// Short answers need the LLM; the provider is built lazily so
		// closed-type quizzes work without credentials.
		var provider llm.Provider
		if hasShortAnswers(q) {
			provider, err = llm.NewProviderFromEnv(ctx, st.EventRepo())
			if err != nil {
				return fmt.Errorf("configure LLM provider (needed for short answers): %w", err)
			}
		} else {
			provider = llm.NewMockProvider()
		}

		grader := quiz.NewGrader(provider, quiz.DefaultGraderConfig())
		return tui.Run(q, grader, repo)
	},
}

// findQuiz resolves a quiz by ID prefix, or the most recent one if id
// is empty.
func findQuiz(cmd *cobra.Command, repo store.QuizRepo, id string) (*store.QuizRecord, error) {
	ctx := cmd.Context()

	if id == "" {
		summaries, err := repo.ListQuizzes(ctx, 1)
		if err != nil {
			return nil, fmt.Errorf("list quizzes: %w", err)
		}
		if len(summaries) == 0 {
			return nil, fmt.Errorf("no quizzes yet; create one with \"quiz generate\"")
		}
		id = summaries[0].ID
		return repo.GetQuiz(ctx, id)
	}

	record, err := repo.GetQuiz(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	if record != nil {
		return record, nil
	}

	// Prefix match.
	summaries, err := repo.ListQuizzes(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	var matches []string
	for _, s := range summaries {
		if strings.HasPrefix(s.ID, id) {
			matches = append(matches, s.ID)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no quiz matches %q", id)
	case 1:
		return repo.GetQuiz(ctx, matches[0])
	default:
		return nil, fmt.Errorf("%q is ambiguous: matches %d quizzes", id, len(matches))
	}
}

func hasShortAnswers(q *quiz.Quiz) bool {
	for _, question := range q.Questions {
		if question.Type == quiz.TypeShortAnswer {
			return true
		}
	}
	return false
}

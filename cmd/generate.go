package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alshwehdya-source/quiz/internal/llm"
	"github.com/alshwehdya-source/quiz/internal/material"
	"github.com/alshwehdya-source/quiz/internal/quiz"
	"github.com/alshwehdya-source/quiz/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate [files...]",
	Short: "Generate a quiz from study material",
	Long: `Generate a quiz from one or more files (text, Markdown, PDF, images)
or from a topic alone. The quiz is saved locally; take it with "quiz take".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		topic, _ := cmd.Flags().GetString("topic")
		text, _ := cmd.Flags().GetString("text")
		count, _ := cmd.Flags().GetInt("questions")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		typeNames, _ := cmd.Flags().GetStringSlice("types")

		spec := quiz.DefaultGenerateSpec()
		spec.Topic = topic
		spec.NumQuestions = count
		spec.Difficulty = difficulty
		if len(typeNames) > 0 {
			spec.Types = nil
			for _, n := range typeNames {
				spec.Types = append(spec.Types, quiz.QuestionType(strings.TrimSpace(n)))
			}
		}

		src, err := material.Load(args)
		if err != nil {
			return err
		}
		src.AddText(text)
		if src.Empty() && topic == "" {
			return fmt.Errorf("provide study material (files or --text) or a --topic")
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
		if err != nil {
			return fmt.Errorf("configure LLM provider: %w", err)
		}

		generator := quiz.NewGenerator(provider, quiz.DefaultGeneratorConfig())

		fmt.Printf("Generating %d questions...\n", spec.NumQuestions)
		start := time.Now()
		q, err := generator.Generate(ctx, spec, src.Text, src.Attachments)
		if err != nil {
			return fmt.Errorf("generate quiz: %w", err)
		}

		record := &store.QuizRecord{
			ID:            q.ID,
			Topic:         q.Topic,
			Difficulty:    q.Difficulty,
			SourceSummary: strings.Join(src.Names, ", "),
			CreatedAt:     q.CreatedAt,
		}
		for _, question := range q.Questions {
			record.Questions = append(record.Questions, store.QuestionRecord{
				ID:          question.ID,
				QuizID:      q.ID,
				Type:        string(question.Type),
				Text:        question.Text,
				Choices:     question.Choices,
				Answer:      question.Answer,
				Explanation: question.Explanation,
			})
		}
		if err := st.QuizRepo().SaveQuiz(ctx, record); err != nil {
			return fmt.Errorf("save quiz: %w", err)
		}

		fmt.Printf("Created %q with %d questions in %s.\n", q.Topic, len(q.Questions), time.Since(start).Round(time.Second))
		fmt.Printf("Take it with: quiz take %s\n", q.ID)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("topic", "t", "", "Topic to focus on (used alone or to steer the material)")
	generateCmd.Flags().String("text", "", "Inline study material")
	generateCmd.Flags().IntP("questions", "n", 10, "Number of questions")
	generateCmd.Flags().StringP("difficulty", "d", "medium", "Difficulty: easy, medium, hard")
	generateCmd.Flags().StringSlice("types", nil, "Allowed question types (multiple_choice,true_false,short_answer)")
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		summaries, err := st.QuizRepo().ListQuizzes(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list quizzes: %w", err)
		}

		if len(summaries) == 0 {
			fmt.Println("No quizzes yet. Create one with \"quiz generate\".")
			return nil
		}

		fmt.Printf("%-10s  %-32s  %-8s  %-4s  %-8s  %s\n",
			"ID", "Topic", "Level", "Qs", "Attempts", "Best")
		fmt.Println(strings.Repeat("─", 80))

		for _, s := range summaries {
			best := "-"
			if s.Attempts > 0 {
				best = fmt.Sprintf("%d/%d", s.BestScore, s.BestTotal)
			}
			topic := s.Topic
			if len(topic) > 32 {
				topic = topic[:32]
			}
			fmt.Printf("%-10s  %-32s  %-8s  %-4d  %-8d  %s\n",
				shortID(s.ID), topic, s.Difficulty, s.QuestionCount, s.Attempts, best)
		}
		return nil
	},
}

// shortID returns the first ID segment, enough to pass to "quiz take".
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	listCmd.Flags().IntP("limit", "n", 20, "Number of quizzes to show")
}

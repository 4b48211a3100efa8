package cmd

import (
	"github.com/alshwehdya-source/quiz/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Quiz yourself on any study material",
	Long:  "Generate quizzes from your notes, slides, or PDFs with an LLM and take them in the terminal.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZ_DB env var)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

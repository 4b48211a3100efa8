package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alshwehdya-source/quiz/internal/llm"
	"github.com/alshwehdya-source/quiz/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request/response events",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(context.Background(),
			store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No LLM events found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTIME\tPURPOSE\tMODEL\tIN\tOUT\tMS\tOK")
		for _, e := range events {
			ok := "yes"
			if !e.Success {
				ok = "no"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04"),
				e.Purpose,
				shorten(e.Model, 30),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return w.Flush()
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for an LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(context.Background(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		fmt.Printf("ID:       %d\n", e.ID)
		fmt.Printf("Time:     %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Provider: %s\n", e.Provider)
		fmt.Printf("Model:    %s\n", e.Model)
		fmt.Printf("Purpose:  %s\n", e.Purpose)
		fmt.Printf("Tokens:   %d in / %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Printf("Latency:  %dms\n", e.LatencyMs)
		fmt.Printf("Success:  %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Printf("Error:    %s\n", e.ErrorMessage)
		}

		printSection("REQUEST", e.RequestBody)
		printSection("RESPONSE", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		fmt.Println("Usage by purpose")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PURPOSE\tCALLS\tINPUT\tOUTPUT\tAVG MS")
		var calls, in, out int
		for _, u := range byPurpose {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n",
				u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
			calls += u.Calls
			in += u.InputTokens
			out += u.OutputTokens
		}
		fmt.Fprintf(w, "total\t%d\t%d\t%d\t\n", calls, in, out)
		if err := w.Flush(); err != nil {
			return err
		}

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(byModel) == 0 {
			return nil
		}

		fmt.Println("\nEstimated cost")
		w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MODEL\tCALLS\tINPUT\tOUTPUT\tUSD")
		var total float64
		var unknown []string
		for _, u := range byModel {
			cost := llm.LookupCost(u.Model)
			if cost == nil {
				unknown = append(unknown, u.Model)
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t?\n",
					shorten(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens)
				continue
			}
			c := cost.Cost(u.InputTokens, u.OutputTokens)
			total += c
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n",
				shorten(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, formatCost(c))
		}
		label := "total"
		if len(unknown) > 0 {
			label = "total (partial)"
		}
		fmt.Fprintf(w, "%s\t\t\t\t%s\n", label, formatCost(total))
		if err := w.Flush(); err != nil {
			return err
		}

		if len(unknown) > 0 {
			fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
		}
		return nil
	},
}

// openStore opens the database at the path resolved from the --db flag,
// QUIZ_DB, or the default location.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func printSection(title, body string) {
	fmt.Printf("\n--- %s ---\n", title)
	if body == "" {
		fmt.Println("(not captured)")
		return
	}
	fmt.Println(body)
}

func shorten(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (quiz-gen, grading)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}

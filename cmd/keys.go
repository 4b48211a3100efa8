package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alshwehdya-source/quiz/internal/keyring"
	"github.com/alshwehdya-source/quiz/internal/llm"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the configured API credential pool",
	Long: `Show which LLM provider is configured and the state of its credential
pool. Secrets are always redacted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := llm.ConfigFromEnv()
		if len(cfg.Keys()) == 0 {
			if discovered, ok := llm.DiscoverConfig(); ok {
				cfg = discovered
			}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		fmt.Printf("Provider:  %s\n", cfg.Provider)
		fmt.Printf("Cooldown:  %s\n", cfg.Cooldown)

		secrets := cfg.Keys()
		if len(secrets) == 0 {
			fmt.Println("\nNo API keys configured.")
			fmt.Printf("Set QUIZ_%s_API_KEYS (comma-separated for a pool).\n", strings.ToUpper(cfg.Provider))
			return nil
		}

		ring := keyring.New(secrets, keyring.Config{
			Cooldown:    cfg.Cooldown,
			IsThrottled: llm.IsThrottling,
		})

		fmt.Printf("\n%-14s  %-8s  %-20s  %s\n", "Credential", "Uses", "Last used", "State")
		fmt.Println(strings.Repeat("─", 60))
		for _, st := range ring.Snapshot() {
			lastUsed := "never"
			if !st.LastUsedAt.IsZero() {
				lastUsed = st.LastUsedAt.Local().Format(time.DateTime)
			}
			state := "ready"
			if st.CoolingDown {
				state = fmt.Sprintf("cooling until %s", st.CooldownUntil.Local().Format(time.TimeOnly))
			}
			fmt.Printf("%-14s  %-8d  %-20s  %s\n", st.ID, st.UsageCount, lastUsed, state)
		}
		return nil
	},
}

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/didi/internal/enforcer"
	"github.com/abhisek/didi/internal/fsm"
	"github.com/abhisek/didi/internal/llm"
	"github.com/abhisek/didi/internal/logger"
	"github.com/abhisek/didi/internal/phrasing"
	"github.com/abhisek/didi/internal/session"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM usage and check the configured provider",
}

var llmUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStoreFromFlags(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		usage, err := s.Events().LLMUsage(context.Background())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(usage) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		fmt.Println("Estimated Cost (USD)")
		fmt.Println(strings.Repeat("─", 84))
		fmt.Printf("%-32s  %6s  %6s  %10s  %10s  %10s\n",
			"Model", "Calls", "Failed", "Input", "Output", "Cost")
		fmt.Println(strings.Repeat("─", 84))

		var totalCalls int
		var totalIn, totalOut int64
		var totalCost float64
		var unknownModels []string
		for _, u := range usage {
			cost := formatCost(u.CostUSD)
			if llm.LookupCost(u.Model) == nil {
				unknownModels = append(unknownModels, u.Model)
				cost = "?"
			}
			fmt.Printf("%-32s  %6d  %6d  %10d  %10d  %10s\n",
				truncate(u.Model, 32), u.Requests, u.Failures, u.InputTokens, u.OutputTokens, cost)
			totalCalls += u.Requests
			totalIn += u.InputTokens
			totalOut += u.OutputTokens
			totalCost += u.CostUSD
		}

		fmt.Println(strings.Repeat("─", 84))
		label := "TOTAL"
		if len(unknownModels) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Printf("%-32s  %6d  %6s  %10d  %10d  %10s\n",
			label, totalCalls, "", totalIn, totalOut, formatCost(totalCost))

		if len(unknownModels) > 0 {
			fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
		}
		return nil
	},
}

var llmTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Phrase a greeting with the configured provider and check it",
	Long: `Send one phrasing request through the full provider chain and run the
reply through the response rules. When no provider is configured, the first
API key found among GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY and
OPENROUTER_API_KEY is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if !cfg.LLM.Enabled() && !llm.DiscoverConfig(&cfg.LLM) {
			return fmt.Errorf("no LLM provider configured: set DIDI_LLM_PROVIDER and its API key")
		}
		lang, _ := cmd.Flags().GetString("lang")
		l, err := session.ParseLanguage(lang)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		log := logger.Nop()
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		provider, err := llm.NewProvider(ctx, cfg.LLM, s.Events(), log)
		if err != nil {
			return err
		}
		pack, err := loadPack(cfg)
		if err != nil {
			return err
		}

		engine := fsm.New(pack, cfg.FSM())
		sess, in, err := engine.NewSession("llm-test", "llm-test", "", time.Now())
		if err != nil {
			return err
		}
		if sess.PreferredLanguage != l {
			sess.PreferredLanguage = l
			if in, err = engine.Opening(sess); err != nil {
				return err
			}
		}

		phraser := phrasing.NewLLMPhraser(provider, phrasing.LLMConfig{
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
		})
		start := time.Now()
		text, err := phraser.Phrase(ctx, in, nil)
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}

		fmt.Printf("Provider:  %s\n", cfg.LLM.Provider)
		fmt.Printf("Model:     %s\n", provider.ModelID())
		fmt.Printf("Latency:   %dms\n", time.Since(start).Milliseconds())
		fmt.Printf("Reply:     %s\n", text)

		res := enforcer.New(cfg.EnforcerLimits()).Enforce(text, phrasing.EnforcerContext(in))
		if res.OK() {
			fmt.Printf("Spoken:    %s\n", res.Text)
			return nil
		}
		for _, v := range res.Rejections() {
			fmt.Printf("Rejected:  %s %s\n", v.Rule, v.Detail)
		}
		return nil
	},
}

func truncate(s string, max int) string {
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
	llmTestCmd.Flags().String("lang", "hinglish", "Reply language: hinglish, hindi or english")

	llmCmd.AddCommand(llmUsageCmd)
	llmCmd.AddCommand(llmTestCmd)
}

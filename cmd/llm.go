package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbot/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Show the resolved LLM provider configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := llm.ConfigFromEnv()
		source := "environment (QUIZBOT_*)"

		if err := cfg.Validate(); err != nil {
			discovered, ok := llm.DiscoverConfig()
			if !ok {
				fmt.Println("No LLM provider configured.")
				fmt.Println()
				fmt.Println("Set QUIZBOT_LLM_PROVIDER and the matching API key,")
				fmt.Println("or export GEMINI_API_KEY / OPENAI_API_KEY / ANTHROPIC_API_KEY.")
				return nil
			}
			cfg = discovered
			source = "discovered API key"
		}

		model := ""
		switch cfg.Provider {
		case "gemini":
			model = cfg.Gemini.Model
		case "openai":
			model = cfg.OpenAI.Model
		case "anthropic":
			model = cfg.Anthropic.Model
		}

		fmt.Printf("Provider:  %s\n", cfg.Provider)
		if model != "" {
			fmt.Printf("Model:     %s\n", model)
		}
		fmt.Printf("Timeout:   %s\n", cfg.Timeout)
		fmt.Printf("Source:    %s\n", source)
		return nil
	},
}

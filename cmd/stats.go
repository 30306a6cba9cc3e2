package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbot/internal/history"
	"github.com/abhisek/quizbot/internal/progress"
	"github.com/abhisek/quizbot/internal/quiz"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show quiz results and usage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		username := resolveUsername(cmd)

		progressPath, err := resolveProgressPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve progress path: %w", err)
		}
		records, err := progress.NewStore(progressPath).Load()
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}

		fmt.Printf("User: %s\n\n", username)
		if record, ok := records[username]; ok {
			fmt.Println("Last quiz")
			fmt.Println(strings.Repeat("─", 40))
			fmt.Printf("Subject:   %s\n", record.Subject)
			fmt.Printf("Score:     %d/%d\n", record.Score, quiz.SessionLength)
			fmt.Printf("Accuracy:  %.0f%%\n", record.Accuracy)
		} else {
			fmt.Println("No quiz results recorded yet.")
		}

		historyPath, err := resolveHistoryPath(cmd)
		if err != nil {
			return nil
		}
		st, err := history.Open(historyPath)
		if err != nil {
			return nil
		}
		defer st.Close()

		sum, err := st.Summarize(context.Background(), username)
		if err != nil {
			return fmt.Errorf("summarize history: %w", err)
		}

		fmt.Println()
		fmt.Println("All time")
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("Quizzes finished:  %d\n", sum.RunsFinished)
		fmt.Printf("Answers:           %d (%d correct)\n", sum.Answers, sum.CorrectAnswers)

		if sum.OracleCalls > 0 {
			fmt.Println()
			fmt.Println("AI usage (all users)")
			fmt.Println(strings.Repeat("─", 40))
			fmt.Printf("Calls:             %d (%d failed)\n", sum.OracleCalls, sum.OracleFailures)
			fmt.Printf("Tokens:            %d in / %d out\n", sum.InputTokens, sum.OutputTokens)
			fmt.Printf("Avg latency:       %dms\n", sum.AvgLatencyMs)
		}
		return nil
	},
}

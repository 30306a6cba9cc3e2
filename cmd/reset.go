package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbot/internal/progress"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete saved progress (and optionally history)",
	RunE: func(cmd *cobra.Command, args []string) error {
		username := resolveUsername(cmd)
		all, _ := cmd.Flags().GetBool("all")
		withHistory, _ := cmd.Flags().GetBool("history-too")

		progressPath, err := resolveProgressPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve progress path: %w", err)
		}

		if all {
			if err := os.Remove(progressPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("remove progress file: %w", err)
			}
			fmt.Println("All progress deleted.")
		} else {
			store := progress.NewStore(progressPath)
			records, err := store.Load()
			if err != nil {
				return fmt.Errorf("load progress: %w", err)
			}
			if _, ok := records[username]; !ok {
				fmt.Printf("No progress recorded for %s.\n", username)
				return nil
			}
			delete(records, username)
			if err := store.Save(records); err != nil {
				return fmt.Errorf("save progress: %w", err)
			}
			fmt.Printf("Progress for %s deleted.\n", username)
		}

		if withHistory {
			historyPath, err := resolveHistoryPath(cmd)
			if err != nil {
				return fmt.Errorf("resolve history path: %w", err)
			}
			if err := os.Remove(historyPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("remove history database: %w", err)
			}
			fmt.Println("History deleted.")
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("all", false, "Delete every user's progress, not just yours")
	resetCmd.Flags().Bool("history-too", false, "Also delete the history database")
}

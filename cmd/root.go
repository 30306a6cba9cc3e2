package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbot/internal/history"
	"github.com/abhisek/quizbot/internal/progress"
)

var rootCmd = &cobra.Command{
	Use:   "quizbot",
	Short: "Chat-style quiz tutor",
	Long:  "Quizbot — a conversational terminal tutor that runs short quizzes, tracks your progress, and chats with AI feedback.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("user", "", "Username for progress tracking (overrides QUIZBOT_USER env var)")
	rootCmd.PersistentFlags().String("progress", "", "Path to the progress JSON file (overrides QUIZBOT_PROGRESS env var)")
	rootCmd.PersistentFlags().String("history", "", "Path to the history database (overrides QUIZBOT_HISTORY env var)")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveUsername returns the username from --user, then QUIZBOT_USER,
// then a generic default.
func resolveUsername(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return u
	}
	if u := os.Getenv("QUIZBOT_USER"); u != "" {
		return u
	}
	return "student"
}

// resolveProgressPath returns the progress file path using --progress
// (highest priority), then QUIZBOT_PROGRESS, then the default XDG path.
func resolveProgressPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("progress"); p != "" {
		return p, nil
	}
	return progress.DefaultPath()
}

// resolveHistoryPath returns the history database path using --history
// (highest priority), then QUIZBOT_HISTORY, then the default XDG path.
func resolveHistoryPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("history"); p != "" {
		return p, nil
	}
	return history.DefaultPath()
}

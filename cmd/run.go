package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbot/internal/app"
	"github.com/abhisek/quizbot/internal/bank"
	"github.com/abhisek/quizbot/internal/dialog"
	"github.com/abhisek/quizbot/internal/history"
	"github.com/abhisek/quizbot/internal/llm"
	"github.com/abhisek/quizbot/internal/oracle"
	"github.com/abhisek/quizbot/internal/progress"
	"github.com/abhisek/quizbot/internal/quiz"
)

// runApp builds the dependency graph and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	username := resolveUsername(cmd)

	progressPath, err := resolveProgressPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve progress path: %w", err)
	}
	progressStore := progress.NewStore(progressPath)

	// History is best-effort: the app runs without it.
	var recorder history.Recorder = history.Nop{}
	historyPath, err := resolveHistoryPath(cmd)
	if err == nil {
		if st, openErr := history.Open(historyPath); openErr == nil {
			defer st.Close()
			recorder = st
		} else {
			fmt.Fprintln(os.Stderr, "History disabled:", openErr)
		}
	} else {
		fmt.Fprintln(os.Stderr, "History disabled:", err)
	}

	// The oracle is optional too — quizzes work without AI feedback.
	var tutor oracle.Oracle = oracle.Disabled{}
	provider, err := llm.NewProviderFromEnv(ctx, recorder)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI feedback and open chat will be unavailable.")
	} else {
		tutor = oracle.NewService(provider)
	}

	questionBank := bank.Default()

	session, err := quiz.New(quiz.Config{
		Username:  username,
		Bank:      questionBank,
		Evaluator: tutor,
		Progress:  progressStore,
		Recorder:  recorder,
	})
	if err != nil {
		return fmt.Errorf("create quiz session: %w", err)
	}

	router := dialog.New(dialog.Config{
		Username: username,
		Bank:     questionBank,
		Session:  session,
		Oracle:   tutor,
		Progress: progressStore,
	})

	return app.Run(app.Options{
		Username: username,
		Router:   router,
	})
}

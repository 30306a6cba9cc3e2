package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSummarize_Empty(t *testing.T) {
	s := openTestStore(t)

	sum, err := s.Summarize(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, 0, sum.RunsFinished)
	require.Equal(t, 0, sum.Answers)
	require.Equal(t, 0, sum.OracleCalls)
}

func TestSummarize_AggregatesPerUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordRun(ctx, RunEventData{
		RunID: "run-1", Username: "alice", Subject: "math", Difficulty: "easy", Action: "start",
	}))
	require.NoError(t, s.RecordAnswer(ctx, AnswerEventData{
		RunID: "run-1", QuestionText: "What is 2 + 3?", ExpectedAnswer: "5",
		GivenAnswer: "5", Correct: true, ScoreAfter: 1, NextDifficulty: "easy",
	}))
	require.NoError(t, s.RecordAnswer(ctx, AnswerEventData{
		RunID: "run-1", QuestionText: "What is 10 - 6?", ExpectedAnswer: "4",
		GivenAnswer: "3", Correct: false, ScoreAfter: 1, NextDifficulty: "easy",
	}))
	require.NoError(t, s.RecordRun(ctx, RunEventData{
		RunID: "run-1", Username: "alice", Subject: "math", Difficulty: "easy",
		Action: "finish", Score: 1, Accuracy: 20.0,
	}))

	// A different user's run must not leak into alice's summary.
	require.NoError(t, s.RecordRun(ctx, RunEventData{
		RunID: "run-2", Username: "bob", Subject: "science", Difficulty: "hard",
		Action: "finish", Score: 5, Accuracy: 100.0,
	}))
	require.NoError(t, s.RecordAnswer(ctx, AnswerEventData{
		RunID: "run-2", QuestionText: "What is H2O commonly called?", ExpectedAnswer: "water",
		GivenAnswer: "water", Correct: true, ScoreAfter: 1, NextDifficulty: "easy",
	}))

	sum, err := s.Summarize(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, 1, sum.RunsFinished)
	require.Equal(t, 2, sum.Answers)
	require.Equal(t, 1, sum.CorrectAnswers)
}

func TestSummarize_OracleCalls(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordOracleCall(ctx, OracleCallData{
		Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "feedback",
		InputTokens: 100, OutputTokens: 40, LatencyMs: 300, Success: true,
	}))
	require.NoError(t, s.RecordOracleCall(ctx, OracleCallData{
		Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "chat",
		LatencyMs: 100, Success: false, ErrorMessage: "deadline exceeded",
	}))

	sum, err := s.Summarize(ctx, "anyone")
	require.NoError(t, err)
	require.Equal(t, 2, sum.OracleCalls)
	require.Equal(t, 1, sum.OracleFailures)
	require.Equal(t, 100, sum.InputTokens)
	require.Equal(t, 40, sum.OutputTokens)
	require.Equal(t, int64(200), sum.AvgLatencyMs)
}

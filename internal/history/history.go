// Package history keeps a local append-only event log of quiz activity:
// quiz runs, individual answers, and oracle calls. It backs the stats
// command; the chat loop treats it as best-effort and never fails an
// interaction because an event could not be recorded.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// RunEventData records the start or finish of one quiz run.
type RunEventData struct {
	RunID      string
	Username   string
	Subject    string
	Difficulty string
	Action     string // "start" or "finish"
	Score      int
	Accuracy   float64
}

// AnswerEventData records a single scored answer within a run.
type AnswerEventData struct {
	RunID          string
	QuestionText   string
	ExpectedAnswer string
	GivenAnswer    string
	Correct        bool
	ScoreAfter     int
	NextDifficulty string
}

// OracleCallData records one call to the feedback oracle.
type OracleCallData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// Recorder provides append access to the event log.
type Recorder interface {
	RecordRun(ctx context.Context, data RunEventData) error
	RecordAnswer(ctx context.Context, data AnswerEventData) error
	RecordOracleCall(ctx context.Context, data OracleCallData) error
}

// Store is a Recorder backed by a local SQLite database.
type Store struct {
	db *sql.DB
}

var _ Recorder = (*Store)(nil)

// Open connects to the SQLite database at path, applying recommended
// pragmas and creating the schema if needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) RecordRun(ctx context.Context, data RunEventData) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quiz_runs (run_id, username, subject, difficulty, action, score, accuracy, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		data.RunID, data.Username, data.Subject, data.Difficulty, data.Action,
		data.Score, data.Accuracy, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record run event: %w", err)
	}
	return nil
}

func (s *Store) RecordAnswer(ctx context.Context, data AnswerEventData) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO answers (run_id, question, expected, given, correct, score_after, next_difficulty, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		data.RunID, data.QuestionText, data.ExpectedAnswer, data.GivenAnswer,
		data.Correct, data.ScoreAfter, data.NextDifficulty, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record answer event: %w", err)
	}
	return nil
}

func (s *Store) RecordOracleCall(ctx context.Context, data OracleCallData) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO oracle_calls (provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
		data.LatencyMs, data.Success, data.ErrorMessage, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record oracle call: %w", err)
	}
	return nil
}

// Summary aggregates the event log for display.
type Summary struct {
	RunsFinished   int
	Answers        int
	CorrectAnswers int
	OracleCalls    int
	OracleFailures int
	InputTokens    int
	OutputTokens   int
	AvgLatencyMs   int64
}

// Summarize computes aggregate counts for the given user. Oracle call
// aggregates are global (calls are not attributed to a user).
func (s *Store) Summarize(ctx context.Context, username string) (*Summary, error) {
	sum := &Summary{}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quiz_runs WHERE username = ? AND action = 'finish'`,
		username,
	).Scan(&sum.RunsFinished)
	if err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(correct), 0)
		 FROM answers
		 WHERE run_id IN (SELECT run_id FROM quiz_runs WHERE username = ?)`,
		username,
	).Scan(&sum.Answers, &sum.CorrectAnswers)
	if err != nil {
		return nil, fmt.Errorf("count answers: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0),
		        COALESCE(SUM(input_tokens), 0),
		        COALESCE(SUM(output_tokens), 0),
		        COALESCE(CAST(AVG(latency_ms) AS INTEGER), 0)
		 FROM oracle_calls`,
	).Scan(&sum.OracleCalls, &sum.OracleFailures, &sum.InputTokens, &sum.OutputTokens, &sum.AvgLatencyMs)
	if err != nil {
		return nil, fmt.Errorf("aggregate oracle calls: %w", err)
	}

	return sum, nil
}

// applyPragmas configures SQLite for single-user desktop use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS quiz_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			username TEXT NOT NULL,
			subject TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			action TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			accuracy REAL NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS answers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			question TEXT NOT NULL,
			expected TEXT NOT NULL,
			given TEXT NOT NULL,
			correct BOOLEAN NOT NULL,
			score_after INTEGER NOT NULL,
			next_difficulty TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS oracle_calls (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			purpose TEXT NOT NULL,
			input_tokens INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			latency_ms INTEGER NOT NULL DEFAULT 0,
			success BOOLEAN NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_runs_username ON quiz_runs (username)`,
		`CREATE INDEX IF NOT EXISTS idx_answers_run ON answers (run_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}
	return nil
}

// DefaultPath resolves the history database path in priority order:
// 1. QUIZBOT_HISTORY environment variable
// 2. $XDG_DATA_HOME/quizbot/history.db
// 3. ~/.local/share/quizbot/history.db
func DefaultPath() (string, error) {
	if p := os.Getenv("QUIZBOT_HISTORY"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "quizbot", "history.db")
	return p, ensureDir(p)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// Nop is a Recorder that discards all events. Used when the history
// database cannot be opened.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) RecordRun(context.Context, RunEventData) error          { return nil }
func (Nop) RecordAnswer(context.Context, AnswerEventData) error    { return nil }
func (Nop) RecordOracleCall(context.Context, OracleCallData) error { return nil }

// Package quiz implements the scored question-and-answer session: a
// fixed-length run of questions drawn from the bank, with difficulty
// adjusted from the running score and results persisted on completion.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/quizbot/internal/bank"
	"github.com/abhisek/quizbot/internal/history"
	"github.com/abhisek/quizbot/internal/progress"
)

// SessionLength is the number of questions in one quiz run.
const SessionLength = 5

// ErrNoActiveSession indicates Answer was called outside a run.
var ErrNoActiveSession = errors.New("no active quiz session")

// Evaluator produces natural-language feedback on a scored answer.
// Satisfied by oracle.Oracle.
type Evaluator interface {
	Evaluate(ctx context.Context, userAnswer, correctAnswer string) (string, error)
}

// Summary is the result of one completed run.
type Summary struct {
	Subject  bank.Subject
	Score    int
	Accuracy float64 // percentage, score out of SessionLength
}

// Turn is what the session hands back after Start or Answer. Exactly one
// of Question (run continues) or Summary (run finished) is set after an
// Answer call; Start always sets Question.
type Turn struct {
	// Correct reports whether the answer just given was right.
	// Meaningless on the Turn returned by Start.
	Correct bool

	// Feedback is the oracle's commentary on the answer. Empty when
	// OracleErr is set; the caller substitutes its own fallback text.
	Feedback  string
	OracleErr error

	// Question is the next prompt when the run continues.
	Question       bank.Question
	QuestionNumber int // 1-based
	Difficulty     bank.Difficulty

	// Summary is set when this answer completed the run.
	Summary *Summary

	// PersistErr reports a failure to save the summary. The run still
	// completes and the summary is still returned.
	PersistErr error
}

// Config wires a Session to its collaborators.
type Config struct {
	Username  string
	Bank      *bank.Bank
	Evaluator Evaluator
	Progress  *progress.Store
	Recorder  history.Recorder

	// Rand drives question draws. Defaults to a PCG source seeded from
	// the global generator.
	Rand *rand.Rand
}

// Session runs quizzes one at a time. Not safe for concurrent use; the
// chat loop serializes access.
type Session struct {
	username  string
	bank      *bank.Bank
	evaluator Evaluator
	progress  *progress.Store
	recorder  history.Recorder
	rng       *rand.Rand

	runID      string
	subject    bank.Subject
	difficulty bank.Difficulty
	current    bank.Question
	asked      int
	score      int
	active     bool
}

// New creates a Session. All collaborators except Rand are required.
func New(cfg Config) (*Session, error) {
	if cfg.Username == "" {
		return nil, errors.New("quiz: username is required")
	}
	if cfg.Bank == nil {
		return nil, errors.New("quiz: bank is required")
	}
	if cfg.Evaluator == nil {
		return nil, errors.New("quiz: evaluator is required")
	}
	if cfg.Progress == nil {
		return nil, errors.New("quiz: progress store is required")
	}
	rec := cfg.Recorder
	if rec == nil {
		rec = history.Nop{}
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Session{
		username:  cfg.Username,
		bank:      cfg.Bank,
		evaluator: cfg.Evaluator,
		progress:  cfg.Progress,
		recorder:  rec,
		rng:       rng,
	}, nil
}

// Active reports whether a run is in progress.
func (s *Session) Active() bool { return s.active }

// Score returns the running score of the current run.
func (s *Session) Score() int { return s.score }

// Subject returns the subject of the current run.
func (s *Session) Subject() bank.Subject { return s.subject }

// Start begins a new run at the chosen subject and difficulty and draws
// the first question. Valid from any state: starting over an active run
// abandons it and resets the counters. The chosen difficulty governs
// only the first question; subsequent draws follow the running score.
func (s *Session) Start(ctx context.Context, subject bank.Subject, difficulty bank.Difficulty) (Turn, error) {
	q, err := s.bank.Draw(subject, difficulty, s.rng)
	if err != nil {
		return Turn{}, err
	}

	s.runID = uuid.NewString()
	s.subject = subject
	s.difficulty = difficulty
	s.current = q
	s.asked = 1
	s.score = 0
	s.active = true

	s.recordRun(ctx, "start")

	return Turn{
		Question:       q,
		QuestionNumber: 1,
		Difficulty:     difficulty,
	}, nil
}

// Answer scores the given answer against the current question, fetches
// oracle feedback, adjusts difficulty, and either draws the next
// question or finishes the run.
func (s *Session) Answer(ctx context.Context, given string) (Turn, error) {
	if !s.active {
		return Turn{}, ErrNoActiveSession
	}

	correct := Normalize(given) == Normalize(s.current.Answer)
	if correct {
		s.score++
	}

	turn := Turn{Correct: correct}
	turn.Feedback, turn.OracleErr = s.evaluator.Evaluate(ctx, given, s.current.Answer)

	next := AdjustDifficulty(s.score)

	if err := s.recorder.RecordAnswer(ctx, history.AnswerEventData{
		RunID:          s.runID,
		QuestionText:   s.current.Text,
		ExpectedAnswer: s.current.Answer,
		GivenAnswer:    given,
		Correct:        correct,
		ScoreAfter:     s.score,
		NextDifficulty: string(next),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record answer event: %v\n", err)
	}

	if s.asked >= SessionLength {
		return s.finish(ctx, turn), nil
	}

	s.difficulty = next
	q, err := s.bank.Draw(s.subject, s.difficulty, s.rng)
	if err != nil {
		return Turn{}, err
	}
	s.current = q
	s.asked++

	turn.Question = q
	turn.QuestionNumber = s.asked
	turn.Difficulty = s.difficulty
	return turn, nil
}

// finish completes the run: computes the summary, persists it, and
// records the finish event. Persistence failure is carried on the Turn,
// never dropped.
func (s *Session) finish(ctx context.Context, turn Turn) Turn {
	summary := &Summary{
		Subject:  s.subject,
		Score:    s.score,
		Accuracy: float64(s.score) / float64(SessionLength) * 100,
	}
	turn.Summary = summary
	turn.PersistErr = s.persist(summary)

	s.recordRun(ctx, "finish")
	s.active = false
	return turn
}

// persist saves the summary with a whole-file load, merge, save cycle so
// other users' records survive the overwrite.
func (s *Session) persist(summary *Summary) error {
	records, err := s.progress.Load()
	if err != nil {
		return err
	}
	records[s.username] = progress.Record{
		Subject:  string(summary.Subject),
		Score:    summary.Score,
		Accuracy: summary.Accuracy,
	}
	return s.progress.Save(records)
}

func (s *Session) recordRun(ctx context.Context, action string) {
	accuracy := 0.0
	if action == "finish" {
		accuracy = float64(s.score) / float64(SessionLength) * 100
	}
	if err := s.recorder.RecordRun(ctx, history.RunEventData{
		RunID:      s.runID,
		Username:   s.username,
		Subject:    string(s.subject),
		Difficulty: string(s.difficulty),
		Action:     action,
		Score:      s.score,
		Accuracy:   accuracy,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record run event: %v\n", err)
	}
}

// AdjustDifficulty maps a running score to the difficulty of the next
// draw: 4+ is hard, 2-3 medium, below that easy.
func AdjustDifficulty(score int) bank.Difficulty {
	switch {
	case score >= 4:
		return bank.DifficultyHard
	case score >= 2:
		return bank.DifficultyMedium
	default:
		return bank.DifficultyEasy
	}
}

// Normalize canonicalizes an answer for comparison: surrounding
// whitespace stripped, then lowercased.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

package quiz

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/abhisek/quizbot/internal/bank"
	"github.com/abhisek/quizbot/internal/progress"
)

type stubEvaluator struct {
	reply string
	err   error
	calls int
}

func (s *stubEvaluator) Evaluate(_ context.Context, _, _ string) (string, error) {
	s.calls++
	return s.reply, s.err
}

// testBank has one question per bucket so draws are deterministic.
func testBank(t *testing.T) *bank.Bank {
	t.Helper()
	b, err := bank.New(map[bank.Subject]map[bank.Difficulty][]bank.Question{
		bank.SubjectMath: {
			bank.DifficultyEasy:   {{Text: "1 + 1 = ?", Answer: "2"}},
			bank.DifficultyMedium: {{Text: "3 x 4 = ?", Answer: "12"}},
			bank.DifficultyHard:   {{Text: "17 x 19 = ?", Answer: "323"}},
		},
	})
	if err != nil {
		t.Fatalf("bank.New() error = %v", err)
	}
	return b
}

func newTestSession(t *testing.T, eval Evaluator) (*Session, *progress.Store) {
	t.Helper()
	store := progress.NewStore(filepath.Join(t.TempDir(), "progress.json"))
	s, err := New(Config{
		Username:  "riya",
		Bank:      testBank(t),
		Evaluator: eval,
		Progress:  store,
		Rand:      rand.New(rand.NewPCG(1, 2)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s, store
}

func TestAdjustDifficulty(t *testing.T) {
	tests := []struct {
		score int
		want  bank.Difficulty
	}{
		{0, bank.DifficultyEasy},
		{1, bank.DifficultyEasy},
		{2, bank.DifficultyMedium},
		{3, bank.DifficultyMedium},
		{4, bank.DifficultyHard},
		{5, bank.DifficultyHard},
	}
	for _, tt := range tests {
		if got := AdjustDifficulty(tt.score); got != tt.want {
			t.Errorf("AdjustDifficulty(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Oxygen ", "oxygen"},
		{"5", "5"},
		{"GRAVITY", "gravity"},
		{"\tnucleus\n", "nucleus"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSession_FullRun(t *testing.T) {
	eval := &stubEvaluator{reply: "Nice!"}
	s, store := newTestSession(t, eval)
	ctx := context.Background()

	turn, err := s.Start(ctx, bank.SubjectMath, bank.DifficultyEasy)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if turn.QuestionNumber != 1 || turn.Question.Text == "" {
		t.Fatalf("Start() turn = %+v, want question 1", turn)
	}

	// Answer the first three correctly, the last two wrong.
	for i := 0; i < SessionLength; i++ {
		answer := turn.Question.Answer
		if i >= 3 {
			answer = "not a clue"
		}
		turn, err = s.Answer(ctx, answer)
		if err != nil {
			t.Fatalf("Answer(%d) error = %v", i+1, err)
		}
		if turn.Feedback != "Nice!" {
			t.Errorf("Answer(%d) feedback = %q", i+1, turn.Feedback)
		}
	}

	if turn.Summary == nil {
		t.Fatal("final turn has no summary")
	}
	if turn.Summary.Score != 3 {
		t.Errorf("Score = %d, want 3", turn.Summary.Score)
	}
	if turn.Summary.Accuracy != 60.0 {
		t.Errorf("Accuracy = %v, want 60.0", turn.Summary.Accuracy)
	}
	if turn.PersistErr != nil {
		t.Errorf("PersistErr = %v", turn.PersistErr)
	}
	if s.Active() {
		t.Error("session still active after final answer")
	}
	if eval.calls != SessionLength {
		t.Errorf("evaluator calls = %d, want %d", eval.calls, SessionLength)
	}

	records, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := records["riya"]
	if got.Subject != "math" || got.Score != 3 || got.Accuracy != 60.0 {
		t.Errorf("persisted record = %+v", got)
	}
}

func TestSession_DifficultyFollowsScore(t *testing.T) {
	s, _ := newTestSession(t, &stubEvaluator{reply: "ok"})
	ctx := context.Background()

	turn, err := s.Start(ctx, bank.SubjectMath, bank.DifficultyEasy)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Score 1 after the first answer keeps the next question easy.
	turn, err = s.Answer(ctx, turn.Question.Answer)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if turn.Difficulty != bank.DifficultyEasy {
		t.Errorf("question 2 difficulty = %s, want easy", turn.Difficulty)
	}

	// Score 2 after the second promotes to medium mid-run.
	turn, err = s.Answer(ctx, turn.Question.Answer)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if turn.Difficulty != bank.DifficultyMedium {
		t.Errorf("question 3 difficulty = %s, want medium", turn.Difficulty)
	}
	if turn.Question.Text != "3 x 4 = ?" {
		t.Errorf("question 3 = %q, want the medium question", turn.Question.Text)
	}
}

func TestSession_AnswerNormalization(t *testing.T) {
	s, _ := newTestSession(t, &stubEvaluator{reply: "ok"})
	ctx := context.Background()

	if _, err := s.Start(ctx, bank.SubjectMath, bank.DifficultyEasy); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	turn, err := s.Answer(ctx, "  2 ")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if !turn.Correct {
		t.Error("whitespace-padded answer should score as correct")
	}
	if s.Score() != 1 {
		t.Errorf("Score() = %d, want 1", s.Score())
	}
}

func TestSession_OracleFailureStillScores(t *testing.T) {
	s, _ := newTestSession(t, &stubEvaluator{err: errors.New("model offline")})
	ctx := context.Background()

	turn, err := s.Start(ctx, bank.SubjectMath, bank.DifficultyEasy)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	turn, err = s.Answer(ctx, turn.Question.Answer)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if turn.OracleErr == nil {
		t.Error("expected OracleErr to be set")
	}
	if !turn.Correct || s.Score() != 1 {
		t.Errorf("scoring should survive oracle failure: correct=%v score=%d", turn.Correct, s.Score())
	}
	if turn.QuestionNumber != 2 {
		t.Errorf("run should advance past oracle failure, got question %d", turn.QuestionNumber)
	}
}

func TestSession_PersistFailureKeepsSummary(t *testing.T) {
	s, store := newTestSession(t, &stubEvaluator{reply: "ok"})
	ctx := context.Background()

	// Corrupt the backing file so the final load-merge-save fails.
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	turn, err := s.Start(ctx, bank.SubjectMath, bank.DifficultyEasy)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	for i := 0; i < SessionLength; i++ {
		turn, err = s.Answer(ctx, turn.Question.Answer)
		if err != nil {
			t.Fatalf("Answer(%d) error = %v", i+1, err)
		}
	}

	if turn.Summary == nil {
		t.Fatal("summary should survive persistence failure")
	}
	var corrupt *progress.CorruptFileError
	if !errors.As(turn.PersistErr, &corrupt) {
		t.Errorf("PersistErr = %v, want *progress.CorruptFileError", turn.PersistErr)
	}
}

func TestSession_MergePreservesOtherUsers(t *testing.T) {
	s, store := newTestSession(t, &stubEvaluator{reply: "ok"})
	ctx := context.Background()

	if err := store.Save(map[string]progress.Record{
		"dev": {Subject: "science", Score: 5, Accuracy: 100},
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	turn, err := s.Start(ctx, bank.SubjectMath, bank.DifficultyEasy)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	for i := 0; i < SessionLength; i++ {
		turn, err = s.Answer(ctx, turn.Question.Answer)
		if err != nil {
			t.Fatalf("Answer(%d) error = %v", i+1, err)
		}
	}

	records, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records["dev"].Score != 5 {
		t.Errorf("other user's record clobbered: %+v", records["dev"])
	}
	if records["riya"].Score != 5 {
		t.Errorf("riya's record = %+v, want perfect score", records["riya"])
	}
}

func TestSession_StartAbandonsActiveRun(t *testing.T) {
	s, _ := newTestSession(t, &stubEvaluator{reply: "ok"})
	ctx := context.Background()

	turn, err := s.Start(ctx, bank.SubjectMath, bank.DifficultyEasy)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := s.Answer(ctx, turn.Question.Answer); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if s.Score() != 1 {
		t.Fatalf("Score() = %d, want 1", s.Score())
	}

	turn, err = s.Start(ctx, bank.SubjectMath, bank.DifficultyHard)
	if err != nil {
		t.Fatalf("Start() over active run error = %v", err)
	}
	if turn.QuestionNumber != 1 {
		t.Errorf("QuestionNumber = %d, want 1", turn.QuestionNumber)
	}
	if turn.Difficulty != bank.DifficultyHard {
		t.Errorf("Difficulty = %s, want hard", turn.Difficulty)
	}
	if s.Score() != 0 {
		t.Errorf("Score() = %d, want reset to 0", s.Score())
	}
}

func TestSession_AnswerWithoutStart(t *testing.T) {
	s, _ := newTestSession(t, &stubEvaluator{})
	if _, err := s.Answer(context.Background(), "5"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Answer() error = %v, want ErrNoActiveSession", err)
	}
}

package bank

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
)

// Subject is a top-level question category.
type Subject string

// Difficulty is the second-level bucket narrowing question selection.
type Difficulty string

const (
	SubjectMath    Subject = "math"
	SubjectScience Subject = "science"
)

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is a single prompt with its expected answer.
// Answers are stored in case-insensitive canonical (lowercase) form.
type Question struct {
	Text   string
	Answer string
}

// UnknownCategoryError indicates a subject or difficulty key that the
// bank does not recognize.
type UnknownCategoryError struct {
	Subject    Subject
	Difficulty Difficulty
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category: subject %q, difficulty %q", e.Subject, e.Difficulty)
}

// Bank is a read-only collection of questions keyed by subject and
// difficulty. Every (subject, difficulty) pair present in the bank holds
// at least one question.
type Bank struct {
	questions map[Subject]map[Difficulty][]Question
}

// New builds a Bank from the given question map. It rejects empty
// question lists so that a session can always draw from any pair the
// bank reports as valid.
func New(questions map[Subject]map[Difficulty][]Question) (*Bank, error) {
	for subj, byDiff := range questions {
		if len(byDiff) == 0 {
			return nil, fmt.Errorf("subject %q has no difficulty buckets", subj)
		}
		for diff, qs := range byDiff {
			if len(qs) == 0 {
				return nil, fmt.Errorf("empty question list for %s/%s", subj, diff)
			}
		}
	}
	return &Bank{questions: questions}, nil
}

// QuestionsFor returns the ordered question list for the given pair.
// It fails with *UnknownCategoryError when either key is not recognized;
// it never silently returns an empty list.
func (b *Bank) QuestionsFor(subject Subject, difficulty Difficulty) ([]Question, error) {
	byDiff, ok := b.questions[subject]
	if !ok {
		return nil, &UnknownCategoryError{Subject: subject, Difficulty: difficulty}
	}
	qs, ok := byDiff[difficulty]
	if !ok {
		return nil, &UnknownCategoryError{Subject: subject, Difficulty: difficulty}
	}
	return qs, nil
}

// Draw picks one question uniformly at random from the given pair. Each
// call is an independent draw; repeats across calls are possible.
func (b *Bank) Draw(subject Subject, difficulty Difficulty, rng *rand.Rand) (Question, error) {
	qs, err := b.QuestionsFor(subject, difficulty)
	if err != nil {
		return Question{}, err
	}
	return qs[rng.IntN(len(qs))], nil
}

// Subjects returns the bank's subject keys in sorted order.
func (b *Bank) Subjects() []Subject {
	out := make([]Subject, 0, len(b.questions))
	for s := range b.questions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasSubject reports whether the bank knows the given subject key.
func (b *Bank) HasSubject(s Subject) bool {
	_, ok := b.questions[s]
	return ok
}

// ParseSubject matches input against the known subject keys.
// Matching is exact after lowercasing.
func ParseSubject(input string) (Subject, bool) {
	switch Subject(strings.ToLower(input)) {
	case SubjectMath:
		return SubjectMath, true
	case SubjectScience:
		return SubjectScience, true
	}
	return "", false
}

// ParseDifficulty matches input against the known difficulty keys.
// Matching is exact after lowercasing.
func ParseDifficulty(input string) (Difficulty, bool) {
	switch Difficulty(strings.ToLower(input)) {
	case DifficultyEasy:
		return DifficultyEasy, true
	case DifficultyMedium:
		return DifficultyMedium, true
	case DifficultyHard:
		return DifficultyHard, true
	}
	return "", false
}

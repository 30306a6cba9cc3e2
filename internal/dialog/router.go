// Package dialog turns free-text chat input into quiz actions. A Router
// owns the conversation flow: starting quizzes, collecting subject and
// difficulty choices, relaying answers to the session, reporting
// progress, and handing everything else to the oracle.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/quizbot/internal/bank"
	"github.com/abhisek/quizbot/internal/oracle"
	"github.com/abhisek/quizbot/internal/progress"
	"github.com/abhisek/quizbot/internal/quiz"
)

// Reply is the router's response to one input.
type Reply struct {
	Text string

	// Quit signals the surface to shut down after showing Text.
	Quit bool
}

// Router dispatches chat input. Rules are checked in a fixed order: an
// active quiz claims the input first, then quiz commands, then the
// progress report, then farewells, and finally open chat via the oracle.
type Router struct {
	username string
	bank     *bank.Bank
	session  *quiz.Session
	oracle   oracle.Oracle
	progress *progress.Store

	// pendingSubject is the subject chosen but not yet paired with a
	// difficulty. Cleared once a quiz starts or a new one is requested.
	pendingSubject bank.Subject
}

// Config wires a Router to its collaborators.
type Config struct {
	Username string
	Bank     *bank.Bank
	Session  *quiz.Session
	Oracle   oracle.Oracle
	Progress *progress.Store
}

// New creates a Router.
func New(cfg Config) *Router {
	return &Router{
		username: cfg.Username,
		bank:     cfg.Bank,
		session:  cfg.Session,
		oracle:   cfg.Oracle,
		progress: cfg.Progress,
	}
}

// Greeting is the opening message shown before any input.
func (r *Router) Greeting() string {
	return fmt.Sprintf(
		"Hi %s! I'm your quiz tutor. Say \"start quiz\" to begin, \"progress\" to see your last result, or just chat with me.",
		r.username,
	)
}

// Handle dispatches one input line and returns the reply.
func (r *Router) Handle(ctx context.Context, input string) Reply {
	trimmed := strings.TrimSpace(input)
	lowered := strings.ToLower(trimmed)

	if r.session.Active() {
		return r.handleAnswer(ctx, trimmed)
	}
	if strings.Contains(lowered, "start quiz") {
		return r.handleStartQuiz()
	}
	if subject, ok := bank.ParseSubject(lowered); ok {
		return r.handleSubject(subject)
	}
	if difficulty, ok := bank.ParseDifficulty(lowered); ok {
		return r.handleDifficulty(ctx, difficulty)
	}
	if strings.Contains(lowered, "progress") {
		return r.handleProgress()
	}
	if lowered == "bye" || lowered == "exit" || lowered == "quit" {
		return Reply{Text: fmt.Sprintf("Goodbye, %s! Keep practicing.", r.username), Quit: true}
	}
	return r.handleChat(ctx, trimmed)
}

// handleStartQuiz prompts for a subject. A subject chosen before this
// point stays pending, so "math" then "start quiz" then "easy" works.
func (r *Router) handleStartQuiz() Reply {
	return Reply{Text: fmt.Sprintf(
		"Great! Which subject would you like? (%s)", subjectList(r.bank),
	)}
}

func (r *Router) handleSubject(subject bank.Subject) Reply {
	if !r.bank.HasSubject(subject) {
		return Reply{Text: fmt.Sprintf(
			"I don't have %s questions yet. Try one of: %s.", subject, subjectList(r.bank),
		)}
	}
	r.pendingSubject = subject
	return Reply{Text: fmt.Sprintf(
		"%s it is! Pick a difficulty: easy, medium, or hard.", titleCase(string(subject)),
	)}
}

func (r *Router) handleDifficulty(ctx context.Context, difficulty bank.Difficulty) Reply {
	if r.pendingSubject == "" {
		return Reply{Text: "Pick a subject first — say \"start quiz\" and I'll walk you through it."}
	}

	subject := r.pendingSubject
	r.pendingSubject = ""

	turn, err := r.session.Start(ctx, subject, difficulty)
	if err != nil {
		return Reply{Text: fmt.Sprintf("I couldn't start that quiz: %v", err)}
	}
	return Reply{Text: fmt.Sprintf(
		"Let's go! %d questions, starting %s.\n\n%s",
		quiz.SessionLength, difficulty, formatQuestion(turn),
	)}
}

func (r *Router) handleAnswer(ctx context.Context, answer string) Reply {
	turn, err := r.session.Answer(ctx, answer)
	if err != nil {
		return Reply{Text: fmt.Sprintf("Something went wrong with that answer: %v", err)}
	}

	var b strings.Builder
	b.WriteString(formatFeedback(turn))

	if turn.Summary != nil {
		b.WriteString("\n\n")
		b.WriteString(formatSummary(turn.Summary))
		if turn.PersistErr != nil {
			b.WriteString(fmt.Sprintf(
				"\n(I couldn't save this result: %v)", turn.PersistErr,
			))
		}
		return Reply{Text: b.String()}
	}

	b.WriteString("\n\n")
	b.WriteString(formatQuestion(turn))
	return Reply{Text: b.String()}
}

func (r *Router) handleProgress() Reply {
	records, err := r.progress.Load()
	if err != nil {
		return Reply{Text: fmt.Sprintf("I couldn't read your progress: %v", err)}
	}
	record, ok := records[r.username]
	if !ok {
		return Reply{Text: fmt.Sprintf(
			"No quiz results yet, %s. Say \"start quiz\" to take your first one!", r.username,
		)}
	}
	return Reply{Text: fmt.Sprintf(
		"Your last quiz: %s — score %d/%d, accuracy %.0f%%.",
		record.Subject, record.Score, quiz.SessionLength, record.Accuracy,
	)}
}

func (r *Router) handleChat(ctx context.Context, message string) Reply {
	reply, err := r.oracle.Chat(ctx, message)
	if err != nil {
		if errors.Is(err, oracle.ErrNotConfigured) {
			return Reply{Text: "I can't chat freely without an AI provider configured, but quizzes work fine — say \"start quiz\"!"}
		}
		return Reply{Text: "I had trouble thinking of a reply just now. Say \"start quiz\" and let's do a quiz instead!"}
	}
	return Reply{Text: reply}
}

// formatFeedback renders the verdict line plus oracle commentary, with
// deterministic fallback text when the oracle is unavailable.
func formatFeedback(turn quiz.Turn) string {
	verdict := "Not quite."
	if turn.Correct {
		verdict = "Correct!"
	}
	if turn.OracleErr != nil {
		if turn.Correct {
			return verdict + " Well done."
		}
		return verdict + " Better luck on the next one."
	}
	return verdict + " " + turn.Feedback
}

func formatQuestion(turn quiz.Turn) string {
	return fmt.Sprintf(
		"Question %d of %d (%s): %s",
		turn.QuestionNumber, quiz.SessionLength, turn.Difficulty, turn.Question.Text,
	)
}

func formatSummary(summary *quiz.Summary) string {
	return fmt.Sprintf(
		"Quiz complete! You scored %d/%d on %s — accuracy %.0f%%.",
		summary.Score, quiz.SessionLength, summary.Subject, summary.Accuracy,
	)
}

func subjectList(b *bank.Bank) string {
	subjects := b.Subjects()
	parts := make([]string, len(subjects))
	for i, s := range subjects {
		parts[i] = string(s)
	}
	return strings.Join(parts, " or ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

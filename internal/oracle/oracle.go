// Package oracle provides the feedback oracle: a thin service over an
// LLM provider that evaluates quiz answers and handles free-form chat.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/quizbot/internal/llm"
)

// Oracle produces natural-language commentary. Both calls are
// synchronous; failures surface as errors, never as empty strings.
type Oracle interface {
	// Evaluate returns short feedback on a quiz answer. It is called
	// for every scored answer, right or wrong.
	Evaluate(ctx context.Context, userAnswer, correctAnswer string) (string, error)

	// Chat answers an arbitrary free-text message outside a quiz.
	Chat(ctx context.Context, message string) (string, error)
}

// ErrNotConfigured indicates no LLM provider is available.
var ErrNotConfigured = errors.New("oracle not configured")

const (
	evaluateSystem = "You are a friendly tutor. Give short feedback on a student's quiz answer. If correct, praise. If wrong, encourage and explain briefly."
	chatSystem     = "You are a friendly educational tutor chatting with a student. Keep replies short and encouraging."

	evaluateMaxTokens = 300
	chatMaxTokens     = 500
)

// feedbackSchema constrains Evaluate responses to a single feedback string.
var feedbackSchema = &llm.Schema{
	Name:        "answer-feedback",
	Description: "Short natural-language feedback on a quiz answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback": map[string]any{
				"type":        "string",
				"description": "One or two friendly sentences of feedback",
			},
		},
		"required": []any{"feedback"},
	},
}

// Service implements Oracle over an llm.Provider.
type Service struct {
	provider llm.Provider
}

var _ Oracle = (*Service)(nil)

// NewService creates an oracle Service backed by the given provider.
func NewService(provider llm.Provider) *Service {
	return &Service{provider: provider}
}

func (s *Service) Evaluate(ctx context.Context, userAnswer, correctAnswer string) (string, error) {
	prompt := fmt.Sprintf(
		"The student answered: %q\nThe correct answer is: %q",
		userAnswer, correctAnswer,
	)

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, "feedback"), llm.Request{
		System:    evaluateSystem,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Schema:    feedbackSchema,
		MaxTokens: evaluateMaxTokens,
	})
	if err != nil {
		return "", err
	}

	var parsed struct {
		Feedback string `json:"feedback"`
	}
	if err := json.Unmarshal(resp.Content, &parsed); err != nil {
		return "", &llm.ErrInvalidResponse{Content: resp.Content, Err: err}
	}

	feedback := strings.TrimSpace(parsed.Feedback)
	if feedback == "" {
		return "", &llm.ErrInvalidResponse{
			Content: resp.Content,
			Err:     errors.New("empty feedback"),
		}
	}
	return feedback, nil
}

func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	resp, err := s.provider.Generate(llm.WithPurpose(ctx, "chat"), llm.Request{
		System:    chatSystem,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: message}},
		MaxTokens: chatMaxTokens,
	})
	if err != nil {
		return "", err
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return "", &llm.ErrInvalidResponse{
			Content: resp.Content,
			Err:     errors.New("empty reply"),
		}
	}
	return reply, nil
}

// Disabled is an Oracle used when no provider is configured. Every call
// fails with ErrNotConfigured so callers fall back gracefully.
type Disabled struct{}

var _ Oracle = Disabled{}

func (Disabled) Evaluate(context.Context, string, string) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) Chat(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/quizbot/internal/history"
)

// NewProvider creates a Provider from configuration, wrapped with call
// logging and a per-request timeout. There is no retry middleware: a
// failed call fails once and the caller decides what to do.
func NewProvider(ctx context.Context, cfg Config, rec history.Recorder) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Middleware order: caller → timeout → logging → base.
	logged := WithLogging(base, rec)
	return WithTimeout(logged, cfg.Timeout), nil
}

// NewProviderFromEnv builds a Provider from QUIZBOT_* environment
// variables, falling back to probing the standard provider key vars.
func NewProviderFromEnv(ctx context.Context, rec history.Recorder) (Provider, error) {
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := DiscoverConfig()
		if !ok {
			return nil, err
		}
		cfg = discovered
	}
	return NewProvider(ctx, cfg, rec)
}

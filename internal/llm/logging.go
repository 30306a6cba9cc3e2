package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/quizbot/internal/history"
)

// LoggingProvider is a decorator that records every model call in the
// history store.
type LoggingProvider struct {
	inner Provider
	rec   history.Recorder
}

// WithLogging wraps a Provider with call logging.
func WithLogging(p Provider, rec history.Recorder) Provider {
	return &LoggingProvider{inner: p, rec: rec}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	data := history.OracleCallData{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// Log the call but never fail the request because logging failed.
	if logErr := l.rec.RecordOracleCall(ctx, data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record oracle call: %v\n", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

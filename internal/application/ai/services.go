package ai

import (
	"context"
	"errors"
	"time"

	"github.com/bryanwahyu/explain-my-mess/internal/application"
	"github.com/bryanwahyu/explain-my-mess/internal/domain/ai"
	"github.com/bryanwahyu/explain-my-mess/internal/logger"
	"github.com/bryanwahyu/explain-my-mess/internal/metrics"
)

type Options struct {
	// Timeout bounds one model call. The caller's context still applies.
	Timeout time.Duration
	Clock   application.Clock
}

// Service is the analysis client. It is safe for concurrent use.
type Service struct {
	gen     ai.Generator
	timeout time.Duration
	clock   application.Clock
}

func NewService(gen ai.Generator, opts Options) *Service {
	clock := opts.Clock
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &Service{gen: gen, timeout: opts.Timeout, clock: clock}
}

// Analyze sends the prompt, then the image if present, to the model and
// returns its text. Every failure is reported as ai.ErrAnalysis.
func (s *Service) Analyze(ctx context.Context, prompt string, image *ai.EncodedImagePart) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	parts := ai.BuildParts(prompt, image)
	provider := s.gen.Provider()
	start := s.clock.Now()

	text, err := s.gen.Generate(ctx, parts)
	elapsed := s.clock.Now().Sub(start)

	if err != nil {
		metrics.ObserveAnalysis(provider, outcome(err), elapsed)
		logger.Error(ctx, "analyze content", err,
			"provider", provider,
			"parts", len(parts),
			"has_image", image != nil,
			"duration_ms", elapsed.Milliseconds(),
		)
		return "", ai.ErrAnalysis
	}

	metrics.ObserveAnalysis(provider, "success", elapsed)
	return text, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ai.ErrMissingCredential):
		return "unconfigured"
	default:
		return "error"
	}
}

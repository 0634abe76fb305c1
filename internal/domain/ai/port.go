package ai

import "context"

// Generator is a hosted model that turns ordered parts into text.
type Generator interface {
	Generate(ctx context.Context, parts []Part) (string, error)
	Provider() string
}

// Analyzer produces an explanation for a prompt and an optional image.
// Implementations return ErrAnalysis on any failure.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string, image *EncodedImagePart) (string, error)
}

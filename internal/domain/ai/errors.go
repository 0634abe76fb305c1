package ai

import "errors"

// ErrAnalysis is the only failure the analysis client reports to callers.
// Provider detail is logged where it happens and never wrapped into it.
var ErrAnalysis = errors.New("failed to analyze content")

// ErrMissingCredential indicates the provider was configured without an API key.
var ErrMissingCredential = errors.New("ai provider credential is not configured")

// ErrEmptyResponse indicates the provider answered without any text.
var ErrEmptyResponse = errors.New("ai provider returned no text")

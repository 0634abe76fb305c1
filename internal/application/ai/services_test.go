package ai

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/explain-my-mess/internal/domain/ai"
	"github.com/bryanwahyu/explain-my-mess/internal/metrics"
)

type fakeGenerator struct {
	mu    sync.Mutex
	calls [][]ai.Part
	text  string
	err   error
	block bool
}

func (f *fakeGenerator) Provider() string { return "fake" }

func (f *fakeGenerator) Generate(ctx context.Context, parts []ai.Part) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, parts)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(250 * time.Millisecond)
	return c.now
}

func TestAnalyze_TextOnly(t *testing.T) {
	gen := &fakeGenerator{text: "a recursive fibonacci"}
	svc := NewService(gen, Options{Timeout: time.Second})

	out, err := svc.Analyze(context.Background(), "Explain this snippet", nil)
	require.NoError(t, err)
	assert.Equal(t, "a recursive fibonacci", out)

	require.Len(t, gen.calls, 1)
	require.Len(t, gen.calls[0], 1)
	assert.Equal(t, ai.TextPart{Text: "Explain this snippet"}, gen.calls[0][0])
}

func TestAnalyze_TextThenImage(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0x01, 0x02}
	enc := ai.EncodeImage("image/png", raw)

	gen := &fakeGenerator{text: "a diagram"}
	svc := NewService(gen, Options{})

	_, err := svc.Analyze(context.Background(), "what is this", &enc)
	require.NoError(t, err)

	require.Len(t, gen.calls, 1)
	parts := gen.calls[0]
	require.Len(t, parts, 2)
	assert.Equal(t, ai.TextPart{Text: "what is this"}, parts[0])

	img, ok := parts[1].(ai.InlineImagePart)
	require.True(t, ok)
	assert.Equal(t, "image/png", img.MimeType)

	decoded, err := img.Decode()
	require.NoError(t, err)
	assert.True(t, bytes.Equal(raw, decoded))
}

func TestAnalyze_NormalizesFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"network error", &fakeGenerator{err: errors.New("dial tcp: connection refused")}},
		{"missing credential", &fakeGenerator{err: ai.ErrMissingCredential}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.gen, Options{})

			out, err := svc.Analyze(context.Background(), "x", nil)
			assert.Empty(t, out)
			assert.ErrorIs(t, err, ai.ErrAnalysis)
			assert.Equal(t, "failed to analyze content", err.Error())
		})
	}
}

func TestAnalyze_BlankTextIsNotAFailure(t *testing.T) {
	svc := NewService(&fakeGenerator{text: "   "}, Options{})

	out, err := svc.Analyze(context.Background(), "x", nil)
	require.NoError(t, err)
	assert.Equal(t, "   ", out)
}

func TestAnalyze_Timeout(t *testing.T) {
	gen := &fakeGenerator{block: true}
	svc := NewService(gen, Options{Timeout: 20 * time.Millisecond})

	_, err := svc.Analyze(context.Background(), "x", nil)
	assert.ErrorIs(t, err, ai.ErrAnalysis)
}

func TestAnalyze_CallerCancel(t *testing.T) {
	gen := &fakeGenerator{block: true}
	svc := NewService(gen, Options{Timeout: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Analyze(ctx, "x", nil)
	assert.ErrorIs(t, err, ai.ErrAnalysis)
}

func TestAnalyze_RecordsMetrics(t *testing.T) {
	before := testutil.ToFloat64(metrics.AnalysisTotal.WithLabelValues("fake", "success"))

	svc := NewService(&fakeGenerator{text: "ok"}, Options{Clock: &stepClock{}})
	_, err := svc.Analyze(context.Background(), "x", nil)
	require.NoError(t, err)

	after := testutil.ToFloat64(metrics.AnalysisTotal.WithLabelValues("fake", "success"))
	assert.Equal(t, before+1, after)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "timeout", outcome(context.DeadlineExceeded))
	assert.Equal(t, "canceled", outcome(context.Canceled))
	assert.Equal(t, "unconfigured", outcome(ai.ErrMissingCredential))
	assert.Equal(t, "error", outcome(errors.New("x")))
}

package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/explain-my-mess/internal/domain/ai"
)

type fakeModel struct {
	got  []genai.Part
	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeModel) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.got = parts
	return f.resp, f.err
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]genai.Part, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, genai.Text(t))
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: "model", Parts: parts}}},
	}
}

func TestNew_WithoutKey(t *testing.T) {
	c, err := New(context.Background(), Options{})
	require.NoError(t, err)

	assert.False(t, c.Configured())
	assert.Equal(t, DefaultModel, c.Model())

	_, err = c.Generate(context.Background(), ai.BuildParts("x", nil))
	assert.ErrorIs(t, err, ai.ErrMissingCredential)

	_, err = c.ListModels(context.Background())
	assert.ErrorIs(t, err, ai.ErrMissingCredential)
	assert.NoError(t, c.Close())
}

func TestGenerate_SendsTextThenDecodedBlob(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	enc := ai.EncodeImage("image/png", raw)
	model := &fakeModel{resp: textResponse("It is ", "a chart.")}
	c := &Client{model: model, name: DefaultModel}

	out, err := c.Generate(context.Background(), ai.BuildParts("what is this", &enc))
	require.NoError(t, err)
	assert.Equal(t, "It is a chart.", out)

	require.Len(t, model.got, 2)
	assert.Equal(t, genai.Text("what is this"), model.got[0])
	assert.Equal(t, genai.Blob{MIMEType: "image/png", Data: raw}, model.got[1])
}

func TestGenerate_Errors(t *testing.T) {
	t.Run("sdk error", func(t *testing.T) {
		c := &Client{model: &fakeModel{err: errors.New("googleapi: Error 403")}}
		_, err := c.Generate(context.Background(), ai.BuildParts("x", nil))
		assert.ErrorContains(t, err, "403")
	})

	t.Run("no candidates", func(t *testing.T) {
		c := &Client{model: &fakeModel{resp: &genai.GenerateContentResponse{}}}
		_, err := c.Generate(context.Background(), ai.BuildParts("x", nil))
		assert.ErrorIs(t, err, ai.ErrEmptyResponse)
	})

	t.Run("nil content", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}
		c := &Client{model: &fakeModel{resp: resp}}
		_, err := c.Generate(context.Background(), ai.BuildParts("x", nil))
		assert.ErrorIs(t, err, ai.ErrEmptyResponse)
	})

	t.Run("bad base64", func(t *testing.T) {
		model := &fakeModel{resp: textResponse("unused")}
		c := &Client{model: model}
		parts := []ai.Part{ai.TextPart{Text: "x"}, ai.InlineImagePart{MimeType: "image/png", Data: "%%%"}}

		_, err := c.Generate(context.Background(), parts)
		assert.Error(t, err)
		assert.Nil(t, model.got)
	})
}

func TestResponseText_IgnoresNonTextParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{
			genai.Blob{MIMEType: "image/png", Data: []byte{1}},
			genai.Text("only text"),
		}}}},
	}

	out, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "only text", out)
}

func TestResponseText_CandidateWithoutText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{
			genai.Blob{MIMEType: "image/png", Data: []byte{1}},
		}}}},
	}

	out, err := responseText(resp)
	require.NoError(t, err)
	assert.Empty(t, out)
}

package ai

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeImage_RoundTrip(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0xff, 0xfe}

	enc := EncodeImage("image/png", raw)
	assert.Equal(t, "image/png", enc.MimeType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(raw), enc.Data)

	parts := BuildParts("what is this", &enc)
	require.Len(t, parts, 2)

	img, ok := parts[1].(InlineImagePart)
	require.True(t, ok)
	got, err := img.Decode()
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestBuildParts(t *testing.T) {
	t.Run("text only", func(t *testing.T) {
		parts := BuildParts("Explain this snippet", nil)
		require.Len(t, parts, 1)
		assert.Equal(t, TextPart{Text: "Explain this snippet"}, parts[0])
	})

	t.Run("text then image", func(t *testing.T) {
		parts := BuildParts("p", &EncodedImagePart{MimeType: "image/jpeg", Data: "AAEC"})
		require.Len(t, parts, 2)
		assert.Equal(t, TextPart{Text: "p"}, parts[0])
		assert.Equal(t, InlineImagePart{MimeType: "image/jpeg", Data: "AAEC"}, parts[1])
	})
}

func TestInlineImagePart_DecodeInvalid(t *testing.T) {
	_, err := InlineImagePart{MimeType: "image/png", Data: "not base64!"}.Decode()
	assert.Error(t, err)
}

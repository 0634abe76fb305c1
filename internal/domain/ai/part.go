package ai

import "encoding/base64"

// Part is one element of an ordered multimodal prompt.
// The set of implementations is closed: TextPart and InlineImagePart.
type Part interface {
	isPart()
}

type TextPart struct {
	Text string
}

// InlineImagePart carries base64 image bytes with their media type.
type InlineImagePart struct {
	MimeType string
	Data     string
}

func (TextPart) isPart()        {}
func (InlineImagePart) isPart() {}

// EncodedImagePart is an uploaded image in transport form.
type EncodedImagePart struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// EncodeImage base64-encodes raw image bytes with the standard alphabet.
func EncodeImage(mimeType string, raw []byte) EncodedImagePart {
	return EncodedImagePart{
		MimeType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(raw),
	}
}

// Decode returns the original image bytes.
func (p InlineImagePart) Decode() ([]byte, error) {
	return base64.StdEncoding.DecodeString(p.Data)
}

// BuildParts orders the prompt text first and the image, if any, second.
func BuildParts(prompt string, image *EncodedImagePart) []Part {
	parts := []Part{TextPart{Text: prompt}}
	if image != nil {
		parts = append(parts, InlineImagePart{MimeType: image.MimeType, Data: image.Data})
	}
	return parts
}

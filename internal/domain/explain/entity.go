package explain

import "github.com/bryanwahyu/explain-my-mess/internal/domain/ai"

// Attachment is an uploaded file as received from the client.
type Attachment struct {
	Data     []byte `form:"data" validate:"min=1"`
	MimeType string `form:"mimeType" validate:"required,startswith=image/"`
}

// ExplainRequest is one inbound explain call. Image is optional.
type ExplainRequest struct {
	Text  string      `form:"text" validate:"required"`
	Image *Attachment `form:"image"`
}

// EncodedImage converts the attachment for the analysis client, or returns
// nil when no image was uploaded.
func (r ExplainRequest) EncodedImage() *ai.EncodedImagePart {
	if r.Image == nil {
		return nil
	}
	enc := ai.EncodeImage(r.Image.MimeType, r.Image.Data)
	return &enc
}

type ExplainResponse struct {
	Explanation string   `json:"explanation"`
	Suggestions []string `json:"suggestions"`
}

// ErrorResponse is the body of every failed explain call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewExplainResponse wraps model output. Suggestions is reserved and always empty.
func NewExplainResponse(explanation string) ExplainResponse {
	return ExplainResponse{
		Explanation: explanation,
		Suggestions: []string{},
	}
}

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/bryanwahyu/explain-my-mess/internal/domain/explain"
)

// file fields accepted for the upload, in lookup order
var imageFields = []string{"image", "file"}

const maxMemory = 8 << 20

// POST /api/explain
// multipart: text (required), image (optional file)
func (r *Router) handleExplain(w http.ResponseWriter, req *http.Request) error {
	in, err := r.readExplainRequest(w, req)
	if err != nil {
		return err
	}
	if err := explain.Validate(in); err != nil {
		return err
	}

	text, err := r.analyzer.Analyze(req.Context(), in.Text, in.EncodedImage())
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, explain.NewExplainResponse(text))
	return nil
}

func (r *Router) readExplainRequest(w http.ResponseWriter, req *http.Request) (explain.ExplainRequest, error) {
	req.Body = http.MaxBytesReader(w, req.Body, r.maxUploadBytes)

	err := req.ParseMultipartForm(maxMemory)
	if req.MultipartForm != nil {
		defer req.MultipartForm.RemoveAll()
	}
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil, errors.Is(err, http.ErrNotMultipart):
		// a non-multipart body still carries url-encoded fields, if any
	case errors.As(err, &tooLarge):
		return explain.ExplainRequest{}, errTooLarge
	default:
		return explain.ExplainRequest{}, &explain.ValidationError{Field: "request", Message: "Invalid multipart form"}
	}

	in := explain.ExplainRequest{Text: req.PostFormValue("text")}

	fh := firstFile(req.MultipartForm)
	if fh == nil {
		return in, nil
	}
	att, err := readAttachment(fh)
	if err != nil {
		return explain.ExplainRequest{}, err
	}
	in.Image = att
	return in, nil
}

func firstFile(form *multipart.Form) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	for _, field := range imageFields {
		if files := form.File[field]; len(files) > 0 {
			return files[0]
		}
	}
	return nil
}

func readAttachment(fh *multipart.FileHeader) (*explain.Attachment, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	return &explain.Attachment{
		Data:     data,
		MimeType: mediaType(fh.Header.Get("Content-Type"), data),
	}, nil
}

// mediaType prefers the declared type and sniffs the content when the client
// sent none or a generic one.
func mediaType(declared string, data []byte) string {
	mt := stripParams(declared)
	if mt == "" || mt == "application/octet-stream" {
		mt = stripParams(mimetype.Detect(data).String())
	}
	return strings.ToLower(mt)
}

func stripParams(v string) string {
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

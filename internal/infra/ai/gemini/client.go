package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/bryanwahyu/explain-my-mess/internal/domain/ai"
)

const DefaultModel = "gemini-1.5-flash"

type Options struct {
	APIKey string
	Model  string
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client calls Gemini through the official SDK. A client built without an
// API key is usable but fails every call with ai.ErrMissingCredential.
type Client struct {
	sdk   *genai.Client
	model contentGenerator
	name  string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	name := strings.TrimSpace(opts.Model)
	if name == "" {
		name = DefaultModel
	}
	c := &Client{name: name}

	if strings.TrimSpace(opts.APIKey) == "" {
		return c, nil
	}

	sdk, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	c.sdk = sdk
	c.model = sdk.GenerativeModel(name)
	return c, nil
}

func (c *Client) Provider() string { return "gemini" }

func (c *Client) Model() string { return c.name }

func (c *Client) Configured() bool { return c.model != nil }

func (c *Client) Generate(ctx context.Context, parts []ai.Part) (string, error) {
	if c.model == nil {
		return "", ai.ErrMissingCredential
	}

	gparts, err := toGenaiParts(parts)
	if err != nil {
		return "", err
	}

	resp, err := c.model.GenerateContent(ctx, gparts...)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return responseText(resp)
}

func toGenaiParts(parts []ai.Part) ([]genai.Part, error) {
	out := make([]genai.Part, 0, len(parts))
	for i, p := range parts {
		switch p := p.(type) {
		case ai.TextPart:
			out = append(out, genai.Text(p.Text))
		case ai.InlineImagePart:
			data, err := p.Decode()
			if err != nil {
				return nil, fmt.Errorf("part %d: decode inline image: %w", i, err)
			}
			out = append(out, genai.Blob{MIMEType: p.MimeType, Data: data})
		default:
			return nil, fmt.Errorf("part %d: unsupported type %T", i, p)
		}
	}
	return out, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: %w", ai.ErrEmptyResponse)
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}

type ModelInfo struct {
	Name    string
	Methods []string
}

// ListModels returns the models visible to the configured key.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	if c.sdk == nil {
		return nil, ai.ErrMissingCredential
	}

	var out []ModelInfo
	it := c.sdk.ListModels(ctx)
	for {
		m, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gemini list models: %w", err)
		}
		out = append(out, ModelInfo{Name: m.Name, Methods: m.SupportedGenerationMethods})
	}
	return out, nil
}

func (c *Client) Close() error {
	if c.sdk == nil {
		return nil
	}
	return c.sdk.Close()
}

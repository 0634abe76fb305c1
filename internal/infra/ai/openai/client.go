package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/explain-my-mess/internal/domain/ai"
)

const (
	DefaultModel = "gpt-4o-mini"
	maxTokens    = 2048
)

type Options struct {
	APIKey string
	Model  string
	// BaseURL points at an OpenAI-compatible endpoint; empty means api.openai.com.
	BaseURL string
}

type Client struct {
	api    *openai.Client
	apiKey string
	Model  string
}

func NewClient(opts Options) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	if base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"); base != "" {
		cfg.BaseURL = base
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: openai.NewClientWithConfig(cfg), apiKey: opts.APIKey, Model: model}
}

func (c *Client) Provider() string { return "openai" }

func (c *Client) Configured() bool { return strings.TrimSpace(c.apiKey) != "" }

func (c *Client) Generate(ctx context.Context, parts []ai.Part) (string, error) {
	if !c.Configured() {
		return "", ai.ErrMissingCredential
	}

	content, err := toMessageParts(parts)
	if err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, MultiContent: content},
		},
	}
	// reasoning models reject max_tokens
	if isReasoningModel(c.Model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: %w", ai.ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

func toMessageParts(parts []ai.Part) ([]openai.ChatMessagePart, error) {
	out := make([]openai.ChatMessagePart, 0, len(parts))
	for i, p := range parts {
		switch p := p.(type) {
		case ai.TextPart:
			out = append(out, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: p.Text,
			})
		case ai.InlineImagePart:
			out = append(out, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    fmt.Sprintf("data:%s;base64,%s", p.MimeType, p.Data),
					Detail: openai.ImageURLDetailAuto,
				},
			})
		default:
			return nil, fmt.Errorf("part %d: unsupported type %T", i, p)
		}
	}
	return out, nil
}

func isReasoningModel(model string) bool {
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

// Package openai wraps the official openai-go SDK behind a small interface
// for chat completions.
package openai

import (
	"context"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rotisserie/eris"
)

// DefaultModel is used when a request names no model.
const DefaultModel = "gpt-4o-mini"

// Client defines the OpenAI API operations used for intent classification.
type Client interface {
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest is our own request type for ChatCompletion.
type ChatRequest struct {
	Model       string
	MaxTokens   int64
	Messages    []Message
	Temperature *float64
}

// Message is one chat message. Role is "system", "assistant" or "user".
type Message struct {
	Role    string
	Content string
}

// ChatResponse is our own response type from ChatCompletion.
type ChatResponse struct {
	ID      string
	Model   string
	Choices []Choice
	Usage   Usage
}

// Content returns the first choice's text, or "" when there is none.
func (r *ChatResponse) Content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Content
}

// Choice is one completion alternative.
type Choice struct {
	Content      string
	FinishReason string
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
}

// Option configures the SDK client.
type Option func(*[]option.RequestOption)

// WithBaseURL points the client at a different OpenAI-compatible host.
// An empty url keeps the SDK default.
func WithBaseURL(url string) Option {
	return func(opts *[]option.RequestOption) {
		if url != "" {
			*opts = append(*opts, option.WithBaseURL(url))
		}
	}
}

// WithMaxRetries overrides the SDK's built-in retry count.
func WithMaxRetries(n int) Option {
	return func(opts *[]option.RequestOption) {
		*opts = append(*opts, option.WithMaxRetries(n))
	}
}

// sdkClient implements Client using openai-go.
type sdkClient struct {
	client sdk.Client
}

// NewClient creates a new OpenAI client backed by the SDK.
func NewClient(apiKey string, opts ...Option) Client {
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	for _, o := range opts {
		o(&reqOpts)
	}
	return &sdkClient{
		client: sdk.NewClient(reqOpts...),
	}
}

func (c *sdkClient) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	params := sdk.ChatCompletionNewParams{
		Model:    sdk.ChatModel(model),
		Messages: toSDKMessages(req.Messages),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = sdk.Int(req.MaxTokens)
	}
	if req.Temperature != nil {
		params.Temperature = sdk.Float(*req.Temperature)
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, eris.Wrap(err, "openai: chat completion")
	}
	if len(completion.Choices) == 0 {
		return nil, eris.New("openai: response has no choices")
	}

	return fromSDKCompletion(completion), nil
}

// --- SDK type conversion helpers ---

func toSDKMessages(msgs []Message) []sdk.ChatCompletionMessageParamUnion {
	out := make([]sdk.ChatCompletionMessageParamUnion, len(msgs))
	for i, m := range msgs {
		switch m.Role {
		case "system":
			out[i] = sdk.SystemMessage(m.Content)
		case "assistant":
			out[i] = sdk.AssistantMessage(m.Content)
		default:
			out[i] = sdk.UserMessage(m.Content)
		}
	}
	return out
}

func fromSDKCompletion(c *sdk.ChatCompletion) *ChatResponse {
	choices := make([]Choice, 0, len(c.Choices))
	for _, ch := range c.Choices {
		choices = append(choices, Choice{
			Content:      ch.Message.Content,
			FinishReason: string(ch.FinishReason),
		})
	}

	return &ChatResponse{
		ID:      c.ID,
		Model:   c.Model,
		Choices: choices,
		Usage: Usage{
			PromptTokens:     c.Usage.PromptTokens,
			CompletionTokens: c.Usage.CompletionTokens,
		},
	}
}

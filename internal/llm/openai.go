package llm

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/scorer"
	"github.com/sells-group/leadscore/pkg/openai"
)

// OpenAI generates text with the chat completions API.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI wraps client. An empty model leaves the client default in place.
func NewOpenAI(client openai.Client, model string) *OpenAI {
	return &OpenAI{client: client, model: model}
}

// Generate implements scorer.Generator.
func (o *OpenAI) Generate(ctx context.Context, req scorer.GenerateRequest) (string, error) {
	msgs := make([]openai.Message, 0, 2)
	if req.System != "" {
		msgs = append(msgs, openai.Message{Role: "system", Content: req.System})
	}
	msgs = append(msgs, openai.Message{Role: "user", Content: req.Prompt})

	resp, err := o.client.ChatCompletion(ctx, openai.ChatRequest{
		Model:     o.model,
		MaxTokens: int64(req.MaxTokens),
		Messages:  msgs,
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: openai generate")
	}
	zap.L().Debug("llm: openai usage",
		zap.String("model", resp.Model),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)
	return resp.Content(), nil
}

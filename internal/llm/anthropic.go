package llm

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscore/internal/scorer"
	"github.com/sells-group/leadscore/pkg/anthropic"
)

// Anthropic generates text with the Messages API.
type Anthropic struct {
	client anthropic.Client
	model  string
}

// NewAnthropic wraps client, sending every request to model.
func NewAnthropic(client anthropic.Client, model string) *Anthropic {
	return &Anthropic{client: client, model: model}
}

// Generate implements scorer.Generator.
func (a *Anthropic) Generate(ctx context.Context, req scorer.GenerateRequest) (string, error) {
	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.model,
		MaxTokens: int64(req.MaxTokens),
		System:    req.System,
		Messages:  []anthropic.Message{{Role: "user", Content: req.Prompt}},
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: anthropic generate")
	}
	resp.Usage.LogCost(a.model, "intent")
	return resp.Text(), nil
}

// Package llm adapts the provider clients in pkg/ to scorer.Generator.
package llm

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/config"
	"github.com/sells-group/leadscore/internal/scorer"
	"github.com/sells-group/leadscore/pkg/anthropic"
	"github.com/sells-group/leadscore/pkg/openai"
)

// New builds the generator selected by cfg.Provider.
func New(cfg config.LLMConfig) (scorer.Generator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, eris.New("llm: openai key is required")
		}
		client := openai.NewClient(cfg.OpenAIKey,
			openai.WithBaseURL(cfg.OpenAIBaseURL),
			openai.WithMaxRetries(0),
		)
		zap.L().Info("llm: using openai", zap.String("model", cfg.OpenAIModel))
		return NewOpenAI(client, cfg.OpenAIModel), nil
	case config.ProviderAnthropic:
		if cfg.AnthropicKey == "" {
			return nil, eris.New("llm: anthropic key is required")
		}
		// A failed call falls back to a Low verdict, so the SDK must not retry.
		client := anthropic.NewClient(cfg.AnthropicKey, anthropic.WithMaxRetries(0))
		zap.L().Info("llm: using anthropic", zap.String("model", cfg.AnthropicModel))
		return NewAnthropic(client, cfg.AnthropicModel), nil
	case config.ProviderStub:
		zap.L().Warn("llm: using stub generator, verdicts are canned")
		return &Stub{}, nil
	default:
		return nil, eris.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

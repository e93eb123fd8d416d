package scorer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadscore/internal/model"
)

// FailedReasoning is the reasoning recorded when the intent call fails.
const FailedReasoning = "AI call failed."

const intentSystemPrompt = `You are a B2B sales analyst. Judge how likely a prospect is to buy the offered product. Answer with a verdict of exactly one word (High, Medium or Low) on the first line in the form "Intent: <High|Medium|Low>", followed by a 1-2 sentence justification.`

const intentUserPrompt = `Offer: %s
Value propositions: %s
Ideal use cases: %s

Prospect role: %s
Prospect industry: %s
Prospect LinkedIn bio: %s

Classify this prospect's buying intent as High, Medium, or Low and explain in 1-2 sentences.`

var (
	strictIntentRe = regexp.MustCompile(`(?i)^\s*\**\s*intent\s*\**\s*[:\-]\s*\**\s*(high|medium|low)\b`)
	looseIntentRe  = regexp.MustCompile(`(?i)high|medium|low`)
)

// GenerateRequest is a single prompt sent to a text-generation backend.
type GenerateRequest struct {
	System    string
	Prompt    string
	MaxTokens int
}

// Generator produces free text for a prompt. Implementations wrap an LLM API.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Classification is the outcome of one intent call.
type Classification struct {
	Intent    model.Intent `json:"intent"`
	Points    int          `json:"points"`
	Reasoning string       `json:"reasoning"`
}

// failedClassification is returned for every failed intent call.
func failedClassification() Classification {
	return Classification{
		Intent:    model.IntentLow,
		Points:    model.IntentLow.Points(),
		Reasoning: FailedReasoning,
	}
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithMaxTokens caps the generated output length.
func WithMaxTokens(n int) ClassifierOption {
	return func(c *Classifier) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithTimeout bounds each intent call. Zero disables the per-call timeout.
func WithTimeout(d time.Duration) ClassifierOption {
	return func(c *Classifier) {
		c.timeout = d
	}
}

// WithRateLimit limits intent calls to rps per second. Zero or negative
// leaves calls unlimited.
func WithRateLimit(rps float64) ClassifierOption {
	return func(c *Classifier) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			c.limiter = nil
		}
	}
}

// Classifier asks a Generator for a High/Medium/Low buying-intent verdict.
type Classifier struct {
	gen       Generator
	maxTokens int
	timeout   time.Duration
	limiter   *rate.Limiter
}

// NewClassifier creates a Classifier. Defaults: 100 output tokens and a 30s
// per-call timeout.
func NewClassifier(gen Generator, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		gen:       gen,
		maxTokens: 100,
		timeout:   30 * time.Second,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Classify returns the intent verdict for a lead. Failures never surface as
// errors: they degrade to Low with FailedReasoning.
func (c *Classifier) Classify(ctx context.Context, lead model.Lead, offer model.Offer) Classification {
	text, err := c.generate(ctx, lead, offer)
	if err != nil {
		zap.L().Warn("scorer: intent call failed",
			zap.String("lead", lead.Get(model.FieldName)),
			zap.Error(err),
		)
		return failedClassification()
	}

	intent := ParseIntent(text)
	return Classification{
		Intent:    intent,
		Points:    intent.Points(),
		Reasoning: text,
	}
}

func (c *Classifier) generate(ctx context.Context, lead model.Lead, offer model.Offer) (string, error) {
	if c.gen == nil {
		return "", eris.New("scorer: no generator configured")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "scorer: rate limit wait")
		}
	}

	text, err := c.gen.Generate(ctx, GenerateRequest{
		System:    intentSystemPrompt,
		Prompt:    BuildIntentPrompt(lead, offer),
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", eris.Wrap(err, "scorer: generate intent")
	}
	if strings.TrimSpace(text) == "" {
		return "", eris.New("scorer: empty intent response")
	}
	return text, nil
}

// BuildIntentPrompt renders the user prompt for one lead.
func BuildIntentPrompt(lead model.Lead, offer model.Offer) string {
	return fmt.Sprintf(intentUserPrompt,
		offer.Name,
		strings.Join(offer.ValueProps, ", "),
		strings.Join(offer.IdealUseCases, ", "),
		orUnknown(lead.Get(model.FieldRole)),
		orUnknown(lead.Get(model.FieldIndustry)),
		orUnknown(lead.Get(model.FieldLinkedInBio)),
	)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}

// ParseIntent extracts the verdict from a model response. An "Intent: X"
// header on the first non-blank line wins; otherwise the first occurrence of
// high, medium or low anywhere in the text is used. No match means Low.
func ParseIntent(text string) model.Intent {
	if m := strictIntentRe.FindStringSubmatch(firstLine(text)); m != nil {
		if intent, ok := model.ParseIntentToken(m[1]); ok {
			return intent
		}
	}
	if tok := looseIntentRe.FindString(text); tok != "" {
		if intent, ok := model.ParseIntentToken(tok); ok {
			return intent
		}
	}
	return model.IntentLow
}

// firstLine returns the first line of text that is not blank.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

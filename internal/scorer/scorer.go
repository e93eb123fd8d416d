package scorer

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadscore/internal/model"
)

var (
	// ErrNoOffer is returned when scoring is attempted without a valid offer.
	ErrNoOffer = eris.New("scorer: offer missing")
	// ErrNoLeads is returned when scoring is attempted with an empty batch.
	ErrNoLeads = eris.New("scorer: leads missing")
)

// IntentClassifier returns a verdict for one lead. *Classifier satisfies it.
type IntentClassifier interface {
	Classify(ctx context.Context, lead model.Lead, offer model.Offer) Classification
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithMode sets the combination policy. Unknown modes fall back to combined.
func WithMode(mode model.ScoringMode) Option {
	return func(s *Scorer) {
		if mode.Valid() {
			s.mode = mode
		}
	}
}

// WithAdjacency replaces the default industry adjacency table.
func WithAdjacency(adj Adjacency) Option {
	return func(s *Scorer) {
		if adj != nil {
			s.adjacency = adj
		}
	}
}

// WithConcurrency sets how many leads are classified at once. Values below
// one mean sequential.
func WithConcurrency(n int) Option {
	return func(s *Scorer) {
		if n < 1 {
			n = 1
		}
		s.concurrency = n
	}
}

// Scorer turns an offer and a lead batch into scored leads.
type Scorer struct {
	classifier  IntentClassifier
	adjacency   Adjacency
	mode        model.ScoringMode
	concurrency int
}

// New creates a Scorer in combined mode with the default adjacency table,
// classifying one lead at a time.
func New(classifier IntentClassifier, opts ...Option) *Scorer {
	s := &Scorer{
		classifier:  classifier,
		adjacency:   DefaultAdjacency(),
		mode:        model.ModeCombined,
		concurrency: 1,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Mode returns the configured combination policy.
func (s *Scorer) Mode() model.ScoringMode {
	return s.mode
}

// Run scores every lead against offer. The output has one entry per lead in
// input order. Classification failures degrade individual leads and never
// abort the batch. Callers must pass snapshots: neither offer nor leads may
// change while Run executes.
func (s *Scorer) Run(ctx context.Context, offer *model.Offer, leads []model.Lead) ([]model.ScoredLead, error) {
	if offer == nil {
		return nil, ErrNoOffer
	}
	if err := offer.Validate(); err != nil {
		return nil, eris.Wrap(ErrNoOffer, err.Error())
	}
	if len(leads) == 0 {
		return nil, ErrNoLeads
	}

	out := make([]model.ScoredLead, len(leads))

	if s.concurrency <= 1 {
		for i, lead := range leads {
			out[i] = s.scoreOne(ctx, i, lead, *offer)
		}
		return out, nil
	}

	// Each goroutine owns slot i, so ordering needs no locking.
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, lead := range leads {
		g.Go(func() error {
			out[i] = s.scoreOne(gCtx, i, lead, *offer)
			return nil
		})
	}
	_ = g.Wait()

	return out, nil
}

func (s *Scorer) scoreOne(ctx context.Context, idx int, lead model.Lead, offer model.Offer) model.ScoredLead {
	cls := s.classifier.Classify(ctx, lead, offer)

	score := cls.Points
	var rules RuleBreakdown
	if s.mode == model.ModeCombined {
		rules = ScoreRules(lead, offer, s.adjacency)
		score += rules.Total()
	}

	zap.L().Debug("scorer: lead scored",
		zap.Int("index", idx),
		zap.String("lead", lead.Get(model.FieldName)),
		zap.String("mode", string(s.mode)),
		zap.Int("role_points", rules.Role),
		zap.Int("industry_points", rules.Industry),
		zap.Int("completeness_points", rules.Completeness),
		zap.String("intent", string(cls.Intent)),
		zap.Int("ai_points", cls.Points),
		zap.Int("score", score),
	)

	return model.ScoredLead{
		Name:      lead.Get(model.FieldName),
		Role:      lead.Get(model.FieldRole),
		Company:   lead.Get(model.FieldCompany),
		Intent:    cls.Intent,
		Score:     score,
		Reasoning: cls.Reasoning,
	}
}

// Package session holds the state of one scoring session: the current offer,
// the current lead batch and the last published results. Each is replaced
// wholesale on resubmission and never merged.
package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/leadcsv"
	"github.com/sells-group/leadscore/internal/model"
)

var (
	// ErrInvalidOffer wraps offer validation failures.
	ErrInvalidOffer = eris.New("invalid or incomplete offer")
	// ErrInvalidLeads wraps lead upload parse failures.
	ErrInvalidLeads = eris.New("invalid lead file")
	// ErrNotReady is returned by Run when the offer or leads are missing.
	ErrNotReady = eris.New("offer or leads missing")
	// ErrNoResults is returned by Results before any run has completed.
	ErrNoResults = eris.New("no scoring results available")
	// ErrNoOffer is returned by Offer before an offer was submitted.
	ErrNoOffer = eris.New("no offer submitted")
)

// Runner scores a snapshot of offer and leads. *scorer.Scorer satisfies it.
type Runner interface {
	Run(ctx context.Context, offer *model.Offer, leads []model.Lead) ([]model.ScoredLead, error)
	Mode() model.ScoringMode
}

// Session is safe for concurrent use. Scoring runs hold no lock while
// classifying, so submissions are served during a run and do not affect it.
type Session struct {
	runner Runner

	mu        sync.RWMutex
	offer     *model.Offer
	leads     []model.Lead
	results   *model.RunResult
	started   uint64 // sequence of the most recently started run
	published uint64 // sequence of the run behind results

	now func() time.Time
}

// New creates an empty session scored by runner.
func New(runner Runner) *Session {
	return &Session{
		runner: runner,
		now:    time.Now,
	}
}

// SubmitOffer validates and stores offer, replacing any previous one. On
// validation failure the current offer is left untouched.
func (s *Session) SubmitOffer(offer model.Offer) error {
	if err := offer.Validate(); err != nil {
		return eris.Wrap(ErrInvalidOffer, err.Error())
	}

	cp := offer.Clone()
	s.mu.Lock()
	s.offer = &cp
	s.mu.Unlock()

	zap.L().Info("session: offer saved",
		zap.String("offer", offer.Name),
		zap.Int("use_cases", len(offer.IdealUseCases)),
	)
	return nil
}

// Offer returns a copy of the current offer.
func (s *Session) Offer() (model.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.offer == nil {
		return model.Offer{}, ErrNoOffer
	}
	return s.offer.Clone(), nil
}

// SubmitLeads parses a CSV lead file and replaces the current batch. It
// returns the number of leads ingested. A parse failure leaves the previous
// batch in place.
func (s *Session) SubmitLeads(r io.Reader) (int, error) {
	leads, err := leadcsv.Parse(r)
	if err != nil {
		return 0, eris.Wrap(ErrInvalidLeads, err.Error())
	}
	return s.SetLeads(leads), nil
}

// SubmitLeadsFile is SubmitLeads for an uploaded file whose name selects the
// format (CSV or XLSX).
func (s *Session) SubmitLeadsFile(name string, r io.Reader) (int, error) {
	leads, err := leadcsv.ParseFile(name, r)
	if err != nil {
		return 0, eris.Wrap(ErrInvalidLeads, err.Error())
	}
	return s.SetLeads(leads), nil
}

// SetLeads replaces the current batch with leads and returns its size. The
// session takes ownership of the slice.
func (s *Session) SetLeads(leads []model.Lead) int {
	s.mu.Lock()
	s.leads = leads
	s.mu.Unlock()

	zap.L().Info("session: leads replaced", zap.Int("count", len(leads)))
	return len(leads)
}

// Run scores the current offer and leads and publishes the result. Offer and
// leads are snapshotted at start; the result becomes visible only once every
// lead is scored. If runs overlap, the most recently started one is kept.
func (s *Session) Run(ctx context.Context) (*model.RunResult, error) {
	s.mu.Lock()
	if s.offer == nil || len(s.leads) == 0 {
		s.mu.Unlock()
		return nil, ErrNotReady
	}
	offer := s.offer.Clone()
	leads := s.leads
	s.started++
	seq := s.started
	s.mu.Unlock()

	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID))
	log.Info("session: scoring run started",
		zap.Int("leads", len(leads)),
		zap.String("mode", string(s.runner.Mode())),
	)

	start := s.now()
	scored, err := s.runner.Run(ctx, &offer, leads)
	if err != nil {
		return nil, eris.Wrap(err, "session: run scoring")
	}
	// A cancelled run degrades every remaining lead to the fallback verdict;
	// such a batch is discarded rather than published.
	if err := ctx.Err(); err != nil {
		log.Warn("session: run cancelled, result discarded", zap.Error(err))
		return nil, eris.Wrap(err, "session: run cancelled")
	}

	result := &model.RunResult{
		RunID:       runID,
		Mode:        s.runner.Mode(),
		CompletedAt: s.now().UTC(),
		Leads:       scored,
	}

	s.mu.Lock()
	if seq > s.published {
		s.results = result
		s.published = seq
	} else {
		log.Info("session: newer run already published, discarding result")
	}
	s.mu.Unlock()

	log.Info("session: scoring run complete",
		zap.Int("scored", len(scored)),
		zap.Duration("elapsed", s.now().Sub(start)),
	)
	return result, nil
}

// Results returns the last published run.
func (s *Session) Results() (*model.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.results == nil {
		return nil, ErrNoResults
	}
	return s.results, nil
}

package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscore/internal/model"
	"github.com/sells-group/leadscore/internal/scorer"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, offer *model.Offer, leads []model.Lead) ([]model.ScoredLead, error) {
	args := m.Called(ctx, offer, leads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ScoredLead), args.Error(1)
}

func (m *mockRunner) Mode() model.ScoringMode {
	return model.ModeCombined
}

// verdictClassifier answers High for every lead.
type verdictClassifier struct{}

func (verdictClassifier) Classify(_ context.Context, _ model.Lead, _ model.Offer) scorer.Classification {
	return scorer.Classification{Intent: model.IntentHigh, Points: 50, Reasoning: "Intent: High"}
}

func validOffer() model.Offer {
	return model.Offer{Name: "X", ValueProps: []string{"fast"}, IdealUseCases: []string{"SaaS"}}
}

const leadsCSV = `name,role,company,industry,location,linkedin_bio
A,CEO,B,SaaS,C,D
E,Manager,F,Technology,G,
`

func TestSubmitOffer(t *testing.T) {
	s := New(&mockRunner{})

	_, err := s.Offer()
	assert.True(t, eris.Is(err, ErrNoOffer))

	require.NoError(t, s.SubmitOffer(validOffer()))
	got, err := s.Offer()
	require.NoError(t, err)
	assert.Equal(t, "X", got.Name)

	err = s.SubmitOffer(model.Offer{Name: "Y"})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidOffer))
	assert.Contains(t, err.Error(), "value_props")

	got, _ = s.Offer()
	assert.Equal(t, "X", got.Name, "rejected offer must not replace the current one")
}

func TestSubmitLeads(t *testing.T) {
	s := New(&mockRunner{})

	n, err := s.SubmitLeads(strings.NewReader(leadsCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.SubmitLeads(strings.NewReader(""))
	assert.True(t, eris.Is(err, ErrInvalidLeads))
	assert.Len(t, s.leads, 2, "failed upload keeps the previous batch")
}

func TestSubmitLeadsFile(t *testing.T) {
	s := New(&mockRunner{})

	n, err := s.SubmitLeadsFile("batch.csv", strings.NewReader(leadsCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.SubmitLeadsFile("batch.xlsx", strings.NewReader(leadsCSV))
	assert.True(t, eris.Is(err, ErrInvalidLeads))
	assert.Len(t, s.leads, 2)
}

func TestRun_NotReady(t *testing.T) {
	s := New(&mockRunner{})

	_, err := s.Run(context.Background())
	assert.True(t, eris.Is(err, ErrNotReady))

	require.NoError(t, s.SubmitOffer(validOffer()))
	_, err = s.Run(context.Background())
	assert.True(t, eris.Is(err, ErrNotReady))

	s.SetLeads([]model.Lead{})
	_, err = s.Run(context.Background())
	assert.True(t, eris.Is(err, ErrNotReady))
}

func TestResults_BeforeAndAfterRun(t *testing.T) {
	s := New(scorer.New(verdictClassifier{}))

	_, err := s.Results()
	assert.True(t, eris.Is(err, ErrNoResults))

	require.NoError(t, s.SubmitOffer(validOffer()))
	_, err = s.SubmitLeads(strings.NewReader(leadsCSV))
	require.NoError(t, err)

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, model.ModeCombined, res.Mode)

	got, err := s.Results()
	require.NoError(t, err)
	require.Len(t, got.Leads, 2)
	assert.Equal(t, "A", got.Leads[0].Name)
	assert.Equal(t, 100, got.Leads[0].Score)
	assert.Equal(t, "E", got.Leads[1].Name)
	// Manager (10) + adjacent Technology (10) + incomplete (0) + High (50).
	assert.Equal(t, 70, got.Leads[1].Score)
}

func TestRun_ReplacementNotMerged(t *testing.T) {
	s := New(scorer.New(verdictClassifier{}))
	require.NoError(t, s.SubmitOffer(validOffer()))
	_, err := s.SubmitLeads(strings.NewReader(leadsCSV))
	require.NoError(t, err)
	_, err = s.Run(context.Background())
	require.NoError(t, err)

	_, err = s.SubmitLeads(strings.NewReader("name,role\nZed,Intern\n"))
	require.NoError(t, err)
	_, err = s.Run(context.Background())
	require.NoError(t, err)

	got, err := s.Results()
	require.NoError(t, err)
	require.Len(t, got.Leads, 1)
	assert.Equal(t, "Zed", got.Leads[0].Name)
}

func TestRun_RunnerError(t *testing.T) {
	r := &mockRunner{}
	r.On("Run", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

	s := New(r)
	require.NoError(t, s.SubmitOffer(validOffer()))
	s.SetLeads([]model.Lead{{"name": "A"}})

	_, err := s.Run(context.Background())
	require.Error(t, err)

	_, err = s.Results()
	assert.True(t, eris.Is(err, ErrNoResults))
}

// blockingRunner parks inside Run until released so tests can act mid-run.
type blockingRunner struct {
	entered chan struct{}
	release chan struct{}
	offer   model.Offer
	leads   []model.Lead
}

func (b *blockingRunner) Run(_ context.Context, offer *model.Offer, leads []model.Lead) ([]model.ScoredLead, error) {
	b.offer = *offer
	b.leads = leads
	close(b.entered)
	<-b.release
	out := make([]model.ScoredLead, len(leads))
	for i, l := range leads {
		out[i] = model.ScoredLead{Name: l.Get(model.FieldName), Intent: model.IntentLow, Score: 10}
	}
	return out, nil
}

func (b *blockingRunner) Mode() model.ScoringMode { return model.ModeAIOnly }

func TestRun_SnapshotAndAtomicPublish(t *testing.T) {
	br := &blockingRunner{entered: make(chan struct{}), release: make(chan struct{})}
	s := New(br)
	require.NoError(t, s.SubmitOffer(validOffer()))
	s.SetLeads([]model.Lead{{"name": "A"}, {"name": "B"}})

	done := make(chan error, 1)
	go func() {
		_, err := s.Run(context.Background())
		done <- err
	}()
	<-br.entered

	// Submissions during the run are served and do not leak into it.
	require.NoError(t, s.SubmitOffer(model.Offer{Name: "Other", ValueProps: []string{"v"}, IdealUseCases: []string{"Retail"}}))
	s.SetLeads([]model.Lead{{"name": "C"}})

	_, err := s.Results()
	assert.True(t, eris.Is(err, ErrNoResults), "partial results must not be visible")

	close(br.release)
	require.NoError(t, <-done)

	assert.Equal(t, "X", br.offer.Name)
	assert.Len(t, br.leads, 2)

	got, err := s.Results()
	require.NoError(t, err)
	assert.Len(t, got.Leads, 2)
	assert.Equal(t, model.ModeAIOnly, got.Mode)
}

// ctxGenerator answers High unless its context is done.
type ctxGenerator struct{}

func (ctxGenerator) Generate(ctx context.Context, _ scorer.GenerateRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "Intent: High", nil
}

func TestRun_CancelledContextKeepsPublishedResults(t *testing.T) {
	s := New(scorer.New(scorer.NewClassifier(ctxGenerator{})))
	require.NoError(t, s.SubmitOffer(validOffer()))
	_, err := s.SubmitLeads(strings.NewReader(leadsCSV))
	require.NoError(t, err)

	first, err := s.Run(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Run(ctx)
	require.Error(t, err)
	assert.True(t, eris.Is(err, context.Canceled))
	assert.Nil(t, res)

	got, err := s.Results()
	require.NoError(t, err)
	assert.Equal(t, first.RunID, got.RunID)
	for _, l := range got.Leads {
		assert.Equal(t, model.IntentHigh, l.Intent)
		assert.NotEqual(t, scorer.FailedReasoning, l.Reasoning)
	}
}

func TestRun_CancelledBeforeAnyResult(t *testing.T) {
	s := New(scorer.New(scorer.NewClassifier(ctxGenerator{})))
	require.NoError(t, s.SubmitOffer(validOffer()))
	_, err := s.SubmitLeads(strings.NewReader(leadsCSV))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Run(ctx)
	require.Error(t, err)

	_, err = s.Results()
	assert.True(t, eris.Is(err, ErrNoResults), "fallback-only batch must not be published")
}

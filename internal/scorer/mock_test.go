package scorer

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/leadscore/internal/model"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// fixedClassifier returns canned verdicts keyed by lead name.
type fixedClassifier struct {
	byName map[string]Classification
}

func (f fixedClassifier) Classify(_ context.Context, lead model.Lead, _ model.Offer) Classification {
	if c, ok := f.byName[lead.Get(model.FieldName)]; ok {
		return c
	}
	return failedClassification()
}

func testOffer() model.Offer {
	return model.Offer{
		Name:          "X",
		ValueProps:    []string{"fast"},
		IdealUseCases: []string{"SaaS"},
	}
}

func testLead() model.Lead {
	return model.Lead{
		"name":         "A",
		"role":         "CEO",
		"company":      "B",
		"industry":     "SaaS",
		"location":     "C",
		"linkedin_bio": "D",
	}
}

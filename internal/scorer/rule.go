package scorer

import (
	"strings"

	"github.com/sells-group/leadscore/internal/model"
)

// Rule score component weights.
const (
	RoleDecisionMakerPoints = 20
	RoleInfluencerPoints    = 10
	IndustryExactPoints     = 20
	IndustryAdjacentPoints  = 10
	CompletenessPoints      = 10

	MaxRuleScore = RoleDecisionMakerPoints + IndustryExactPoints + CompletenessPoints
)

var (
	decisionMakerMarkers = []string{"head", "ceo", "director"}
	influencerMarkers    = []string{"manager", "influencer"}
)

// RuleBreakdown holds the three independent rule score components.
type RuleBreakdown struct {
	Role         int `json:"role"`
	Industry     int `json:"industry"`
	Completeness int `json:"completeness"`
}

// Total returns the summed rule score.
func (b RuleBreakdown) Total() int {
	return b.Role + b.Industry + b.Completeness
}

// RuleScore computes the deterministic 0-50 score for a lead against an offer.
func RuleScore(lead model.Lead, offer model.Offer, adj Adjacency) int {
	return ScoreRules(lead, offer, adj).Total()
}

// ScoreRules computes each rule component. Missing lead fields lower the
// score rather than failing.
func ScoreRules(lead model.Lead, offer model.Offer, adj Adjacency) RuleBreakdown {
	return RuleBreakdown{
		Role:         roleScore(lead.Get(model.FieldRole)),
		Industry:     industryScore(lead.Get(model.FieldIndustry), offer.IdealUseCases, adj),
		Completeness: completenessScore(lead),
	}
}

// roleScore takes the first matching tier; tiers never stack.
func roleScore(role string) int {
	lower := strings.ToLower(role)
	switch {
	case containsAny(lower, decisionMakerMarkers...):
		return RoleDecisionMakerPoints
	case containsAny(lower, influencerMarkers...):
		return RoleInfluencerPoints
	default:
		return 0
	}
}

// industryScore checks every ICP for an exact match before any adjacency.
func industryScore(industry string, icps []string, adj Adjacency) int {
	industry = strings.ToLower(strings.TrimSpace(industry))
	if industry == "" {
		return 0
	}

	for _, icp := range icps {
		if strings.ToLower(strings.TrimSpace(icp)) == industry {
			return IndustryExactPoints
		}
	}
	for _, icp := range icps {
		if adj.Related(icp, industry) {
			return IndustryAdjacentPoints
		}
	}
	return 0
}

func completenessScore(lead model.Lead) int {
	if lead.Complete() {
		return CompletenessPoints
	}
	return 0
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

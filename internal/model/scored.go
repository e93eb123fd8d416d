package model

import (
	"sort"
	"strings"
	"time"
)

// Intent is the classifier's buying-readiness verdict.
type Intent string

const (
	IntentHigh   Intent = "High"
	IntentMedium Intent = "Medium"
	IntentLow    Intent = "Low"
)

// Points maps a verdict to its AI score contribution. Unknown values score
// as Low.
func (i Intent) Points() int {
	switch i {
	case IntentHigh:
		return 50
	case IntentMedium:
		return 30
	default:
		return 10
	}
}

// ParseIntentToken normalizes a case-insensitive verdict word to an Intent.
func ParseIntentToken(s string) (Intent, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return IntentHigh, true
	case "medium":
		return IntentMedium, true
	case "low":
		return IntentLow, true
	}
	return "", false
}

// ScoringMode selects how rule score and AI points are combined.
type ScoringMode string

const (
	// ModeCombined adds the rule score (0-50) to the AI points (10/30/50).
	ModeCombined ScoringMode = "combined"
	// ModeAIOnly uses the AI points alone and skips the rule score.
	ModeAIOnly ScoringMode = "ai_only"
)

// Valid reports whether m is a known mode.
func (m ScoringMode) Valid() bool {
	return m == ModeCombined || m == ModeAIOnly
}

// ScoredLead is the per-lead scoring output.
type ScoredLead struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Company   string `json:"company"`
	Intent    Intent `json:"intent"`
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

// RankByScore returns a copy of leads ordered by descending score. Ties keep
// their input order.
func RankByScore(leads []ScoredLead) []ScoredLead {
	ranked := make([]ScoredLead, len(leads))
	copy(ranked, leads)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// RunResult is one complete, published scoring run.
type RunResult struct {
	RunID       string       `json:"run_id"`
	Mode        ScoringMode  `json:"mode"`
	CompletedAt time.Time    `json:"completed_at"`
	Leads       []ScoredLead `json:"leads"`
}

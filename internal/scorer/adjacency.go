// Package scorer implements lead scoring: a deterministic rule score, an LLM
// intent classification, and the orchestration that combines them per lead.
package scorer

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Adjacency maps a lowercase ICP industry label to the lowercase industries
// that earn partial credit against it. The relation is directional: listing
// "technology" under "saas" says nothing about "saas" under "technology".
type Adjacency map[string][]string

// DefaultAdjacency returns the built-in industry adjacency table. The table
// is intentionally asymmetric; do not symmetrize it.
func DefaultAdjacency() Adjacency {
	return Adjacency{
		"saas":               {"technology", "software", "it services", "cloud computing"},
		"b2b saas":           {"saas", "technology", "software"},
		"software":           {"saas", "technology"},
		"technology":         {"software", "it services"},
		"fintech":            {"financial services", "banking", "saas"},
		"financial services": {"fintech", "banking", "insurance"},
		"healthcare":         {"healthtech", "medical devices", "pharmaceuticals"},
		"healthtech":         {"healthcare", "saas"},
		"e-commerce":         {"retail", "consumer goods"},
		"retail":             {"e-commerce"},
		"marketing":          {"advertising", "media"},
		"education":          {"edtech"},
		"edtech":             {"education", "saas"},
		"manufacturing":      {"industrial", "logistics"},
		"logistics":          {"supply chain", "transportation"},
		"real estate":        {"proptech", "construction"},
	}
}

// Related reports whether industry is listed under icp. Both arguments are
// compared lowercased.
func (a Adjacency) Related(icp, industry string) bool {
	industry = strings.ToLower(strings.TrimSpace(industry))
	for _, rel := range a[strings.ToLower(strings.TrimSpace(icp))] {
		if rel == industry {
			return true
		}
	}
	return false
}

// LoadAdjacency reads an adjacency table from a YAML file of the form
//
//	saas: [technology, software]
//	fintech: [banking]
//
// Keys and values are lowercased and trimmed.
func LoadAdjacency(path string) (Adjacency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "scorer: read adjacency file %s", path)
	}

	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrapf(err, "scorer: parse adjacency file %s", path)
	}
	if len(raw) == 0 {
		return nil, eris.Errorf("scorer: adjacency file %s is empty", path)
	}

	adj := make(Adjacency, len(raw))
	for icp, related := range raw {
		key := strings.ToLower(strings.TrimSpace(icp))
		if key == "" {
			continue
		}
		for _, r := range related {
			if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
				adj[key] = append(adj[key], r)
			}
		}
	}
	return adj, nil
}

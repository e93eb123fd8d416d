package main

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/config"
	"github.com/sells-group/leadscore/internal/llm"
	"github.com/sells-group/leadscore/internal/model"
	"github.com/sells-group/leadscore/internal/scorer"
	"github.com/sells-group/leadscore/internal/session"
)

// initSession builds the LLM backend and scorer from c and returns an empty
// session ready for an offer and leads.
func initSession(c *config.Config) (*session.Session, error) {
	gen, err := llm.New(c.LLM)
	if err != nil {
		return nil, eris.Wrap(err, "init llm")
	}

	sc, err := buildScorer(c, gen)
	if err != nil {
		return nil, err
	}

	return session.New(sc), nil
}

// buildScorer wires the classifier and adjacency table around gen.
func buildScorer(c *config.Config, gen scorer.Generator) (*scorer.Scorer, error) {
	adj := scorer.DefaultAdjacency()
	if c.Scoring.AdjacencyFile != "" {
		loaded, err := scorer.LoadAdjacency(c.Scoring.AdjacencyFile)
		if err != nil {
			return nil, eris.Wrap(err, "load adjacency")
		}
		adj = loaded
		zap.L().Info("loaded adjacency table",
			zap.String("path", c.Scoring.AdjacencyFile),
			zap.Int("icps", len(adj)),
		)
	}

	classifier := scorer.NewClassifier(gen,
		scorer.WithMaxTokens(c.LLM.MaxTokens),
		scorer.WithTimeout(time.Duration(c.LLM.TimeoutSecs)*time.Second),
		scorer.WithRateLimit(c.LLM.RequestsPerSecond),
	)

	return scorer.New(classifier,
		scorer.WithMode(model.ScoringMode(c.Scoring.Mode)),
		scorer.WithAdjacency(adj),
		scorer.WithConcurrency(c.Scoring.Concurrency),
	), nil
}

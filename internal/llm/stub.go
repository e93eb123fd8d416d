package llm

import (
	"context"

	"github.com/sells-group/leadscore/internal/scorer"
)

const stubText = "Intent: Medium\nNo language model is configured; this verdict is a placeholder."

// Stub returns a fixed verdict without calling any API. It lets the service
// run offline.
type Stub struct {
	// Text overrides the canned verdict when set.
	Text string
}

// Generate implements scorer.Generator.
func (s *Stub) Generate(ctx context.Context, _ scorer.GenerateRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Text != "" {
		return s.Text, nil
	}
	return stubText, nil
}

package ai

import (
	"context"

	"github.com/talentgrid/assessment-recommender/internal/engine"
)

// Explainer produces a natural-language explanation of why the recommended
// assessments fit a free-text query. Implementations call an external
// generation service; the engine itself never depends on them.
type Explainer interface {
	Explain(ctx context.Context, query string, recommendations []engine.Ranked) (string, error)
}

package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/talentgrid/assessment-recommender/internal/catalogue"
	"github.com/talentgrid/assessment-recommender/internal/engine"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, message string) (string, error) {
	s.lastSystem = system
	s.lastPrompt = message
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func rankedFixture() []engine.Ranked {
	return []engine.Ranked{
		{
			Assessment: catalogue.Assessment{
				ID:          "verify_numerical",
				Name:        "Verify Numerical Reasoning",
				URL:         "https://example.com/verify-numerical",
				Description: "Numerical reasoning for analyst roles.",
			},
			Similarity: 0.81,
		},
		{
			Assessment: catalogue.Assessment{
				ID:   "opq32",
				Name: "Occupational Personality Questionnaire",
			},
			Similarity: 0.42,
		},
	}
}

func TestExplainerBuildsPromptFromRecommendations(t *testing.T) {
	stub := &stubGenerator{response: "- fits numerical analyst work\n"}
	explainer := NewExplainer(stub, zap.NewNop(), 0)

	explanation, err := explainer.Explain(context.Background(), "hiring a data analyst", rankedFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if explanation != "- fits numerical analyst work" {
		t.Fatalf("unexpected explanation: %q", explanation)
	}

	if stub.lastSystem != systemInstruction {
		t.Fatalf("unexpected system instruction: %q", stub.lastSystem)
	}

	if !strings.Contains(stub.lastPrompt, "hiring a data analyst") {
		t.Fatalf("prompt missing query: %s", stub.lastPrompt)
	}

	if !strings.Contains(stub.lastPrompt, "1. Verify Numerical Reasoning") {
		t.Fatalf("prompt missing first recommendation: %s", stub.lastPrompt)
	}

	if !strings.Contains(stub.lastPrompt, "URL: https://example.com/verify-numerical") {
		t.Fatalf("prompt missing recommendation url: %s", stub.lastPrompt)
	}

	if !strings.Contains(stub.lastPrompt, "2. Occupational Personality Questionnaire") {
		t.Fatalf("prompt missing second recommendation: %s", stub.lastPrompt)
	}

	// The second record has no URL or description, so only its name line
	// should appear.
	if strings.Count(stub.lastPrompt, "URL:") != 1 {
		t.Fatalf("expected exactly one URL line: %s", stub.lastPrompt)
	}
}

func TestExplainerRejectsEmptyQuery(t *testing.T) {
	explainer := NewExplainer(&stubGenerator{}, zap.NewNop(), 0)

	if _, err := explainer.Explain(context.Background(), "   ", rankedFixture()); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestExplainerRejectsEmptyRecommendations(t *testing.T) {
	explainer := NewExplainer(&stubGenerator{}, zap.NewNop(), 0)

	if _, err := explainer.Explain(context.Background(), "query", nil); err == nil {
		t.Fatal("expected error for empty recommendations")
	}
}

func TestExplainerPropagatesGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded")}
	explainer := NewExplainer(stub, zap.NewNop(), 0)

	if _, err := explainer.Explain(context.Background(), "query", rankedFixture()); err == nil {
		t.Fatal("expected generator error to surface")
	}
}

package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/talentgrid/assessment-recommender/internal/engine"
	"github.com/talentgrid/assessment-recommender/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const systemInstruction = "You are an assistant that explains assessment recommendations."

const defaultMaxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

// Explainer turns a query plus its ranked recommendations into a short
// explanation of why they fit, via a Gemini prompt.
type Explainer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewExplainer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Explainer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Explainer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Explain builds the explanation prompt and sends it to the generator.
func (e *Explainer) Explain(ctx context.Context, query string, recommendations []engine.Ranked) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("query must not be empty")
	}
	if len(recommendations) == 0 {
		return "", errors.New("at least one recommendation is required")
	}

	prompt := buildPrompt(query, recommendations)

	e.logger.Debug("gemini explanation request",
		zap.Int("recommendations", len(recommendations)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return "", err
	}

	e.logger.Debug("gemini explanation response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	return strings.TrimSpace(raw), nil
}

func buildPrompt(query string, recommendations []engine.Ranked) string {
	var list strings.Builder
	for i, rec := range recommendations {
		fmt.Fprintf(&list, "%d. %s\n", i+1, rec.Name)
		if rec.URL != "" {
			fmt.Fprintf(&list, "   URL: %s\n", rec.URL)
		}
		if rec.Description != "" {
			fmt.Fprintf(&list, "   Description: %s\n", rec.Description)
		}
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{QUERY}}", query)
	prompt = strings.ReplaceAll(prompt, "{{RECOMMENDATIONS}}", strings.TrimRight(list.String(), "\n"))
	return prompt
}

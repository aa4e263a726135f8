// Package evaluate measures text recommendation quality against a labeled
// query set using Mean Recall at K.
package evaluate

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/talentgrid/assessment-recommender/internal/engine"
)

const (
	DefaultQueryColumn    = "query"
	DefaultRelevantColumn = "relevant_ids"
	DefaultIDSeparator    = "|"
	DefaultK              = 10
)

// LabeledQuery pairs free query text with the catalogue IDs a grader marked
// as relevant for it.
type LabeledQuery struct {
	Query    string
	Relevant map[string]struct{}
}

// LoadOptions adjust parsing of the labeled CSV file. Zero values fall back
// to the defaults above.
type LoadOptions struct {
	QueryColumn    string
	RelevantColumn string
	IDSeparator    string
}

// LoadLabeledQueries reads a labeled CSV file with a header row. Rows with
// an empty query or no relevant IDs are skipped.
func LoadLabeledQueries(path string, opts LoadOptions) ([]LabeledQuery, error) {
	if opts.QueryColumn == "" {
		opts.QueryColumn = DefaultQueryColumn
	}
	if opts.RelevantColumn == "" {
		opts.RelevantColumn = DefaultRelevantColumn
	}
	if opts.IDSeparator == "" {
		opts.IDSeparator = DefaultIDSeparator
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening labels file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing labels file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("labels file %s is empty", path)
	}

	queryIdx, relevantIdx := -1, -1
	for i, name := range records[0] {
		switch strings.TrimSpace(name) {
		case opts.QueryColumn:
			queryIdx = i
		case opts.RelevantColumn:
			relevantIdx = i
		}
	}
	if queryIdx < 0 || relevantIdx < 0 {
		return nil, fmt.Errorf("labels file %s is missing column %q or %q",
			path, opts.QueryColumn, opts.RelevantColumn)
	}

	var queries []LabeledQuery
	for _, row := range records[1:] {
		if queryIdx >= len(row) || relevantIdx >= len(row) {
			continue
		}

		query := strings.TrimSpace(row[queryIdx])
		relevant := make(map[string]struct{})
		for _, id := range strings.Split(row[relevantIdx], opts.IDSeparator) {
			if id = strings.TrimSpace(id); id != "" {
				relevant[id] = struct{}{}
			}
		}

		if query == "" || len(relevant) == 0 {
			continue
		}
		queries = append(queries, LabeledQuery{Query: query, Relevant: relevant})
	}
	return queries, nil
}

// RecallAtK is the share of a query's relevant IDs found in the first k
// predictions.
func RecallAtK(predicted []string, relevant map[string]struct{}, k int) float64 {
	if len(relevant) == 0 {
		return 0.0
	}
	if k > len(predicted) {
		k = len(predicted)
	}

	hits := 0
	for _, id := range predicted[:k] {
		if _, ok := relevant[id]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(relevant))
}

// Result carries the aggregate metric plus the per-query breakdown in input
// order.
type Result struct {
	MeanRecall float64
	PerQuery   []float64
}

// MeanRecallAtK runs every labeled query through the text recommender and
// averages Recall at K over them.
func MeanRecallAtK(eng *engine.Engine, queries []LabeledQuery, k int, logger *zap.Logger) Result {
	if len(queries) == 0 {
		return Result{}
	}

	result := Result{PerQuery: make([]float64, 0, len(queries))}
	var total float64
	for i, lq := range queries {
		ranked := eng.RecommendFromText(lq.Query, k)

		predicted := make([]string, 0, len(ranked))
		for _, rec := range ranked {
			predicted = append(predicted, rec.ID)
		}

		recall := RecallAtK(predicted, lq.Relevant, k)
		result.PerQuery = append(result.PerQuery, recall)
		total += recall

		if logger != nil {
			logger.Info("query evaluated",
				zap.Int("query", i+1),
				zap.Int("k", k),
				zap.Float64("recall", recall),
			)
		}
	}

	result.MeanRecall = total / float64(len(queries))
	return result
}

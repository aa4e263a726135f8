// Package engine is the recommendation core: a weighted multi-criteria
// scorer and a text-similarity ranker over one shared catalogue snapshot.
// An Engine is read-only after construction, so a single instance can serve
// concurrent callers without locking; refreshing the catalogue means
// constructing a new Engine and swapping it in atomically.
package engine

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/talentgrid/assessment-recommender/internal/catalogue"
	"github.com/talentgrid/assessment-recommender/internal/textindex"
)

// textWindowMin and textWindowMax bound the result count of text queries.
// Text callers always get between 5 and 10 results when enough candidates
// exist, whatever top-n they ask for.
const (
	textWindowMin = 5
	textWindowMax = 10
)

// Scored carries an assessment plus its computed match score. It is a new
// composite value; the stored record is never touched.
type Scored struct {
	catalogue.Assessment
	MatchScore float64 `json:"match_score"`
}

// Ranked carries an assessment plus its text-query cosine similarity.
type Ranked struct {
	catalogue.Assessment
	Similarity float64 `json:"similarity"`
}

// Engine is the only entry point adapters use. It owns no state beyond
// what the store and the index hold.
type Engine struct {
	store  *catalogue.Store
	index  *textindex.Index
	logger *zap.Logger
}

// New loads the catalogue from path and fits the text index over it. The
// index is rebuilt from scratch on every load; it is derived state and is
// never persisted independently of the catalogue it came from.
func New(path string, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := catalogue.Load(path)
	if err != nil {
		return nil, err
	}

	docs := make([]string, 0, store.Len())
	for _, a := range store.GetAll() {
		docs = append(docs, a.Document())
	}

	logger.Info("catalogue loaded",
		zap.String("path", store.Path()),
		zap.Int("assessments", store.Len()),
	)

	return &Engine{
		store:  store,
		index:  textindex.Build(docs, logger),
		logger: logger,
	}, nil
}

// Recommend scores every non-excluded assessment against the criteria and
// returns the top n, sorted by score descending. Ties keep catalogue order.
// n may exceed the candidate count; n below zero returns nothing.
func (e *Engine) Recommend(c *Criteria, topN int) []Scored {
	excluded := make(map[string]struct{}, len(c.ExcludeIDs))
	for _, id := range c.ExcludeIDs {
		excluded[id] = struct{}{}
	}

	scored := make([]Scored, 0, e.store.Len())
	for _, a := range e.store.GetAll() {
		if _, skip := excluded[a.ID]; skip {
			continue
		}
		scored = append(scored, Scored{
			Assessment: a,
			MatchScore: round2(matchScore(&a, c)),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})

	if topN < 0 {
		topN = 0
	}
	if topN > len(scored) {
		topN = len(scored)
	}

	e.logger.Debug("structured recommendation",
		zap.Int("candidates", len(scored)),
		zap.Int("returned", topN),
	)

	return scored[:topN]
}

// RecommendFromText ranks the catalogue against arbitrary query text by
// vector similarity. Empty or whitespace text, an empty catalogue, or an
// unbuilt index all soft-fail to an empty result. The returned count is
// clamped to the [5, 10] window (capped by the candidate count); the
// caller's top-n is advisory only.
func (e *Engine) RecommendFromText(text string, topN int) []Ranked {
	ranked := make([]Ranked, 0)

	if strings.TrimSpace(text) == "" || e.index == nil {
		return ranked
	}

	sims := e.index.Similarities(text)
	for i, a := range e.store.GetAll() {
		ranked = append(ranked, Ranked{Assessment: a, Similarity: sims[i]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})

	limit := topN
	if limit < textWindowMin {
		limit = textWindowMin
	}
	if limit > textWindowMax {
		limit = textWindowMax
	}
	if limit > len(ranked) {
		limit = len(ranked)
	}

	e.logger.Debug("text recommendation",
		zap.Int("candidates", len(ranked)),
		zap.Int("returned", limit),
	)

	return ranked[:limit]
}

// GetAll returns the full catalogue snapshot.
func (e *Engine) GetAll() []catalogue.Assessment {
	return e.store.GetAll()
}

// GetByID returns the record with the given id, or nil.
func (e *Engine) GetByID(id string) *catalogue.Assessment {
	return e.store.GetByID(id)
}

// SearchByName returns records matching the term in name or description.
func (e *Engine) SearchByName(term string) []catalogue.Assessment {
	return e.store.SearchByName(term)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

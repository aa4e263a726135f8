// Package textindex builds a sparse term-weighted vector space over the
// catalogue documents and ranks them against free-text queries by cosine
// similarity. The index is fit once at engine construction and is read-only
// afterwards, so concurrent queries need no locking.
package textindex

import (
	"math"

	"go.uber.org/zap"
)

// maxDocFreq drops terms present in more than this share of documents.
const maxDocFreq = 0.9

// Index holds the fitted term weights plus one normalized vector per
// catalogue document, in catalogue order.
type Index struct {
	idf  map[string]float64
	docs []map[string]float64
}

// Build fits the index over the document corpus. Term weights are smoothed
// inverse-document-frequency weighted term frequencies over unigrams and
// adjacent word pairs, with stop words removed and overly common terms
// pruned. Returns nil for an empty corpus; callers degrade to empty query
// results in that case.
func Build(docs []string, logger *zap.Logger) *Index {
	n := len(docs)
	if n == 0 {
		return nil
	}

	tokenized := make([][]string, n)
	df := make(map[string]int)
	for i, doc := range docs {
		terms := Terms(doc)
		tokenized[i] = terms

		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	idf := make(map[string]float64, len(df))
	for term, count := range df {
		if float64(count) > maxDocFreq*float64(n) {
			continue
		}
		idf[term] = math.Log(float64(1+n)/float64(1+count)) + 1
	}

	ix := &Index{idf: idf, docs: make([]map[string]float64, n)}
	for i, terms := range tokenized {
		ix.docs[i] = ix.vectorize(terms)
	}

	if logger != nil {
		logger.Debug("text index built",
			zap.Int("documents", n),
			zap.Int("terms", len(idf)),
			zap.Int("pruned_terms", len(df)-len(idf)),
		)
	}

	return ix
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	return len(ix.docs)
}

// Similarities projects the query into the fitted vector space and returns
// the cosine similarity against every document, in catalogue order.
// Out-of-vocabulary query terms are dropped; a query with no known terms
// yields all-zero similarities.
func (ix *Index) Similarities(query string) []float64 {
	sims := make([]float64, len(ix.docs))

	qv := ix.vectorize(Terms(query))
	if len(qv) == 0 {
		return sims
	}

	for i, dv := range ix.docs {
		sims[i] = dot(qv, dv)
	}
	return sims
}

// vectorize turns a term sequence into an L2-normalized tf-idf vector,
// keeping only terms in the fitted vocabulary.
func (ix *Index) vectorize(terms []string) map[string]float64 {
	counts := make(map[string]int)
	for _, t := range terms {
		if _, ok := ix.idf[t]; ok {
			counts[t]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	vec := make(map[string]float64, len(counts))
	var norm float64
	for t, c := range counts {
		w := float64(c) * ix.idf[t]
		vec[t] = w
		norm += w * w
	}

	norm = math.Sqrt(norm)
	for t := range vec {
		vec[t] /= norm
	}
	return vec
}

// dot multiplies two normalized sparse vectors. Both vectors are unit
// length, so the product is the cosine similarity.
func dot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for t, w := range a {
		if bw, ok := b[t]; ok {
			sum += w * bw
		}
	}
	return sum
}

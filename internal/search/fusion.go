package search

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Fuser merges the lexical and vector legs into one ranking. Passages are
// identified by a hash of their normalized content, so the same text
// reached through both legs counts once, with both signals combined.
type Fuser struct {
	weights FusionWeights
}

// NewFuser validates the weights and returns a fuser.
func NewFuser(w FusionWeights) (*Fuser, error) {
	if w.Vector < 0 || w.Keyword < 0 {
		return nil, fmt.Errorf("fusion weights must be non-negative: vector=%f keyword=%f", w.Vector, w.Keyword)
	}
	if w.Vector+w.Keyword == 0 {
		return nil, fmt.Errorf("fusion weights must not both be zero")
	}
	if w.KeywordNorm <= 0 {
		return nil, fmt.Errorf("keyword norm must be positive: %f", w.KeywordNorm)
	}
	if w.ConfidenceBoost < 1 {
		return nil, fmt.Errorf("confidence boost must be at least 1: %f", w.ConfidenceBoost)
	}
	return &Fuser{weights: w}, nil
}

// fusedEntry accumulates signals for one distinct passage.
type fusedEntry struct {
	result     Result
	order      int
	vectorSim  float64
	rawKeyword float64
	hasVector  bool
	hasKeyword bool
}

// Fuse combines the two result legs. Either leg may be empty: fusing a
// single leg reproduces that leg's ranking with weighted scores. Ties keep
// arrival order, vector hits before keyword hits.
func (f *Fuser) Fuse(vectorHits, keywordHits []Result, limit int) []Result {
	entries := make(map[string]*fusedEntry, len(vectorHits)+len(keywordHits))
	order := 0

	getOrCreate := func(r Result) *fusedEntry {
		key := contentKey(r.Content)
		if e, ok := entries[key]; ok {
			return e
		}
		e := &fusedEntry{result: r, order: order}
		order++
		entries[key] = e
		return e
	}

	for _, hit := range vectorHits {
		e := getOrCreate(hit)
		e.hasVector = true
		// Duplicate content can arrive with different similarities; the
		// strongest one stands for the passage.
		if hit.VectorSimilarity > e.vectorSim {
			e.vectorSim = hit.VectorSimilarity
		}
	}

	for _, hit := range keywordHits {
		e := getOrCreate(hit)
		e.hasKeyword = true
		if hit.KeywordScore > e.rawKeyword {
			e.rawKeyword = hit.KeywordScore
		}
	}

	fused := make([]*fusedEntry, 0, len(entries))
	for _, e := range entries {
		fused = append(fused, e)
	}
	sort.SliceStable(fused, func(a, b int) bool {
		return fused[a].order < fused[b].order
	})

	results := make([]Result, 0, len(fused))
	for _, e := range fused {
		r := e.result
		r.VectorSimilarity = e.vectorSim
		r.KeywordScore = e.rawKeyword
		r.Score = f.score(e)
		results = append(results, r)
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// score computes the fused score: weighted vector similarity plus
// normalized, weighted lexical score, boosted when both legs found the
// passage. The boost must stay visible even when both components
// saturate, so the score is not clamped.
func (f *Fuser) score(e *fusedEntry) float64 {
	vectorComponent := e.vectorSim * f.weights.Vector

	normalized := e.rawKeyword / f.weights.KeywordNorm
	if normalized > 1 {
		normalized = 1
	}
	keywordComponent := normalized * f.weights.Keyword

	score := vectorComponent + keywordComponent
	if e.hasVector && e.hasKeyword {
		score *= f.weights.ConfidenceBoost
	}
	return score
}

// contentKey identifies a passage by its text rather than its storage ID,
// so duplicated content across sources fuses into one result. Whitespace
// and case differences do not split identity.
func contentKey(content string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(content), " "))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

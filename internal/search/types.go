// Package search is the engine facade: it owns ingestion, the parallel
// lexical and vector search legs, and the fusion of their results into a
// single ranking.
package search

import (
	"time"
)

// Mode selects which retrieval legs run.
type Mode string

const (
	// ModeHybrid runs lexical and vector legs and fuses them.
	ModeHybrid Mode = "hybrid"

	// ModeKeyword runs the lexical leg only.
	ModeKeyword Mode = "keyword"
)

// Options control one search call.
type Options struct {
	// Limit is the maximum number of results. Zero means the default.
	Limit int

	// Mode selects hybrid or keyword-only retrieval. Empty means hybrid
	// when a vector backend is attached, keyword-only otherwise.
	Mode Mode

	// VectorTimeout bounds the vector leg. On expiry the engine degrades
	// to the lexical results instead of failing. Zero means the default.
	VectorTimeout time.Duration
}

// Result is one ranked passage.
type Result struct {
	ID      string
	Content string
	Source  string

	// Score is the fused relevance. Components stay within [0, 1] but
	// the cross-signal boost can push the sum slightly above 1.
	Score float64

	// VectorSimilarity and KeywordScore are the raw leg signals, zero
	// when a leg did not see this passage.
	VectorSimilarity float64
	KeywordScore     float64

	Metadata map[string]string
}

// IngestReport summarizes one ingestion call. Failed chunks do not abort
// the whole ingest; they are counted and the first error is kept.
type IngestReport struct {
	Source         string
	ChunksTotal    int
	ChunksIndexed  int
	ChunksFailed   int
	VectorsSkipped bool
	Duration       time.Duration
}

// Stats describes the engine's current corpus.
type Stats struct {
	Chunks         int
	Vectors        int
	Sources        []string
	VectorBackend  bool
	EmbeddingModel string
}

// FusionWeights are the fusion parameters. The zero value is unusable;
// call DefaultFusionWeights.
type FusionWeights struct {
	// Vector and Keyword weight the two signal components and should sum
	// to 1.
	Vector  float64
	Keyword float64

	// KeywordNorm is the raw lexical score treated as full strength.
	KeywordNorm float64

	// ConfidenceBoost multiplies the fused score when both legs agree on
	// a passage.
	ConfidenceBoost float64
}

// DefaultFusionWeights returns the standard 70/30 split with a 1.2 boost
// for passages both legs found.
func DefaultFusionWeights() FusionWeights {
	return FusionWeights{
		Vector:          0.7,
		Keyword:         0.3,
		KeywordNorm:     100,
		ConfidenceBoost: 1.2,
	}
}

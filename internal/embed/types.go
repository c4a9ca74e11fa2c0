// Package embed generates vector embeddings for text via a local Ollama
// server. Embeddings are unit-normalized float32 vectors; the engine treats
// the embedder as optional and falls back to lexical-only search when it is
// unavailable.
package embed

import (
	"context"
	"math"
	"time"
)

const (
	// DefaultBatchSize is the default batch size for embedding requests.
	DefaultBatchSize = 32

	// MaxBatchSize caps batch size to prevent memory exhaustion.
	MaxBatchSize = 256

	// DefaultWarmTimeout is the per-request timeout when the model is
	// already loaded.
	DefaultWarmTimeout = 30 * time.Second

	// DefaultColdTimeout covers the first request when Ollama may still
	// need to load the model from disk.
	DefaultColdTimeout = 120 * time.Second

	// ModelUnloadThreshold is how long Ollama keeps an idle model loaded.
	ModelUnloadThreshold = 5 * time.Minute

	// DefaultMaxRetries is the number of attempts per embedding request.
	DefaultMaxRetries = 3

	// DefaultDimensions is used when auto-detection is skipped (bge-m3).
	DefaultDimensions = 1024
)

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates the embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding dimension.
	Dimensions() int

	// ModelName returns the model identifier.
	ModelName() string

	// Available reports whether the embedder is ready to serve requests.
	Available(ctx context.Context) bool

	// Close releases resources.
	Close() error
}

// normalizeVector normalizes a vector to unit length. Zero vectors are
// returned unchanged.
func normalizeVector(v []float32) []float32 {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}

	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		return v
	}

	normalized := make([]float32, len(v))
	for i, val := range v {
		normalized[i] = float32(float64(val) / magnitude)
	}
	return normalized
}

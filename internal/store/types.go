// Package store holds the persistent side of the engine: an HNSW vector
// index for approximate nearest-neighbor search and a SQLite document store
// for chunk content and metadata. Both share string chunk IDs.
package store

import (
	"context"
	"fmt"
)

// Chunk is a stored passage with its provenance.
type Chunk struct {
	ID         string
	Content    string
	Source     string
	ChunkIndex int
	Metadata   map[string]string
}

// VectorResult is one nearest-neighbor hit. Similarity follows the single
// convention used throughout the engine: similarity = 1 / (1 + distance),
// so it lies in (0, 1] and 1 means an exact match.
type VectorResult struct {
	ID         string
	Distance   float32
	Similarity float32
}

// VectorIndex is the approximate nearest-neighbor index.
type VectorIndex interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error)
	Delete(ctx context.Context, ids []string) error
	Count() int
	Save(path string) error
	Load(path string) error
	Close() error
}

// DocumentStore persists chunk content and metadata.
type DocumentStore interface {
	PutChunks(ctx context.Context, chunks []Chunk) error
	GetChunk(ctx context.Context, id string) (*Chunk, error)
	GetChunks(ctx context.Context, ids []string) ([]Chunk, error)
	DeleteBySource(ctx context.Context, source string) ([]string, error)
	Sources(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// ErrDimensionMismatch is returned when a vector's length does not match
// the index dimension.
type ErrDimensionMismatch struct {
	Expected int
	Got      int
}

func (e ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("vector dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}

// ErrChunkNotFound is returned by GetChunk for an unknown ID.
type ErrChunkNotFound struct {
	ID string
}

func (e ErrChunkNotFound) Error() string {
	return fmt.Sprintf("chunk not found: %s", e.ID)
}

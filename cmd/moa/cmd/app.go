package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/moasearch/moa/internal/chunk"
	"github.com/moasearch/moa/internal/config"
	"github.com/moasearch/moa/internal/embed"
	"github.com/moasearch/moa/internal/search"
	"github.com/moasearch/moa/internal/spacing"
	"github.com/moasearch/moa/internal/store"
)

// buildEngine wires the retrieval engine from configuration. A missing or
// unreachable Ollama server degrades to keyword-only mode instead of
// failing; the engine logs the degradation.
func buildEngine(ctx context.Context, cfg *config.Config) (*search.Engine, error) {
	logger := slog.Default()

	docs, err := store.NewSQLiteDocStore(filepath.Join(cfg.DataDir, "chunks.db"))
	if err != nil {
		return nil, err
	}

	opts := []search.EngineOption{
		search.WithLogger(logger),
		search.WithChunker(chunk.NewSplitter(nil, cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap)),
	}

	if cfg.Spacing.Enabled {
		restorer := spacing.NewDefaultRestorer(logger, cfg.Spacing.SegmenterURL, nil)
		opts = append(opts, search.WithRestorer(restorer))
	}

	if embedder, vectors, ok := buildVectorSide(ctx, cfg, logger); ok {
		opts = append(opts, search.WithEmbedder(embedder), search.WithVectorIndex(vectors))
	}

	engCfg := search.EngineConfig{
		DataDir: cfg.DataDir,
		Weights: search.FusionWeights{
			Vector:          cfg.Search.VectorWeight,
			Keyword:         cfg.Search.KeywordWeight,
			KeywordNorm:     cfg.Search.KeywordNorm,
			ConfidenceBoost: cfg.Search.ConfidenceBoost,
		},
		DefaultLimit:  cfg.Search.DefaultLimit,
		VectorTimeout: cfg.Search.VectorTimeout,
	}

	eng, err := search.NewEngine(engCfg, docs, opts...)
	if err != nil {
		_ = docs.Close()
		return nil, err
	}
	return eng, nil
}

// buildVectorSide connects the embedder and the vector index. Returns
// ok=false when the vector backend is unavailable.
func buildVectorSide(ctx context.Context, cfg *config.Config, logger *slog.Logger) (embed.Embedder, store.VectorIndex, bool) {
	ollama, err := embed.NewOllamaEmbedder(ctx, embed.OllamaConfig{
		Host:       cfg.Embeddings.OllamaHost,
		Model:      cfg.Embeddings.Model,
		Dimensions: cfg.Embeddings.Dimensions,
		BatchSize:  cfg.Embeddings.BatchSize,
	})
	if err != nil {
		logger.Warn("embedder_unavailable",
			slog.String("host", cfg.Embeddings.OllamaHost),
			slog.String("error", err.Error()))
		return nil, nil, false
	}
	embedder := embed.NewCachedEmbedder(ollama, cfg.Embeddings.CacheSize)

	indexPath := filepath.Join(cfg.DataDir, "vectors.hnsw")

	// An index built with a different model dimension cannot be reused.
	if saved, err := store.ReadHNSWIndexDimensions(indexPath); err == nil && saved != 0 && saved != embedder.Dimensions() {
		logger.Warn("vector_index_dimension_changed",
			slog.Int("saved", saved),
			slog.Int("current", embedder.Dimensions()))
		_ = os.Remove(indexPath)
		_ = os.Remove(indexPath + ".meta")
	}

	vectors, err := store.NewHNSWIndex(store.HNSWConfig{Dimensions: embedder.Dimensions()})
	if err != nil {
		logger.Warn("vector_index_unavailable", slog.String("error", err.Error()))
		_ = embedder.Close()
		return nil, nil, false
	}

	if _, err := os.Stat(indexPath); err == nil {
		if err := vectors.Load(indexPath); err != nil {
			logger.Warn("vector_index_load_failed",
				slog.String("path", indexPath),
				slog.String("error", err.Error()))
			_ = os.Remove(indexPath)
			_ = os.Remove(indexPath + ".meta")
		}
	}

	return embedder, vectors, true
}

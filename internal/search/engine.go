package search

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/moasearch/moa/internal/chunk"
	"github.com/moasearch/moa/internal/embed"
	moaerrors "github.com/moasearch/moa/internal/errors"
	"github.com/moasearch/moa/internal/keyword"
	"github.com/moasearch/moa/internal/spacing"
	"github.com/moasearch/moa/internal/store"
)

// Engine defaults.
const (
	DefaultLimit         = 5
	MaxResults           = 100
	DefaultVectorTimeout = 5 * time.Second

	// vectorOverfetch widens the vector leg so fusion has candidates
	// beyond the final limit.
	vectorOverfetch = 4
)

// EngineConfig carries the engine's tunables.
type EngineConfig struct {
	DataDir       string
	Weights       FusionWeights
	DefaultLimit  int
	VectorTimeout time.Duration
}

// DefaultEngineConfig returns the standard configuration rooted at dataDir.
func DefaultEngineConfig(dataDir string) EngineConfig {
	return EngineConfig{
		DataDir:       dataDir,
		Weights:       DefaultFusionWeights(),
		DefaultLimit:  DefaultLimit,
		VectorTimeout: DefaultVectorTimeout,
	}
}

// Engine is the retrieval facade. It owns chunking, spacing restoration,
// both index legs and fusion. The vector side (embedder plus index) is
// optional: without it the engine serves keyword-only search.
type Engine struct {
	config EngineConfig

	chunker      *chunk.Splitter
	keywordIndex *keyword.Index
	docs         store.DocumentStore
	embedder     embed.Embedder
	vectors      store.VectorIndex
	restorer     *spacing.Restorer
	fuser        *Fuser
	lock         *store.DataLock
	logger       *slog.Logger
}

// EngineOption customizes engine construction.
type EngineOption func(*Engine)

// WithEmbedder attaches the embedding backend.
func WithEmbedder(e embed.Embedder) EngineOption {
	return func(eng *Engine) { eng.embedder = e }
}

// WithVectorIndex attaches the vector index.
func WithVectorIndex(v store.VectorIndex) EngineOption {
	return func(eng *Engine) { eng.vectors = v }
}

// WithRestorer attaches a spacing restorer applied to chunk content at
// ingest time.
func WithRestorer(r *spacing.Restorer) EngineOption {
	return func(eng *Engine) { eng.restorer = r }
}

// WithChunker replaces the default splitter.
func WithChunker(c *chunk.Splitter) EngineOption {
	return func(eng *Engine) { eng.chunker = c }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(eng *Engine) { eng.logger = l }
}

// NewEngine builds the facade around a document store. A nil docs is a
// programming error and rejected. When no embedder or vector index is
// attached the engine degrades to keyword-only mode with a warning rather
// than failing.
func NewEngine(cfg EngineConfig, docs store.DocumentStore, opts ...EngineOption) (*Engine, error) {
	if docs == nil {
		return nil, fmt.Errorf("document store is required")
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultLimit
	}
	if cfg.VectorTimeout <= 0 {
		cfg.VectorTimeout = DefaultVectorTimeout
	}
	if cfg.Weights == (FusionWeights{}) {
		cfg.Weights = DefaultFusionWeights()
	}

	fuser, err := NewFuser(cfg.Weights)
	if err != nil {
		return nil, fmt.Errorf("invalid fusion weights: %w", err)
	}

	eng := &Engine{
		config:       cfg,
		chunker:      chunk.NewSplitter(nil, chunk.DefaultChunkSize, chunk.DefaultOverlap),
		keywordIndex: keyword.NewIndex(),
		docs:         docs,
		fuser:        fuser,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.vectors == nil || eng.embedder == nil {
		degraded := moaerrors.ConfigurationError("vector backend unavailable, serving keyword-only search", nil)
		eng.logger.Warn("engine_degraded",
			slog.String("code", degraded.Code),
			slog.String("reason", degraded.Message))
	}

	if cfg.DataDir != "" {
		eng.lock = store.NewDataLock(cfg.DataDir)
	}

	if err := eng.loadExisting(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to load existing corpus: %w", err)
	}

	return eng, nil
}

// loadExisting rebuilds the in-memory lexical index from the document
// store.
func (e *Engine) loadExisting(ctx context.Context) error {
	all, ok := e.docs.(interface {
		AllChunks(ctx context.Context) ([]store.Chunk, error)
	})
	if !ok {
		return nil
	}
	chunks, err := all.AllChunks(ctx)
	if err != nil {
		return err
	}
	for _, c := range chunks {
		e.keywordIndex.Add(keyword.Entry{
			ID:       c.ID,
			Content:  c.Content,
			Source:   c.Source,
			Metadata: c.Metadata,
		})
	}
	if len(chunks) > 0 {
		e.logger.Debug("lexical_index_loaded", slog.Int("chunks", len(chunks)))
	}
	return nil
}

// IngestText chunks, restores spacing, and indexes text under source.
// Embedding failures degrade the ingest to lexical-only instead of
// aborting it; the report says what happened.
func (e *Engine) IngestText(ctx context.Context, source, text string) (*IngestReport, error) {
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		return nil, moaerrors.ValidationError("cannot ingest empty text", nil)
	}
	if source == "" {
		return nil, moaerrors.ValidationError("source name is required", nil)
	}

	if e.lock != nil {
		if err := e.lock.Lock(); err != nil {
			return nil, moaerrors.New(moaerrors.ErrCodeIngestFailed, "failed to lock data directory", err)
		}
		defer func() { _ = e.lock.Unlock() }()
	}

	chunks := e.chunker.Split(text, source)
	if len(chunks) == 0 {
		return nil, moaerrors.ValidationError("text produced no chunks", nil)
	}

	stored := make([]store.Chunk, len(chunks))
	for i, c := range chunks {
		content := c.Content
		if e.restorer != nil {
			content = e.restorer.Restore(ctx, content)
		}
		stored[i] = store.Chunk{
			ID:         fmt.Sprintf("%s#%d", source, c.Metadata.ChunkIndex),
			Content:    content,
			Source:     source,
			ChunkIndex: c.Metadata.ChunkIndex,
		}
	}

	// Re-ingesting a source replaces its chunks everywhere.
	if err := e.removeSource(ctx, source); err != nil {
		return nil, err
	}

	if err := e.docs.PutChunks(ctx, stored); err != nil {
		return nil, moaerrors.New(moaerrors.ErrCodeIngestFailed, "failed to store chunks", err)
	}

	entries := make([]keyword.Entry, len(stored))
	for i, c := range stored {
		entries[i] = keyword.Entry{ID: c.ID, Content: c.Content, Source: c.Source, Metadata: c.Metadata}
	}
	e.keywordIndex.Add(entries...)

	report := &IngestReport{
		Source:        source,
		ChunksTotal:   len(stored),
		ChunksIndexed: len(stored),
	}

	if e.embedder != nil && e.vectors != nil {
		if err := e.indexVectors(ctx, stored); err != nil {
			partial := moaerrors.PartialIngestError("vector indexing failed for "+source, err)
			e.logger.Warn("ingest_vectors_skipped",
				slog.String("code", partial.Code),
				slog.String("source", source),
				slog.String("error", err.Error()))
			report.VectorsSkipped = true
		}
	} else {
		report.VectorsSkipped = true
	}

	report.Duration = time.Since(start)
	e.logger.Info("ingest_complete",
		slog.String("source", source),
		slog.Int("chunks", report.ChunksIndexed),
		slog.Bool("vectors_skipped", report.VectorsSkipped),
		slog.Duration("duration", report.Duration))
	return report, nil
}

func (e *Engine) indexVectors(ctx context.Context, chunks []store.Chunk) error {
	texts := make([]string, len(chunks))
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
		ids[i] = c.ID
	}

	vectors, err := e.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}
	if err := e.vectors.Add(ctx, ids, vectors); err != nil {
		return fmt.Errorf("vector index add failed: %w", err)
	}
	return nil
}

// removeSource drops a source's chunks from every index.
func (e *Engine) removeSource(ctx context.Context, source string) error {
	ids, err := e.docs.DeleteBySource(ctx, source)
	if err != nil {
		return moaerrors.New(moaerrors.ErrCodeIngestFailed, "failed to delete existing chunks", err)
	}
	if len(ids) == 0 {
		return nil
	}
	if e.vectors != nil {
		if err := e.vectors.Delete(ctx, ids); err != nil {
			return moaerrors.New(moaerrors.ErrCodeIngestFailed, "failed to delete existing vectors", err)
		}
	}
	// The lexical index has no per-entry delete; rebuild it.
	e.keywordIndex.Reset()
	if err := e.loadExisting(ctx); err != nil {
		return moaerrors.New(moaerrors.ErrCodeIngestFailed, "failed to rebuild lexical index", err)
	}
	return nil
}

// DeleteSource removes everything ingested under source.
func (e *Engine) DeleteSource(ctx context.Context, source string) error {
	if source == "" {
		return moaerrors.ValidationError("source name is required", nil)
	}
	if e.lock != nil {
		if err := e.lock.Lock(); err != nil {
			return moaerrors.New(moaerrors.ErrCodeIngestFailed, "failed to lock data directory", err)
		}
		defer func() { _ = e.lock.Unlock() }()
	}
	return e.removeSource(ctx, source)
}

// Search runs the retrieval legs and fuses them. An empty corpus or a
// query nothing matches yields an empty slice, not an error. A vector leg
// failure or timeout degrades to the lexical results with a warning.
func (e *Engine) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, moaerrors.New(moaerrors.ErrCodeQueryEmpty, "query must not be empty", nil)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = e.config.DefaultLimit
	}
	if limit > MaxResults {
		limit = MaxResults
	}

	mode := opts.Mode
	if mode == "" {
		if e.vectors != nil && e.embedder != nil {
			mode = ModeHybrid
		} else {
			mode = ModeKeyword
		}
	}
	if mode == ModeHybrid && (e.vectors == nil || e.embedder == nil) {
		mode = ModeKeyword
	}

	vectorTimeout := opts.VectorTimeout
	if vectorTimeout <= 0 {
		vectorTimeout = e.config.VectorTimeout
	}

	candidates := limit * vectorOverfetch
	if candidates > MaxResults {
		candidates = MaxResults
	}

	var keywordHits, vectorHits []Result
	var vecErr error

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		keywordHits = e.searchKeyword(query, candidates)
		return nil
	})

	if mode == ModeHybrid {
		g.Go(func() error {
			vctx, cancel := context.WithTimeout(gctx, vectorTimeout)
			defer cancel()
			hits, err := e.searchVector(vctx, query, candidates)
			if err != nil {
				// Degradation, not failure. Keep the error for logging.
				vecErr = err
				return nil
			}
			vectorHits = hits
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, moaerrors.New(moaerrors.ErrCodeSearchFailed, "search failed", err)
	}

	if vecErr != nil {
		timeout := moaerrors.QueryTimeoutError(fmt.Sprintf("vector leg degraded after %s", vectorTimeout), vecErr)
		e.logger.Warn("vector_leg_degraded",
			slog.String("code", timeout.Code),
			slog.String("query", query),
			slog.String("error", vecErr.Error()))
	}

	results := e.fuser.Fuse(vectorHits, keywordHits, limit)

	e.logger.Debug("search_complete",
		slog.String("query", query),
		slog.String("mode", string(mode)),
		slog.Int("keyword_hits", len(keywordHits)),
		slog.Int("vector_hits", len(vectorHits)),
		slog.Int("results", len(results)))

	return results, nil
}

func (e *Engine) searchKeyword(query string, limit int) []Result {
	hits := e.keywordIndex.Search(query, limit)
	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{
			ID:           h.Entry.ID,
			Content:      h.Entry.Content,
			Source:       h.Entry.Source,
			KeywordScore: h.Score,
			Metadata:     h.Entry.Metadata,
		}
	}
	return results
}

func (e *Engine) searchVector(ctx context.Context, query string, k int) ([]Result, error) {
	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	hits, err := e.vectors.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]string, len(hits))
	simByID := make(map[string]float64, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
		simByID[h.ID] = float64(h.Similarity)
	}

	chunks, err := e.docs.GetChunks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch chunk content: %w", err)
	}

	results := make([]Result, 0, len(chunks))
	for _, c := range chunks {
		results = append(results, Result{
			ID:               c.ID,
			Content:          c.Content,
			Source:           c.Source,
			VectorSimilarity: simByID[c.ID],
			Metadata:         c.Metadata,
		})
	}
	return results, nil
}

// Stats reports corpus shape.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	chunks, err := e.docs.Count(ctx)
	if err != nil {
		return nil, moaerrors.New(moaerrors.ErrCodeInternal, "failed to count chunks", err)
	}
	sources, err := e.docs.Sources(ctx)
	if err != nil {
		return nil, moaerrors.New(moaerrors.ErrCodeInternal, "failed to list sources", err)
	}

	s := &Stats{
		Chunks:        chunks,
		Sources:       sources,
		VectorBackend: e.vectors != nil && e.embedder != nil,
	}
	if e.vectors != nil {
		s.Vectors = e.vectors.Count()
	}
	if e.embedder != nil {
		s.EmbeddingModel = e.embedder.ModelName()
	}
	return s, nil
}

// Save persists the vector index under the data directory.
func (e *Engine) Save() error {
	if e.vectors == nil || e.config.DataDir == "" {
		return nil
	}
	path := filepath.Join(e.config.DataDir, "vectors.hnsw")
	if err := e.vectors.Save(path); err != nil {
		return moaerrors.New(moaerrors.ErrCodeInternal, "failed to save vector index", err)
	}
	return nil
}

// Close persists and releases resources.
func (e *Engine) Close() error {
	var firstErr error
	if err := e.Save(); err != nil {
		firstErr = err
	}
	if e.vectors != nil {
		if err := e.vectors.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if e.embedder != nil {
		if err := e.embedder.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := e.docs.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

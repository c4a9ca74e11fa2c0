// Package config loads and validates moa configuration.
//
// Configuration hierarchy (lowest to highest priority):
//  1. Hardcoded defaults (NewConfig)
//  2. Config file (.moa.yaml in the working directory, or --config path)
//  3. Environment variables (MOA_*)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete moa configuration.
type Config struct {
	Version    int              `yaml:"version" json:"version"`
	DataDir    string           `yaml:"data_dir" json:"data_dir"`
	Search     SearchConfig     `yaml:"search" json:"search"`
	Chunking   ChunkingConfig   `yaml:"chunking" json:"chunking"`
	Embeddings EmbeddingsConfig `yaml:"embeddings" json:"embeddings"`
	Spacing    SpacingConfig    `yaml:"spacing" json:"spacing"`
	LogLevel   string           `yaml:"log_level" json:"log_level"`
}

// SearchConfig configures hybrid search parameters.
type SearchConfig struct {
	// VectorWeight is the weight applied to vector similarity (0.0-1.0).
	VectorWeight float64 `yaml:"vector_weight" json:"vector_weight"`

	// KeywordWeight is the weight applied to normalized keyword scores (0.0-1.0).
	KeywordWeight float64 `yaml:"keyword_weight" json:"keyword_weight"`

	// KeywordNorm divides raw keyword scores before clamping to [0,1].
	// Tuned empirically; raw scores around this value saturate.
	KeywordNorm float64 `yaml:"keyword_norm" json:"keyword_norm"`

	// ConfidenceBoost multiplies the final score of chunks found by both
	// signals. Cross-signal agreement is treated as evidence of relevance.
	ConfidenceBoost float64 `yaml:"confidence_boost" json:"confidence_boost"`

	// MaxResults is the maximum number of results a query may request.
	MaxResults int `yaml:"max_results" json:"max_results"`

	// DefaultLimit is the number of results returned when unspecified.
	DefaultLimit int `yaml:"default_limit" json:"default_limit"`

	// VectorTimeout bounds the vector backend call per query.
	// On timeout the query degrades to keyword-only results.
	VectorTimeout time.Duration `yaml:"vector_timeout" json:"vector_timeout"`
}

// ChunkingConfig configures the text splitter.
type ChunkingConfig struct {
	// ChunkSize is the target chunk size in runes.
	ChunkSize int `yaml:"chunk_size" json:"chunk_size"`

	// ChunkOverlap is how many trailing runes of a chunk are repeated at
	// the start of the next one.
	ChunkOverlap int `yaml:"chunk_overlap" json:"chunk_overlap"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// OllamaHost is the Ollama API endpoint (default: http://localhost:11434).
	OllamaHost string `yaml:"ollama_host" json:"ollama_host"`

	// Model is the embedding model name.
	Model string `yaml:"model" json:"model"`

	// Dimensions is the embedding dimension (0 = auto-detect).
	Dimensions int `yaml:"dimensions" json:"dimensions"`

	// BatchSize is the number of texts per embedding request.
	BatchSize int `yaml:"batch_size" json:"batch_size"`

	// CacheSize is the number of query embeddings kept in the LRU cache.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// SpacingConfig configures word-boundary restoration for display.
type SpacingConfig struct {
	// Enabled turns spacing restoration on for returned chunk content.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// SegmenterURL is the endpoint of an external segmentation service.
	// Empty disables the external tier.
	SegmenterURL string `yaml:"segmenter_url" json:"segmenter_url"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		DataDir: defaultDataDir(),
		Search: SearchConfig{
			VectorWeight:    0.7,
			KeywordWeight:   0.3,
			KeywordNorm:     100,
			ConfidenceBoost: 1.2,
			MaxResults:      100,
			DefaultLimit:    5,
			VectorTimeout:   5 * time.Second,
		},
		Chunking: ChunkingConfig{
			ChunkSize:    500,
			ChunkOverlap: 100,
		},
		Embeddings: EmbeddingsConfig{
			OllamaHost: "http://localhost:11434",
			Model:      "bge-m3",
			Dimensions: 0,
			BatchSize:  32,
			CacheSize:  1000,
		},
		Spacing: SpacingConfig{
			Enabled: true,
		},
		LogLevel: "info",
	}
}

// Load reads configuration from path (empty = ".moa.yaml" if present),
// applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		if _, err := os.Stat(".moa.yaml"); err == nil {
			path = ".moa.yaml"
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies MOA_* environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("MOA_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("MOA_OLLAMA_HOST"); v != "" {
		c.Embeddings.OllamaHost = v
	}
	if v := os.Getenv("MOA_EMBED_MODEL"); v != "" {
		c.Embeddings.Model = v
	}
	if v := os.Getenv("MOA_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("MOA_VECTOR_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Search.VectorWeight = f
		}
	}
	if v := os.Getenv("MOA_KEYWORD_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Search.KeywordWeight = f
		}
	}
	if v := os.Getenv("MOA_SEGMENTER_URL"); v != "" {
		c.Spacing.SegmenterURL = v
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Search.VectorWeight < 0 || c.Search.VectorWeight > 1 {
		return fmt.Errorf("search.vector_weight must be in [0,1], got %v", c.Search.VectorWeight)
	}
	if c.Search.KeywordWeight < 0 || c.Search.KeywordWeight > 1 {
		return fmt.Errorf("search.keyword_weight must be in [0,1], got %v", c.Search.KeywordWeight)
	}
	if c.Search.KeywordNorm <= 0 {
		return fmt.Errorf("search.keyword_norm must be positive, got %v", c.Search.KeywordNorm)
	}
	if c.Search.ConfidenceBoost < 1 {
		return fmt.Errorf("search.confidence_boost must be >= 1, got %v", c.Search.ConfidenceBoost)
	}
	if c.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("chunking.chunk_size must be positive, got %d", c.Chunking.ChunkSize)
	}
	if c.Chunking.ChunkOverlap < 0 || c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("chunking.chunk_overlap must be in [0, chunk_size), got %d", c.Chunking.ChunkOverlap)
	}
	if c.Search.VectorTimeout <= 0 {
		return fmt.Errorf("search.vector_timeout must be positive, got %v", c.Search.VectorTimeout)
	}
	return nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// defaultDataDir returns ~/.moa, falling back to a temp dir.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".moa")
	}
	return filepath.Join(home, ".moa")
}

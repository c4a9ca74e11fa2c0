package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moasearch/moa/configs"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 1, cfg.Version)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, 0.7, cfg.Search.VectorWeight)
	assert.Equal(t, 0.3, cfg.Search.KeywordWeight)
	assert.Equal(t, 100.0, cfg.Search.KeywordNorm)
	assert.Equal(t, 1.2, cfg.Search.ConfidenceBoost)
	assert.Equal(t, 5, cfg.Search.DefaultLimit)
	assert.Equal(t, 5*time.Second, cfg.Search.VectorTimeout)
	assert.Equal(t, 500, cfg.Chunking.ChunkSize)
	assert.Equal(t, 100, cfg.Chunking.ChunkOverlap)
	assert.Equal(t, "bge-m3", cfg.Embeddings.Model)
	assert.Equal(t, "http://localhost:11434", cfg.Embeddings.OllamaHost)
	assert.True(t, cfg.Spacing.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /tmp/moa-test
search:
  vector_weight: 0.6
  keyword_weight: 0.4
chunking:
  chunk_size: 300
  chunk_overlap: 50
embeddings:
  model: nomic-embed-text
spacing:
  enabled: false
`), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/moa-test", cfg.DataDir)
	assert.Equal(t, 0.6, cfg.Search.VectorWeight)
	assert.Equal(t, 0.4, cfg.Search.KeywordWeight)
	assert.Equal(t, 300, cfg.Chunking.ChunkSize)
	assert.Equal(t, 50, cfg.Chunking.ChunkOverlap)
	assert.Equal(t, "nomic-embed-text", cfg.Embeddings.Model)
	assert.False(t, cfg.Spacing.Enabled)

	// Untouched fields keep their defaults.
	assert.Equal(t, 100.0, cfg.Search.KeywordNorm)
	assert.Equal(t, "http://localhost:11434", cfg.Embeddings.OllamaHost)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moa.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /from/file\n"), 0o644))

	t.Setenv("MOA_DATA_DIR", "/from/env")
	t.Setenv("MOA_EMBED_MODEL", "mxbai-embed-large")
	t.Setenv("MOA_VECTOR_WEIGHT", "0.8")
	t.Setenv("MOA_SEGMENTER_URL", "http://localhost:9000")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.DataDir)
	assert.Equal(t, "mxbai-embed-large", cfg.Embeddings.Model)
	assert.Equal(t, 0.8, cfg.Search.VectorWeight)
	assert.Equal(t, "http://localhost:9000", cfg.Spacing.SegmenterURL)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"vector weight above one", func(c *Config) { c.Search.VectorWeight = 1.5 }},
		{"negative keyword weight", func(c *Config) { c.Search.KeywordWeight = -0.1 }},
		{"zero keyword norm", func(c *Config) { c.Search.KeywordNorm = 0 }},
		{"boost below one", func(c *Config) { c.Search.ConfidenceBoost = 0.5 }},
		{"zero chunk size", func(c *Config) { c.Chunking.ChunkSize = 0 }},
		{"overlap at chunk size", func(c *Config) { c.Chunking.ChunkOverlap = c.Chunking.ChunkSize }},
		{"zero vector timeout", func(c *Config) { c.Search.VectorTimeout = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_EmbeddedTemplateMatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".moa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configs.ConfigTemplate), 0o644))

	cfg, err := Load(path)

	// The template written by `moa init` must parse and reproduce the
	// built-in defaults.
	require.NoError(t, err)
	defaults := NewConfig()
	assert.Equal(t, defaults.Search, cfg.Search)
	assert.Equal(t, defaults.Chunking, cfg.Chunking)
	assert.Equal(t, defaults.Embeddings, cfg.Embeddings)
	assert.Equal(t, defaults.Spacing, cfg.Spacing)
	assert.Equal(t, defaults.LogLevel, cfg.LogLevel)
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "moa.yaml")

	cfg := NewConfig()
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.Search.DefaultLimit = 10
	require.NoError(t, cfg.Save(path))

	reloaded, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, cfg.DataDir, reloaded.DataDir)
	assert.Equal(t, 10, reloaded.Search.DefaultLimit)
}

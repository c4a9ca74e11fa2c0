package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGarbage(path string) error {
	return os.WriteFile(path, []byte("this is not a database"), 0o644)
}

func newTestDocStore(t *testing.T) *SQLiteDocStore {
	t.Helper()
	s, err := NewSQLiteDocStore("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testChunks(source string, n int) []Chunk {
	chunks := make([]Chunk, n)
	for i := range chunks {
		chunks[i] = Chunk{
			ID:         fmt.Sprintf("%s#%d", source, i),
			Content:    fmt.Sprintf("%s 구간 %d의 내용", source, i),
			Source:     source,
			ChunkIndex: i,
			Metadata:   map[string]string{"lang": "ko"},
		}
	}
	return chunks
}

func TestSQLite_PutAndGetChunk(t *testing.T) {
	s := newTestDocStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutChunks(ctx, testChunks("docs/a.md", 2)))

	c, err := s.GetChunk(ctx, "docs/a.md#1")

	require.NoError(t, err)
	assert.Equal(t, "docs/a.md#1", c.ID)
	assert.Equal(t, "docs/a.md", c.Source)
	assert.Equal(t, 1, c.ChunkIndex)
	assert.Equal(t, map[string]string{"lang": "ko"}, c.Metadata)
}

func TestSQLite_GetChunkNotFound(t *testing.T) {
	s := newTestDocStore(t)

	_, err := s.GetChunk(context.Background(), "missing#0")

	var notFound ErrChunkNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing#0", notFound.ID)
}

func TestSQLite_PutChunksUpserts(t *testing.T) {
	s := newTestDocStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutChunks(ctx, []Chunk{
		{ID: "a#0", Content: "원래 내용", Source: "a", ChunkIndex: 0},
	}))
	require.NoError(t, s.PutChunks(ctx, []Chunk{
		{ID: "a#0", Content: "수정된 내용", Source: "a", ChunkIndex: 0},
	}))

	c, err := s.GetChunk(ctx, "a#0")
	require.NoError(t, err)
	assert.Equal(t, "수정된 내용", c.Content)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLite_GetChunksKeepsOrderSkipsUnknown(t *testing.T) {
	s := newTestDocStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutChunks(ctx, testChunks("docs/a.md", 3)))

	chunks, err := s.GetChunks(ctx, []string{"docs/a.md#2", "missing#9", "docs/a.md#0"})

	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "docs/a.md#2", chunks[0].ID)
	assert.Equal(t, "docs/a.md#0", chunks[1].ID)
}

func TestSQLite_DeleteBySourceReturnsIDs(t *testing.T) {
	s := newTestDocStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutChunks(ctx, testChunks("docs/a.md", 2)))
	require.NoError(t, s.PutChunks(ctx, testChunks("docs/b.md", 1)))

	ids, err := s.DeleteBySource(ctx, "docs/a.md")

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"docs/a.md#0", "docs/a.md#1"}, ids)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// An unknown source deletes nothing.
	ids, err = s.DeleteBySource(ctx, "docs/none.md")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSQLite_Sources(t *testing.T) {
	s := newTestDocStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutChunks(ctx, testChunks("docs/b.md", 2)))
	require.NoError(t, s.PutChunks(ctx, testChunks("docs/a.md", 1)))

	sources, err := s.Sources(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"docs/a.md", "docs/b.md"}, sources)
}

func TestSQLite_AllChunksOrdered(t *testing.T) {
	s := newTestDocStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutChunks(ctx, testChunks("docs/b.md", 2)))
	require.NoError(t, s.PutChunks(ctx, testChunks("docs/a.md", 2)))

	chunks, err := s.AllChunks(ctx)

	require.NoError(t, err)
	require.Len(t, chunks, 4)
	assert.Equal(t, "docs/a.md#0", chunks[0].ID)
	assert.Equal(t, "docs/a.md#1", chunks[1].ID)
	assert.Equal(t, "docs/b.md#0", chunks[2].ID)
	assert.Equal(t, "docs/b.md#1", chunks[3].ID)
}

func TestSQLite_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.db")
	ctx := context.Background()

	s, err := NewSQLiteDocStore(path)
	require.NoError(t, err)
	require.NoError(t, s.PutChunks(ctx, testChunks("docs/a.md", 2)))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteDocStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	n, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSQLite_CorruptedFileCleared(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.db")
	require.NoError(t, writeGarbage(path))

	// Given: a file that is not a SQLite database
	s, err := NewSQLiteDocStore(path)

	// Then: the store clears it and starts empty
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLite_ClosedStoreRejects(t *testing.T) {
	s, err := NewSQLiteDocStore("")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	ctx := context.Background()
	assert.Error(t, s.PutChunks(ctx, testChunks("a", 1)))
	_, err = s.GetChunk(ctx, "a#0")
	assert.Error(t, err)
	_, err = s.Count(ctx)
	assert.Error(t, err)

	// Close is idempotent.
	assert.NoError(t, s.Close())
}

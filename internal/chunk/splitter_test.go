package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitter_EmptyInput(t *testing.T) {
	s := NewSplitter(nil, 100, 20)

	assert.Nil(t, s.Split("", "doc"))
}

func TestSplitter_ShortTextSingleChunk(t *testing.T) {
	s := NewSplitter(nil, 100, 20)

	chunks := s.Split("짧은 문서입니다.", "doc")

	require.Len(t, chunks, 1)
	assert.Equal(t, "짧은 문서입니다.", chunks[0].Content)
	assert.Equal(t, "doc", chunks[0].Metadata.Source)
	assert.Equal(t, 0, chunks[0].Metadata.ChunkIndex)
}

func TestSplitter_Deterministic(t *testing.T) {
	s := NewSplitter(nil, 50, 10)
	text := strings.Repeat("문장 하나. ", 40)

	first := s.Split(text, "doc")
	for i := 0; i < 5; i++ {
		again := s.Split(text, "doc")
		require.Equal(t, len(first), len(again))
		for j := range first {
			assert.Equal(t, first[j].Content, again[j].Content)
		}
	}
}

func TestSplitter_CoversAllInput(t *testing.T) {
	// Every rune of the input must appear in some chunk. Strip the
	// overlap prefix of each chunk after the first and the concatenation
	// reconstructs the original text.
	s := NewSplitter(nil, 50, 10)
	text := "첫 번째 문단입니다.\n\n두 번째 문단은 조금 더 깁니다. 여러 문장으로 구성됩니다. " +
		strings.Repeat("계속되는 내용. ", 20)

	chunks := s.Split(text, "doc")
	require.NotEmpty(t, chunks)

	var rebuilt strings.Builder
	for i, c := range chunks {
		content := c.Content
		if i > 0 {
			prev := []rune(chunks[i-1].Content)
			overlapLen := 10
			if len(prev) < overlapLen {
				overlapLen = len(prev)
			}
			prefix := string(prev[len(prev)-overlapLen:])
			require.True(t, strings.HasPrefix(content, prefix),
				"chunk %d must start with the previous chunk's tail", i)
			content = strings.TrimPrefix(content, prefix)
		}
		rebuilt.WriteString(content)
	}
	assert.Equal(t, text, rebuilt.String())
}

func TestSplitter_RespectsSizeInRunes(t *testing.T) {
	// Korean runes are multi-byte; the bound is runes, not bytes
	s := NewSplitter(nil, 30, 0)
	text := strings.Repeat("가나다라마. ", 30)

	for _, c := range s.Split(text, "doc") {
		assert.LessOrEqual(t, len([]rune(c.Content)), 30)
	}
}

func TestSplitter_HardSplitWithoutSeparators(t *testing.T) {
	// No separator anywhere: the splitter must still bound chunk size
	s := NewSplitter(nil, 20, 0)
	text := strings.Repeat("가", 95)

	chunks := s.Split(text, "doc")

	require.Len(t, chunks, 5)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Content)), 20)
	}
}

func TestSplitter_PrefersParagraphBoundaries(t *testing.T) {
	s := NewSplitter(nil, 30, 0)
	text := "첫 문단.\n\n둘째 문단."

	chunks := s.Split(text, "doc")

	// Both paragraphs fit one chunk together; with a tighter budget they
	// split at the paragraph boundary, not mid-sentence.
	tight := NewSplitter(nil, 10, 0)
	tightChunks := tight.Split(text, "doc")

	require.Len(t, chunks, 1)
	require.GreaterOrEqual(t, len(tightChunks), 2)
	assert.True(t, strings.HasPrefix(tightChunks[0].Content, "첫 문단."))
}

func TestSplitter_ChunkIndexSequential(t *testing.T) {
	s := NewSplitter(nil, 40, 5)
	text := strings.Repeat("문장입니다. ", 30)

	for i, c := range s.Split(text, "doc") {
		assert.Equal(t, i, c.Metadata.ChunkIndex)
	}
}

// Package chunk splits raw text into overlapping, bounded-size segments.
//
// The splitter tries separators in priority order (paragraph break, line
// break, sentence-ending punctuation, space) and recursively subdivides any
// segment still longer than the target size with the next separator in the
// list. Adjacent chunks share an overlap taken from the preceding chunk's
// tail so context is not lost at chunk boundaries.
package chunk

import (
	"strings"
)

// DefaultSeparators is the separator priority list for prose.
var DefaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", " "}

// Chunk size defaults, in runes.
const (
	DefaultChunkSize = 500
	DefaultOverlap   = 100
)

// Metadata identifies where a chunk came from.
type Metadata struct {
	Source     string `json:"source"`
	ChunkIndex int    `json:"chunk_index"`
}

// Chunk is the atomic unit of retrieval: a bounded-size contiguous slice of
// a source document. Immutable after creation.
type Chunk struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// Splitter splits text into chunks. The zero value is not usable; call
// NewSplitter.
type Splitter struct {
	separators []string
	chunkSize  int
	overlap    int
}

// NewSplitter creates a splitter. Zero or negative size/overlap fall back to
// defaults; nil separators fall back to DefaultSeparators.
func NewSplitter(separators []string, chunkSize, overlap int) *Splitter {
	if len(separators) == 0 {
		separators = DefaultSeparators
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultOverlap
		if overlap >= chunkSize {
			overlap = chunkSize / 4
		}
	}
	return &Splitter{
		separators: separators,
		chunkSize:  chunkSize,
		overlap:    overlap,
	}
}

// Split splits text into chunks labeled with source. Empty input yields no
// chunks; input not longer than the chunk size yields exactly one.
//
// Split is deterministic: identical inputs always produce an identical chunk
// sequence. Downstream dedup identity depends on this.
func (s *Splitter) Split(text, source string) []Chunk {
	if text == "" {
		return nil
	}

	pieces := s.splitRecursive(text, s.separators)

	chunks := make([]Chunk, 0, len(pieces))
	prev := ""
	for i, piece := range pieces {
		content := piece
		if i > 0 && s.overlap > 0 {
			content = tailRunes(prev, s.overlap) + piece
		}
		chunks = append(chunks, Chunk{
			Content: content,
			Metadata: Metadata{
				Source:     source,
				ChunkIndex: i,
			},
		})
		prev = piece
	}
	return chunks
}

// splitRecursive splits text into pieces of at most chunkSize runes.
// Concatenating the returned pieces reproduces text exactly.
func (s *Splitter) splitRecursive(text string, separators []string) []string {
	if runeLen(text) <= s.chunkSize {
		return []string{text}
	}

	if len(separators) == 0 {
		return s.hardSplit(text)
	}

	sep := separators[0]
	rest := separators[1:]

	segments := splitAfter(text, sep)
	if len(segments) == 1 {
		// Separator absent; try the next one.
		return s.splitRecursive(text, rest)
	}

	var pieces []string
	var buf strings.Builder
	bufLen := 0

	flush := func() {
		if bufLen > 0 {
			pieces = append(pieces, buf.String())
			buf.Reset()
			bufLen = 0
		}
	}

	for _, seg := range segments {
		segLen := runeLen(seg)
		if segLen > s.chunkSize {
			// Oversized segment: emit what we have, then subdivide it
			// with the lower-priority separators.
			flush()
			pieces = append(pieces, s.splitRecursive(seg, rest)...)
			continue
		}
		if bufLen+segLen > s.chunkSize {
			flush()
		}
		buf.WriteString(seg)
		bufLen += segLen
	}
	flush()

	return pieces
}

// hardSplit cuts text into chunkSize-rune pieces when no separator applies.
func (s *Splitter) hardSplit(text string) []string {
	runes := []rune(text)
	var pieces []string
	for start := 0; start < len(runes); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}

// splitAfter splits text on sep, keeping the separator attached to the
// preceding segment so concatenation reconstructs the input.
func splitAfter(text, sep string) []string {
	parts := strings.SplitAfter(text, sep)
	// strings.SplitAfter may produce a trailing empty segment when the
	// text ends with sep; drop it to keep segment counts meaningful.
	if n := len(parts); n > 1 && parts[n-1] == "" {
		parts = parts[:n-1]
	}
	return parts
}

// tailRunes returns the last n runes of s.
func tailRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

// runeLen returns the rune count of s. Chunk sizes are measured in runes so
// multi-byte scripts are not penalized.
func runeLen(s string) int {
	return len([]rune(s))
}

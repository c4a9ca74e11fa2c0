package spacing

import (
	"context"
	"fmt"
	"strings"
)

// Morpheme is one unit from morphological analysis with its part-of-speech
// tag (Sejong tagset, as emitted by mecab-ko and compatible taggers).
type Morpheme struct {
	Surface string
	Tag     string
}

// MorphTagger analyzes Korean text into morphemes. Implementations wrap an
// external tagger; the engine treats the tagger as optional.
type MorphTagger interface {
	Analyze(ctx context.Context, text string) ([]Morpheme, error)
	Available(ctx context.Context) bool
}

// TaggerStrategy rebuilds spacing from morphological analysis: each
// independent morpheme starts a new word, and particles, endings, suffixes
// and the copula attach to the word before them.
type TaggerStrategy struct {
	tagger MorphTagger
}

var _ Strategy = (*TaggerStrategy)(nil)

// NewTaggerStrategy wraps tagger as a cascade tier.
func NewTaggerStrategy(tagger MorphTagger) *TaggerStrategy {
	return &TaggerStrategy{tagger: tagger}
}

// Name identifies the strategy.
func (t *TaggerStrategy) Name() string { return "tagger" }

// Available reports the underlying tagger's readiness.
func (t *TaggerStrategy) Available(ctx context.Context) bool {
	return t.tagger != nil && t.tagger.Available(ctx)
}

// Restore reassembles the text from morphemes. Output spacing depends only
// on the tag sequence, so re-analysis of the output reproduces it.
func (t *TaggerStrategy) Restore(ctx context.Context, text string) (string, error) {
	morphemes, err := t.tagger.Analyze(ctx, text)
	if err != nil {
		return "", fmt.Errorf("morphological analysis: %w", err)
	}
	if len(morphemes) == 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text) + len(morphemes))
	for i, m := range morphemes {
		if m.Surface == "" {
			continue
		}
		if i > 0 && !attachesLeft(m.Tag) {
			b.WriteByte(' ')
		}
		b.WriteString(m.Surface)
	}
	return collapseSpaces(b.String()), nil
}

// attachesLeft reports whether a morpheme glues onto the preceding word:
// particles (J*), verbal and adjectival endings (E*), derivational
// suffixes (XS*), the copula (VCP) and trailing punctuation.
func attachesLeft(tag string) bool {
	switch {
	case strings.HasPrefix(tag, "J"):
		return true
	case strings.HasPrefix(tag, "E"):
		return true
	case strings.HasPrefix(tag, "XS"):
		return true
	case tag == "VCP":
		return true
	case tag == "SF" || tag == "SP" || tag == "SE":
		return true
	}
	return false
}

package spacing

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTagger scripts morphological analysis results.
type fakeTagger struct {
	morphemes []Morpheme
	err       error
	available bool
}

func (f *fakeTagger) Analyze(context.Context, string) ([]Morpheme, error) {
	return f.morphemes, f.err
}

func (f *fakeTagger) Available(context.Context) bool { return f.available }

func TestTaggerRestore_ParticlesAttachLeft(t *testing.T) {
	// Given: "검색은어렵다." analyzed into morphemes
	tagger := &fakeTagger{available: true, morphemes: []Morpheme{
		{Surface: "검색", Tag: "NNG"},
		{Surface: "은", Tag: "JX"},
		{Surface: "어렵", Tag: "VA"},
		{Surface: "다", Tag: "EF"},
		{Surface: ".", Tag: "SF"},
	}}
	s := NewTaggerStrategy(tagger)

	out, err := s.Restore(context.Background(), "검색은어렵다.")

	require.NoError(t, err)
	assert.Equal(t, "검색은 어렵다.", out)
}

func TestTaggerRestore_CopulaAndSuffixAttachLeft(t *testing.T) {
	tagger := &fakeTagger{available: true, morphemes: []Morpheme{
		{Surface: "이것", Tag: "NP"},
		{Surface: "은", Tag: "JX"},
		{Surface: "검색", Tag: "NNG"},
		{Surface: "기", Tag: "XSN"},
		{Surface: "이", Tag: "VCP"},
		{Surface: "다", Tag: "EF"},
	}}
	s := NewTaggerStrategy(tagger)

	out, err := s.Restore(context.Background(), "이것은검색기이다")

	require.NoError(t, err)
	assert.Equal(t, "이것은 검색기이다", out)
}

func TestTaggerRestore_NoMorphemesReturnsInput(t *testing.T) {
	tagger := &fakeTagger{available: true}
	s := NewTaggerStrategy(tagger)

	out, err := s.Restore(context.Background(), "원본 텍스트")

	require.NoError(t, err)
	assert.Equal(t, "원본 텍스트", out)
}

func TestTaggerRestore_AnalyzeErrorPropagates(t *testing.T) {
	tagger := &fakeTagger{available: true, err: fmt.Errorf("mecab not installed")}
	s := NewTaggerStrategy(tagger)

	_, err := s.Restore(context.Background(), "분석할 텍스트")

	assert.Error(t, err)
}

func TestTaggerAvailable(t *testing.T) {
	assert.False(t, NewTaggerStrategy(nil).Available(context.Background()))
	assert.False(t, NewTaggerStrategy(&fakeTagger{available: false}).Available(context.Background()))
	assert.True(t, NewTaggerStrategy(&fakeTagger{available: true}).Available(context.Background()))
}

func TestAttachesLeft(t *testing.T) {
	attaching := []string{"JX", "JKS", "JKO", "EF", "EC", "ETM", "XSN", "XSV", "VCP", "SF", "SP", "SE"}
	for _, tag := range attaching {
		assert.True(t, attachesLeft(tag), "tag: %s", tag)
	}

	standalone := []string{"NNG", "NNP", "NP", "VV", "VA", "MAG", "SL", "SN"}
	for _, tag := range standalone {
		assert.False(t, attachesLeft(tag), "tag: %s", tag)
	}
}

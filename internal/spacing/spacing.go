// Package spacing restores word boundaries in Korean text that has lost
// its spaces, a common artifact of PDF extraction and OCR. Three
// strategies are tried in order: an external segmentation service, a
// morphological tagger, and a regex pattern cascade that is always
// available. Restoration is total: it never fails, and at worst returns
// the input unchanged.
package spacing

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
)

// Strategy is one way of restoring spacing. Restore must be idempotent:
// feeding its own output back must return it unchanged.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Available reports whether the strategy can currently serve.
	Available(ctx context.Context) bool

	// Restore returns text with word boundaries restored.
	Restore(ctx context.Context, text string) (string, error)
}

// Restorer runs strategies in order and falls through on failure. The
// last strategy is expected to be infallible.
type Restorer struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewRestorer builds a cascade from the given strategies. With none given
// it uses the pattern strategy alone.
func NewRestorer(logger *slog.Logger, strategies ...Strategy) *Restorer {
	if logger == nil {
		logger = slog.Default()
	}
	if len(strategies) == 0 {
		strategies = []Strategy{NewPatternStrategy()}
	}
	return &Restorer{strategies: strategies, logger: logger}
}

// NewDefaultRestorer builds the full cascade: segmenter (when configured)
// before tagger (when provided) before patterns.
func NewDefaultRestorer(logger *slog.Logger, segmenterURL string, tagger MorphTagger) *Restorer {
	var strategies []Strategy
	if segmenterURL != "" {
		strategies = append(strategies, NewSegmenterStrategy(segmenterURL))
	}
	if tagger != nil {
		strategies = append(strategies, NewTaggerStrategy(tagger))
	}
	strategies = append(strategies, NewPatternStrategy())
	return NewRestorer(logger, strategies...)
}

// Restore runs the cascade. Text without Korean is returned as-is; text
// that already contains reasonable spacing is left alone.
func (r *Restorer) Restore(ctx context.Context, text string) string {
	if text == "" || !needsRestoration(text) {
		return text
	}

	for _, s := range r.strategies {
		if !s.Available(ctx) {
			continue
		}
		restored, err := s.Restore(ctx, text)
		if err != nil {
			r.logger.Debug("spacing_strategy_failed",
				slog.String("strategy", s.Name()),
				slog.String("error", err.Error()))
			continue
		}
		return restored
	}
	return text
}

// needsRestoration reports whether text contains a hangul run long enough
// to suggest missing spaces. Short runs are normal Korean words.
func needsRestoration(text string) bool {
	run := 0
	for _, r := range text {
		if isHangul(r) {
			run++
			if run >= minSuspectRun {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

// minSuspectRun is the hangul run length at which missing spaces become
// likely. Korean words rarely exceed seven syllables.
const minSuspectRun = 8

func isHangul(r rune) bool {
	return unicode.Is(unicode.Hangul, r)
}

// collapseSpaces normalizes runs of whitespace to single spaces and strips
// space before closing punctuation. Shared by all strategies so their
// outputs agree on whitespace form.
func collapseSpaces(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for i, f := range fields {
		if i > 0 && !startsWithClosingPunct(f) {
			b.WriteByte(' ')
		}
		b.WriteString(f)
	}
	return b.String()
}

func startsWithClosingPunct(s string) bool {
	for _, r := range s {
		switch r {
		case '.', ',', '!', '?', ')', ']', '}', ':', ';':
			return true
		}
		return false
	}
	return false
}

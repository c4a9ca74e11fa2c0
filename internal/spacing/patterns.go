package spacing

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"
)

// PatternStrategy restores spacing with regular expressions and a hangul
// run splitter. It needs no external service, always succeeds, and is the
// terminal tier of the cascade.
type PatternStrategy struct {
	connectives      *regexp.Regexp
	scriptBoundaries []*regexp.Regexp
	digitBoundaries  []*regexp.Regexp
	acronyms         []*regexp.Regexp
	afterSentence    *regexp.Regexp
}

var _ Strategy = (*PatternStrategy)(nil)

// Connective adverbs and copula endings that open or close a word almost
// without exception. A boundary goes right after each occurrence.
const connectiveWords = `그리고|그래서|그러나|하지만|그런데|따라서|또한|입니다|습니다|합니다`

// Technical acronyms that keep getting glued to surrounding lowercase
// text in de-spaced input. Longer alternatives first.
const acronymWords = `HTTPS|HTTP|JSON|API|URL|SQL|LLM|RAG|CPU|GPU|DB|AI`

// NewPatternStrategy compiles the boundary patterns once.
func NewPatternStrategy() *PatternStrategy {
	return &PatternStrategy{
		connectives: regexp.MustCompile(connectiveWords),
		scriptBoundaries: []*regexp.Regexp{
			// hangul followed by latin or digit
			regexp.MustCompile(`([\x{AC00}-\x{D7A3}])([A-Za-z0-9])`),
			// latin or digit followed by hangul
			regexp.MustCompile(`([A-Za-z0-9])([\x{AC00}-\x{D7A3}])`),
		},
		digitBoundaries: []*regexp.Regexp{
			// latin letter followed by a digit run
			regexp.MustCompile(`([A-Za-z])([0-9])`),
			// digit run followed by a latin letter
			regexp.MustCompile(`([0-9])([A-Za-z])`),
		},
		acronyms: []*regexp.Regexp{
			regexp.MustCompile(`([a-z])(` + acronymWords + `)`),
			regexp.MustCompile(`(` + acronymWords + `)([a-z])`),
		},
		// sentence punctuation glued to the next word
		afterSentence: regexp.MustCompile(`([.!?])([\x{AC00}-\x{D7A3}A-Za-z0-9])`),
	}
}

// Name identifies the strategy.
func (p *PatternStrategy) Name() string { return "patterns" }

// Available always reports true.
func (p *PatternStrategy) Available(ctx context.Context) bool { return true }

// Restore applies the substitution cascade and then hangul run splitting.
// Every substitution only inserts spaces at adjacencies, so a second
// application finds nothing left to separate and the whole pass is a
// no-op on its own output.
func (p *PatternStrategy) Restore(ctx context.Context, text string) (string, error) {
	out := p.spaceAfterConnectives(text)
	for _, re := range p.scriptBoundaries {
		out = re.ReplaceAllString(out, "$1 $2")
	}
	for _, re := range p.digitBoundaries {
		out = re.ReplaceAllString(out, "$1 $2")
	}
	for _, re := range p.acronyms {
		out = re.ReplaceAllString(out, "$1 $2")
	}
	out = p.afterSentence.ReplaceAllString(out, "$1 $2")
	out = splitHangulRuns(out)
	return collapseSpaces(out), nil
}

// spaceAfterConnectives inserts a space after each connective or copula
// occurrence that runs straight into more hangul. Insertion points are
// found on the input string directly instead of a two-group replacement,
// so back-to-back occurrences all get their boundary in one pass.
func (p *PatternStrategy) spaceAfterConnectives(text string) string {
	locs := p.connectives.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + len(locs))
	prev := 0
	for _, loc := range locs {
		b.WriteString(text[prev:loc[1]])
		if r, _ := utf8.DecodeRuneInString(text[loc[1]:]); isHangul(r) {
			b.WriteByte(' ')
		}
		prev = loc[1]
	}
	b.WriteString(text[prev:])
	return b.String()
}

// Hangul run splitting thresholds. Runs longer than longRun are cut into
// three parts, runs of midRun or more into two, recursively until every
// piece is shorter than midRun.
const (
	longRun = 15
	midRun  = 8
)

// splitHangulRuns finds unbroken hangul runs and inserts spaces. This is
// a blunt heuristic for text that lost all its spaces; the earlier
// cascade tiers produce better boundaries when available.
func splitHangulRuns(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/midRun)

	var run []rune
	flush := func() {
		if len(run) == 0 {
			return
		}
		writeSplitRun(&b, run)
		run = run[:0]
	}

	for _, r := range text {
		if isHangul(r) {
			run = append(run, r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return b.String()
}

func writeSplitRun(b *strings.Builder, run []rune) {
	parts := splitRun(run)
	for i, part := range parts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(string(part))
	}
}

// splitRun cuts a run into pieces shorter than midRun, by thirds above
// longRun and halves otherwise.
func splitRun(run []rune) [][]rune {
	n := len(run)
	if n < midRun {
		return [][]rune{run}
	}

	var pieces [][]rune
	if n > longRun {
		third := n / 3
		pieces = [][]rune{run[:third], run[third : 2*third], run[2*third:]}
	} else {
		half := n / 2
		pieces = [][]rune{run[:half], run[half:]}
	}

	var out [][]rune
	for _, p := range pieces {
		out = append(out, splitRun(p)...)
	}
	return out
}

// Package keyword implements lexical relevance scoring over an in-memory
// corpus of chunks. Scoring is a hand-built weighting function: exact phrase
// match, per-keyword occurrence weights, a leading-position bonus and a
// proximity bonus when several query keywords co-occur in a small window.
package keyword

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scoring constants. Weights are fixed; there is no learned component.
const (
	// phraseBonusFactor multiplies the query length when the whole query
	// appears verbatim in a chunk.
	phraseBonusFactor = 5

	// Occurrence weight tiers by keyword rune length.
	longKeywordLen     = 5
	longKeywordFactor  = 10
	midKeywordLen      = 3
	midKeywordFactor   = 3
	shortKeywordFactor = 1

	// leadingWindow is the rune prefix of a chunk that earns the
	// leading-position bonus; leadingBonusFactor multiplies keyword length.
	leadingWindow      = 50
	leadingBonusFactor = 5

	// proximityWindow is the co-occurrence window in runes;
	// proximityBonus is the flat score awarded at most once per chunk.
	proximityWindow = 100
	proximityBonus  = 50
)

// ExtractKeywords extracts normalized keywords from a free-text query.
//
// Tokens are lowercased, trailing punctuation is stripped, and trailing
// Korean particles are removed when a usable stem remains. Tokens of three
// or more runes are substantive; two-rune tokens survive unless they are
// function words; interrogatives count only when nothing substantive was
// found, and then alone. If nothing survives at all, the longest raw token
// is used so the result is never empty for a non-empty query.
func ExtractKeywords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	if len(fields) == 0 {
		return nil
	}

	var keywords []string
	var firstInterrogative string
	var longest string

	seen := make(map[string]struct{})

	for _, tok := range fields {
		tok = strings.TrimRightFunc(tok, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if tok == "" {
			continue
		}
		if utf8.RuneCountInString(tok) > utf8.RuneCountInString(longest) {
			longest = tok
		}

		if _, ok := interrogatives[tok]; ok {
			if firstInterrogative == "" {
				firstInterrogative = tok
			}
			continue
		}

		tok = stripParticle(tok)
		if _, ok := seen[tok]; ok {
			continue
		}

		switch n := utf8.RuneCountInString(tok); {
		case n >= 3:
			keywords = append(keywords, tok)
			seen[tok] = struct{}{}
		case n == 2:
			if _, stop := stopWords[tok]; !stop {
				keywords = append(keywords, tok)
				seen[tok] = struct{}{}
			}
		}
	}

	if len(keywords) > 0 {
		return keywords
	}
	if firstInterrogative != "" {
		return []string{firstInterrogative}
	}
	if longest != "" {
		return []string{longest}
	}
	return nil
}

// stripParticle removes one trailing Korean particle when the remaining
// stem is at least two runes. "rag란" becomes "rag", "검색의" becomes "검색".
func stripParticle(tok string) string {
	for _, suffix := range particleSuffixes {
		if !strings.HasSuffix(tok, suffix) {
			continue
		}
		stem := strings.TrimSuffix(tok, suffix)
		if utf8.RuneCountInString(stem) >= 2 {
			return stem
		}
	}
	return tok
}

// Score computes the lexical relevance of content for query.
// Returns 0 when nothing matches; never negative. Pure function: malformed
// but well-typed input (empty query, empty content) yields 0, not an error.
func Score(query, content string) float64 {
	query = strings.TrimSpace(query)
	if query == "" || content == "" {
		return 0
	}

	keywords := ExtractKeywords(query)
	if len(keywords) == 0 {
		return 0
	}

	lowerQuery := strings.ToLower(query)
	lowerContent := strings.ToLower(content)
	contentRunes := []rune(lowerContent)

	var score float64

	// 1. Exact phrase bonus.
	if strings.Contains(lowerContent, lowerQuery) {
		score += float64(utf8.RuneCountInString(lowerQuery) * phraseBonusFactor)
	}

	// Occurrence positions per keyword, in runes, for the positional and
	// proximity bonuses below.
	positions := make(map[string][]int, len(keywords))
	present := 0

	for _, kw := range keywords {
		occ := runePositions(contentRunes, []rune(kw))
		if len(occ) == 0 {
			continue
		}
		positions[kw] = occ
		present++

		f := float64(len(occ))
		w := utf8.RuneCountInString(kw)

		// 2. Per-keyword weight, tiered by keyword length.
		switch {
		case w >= longKeywordLen:
			score += f * float64(w) * longKeywordFactor
		case w >= midKeywordLen:
			score += f * float64(w) * midKeywordFactor
		default:
			score += f * float64(w) * shortKeywordFactor
		}

		// 3. Leading-position bonus.
		if occ[0] < leadingWindow {
			score += float64(w * leadingBonusFactor)
		}
	}

	// 4. Proximity bonus: all query keywords inside one window.
	if present >= 2 && allKeywordsInWindow(positions, len(keywords)) {
		score += proximityBonus
	}

	return score
}

// runePositions returns the starting rune offsets of every occurrence of
// needle in haystack. Occurrences may overlap.
func runePositions(haystack, needle []rune) []int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return nil
	}
	var out []int
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			out = append(out, i)
		}
	}
	return out
}

// occurrence pairs a position with the keyword found there.
type occurrence struct {
	pos     int
	keyword string
}

// allKeywordsInWindow reports whether some proximityWindow-rune window
// contains an occurrence of every distinct query keyword. The first
// qualifying window wins; one bonus per chunk.
func allKeywordsInWindow(positions map[string][]int, total int) bool {
	if len(positions) < total {
		return false
	}

	var occs []occurrence
	for kw, posList := range positions {
		for _, p := range posList {
			occs = append(occs, occurrence{pos: p, keyword: kw})
		}
	}
	sortOccurrences(occs)

	counts := make(map[string]int)
	distinct := 0
	left := 0
	for right := 0; right < len(occs); right++ {
		counts[occs[right].keyword]++
		if counts[occs[right].keyword] == 1 {
			distinct++
		}
		for occs[right].pos-occs[left].pos >= proximityWindow {
			counts[occs[left].keyword]--
			if counts[occs[left].keyword] == 0 {
				distinct--
			}
			left++
		}
		if distinct >= total {
			return true
		}
	}
	return false
}

// sortOccurrences sorts by position ascending (insertion sort; occurrence
// lists are small and mostly ordered already).
func sortOccurrences(occs []occurrence) {
	for i := 1; i < len(occs); i++ {
		for j := i; j > 0 && occs[j].pos < occs[j-1].pos; j-- {
			occs[j], occs[j-1] = occs[j-1], occs[j]
		}
	}
}

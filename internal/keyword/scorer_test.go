package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Extraction ---

func TestExtractKeywords_StripsParticles(t *testing.T) {
	// Given: a Korean query with a particle-suffixed keyword
	keywords := ExtractKeywords("RAG란?")

	// Then: the particle and punctuation are stripped
	require.Equal(t, []string{"rag"}, keywords)
}

func TestExtractKeywords_KoreanParticles(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"검색의 원리", []string{"검색", "원리"}},
		{"벡터를 저장", []string{"벡터", "저장"}},
		{"시스템에서 데이터가", []string{"시스템", "데이터"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractKeywords(tt.query), "query %q", tt.query)
	}
}

func TestExtractKeywords_LowercasesAndStripsPunctuation(t *testing.T) {
	keywords := ExtractKeywords("What is HNSW?!")

	assert.Contains(t, keywords, "hnsw")
	assert.NotContains(t, keywords, "hnsw?!")
	assert.NotContains(t, keywords, "HNSW")
}

func TestExtractKeywords_TwoRuneStopwordsDropped(t *testing.T) {
	// "is" and "of" are two-letter function words; "db" is substantive
	keywords := ExtractKeywords("is of db index")

	assert.NotContains(t, keywords, "is")
	assert.NotContains(t, keywords, "of")
	assert.Contains(t, keywords, "db")
	assert.Contains(t, keywords, "index")
}

func TestExtractKeywords_InterrogativeOnlyAsFallback(t *testing.T) {
	// Given: a query of nothing but an interrogative
	keywords := ExtractKeywords("뭐야?")

	// Then: the interrogative itself becomes the keyword
	require.Equal(t, []string{"뭐야"}, keywords)

	// Given: an interrogative next to a substantive keyword
	keywords = ExtractKeywords("임베딩이 뭐야?")

	// Then: only the substantive keyword survives
	require.Equal(t, []string{"임베딩"}, keywords)
}

func TestExtractKeywords_LongestTokenLastResort(t *testing.T) {
	// Nothing substantive, nothing interrogative: keep the longest token
	keywords := ExtractKeywords("is to")

	require.Len(t, keywords, 1)
}

func TestExtractKeywords_EmptyQuery(t *testing.T) {
	assert.Nil(t, ExtractKeywords(""))
	assert.Nil(t, ExtractKeywords("   "))
}

func TestExtractKeywords_Deduplicates(t *testing.T) {
	keywords := ExtractKeywords("검색 검색 검색")

	require.Equal(t, []string{"검색"}, keywords)
}

// --- Scoring ---

func TestScore_ZeroForNoMatch(t *testing.T) {
	assert.Zero(t, Score("벡터 검색", "the quick brown fox"))
}

func TestScore_ZeroForEmptyInput(t *testing.T) {
	assert.Zero(t, Score("", "content"))
	assert.Zero(t, Score("query", ""))
	assert.Zero(t, Score("  ", "content"))
}

func TestScore_PhraseBonus(t *testing.T) {
	// Given: a chunk containing the exact query phrase and one containing
	// only scattered keywords
	query := "벡터 검색"
	exact := "이 문서는 벡터 검색 시스템을 설명한다"
	scattered := "벡터 데이터를 저장하고 텍스트를 검색 한다"

	// Then: the exact phrase ranks higher
	assert.Greater(t, Score(query, exact), Score(query, scattered))
}

func TestScore_ParticleSuffixedQueryMatchesBareKeyword(t *testing.T) {
	// The canonical failure mode: "RAG란?" must match a chunk that only
	// says "RAG".
	score := Score("RAG란?", "RAG is retrieval augmented generation")

	assert.Greater(t, score, 0.0)
}

func TestScore_FrequencyMonotonic(t *testing.T) {
	// More occurrences of a keyword never lower the score
	once := Score("임베딩", "임베딩 모델")
	twice := Score("임베딩", "임베딩 모델과 임베딩 캐시")

	assert.Greater(t, twice, once)
}

func TestScore_UnrelatedTextMonotonic(t *testing.T) {
	// Appending non-matching filler never raises the score
	queries := []string{"임베딩", "검색 벡터"}
	content := "임베딩 벡터를 만들어 검색 색인에 저장한다"

	for _, q := range queries {
		base := Score(q, content)
		padded := Score(q, content+" "+longFiller())

		assert.LessOrEqual(t, padded, base, "query %q", q)
	}
}

func TestScore_LongerKeywordsWeighHeavier(t *testing.T) {
	// A five-rune keyword carries the top tier weight, a three-rune
	// keyword the middle tier
	long := Score("데이터베이스", "데이터베이스 설계")
	mid := Score("데이터", "데이터 설계")

	assert.Greater(t, long, mid)
}

func TestScore_LeadingPositionBonus(t *testing.T) {
	// Rune-identical content, keyword early vs late
	early := "검색 엔진에 대한 오랜 설명이 길게 이어지는 문서입니다 " + longFiller()
	late := longFiller() + " 검색 엔진에 대한 오랜 설명이 길게 이어지는 문서입니다"

	assert.Greater(t, Score("검색", early), Score("검색", late))
}

func TestScore_ProximityBonus(t *testing.T) {
	// Given: both keywords close together vs far apart
	near := "하이브리드 검색은 벡터 유사도를 결합한다"
	far := "검색 기능에 대한 설명 " + longFiller() + " 벡터 저장소에 대한 설명"

	nearScore := Score("검색 벡터", near)
	farScore := Score("검색 벡터", far)

	assert.Greater(t, nearScore, farScore)
}

func TestScore_ProximityRequiresAllKeywords(t *testing.T) {
	// Only one of two keywords present: no proximity bonus, but still a
	// positive score
	score := Score("검색 벡터", "검색 기능만 있는 문서")

	assert.Greater(t, score, 0.0)
}

func TestScore_Deterministic(t *testing.T) {
	query := "하이브리드 검색 엔진"
	content := "하이브리드 검색 엔진은 키워드와 벡터를 결합한다"

	first := Score(query, content)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(query, content))
	}
}

// longFiller returns filler text long enough to push keywords outside the
// leading window and the proximity window.
func longFiller() string {
	s := ""
	for i := 0; i < 30; i++ {
		s += "무관한 다른 내용 "
	}
	return s
}

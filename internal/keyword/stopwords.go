package keyword

// Two-rune tokens are only kept as keywords when they are not function
// words. The set covers particles, copulas and common function words in
// both Korean and English, since queries arrive in either language.
var stopWords = map[string]struct{}{
	// Korean particles, copulas, light verbs
	"이다": {}, "있다": {}, "없다": {}, "하다": {}, "되다": {},
	"이고": {}, "이며": {}, "라서": {}, "해서": {}, "하면": {},
	"것은": {}, "것이": {}, "것을": {}, "이것": {}, "그것": {}, "저것": {},
	"에서": {}, "에게": {}, "으로": {}, "부터": {}, "까지": {},
	"또는": {}, "그와": {}, "와의": {}, "라는": {}, "라고": {},
	"입니": {}, "니다": {}, "그는": {}, "그녀": {},
	// English function words
	"am": {}, "an": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"do": {}, "go": {}, "he": {}, "if": {}, "in": {}, "is": {},
	"it": {}, "me": {}, "my": {}, "no": {}, "of": {}, "on": {},
	"or": {}, "so": {}, "to": {}, "up": {}, "us": {}, "we": {},
}

// Interrogatives are kept only when extraction finds nothing substantive,
// and then only as the sole keyword. A query that is all question words
// ("어떻게?", "what?") still needs something to match on.
var interrogatives = map[string]struct{}{
	// Korean
	"뭐": {}, "뭐야": {}, "무엇": {}, "무슨": {}, "어디": {},
	"언제": {}, "왜": {}, "어떻게": {}, "누구": {}, "어느": {},
	// English
	"what": {}, "where": {}, "when": {}, "why": {}, "how": {},
	"who": {}, "which": {},
}

// Trailing Korean particles stripped from query tokens so "RAG란" matches
// chunks containing "RAG". Longest suffixes are tried first.
var particleSuffixes = []string{
	"이란", "에서", "에게", "부터", "까지", "으로", "이나", "처럼",
	"란", "는", "은", "이", "가", "을", "를", "의", "에", "로",
	"와", "과", "도", "만", "나", "요",
}

package spacing

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStrategy scripts a cascade tier for restorer tests.
type fakeStrategy struct {
	name      string
	available bool
	output    string
	err       error
	calls     int
}

func (f *fakeStrategy) Name() string                 { return f.name }
func (f *fakeStrategy) Available(context.Context) bool { return f.available }

func (f *fakeStrategy) Restore(_ context.Context, text string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

// suspectText has an unbroken hangul run long enough to trigger the
// cascade.
const suspectText = "검색엔진은문서를찾아준다"

func TestRestore_ShortRunsLeftAlone(t *testing.T) {
	broken := &fakeStrategy{name: "broken", available: true, err: fmt.Errorf("must not be called")}
	r := NewRestorer(nil, broken)

	// Given: normally spaced Korean, an English sentence, and empty input
	for _, text := range []string{
		"검색 엔진은 문서를 찾아 준다",
		"plain english text without hangul",
		"",
	} {
		// Then: returned unchanged without consulting any strategy
		assert.Equal(t, text, r.Restore(context.Background(), text))
	}
	assert.Zero(t, broken.calls)
}

func TestRestore_FirstAvailableStrategyWins(t *testing.T) {
	first := &fakeStrategy{name: "first", available: true, output: "첫번째 결과"}
	second := &fakeStrategy{name: "second", available: true, output: "두번째 결과"}
	r := NewRestorer(nil, first, second)

	out := r.Restore(context.Background(), suspectText)

	assert.Equal(t, "첫번째 결과", out)
	assert.Zero(t, second.calls)
}

func TestRestore_FallsThroughOnFailure(t *testing.T) {
	offline := &fakeStrategy{name: "offline", available: false, output: "안 쓰임"}
	failing := &fakeStrategy{name: "failing", available: true, err: fmt.Errorf("service error")}
	working := &fakeStrategy{name: "working", available: true, output: "복원된 텍스트"}
	r := NewRestorer(nil, offline, failing, working)

	out := r.Restore(context.Background(), suspectText)

	assert.Equal(t, "복원된 텍스트", out)
	assert.Zero(t, offline.calls)
	assert.Equal(t, 1, failing.calls)
}

func TestRestore_AllStrategiesFailReturnsInput(t *testing.T) {
	failing := &fakeStrategy{name: "failing", available: true, err: fmt.Errorf("down")}
	r := NewRestorer(nil, failing)

	out := r.Restore(context.Background(), suspectText)

	assert.Equal(t, suspectText, out)
}

func TestRestore_DefaultCascadeEndsInPatterns(t *testing.T) {
	// Given: no segmenter, no tagger
	r := NewDefaultRestorer(nil, "", nil)

	// Then: the pattern tier still restores something
	out := r.Restore(context.Background(), suspectText)
	assert.NotEqual(t, suspectText, out)
	assert.Contains(t, out, " ")
}

func TestNeedsRestoration(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"검색 엔진은 문서를", false},
		{"일곱글자단어다", false},
		{"여덟글자짜리낱말이다", true},
		{suspectText, true},
		{"english only", false},
		{"", false},
		{"중간에english끼어도검색엔진은문서를", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, needsRestoration(tc.text), "text: %q", tc.text)
	}
}

func TestPatternRestore_ScriptBoundaries(t *testing.T) {
	p := NewPatternStrategy()

	cases := []struct {
		in   string
		want string
	}{
		{"한글text붙음", "한글 text 붙음"},
		{"버전2출시", "버전 2 출시"},
		{"API서버", "API 서버"},
		{"끝났다.다음문장", "끝났다. 다음문장"},
		{"done.다음", "done. 다음"},
	}
	for _, tc := range cases {
		out, err := p.Restore(context.Background(), tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, out, "input: %q", tc.in)
	}
}

func TestPatternRestore_ConnectivesAndCopulas(t *testing.T) {
	p := NewPatternStrategy()

	cases := []struct {
		in   string
		want string
	}{
		{"시작했다그리고끝났다", "시작했다그리고 끝났다"},
		{"결과입니다그래서좋다", "결과입니다 그래서 좋다"},
		{"확인했습니다하지만부족하다", "확인했습니다 하지만 부족하다"},
	}
	for _, tc := range cases {
		out, err := p.Restore(context.Background(), tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, out, "input: %q", tc.in)
	}
}

func TestPatternRestore_DigitAndAcronymBoundaries(t *testing.T) {
	p := NewPatternStrategy()

	cases := []struct {
		in   string
		want string
	}{
		{"모델명은TEST2024버전입니다", "모델명은 TEST 2024 버전입니다"},
		{"GPT4터보", "GPT 4 터보"},
		{"restAPI호출", "rest API 호출"},
		{"webAPIserver", "web API server"},
		{"JSON응답을파싱했다", "JSON 응답을파싱했다"},
		{"끝났다.2024년", "끝났다. 2024 년"},
	}
	for _, tc := range cases {
		out, err := p.Restore(context.Background(), tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, out, "input: %q", tc.in)
	}
}

func TestRestore_ConnectiveBoundarySurvivesSplitting(t *testing.T) {
	// Given: no segmenter, no tagger, a long de-spaced sentence with a
	// connective in the middle
	r := NewDefaultRestorer(nil, "", nil)

	out := r.Restore(context.Background(), "검색을시작했다그리고다음단계로진행했다")

	// Then: the run splitter may cut bluntly elsewhere, but the boundary
	// after the connective is kept
	assert.Contains(t, out, "그리고 ")
}

func TestPatternRestore_SplitsLongHangulRuns(t *testing.T) {
	p := NewPatternStrategy()

	// Given: runs straddling the split thresholds
	run7 := strings.Repeat("가", 7)
	run8 := strings.Repeat("가", 8)
	run16 := strings.Repeat("가", 16)

	out7, err := p.Restore(context.Background(), run7)
	require.NoError(t, err)
	out8, err := p.Restore(context.Background(), run8)
	require.NoError(t, err)
	out16, err := p.Restore(context.Background(), run16)
	require.NoError(t, err)

	// Then: seven syllables pass, eight split in half, sixteen in thirds
	assert.Equal(t, run7, out7)
	assert.Equal(t, strings.Repeat("가", 4)+" "+strings.Repeat("가", 4), out8)
	assert.Len(t, strings.Fields(out16), 3)

	// And: no output word reaches the suspect length again
	for _, f := range strings.Fields(out16) {
		assert.Less(t, len([]rune(f)), midRun)
	}
}

func TestPatternRestore_Idempotent(t *testing.T) {
	p := NewPatternStrategy()

	inputs := []string{
		"검색엔진은문서를찾아준다",
		strings.Repeat("가", 20),
		"한글text붙은경우와긴한글연속구간이같이있다",
		"끝났다.다음문장이시작된다",
		"결제가끝났습니다그리고다음단계로넘어간다",
		"restAPI서버와JSON응답2024버전",
	}
	for _, in := range inputs {
		once, err := p.Restore(context.Background(), in)
		require.NoError(t, err)
		twice, err := p.Restore(context.Background(), once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "input: %q", in)
	}
}

func TestPatternRestore_WhitespaceNormalized(t *testing.T) {
	p := NewPatternStrategy()

	out, err := p.Restore(context.Background(), "띄어쓰기가   많다  .  그리고\t탭")

	require.NoError(t, err)
	assert.Equal(t, "띄어쓰기가 많다. 그리고 탭", out)
}

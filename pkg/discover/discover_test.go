package discover

import (
	"math"
	"slices"
	"testing"

	"github.com/bastiangx/wordmine/pkg/ngram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openOptions() Options {
	opts := DefaultOptions()
	opts.MinPMI = 0
	opts.MinEntropy = 0
	return opts
}

func words(seq func(func(Record) bool)) []string {
	var out []string
	for rec := range seq {
		out = append(out, rec.Word)
	}
	return out
}

func TestPMITwoChars(t *testing.T) {
	s := ngram.NewStore()
	for range 2 {
		s.Insert("ab")
		s.Insert("b")
	}
	for range 4 {
		s.Insert("a")
	}
	// 2*8 / (4*2)
	pmi, ok := PMI(s, "ab", s.Freq("ab"), s.Total())
	require.True(t, ok)
	assert.InDelta(t, 1.0, pmi, 1e-12)
}

func TestPMINoValidSplit(t *testing.T) {
	s := ngram.NewStore()
	s.Insert("ab")
	_, ok := PMI(s, "ab", 1, s.Total())
	assert.False(t, ok)
}

func TestPMIUsesWeakestSplit(t *testing.T) {
	s := ngram.NewStore()
	for _, w := range []string{"abc", "abc", "a", "bc", "ab", "ab", "ab", "c", "c"} {
		s.Insert(w)
	}
	total := s.Total()
	// a|bc = 2*9/(1*1) = 18, ab|c = 2*9/(3*2) = 3
	pmi, ok := PMI(s, "abc", 2, total)
	require.True(t, ok)
	assert.InDelta(t, math.Log2(3), pmi, 1e-12)
}

func TestEntropy(t *testing.T) {
	assert.Equal(t, 0.0, Entropy(nil))
	assert.Equal(t, 0.0, Entropy([]ngram.Neighbor{{Char: 'x', Count: 7}}))

	for _, k := range []int{2, 4, 5} {
		nbs := make([]ngram.Neighbor, k)
		for i := range nbs {
			nbs[i] = ngram.Neighbor{Char: rune('a' + i), Count: 3}
		}
		assert.InDelta(t, math.Log2(float64(k)), Entropy(nbs), 1e-12, "k=%d", k)
	}
}

func TestEntropyTakesSmallerSide(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"varied left, fixed right", "xabcq,yabcq,zabcq,wabcq", 0},
		{"fixed left, varied right", "qabcx,qabcy,qabcz,qabcw", 0},
		{"varied both sides", "xabcx,yabcy,zabcz,wabcw", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(openOptions())
			e.Parse(tt.text)

			rec, ok := e.Record("abc")
			require.True(t, ok)
			assert.Equal(t, 4, rec.Freq)
			assert.InDelta(t, tt.want, rec.Entropy, 1e-12)
		})
	}
}

func TestParseRepeatedText(t *testing.T) {
	e := New(openOptions())
	e.Parse("abcabcabc")

	// 9+8+7+6+5+4 windows
	require.Equal(t, 39, e.Forward().Total())

	rec, ok := e.Record("abc")
	require.True(t, ok)
	assert.Equal(t, 3, rec.Freq)
	assert.InDelta(t, math.Log2(13), rec.PMI, 1e-9)
	// abc is always followed by a
	assert.Equal(t, 0.0, rec.Entropy)

	_, ok = e.Record("ab")
	assert.False(t, ok, "shorter than min_len")
	_, ok = e.Record("cabca")
	assert.False(t, ok, "below min_freq")
}

func TestCandidatesByFreqTieBreak(t *testing.T) {
	e := New(openOptions())
	e.Parse("abcabcabc")

	got := words(e.Candidates(SortFreq))
	want := []string{"abc", "abca", "abcab", "abcabc", "bca", "bcab", "bcabc", "cab", "cabc"}
	assert.Equal(t, want, got)
}

func TestCandidatesEqualPMIOrderedByWord(t *testing.T) {
	e := New(openOptions())
	e.Parse("abcabcabc")

	bca, _ := e.Record("bca")
	cab, _ := e.Record("cab")
	require.Equal(t, bca.PMI, cab.PMI)

	got := words(e.Candidates(SortPMI))
	assert.Less(t, slices.Index(got, "bca"), slices.Index(got, "cab"))
}

func TestCandidatesSorted(t *testing.T) {
	e := New(openOptions())
	e.Parse("自然语言处理很有趣，自然语言处理很难。我们学习自然语言处理，也学习机器学习。")

	for _, key := range []SortKey{SortPMI, SortEntropy, SortFreq} {
		prev := math.Inf(1)
		for rec := range e.Candidates(key) {
			assert.LessOrEqual(t, rec.Value(key), prev, key.String())
			prev = rec.Value(key)
		}
	}
}

func TestCandidatesMonotonicThresholds(t *testing.T) {
	text := "自然语言处理很有趣，自然语言处理很难。我们学习自然语言处理，也学习机器学习，机器学习很有趣。"

	collect := func(minPMI, minEntropy float64) map[string]bool {
		opts := openOptions()
		opts.MinLen = 2
		opts.MinPMI = minPMI
		opts.MinEntropy = minEntropy
		e := New(opts)
		e.Parse(text)
		out := map[string]bool{}
		for rec := range e.Candidates(SortPMI) {
			assert.GreaterOrEqual(t, rec.PMI, minPMI)
			assert.GreaterOrEqual(t, rec.Entropy, minEntropy)
			out[rec.Word] = true
		}
		return out
	}

	loose := collect(0, 0)
	require.NotEmpty(t, loose)
	for _, th := range [][2]float64{{2, 0}, {0, 0.5}, {4, 1}} {
		strict := collect(th[0], th[1])
		for w := range strict {
			assert.True(t, loose[w], "%q passed %v but not the loose thresholds", w, th)
		}
	}
}

func TestCandidatesSkipNumbersAndTones(t *testing.T) {
	e := New(openOptions())
	e.Parse("123 123 123 好啊呀 好啊呀")

	rec, ok := e.Record("123")
	require.True(t, ok)
	assert.True(t, e.Filter().Passes(rec))

	got := words(e.Candidates(SortPMI))
	assert.NotContains(t, got, "123")
	assert.NotContains(t, got, "好啊呀")
}

func TestFilterSkip(t *testing.T) {
	opts := DefaultOptions()
	opts.StopTerms = []string{"然后呢"}
	opts.StopChars = "的"
	f := NewFilter(opts)

	tests := []struct {
		word string
		skip bool
	}{
		{"123", true},
		{"一二三", true},
		{"2024年", true},
		{"十月五日", true},
		{"2024年的", true},
		{"年2024", false},
		{"好吧好", true},
		{"然后呢", true},
		{"我的天", true},
		{"区块链", false},
		{"3d打印", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.skip, f.Skip(tt.word), tt.word)
	}
}

func TestRecordsSortedByWord(t *testing.T) {
	e := New(openOptions())
	e.Parse("abcabcabc")
	got := words(e.Records())
	assert.True(t, slices.IsSorted(got))
	assert.Equal(t, e.Len(), len(got))
}

func TestParseAccumulates(t *testing.T) {
	e := New(openOptions())
	e.Parse("abcabc")
	first, ok := e.Record("abc")
	require.True(t, ok)
	e.Parse("abc")
	second, _ := e.Record("abc")
	assert.Equal(t, first.Freq+1, second.Freq)
}

func TestParseSortKey(t *testing.T) {
	for _, s := range []string{"pmi", "entropy", "freq"} {
		k, err := ParseSortKey(s)
		require.NoError(t, err)
		assert.Equal(t, s, k.String())
	}
	_, err := ParseSortKey("bogus")
	assert.Error(t, err)
}

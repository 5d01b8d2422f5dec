package pipeline

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/bastiangx/wordmine/pkg/config"
	"github.com/bastiangx/wordmine/pkg/discover"
	"github.com/bastiangx/wordmine/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixed []string

func (f fixed) Extract(string, int) []string { return f }

func looseOptions(key discover.SortKey, weight float64) Options {
	d := discover.DefaultOptions()
	d.MinPMI = 0
	d.MinEntropy = 0
	return Options{Discover: d, SortBy: key, RankWeight: weight, Count: 10}
}

func words(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Word
	}
	return out
}

func TestReadSentences(t *testing.T) {
	got, err := ReadSentences(strings.NewReader("# header\n  第一句  \n\n\t\n第二句\n#不要\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"第一句\n", "第二句\n"}, got)

	got, err = ReadSentences(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRunSubtractsKnownWords(t *testing.T) {
	p := New(looseOptions(discover.SortFreq, 100), fixed{"abc", "xy"})
	res := p.Run([]string{"abcabcabc\n"})

	want := []string{"abca", "abcab", "abcabc", "bca", "bcab", "bcabc", "cab", "cabc"}
	assert.Equal(t, want, words(res.Candidates))
	assert.Equal(t, []report.Entry{{Word: "abc", Freq: 1}, {Word: "xy", Freq: 1}}, res.Report.Known)
	require.Len(t, res.Report.New, len(want))
	assert.Equal(t, report.Entry{Word: "abca", Freq: 2}, res.Report.New[0])
}

func TestRunCompositeRank(t *testing.T) {
	p := New(looseOptions(discover.SortPMI, 100), nil)
	res := p.Run([]string{"abcabcabc\n"})
	require.NotEmpty(t, res.Candidates)

	// frequency dominates with the default weight
	assert.Equal(t, "abc", res.Candidates[0].Word)
	for _, c := range res.Candidates {
		assert.InDelta(t, float64(c.Freq)*100+c.PMI, c.Rank, 1e-9)
	}
	assert.True(t, slices.IsSortedFunc(res.Candidates, func(a, b Candidate) int {
		switch {
		case a.Rank > b.Rank:
			return -1
		case a.Rank < b.Rank:
			return 1
		}
		return strings.Compare(a.Word, b.Word)
	}))
}

func TestRunZeroWeightKeepsEngineOrder(t *testing.T) {
	opts := looseOptions(discover.SortPMI, 0)
	res := New(opts, nil).Run([]string{"abcabcabc\n"})

	e := discover.New(opts.Discover)
	e.Parse("abcabcabc\n")
	var want []string
	for rec := range e.Candidates(discover.SortPMI) {
		want = append(want, rec.Word)
	}
	assert.Equal(t, want, words(res.Candidates))
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "corpus.txt")
	require.NoError(t, os.WriteFile(in, []byte("# notes\nabcabcabc\n"), 0o644))

	p := New(looseOptions(discover.SortFreq, 100), fixed{"abc"})
	out, res, err := p.RunFile(in)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "corpus_words_seq.txt"), out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	back, err := report.Read(f)
	require.NoError(t, err)
	assert.Equal(t, res.Report.New, back.New)
	assert.Equal(t, res.Report.Known, back.Known)
}

func TestRunFileMissingInput(t *testing.T) {
	p := New(looseOptions(discover.SortPMI, 100), nil)
	_, _, err := p.RunFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Discover.SortBy = "entropy"
	cfg.Discover.RankWeight = 7
	opts, err := OptionsFromConfig(cfg, &config.Stoplist{Chars: "的"})
	require.NoError(t, err)
	assert.Equal(t, discover.SortEntropy, opts.SortBy)
	assert.Equal(t, 7.0, opts.RankWeight)
	assert.Equal(t, "的", opts.Discover.StopChars)
	assert.Equal(t, "_words_seq.txt", opts.Suffix)

	cfg.Discover.SortBy = "nope"
	_, err = OptionsFromConfig(cfg, nil)
	assert.Error(t, err)
}

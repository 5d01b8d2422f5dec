// Package extract finds the known words of a sentence with a dictionary.
package extract

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bastiangx/wordmine/pkg/lexicon"
	"github.com/charmbracelet/log"
)

// Extractor returns up to n words of sentence.
type Extractor interface {
	Extract(sentence string, n int) []string
}

// Nop extracts nothing. It is used when no dictionary is configured.
type Nop struct{}

func (Nop) Extract(string, int) []string { return nil }

// unknownLogProb is the score of a single rune absent from the dictionary.
const unknownLogProb = -20.0

// DictExtractor segments sentences along the most probable path through the
// dictionary words they contain.
type DictExtractor struct {
	dict     *lexicon.Lexicon
	logTotal float64
}

// NewDictExtractor wraps dict, which must not change afterwards.
func NewDictExtractor(dict *lexicon.Lexicon) *DictExtractor {
	logTotal := 0.0
	if t := dict.Total(); t > 0 {
		logTotal = math.Log(float64(t))
	}
	return &DictExtractor{dict: dict, logTotal: logTotal}
}

func (d *DictExtractor) logProb(freq int) float64 {
	if freq <= 0 || d.logTotal == 0 {
		return unknownLogProb
	}
	return math.Log(float64(freq)) - d.logTotal
}

// Cut segments sentence. Runes not covered by any dictionary word become
// single-rune tokens, and runs of letters or digits stay whole.
func (d *DictExtractor) Cut(sentence string) []string {
	runes := []rune(sentence)
	n := len(runes)
	if n == 0 {
		return nil
	}
	offsets := make([]int, 0, n)
	for i := range sentence {
		offsets = append(offsets, i)
	}

	// dag[i] lists the exclusive end offsets of candidate words starting at i.
	dag := make([][]int, n)
	for i := range n {
		for _, e := range d.dict.Prefixes(sentence[offsets[i]:]) {
			dag[i] = append(dag[i], i+utf8.RuneCountInString(e.Word))
		}
		if isAlphaNum(runes[i]) {
			j := i
			for j < n && isAlphaNum(runes[j]) {
				j++
			}
			if !slices.Contains(dag[i], j) {
				dag[i] = append(dag[i], j)
			}
		}
		if len(dag[i]) == 0 {
			dag[i] = append(dag[i], i+1)
		}
	}

	type route struct {
		prob float64
		end  int
	}
	routes := make([]route, n+1)
	for i := n - 1; i >= 0; i-- {
		best := route{prob: math.Inf(-1), end: i + 1}
		for _, end := range dag[i] {
			p := d.logProb(d.dict.Freq(string(runes[i:end]))) + routes[end].prob
			if p > best.prob {
				best = route{prob: p, end: end}
			}
		}
		routes[i] = best
	}

	var out []string
	for i := 0; i < n; i = routes[i].end {
		out = append(out, string(runes[i:routes[i].end]))
	}
	return out
}

// Extract returns up to n distinct multi-rune dictionary words of sentence,
// ranked by occurrences in the sentence, then dictionary frequency, then
// word. n <= 0 means no limit.
func (d *DictExtractor) Extract(sentence string, n int) []string {
	counts := make(map[string]int)
	for _, tok := range d.Cut(sentence) {
		if utf8.RuneCountInString(tok) < 2 || !d.dict.Contains(tok) {
			continue
		}
		counts[tok]++
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	slices.SortFunc(words, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		if c := cmp.Compare(d.dict.Freq(b), d.dict.Freq(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	if n > 0 && len(words) > n {
		words = words[:n]
	}
	return words
}

// Known runs ex over every sentence and counts each extracted word of more
// than one rune.
func Known(ex Extractor, sentences []string, n int) *lexicon.Lexicon {
	known := lexicon.New()
	for _, s := range sentences {
		for _, w := range ex.Extract(s, n) {
			if utf8.RuneCountInString(w) > 1 {
				known.Add(w, 1)
			}
		}
	}
	log.Debugf("Extracted %d known words from %d sentences", known.Len(), len(sentences))
	return known
}

func isAlphaNum(r rune) bool {
	return r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

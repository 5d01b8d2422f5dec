package ngram

import (
	"iter"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultMaxLen bounds the window size, and with it the longest word that can
// be discovered.
const DefaultMaxLen = 6

// DefaultPunctuation is the ASCII + CJK punctuation and whitespace set that
// splits text into segments.
const DefaultPunctuation = ".:;?! \t\r\n~,-_()[\\]<>。：；？！~，、——（）【】《》＃＊＝＋/｜‘’“”￥#*=+|'\"^$%`"

// Generator cuts text into punctuation-free segments and emits every window
// of length 1..maxLen inside each segment.
type Generator struct {
	maxLen int
	punct  map[rune]struct{}
}

// NewGenerator builds a Generator. maxLen < 1 falls back to DefaultMaxLen.
func NewGenerator(maxLen int, punctuation string) *Generator {
	if maxLen < 1 {
		maxLen = DefaultMaxLen
	}
	punct := make(map[rune]struct{}, len(punctuation))
	for _, r := range punctuation {
		punct[r] = struct{}{}
	}
	return &Generator{maxLen: maxLen, punct: punct}
}

// MaxLen returns the window bound.
func (g *Generator) MaxLen() int {
	return g.maxLen
}

// IsPunct reports whether r separates segments.
func (g *Generator) IsPunct(r rune) bool {
	_, ok := g.punct[r]
	return ok
}

// Segments yields the maximal runs of non-punctuation runes of the case
// folded text. The trailing run is flushed at end of text.
func (g *Generator) Segments(text string) iter.Seq[[]rune] {
	folded := cases.Lower(language.Und).String(text)
	return func(yield func([]rune) bool) {
		var seg []rune
		for _, r := range folded {
			if !g.IsPunct(r) {
				seg = append(seg, r)
				continue
			}
			if len(seg) == 0 {
				continue
			}
			if !yield(seg) {
				return
			}
			seg = nil
		}
		if len(seg) > 0 {
			yield(seg)
		}
	}
}

// NGrams yields, segment by segment, all windows ordered by size then offset.
func (g *Generator) NGrams(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for seg := range g.Segments(text) {
			n := min(g.maxLen, len(seg))
			for size := 1; size <= n; size++ {
				for i := 0; i+size <= len(seg); i++ {
					if !yield(string(seg[i : i+size])) {
						return
					}
				}
			}
		}
	}
}

// Generate collects NGrams into a slice.
func (g *Generator) Generate(text string) []string {
	return slices.Collect(g.NGrams(text))
}

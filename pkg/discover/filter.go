package discover

import (
	"cmp"
	"iter"
	"regexp"
	"slices"
	"strings"

	"github.com/bastiangx/wordmine/internal/utils"
)

// dateRe matches words starting with a date fragment such as 2024年 or 十月五日.
var dateRe = regexp.MustCompile(`^[` + utils.Numerals + `]{1,4}[年月日]([` + utils.Numerals + `]{1,4}[年月日])?`)

// Filter decides which scored records become candidates.
type Filter struct {
	minPMI     float64
	minEntropy float64
	chars      map[rune]struct{}
	terms      map[string]struct{}
}

// NewFilter builds a Filter from the thresholds and exclusion lists of opts.
func NewFilter(opts Options) *Filter {
	terms := make(map[string]struct{}, len(opts.StopTerms))
	for _, t := range opts.StopTerms {
		terms[t] = struct{}{}
	}
	return &Filter{
		minPMI:     opts.MinPMI,
		minEntropy: opts.MinEntropy,
		chars:      utils.RuneSet(opts.Tones + opts.StopChars),
		terms:      terms,
	}
}

// Passes reports whether r clears both score thresholds.
func (f *Filter) Passes(r Record) bool {
	return r.PMI >= f.minPMI && r.Entropy >= f.minEntropy
}

// Skip reports whether word is excluded regardless of its scores: it holds a
// filler or stop character, is a stop term, starts like a date, or is a bare
// number.
func (f *Filter) Skip(word string) bool {
	for _, r := range word {
		if _, ok := f.chars[r]; ok {
			return true
		}
	}
	if _, ok := f.terms[word]; ok {
		return true
	}
	if dateRe.MatchString(word) {
		return true
	}
	return utils.IsOnlyNumerals(word)
}

// Candidates yields the accepted records ordered by key, highest first.
// Equal scores are ordered by word.
func (e *Engine) Candidates(key SortKey) iter.Seq[Record] {
	var passed []Record
	for _, rec := range e.records {
		if e.filter.Passes(*rec) {
			passed = append(passed, *rec)
		}
	}
	slices.SortFunc(passed, func(a, b Record) int {
		if c := cmp.Compare(b.Value(key), a.Value(key)); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})
	return func(yield func(Record) bool) {
		for _, rec := range passed {
			if e.filter.Skip(rec.Word) {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// Filter returns the filter the engine ranks with.
func (e *Engine) Filter() *Filter {
	return e.filter
}

// Package discover scores n-grams as new-word candidates.
//
// Text is cut into n-grams which are indexed twice: as-is in a forward store
// and reversed in a backward store. Every n-gram that is long and frequent
// enough gets a cohesion score (PMI, minimized over all binary splits) and a
// boundary score (the smaller of its left and right neighbor entropies).
// Candidates clearing both thresholds are ranked by a chosen score.
package discover

import (
	"iter"
	"maps"
	"math"
	"slices"
	"unicode/utf8"

	"github.com/bastiangx/wordmine/internal/utils"
	"github.com/bastiangx/wordmine/pkg/ngram"
	"github.com/charmbracelet/log"
)

// Record is the score of one candidate word.
type Record struct {
	Word    string
	Freq    int
	PMI     float64
	Entropy float64
}

// Value returns the field named by key.
func (r Record) Value(key SortKey) float64 {
	switch key {
	case SortEntropy:
		return r.Entropy
	case SortFreq:
		return float64(r.Freq)
	default:
		return r.PMI
	}
}

// Engine owns one forward/backward store pair and the records scored from
// them. An Engine is not safe for concurrent use; give each text its own.
type Engine struct {
	opts     Options
	gen      *ngram.Generator
	forward  *ngram.Store
	backward *ngram.Store
	records  map[string]*Record
	filter   *Filter
}

// New creates an Engine with empty stores.
func New(opts Options) *Engine {
	return &Engine{
		opts:     opts,
		gen:      ngram.NewGenerator(opts.MaxLen, opts.Punctuation),
		forward:  ngram.NewStore(),
		backward: ngram.NewStore(),
		records:  make(map[string]*Record),
		filter:   NewFilter(opts),
	}
}

// Parse indexes text and rescores every candidate. Calling Parse again adds
// the new text to the same stores.
func (e *Engine) Parse(text string) {
	e.Index(text)
	e.Score()
}

// Index adds the n-grams of text to both stores without scoring.
func (e *Engine) Index(text string) {
	n := 0
	for gram := range e.gen.NGrams(text) {
		e.forward.Insert(gram)
		e.backward.Insert(utils.Reverse(gram))
		n++
	}
	log.Debugf("Indexed %d n-grams, forward store holds %d nodes", n, e.forward.Len())
}

// Score recomputes all records from the current stores.
func (e *Engine) Score() {
	e.records = make(map[string]*Record)
	e.scorePMI()
	e.scoreEntropy()
	log.Debugf("Scored %d candidates out of %d n-grams", len(e.records), e.forward.Total())
}

func (e *Engine) scorePMI() {
	total := e.forward.Total()
	for word, count := range e.forward.Words() {
		if count < e.opts.MinFreq || utf8.RuneCountInString(word) < e.opts.MinLen {
			continue
		}
		pmi, ok := PMI(e.forward, word, count, total)
		if !ok {
			continue
		}
		e.records[word] = &Record{Word: word, Freq: count, PMI: pmi}
	}
}

func (e *Engine) scoreEntropy() {
	for word, rec := range e.records {
		right := Entropy(e.forward.Children(word))
		left := Entropy(e.backward.Children(utils.Reverse(word)))
		rec.Entropy = math.Min(left, right)
	}
}

// PMI scores word, which occurs count times among total n-grams, by its
// weakest binary split: log2 of the smallest count*total/(left*right).
// Splits with an unseen side are ignored; ok is false when none remain.
func PMI(store *ngram.Store, word string, count, total int) (pmi float64, ok bool) {
	best := math.Inf(1)
	for i := range word {
		if i == 0 {
			continue
		}
		left := store.Freq(word[:i])
		right := store.Freq(word[i:])
		if left == 0 || right == 0 {
			continue
		}
		ratio := float64(count) * float64(total) / float64(left) / float64(right)
		if ratio < best {
			best = ratio
		}
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return math.Log2(best), true
}

// Entropy is the Shannon entropy, in bits, of the neighbor counts.
// No neighbors means no uncertainty.
func Entropy(neighbors []ngram.Neighbor) float64 {
	sum := 0
	for _, nb := range neighbors {
		if nb.Count > 0 {
			sum += nb.Count
		}
	}
	if sum == 0 {
		return 0
	}
	h := 0.0
	for _, nb := range neighbors {
		if nb.Count <= 0 {
			continue
		}
		p := float64(nb.Count) / float64(sum)
		h -= p * math.Log2(p)
	}
	return h
}

// Record returns the score of word, if it was scored.
func (e *Engine) Record(word string) (Record, bool) {
	rec, ok := e.records[word]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Records yields every scored record in word order, filtered or not.
func (e *Engine) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, word := range slices.Sorted(maps.Keys(e.records)) {
			if !yield(*e.records[word]) {
				return
			}
		}
	}
}

// Len is the number of scored records.
func (e *Engine) Len() int {
	return len(e.records)
}

// Forward exposes the forward store for inspection.
func (e *Engine) Forward() *ngram.Store {
	return e.forward
}

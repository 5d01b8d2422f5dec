// Package lexicon is a word → frequency map backed by a patricia trie, used
// for known-word sets and for dictionary prefix matching.
package lexicon

import (
	"cmp"
	"iter"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Entry is one word with its frequency.
type Entry struct {
	Word string
	Freq int
}

// Lexicon is safe for concurrent use.
type Lexicon struct {
	mu     sync.RWMutex
	trie   *patricia.Trie
	size   int
	total  int
	maxLen int
}

// New returns an empty Lexicon.
func New() *Lexicon {
	return &Lexicon{trie: patricia.NewTrie()}
}

// Add adds freq occurrences of word. Empty words and non-positive
// frequencies are ignored.
func (l *Lexicon) Add(word string, freq int) {
	if word == "" || freq <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	key := patricia.Prefix(word)
	if item := l.trie.Get(key); item != nil {
		l.trie.Set(key, item.(int)+freq)
	} else {
		l.trie.Insert(key, freq)
		l.size++
		if n := utf8.RuneCountInString(word); n > l.maxLen {
			l.maxLen = n
		}
	}
	l.total += freq
}

// Freq returns the frequency of word, 0 if absent.
func (l *Lexicon) Freq(word string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if item := l.trie.Get(patricia.Prefix(word)); item != nil {
		return item.(int)
	}
	return 0
}

// Contains reports whether word was added.
func (l *Lexicon) Contains(word string) bool {
	return l.Freq(word) > 0
}

// Len is the number of distinct words.
func (l *Lexicon) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}

// Total is the sum of all frequencies.
func (l *Lexicon) Total() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.total
}

// MaxLen is the rune length of the longest word.
func (l *Lexicon) MaxLen() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.maxLen
}

// Prefixes returns the words that are prefixes of s, shortest first.
func (l *Lexicon) Prefixes(s string) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Entry
	err := l.trie.VisitPrefixes(patricia.Prefix(s), func(p patricia.Prefix, item patricia.Item) error {
		out = append(out, Entry{Word: string(p), Freq: item.(int)})
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting lexicon prefixes: %v", err)
	}
	return out
}

// Words yields every entry in byte order of the word.
func (l *Lexicon) Words() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range l.snapshot() {
			if !yield(e) {
				return
			}
		}
	}
}

// Ranked returns all entries by frequency descending, ties by word.
func (l *Lexicon) Ranked() []Entry {
	out := l.snapshot()
	sortEntries(out)
	return out
}

func (l *Lexicon) snapshot() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, 0, l.size)
	_ = l.trie.Visit(func(p patricia.Prefix, item patricia.Item) error {
		out = append(out, Entry{Word: string(p), Freq: item.(int)})
		return nil
	})
	slices.SortFunc(out, func(a, b Entry) int {
		return strings.Compare(a.Word, b.Word)
	})
	return out
}

func sortEntries(es []Entry) {
	slices.SortFunc(es, func(a, b Entry) int {
		if c := cmp.Compare(b.Freq, a.Freq); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})
}

// Package ngram builds the counted prefix index that new-word scoring reads
// from, and turns raw text into the n-grams that populate it.
package ngram

import (
	"cmp"
	"iter"
	"slices"
)

const rootIndex int32 = 0

// node is one rune position in the tree. count only counts insertions that
// ended exactly here, never the subtree.
type node struct {
	char     rune
	count    int
	children map[rune]int32
}

// Neighbor is a child rune of a sequence together with the count of its node.
type Neighbor struct {
	Char  rune
	Count int
}

// Store is a rune prefix tree with per-node insertion counts.
// Nodes live in one arena slice and are addressed by index, node 0 is the root.
// A Store is not safe for concurrent use.
type Store struct {
	nodes []node
	total int
}

// NewStore returns an empty Store holding only the root.
func NewStore() *Store {
	return &Store{nodes: make([]node, 1, 1024)}
}

// Insert records one occurrence of seq. Empty sequences are ignored.
func (s *Store) Insert(seq string) {
	if seq == "" {
		return
	}
	cur := rootIndex
	for _, r := range seq {
		next, ok := s.nodes[cur].children[r]
		if !ok {
			next = int32(len(s.nodes))
			s.nodes = append(s.nodes, node{char: r})
			if s.nodes[cur].children == nil {
				s.nodes[cur].children = make(map[rune]int32, 4)
			}
			s.nodes[cur].children[r] = next
		}
		cur = next
	}
	s.nodes[cur].count++
	s.total++
}

// lookup walks seq from the root and reports the terminal node index.
func (s *Store) lookup(seq string) (int32, bool) {
	cur := rootIndex
	for _, r := range seq {
		next, ok := s.nodes[cur].children[r]
		if !ok {
			return 0, false
		}
		cur = next
	}
	return cur, true
}

// Freq returns how many times seq was inserted, 0 when it never was.
func (s *Store) Freq(seq string) int {
	idx, ok := s.lookup(seq)
	if !ok {
		return 0
	}
	return s.nodes[idx].count
}

// Children returns every rune that directly extends seq in the tree, with the
// count of the extended sequence. The result is ordered by rune and is empty
// when seq is absent.
func (s *Store) Children(seq string) []Neighbor {
	idx, ok := s.lookup(seq)
	if !ok {
		return nil
	}
	return s.childrenOf(idx)
}

func (s *Store) childrenOf(idx int32) []Neighbor {
	kids := s.nodes[idx].children
	if len(kids) == 0 {
		return nil
	}
	out := make([]Neighbor, 0, len(kids))
	for r, child := range kids {
		out = append(out, Neighbor{Char: r, Count: s.nodes[child].count})
	}
	slices.SortFunc(out, func(a, b Neighbor) int { return cmp.Compare(a.Char, b.Char) })
	return out
}

// Words yields every inserted sequence with its count, breadth first.
// Each call starts a fresh traversal from the root.
func (s *Store) Words() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		type entry struct {
			prefix []rune
			idx    int32
		}
		queue := []entry{{idx: rootIndex}}
		for len(queue) > 0 {
			head := queue[0]
			queue = queue[1:]
			for _, nb := range s.childrenOf(head.idx) {
				child := s.nodes[head.idx].children[nb.Char]
				prefix := make([]rune, len(head.prefix)+1)
				copy(prefix, head.prefix)
				prefix[len(head.prefix)] = s.nodes[child].char
				if nb.Count > 0 && !yield(string(prefix), nb.Count) {
					return
				}
				queue = append(queue, entry{prefix: prefix, idx: child})
			}
		}
	}
}

// Total is the number of non-empty Insert calls.
func (s *Store) Total() int {
	return s.total
}

// Len is the number of nodes below the root.
func (s *Store) Len() int {
	return len(s.nodes) - 1
}

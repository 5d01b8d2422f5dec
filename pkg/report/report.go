// Package report reads, writes and aggregates result files.
//
// A result file has two tab-separated sections, each opened by a header row
// whose count column is 词频:
//
//	新词	词频
//	区块链	12
//
//	已知词	词频
//	比特币	30
package report

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	// CountHeader marks a section header row.
	CountHeader = "词频"
	// NewHeader opens the new-word section; any other header opens the
	// known-word section.
	NewHeader   = "新词"
	KnownHeader = "已知词"
)

// ErrMalformedRow is returned by ParseRow for rows that are not a word and
// an integer count separated by one tab.
var ErrMalformedRow = errors.New("malformed row")

// Entry is one word row.
type Entry struct {
	Word string
	Freq int
}

// Report holds both sections in output order.
type Report struct {
	New   []Entry
	Known []Entry
}

// Write renders r in the result file format.
func Write(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\t%s\n", NewHeader, CountHeader)
	for _, e := range r.New {
		fmt.Fprintf(bw, "%s\t%d\n", e.Word, e.Freq)
	}
	fmt.Fprintf(bw, "\n%s\t%s\n", KnownHeader, CountHeader)
	for _, e := range r.Known {
		fmt.Fprintf(bw, "%s\t%d\n", e.Word, e.Freq)
	}
	return bw.Flush()
}

// Read parses a single result file, keeping row order. Duplicate words are
// summed into their first row.
func Read(r io.Reader) (*Report, error) {
	var (
		rep      Report
		inNew    = true
		newIdx   = map[string]int{}
		knownIdx = map[string]int{}
	)
	err := scanRows(r, func(word string, count int, header bool) {
		if header {
			inNew = word == NewHeader
			return
		}
		if inNew {
			rep.New = appendOrSum(rep.New, newIdx, word, count)
		} else {
			rep.Known = appendOrSum(rep.Known, knownIdx, word, count)
		}
	})
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func appendOrSum(es []Entry, idx map[string]int, word string, count int) []Entry {
	if i, ok := idx[word]; ok {
		es[i].Freq += count
		return es
	}
	idx[word] = len(es)
	return append(es, Entry{Word: word, Freq: count})
}

// ParseRow splits a trimmed row into word and count. Header rows come back
// with header set and count 0.
func ParseRow(line string) (word string, count int, header bool, err error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 2 {
		return "", 0, false, fmt.Errorf("%w: %d fields", ErrMalformedRow, len(fields))
	}
	if fields[1] == CountHeader {
		return fields[0], 0, true, nil
	}
	count, err = strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, false, fmt.Errorf("%w: count %q", ErrMalformedRow, fields[1])
	}
	return fields[0], count, false, nil
}

// scanRows calls fn for every well-formed row of r. Rows are trimmed; blank
// rows, # rows and malformed rows are skipped.
func scanRows(r io.Reader, fn func(word string, count int, header bool)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for scanner.Scan() {
		line++
		row := strings.TrimSpace(scanner.Text())
		if row == "" || strings.HasPrefix(row, "#") {
			continue
		}
		word, count, header, err := ParseRow(row)
		if err != nil {
			log.Debugf("Skipping line %d: %v", line, err)
			continue
		}
		fn(word, count, header)
	}
	return scanner.Err()
}

// Sorted turns a word → count map into entries by count descending, ties by
// word.
func Sorted(counts map[string]int) []Entry {
	out := make([]Entry, 0, len(counts))
	for _, w := range slices.Sorted(maps.Keys(counts)) {
		out = append(out, Entry{Word: w, Freq: counts[w]})
	}
	slices.SortStableFunc(out, func(a, b Entry) int {
		return cmp.Compare(b.Freq, a.Freq)
	})
	return out
}

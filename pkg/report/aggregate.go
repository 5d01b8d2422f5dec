package report

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/charmbracelet/log"
)

// Aggregator sums result files into one report. Build one per run.
type Aggregator struct {
	pattern  *regexp.Regexp
	newWords map[string]int
	known    map[string]int
	files    int
	progress io.Writer
}

// NewAggregator matches file paths against pattern, anchored at the start
// of the path.
func NewAggregator(pattern string) (*Aggregator, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}
	return &Aggregator{
		pattern:  re,
		newWords: make(map[string]int),
		known:    make(map[string]int),
	}, nil
}

// Matches reports whether path would be picked up by Scan.
func (a *Aggregator) Matches(path string) bool {
	return a.pattern.MatchString(path)
}

// SetProgress makes Scan print a line to w for each file it counts.
func (a *Aggregator) SetProgress(w io.Writer) {
	a.progress = w
}

// Add sums the rows of one result file. Each file starts in the new-word
// section.
func (a *Aggregator) Add(r io.Reader) error {
	inNew := true
	err := scanRows(r, func(word string, count int, header bool) {
		switch {
		case header:
			inNew = word == NewHeader
		case inNew:
			a.newWords[word] += count
		default:
			a.known[word] += count
		}
	})
	if err != nil {
		return err
	}
	a.files++
	return nil
}

// AddFile opens path and adds it.
func (a *Aggregator) AddFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open result file: %w", err)
	}
	defer f.Close()
	if err := a.Add(f); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

// Scan walks root and adds every regular file whose path matches the
// pattern. Paths under the current directory are matched with a leading
// "./", so a pattern like .+words_seq.txt also finds words_seq.txt at the
// top. It returns the number of files added.
func (a *Aggregator) Scan(root string) (int, error) {
	before := a.files
	cwd := filepath.Clean(root) == "."
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := path
		if cwd {
			name = "./" + filepath.ToSlash(path)
		}
		if !a.Matches(name) {
			return nil
		}
		if a.progress != nil {
			fmt.Fprintf(a.progress, "Counting words in %s\n", name)
		} else {
			log.Debugf("Counting words in %s", name)
		}
		return a.AddFile(path)
	})
	return a.files - before, err
}

// Files is the number of files added so far.
func (a *Aggregator) Files() int {
	return a.files
}

// Report returns both totals, each ordered by count descending then word.
func (a *Aggregator) Report() *Report {
	return &Report{
		New:   Sorted(a.newWords),
		Known: Sorted(a.known),
	}
}

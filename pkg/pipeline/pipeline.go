// Package pipeline runs discovery end to end: read sentences, collect the
// known words, score the corpus, drop known candidates and write the result
// file.
package pipeline

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/bastiangx/wordmine/internal/utils"
	"github.com/bastiangx/wordmine/pkg/config"
	"github.com/bastiangx/wordmine/pkg/discover"
	"github.com/bastiangx/wordmine/pkg/extract"
	"github.com/bastiangx/wordmine/pkg/report"
	"github.com/charmbracelet/log"
)

// Options configures a Pipeline.
type Options struct {
	Discover   discover.Options
	SortBy     discover.SortKey
	RankWeight float64
	// Count is the per-sentence limit passed to the extractor.
	Count  int
	Suffix string
}

// OptionsFromConfig builds Options from a validated config.
func OptionsFromConfig(cfg *config.Config, stop *config.Stoplist) (Options, error) {
	key, err := discover.ParseSortKey(cfg.Discover.SortBy)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Discover:   discover.OptionsFromConfig(cfg, stop),
		SortBy:     key,
		RankWeight: cfg.Discover.RankWeight,
		Count:      cfg.Extract.Count,
		Suffix:     cfg.Report.Suffix,
	}, nil
}

// Candidate is a new word with its composite rank.
type Candidate struct {
	discover.Record
	Rank float64
}

// Result is the outcome of one run.
type Result struct {
	Candidates []Candidate
	Report     *report.Report
	Elapsed    time.Duration
}

// Pipeline is safe for concurrent use when its Extractor is.
type Pipeline struct {
	opts Options
	ex   extract.Extractor
}

// New creates a Pipeline. A nil extractor knows no words.
func New(opts Options, ex extract.Extractor) *Pipeline {
	if ex == nil {
		ex = extract.Nop{}
	}
	if opts.Suffix == "" {
		opts.Suffix = config.DefaultConfig().Report.Suffix
	}
	return &Pipeline{opts: opts, ex: ex}
}

// Options returns the options the pipeline runs with.
func (p *Pipeline) Options() Options {
	return p.opts
}

// ReadSentences reads non-blank lines that do not start with #, trimmed and
// terminated with \n.
func ReadSentences(r io.Reader) ([]string, error) {
	var sentences []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sentences = append(sentences, line+"\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sentences, nil
}

// Run discovers new words in sentences using the configured sort key.
func (p *Pipeline) Run(sentences []string) *Result {
	return p.Discover(sentences, p.opts.SortBy)
}

// Discover is Run with an explicit sort key. Candidates are ordered by
// freq*RankWeight plus the key's score, highest first, ties by word.
func (p *Pipeline) Discover(sentences []string, key discover.SortKey) *Result {
	start := time.Now()

	known := extract.Known(p.ex, sentences, p.opts.Count)

	engine := discover.New(p.opts.Discover)
	engine.Parse(strings.Join(sentences, ""))

	var cands []Candidate
	for rec := range engine.Candidates(key) {
		if known.Contains(strings.TrimSpace(rec.Word)) {
			continue
		}
		cands = append(cands, Candidate{
			Record: rec,
			Rank:   float64(rec.Freq)*p.opts.RankWeight + rec.Value(key),
		})
	}
	slices.SortStableFunc(cands, func(a, b Candidate) int {
		if c := cmp.Compare(b.Rank, a.Rank); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})

	rep := &report.Report{New: make([]report.Entry, 0, len(cands))}
	for _, c := range cands {
		rep.New = append(rep.New, report.Entry{Word: c.Word, Freq: c.Freq})
	}
	for _, e := range known.Ranked() {
		rep.Known = append(rep.Known, report.Entry{Word: e.Word, Freq: e.Freq})
	}

	elapsed := time.Since(start)
	log.Debugf("Discovered %d new words, %d known, in %v", len(cands), len(rep.Known), elapsed)
	return &Result{Candidates: cands, Report: rep, Elapsed: elapsed}
}

// RunFile runs the pipeline on inputPath and writes the result next to it.
// It returns the result file path.
func (p *Pipeline) RunFile(inputPath string) (string, *Result, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open input: %w", err)
	}
	sentences, err := ReadSentences(f)
	f.Close()
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", inputPath, err)
	}
	log.Debugf("Read %d sentences from %s", len(sentences), inputPath)

	res := p.Run(sentences)

	outPath := utils.OutputPath(inputPath, p.opts.Suffix)
	err = utils.WriteFileAtomic(outPath, func(out *os.File) error {
		return report.Write(out, res.Report)
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return outPath, res, nil
}

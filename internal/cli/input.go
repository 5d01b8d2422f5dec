// Package cli is the interactive mode: typed lines accumulate into a corpus
// and a blank line scores it.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bastiangx/wordmine/internal/utils"
	"github.com/bastiangx/wordmine/pkg/pipeline"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	cmdReset = ":reset"
	cmdQuit  = ":quit"
)

var wordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

// InputHandler reads lines from in and prints candidates to out.
type InputHandler struct {
	pipeline  *pipeline.Pipeline
	limit     int
	in        io.Reader
	out       io.Writer
	sentences []string
}

// NewInputHandler builds a handler showing up to limit candidates per run.
func NewInputHandler(p *pipeline.Pipeline, limit int, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{pipeline: p, limit: limit, in: in, out: out}
}

// Start runs the loop until EOF or :quit. Whatever is left in the corpus at
// EOF is scored once more.
func (h *InputHandler) Start() error {
	log.Print("wordmine interactive mode")
	log.Print("type or paste text, an empty line scores it, :reset clears, :quit exits")

	scanner := bufio.NewScanner(h.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == cmdQuit:
			return nil
		case line == cmdReset:
			h.sentences = nil
			fmt.Fprintln(h.out, "corpus cleared")
		case line == "":
			h.score()
		case strings.HasPrefix(line, "#"):
		default:
			h.sentences = append(h.sentences, line+"\n")
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if len(h.sentences) > 0 {
		h.score()
	}
	return nil
}

// Corpus returns the lines collected so far.
func (h *InputHandler) Corpus() []string {
	return h.sentences
}

func (h *InputHandler) score() {
	if len(h.sentences) == 0 {
		log.Warn("Nothing to score yet")
		return
	}
	res := h.pipeline.Run(h.sentences)
	log.Debugf("Took [ %v ] for %d lines", res.Elapsed, len(h.sentences))

	if len(res.Candidates) == 0 {
		fmt.Fprintf(h.out, "no new words in %d lines\n", len(h.sentences))
		return
	}
	shown := res.Candidates
	if h.limit > 0 && len(shown) > h.limit {
		shown = shown[:h.limit]
	}
	fmt.Fprintf(h.out, "%d new words, showing %d:\n", len(res.Candidates), len(shown))
	for i, c := range shown {
		fmt.Fprintf(h.out, "%2d. %s\tfreq: %s\tpmi: %.2f\tentropy: %.2f\n",
			i+1, wordStyle.Render(c.Word), utils.FormatWithCommas(c.Freq), c.PMI, c.Entropy)
	}
}

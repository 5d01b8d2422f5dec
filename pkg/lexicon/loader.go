package lexicon

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bastiangx/wordmine/internal/utils"
	"github.com/charmbracelet/log"
)

// Format is a dictionary file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatText           // "word [freq]" per line
	FormatBinary         // int32 count, then uint16 length, word, uint16 rank
)

// ErrUnknownFormat is returned by Load for unsupported files.
var ErrUnknownFormat = errors.New("unknown dictionary format")

// maxBinaryWords guards against reading a corrupt header as a huge count.
const maxBinaryWords = 1 << 24

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bin":
		return FormatBinary
	case ".txt", ".dict", "":
		return FormatText
	}
	return FormatUnknown
}

// Load reads a dictionary file into a new Lexicon.
func Load(path string) (*Lexicon, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary %s: %w", path, err)
	}
	defer file.Close()

	lex := New()
	switch format {
	case FormatBinary:
		err = lex.ReadBinary(file)
	default:
		err = lex.ReadText(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary %s: %w", path, err)
	}
	log.Debugf("Loaded %d words from %s", lex.Len(), path)
	return lex, nil
}

// ReadText adds "word [freq]" lines. A missing or unparsable frequency
// counts as 1; blank and # lines are skipped.
func (l *Lexicon) ReadText(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		freq := 1
		if len(fields) >= 2 {
			if f, err := strconv.Atoi(fields[1]); err == nil {
				freq = f
			} else if f, err := strconv.ParseFloat(fields[1], 64); err == nil {
				freq = int(f)
			} else {
				log.Debugf("Bad frequency %q for %q, using 1", fields[1], fields[0])
			}
		}
		l.Add(fields[0], freq)
	}
	return scanner.Err()
}

// ReadBinary adds entries from the ranked binary format. Rank 1 is the most
// frequent word and maps to the highest frequency.
func (l *Lexicon) ReadBinary(r io.Reader) error {
	reader := bufio.NewReader(r)

	var total int32
	if err := binary.Read(reader, binary.LittleEndian, &total); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if total < 0 || total > maxBinaryWords {
		return fmt.Errorf("invalid word count %d", total)
	}

	for i := range int(total) {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			if err == io.EOF {
				log.Warnf("Dictionary ended after %d of %d words", i, total)
				return nil
			}
			return fmt.Errorf("failed to read word length: %w", err)
		}
		word := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, word); err != nil {
			return fmt.Errorf("failed to read word: %w", err)
		}
		var rank uint16
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return fmt.Errorf("failed to read rank: %w", err)
		}
		l.Add(string(word), 65536-int(rank))
	}
	return nil
}

// WriteBinary writes the lexicon in the ranked binary format. Ranks follow
// Ranked order and are capped at 65535.
func (l *Lexicon) WriteBinary(w io.Writer) error {
	entries := l.Ranked()
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(len(entries))); err != nil {
		return err
	}
	for i, e := range entries {
		if len(e.Word) > 0xFFFF {
			return fmt.Errorf("word too long: %d bytes", len(e.Word))
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(len(e.Word))); err != nil {
			return err
		}
		if _, err := bw.WriteString(e.Word); err != nil {
			return err
		}
		rank := uint16(min(i+1, 0xFFFF))
		if err := binary.Write(bw, binary.LittleEndian, rank); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes the lexicon to path in the ranked binary format, replacing any
// existing file only once the write has succeeded.
func (l *Lexicon) Save(path string) error {
	err := utils.WriteFileAtomic(path, func(f *os.File) error {
		return l.WriteBinary(f)
	})
	if err != nil {
		return fmt.Errorf("failed to save dictionary %s: %w", path, err)
	}
	return nil
}

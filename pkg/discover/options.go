package discover

import (
	"fmt"

	"github.com/bastiangx/wordmine/pkg/config"
	"github.com/bastiangx/wordmine/pkg/ngram"
)

// SortKey selects the score candidates are ranked by.
type SortKey int

const (
	SortPMI SortKey = iota
	SortEntropy
	SortFreq
)

// ParseSortKey maps "pmi", "entropy" and "freq" to a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	switch s {
	case "pmi", "":
		return SortPMI, nil
	case "entropy":
		return SortEntropy, nil
	case "freq":
		return SortFreq, nil
	}
	return SortPMI, fmt.Errorf("unknown sort key %q", s)
}

func (k SortKey) String() string {
	switch k {
	case SortEntropy:
		return "entropy"
	case SortFreq:
		return "freq"
	default:
		return "pmi"
	}
}

// Options holds everything an Engine needs.
type Options struct {
	MaxLen      int
	Punctuation string

	MinLen     int
	MinFreq    int
	MinPMI     float64
	MinEntropy float64

	// Tones and StopChars exclude any word containing one of their runes,
	// StopTerms exclude exact words.
	Tones     string
	StopChars string
	StopTerms []string
}

// DefaultOptions mirrors config.DefaultConfig.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig(), nil)
}

// OptionsFromConfig builds Options from a loaded config and an optional
// stoplist.
func OptionsFromConfig(cfg *config.Config, stop *config.Stoplist) Options {
	opts := Options{
		MaxLen:      cfg.NGram.MaxLen,
		Punctuation: cfg.NGram.Punctuation,
		MinLen:      cfg.Discover.MinLen,
		MinFreq:     cfg.Discover.MinFreq,
		MinPMI:      cfg.Discover.MinPMI,
		MinEntropy:  cfg.Discover.MinEntropy,
		Tones:       cfg.Discover.Tones,
	}
	if opts.MaxLen < 1 {
		opts.MaxLen = ngram.DefaultMaxLen
	}
	if stop != nil {
		opts.StopChars = stop.Chars
		opts.StopTerms = stop.Terms
	}
	return opts
}

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Stoplist lists words and characters that must never be reported as new
// words, on top of the built-in filler characters.
//
//	terms:
//	  - 有限公司
//	chars: "的了"
type Stoplist struct {
	Terms []string `yaml:"terms"`
	Chars string   `yaml:"chars"`
}

// LoadStoplist loads a stoplist from a YAML file. Terms are trimmed and
// lower-cased to match the case folded n-grams.
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("parse stoplist %s: %w", path, err)
	}

	terms := sl.Terms[:0]
	for _, t := range sl.Terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			terms = append(terms, t)
		}
	}
	sl.Terms = terms
	return &sl, nil
}

/*
Package config manages the TOML config for wordmine.

The file is looked up in the user config dir (~/.config/wordmine/config.toml
on Linux and macOS) unless a path is given with -config. A missing file is
created with defaults; a file that fails to decode is recovered section by
section so one bad key does not discard the rest:

	[ngram]
	max_len = 6

	[discover]
	min_len = 3
	min_freq = 2
	min_pmi = 8.0
	min_entropy = 1.0
	sort_by = "pmi"
	rank_weight = 100.0

	[extract]
	dict_path = ""
	count = 10
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/bastiangx/wordmine/internal/utils"
	"github.com/bastiangx/wordmine/pkg/ngram"
	"github.com/charmbracelet/log"
)

// AppName names the config directory.
const AppName = "wordmine"

// DefaultTones are filler and interjection characters; a candidate holding
// any of them is never reported.
const DefaultTones = "你我它他啊哦呃吗呀吧噢嗯哎唉哪呵嘿嗨哼"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// SortKeys are the accepted values of discover.sort_by.
var SortKeys = []string{"pmi", "entropy", "freq"}

// Config holds the entire config structure
type Config struct {
	NGram    NGramConfig    `toml:"ngram"`
	Discover DiscoverConfig `toml:"discover"`
	Extract  ExtractConfig  `toml:"extract"`
	Report   ReportConfig   `toml:"report"`
	Server   ServerConfig   `toml:"server"`
}

// NGramConfig controls n-gram generation.
type NGramConfig struct {
	MaxLen      int    `toml:"max_len"`
	Punctuation string `toml:"punctuation"`
}

// DiscoverConfig holds the scoring thresholds and ranking policy.
type DiscoverConfig struct {
	MinLen       int     `toml:"min_len"`
	MinFreq      int     `toml:"min_freq"`
	MinPMI       float64 `toml:"min_pmi"`
	MinEntropy   float64 `toml:"min_entropy"`
	SortBy       string  `toml:"sort_by"`
	RankWeight   float64 `toml:"rank_weight"`
	Tones        string  `toml:"tones"`
	StoplistPath string  `toml:"stoplist_path"`
}

// ExtractConfig configures the known-word extractor.
type ExtractConfig struct {
	DictPath string `toml:"dict_path"`
	Count    int    `toml:"count"`
}

// ReportConfig names result files.
type ReportConfig struct {
	Suffix          string `toml:"suffix"`
	Pattern         string `toml:"pattern"`
	AggregateOutput string `toml:"aggregate_output"`
	ArchivePath     string `toml:"archive_path"`
}

// ServerConfig has IPC server limits.
type ServerConfig struct {
	MaxLimit int `toml:"max_limit"`
	MaxText  int `toml:"max_text"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		NGram: NGramConfig{
			MaxLen:      ngram.DefaultMaxLen,
			Punctuation: ngram.DefaultPunctuation,
		},
		Discover: DiscoverConfig{
			MinLen:     3,
			MinFreq:    2,
			MinPMI:     8,
			MinEntropy: 1,
			SortBy:     "pmi",
			RankWeight: 100,
			Tones:      DefaultTones,
		},
		Extract: ExtractConfig{
			Count: 10,
		},
		Report: ReportConfig{
			Suffix:          "_words_seq.txt",
			Pattern:         ".+words_seq.txt",
			AggregateOutput: "words_count.txt",
		},
		Server: ServerConfig{
			MaxLimit: 64,
			MaxText:  1 << 20,
		},
	}
}

// Validate checks values a run cannot work with.
func (c *Config) Validate() error {
	if c.NGram.MaxLen < 1 {
		return fmt.Errorf("%w: ngram.max_len must be positive, got %d", ErrInvalidConfig, c.NGram.MaxLen)
	}
	if c.Discover.MinLen < 2 {
		return fmt.Errorf("%w: discover.min_len must be at least 2, got %d", ErrInvalidConfig, c.Discover.MinLen)
	}
	if c.Discover.MinLen > c.NGram.MaxLen {
		return fmt.Errorf("%w: discover.min_len %d exceeds ngram.max_len %d", ErrInvalidConfig, c.Discover.MinLen, c.NGram.MaxLen)
	}
	if c.Discover.MinFreq < 1 {
		return fmt.Errorf("%w: discover.min_freq must be positive, got %d", ErrInvalidConfig, c.Discover.MinFreq)
	}
	if !slices.Contains(SortKeys, c.Discover.SortBy) {
		return fmt.Errorf("%w: discover.sort_by %q not one of %v", ErrInvalidConfig, c.Discover.SortBy, SortKeys)
	}
	if c.Extract.Count < 1 {
		return fmt.Errorf("%w: extract.count must be positive, got %d", ErrInvalidConfig, c.Extract.Count)
	}
	if _, err := regexp.Compile(c.Report.Pattern); err != nil {
		return fmt.Errorf("%w: report.pattern: %v", ErrInvalidConfig, err)
	}
	if c.Report.Suffix == "" {
		return fmt.Errorf("%w: report.suffix is empty", ErrInvalidConfig)
	}
	return nil
}

// GetConfigDir returns the config directory with fallback priority:
// 1. user config dir (XDG / ~/.config / %APPDATA%)
// 2. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := utils.UserConfigDir(homeDir, AppName)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordmine/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Keys missing from the file keep their
// defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, err
	}
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every well-typed key of a file that failed strict
// decoding.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "ngram"); ok {
		extractNGramConfig(section, &config.NGram)
	}
	if section, ok := utils.ExtractSection(tempConfig, "discover"); ok {
		extractDiscoverConfig(section, &config.Discover)
	}
	if section, ok := utils.ExtractSection(tempConfig, "extract"); ok {
		extractExtractConfig(section, &config.Extract)
	}
	if section, ok := utils.ExtractSection(tempConfig, "report"); ok {
		extractReportConfig(section, &config.Report)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	return config, nil
}

func extractNGramConfig(data map[string]any, c *NGramConfig) {
	if val, ok := utils.ExtractInt64(data, "max_len"); ok {
		c.MaxLen = val
	}
	if val, ok := utils.ExtractString(data, "punctuation"); ok {
		c.Punctuation = val
	}
}

func extractDiscoverConfig(data map[string]any, c *DiscoverConfig) {
	if val, ok := utils.ExtractInt64(data, "min_len"); ok {
		c.MinLen = val
	}
	if val, ok := utils.ExtractInt64(data, "min_freq"); ok {
		c.MinFreq = val
	}
	if val, ok := utils.ExtractFloat(data, "min_pmi"); ok {
		c.MinPMI = val
	}
	if val, ok := utils.ExtractFloat(data, "min_entropy"); ok {
		c.MinEntropy = val
	}
	if val, ok := utils.ExtractString(data, "sort_by"); ok {
		c.SortBy = val
	}
	if val, ok := utils.ExtractFloat(data, "rank_weight"); ok {
		c.RankWeight = val
	}
	if val, ok := utils.ExtractString(data, "tones"); ok {
		c.Tones = val
	}
	if val, ok := utils.ExtractString(data, "stoplist_path"); ok {
		c.StoplistPath = val
	}
}

func extractExtractConfig(data map[string]any, c *ExtractConfig) {
	if val, ok := utils.ExtractString(data, "dict_path"); ok {
		c.DictPath = val
	}
	if val, ok := utils.ExtractInt64(data, "count"); ok {
		c.Count = val
	}
}

func extractReportConfig(data map[string]any, c *ReportConfig) {
	if val, ok := utils.ExtractString(data, "suffix"); ok {
		c.Suffix = val
	}
	if val, ok := utils.ExtractString(data, "pattern"); ok {
		c.Pattern = val
	}
	if val, ok := utils.ExtractString(data, "aggregate_output"); ok {
		c.AggregateOutput = val
	}
	if val, ok := utils.ExtractString(data, "archive_path"); ok {
		c.ArchivePath = val
	}
}

func extractServerConfig(data map[string]any, c *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		c.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_text"); ok {
		c.MaxText = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Copyright 2025 The WordMine Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordmine new-word discovery tool.

wordmine finds words missing from any dictionary in unsegmented text, such as
Chinese, using only statistics of the text itself: how strongly the
characters of a candidate stick together (pointwise mutual information) and
how varied its neighbors are (left and right neighbor entropy).

# Usage

Discover new words in a file; the second argument is how many phrases per
sentence the known-word extractor may return:

	wordmine corpus.txt 10

The result is written next to the input as corpus_words_seq.txt with two
tab-separated sections: the new words, best first, and the known words found
by the dictionary extractor, most frequent first.

Use a dictionary for known words, a stoplist, and sort by entropy:

	wordmine -dict dict.txt -stoplist stop.yaml -sort entropy corpus.txt 10

Convert a text dictionary to the ranked binary format and exit:

	wordmine -dict dict.txt -dict-out dict.bin

Keep every run in a SQLite archive for later totals (see wordagg):

	wordmine -archive runs.db corpus.txt 10

Run as a MessagePack IPC server or interactively:

	wordmine -s
	wordmine -c

# Configuration

Thresholds and file naming come from a TOML file, created with defaults on
first run in the user config dir unless -config points elsewhere:

	[discover]
	min_len = 3
	min_freq = 2
	min_pmi = 8.0
	min_entropy = 1.0
	sort_by = "pmi"
	rank_weight = 100.0

# Command Line Flags

	-config string   Path to a config file
	-d               Enable debug mode with detailed logging
	-version         Show current version
	-dict string     Dictionary for known words (.txt or .bin)
	-dict-out string Write the loaded dictionary in binary format
	-stoplist string YAML stoplist of excluded terms and characters
	-sort string     Rank by pmi, entropy or freq
	-archive string  SQLite archive to record the run in
	-s               Run the MessagePack IPC server on stdin/stdout
	-c               Run the interactive mode
	-limit int       Candidates shown per interactive run
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bastiangx/wordmine/internal/cli"
	"github.com/bastiangx/wordmine/internal/logger"
	"github.com/bastiangx/wordmine/internal/utils"
	"github.com/bastiangx/wordmine/pkg/archive"
	"github.com/bastiangx/wordmine/pkg/config"
	"github.com/bastiangx/wordmine/pkg/extract"
	"github.com/bastiangx/wordmine/pkg/lexicon"
	"github.com/bastiangx/wordmine/pkg/pipeline"
	"github.com/bastiangx/wordmine/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "wordmine"
	gh      = "https://github.com/bastiangx/wordmine"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input-file> <count>\n", AppName)
	fmt.Fprintf(os.Stderr, "       %s -s | -c [flags]\n\n", AppName)
	flag.PrintDefaults()
}

func main() {
	sigHandler()
	flag.Usage = usage

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	dictPath := flag.String("dict", "", "Dictionary for known words (.txt or .bin)")
	dictOut := flag.String("dict-out", "", "Write the loaded dictionary to this .bin file")
	stoplistPath := flag.String("stoplist", "", "YAML stoplist of excluded terms and characters")
	sortBy := flag.String("sort", "", "Rank candidates by pmi, entropy or freq")
	archivePath := flag.String("archive", "", "SQLite archive to record the run in")
	serverMode := flag.Bool("s", false, "Run the MessagePack IPC server")
	cliMode := flag.Bool("c", false, "Run interactive mode")
	limit := flag.Int("limit", 20, "Candidates shown per interactive run")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	cfg, loadedFrom, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", utils.GetAbsolutePath(loadedFrom))

	if *dictPath != "" {
		cfg.Extract.DictPath = *dictPath
	}
	if *stoplistPath != "" {
		cfg.Discover.StoplistPath = *stoplistPath
	}
	if *sortBy != "" {
		cfg.Discover.SortBy = *sortBy
	}
	if *archivePath != "" {
		cfg.Report.ArchivePath = *archivePath
	}

	args := flag.Args()
	if *dictOut != "" {
		if err := convertDict(cfg.Extract.DictPath, *dictOut); err != nil {
			log.Fatalf("%v", err)
		}
		if len(args) == 0 && !*serverMode && !*cliMode {
			return
		}
	}
	if !*serverMode && !*cliMode {
		if len(args) < 2 {
			usage()
			os.Exit(2)
		}
		count, err := strconv.Atoi(args[1])
		if err != nil || count < 1 {
			log.Errorf("count must be a positive integer, got %q", args[1])
			usage()
			os.Exit(2)
		}
		cfg.Extract.Count = count
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	switch {
	case *serverMode:
		log.Debug("spawning IPC")
		srv := server.NewServer(p, cfg.Server)
		if err := srv.Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case *cliMode:
		log.SetReportTimestamp(false)
		handler := cli.NewInputHandler(p, *limit, os.Stdin, os.Stdout)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
	default:
		runFile(p, args[0], cfg.Report.ArchivePath)
	}
}

// buildPipeline wires the stoplist and the known-word extractor into a
// pipeline.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	var stop *config.Stoplist
	if cfg.Discover.StoplistPath != "" {
		sl, err := config.LoadStoplist(cfg.Discover.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load stoplist: %w", err)
		}
		log.Debugf("Loaded stoplist: %d terms, %d chars", len(sl.Terms), utils.RuneLen(sl.Chars))
		stop = sl
	}

	var ex extract.Extractor = extract.Nop{}
	if cfg.Extract.DictPath != "" {
		dict, err := lexicon.Load(cfg.Extract.DictPath)
		if err != nil {
			return nil, err
		}
		log.Debugf("Dictionary has %s words", utils.FormatWithCommas(dict.Len()))
		ex = extract.NewDictExtractor(dict)
	} else {
		log.Debug("No dictionary configured, every candidate counts as new")
	}

	opts, err := pipeline.OptionsFromConfig(cfg, stop)
	if err != nil {
		return nil, err
	}
	return pipeline.New(opts, ex), nil
}

// convertDict rewrites the dictionary at src as a ranked binary file at dst.
func convertDict(src, dst string) error {
	if src == "" {
		return fmt.Errorf("-dict-out needs a dictionary, set -dict or extract.dict_path")
	}
	dict, err := lexicon.Load(src)
	if err != nil {
		return err
	}
	if err := dict.Save(dst); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s words to %s\n", utils.FormatWithCommas(dict.Len()), dst)
	return nil
}

func runFile(p *pipeline.Pipeline, input, archivePath string) {
	outPath, res, err := p.RunFile(input)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if archivePath != "" {
		ctx := context.Background()
		arc, err := archive.Open(ctx, archivePath)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer arc.Close()
		run, err := arc.SaveRun(ctx, input, res.Report)
		if err != nil {
			log.Fatalf("Failed to archive run: %v", err)
		}
		log.Debugf("Archived as run %s", run.ID)
	}

	fmt.Printf("%s new words, %s known words -> %s (%v)\n",
		utils.FormatWithCommas(len(res.Report.New)),
		utils.FormatWithCommas(len(res.Report.Known)),
		outPath, res.Elapsed.Round(time.Millisecond))
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ WordMine ] Finds the words your dictionary is missing")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

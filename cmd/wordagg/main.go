// Copyright 2025 The WordMine Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements wordagg, which sums wordmine result files.

wordagg walks a directory tree for result files (by default any path matching
.+words_seq.txt), adds up the counts of every new word and every known word,
and writes the totals in the same two-section format:

	wordagg -root corpora -o words_count.txt

With -archive it reads the totals of every run recorded by wordmine -archive
instead of scanning files:

	wordagg -archive runs.db -o words_count.txt

Drop a run from the archive before totalling with -delete:

	wordagg -archive runs.db -delete 01J9Z3Q0D6Y8N4K2M7C5B1V0XR
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bastiangx/wordmine/internal/logger"
	"github.com/bastiangx/wordmine/internal/utils"
	"github.com/bastiangx/wordmine/pkg/archive"
	"github.com/bastiangx/wordmine/pkg/config"
	"github.com/bastiangx/wordmine/pkg/report"
	"github.com/charmbracelet/log"
)

func main() {
	defaults := config.DefaultConfig().Report

	configPath := flag.String("config", "", "Path to a config file")
	root := flag.String("root", ".", "Directory to scan for result files")
	output := flag.String("o", "", "Output file (default from config, words_count.txt)")
	pattern := flag.String("pattern", "", "Regexp result file paths must match (default from config)")
	archivePath := flag.String("archive", "", "Read totals from a wordmine run archive instead of scanning")
	deleteRun := flag.String("delete", "", "Remove this run ID from the archive before totalling")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	flag.Parse()

	logger.Setup(*debugMode)

	cfg, loadedFrom, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", utils.GetAbsolutePath(loadedFrom))
	rc := cfg.Report
	if *output != "" {
		rc.AggregateOutput = *output
	}
	if rc.AggregateOutput == "" {
		rc.AggregateOutput = defaults.AggregateOutput
	}
	if *pattern != "" {
		rc.Pattern = *pattern
	}
	if *archivePath != "" {
		rc.ArchivePath = *archivePath
	}

	var (
		rep   *report.Report
		label string
	)
	if *deleteRun != "" && rc.ArchivePath == "" {
		log.Fatal("-delete needs -archive")
	}
	if rc.ArchivePath != "" {
		rep, label = fromArchive(rc.ArchivePath, *deleteRun)
	} else {
		rep, label = fromFiles(*root, rc.Pattern)
	}

	err = utils.WriteFileAtomic(rc.AggregateOutput, func(f *os.File) error {
		return report.Write(f, rep)
	})
	if err != nil {
		log.Fatalf("Failed to write %s: %v", rc.AggregateOutput, err)
	}
	fmt.Printf("%s: %s new words, %s known words -> %s\n", label,
		utils.FormatWithCommas(len(rep.New)), utils.FormatWithCommas(len(rep.Known)), rc.AggregateOutput)
}

func fromFiles(root, pattern string) (*report.Report, string) {
	agg, err := report.NewAggregator(pattern)
	if err != nil {
		log.Fatalf("%v", err)
	}
	agg.SetProgress(os.Stderr)
	n, err := agg.Scan(root)
	if err != nil {
		log.Fatalf("Failed to scan %s: %v", root, err)
	}
	if n == 0 {
		log.Warnf("No files under %s match %q", root, pattern)
	}
	return agg.Report(), fmt.Sprintf("%s files", utils.FormatWithCommas(n))
}

func fromArchive(path, deleteID string) (*report.Report, string) {
	ctx := context.Background()
	arc, err := archive.Open(ctx, path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer arc.Close()

	if deleteID != "" {
		if err := arc.DeleteRun(ctx, deleteID); err != nil {
			log.Fatalf("Failed to delete run: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Deleted run %s\n", deleteID)
	}

	runs, err := arc.Runs(ctx)
	if err != nil {
		log.Fatalf("Failed to list runs: %v", err)
	}
	for _, r := range runs {
		log.Debugf("run %s  %s  %s  new=%d known=%d", r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Source, r.NewWords, r.KnownWords)
	}
	rep, err := arc.Totals(ctx)
	if err != nil {
		log.Fatalf("Failed to total runs: %v", err)
	}
	return rep, fmt.Sprintf("%s runs", utils.FormatWithCommas(len(runs)))
}

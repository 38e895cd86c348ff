// Command labmeta auto-detects the format of lab-instrument export files and
// extracts one normalized JSON record per file (or merges nanopore artifacts
// into the consolidated run record), then writes a master summary CSV.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lade-rit/labmeta"
	"github.com/lade-rit/labmeta/pipeline"
	"github.com/lade-rit/labmeta/summary"
)

// The batch driver only probes text-based exports; binary sequencing
// artifacts are handled by the crate generator.
var validExtensions = map[string]bool{
	".csv":  true,
	".txt":  true,
	".json": true,
	".md":   true,
}

func main() {
	var input, output string
	var batch bool

	flag.StringVar(&input, "input", "", "Path to a single export file, or a root directory with -batch.")
	flag.StringVar(&output, "out", "", "Directory where JSON records and the summary table are saved.")
	flag.BoolVar(&batch, "batch", false, "Process every recognized file under -input recursively.")
	flag.Parse()

	if input == "" || output == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if batch {
		if err := runBatch(input, output); err != nil {
			log.Fatalln(err)
		}
		return
	}

	if err := runSingle(input, output); err != nil {
		log.Fatalln(err)
	}
}

func runSingle(input, output string) error {
	outcome, err := pipeline.ProcessFile(input, output)
	if errors.Is(err, labmeta.ErrClassificationMiss) {
		return fmt.Errorf("unknown file type: %s", filepath.Base(input))
	}
	if err != nil {
		return err
	}

	report(outcome)

	if outcome.Record != nil {
		rows := summary.BuildTable([]*labmeta.NormalizedRecord{outcome.Record})
		if _, err := summary.WriteTable(rows, output); err != nil {
			return err
		}
	}

	return nil
}

func runBatch(root, output string) error {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && validExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Sorted iteration keeps batch output deterministic and reproducible.
	sort.Strings(paths)

	var records []*labmeta.NormalizedRecord
	processed, skipped, failed := 0, 0, 0

	for _, path := range paths {
		outcome, err := pipeline.ProcessFile(path, output)
		switch {
		case errors.Is(err, labmeta.ErrClassificationMiss):
			log.Printf("unknown file type, skipping: %s", filepath.Base(path))
			skipped++
			continue
		case err != nil:
			// One bad file never aborts the remaining batch.
			log.Printf("error processing %s: %v", filepath.Base(path), err)
			failed++
			continue
		}

		report(outcome)
		processed++
		if outcome.Record != nil {
			records = append(records, outcome.Record)
		}
	}

	if len(records) > 0 {
		out, err := summary.WriteTable(summary.BuildTable(records), output)
		if err != nil {
			return err
		}
		log.Printf("saved summary table to %s", out)
	}

	log.Printf("batch summary: %d processed, %d skipped, %d failed, %d checked",
		processed, skipped, failed, len(paths))

	return nil
}

func report(outcome *pipeline.Outcome) {
	switch {
	case outcome.Run != nil:
		log.Printf("merged %s artifact into run record (run_id=%s, %d files)",
			outcome.Subtype, outcome.Run.RunID, len(outcome.Run.FilesProcessed))
	case outcome.Record != nil:
		log.Printf("extracted %s (%s) -> %s",
			outcome.Record.FileName, outcome.Record.FileType, outcome.OutputPath)
	}
}

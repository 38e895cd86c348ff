// Command oridcrawl dives through a directory tree and processes every CSV
// export belonging to one run proposal, matching the proposal tag against
// filenames and their parent folder names.
package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lade-rit/labmeta"
	"github.com/lade-rit/labmeta/pipeline"
)

func main() {
	var root, orid, output string

	flag.StringVar(&root, "root", "", "Top-level folder to search.")
	flag.StringVar(&orid, "orid", "", "Proposal tag to filter for (e.g. ORID0036).")
	flag.StringVar(&output, "out", "", "Directory where generated JSON files are saved.")
	flag.Parse()

	if root == "" || orid == "" || output == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	target := strings.ToUpper(strings.TrimSpace(orid))

	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".csv") {
			return nil
		}

		// A file belongs to the proposal when its own name carries the tag
		// or when it sits inside a folder that does.
		folder := filepath.Base(filepath.Dir(path))
		if labmeta.ProposalTag(d.Name()) == target || labmeta.ProposalTag(folder) == target {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		log.Fatalln(err)
	}

	sort.Strings(matches)

	succeeded := 0
	for _, path := range matches {
		outcome, err := pipeline.ProcessFile(path, output)
		switch {
		case errors.Is(err, labmeta.ErrClassificationMiss):
			log.Printf("unknown file type, skipping: %s", filepath.Base(path))
			continue
		case err != nil:
			log.Printf("error processing %s: %v", filepath.Base(path), err)
			continue
		}

		if outcome.Record != nil {
			log.Printf("extracted %s -> %s", outcome.Record.FileName, outcome.OutputPath)
		} else if outcome.Run != nil {
			log.Printf("merged %s into run record", filepath.Base(path))
		}
		succeeded++
	}

	log.Printf("crawl summary: %d matches for %s, %d exported, %d failed or skipped",
		len(matches), target, succeeded, len(matches)-succeeded)
}

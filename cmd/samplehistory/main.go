// Command samplehistory assembles an ordered timeline of every appearance
// of one sample identifier across previously extracted JSON records.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/lade-rit/labmeta/history"
)

func main() {
	var recordsDir, sampleID, output string

	flag.StringVar(&recordsDir, "records", "", "Directory holding the extracted JSON records.")
	flag.StringVar(&sampleID, "sample", "", "The sample identifier to track.")
	flag.StringVar(&output, "out", "", "Directory where the history file is saved.")
	flag.Parse()

	if recordsDir == "" || sampleID == "" || output == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	entries, err := history.BuildHistory(recordsDir, sampleID, output)
	if err != nil {
		log.Fatalln(err)
	}

	if len(entries) == 0 {
		log.Printf("no records found for sample %s", sampleID)
		return
	}

	log.Printf("history file created with %d entries for sample %s", len(entries), sampleID)
}

// Command labcrate packages a data folder as an RO-Crate, describing every
// recognized instrument export with its format, subtype and MIME type.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/lade-rit/labmeta/rocrate"
)

func main() {
	var input, output string

	flag.StringVar(&input, "input", "", "Data folder to describe.")
	flag.StringVar(&output, "out", "", "Directory where ro-crate-metadata.json is saved.")
	flag.Parse()

	if input == "" || output == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	out, err := rocrate.WriteFolderCrate(input, output)
	if err != nil {
		log.Fatalln(err)
	}

	log.Printf("saved crate metadata to %s", out)
}

// Package pipeline runs the classify → extract → persist flow for one file,
// routing nanopore-family artifacts into the consolidated run record.
package pipeline

import (
	"github.com/lade-rit/labmeta"
	"github.com/lade-rit/labmeta/extract"
	"github.com/lade-rit/labmeta/nanopore"
)

// Outcome describes what processing one file produced. Exactly one of
// Record or Run is set: Record for the per-file formats (already persisted
// to OutputPath), Run for the nanopore family (merged into the consolidated
// record in the output directory).
type Outcome struct {
	Format     labmeta.FormatID
	Subtype    string
	Record     *labmeta.NormalizedRecord
	Run        *nanopore.RunRecord
	OutputPath string
}

// ProcessFile classifies path and either extracts it into a persisted
// NormalizedRecord or merges it into the output location's run record.
// Returns labmeta.ErrClassificationMiss when no format recognizes the file.
func ProcessFile(path, outputDir string) (*Outcome, error) {
	c, err := extract.Classify(path)
	if err != nil {
		return nil, err
	}

	if c.Format == labmeta.FormatNanopore {
		run, err := nanopore.MergeIntoRun(path, outputDir)
		if err != nil {
			return nil, err
		}
		return &Outcome{Format: c.Format, Subtype: c.Subtype, Run: run}, nil
	}

	rec, err := extract.ExtractAs(c.Format, path)
	if err != nil {
		return nil, err
	}
	out, err := rec.WriteJSON(outputDir)
	if err != nil {
		return nil, err
	}

	return &Outcome{Format: c.Format, Record: rec, OutputPath: out}, nil
}

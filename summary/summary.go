// Package summary flattens extracted records into the master summary CSV.
package summary

import (
	"os"
	"path/filepath"

	"github.com/araddon/dateparse"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/lade-rit/labmeta"
	"gopkg.in/guregu/null.v3"
)

// TableName is the filename of the master summary CSV.
const TableName = "metadata_summary_table.csv"

// Row is one summary line per extracted record. Optional cells render empty
// rather than as zero values.
type Row struct {
	FileName       string      `csv:"File name"`
	FileType       string      `csv:"File type"`
	ProjectName    null.String `csv:"Project name"`
	ExperimentName null.String `csv:"Experiment name"`
	Date           null.String `csv:"Date"`
	ManifestID     null.String `csv:"Manifest ID"`
	ProposalID     null.String `csv:"Proposal ID"`
	SampleCount    int         `csv:"Number of samples"`
}

// BuildTable flattens records into summary rows, normalizing whatever date
// representation each instrument used to ISO form where it parses.
func BuildTable(records []*labmeta.NormalizedRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Row{
			FileName:       rec.FileName,
			FileType:       rec.FileType,
			ProjectName:    optional(rec.Metadata["project_name"]),
			ExperimentName: optional(rec.Metadata["experiment_name"]),
			Date:           optional(normalizeDate(rec.Metadata["date"])),
			ManifestID:     optional(rec.ManifestID),
			ProposalID:     optional(rec.ORID),
			SampleCount:    rec.SampleCount,
		})
	}
	return rows
}

// WriteTable persists the summary table to dir and returns the path written.
func WriteTable(rows []Row, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", pfx.Err(err)
	}

	out := filepath.Join(dir, TableName)
	f, err := os.Create(out)
	if err != nil {
		return "", pfx.Err(err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return "", pfx.Err(err)
	}

	return out, nil
}

// normalizeDate renders any parseable date as YYYY-MM-DD and leaves
// everything else untouched; the summary is best-effort, not validating.
func normalizeDate(s string) string {
	if s == "" || s == "N/A" {
		return ""
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}

func optional(s string) null.String {
	if s == "" || s == "N/A" {
		return null.String{}
	}
	return null.StringFrom(s)
}

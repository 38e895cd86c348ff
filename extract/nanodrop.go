package extract

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/lade-rit/labmeta"
	"github.com/montanaflynn/stats"
)

const nanoDropFileType = "Experimental Sample Sheet related to the quality control of the samples before the sequencing step"

var nanoDropColumns = []string{"Sample.ID", "ng.ul", "260.280", "260.230"}

// nanoDropRow is the projection of the spectrophotometer export down to the
// four QC columns the downstream merge cares about.
type nanoDropRow struct {
	SampleID      string `csv:"Sample.ID"`
	Concentration string `csv:"ng.ul"`
	Ratio260280   string `csv:"260.280"`
	Ratio260230   string `csv:"260.230"`
}

// IsNanoDropExport recognizes a NanoDrop UV absorbance export by its header
// signature alone (a zero-row read).
func IsNanoDropExport(path string) bool {
	if !strings.HasSuffix(strings.ToLower(path), ".csv") {
		return false
	}
	lines, err := labmeta.FirstLines(path, 1)
	if err != nil || len(lines) == 0 {
		return false
	}

	r := csv.NewReader(strings.NewReader(lines[0]))
	header, err := r.Read()
	if err != nil {
		return false
	}

	have := make(map[string]bool, len(header))
	for _, col := range header {
		have[col] = true
	}
	for _, col := range nanoDropColumns {
		if !have[col] {
			return false
		}
	}
	return true
}

// NanoDropExport projects the QC columns of a spectrophotometer export into
// per-sample rows (renamed to match the sample-sheet naming convention for
// later merging) and computes a concentration summary over the numeric
// values.
func NanoDropExport(path string) (*labmeta.NormalizedRecord, error) {
	name := filepath.Base(path)
	if !IsNanoDropExport(path) {
		return nil, labmeta.InvalidFormatError{Format: "NanoDrop QC export", File: name}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	// A call-scoped reader keeps the decode independent of any global gocsv
	// configuration.
	var rows []*nanoDropRow
	if err := gocsv.UnmarshalCSV(csv.NewReader(f), &rows); err != nil {
		return nil, pfx.Err(err)
	}

	samples := make([]labmeta.Row, 0, len(rows))
	var concentrations []float64
	for _, r := range rows {
		samples = append(samples, labmeta.Row{
			{Key: "Sample_ID", Value: r.SampleID},
			{Key: "concentration_ng_ul", Value: r.Concentration},
			{Key: "ratio_260_280", Value: r.Ratio260280},
			{Key: "ratio_260_230", Value: r.Ratio260230},
		})
		if c, err := strconv.ParseFloat(strings.TrimSpace(r.Concentration), 64); err == nil {
			concentrations = append(concentrations, c)
		}
	}

	extra := map[string]any{
		"description": "This file is the export of the NanoDrop UV absorbance spectrum for each sample.",
		"quality_thresholds": map[string]string{
			"ideal_260_280": "~1.8 (Pure DNA)",
			"ideal_260_230": "2.0-2.2 (Low contamination)",
		},
	}
	if summary := concentrationSummary(concentrations); summary != nil {
		extra["concentration_summary"] = summary
	}

	return &labmeta.NormalizedRecord{
		FileName:    name,
		FileType:    nanoDropFileType,
		FilePath:    path,
		SampleCount: len(samples),
		Samples:     samples,
		Extra:       extra,
	}, nil
}

func concentrationSummary(concentrations []float64) map[string]float64 {
	if len(concentrations) == 0 {
		return nil
	}

	mean, err := stats.Mean(concentrations)
	if err != nil {
		return nil
	}
	lo, err := stats.Min(concentrations)
	if err != nil {
		return nil
	}
	hi, err := stats.Max(concentrations)
	if err != nil {
		return nil
	}

	return map[string]float64{
		"mean_ng_ul": mean,
		"min_ng_ul":  lo,
		"max_ng_ul":  hi,
	}
}

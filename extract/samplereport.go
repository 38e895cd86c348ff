package extract

import (
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/lade-rit/labmeta"
)

const samplesReportFileType = "Samples Report"

// IsSamplesReport recognizes the manual observation table (a
// semicolon-delimited variant) by its header signature.
func IsSamplesReport(path string) bool {
	if !strings.HasSuffix(strings.ToLower(path), ".csv") {
		return false
	}
	lines, err := labmeta.FirstLines(path, 1)
	if err != nil || len(lines) == 0 {
		return false
	}

	have := make(map[string]bool)
	for _, col := range strings.Split(lines[0], ";") {
		have[strings.TrimSpace(col)] = true
	}
	return have["Sample_ID"] && have["Notes"]
}

// SamplesReport extracts the technical-observation table documenting
// anomalies detected before and after sequencing. The delimiter is sniffed
// from the content because this family exports semicolon-separated variants.
func SamplesReport(path string) (*labmeta.NormalizedRecord, error) {
	name := filepath.Base(path)
	if !IsSamplesReport(path) {
		return nil, labmeta.InvalidFormatError{Format: samplesReportFileType, File: name}
	}

	lines, err := labmeta.ReadFileLines(path)
	if err != nil {
		return nil, err
	}

	delimiter := labmeta.DetermineDelimiter(strings.NewReader(strings.Join(lines, "\n")))
	if len(lines) > 0 && !strings.ContainsRune(lines[0], delimiter) {
		delimiter = ';'
	}

	_, rows, err := readTable(lines, delimiter)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &labmeta.NormalizedRecord{
		FileName:    name,
		FileType:    samplesReportFileType,
		FilePath:    path,
		SampleCount: len(rows),
		Samples:     rows,
		Extra: map[string]any{
			"description": "This file contains a table created to document technical observations and anomalies detected (both before and after sequencing) exclusively for samples in which issues were identified, in order to track potential criticalities and record operational decisions made during the workflow.",
		},
	}, nil
}

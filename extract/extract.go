// Package extract turns classified instrument export files into normalized
// metadata records, one handler per format family.
package extract

import (
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lade-rit/labmeta"
	"github.com/lade-rit/labmeta/nanopore"
)

func boolProbe(f func(string) bool) labmeta.Predicate {
	return func(path string) (string, bool) { return "", f(path) }
}

// Registry returns the ordered format registrations. Order is part of the
// contract: the first matching predicate wins.
func Registry() []labmeta.Registration {
	return []labmeta.Registration{
		{Format: labmeta.FormatBeadStudio, Probe: boolProbe(IsBeadStudio)},
		{Format: labmeta.FormatThermal, Probe: boolProbe(IsThermalReport)},
		{Format: labmeta.FormatFMGeneration, Probe: boolProbe(IsFMGenerationReport)},
		{Format: labmeta.FormatIllumina, Probe: boolProbe(IsIlluminaSampleSheet)},
		{Format: labmeta.FormatFMAutoTilt, Probe: boolProbe(IsFMAutoTiltReport)},
		{Format: labmeta.FormatNanopore, Probe: nanopore.Probe},
		{Format: labmeta.FormatNanoDrop, Probe: boolProbe(IsNanoDropExport)},
		{Format: labmeta.FormatSampleReport, Probe: boolProbe(IsSamplesReport)},
	}
}

var defaultClassifier = labmeta.NewClassifier(Registry()...)

// Classify identifies the format family of path, or returns
// labmeta.ErrClassificationMiss.
func Classify(path string) (labmeta.Classification, error) {
	return defaultClassifier.Classify(path)
}

// Extract classifies path and runs the matching extractor. Nanopore-family
// files are not extracted individually; they merge into the consolidated run
// record via nanopore.MergeIntoRun.
func Extract(path string) (*labmeta.NormalizedRecord, error) {
	c, err := Classify(path)
	if err != nil {
		return nil, err
	}
	return ExtractAs(c.Format, path)
}

// ExtractAs runs the extractor for an already-classified format. Extractors
// re-validate on their own, so a wrong format surfaces as an
// InvalidFormatError rather than a decode failure.
func ExtractAs(format labmeta.FormatID, path string) (*labmeta.NormalizedRecord, error) {
	switch format {
	case labmeta.FormatBeadStudio:
		return BeadStudio(path)
	case labmeta.FormatThermal:
		return ThermalReport(path)
	case labmeta.FormatFMGeneration:
		return FMGenerationReport(path)
	case labmeta.FormatIllumina:
		return IlluminaSampleSheet(path)
	case labmeta.FormatFMAutoTilt:
		return FMAutoTiltReport(path)
	case labmeta.FormatNanoDrop:
		return NanoDropExport(path)
	case labmeta.FormatSampleReport:
		return SamplesReport(path)
	case labmeta.FormatNanopore:
		return nil, fmt.Errorf("%s: nanopore artifacts are merged into a run record, not extracted individually", filepath.Base(path))
	}

	return nil, labmeta.ErrClassificationMiss
}

// pairsToMetadata flattens a 2-column section into a metadata mapping with
// normalized keys, skipping blank keys and values.
func pairsToMetadata(pairs labmeta.PairList) map[string]string {
	metadata := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if p.Key == "" || p.Value == "" {
			continue
		}
		metadata[labmeta.NormalizeKey(p.Key)] = p.Value
	}
	return metadata
}

// readTable decodes delimiter-separated lines into a header and ordered data
// rows; the first line is the header.
func readTable(lines []string, delimiter rune) ([]string, []labmeta.Row, error) {
	body := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		body = append(body, line)
	}
	if len(body) == 0 {
		return nil, nil, nil
	}

	r := csv.NewReader(strings.NewReader(strings.Join(body, "\n")))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	header := records[0]
	rows := make([]labmeta.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(labmeta.Row, 0, len(header))
		for i, col := range header {
			v := ""
			if i < len(rec) {
				v = rec[i]
			}
			row = append(row, labmeta.Pair{Key: col, Value: v})
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

// Package nanopore consolidates the many per-run export files of the
// nanopore instrument family into one mutable run record per output
// location.
package nanopore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/lade-rit/labmeta"
)

// Subtype labels one kind of nanopore run artifact. The set is closed:
// classification picks from these or reports a non-match.
type Subtype string

const (
	SubtypeSampleSheet       Subtype = "sample_sheet"
	SubtypePoreActivity      Subtype = "pore_activity"
	SubtypeThroughput        Subtype = "throughput"
	SubtypePoreScan          Subtype = "pore_scan"
	SubtypeTemperature       Subtype = "temperature"
	SubtypeJSONReport        Subtype = "json_report"
	SubtypeFinalSummary      Subtype = "final_summary"
	SubtypeSequencingSummary Subtype = "sequencing_summary"
	SubtypeMarkdownReport    Subtype = "report_in_markdown"
	SubtypePOD5              Subtype = "pod5_file"
	SubtypeFASTQ             Subtype = "fastq_file"
	SubtypeBAM               Subtype = "bam_file"
	SubtypeBAMIndex          Subtype = "bam_index_file"
)

// DetectSubtype identifies which run artifact a file is, by sniffing the
// first line of CSV logs for characteristic column names and otherwise by
// filename shape. Binary artifacts (.pod5, .fastq.gz, .bam, .bam.bai) are
// recognized by extension only and never decoded. Returns "" when the file
// is not part of the nanopore family.
func DetectSubtype(path string) Subtype {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}

	name := strings.ToLower(filepath.Base(path))

	switch {
	case strings.HasSuffix(name, ".csv"):
		lines, err := labmeta.FirstLines(path, 1)
		if err != nil || len(lines) == 0 {
			return ""
		}
		first := strings.ToLower(lines[0])
		switch {
		case strings.Contains(first, "protocol_run_id"):
			return SubtypeSampleSheet
		case strings.Contains(first, "channel state"):
			return SubtypePoreActivity
		case strings.Contains(first, "experiment time"):
			return SubtypeThroughput
		case strings.Contains(first, "mux_scan_assessment"):
			return SubtypePoreScan
		case strings.Contains(first, "current_target_temperature"):
			return SubtypeTemperature
		}
		return ""

	case strings.HasSuffix(name, ".json") && strings.Contains(name, "report"):
		return SubtypeJSONReport
	case strings.HasSuffix(name, ".txt") && strings.HasPrefix(name, "final_summary"):
		return SubtypeFinalSummary
	case strings.HasSuffix(name, ".txt") && strings.HasPrefix(name, "sequencing_summary"):
		return SubtypeSequencingSummary
	case strings.HasSuffix(name, ".md") && strings.Contains(name, "report"):
		return SubtypeMarkdownReport
	case strings.HasSuffix(name, ".pod5"):
		return SubtypePOD5
	case strings.HasSuffix(name, ".fastq.gz"):
		return SubtypeFASTQ
	case strings.HasSuffix(name, ".bam.bai"):
		return SubtypeBAMIndex
	case strings.HasSuffix(name, ".bam"):
		return SubtypeBAM
	}

	return ""
}

// Probe adapts DetectSubtype to the classifier's tagged-variant predicate
// shape.
func Probe(path string) (string, bool) {
	sub := DetectSubtype(path)
	return string(sub), sub != ""
}

package labmeta

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Filename-embedded metadata. Several instrument families encode the
// operational context in fixed filename positions rather than in the file
// body, so these are pure functions of the name and need no file access.

// FilenameMetadata is the fixed-position metadata carried by a report
// filename, e.g. A00618_2024-01-19_15-59-34_FM-AutoTilt_Report.csv or
// A00618_A_2024-01-19_Thermal_Report.csv.
type FilenameMetadata struct {
	Instrument string
	Side       string
	Date       string
	Time       string
}

var (
	thermalNamePattern     = regexp.MustCompile(`^([^_]+)_([^_]+)_(\d{4}-\d{2}-\d{2})`)
	timestampedNamePattern = regexp.MustCompile(`([A-Z0-9]+)_(\d{4}-\d{2}-\d{2})_(\d{2}-\d{2}-\d{2})`)
	oridPattern            = regexp.MustCompile(`(ORID[0-9A-Za-z]+)(?:-|$)`)
	proposalTagPattern     = regexp.MustCompile(`(?i)(ORID\d{4})`)
)

// ParseThermalFilename extracts instrument, side/channel and run date from a
// thermal cycler report filename of the form INSTRUMENT_SIDE_YYYY-MM-DD*.
func ParseThermalFilename(name string) (FilenameMetadata, bool) {
	root := strings.TrimSuffix(name, filepath.Ext(name))
	m := thermalNamePattern.FindStringSubmatch(root)
	if m == nil {
		return FilenameMetadata{}, false
	}
	return FilenameMetadata{Instrument: m[1], Side: m[2], Date: m[3]}, true
}

// ParseTimestampedFilename extracts instrument, date and time from filenames
// of the form INSTRUMENT_YYYY-MM-DD_HH-MM-SS*.
func ParseTimestampedFilename(name string) (FilenameMetadata, bool) {
	m := timestampedNamePattern.FindStringSubmatch(name)
	if m == nil {
		return FilenameMetadata{}, false
	}
	return FilenameMetadata{Instrument: m[1], Date: m[2], Time: m[3]}, true
}

// ORIDFromFilename extracts an embedded run-proposal identifier (ORID
// followed by an alphanumeric tail, terminated by a dash or end of name).
// Returns "" when none is present.
func ORIDFromFilename(name string) string {
	m := oridPattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1]
}

// ProposalTag extracts the strict four-digit proposal tag (ORIDnnnn),
// case-insensitively, uppercased. Returns "" when none is present. The
// recursive proposal crawler and the sequencer sample-sheet extractor use
// this stricter form.
func ProposalTag(name string) string {
	m := proposalTagPattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

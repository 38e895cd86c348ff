package extract

import (
	"path/filepath"
	"strings"

	"github.com/lade-rit/labmeta"
)

const fmAutoTiltFileType = "FM-AutoTilt Report"

var autoTiltKeyCleaner = strings.NewReplacer("=", "", ",", "")

// IsFMAutoTiltReport reports whether the file opens with the through-focus
// stack section marker.
func IsFMAutoTiltReport(path string) bool {
	lines, err := labmeta.FirstLines(path, 1)
	if err != nil || len(lines) == 0 {
		return false
	}
	return strings.HasPrefix(lines[0], "[FTM Through-Focus Stack")
}

// FMAutoTiltReport extracts an auto-tilt focus report. All run context lives
// in the filename (INSTRUMENT_DATE_TIME plus an optional proposal id); every
// bracket section in the body is captured dynamically. Section names here
// can embed '=' and ',' characters, which are stripped from the keys.
func FMAutoTiltReport(path string) (*labmeta.NormalizedRecord, error) {
	name := filepath.Base(path)
	if !IsFMAutoTiltReport(path) {
		return nil, labmeta.InvalidFormatError{Format: fmAutoTiltFileType, File: name}
	}

	lines, err := labmeta.ReadFileLines(path)
	if err != nil {
		return nil, err
	}

	metadata := make(map[string]string)
	if m, ok := labmeta.ParseTimestampedFilename(name); ok {
		metadata["instrument_id"] = m.Instrument
		metadata["date"] = m.Date
		metadata["time"] = m.Time
	}
	if orid := labmeta.ORIDFromFilename(name); orid != "" {
		metadata["orid"] = orid
	} else {
		metadata["orid"] = "N/A"
	}

	extra := make(map[string]any)
	for key, sec := range labmeta.DecodeAllSections(lines, ',') {
		key = autoTiltKeyCleaner.Replace(key)
		if len(sec.Pairs) > 0 {
			extra[key] = sec.Pairs
		} else {
			extra[key] = sec.Rows
		}
	}

	return &labmeta.NormalizedRecord{
		FileName: name,
		FileType: fmAutoTiltFileType,
		FilePath: path,
		Metadata: metadata,
		ORID:     labmeta.ORIDFromFilename(name),
		Extra:    extra,
	}, nil
}

package extract

import (
	"path/filepath"
	"strings"

	"github.com/lade-rit/labmeta"
)

const fmGenerationFileType = "FM-Generation Report"

// IsFMGenerationReport reports whether the first line carries the focus
// model generation report's "Instrument Name" field.
func IsFMGenerationReport(path string) bool {
	lines, err := labmeta.FirstLines(path, 1)
	if err != nil || len(lines) == 0 {
		return false
	}
	return strings.Contains(lines[0], "Instrument Name")
}

// FMGenerationReport extracts a focus-model generation report: top-of-file
// key/value lines become metadata, then every bracket section is captured —
// 2-column sections as ordered summaries, everything else as tables. A
// section that fails to decode is omitted; none are individually required.
func FMGenerationReport(path string) (*labmeta.NormalizedRecord, error) {
	name := filepath.Base(path)
	if !IsFMGenerationReport(path) {
		return nil, labmeta.InvalidFormatError{Format: fmGenerationFileType, File: name}
	}

	lines, err := labmeta.ReadFileLines(path)
	if err != nil {
		return nil, err
	}

	return &labmeta.NormalizedRecord{
		FileName: name,
		FileType: fmGenerationFileType,
		FilePath: path,
		Metadata: topMetadata(lines),
		ORID:     labmeta.ORIDFromFilename(name),
		Extra:    sectionExtras(labmeta.DecodeAllSections(lines, ',')),
	}, nil
}

// topMetadata flattens the key,value lines preceding the first bracket
// marker into a metadata mapping.
func topMetadata(lines []string) map[string]string {
	metadata := make(map[string]string)
	for _, line := range lines {
		if strings.HasPrefix(line, "[") {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		k, v, _ := strings.Cut(line, ",")
		if k = strings.TrimSpace(k); k != "" {
			metadata[labmeta.NormalizeKey(k)] = strings.TrimSpace(v)
		}
	}
	return metadata
}

func sectionExtras(sections map[string]*labmeta.Section) map[string]any {
	extra := make(map[string]any, len(sections))
	for key, sec := range sections {
		if len(sec.Pairs) > 0 {
			extra[key] = sec.Pairs
		} else {
			extra[key] = sec.Rows
		}
	}
	return extra
}

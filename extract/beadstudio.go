package extract

import (
	"path/filepath"
	"strings"

	"github.com/lade-rit/labmeta"
)

const beadStudioFileType = "BeadStudio Sample Sheet"

// IsBeadStudio reports whether the BeadStudio keyword appears anywhere in
// the first 20 lines of the file.
func IsBeadStudio(path string) bool {
	lines, err := labmeta.FirstLines(path, 20)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(strings.Join(lines, "\n")), "beadstudio")
}

// BeadStudio extracts header metadata, the manifest identifier and the
// sample count from an array-scanner sample sheet. The [Header] section is
// required; [Manifests] and [Data] are not.
func BeadStudio(path string) (*labmeta.NormalizedRecord, error) {
	name := filepath.Base(path)
	if !IsBeadStudio(path) {
		return nil, labmeta.InvalidFormatError{Format: beadStudioFileType, File: name}
	}

	lines, err := labmeta.ReadFileLines(path)
	if err != nil {
		return nil, err
	}

	header, err := labmeta.LocateSection(lines, "[Header]", ',')
	if err != nil {
		return nil, err
	}

	return &labmeta.NormalizedRecord{
		FileName:    name,
		FileType:    beadStudioFileType,
		FilePath:    path,
		Metadata:    pairsToMetadata(header.Pairs),
		ManifestID:  manifestID(lines),
		SampleCount: beadStudioSampleCount(lines),
	}, nil
}

// manifestID returns the second comma-field of the line immediately after
// the [Manifests] marker, or "N/A" when the section or the field is absent.
func manifestID(lines []string) string {
	for i, line := range lines {
		if !strings.HasPrefix(line, "[Manifests]") {
			continue
		}
		if i+1 < len(lines) {
			if fields := strings.Split(strings.TrimSpace(lines[i+1]), ","); len(fields) >= 2 {
				return strings.TrimSpace(fields[1])
			}
		}
		break
	}
	return "N/A"
}

// beadStudioSampleCount counts the data rows of the [Data] section. A
// missing or undecodable section counts as zero samples; only [Header] is
// required for this format.
func beadStudioSampleCount(lines []string) int {
	data, err := labmeta.LocateSection(lines, "[Data]", ',')
	if err != nil {
		return 0
	}
	return len(data.Rows)
}

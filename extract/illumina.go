package extract

import (
	"path/filepath"
	"strings"

	"github.com/lade-rit/labmeta"
)

const illuminaFileType = "Illumina Sample Sheet"

// IsIlluminaSampleSheet checks the first 20 lines for a [Header] section
// whose block declares the GenerateFASTQ workflow and Amplicon chemistry.
func IsIlluminaSampleSheet(path string) bool {
	lines, err := labmeta.FirstLines(path, 20)
	if err != nil {
		return false
	}

	content := strings.ToLower(strings.Join(lines, "\n"))
	_, block, found := strings.Cut(content, "[header]")
	if !found {
		return false
	}
	if i := strings.Index(block, "["); i >= 0 {
		block = block[:i]
	}

	return strings.Contains(block, "workflow,generatefastq") &&
		strings.Contains(block, "chemistry,amplicon")
}

// IlluminaSampleSheet extracts a sequencer sample sheet: the required
// [Header] section becomes metadata, the [Data] section (when present and
// decodable) becomes the sample-row list, and a proposal id is taken from
// the filename or, failing that, from the experiment name.
func IlluminaSampleSheet(path string) (*labmeta.NormalizedRecord, error) {
	name := filepath.Base(path)
	if !IsIlluminaSampleSheet(path) {
		return nil, labmeta.InvalidFormatError{Format: illuminaFileType, File: name}
	}

	lines, err := labmeta.ReadFileLines(path)
	if err != nil {
		return nil, err
	}

	header, err := labmeta.LocateSection(lines, "[Header]", ',')
	if err != nil {
		return nil, err
	}
	metadata := pairsToMetadata(header.Pairs)

	orid := labmeta.ProposalTag(name)
	if orid == "" {
		orid = labmeta.ProposalTag(metadata["experiment_name"])
	}
	if orid != "" {
		metadata["proposal_id"] = orid
	}

	// [Data] is not required; a sheet without it simply has no samples.
	var samples []labmeta.Row
	if data, err := labmeta.LocateSection(lines, "[Data]", ','); err == nil {
		samples = data.Rows
	}

	return &labmeta.NormalizedRecord{
		FileName:    name,
		FileType:    illuminaFileType,
		FilePath:    path,
		Metadata:    metadata,
		ORID:        orid,
		SampleCount: len(samples),
		Samples:     samples,
	}, nil
}

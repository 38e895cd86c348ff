// Package history reconciles a target sample's appearances across all
// previously extracted records into one ordered timeline.
package history

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/carbocation/pfx"
	"github.com/lade-rit/labmeta"
)

// Entry records one appearance of the target sample: where it was seen,
// under which format, the full metadata snapshot of that record, and the
// matching sample row verbatim.
type Entry struct {
	SourceFile string            `json:"source_file"`
	FileType   string            `json:"file_type"`
	Metadata   map[string]string `json:"extraction_metadata"`
	ManifestID string            `json:"manifest_id,omitempty"`
	Sample     json.RawMessage   `json:"sample_details"`

	date time.Time
}

// record is the loose shape of a persisted NormalizedRecord; fields this
// pass does not inspect are ignored.
type record struct {
	FileName   string            `json:"file_name"`
	FileType   string            `json:"file_type"`
	Metadata   map[string]string `json:"metadata"`
	ManifestID string            `json:"manifest_id"`
	Samples    []json.RawMessage `json:"samples"`
}

// BuildHistory scans every JSON record in recordsDir for sample rows whose
// Sample_ID or Sample_Name equals targetSampleID (case-insensitively) and
// returns the matches sorted ascending by each record's metadata date.
// Records with missing or unparseable dates sort first rather than being
// dropped. When at least one entry matches, the collection is persisted to
// outputDir as History_<id>.json; zero matches write nothing and return an
// empty, non-error result.
func BuildHistory(recordsDir, targetSampleID, outputDir string) ([]Entry, error) {
	names, err := os.ReadDir(recordsDir)
	if err != nil {
		return nil, pfx.Err(err)
	}

	target := strings.ToLower(targetSampleID)
	var entries []Entry

	for _, de := range names {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}

		path := filepath.Join(recordsDir, de.Name())
		b, err := os.ReadFile(path)
		if err != nil {
			log.Println("skipping unreadable record:", path, err)
			continue
		}

		var rec record
		if err := json.Unmarshal(b, &rec); err != nil {
			log.Println("skipping undecodable record:", path, err)
			continue
		}

		date := labmeta.ParseFlexibleDate(rec.Metadata["date"])
		for _, raw := range rec.Samples {
			if !sampleMatches(raw, target) {
				continue
			}
			entries = append(entries, Entry{
				SourceFile: rec.FileName,
				FileType:   rec.FileType,
				Metadata:   rec.Metadata,
				ManifestID: rec.ManifestID,
				Sample:     raw,
				date:       date,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].date.Before(entries[j].date)
	})

	if len(entries) == 0 {
		return nil, nil
	}

	if err := writeHistory(entries, targetSampleID, outputDir); err != nil {
		return nil, err
	}

	return entries, nil
}

// sampleMatches checks the row's primary identifier field and the alternate
// naming convention, case-insensitively.
func sampleMatches(raw json.RawMessage, target string) bool {
	var row map[string]any
	if err := json.Unmarshal(raw, &row); err != nil {
		return false
	}

	for _, field := range []string{"Sample_ID", "Sample_Name"} {
		if v, ok := row[field].(string); ok && strings.ToLower(v) == target {
			return true
		}
	}
	return false
}

func writeHistory(entries []Entry, targetSampleID, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return pfx.Err(err)
	}

	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return pfx.Err(err)
	}

	out := filepath.Join(outputDir, "History_"+targetSampleID+".json")
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return pfx.Err(err)
	}

	return nil
}

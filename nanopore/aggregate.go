package nanopore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/carbocation/pfx"
	"github.com/lade-rit/labmeta"
)

// StateFileName is the single consolidated record accumulating metrics
// across all files of one run. It is the only cross-invocation shared state
// in the system.
const StateFileName = "Generalized_metadata.json"

// UnknownRunID is the run identifier before any fragment resolves it.
const UnknownRunID = "unknown"

// RunRecord is the consolidated run record: one per output location, read,
// merged and fully rewritten on every processed file.
type RunRecord struct {
	RunID          string         `json:"run_id"`
	Metrics        map[string]any `json:"metrics"`
	FilesProcessed []string       `json:"files_processed"`
}

// NewRunRecord returns an empty consolidated record.
func NewRunRecord() *RunRecord {
	return &RunRecord{
		RunID:          UnknownRunID,
		Metrics:        make(map[string]any),
		FilesProcessed: []string{},
	}
}

// LoadRunRecord reads the consolidated record from path. A missing or
// undecodable state file yields a fresh record rather than an error, so a
// corrupted state never wedges the run.
func LoadRunRecord(path string) *RunRecord {
	b, err := os.ReadFile(path)
	if err != nil {
		return NewRunRecord()
	}

	rec := NewRunRecord()
	if err := json.Unmarshal(b, rec); err != nil {
		return NewRunRecord()
	}
	if rec.RunID == "" {
		rec.RunID = UnknownRunID
	}
	if rec.Metrics == nil {
		rec.Metrics = make(map[string]any)
	}
	if rec.FilesProcessed == nil {
		rec.FilesProcessed = []string{}
	}

	return rec
}

// MergeIntoRun classifies inputPath to its run-artifact subtype, builds the
// matching payload fragment and merges it into the consolidated record kept
// in outputDir, then rewrites the record in full.
//
// Merging is last-write-wins per subtype key, and the processed-file list
// gains a name at most once, so reprocessing a file is idempotent. The run
// identifier resolves from a sample-sheet fragment first, falling back to a
// final-summary fragment, and once resolved is never overwritten.
//
// Known limitation: the load/merge/rewrite cycle on the state file is not
// atomic. Two invocations targeting the same output location concurrently
// can lose an update.
func MergeIntoRun(inputPath, outputDir string) (*RunRecord, error) {
	subtype := DetectSubtype(inputPath)
	if subtype == "" {
		return nil, labmeta.InvalidFormatError{
			Format: "Nanopore run artifact",
			File:   filepath.Base(inputPath),
		}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, pfx.Err(err)
	}
	statePath := filepath.Join(outputDir, StateFileName)
	rec := LoadRunRecord(statePath)

	key, payload, ok, err := BuildFragment(inputPath, subtype)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Nothing mergeable (binary artifact or empty log); state unchanged.
		return rec, nil
	}

	rec.Metrics[key] = payload
	rec.resolveRunID(subtype, payload)

	name := filepath.Base(inputPath)
	if !containsString(rec.FilesProcessed, name) {
		rec.FilesProcessed = append(rec.FilesProcessed, name)
	}

	if err := rec.save(statePath); err != nil {
		return nil, err
	}

	return rec, nil
}

// resolveRunID fills the run identifier while it is still unknown. A
// sample-sheet fragment is the authoritative source; a final summary is the
// fallback. A resolved identifier is never replaced by a later fragment of
// either kind.
func (r *RunRecord) resolveRunID(subtype Subtype, payload any) {
	if r.RunID != UnknownRunID {
		return
	}

	switch subtype {
	case SubtypeSampleSheet:
		if row, isRow := payload.(labmeta.Row); isRow {
			if id, found := row.Get("protocol_run_id"); found && id != "" {
				r.RunID = id
			}
		}
	case SubtypeFinalSummary:
		if meta, isMap := payload.(map[string]string); isMap {
			id := meta["protocol_run_id"]
			if id == "" {
				id = meta["run_id"]
			}
			if id != "" {
				r.RunID = id
			}
		}
	}
}

func (r *RunRecord) save(path string) error {
	b, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return pfx.Err(err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return pfx.Err(err)
	}
	return nil
}

package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeRecord(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const datedRecord = `{
  "file_name": "SampleSheet.csv",
  "file_type": "Illumina Sample Sheet",
  "metadata": {"date": "2024-01-19", "experiment_name": "Run7"},
  "samples": [
    {"Sample_ID": "S001", "index": "ATTACTCG"},
    {"Sample_ID": "S002", "index": "TCCGGAGA"}
  ]
}`

const undatedRecord = `{
  "file_name": "nanodrop_export.csv",
  "file_type": "NanoDrop QC export",
  "metadata": {"date": "sometime last week"},
  "samples": [
    {"Sample_ID": "s001", "concentration_ng_ul": "50.0"}
  ]
}`

const missingDateRecord = `{
  "file_name": "beadstudio_sheet.csv",
  "file_type": "BeadStudio Sample Sheet",
  "manifest_id": "GSAMD-24v3.bpm",
  "metadata": {"project_name": "Genotyping"},
  "samples": [
    {"Sample_Name": "S001", "SentrixBarcode_A": "207512340001"}
  ]
}`

func TestBuildHistoryMatchesAndOrders(t *testing.T) {
	recordsDir, outputDir := t.TempDir(), t.TempDir()
	writeRecord(t, recordsDir, "sheet.json", datedRecord)
	writeRecord(t, recordsDir, "nanodrop.json", undatedRecord)
	writeRecord(t, recordsDir, "beadstudio.json", missingDateRecord)

	entries, err := BuildHistory(recordsDir, "S001", outputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d", len(entries))
	}

	// Unparseable and missing dates sort before the real date.
	if entries[2].SourceFile != "SampleSheet.csv" {
		t.Errorf("last entry = %s, the dated record must sort last", entries[2].SourceFile)
	}

	// Matching is case-insensitive and covers both identifier conventions.
	for _, e := range entries {
		if e.SourceFile == "beadstudio_sheet.csv" && e.ManifestID != "GSAMD-24v3.bpm" {
			t.Errorf("manifest id lost: %+v", e)
		}
	}

	out := filepath.Join(outputDir, "History_S001.json")
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var persisted []map[string]any
	if err := json.Unmarshal(b, &persisted); err != nil {
		t.Fatal(err)
	}
	if len(persisted) != 3 {
		t.Errorf("persisted entries = %d", len(persisted))
	}
}

func TestBuildHistorySampleRowKeptVerbatim(t *testing.T) {
	recordsDir, outputDir := t.TempDir(), t.TempDir()
	writeRecord(t, recordsDir, "sheet.json", datedRecord)

	entries, err := BuildHistory(recordsDir, "S002", outputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}

	var row map[string]string
	if err := json.Unmarshal(entries[0].Sample, &row); err != nil {
		t.Fatal(err)
	}
	if row["index"] != "TCCGGAGA" {
		t.Errorf("sample row = %v", row)
	}
}

func TestBuildHistoryNoMatchesWritesNothing(t *testing.T) {
	recordsDir, outputDir := t.TempDir(), t.TempDir()
	writeRecord(t, recordsDir, "sheet.json", datedRecord)

	entries, err := BuildHistory(recordsDir, "absent-sample", outputDir)
	if err != nil {
		t.Fatal(err)
	}
	if entries != nil {
		t.Errorf("entries = %v", entries)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "History_absent-sample.json")); !os.IsNotExist(err) {
		t.Error("no history file should be written without matches")
	}
}

func TestBuildHistorySkipsUndecodableRecords(t *testing.T) {
	recordsDir, outputDir := t.TempDir(), t.TempDir()
	writeRecord(t, recordsDir, "broken.json", "{not json")
	writeRecord(t, recordsDir, "sheet.json", datedRecord)

	entries, err := BuildHistory(recordsDir, "S001", outputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("entries = %d", len(entries))
	}
}

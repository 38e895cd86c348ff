package summary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lade-rit/labmeta"
)

func TestBuildTable(t *testing.T) {
	records := []*labmeta.NormalizedRecord{
		{
			FileName: "SampleSheet.csv",
			FileType: "Illumina Sample Sheet",
			Metadata: map[string]string{
				"project_name":    "Genotyping",
				"experiment_name": "Run7",
				"date":            "01/19/2024",
			},
			ORID:        "ORID0036",
			SampleCount: 2,
		},
		{
			FileName: "thermal.csv",
			FileType: "Thermal Report",
			Metadata: map[string]string{"date": "N/A"},
		},
	}

	rows := BuildTable(records)
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}

	if rows[0].Date.String != "2024-01-19" || !rows[0].Date.Valid {
		t.Errorf("date = %+v, want normalized ISO form", rows[0].Date)
	}
	if rows[0].ProposalID.String != "ORID0036" {
		t.Errorf("proposal = %+v", rows[0].ProposalID)
	}

	// N/A placeholders render as absent cells, not literal text.
	if rows[1].Date.Valid || rows[1].ProjectName.Valid {
		t.Errorf("placeholders leaked: %+v", rows[1])
	}
}

func TestWriteTable(t *testing.T) {
	dir := t.TempDir()
	rows := []Row{{
		FileName:    "SampleSheet.csv",
		FileType:    "Illumina Sample Sheet",
		SampleCount: 2,
	}}

	out, err := WriteTable(rows, dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(out) != TableName {
		t.Errorf("out = %s", out)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	content := string(b)
	if !strings.Contains(content, "File name") || !strings.Contains(content, "Number of samples") {
		t.Errorf("header missing: %s", content)
	}
	if !strings.Contains(content, "SampleSheet.csv") {
		t.Errorf("row missing: %s", content)
	}
}

func TestNormalizeDateLeavesUnparseable(t *testing.T) {
	if got := normalizeDate("sometime last week"); got != "sometime last week" {
		t.Errorf("got %q", got)
	}
	if got := normalizeDate("20240119"); got != "2024-01-19" {
		t.Errorf("got %q", got)
	}
}

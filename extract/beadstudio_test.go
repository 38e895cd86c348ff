package extract

import (
	"testing"
)

func TestBeadStudio(t *testing.T) {
	path := writeTemp(t, "beadstudio_sheet.csv", beadStudioFixture)

	rec, err := BeadStudio(path)
	if err != nil {
		t.Fatal(err)
	}

	if rec.FileType != "BeadStudio Sample Sheet" {
		t.Errorf("file type = %q", rec.FileType)
	}
	if rec.Metadata["project_name"] != "BeadStudio Genotyping" {
		t.Errorf("metadata = %v", rec.Metadata)
	}
	if rec.ManifestID != "GSAMD-24v3-0-EA_20034606_A2.bpm" {
		t.Errorf("manifest id = %q", rec.ManifestID)
	}
	if rec.SampleCount != 2 {
		t.Errorf("sample count = %d", rec.SampleCount)
	}
}

func TestBeadStudioManifestAbsent(t *testing.T) {
	content := "[Header]\nProcessed by,BeadStudio\nProject Name,Foo\n"
	path := writeTemp(t, "beadstudio_noman.csv", content)

	rec, err := BeadStudio(path)
	if err != nil {
		t.Fatal(err)
	}
	if rec.ManifestID != "N/A" {
		t.Errorf("manifest id = %q, want N/A", rec.ManifestID)
	}
	if rec.SampleCount != 0 {
		t.Errorf("sample count = %d", rec.SampleCount)
	}
}

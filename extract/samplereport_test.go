package extract

import (
	"testing"
)

const samplesReportFixture = `Sample_ID;Sequencing_Step;Notes;Decision
S001;pre;low concentration;diluted and repeated
S002;post;adapter dimer peak;accepted with flag
`

func TestSamplesReport(t *testing.T) {
	path := writeTemp(t, "observations.csv", samplesReportFixture)

	rec, err := SamplesReport(path)
	if err != nil {
		t.Fatal(err)
	}

	if rec.SampleCount != 2 {
		t.Fatalf("sample count = %d", rec.SampleCount)
	}
	if v, _ := rec.Samples[0].Get("Notes"); v != "low concentration" {
		t.Errorf("first row = %v", rec.Samples[0])
	}
	if v, _ := rec.Samples[1].Get("Decision"); v != "accepted with flag" {
		t.Errorf("second row = %v", rec.Samples[1])
	}
}

func TestIsSamplesReportRequiresSignature(t *testing.T) {
	path := writeTemp(t, "other.csv", "Sample_ID;Comment\nS1;fine\n")
	if IsSamplesReport(path) {
		t.Error("header without Notes must not match")
	}
}

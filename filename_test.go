package labmeta

import "testing"

func TestParseThermalFilename(t *testing.T) {
	meta, ok := ParseThermalFilename("A00618_A_2024-01-19_Thermal_Report.csv")
	if !ok {
		t.Fatal("expected match")
	}
	if meta.Instrument != "A00618" || meta.Side != "A" || meta.Date != "2024-01-19" {
		t.Errorf("got %+v", meta)
	}

	if _, ok := ParseThermalFilename("no-underscores.csv"); ok {
		t.Error("expected no match")
	}
}

func TestParseTimestampedFilename(t *testing.T) {
	meta, ok := ParseTimestampedFilename("A00618_2024-01-19_15-59-34_FM-AutoTilt_Report.csv")
	if !ok {
		t.Fatal("expected match")
	}
	if meta.Instrument != "A00618" || meta.Date != "2024-01-19" || meta.Time != "15-59-34" {
		t.Errorf("got %+v", meta)
	}
}

func TestORIDFromFilename(t *testing.T) {
	for _, v := range []struct{ in, want string }{
		{"ORID0036-run1_Thermal_Report.csv", "ORID0036"},
		{"A00618_ORID12ab", "ORID12ab"},
		{"plain_report.csv", ""},
	} {
		if got := ORIDFromFilename(v.in); got != v.want {
			t.Errorf("ORIDFromFilename(%q) = %q, want %q", v.in, got, v.want)
		}
	}
}

func TestProposalTag(t *testing.T) {
	for _, v := range []struct{ in, want string }{
		{"orid0036_samples", "ORID0036"},
		{"Experiment ORID1234", "ORID1234"},
		{"ORIDabcd", ""},
		{"nothing here", ""},
	} {
		if got := ProposalTag(v.in); got != v.want {
			t.Errorf("ProposalTag(%q) = %q, want %q", v.in, got, v.want)
		}
	}
}

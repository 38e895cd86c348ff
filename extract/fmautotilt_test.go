package extract

import (
	"testing"

	"github.com/lade-rit/labmeta"
)

const fmAutoTiltFixture = `[FTM Through-Focus Stack = 1, Surface A]
Z Position,Focus Score,Stage Temp
-2.0,0.31,24.9
0.0,0.95,25.0
2.0,0.28,25.1
`

func TestFMAutoTiltReport(t *testing.T) {
	path := writeTemp(t, "A00618_2024-01-19_15-59-34_FM-AutoTilt_Report.csv", fmAutoTiltFixture)

	rec, err := FMAutoTiltReport(path)
	if err != nil {
		t.Fatal(err)
	}

	if rec.Metadata["instrument_id"] != "A00618" || rec.Metadata["date"] != "2024-01-19" || rec.Metadata["time"] != "15-59-34" {
		t.Errorf("metadata = %v", rec.Metadata)
	}
	if rec.Metadata["orid"] != "N/A" {
		t.Errorf("orid = %q, want N/A placeholder", rec.Metadata["orid"])
	}

	// Section names embed '=' and ',' characters; both are stripped.
	rows, ok := rec.Extra["ftm_through-focus_stack__1_surface_a"].([]labmeta.Row)
	if !ok {
		t.Fatalf("extra keys = %v", rec.Extra)
	}
	if len(rows) != 3 {
		t.Errorf("rows = %v", rows)
	}
}

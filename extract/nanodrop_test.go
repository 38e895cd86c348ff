package extract

import (
	"encoding/csv"
	"io"
	"math"
	"testing"

	"github.com/gocarina/gocsv"
)

const nanoDropFixture = `Sample.ID,User.name,ng.ul,260.280,260.230
S001,lab,50.0,1.82,2.10
S002,lab,70.0,1.79,2.05
S003,lab,not measured,1.90,2.00
`

func TestNanoDropExport(t *testing.T) {
	path := writeTemp(t, "nanodrop_export.csv", nanoDropFixture)

	rec, err := NanoDropExport(path)
	if err != nil {
		t.Fatal(err)
	}

	if rec.SampleCount != 3 {
		t.Fatalf("sample count = %d", rec.SampleCount)
	}
	if v, _ := rec.Samples[0].Get("Sample_ID"); v != "S001" {
		t.Errorf("first sample = %v", rec.Samples[0])
	}
	if v, _ := rec.Samples[1].Get("concentration_ng_ul"); v != "70.0" {
		t.Errorf("second sample = %v", rec.Samples[1])
	}
	if v, _ := rec.Samples[2].Get("ratio_260_280"); v != "1.90" {
		t.Errorf("third sample = %v", rec.Samples[2])
	}

	// Only the two numeric concentrations participate in the summary.
	summary, ok := rec.Extra["concentration_summary"].(map[string]float64)
	if !ok {
		t.Fatalf("concentration_summary = %v", rec.Extra["concentration_summary"])
	}
	if math.Abs(summary["mean_ng_ul"]-60.0) > 1e-9 {
		t.Errorf("mean = %v", summary["mean_ng_ul"])
	}
	if summary["min_ng_ul"] != 50.0 || summary["max_ng_ul"] != 70.0 {
		t.Errorf("summary = %v", summary)
	}
}

// The comma decode must not depend on the process-wide gocsv reader
// configuration.
func TestNanoDropExportIgnoresGlobalReader(t *testing.T) {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = '\t'
		return r
	})
	defer gocsv.SetCSVReader(gocsv.DefaultCSVReader)

	path := writeTemp(t, "nanodrop_export.csv", nanoDropFixture)

	rec, err := NanoDropExport(path)
	if err != nil {
		t.Fatal(err)
	}
	if rec.SampleCount != 3 {
		t.Errorf("sample count = %d", rec.SampleCount)
	}
}

func TestNanoDropExportNoNumericConcentrations(t *testing.T) {
	content := "Sample.ID,ng.ul,260.280,260.230\nS001,pending,1.8,2.0\n"
	path := writeTemp(t, "nanodrop_pending.csv", content)

	rec, err := NanoDropExport(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := rec.Extra["concentration_summary"]; ok {
		t.Error("summary should be omitted without numeric concentrations")
	}
}

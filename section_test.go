package labmeta

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFileLinesStripsCRLF(t *testing.T) {
	path := writeTemp(t, "crlf.csv", "a,b\r\nc,d\r\n")
	lines, err := ReadFileLines(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a,b", "c,d"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestFirstLinesBounded(t *testing.T) {
	path := writeTemp(t, "many.csv", "one\ntwo\nthree\nfour\n")
	lines, err := FirstLines(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Errorf("got %v", lines)
	}
}

func TestLocateSectionHeaderPairs(t *testing.T) {
	lines := []string{
		"[Header]",
		"Project Name,Foo",
		"Experiment Name,Bar",
		"[Data]",
		"Sample_ID,Sample_Name",
		"S1,Alpha",
	}

	sec, err := LocateSection(lines, "[Header]", ',')
	if err != nil {
		t.Fatal(err)
	}
	if sec.Name != "Header" {
		t.Errorf("name = %q", sec.Name)
	}

	want := PairList{
		{Key: "Project Name", Value: "Foo"},
		{Key: "Experiment Name", Value: "Bar"},
	}
	if diff := cmp.Diff(want, sec.Pairs); diff != "" {
		t.Errorf("pairs mismatch (-want +got):\n%s", diff)
	}
	if len(sec.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(sec.Rows))
	}
}

func TestLocateSectionMissing(t *testing.T) {
	_, err := LocateSection([]string{"[Data]", "a,b,c"}, "[Header]", ',')
	var notFound SectionNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected SectionNotFoundError, got %v", err)
	}
	if notFound.Marker != "[Header]" {
		t.Errorf("marker = %q", notFound.Marker)
	}
}

func TestDecodeSectionTableShape(t *testing.T) {
	lines := []string{
		"[Data]",
		"Sample_ID,Sample_Name,Index",
		"S1,Alpha,A01",
		"S2,Beta,B01",
	}

	sec, err := LocateSection(lines, "[Data]", ',')
	if err != nil {
		t.Fatal(err)
	}
	if len(sec.Rows) != 2 {
		t.Fatalf("rows = %d", len(sec.Rows))
	}
	if v, _ := sec.Rows[1].Get("Sample_Name"); v != "Beta" {
		t.Errorf("Sample_Name = %q", v)
	}
}

// Sample-sheet exporters pad every line with trailing commas to a uniform
// width. The padding must not turn a 2-column summary into a table.
func TestDecodeSectionTrailingCommaPadding(t *testing.T) {
	lines := []string{
		"[Header]",
		"Project Name,Foo,,,",
		"Experiment Name,Bar,,,",
	}

	sec, err := LocateSection(lines, "[Header]", ',')
	if err != nil {
		t.Fatal(err)
	}
	if len(sec.Pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d pairs and %d rows", len(sec.Pairs), len(sec.Rows))
	}
	if sec.Pairs[0].Value != "Foo" || sec.Pairs[1].Value != "Bar" {
		t.Errorf("pairs = %v", sec.Pairs)
	}
}

// Uniform-width exports pad the marker line itself with trailing commas;
// the padding must not survive into the section name or map key.
func TestSectionNamePaddedMarker(t *testing.T) {
	lines := []string{
		"[Header],,,",
		"Project Name,Foo,,",
		"Experiment Name,Bar,,",
	}

	sec, err := LocateSection(lines, "[Header]", ',')
	if err != nil {
		t.Fatal(err)
	}
	if sec.Name != "Header" {
		t.Errorf("name = %q, want Header", sec.Name)
	}

	sections := DecodeAllSections(lines, ',')
	if _, ok := sections["header"]; !ok {
		t.Errorf("keys = %v, want header", sectionKeys(sections))
	}
}

func sectionKeys(sections map[string]*Section) []string {
	keys := make([]string, 0, len(sections))
	for k := range sections {
		keys = append(keys, k)
	}
	return keys
}

func TestDecodeAllSectionsSkipsBroken(t *testing.T) {
	lines := []string{
		"[Good]",
		"Key,Value",
		"[Broken]",
		`"unterminated,quote`,
		"[Data]",
		"A,B,C",
		"1,2,3",
	}

	sections := DecodeAllSections(lines, ',')
	if _, ok := sections["good"]; !ok {
		t.Error("good section missing")
	}
	if _, ok := sections["broken"]; ok {
		t.Error("broken section should be skipped")
	}
	if sec, ok := sections["data"]; !ok || len(sec.Rows) != 1 {
		t.Errorf("data section = %+v", sec)
	}
}

func TestRowMarshalPreservesOrderAndDuplicates(t *testing.T) {
	row := Row{
		{Key: "z_last", Value: "1"},
		{Key: "a_first", Value: "2"},
		{Key: "a_first", Value: "3"},
	}
	b, err := row.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	want := `{"z_last":"1","a_first":"2","a_first":"3"}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}

func TestPairListMarshalSingletonObjects(t *testing.T) {
	pairs := PairList{
		{Key: "Run Count", Value: "4"},
		{Key: "Run Count", Value: "5"},
	}
	b, err := pairs.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"Run Count":"4"},{"Run Count":"5"}]`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}

func TestNormalizeKey(t *testing.T) {
	for _, v := range []struct{ in, want string }{
		{"Project Name", "project_name"},
		{"  Experiment Name ", "experiment_name"},
		{"Reads", "reads"},
	} {
		if got := NormalizeKey(v.in); got != v.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", v.in, got, v.want)
		}
	}
}

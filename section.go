package labmeta

import (
	"bufio"
	"encoding/csv"
	"os"
	"strings"

	"github.com/carbocation/pfx"
)

// Section is one bracket-delimited sub-table of a sectioned instrument
// export. Exactly one of Pairs or Rows is populated: Pairs when the section
// decoded to two columns (a key/value summary), Rows otherwise (first line is
// the header, remaining lines are data rows).
type Section struct {
	Name  string // marker line with the surrounding brackets stripped
	Start int    // line index of the marker
	End   int    // line index one past the last section line
	Pairs PairList
	Rows  []Row
}

// ReadFileLines reads path and splits it into lines, dropping carriage
// returns. Instrument exports routinely arrive CRLF-terminated.
func ReadFileLines(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	lines := strings.Split(string(b), "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	// A trailing newline yields one phantom empty line
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	return lines, nil
}

// FirstLines reads up to n lines from path. Classification predicates use
// this so their cost stays independent of file size.
func FirstLines(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	lines := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for len(lines) < n && scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	return lines, nil
}

// LocateSection finds the section whose marker line starts with marker (e.g.
// "[Header]") and decodes it with the given delimiter. The section runs from
// the marker to the next line starting with '[' or the end of the file.
func LocateSection(lines []string, marker string, delimiter rune) (*Section, error) {
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(line, marker) {
			start = i
			break
		}
	}
	if start == -1 {
		return nil, SectionNotFoundError{Marker: marker}
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "[") {
			end = i
			break
		}
	}

	sec, err := decodeSection(lines[start+1:end], delimiter)
	if err != nil {
		return nil, MalformedSectionError{Marker: marker, Err: err}
	}
	sec.Name = sectionName(lines[start])
	sec.Start = start
	sec.End = end

	return sec, nil
}

// DecodeAllSections scans every bracket-marked boundary in one pass and
// decodes each slice between consecutive markers. Keys of the returned map
// are the normalized marker names. A section that fails to decode is omitted
// and scanning continues; only the caller knows which sections are required.
func DecodeAllSections(lines []string, delimiter rune) map[string]*Section {
	var markers []int
	for i, line := range lines {
		if strings.HasPrefix(line, "[") {
			markers = append(markers, i)
		}
	}

	out := make(map[string]*Section, len(markers))
	for idx, start := range markers {
		end := len(lines)
		if idx+1 < len(markers) {
			end = markers[idx+1]
		}

		sec, err := decodeSection(lines[start+1:end], delimiter)
		if err != nil {
			continue
		}
		if len(sec.Pairs) == 0 && len(sec.Rows) == 0 {
			continue
		}
		sec.Name = sectionName(lines[start])
		sec.Start = start
		sec.End = end
		out[NormalizeKey(sec.Name)] = sec
	}

	return out
}

// decodeSection decodes the body of one section. The effective column count
// (after dropping trailing empty cells, which pad many sample-sheet exports)
// selects the shape: two columns decode to an ordered key/value list, any
// other count decodes with the first row as header.
func decodeSection(lines []string, delimiter rune) (*Section, error) {
	records, err := decodeRecords(lines, delimiter)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Section{}, nil
	}

	width := 0
	for i := range records {
		records[i] = trimTrailingEmpty(records[i])
		if len(records[i]) > width {
			width = len(records[i])
		}
	}

	sec := &Section{}
	if width == 2 {
		for _, rec := range records {
			if len(rec) == 0 || rec[0] == "" {
				continue
			}
			p := Pair{Key: strings.TrimSpace(rec[0])}
			if len(rec) > 1 {
				p.Value = strings.TrimSpace(rec[1])
			}
			sec.Pairs = append(sec.Pairs, p)
		}
		return sec, nil
	}

	header := records[0]
	for _, rec := range records[1:] {
		if len(rec) == 0 {
			continue
		}
		row := make(Row, 0, len(header))
		for i, col := range header {
			v := ""
			if i < len(rec) {
				v = rec[i]
			}
			row = append(row, Pair{Key: col, Value: v})
		}
		sec.Rows = append(sec.Rows, row)
	}

	return sec, nil
}

func decodeRecords(lines []string, delimiter rune) ([][]string, error) {
	body := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		body = append(body, line)
	}

	r := csv.NewReader(strings.NewReader(strings.Join(body, "\n")))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	return r.ReadAll()
}

// sectionName strips the brackets from a marker line, cutting at the first
// ']' so the trailing comma padding of uniform-width exports never leaks into
// the name.
func sectionName(marker string) string {
	name := strings.TrimPrefix(strings.TrimSpace(marker), "[")
	if i := strings.IndexByte(name, ']'); i >= 0 {
		name = name[:i]
	}
	return name
}

func trimTrailingEmpty(rec []string) []string {
	for len(rec) > 0 && strings.TrimSpace(rec[len(rec)-1]) == "" {
		rec = rec[:len(rec)-1]
	}
	return rec
}

// NormalizeKey lowercases a label and replaces spaces with underscores. It is
// applied to top-level metadata keys and section names, never to table
// columns, whose spelling is part of the instrument's contract.
func NormalizeKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

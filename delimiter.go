package labmeta

import (
	"io"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the most likely rune delimiting the values in
// the reader, assuming a CSV-like file. Some instrument families export
// semicolon-separated variants of their comma formats, so extractors sniff
// rather than assume. Falls back to comma when detection is inconclusive.
func DetermineDelimiter(r io.Reader) rune {
	candidates := detector.New().DetectDelimiter(r, '"')
	if len(candidates) == 0 {
		return ','
	}
	return rune(candidates[0][0])
}

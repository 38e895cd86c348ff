package labmeta

import (
	"testing"
	"time"
)

func TestParseFlexibleDate(t *testing.T) {
	for _, v := range []struct {
		in   string
		want time.Time
	}{
		{"2024-01-19", time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC)},
		{"20240119", time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC)},
		{"01/19/2024", time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC)},
		// Day above 12 fails the US parse and falls through to the EU form.
		{"19/01/2024", time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC)},
		{"N/A", time.Time{}},
		{"", time.Time{}},
		{"not a date", time.Time{}},
	} {
		if got := ParseFlexibleDate(v.in); !got.Equal(v.want) {
			t.Errorf("ParseFlexibleDate(%q) = %v, want %v", v.in, got, v.want)
		}
	}
}

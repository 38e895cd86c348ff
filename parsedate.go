package labmeta

import "time"

// flexibleDateFormats is tried in order. The US form deliberately precedes
// the EU form: a day value above 12 fails the US parse and falls through.
var flexibleDateFormats = []string{
	"2006-01-02",
	"20060102",
	"01/02/2006",
	"02/01/2006",
}

// ParseFlexibleDate parses the date field of a metadata mapping with a fixed
// chain of known instrument date formats. Missing, "N/A" or unrecognized
// values return the zero time, which sorts before any real date; ambiguity
// is resolved by ordering, never by dropping the entry.
func ParseFlexibleDate(s string) time.Time {
	if s == "" || s == "N/A" {
		return time.Time{}
	}
	for _, layout := range flexibleDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

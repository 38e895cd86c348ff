package labmeta

// FormatID identifies one of the known instrument export families.
type FormatID string

const (
	FormatBeadStudio   FormatID = "beadstudio"
	FormatThermal      FormatID = "thermal"
	FormatFMGeneration FormatID = "fmgeneration"
	FormatIllumina     FormatID = "illumina"
	FormatFMAutoTilt   FormatID = "fmautotilt"
	FormatNanopore     FormatID = "nanopore"
	FormatNanoDrop     FormatID = "nanodrop"
	FormatSampleReport FormatID = "samplereport"
)

// Predicate tests whether a file belongs to a format, reading only a small
// bounded prefix of it. Boolean predicates return ("", true) on a match;
// tagged-variant predicates additionally return a subtype label from a fixed
// closed set. A predicate must swallow read failures (truncated file, wrong
// encoding) and report them as a non-match.
type Predicate func(path string) (subtype string, ok bool)

// Registration binds a format identifier to its predicate.
type Registration struct {
	Format FormatID
	Probe  Predicate
}

// Classifier evaluates registrations strictly in registration order and
// short-circuits on the first match. No scoring, no backtracking: when two
// predicates would both accept a file, registration order decides.
type Classifier struct {
	regs []Registration
}

func NewClassifier(regs ...Registration) *Classifier {
	return &Classifier{regs: regs}
}

// Classification is the result of a successful classify call.
type Classification struct {
	Format  FormatID
	Subtype string // empty for boolean predicates
}

// Classify returns the first matching format for path, or
// ErrClassificationMiss when no predicate accepts it.
func (c *Classifier) Classify(path string) (Classification, error) {
	for _, reg := range c.regs {
		if sub, ok := reg.Probe(path); ok {
			return Classification{Format: reg.Format, Subtype: sub}, nil
		}
	}
	return Classification{}, ErrClassificationMiss
}

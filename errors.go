package labmeta

import (
	"errors"
	"fmt"
)

// ErrClassificationMiss is returned by Classifier.Classify when no registered
// predicate recognizes the file. Callers decide whether that is a skip or a
// reportable condition.
var ErrClassificationMiss = errors.New("no registered format matched")

// SectionNotFoundError indicates that a required bracket-delimited section is
// absent from the file.
type SectionNotFoundError struct {
	Marker string
}

func (e SectionNotFoundError) Error() string {
	return fmt.Sprintf("section %s not found in file", e.Marker)
}

// MalformedSectionError indicates that a required section is present but could
// not be decoded. Non-required sections that fail to decode are simply
// omitted and never produce this error.
type MalformedSectionError struct {
	Marker string
	Err    error
}

func (e MalformedSectionError) Error() string {
	return fmt.Sprintf("section %s could not be decoded: %v", e.Marker, e.Err)
}

func (e MalformedSectionError) Unwrap() error { return e.Err }

// InvalidFormatError indicates that an extractor's own validation predicate
// rejected the file. Extractors re-validate even when the caller has already
// classified the file, so a stale or wrong classification surfaces here
// rather than as a confusing decode failure.
type InvalidFormatError struct {
	Format string
	File   string
}

func (e InvalidFormatError) Error() string {
	return fmt.Sprintf("%s is not a valid report of type %s", e.File, e.Format)
}

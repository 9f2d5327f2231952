// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package accession validates study identifiers and builds canonical
// study URLs. Every operation that takes a user-supplied identifier goes
// through Validate first.
package accession

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMissingIdentifier is returned when no identifier was supplied.
var ErrMissingIdentifier = errors.New("study identifier is required")

// InvalidFormatError reports an identifier that matches none of the
// accepted patterns. It carries the normalized form so callers can echo
// what was actually checked.
type InvalidFormatError struct {
	ID string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid study identifier %q: expected a format like S-ONTX26 or E-MTAB-1234", e.ID)
}

// Accepted accession patterns, checked in order:
// study accessions ("S-TOXR1735"), expression studies ("E-MTAB-1234"),
// and the general prefix-number form ("BSST123" style).
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`^S-[A-Z0-9]+$`),
	regexp.MustCompile(`^E-[A-Z]+-\d+$`),
	regexp.MustCompile(`^[A-Z]+-\d+$`),
}

// Validate trims and upper-cases the identifier, then checks it against
// the accepted patterns. The normalized form is returned even on a
// format error.
func Validate(id string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(id))
	if normalized == "" {
		return "", ErrMissingIdentifier
	}

	for _, p := range patterns {
		if p.MatchString(normalized) {
			return normalized, nil
		}
	}
	return normalized, &InvalidFormatError{ID: normalized}
}

// webBase is the registry's web front end root.
const webBase = "https://www.ebi.ac.uk/biostudies"

// StudyURL builds the canonical web address for an accession:
// collection-qualified when the collection is known, unqualified otherwise.
// The accession is assumed to be validated.
func StudyURL(acc, collection string) string {
	if collection != "" {
		return fmt.Sprintf("%s/%s/studies/%s", webBase, collection, acc)
	}
	return fmt.Sprintf("%s/studies/%s", webBase, acc)
}

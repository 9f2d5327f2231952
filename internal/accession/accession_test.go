// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package accession

import (
	"errors"
	"testing"
)

func TestValidateAccepts(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"study accession", "S-TOXR1735", "S-TOXR1735"},
		{"study with digits", "S-BSST123", "S-BSST123"},
		{"expression study", "E-MTAB-1234", "E-MTAB-1234"},
		{"general form", "BSST-123", "BSST-123"},
		{"lower case normalized", "s-ontx26", "S-ONTX26"},
		{"whitespace trimmed", "  S-TOXR889\n", "S-TOXR889"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.id)
			if err != nil {
				t.Fatalf("Validate(%q) error: %v", tt.id, err)
			}
			if got != tt.want {
				t.Errorf("Validate(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"bare word", "TOXR"},
		{"trailing dash", "S-"},
		{"embedded space", "S-TOX R1"},
		{"digits first", "123-ABC"},
		{"url", "https://example.org/S-TOXR1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.id)
			var ferr *InvalidFormatError
			if !errors.As(err, &ferr) {
				t.Fatalf("Validate(%q) error = %v, want InvalidFormatError", tt.id, err)
			}
			// The error and return value carry the normalized form.
			if ferr.ID != got {
				t.Errorf("error ID %q != returned %q", ferr.ID, got)
			}
		})
	}
}

func TestValidateMissing(t *testing.T) {
	for _, id := range []string{"", "   ", "\t\n"} {
		if _, err := Validate(id); !errors.Is(err, ErrMissingIdentifier) {
			t.Errorf("Validate(%q) error = %v, want ErrMissingIdentifier", id, err)
		}
	}
}

func TestStudyURL(t *testing.T) {
	if got := StudyURL("S-TOXR1735", "EU-ToxRisk"); got != "https://www.ebi.ac.uk/biostudies/EU-ToxRisk/studies/S-TOXR1735" {
		t.Errorf("collection URL = %q", got)
	}
	if got := StudyURL("S-TOXR1735", ""); got != "https://www.ebi.ac.uk/biostudies/studies/S-TOXR1735" {
		t.Errorf("unqualified URL = %q", got)
	}
}

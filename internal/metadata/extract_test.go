// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/pdiddy/study-catalog/pkg/types"
)

// exampleDoc is a miniature registry document with an author section that
// references an organization defined after it in document order.
const exampleDoc = `{
	"accno": "S-TOXR1735",
	"section": {
		"type": "Study",
		"attributes": [{"name": "Organism", "value": "human"}],
		"subsections": [
			{
				"type": "Author",
				"attributes": [
					{"name": "Name", "value": "Anna Forsby"},
					{"name": "affiliation", "value": "Swetox-KI", "reference": true}
				]
			},
			{
				"accno": "Swetox-KI",
				"type": "Organization",
				"attributes": [{"name": "Name", "value": "Swedish Toxicology Sciences Research Center"}]
			}
		]
	}
}`

func decodeDoc(t *testing.T, data string) *types.RawDocument {
	t.Helper()
	var doc types.RawDocument
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		t.Fatalf("decoding document: %v", err)
	}
	return &doc
}

func TestExtractEndToEnd(t *testing.T) {
	md := Extract(decodeDoc(t, exampleDoc))

	if md.HasError() {
		t.Fatalf("unexpected error: %s", md.Error)
	}
	if md.Accession != "S-TOXR1735" {
		t.Errorf("Accession = %q", md.Accession)
	}
	if got := md.BiologicalContext["organism"]; got != "human" {
		t.Errorf("biological_context[organism] = %q, want human", got)
	}
	if len(md.Authors) != 1 || md.Authors[0] != "Anna Forsby" {
		t.Errorf("Authors = %v, want [Anna Forsby]", md.Authors)
	}
	if len(md.AuthorDetails) != 1 {
		t.Fatalf("AuthorDetails = %+v, want one entry", md.AuthorDetails)
	}
	detail := md.AuthorDetails[0]
	if detail.AffiliationRef != "Swetox-KI" {
		t.Errorf("AffiliationRef = %q", detail.AffiliationRef)
	}
	// The organization appears after the author in document order; the
	// two-phase lookup must still resolve it.
	if detail.AffiliationName != "Swedish Toxicology Sciences Research Center" {
		t.Errorf("AffiliationName = %q", detail.AffiliationName)
	}
}

func TestExtractIdempotent(t *testing.T) {
	doc := decodeDoc(t, exampleDoc)
	first := Extract(doc)
	second := Extract(doc)
	if !reflect.DeepEqual(first, second) {
		t.Error("two extractions of the same document differ")
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	md := Extract(&types.RawDocument{})

	if md.HasError() {
		t.Fatalf("empty document should not be an error: %s", md.Error)
	}
	for field, got := range map[string]string{
		"Accession":        md.Accession,
		"Title":            md.Title,
		"Description":      md.Description,
		"ReleaseDate":      md.ReleaseDate,
		"ModificationDate": md.ModificationDate,
		"Type":             md.Type,
	} {
		if got != types.NotAvailable {
			t.Errorf("%s = %q, want %q", field, got, types.NotAvailable)
		}
	}
	if len(md.Attributes) != 0 || len(md.Authors) != 0 || len(md.Files) != 0 ||
		len(md.Links) != 0 || len(md.BiologicalContext) != 0 {
		t.Errorf("containers should be empty: %+v", md)
	}
}

func TestExtractNilDocument(t *testing.T) {
	md := Extract(nil)
	if !md.HasError() {
		t.Fatal("nil document should produce an error record")
	}
	if md.Accession != types.NotAvailable {
		t.Errorf("Accession = %q", md.Accession)
	}
}

func TestExtractTopLevelAttributes(t *testing.T) {
	doc := &types.RawDocument{
		Accno: "S-ONTX26",
		Type:  "submission",
		Attributes: []types.Attribute{
			{Name: "ReleaseDate", Value: "2024-03-27"},
			{Name: "AttachTo", Value: "EU-ToxRisk"},
			{Name: "Case Study", Value: "CS4"},
			{Name: "Organism", Value: "Zebrafish"},
			{Name: "Platform", Value: "Illumina"},
			{Name: "Author", Value: "Thomas Braunbeck"},
		},
	}
	md := Extract(doc)

	if md.Collection != "EU-ToxRisk" {
		t.Errorf("Collection = %q", md.Collection)
	}
	if md.CaseStudy != "CS4" {
		t.Errorf("CaseStudy = %q", md.CaseStudy)
	}
	if md.BiologicalContext["organism"] != "Zebrafish" {
		t.Errorf("biological_context = %v", md.BiologicalContext)
	}
	if md.TechnicalDetails["platform"] != "Illumina" {
		t.Errorf("technical_details = %v", md.TechnicalDetails)
	}
	if len(md.Authors) != 1 || md.Authors[0] != "Thomas Braunbeck" {
		t.Errorf("Authors = %v", md.Authors)
	}
	// Every attribute lands in the flat list, classified or not.
	if len(md.Attributes) != 6 {
		t.Errorf("len(Attributes) = %d, want 6", len(md.Attributes))
	}
	if md.Attributes[1].Name != "AttachTo" {
		t.Errorf("canonical name not preserved: %+v", md.Attributes[1])
	}
}

func TestExtractFacetFieldsFirstMatchWins(t *testing.T) {
	doc := &types.RawDocument{
		Attributes: []types.Attribute{
			{Name: "Case Study", Value: "CS1"},
			{Name: "Method name", Value: "whatever"},
			{Name: "Case Study", Value: "CS2"},
		},
	}
	md := Extract(doc)
	if md.CaseStudy != "CS1" {
		t.Errorf("CaseStudy = %q, want first match CS1", md.CaseStudy)
	}
}

func TestExtractRepeatedAttributesKeptFlatCollapsedInMaps(t *testing.T) {
	doc := &types.RawDocument{
		Attributes: []types.Attribute{
			{Name: "Compound", Value: "rotenone"},
			{Name: "Compound", Value: "capsaicin"},
			{Name: "Organism", Value: "human"},
			{Name: "Organism", Value: "rat"},
		},
	}
	md := Extract(doc)

	// The flat list keeps every occurrence.
	if len(md.Attributes) != 4 {
		t.Errorf("len(Attributes) = %d, want 4", len(md.Attributes))
	}
	// The classified map collapses last-write-wins.
	if md.BiologicalContext["organism"] != "rat" {
		t.Errorf("biological_context[organism] = %q, want rat", md.BiologicalContext["organism"])
	}
}

func TestExtractTitleFallback(t *testing.T) {
	withSection := func(topTitle string) *types.RawDocument {
		return &types.RawDocument{
			Title: topTitle,
			Section: &types.RawSection{
				Type: "Study",
				Attributes: []types.Attribute{
					{Name: "Title", Value: "Section title"},
					{Name: "Description", Value: "Section description"},
				},
			},
		}
	}

	md := Extract(withSection(""))
	if md.Title != "Section title" || md.Description != "Section description" {
		t.Errorf("fallback not applied: title=%q description=%q", md.Title, md.Description)
	}

	md = Extract(withSection("Top title"))
	if md.Title != "Top title" {
		t.Errorf("top-level title should win, got %q", md.Title)
	}
}

func TestExtractAuthorDedup(t *testing.T) {
	doc := &types.RawDocument{
		Attributes: []types.Attribute{{Name: "Author", Value: "Anna Forsby"}},
		Section: &types.RawSection{
			Type: "Study",
			Subsections: []types.RawSection{
				{
					Type: "Author",
					Attributes: []types.Attribute{
						{Name: "Name", Value: "Anna Forsby"},
						{Name: "E-mail", Value: "anna.forsby@dbb.su.se"},
					},
				},
			},
		},
	}
	md := Extract(doc)

	if len(md.Authors) != 1 {
		t.Errorf("Authors = %v, want exactly one entry", md.Authors)
	}
	if len(md.AuthorDetails) != 1 || md.AuthorDetails[0].Email != "anna.forsby@dbb.su.se" {
		t.Errorf("AuthorDetails = %+v", md.AuthorDetails)
	}
}

func TestExtractAuthorNameFromFirstLast(t *testing.T) {
	doc := &types.RawDocument{
		Section: &types.RawSection{
			Subsections: []types.RawSection{
				{
					Type: "Contact",
					Attributes: []types.Attribute{
						{Name: "First Name", Value: "Volker"},
						{Name: "Last Name", Value: "Haake"},
					},
				},
			},
		},
	}
	md := Extract(doc)
	if len(md.Authors) != 1 || md.Authors[0] != "Volker Haake" {
		t.Errorf("Authors = %v, want [Volker Haake]", md.Authors)
	}
}

func TestExtractAuthorLastAffiliationReferenceWins(t *testing.T) {
	doc := &types.RawDocument{
		Section: &types.RawSection{
			Subsections: []types.RawSection{
				{
					Type: "Author",
					Attributes: []types.Attribute{
						{Name: "Name", Value: "Anna Forsby"},
						{Name: "affiliation", Value: "Swetox-KI", Reference: true},
						{Name: "affiliation", Value: "SU", Reference: true},
					},
				},
				{Accno: "Swetox-KI", Type: "Organization", Attributes: []types.Attribute{{Name: "Name", Value: "Swetox"}}},
				{Accno: "SU", Type: "Organization", Attributes: []types.Attribute{{Name: "Name", Value: "Stockholm University"}}},
			},
		},
	}
	md := Extract(doc)
	if md.AuthorDetails[0].AffiliationName != "Stockholm University" {
		t.Errorf("AffiliationName = %q, want Stockholm University", md.AuthorDetails[0].AffiliationName)
	}
}

func TestExtractFilesAndProtocols(t *testing.T) {
	doc := &types.RawDocument{
		Section: &types.RawSection{
			Type: "Study",
			Files: types.FileList{
				{Path: "summary.xlsx", Size: 19714, Type: "file",
					Attributes: []types.Attribute{{Name: "Description", Value: "summary data"}}},
			},
			Subsections: []types.RawSection{
				{
					Type: "Protocols",
					Subsections: []types.RawSection{
						{Type: "Exposure protocol", Attributes: []types.Attribute{
							{Name: "Description", Value: "repeated dose"},
							{Name: "Duration", Value: "120 h"},
						}},
					},
				},
				{
					Type:  "Imaging",
					Files: types.FileList{{Path: "plot.png", Size: 3011, Type: "file"}},
				},
			},
		},
	}
	md := Extract(doc)

	if len(md.Files) != 2 {
		t.Fatalf("len(Files) = %d, want 2", len(md.Files))
	}
	if md.Files[0].Description != "summary data" {
		t.Errorf("file description = %q", md.Files[0].Description)
	}
	if len(md.Protocols) != 1 {
		t.Fatalf("len(Protocols) = %d, want 1", len(md.Protocols))
	}
	p := md.Protocols[0]
	if p.Type != "Exposure protocol" || p.Description != "repeated dose" || len(p.Attributes) != 2 {
		t.Errorf("protocol = %+v", p)
	}
}

func TestExtractExperimentalFactors(t *testing.T) {
	doc := &types.RawDocument{
		Section: &types.RawSection{
			Type:       "Study",
			Attributes: []types.Attribute{{Name: "Treatment", Value: "rotenone"}},
			Subsections: []types.RawSection{
				{Type: "Samples", Attributes: []types.Attribute{{Name: "Time Point", Value: "120 h"}}},
			},
		},
	}
	md := Extract(doc)

	factors := md.ExperimentalDesign.Factors
	if len(factors) != 2 {
		t.Fatalf("factors = %+v, want 2", factors)
	}
	if factors[0].Name != "treatment" || factors[1].Name != "time point" {
		t.Errorf("factor names = %+v", factors)
	}
}

func TestExtractLinksAndPublications(t *testing.T) {
	doc := &types.RawDocument{
		Links: []types.RawLink{
			{URL: "10.1000/xyz", Type: "DOI", Description: "primary paper"},
			{URL: "https://example.org", Type: "website"},
			{URL: "12345678", Attributes: []types.Attribute{{Name: "Type", Value: "PubMed"}}},
		},
	}
	md := Extract(doc)

	if len(md.Links) != 3 {
		t.Fatalf("len(Links) = %d, want 3", len(md.Links))
	}
	if len(md.Publications) != 2 {
		t.Fatalf("len(Publications) = %d, want 2", len(md.Publications))
	}
	if md.Publications[0].URL != "10.1000/xyz" || md.Publications[1].URL != "12345678" {
		t.Errorf("publications = %+v", md.Publications)
	}
}

func TestExtractSectionNodeList(t *testing.T) {
	// A section delivered as an array of nodes still contributes files
	// and authors.
	doc := &types.RawDocument{
		Section: &types.RawSection{
			Nodes: []types.RawSection{
				{Type: "Study", Files: types.FileList{{Path: "a.txt", Size: 1}}},
				{Type: "Author", Attributes: []types.Attribute{{Name: "Name", Value: "Andrea Cediel"}}},
			},
		},
	}
	md := Extract(doc)
	if len(md.Files) != 1 || len(md.Authors) != 1 {
		t.Errorf("files = %d authors = %d, want 1 and 1", len(md.Files), len(md.Authors))
	}
}

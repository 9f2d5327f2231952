// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"fmt"
	"strings"

	"github.com/pdiddy/study-catalog/pkg/types"
)

// Extract flattens a raw registry document into a StudyMetadata record.
//
// The function never raises past its boundary: malformed input and any
// panic during traversal surface as a record with Error set and the
// offending document attached. It has no side effects; calling it twice
// on the same input yields structurally equal output.
func Extract(doc *types.RawDocument) (md types.StudyMetadata) {
	defer func() {
		if r := recover(); r != nil {
			md = errorRecord(fmt.Sprintf("metadata extraction failed: %v", r), doc)
		}
	}()

	if doc == nil {
		return errorRecord("malformed input: empty document", nil)
	}

	md = types.StudyMetadata{
		Accession:        orNA(doc.Accno),
		Title:            orNA(doc.Title),
		Description:      orNA(doc.Description),
		ReleaseDate:      orNA(doc.ReleaseDate),
		ModificationDate: orNA(doc.ModificationDate),
		Type:             orNA(doc.Type),
		Attributes:       []types.NameValue{},
		Authors:          []string{},
		Files:            []types.FileRecord{},
		Links:            []types.LinkRecord{},
		Protocols:        []types.ProtocolRecord{},
		Publications:     []types.LinkRecord{},
		BiologicalContext: map[string]string{},
		TechnicalDetails:  map[string]string{},
	}

	// Top-level attributes.
	routeAttributes(&md, doc.Attributes, false)

	// Phase 1: index every organization in the tree before any author is
	// resolved. Authors may reference organizations defined later in
	// document order, so this cannot fold into the extraction walk.
	orgs := BuildOrgLookup(doc.Section)

	// Immediate section attributes, with title/description fallback.
	if doc.Section != nil && !doc.Section.IsList() {
		routeAttributes(&md, doc.Section.Attributes, true)
	}

	// Phase 2: recursive extraction over the section tree, reading the
	// organization index but never mutating it.
	walkSection(&md, doc.Section, orgs)

	// Top-level links, with a derived publication sublist.
	for _, link := range doc.Links {
		rec := types.LinkRecord{
			URL:         link.URL,
			Type:        link.LinkType(),
			Description: link.LinkDescription(),
		}
		md.Links = append(md.Links, rec)
		if isPublicationLink(rec.Type) {
			md.Publications = append(md.Publications, rec)
		}
	}

	return md
}

// routeAttributes classifies a run of attributes into the metadata record.
// Every attribute lands in the flat list regardless of its bucket;
// duplicates are preserved there while the classified maps collapse
// last-write-wins. The facet scalars keep the first match only.
func routeAttributes(md *types.StudyMetadata, attrs []types.Attribute, sectionLevel bool) {
	for _, attr := range attrs {
		lower := strings.ToLower(attr.Name)

		if sectionLevel {
			// Section attributes only fill title/description when the
			// top-level field was absent; they stay in the flat list
			// either way.
			if lower == "title" && md.Title == types.NotAvailable {
				md.Title = attr.Value
			}
			if lower == "description" && md.Description == types.NotAvailable {
				md.Description = attr.Value
			}
		}

		md.Attributes = append(md.Attributes, types.NameValue{Name: attr.Name, Value: attr.Value})

		switch Classify(attr.Name) {
		case BucketCollection:
			md.Collection = attr.Value
		case BucketCaseStudy:
			if md.CaseStudy == "" {
				md.CaseStudy = attr.Value
			}
		case BucketRegulatoryQuestion:
			if md.RegulatoryQuestion == "" {
				md.RegulatoryQuestion = attr.Value
			}
		case BucketFlowStep:
			if md.FlowStep == "" {
				md.FlowStep = attr.Value
			}
		case BucketBiologicalContext:
			md.BiologicalContext[lower] = attr.Value
		case BucketTechnicalDetail:
			md.TechnicalDetails[lower] = attr.Value
		case BucketAuthor:
			appendAuthorName(md, attr.Value)
		}
	}
}

// walkSection is the single recursive extraction pass: files, protocols,
// author sections, and experimental factors. orgs is read-only here.
func walkSection(md *types.StudyMetadata, sec *types.RawSection, orgs map[string]types.OrganizationRecord) {
	if sec == nil {
		return
	}
	if sec.IsList() {
		for i := range sec.Nodes {
			walkSection(md, &sec.Nodes[i], orgs)
		}
		return
	}

	for _, f := range sec.Files {
		md.Files = append(md.Files, fileRecord(f))
	}

	lowerType := strings.ToLower(sec.Type)

	if strings.Contains(lowerType, "protocol") {
		for i := range sec.Subsections {
			harvestProtocols(md, &sec.Subsections[i])
		}
	}

	if lowerType == "author" || lowerType == "contact" || lowerType == "person" {
		extractAuthor(md, sec, orgs)
	}

	for _, attr := range sec.Attributes {
		if IsExperimentalFactor(attr.Name) {
			md.ExperimentalDesign.Factors = append(md.ExperimentalDesign.Factors,
				types.NameValue{Name: strings.ToLower(attr.Name), Value: attr.Value})
		}
	}

	for i := range sec.Subsections {
		walkSection(md, &sec.Subsections[i], orgs)
	}
}

func harvestProtocols(md *types.StudyMetadata, sec *types.RawSection) {
	if sec.IsList() {
		for i := range sec.Nodes {
			harvestProtocols(md, &sec.Nodes[i])
		}
		return
	}

	rec := types.ProtocolRecord{
		Type:        sec.Type,
		Description: attrByName(sec.Attributes, "description"),
		Attributes:  []types.NameValue{},
	}
	for _, attr := range sec.Attributes {
		rec.Attributes = append(rec.Attributes, types.NameValue{Name: attr.Name, Value: attr.Value})
	}
	md.Protocols = append(md.Protocols, rec)
}

// extractAuthor builds an AuthorRecord from an author/contact/person
// section. A reference-flagged affiliation attribute supplies the lookup
// key; when several are present the last one wins. Authors deduplicate by
// exact name, first occurrence keeping its details.
func extractAuthor(md *types.StudyMetadata, sec *types.RawSection, orgs map[string]types.OrganizationRecord) {
	var name, first, last, email, affiliationRef string

	for _, attr := range sec.Attributes {
		lower := strings.ToLower(attr.Name)
		switch {
		case lower == "affiliation" && attr.Reference:
			affiliationRef = attr.Value
		case lower == "name":
			name = attr.Value
		case lower == "first name":
			first = attr.Value
		case lower == "last name":
			last = attr.Value
		case lower == "email" || lower == "e-mail":
			if email == "" {
				email = attr.Value
			}
		}
	}

	if name == "" {
		name = strings.TrimSpace(first + " " + last)
	}
	if name == "" {
		return
	}

	rec := types.AuthorRecord{
		Name:           name,
		Email:          email,
		AffiliationRef: affiliationRef,
	}
	if org, ok := orgs[affiliationRef]; affiliationRef != "" && ok {
		rec.AffiliationName = org.Name
	}

	for _, existing := range md.AuthorDetails {
		if existing.Name == name {
			appendAuthorName(md, name)
			return
		}
	}
	md.AuthorDetails = append(md.AuthorDetails, rec)
	appendAuthorName(md, name)
}

func appendAuthorName(md *types.StudyMetadata, name string) {
	if name == "" {
		return
	}
	for _, existing := range md.Authors {
		if existing == name {
			return
		}
	}
	md.Authors = append(md.Authors, name)
}

func fileRecord(f types.RawFile) types.FileRecord {
	rec := types.FileRecord{
		Name:        f.Name,
		Size:        f.Size,
		Type:        f.Type,
		Path:        f.Path,
		Description: attrByName(f.Attributes, "description"),
	}
	if rec.Name == "" {
		rec.Name = attrByName(f.Attributes, "name")
	}
	return rec
}

func attrByName(attrs []types.Attribute, lowerName string) string {
	for _, a := range attrs {
		if strings.ToLower(a.Name) == lowerName {
			return a.Value
		}
	}
	return ""
}

func isPublicationLink(linkType string) bool {
	t := strings.ToLower(linkType)
	return strings.Contains(t, "doi") || strings.Contains(t, "pubmed") || strings.Contains(t, "publication")
}

func errorRecord(msg string, doc *types.RawDocument) types.StudyMetadata {
	return types.StudyMetadata{
		Accession:         types.NotAvailable,
		Title:             types.NotAvailable,
		Description:       types.NotAvailable,
		ReleaseDate:       types.NotAvailable,
		ModificationDate:  types.NotAvailable,
		Type:              types.NotAvailable,
		Attributes:        []types.NameValue{},
		Authors:           []string{},
		Files:             []types.FileRecord{},
		Links:             []types.LinkRecord{},
		Protocols:         []types.ProtocolRecord{},
		Publications:      []types.LinkRecord{},
		BiologicalContext: map[string]string{},
		TechnicalDetails:  map[string]string{},
		Error:             msg,
		Raw:               doc,
	}
}

func orNA(s string) string {
	if s == "" {
		return types.NotAvailable
	}
	return s
}

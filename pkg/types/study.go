// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// NotAvailable is the sentinel for absent scalar fields in extracted
// metadata. Section-level attributes may replace it; see the extractor's
// title/description fallback.
const NotAvailable = "N/A"

// OrganizationRecord holds the contact fields of an organization section,
// keyed in the lookup table by the section's own accno. Only the fixed
// allow-list of attribute names is captured.
type OrganizationRecord struct {
	Name         string `json:"name,omitempty"`
	Organization string `json:"organization,omitempty"`
	Email        string `json:"email,omitempty"`
	Address      string `json:"address,omitempty"`
	Department   string `json:"department,omitempty"`
	Affiliation  string `json:"affiliation,omitempty"`
}

// AuthorRecord is a resolved author entry. AffiliationRef is a lookup key
// into the organization table, not an embedded organization; the resolved
// display name is copied into AffiliationName.
type AuthorRecord struct {
	Name            string `json:"name"`
	Email           string `json:"email,omitempty"`
	AffiliationRef  string `json:"affiliation_ref,omitempty"`
	AffiliationName string `json:"affiliation_name,omitempty"`
}

// FileRecord is a flattened file entry from anywhere in the section tree.
type FileRecord struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	Type        string `json:"type"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
}

// LinkRecord is a flattened link entry.
type LinkRecord struct {
	URL         string `json:"url"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// ProtocolRecord is one protocol subsection harvested from a
// protocol-typed section.
type ProtocolRecord struct {
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Attributes  []NameValue `json:"attributes"`
}

// ExperimentalDesign groups experimental-factor attributes collected
// during the tree walk.
type ExperimentalDesign struct {
	Factors []NameValue `json:"factors,omitempty"`
}

// StudyMetadata is the generic extractor's flattened view of one study.
//
// Attributes keeps every raw attribute in document order, duplicates
// included; the classified maps (BiologicalContext, TechnicalDetails)
// collapse repeated keys last-write-wins. This asymmetry is deliberate.
type StudyMetadata struct {
	Accession        string `json:"accession"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	ReleaseDate      string `json:"release_date"`
	ModificationDate string `json:"modification_date"`
	Type             string `json:"type"`

	// Collection is the sub-registry the study is attached to, taken
	// from the "AttachTo" attribute. It qualifies the canonical URL.
	Collection string `json:"collection,omitempty"`

	// Filterable fields for the regulatory-science facets. Empty when the
	// document carries no matching attribute; the first match wins.
	CaseStudy          string `json:"case_study"`
	RegulatoryQuestion string `json:"regulatory_question"`
	FlowStep           string `json:"flow_step"`

	Attributes    []NameValue    `json:"attributes"`
	Authors       []string       `json:"authors"`
	AuthorDetails []AuthorRecord `json:"author_details,omitempty"`
	Files         []FileRecord   `json:"files"`
	Links         []LinkRecord   `json:"links"`
	Protocols     []ProtocolRecord `json:"protocols"`
	Publications  []LinkRecord   `json:"publications"`

	BiologicalContext  map[string]string  `json:"biological_context"`
	TechnicalDetails   map[string]string  `json:"technical_details"`
	ExperimentalDesign ExperimentalDesign `json:"experimental_design"`

	// URL is the canonical web address for the study, filled by the
	// registry client (collection-qualified when the collection is known).
	URL string `json:"url,omitempty"`

	// Error is set instead of raising when extraction fails; Raw then
	// carries the offending document for diagnosis.
	Error string       `json:"error,omitempty"`
	Raw   *RawDocument `json:"raw_data,omitempty"`
}

// HasError reports whether the record represents a failed extraction.
func (m StudyMetadata) HasError() bool { return m.Error != "" }

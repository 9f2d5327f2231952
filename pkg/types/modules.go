// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// AttributeMap is an arbitrary attribute name → value map harvested from
// one subsection. Repeated names within a subsection collapse last-write-wins.
type AttributeMap map[string]string

// ModuleAuthor carries an author subsection's attributes by canonical name,
// plus the resolved affiliation under the "affiliation_resolved" key.
// Reference-flagged affiliation attributes are consumed during resolution
// and not copied through.
type ModuleAuthor map[string]string

// AffiliationResolvedKey is the ModuleAuthor key holding the organization
// name resolved through the lookup table.
const AffiliationResolvedKey = "affiliation_resolved"

// FieldValue is a general-info field with its qualifier list.
type FieldValue struct {
	Value   string      `json:"value"`
	ValQual []NameValue `json:"valqual,omitempty"`
}

// GeneralLink is a study-level link shown in the general-info module.
type GeneralLink struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// GeneralInfo is the general-information display module.
type GeneralInfo struct {
	Accession   string `json:"accession"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Type        string `json:"type"`

	// Fields captures the fixed allow-list of section attributes (title,
	// organism, license, aop event, ...) keyed by canonical name.
	Fields map[string]FieldValue `json:"fields"`

	Links   []GeneralLink  `json:"links,omitempty"`
	Funding []AttributeMap `json:"funding,omitempty"`
}

// ChemicalInfo groups test chemicals and positive controls.
type ChemicalInfo struct {
	TestChemicals    []AttributeMap `json:"test_chemicals"`
	PositiveControls []AttributeMap `json:"positive_controls"`
}

// BiologicalModelInfo describes the biological test system.
type BiologicalModelInfo struct {
	CellLines []AttributeMap `json:"cell_lines"`
}

// ModuleFile is a file entry in the files module.
type ModuleFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
	Path string `json:"path"`
}

// ModuleBundle is the module extractor's output: the seven fixed display
// modules used by the regulatory-science UI. Module contents preserve
// depth-first source order of the section tree.
type ModuleBundle struct {
	GeneralInfo         GeneralInfo         `json:"general_info"`
	AuthorInfo          []ModuleAuthor      `json:"author_info"`
	ChemicalInfo        ChemicalInfo        `json:"chemical_info"`
	BiologicalModelInfo BiologicalModelInfo `json:"biological_model_info"`

	// ExposureInfo holds one entry per "experimental design" subsection;
	// matching subsections are never merged.
	ExposureInfo []AttributeMap `json:"exposure_info"`

	// EndpointReadoutInfo merges every "assay details" subsection into a
	// single map, later values overwriting earlier ones.
	EndpointReadoutInfo AttributeMap `json:"endpoint_readout_info"`

	Files []ModuleFile `json:"files"`

	// Error is set instead of raising when module extraction fails.
	Error string `json:"error,omitempty"`
}

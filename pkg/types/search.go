// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchHit is one summary entry from the registry's search or list
// endpoints. URL and Metadata are attached by hit enrichment; the rest is
// passed through from the registry.
type SearchHit struct {
	Accession   string `json:"accession,omitempty" yaml:"accession,omitempty"`
	Accno       string `json:"accno,omitempty" yaml:"accno,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	Links       int    `json:"links,omitempty" yaml:"links,omitempty"`
	Files       int    `json:"files,omitempty" yaml:"files,omitempty"`
	ReleaseDate string `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	Views       int    `json:"views,omitempty" yaml:"views,omitempty"`
	IsPublic    bool   `json:"isPublic,omitempty" yaml:"is_public,omitempty"`

	URL      string         `json:"url,omitempty" yaml:"url,omitempty"`
	Metadata *StudyMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// AccessionID returns the hit's accession, preferring the accession field
// over accno. Empty when the hit carries neither.
func (h SearchHit) AccessionID() string {
	if h.Accession != "" {
		return h.Accession
	}
	return h.Accno
}

// SearchPage is one page of search or listing results.
type SearchPage struct {
	Query     string      `json:"query,omitempty" yaml:"query,omitempty"`
	Page      int         `json:"page" yaml:"page"`
	PageSize  int         `json:"pageSize" yaml:"page_size"`
	TotalHits int         `json:"totalHits" yaml:"total_hits"`
	Hits      []SearchHit `json:"hits" yaml:"hits"`
}

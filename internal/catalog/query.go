// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/study-catalog/pkg/types"
)

// QueryOptions holds parameters for catalog queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over title, description,
	// and authors.
	Query string

	// Collection, CaseStudy, RegulatoryQuestion, FlowStep, and Organism
	// filter on the faceted columns with exact-match AND semantics.
	Collection         string
	CaseStudy          string
	RegulatoryQuestion string
	FlowStep           string
	Organism           string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Collection == "" && q.CaseStudy == "" &&
		q.RegulatoryQuestion == "" && q.FlowStep == "" && q.Organism == ""
}

// QueryResult is one catalog row with the stored metadata record.
type QueryResult struct {
	Accession   string               `json:"accession" yaml:"accession"`
	Title       string               `json:"title" yaml:"title"`
	Collection  string               `json:"collection,omitempty" yaml:"collection,omitempty"`
	CaseStudy   string               `json:"case_study,omitempty" yaml:"case_study,omitempty"`
	Organism    string               `json:"organism,omitempty" yaml:"organism,omitempty"`
	ReleaseDate string               `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	URL         string               `json:"url,omitempty" yaml:"url,omitempty"`
	Authors     []string             `json:"authors,omitempty" yaml:"authors,omitempty"`
	Metadata    *types.StudyMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Query searches the catalog with optional full-text search and facet
// filters. Full-text queries rank by relevance; filter-only queries sort
// by accession.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT st.accession, st.title, st.collection, st.case_study,
				st.organism, st.release_date, st.url, st.authors, st.metadata
			FROM studies_fts
			JOIN studies st ON st.rowid = studies_fts.rowid
			WHERE studies_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT st.accession, st.title, st.collection, st.case_study,
				st.organism, st.release_date, st.url, st.authors, st.metadata
			FROM studies st
			WHERE 1=1`)
	}

	for _, f := range []struct {
		column string
		value  string
	}{
		{"collection", opts.Collection},
		{"case_study", opts.CaseStudy},
		{"regulatory_question", opts.RegulatoryQuestion},
		{"flow_step", opts.FlowStep},
		{"organism", opts.Organism},
	} {
		if f.value == "" {
			continue
		}
		qb.WriteString(` AND st.` + f.column + ` = ?`)
		args = append(args, f.value)
	}

	if useFTS {
		qb.WriteString(` ORDER BY studies_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY st.accession`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr           QueryResult
			authorsJSON  sql.NullString
			metadataJSON sql.NullString
		)
		if err := rows.Scan(
			&qr.Accession, &qr.Title, &qr.Collection, &qr.CaseStudy,
			&qr.Organism, &qr.ReleaseDate, &qr.URL, &authorsJSON, &metadataJSON,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &qr.Authors)
		}
		if metadataJSON.Valid && metadataJSON.String != "" {
			var md types.StudyMetadata
			if json.Unmarshal([]byte(metadataJSON.String), &md) == nil {
				qr.Metadata = &md
			}
		}

		results = append(results, qr)
	}

	return results, rows.Err()
}

// FacetCount is one distinct value of a faceted column with its study count.
type FacetCount struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// facetColumns maps facet names to indexed columns. Only these names are
// accepted; everything else is rejected before touching SQL.
var facetColumns = map[string]string{
	"collection":          "collection",
	"case_study":          "case_study",
	"regulatory_question": "regulatory_question",
	"flow_step":           "flow_step",
	"organism":            "organism",
}

// Facets returns the distinct non-empty values of a faceted column with
// study counts, most frequent first.
func (s *Store) Facets(ctx context.Context, facet string) ([]FacetCount, error) {
	column, ok := facetColumns[facet]
	if !ok {
		return nil, fmt.Errorf("unknown facet %q", facet)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+column+`, count(*) FROM studies
		 WHERE `+column+` != ''
		 GROUP BY `+column+`
		 ORDER BY count(*) DESC, `+column)
	if err != nil {
		return nil, fmt.Errorf("querying facet %s: %w", facet, err)
	}
	defer rows.Close()

	var counts []FacetCount
	for rows.Next() {
		var fc FacetCount
		if err := rows.Scan(&fc.Value, &fc.Count); err != nil {
			return nil, fmt.Errorf("scanning facet row: %w", err)
		}
		counts = append(counts, fc)
	}
	return counts, rows.Err()
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/study-catalog/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.CatalogConfig{CatalogDir: t.TempDir()})
	if err != nil {
		if strings.Contains(err.Error(), "no such module: fts5") {
			t.Skip("go-sqlite3 built without the sqlite_fts5 tag")
		}
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecords() []types.StudyMetadata {
	return []types.StudyMetadata{
		{
			Accession:   "S-TOXR1735",
			Title:       "LUHMES neurotoxicity proteomics",
			Description: "Proteomic profiling after rotenone exposure",
			Collection:  "EU-ToxRisk",
			CaseStudy:   "CS1",
			ReleaseDate: "2019-05-01",
			URL:         "https://www.ebi.ac.uk/biostudies/EU-ToxRisk/studies/S-TOXR1735",
			Authors:     []string{"Anna Forsby"},
			BiologicalContext: map[string]string{"organism": "human"},
		},
		{
			Accession:   "S-VHP12",
			Title:       "Thyroid hormone disruption",
			Collection:  "VHP4Safety",
			CaseStudy:   "Thyroid",
			FlowStep:    "Hazard assessment",
			BiologicalContext: map[string]string{"organism": "human"},
		},
		{
			Accession:  "S-ONTX26",
			Title:      "Zebrafish embryotoxicity screen",
			Collection: "EU-ToxRisk",
			BiologicalContext: map[string]string{"organism": "zebrafish"},
		},
	}
}

func ingestSamples(t *testing.T, s *Store) {
	t.Helper()
	summary, err := s.Ingest(context.Background(), sampleRecords(), io.Discard)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if summary.Indexed != 3 {
		t.Fatalf("summary = %+v, want 3 indexed", summary)
	}
}

func TestIngestSkipsBrokenRecords(t *testing.T) {
	s := newTestStore(t)

	records := []types.StudyMetadata{
		{Accession: "S-GOOD1", Title: "fine"},
		{Accession: "S-BAD1", Error: "upstream failure"},
		{Accession: types.NotAvailable},
	}
	summary, err := s.Ingest(context.Background(), records, io.Discard)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if summary.Indexed != 1 || summary.Skipped != 2 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestIngestUpsertsByAccession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := []types.StudyMetadata{{Accession: "S-TOXR1735", Title: "old title"}}
	if _, err := s.Ingest(ctx, first, io.Discard); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	second := []types.StudyMetadata{{Accession: "S-TOXR1735", Title: "new title"}}
	if _, err := s.Ingest(ctx, second, io.Discard); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	results, err := s.Query(ctx, QueryOptions{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 || results[0].Title != "new title" {
		t.Errorf("results = %+v", results)
	}
}

func TestQueryFullText(t *testing.T) {
	s := newTestStore(t)
	ingestSamples(t, s)

	results, err := s.Query(context.Background(), QueryOptions{Query: "rotenone"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 || results[0].Accession != "S-TOXR1735" {
		t.Errorf("results = %+v", results)
	}
	if results[0].Metadata == nil || results[0].Metadata.BiologicalContext["organism"] != "human" {
		t.Errorf("stored metadata not round-tripped: %+v", results[0].Metadata)
	}
}

func TestQueryFacetFilters(t *testing.T) {
	s := newTestStore(t)
	ingestSamples(t, s)
	ctx := context.Background()

	results, err := s.Query(ctx, QueryOptions{Collection: "EU-ToxRisk"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("collection filter: %+v", results)
	}

	// Filters combine with AND semantics.
	results, err = s.Query(ctx, QueryOptions{Collection: "EU-ToxRisk", Organism: "zebrafish"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 || results[0].Accession != "S-ONTX26" {
		t.Errorf("combined filters: %+v", results)
	}
}

func TestQueryTextWithFilter(t *testing.T) {
	s := newTestStore(t)
	ingestSamples(t, s)

	results, err := s.Query(context.Background(), QueryOptions{Query: "thyroid", Collection: "EU-ToxRisk"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("thyroid study is not in EU-ToxRisk: %+v", results)
	}
}

func TestQueryMaxResults(t *testing.T) {
	s := newTestStore(t)
	ingestSamples(t, s)

	results, err := s.Query(context.Background(), QueryOptions{MaxResults: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("len = %d, want 2", len(results))
	}
}

func TestFacets(t *testing.T) {
	s := newTestStore(t)
	ingestSamples(t, s)

	counts, err := s.Facets(context.Background(), "collection")
	if err != nil {
		t.Fatalf("Facets: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("counts = %+v", counts)
	}
	// Most frequent first.
	if counts[0].Value != "EU-ToxRisk" || counts[0].Count != 2 {
		t.Errorf("counts[0] = %+v", counts[0])
	}

	counts, err = s.Facets(context.Background(), "organism")
	if err != nil {
		t.Fatalf("Facets: %v", err)
	}
	if len(counts) != 2 || counts[0].Value != "human" {
		t.Errorf("organism counts = %+v", counts)
	}
}

func TestFacetsUnknownName(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Facets(context.Background(), "metadata; DROP TABLE studies"); err == nil {
		t.Fatal("unknown facet should be rejected")
	}
}

func TestExportYAML(t *testing.T) {
	s := newTestStore(t)
	ingestSamples(t, s)

	if err := s.ExportYAML(context.Background(), QueryOptions{}); err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(s.catalogDir, "export.yaml"))
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if len(data) == 0 {
		t.Error("export.yaml is empty")
	}
}

func TestNotAvailablePlaceholderNotIndexed(t *testing.T) {
	s := newTestStore(t)
	records := []types.StudyMetadata{
		{Accession: "S-EMPTY1", Title: types.NotAvailable, Description: types.NotAvailable},
	}
	if _, err := s.Ingest(context.Background(), records, io.Discard); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	results, err := s.Query(context.Background(), QueryOptions{Query: `"N/A"`})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("placeholder text matched: %+v", results)
	}
}

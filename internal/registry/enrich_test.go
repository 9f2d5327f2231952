// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/study-catalog/pkg/types"
)

func TestDedupHits(t *testing.T) {
	hits := []types.SearchHit{
		{Accession: "S-A1", Title: "first"},
		{Accno: "S-A2"},
		{Accession: "S-A1", Title: "later duplicate"},
		{Title: "no accession at all"},
		{Accno: "S-A1"},
	}
	out := DedupHits(hits)

	if len(out) != 3 {
		t.Fatalf("len = %d, want 3: %+v", len(out), out)
	}
	if out[0].Title != "first" {
		t.Errorf("first occurrence not kept: %+v", out[0])
	}
	if out[2].AccessionID() != "" {
		t.Errorf("accession-less hit dropped: %+v", out)
	}
}

func TestDedupHitsNormalizesCase(t *testing.T) {
	hits := []types.SearchHit{
		{Accession: "s-toxr1735", Title: "lower"},
		{Accession: "S-TOXR1735", Title: "upper"},
		{Accno: "  S-TOXR1735 "},
	}
	out := DedupHits(hits)

	if len(out) != 1 {
		t.Fatalf("len = %d, want 1: %+v", len(out), out)
	}
	if out[0].Title != "lower" {
		t.Errorf("first occurrence not kept: %+v", out[0])
	}
}

func TestEnrichHitsNormalizesURL(t *testing.T) {
	c := testClient(types.RegistryConfig{})

	hits := c.EnrichHits(context.Background(), []types.SearchHit{
		{Accession: " s-toxr1735 "},
		{Title: "no accession"},
	}, false)

	want := "https://www.ebi.ac.uk/biostudies/studies/S-TOXR1735"
	if hits[0].URL != want {
		t.Errorf("URL = %q, want %q", hits[0].URL, want)
	}
	if hits[1].URL != "" {
		t.Errorf("accession-less hit got URL %q, want none", hits[1].URL)
	}
}

func TestEnrichHitsURLsOnly(t *testing.T) {
	c := testClient(types.RegistryConfig{Collection: "EU-ToxRisk"})

	hits := c.EnrichHits(context.Background(), []types.SearchHit{{Accession: "S-TOXR1735"}}, false)

	want := "https://www.ebi.ac.uk/biostudies/EU-ToxRisk/studies/S-TOXR1735"
	if hits[0].URL != want {
		t.Errorf("URL = %q, want %q", hits[0].URL, want)
	}
	if hits[0].Metadata != nil {
		t.Error("metadata attached without withMetadata")
	}
}

func TestEnrichHitsWithMetadata(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acc := strings.TrimPrefix(r.URL.Path, "/studies/")
		if acc == "S-BAD1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"accno": %q, "title": "study %s",
			"attributes": [{"name": "AttachTo", "value": "EU-ToxRisk"}]}`, acc, acc)
	}))
	defer ts.Close()

	c := testClient(types.RegistryConfig{BaseURL: ts.URL, MetadataWorkers: 2})

	hits := c.EnrichHits(context.Background(), []types.SearchHit{
		{Accession: "S-TOXR1"},
		{Accession: "S-BAD1"},
		{Accession: "S-TOXR3"},
	}, true)

	if len(hits) != 3 {
		t.Fatalf("len = %d, want order-preserving enrichment", len(hits))
	}
	// Order preserved across the worker pool.
	for i, want := range []string{"S-TOXR1", "S-BAD1", "S-TOXR3"} {
		if hits[i].AccessionID() != want {
			t.Fatalf("hits[%d] = %q, want %q", i, hits[i].AccessionID(), want)
		}
	}

	if hits[0].Metadata == nil || hits[0].Metadata.Title != "study S-TOXR1" {
		t.Errorf("hits[0].Metadata = %+v", hits[0].Metadata)
	}
	// Metadata-derived collection upgrades the URL.
	if !strings.Contains(hits[0].URL, "/EU-ToxRisk/studies/S-TOXR1") {
		t.Errorf("URL = %q", hits[0].URL)
	}

	// A failed fetch yields an error record, not a page failure.
	if hits[1].Metadata == nil || !hits[1].Metadata.HasError() {
		t.Errorf("hits[1].Metadata = %+v, want error record", hits[1].Metadata)
	}
}

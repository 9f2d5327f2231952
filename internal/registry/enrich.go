// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"errors"
	"sync"

	"github.com/pdiddy/study-catalog/internal/accession"
	"github.com/pdiddy/study-catalog/pkg/types"
)

// hitAccession returns the hit's accession trimmed and upper-cased, or ""
// when the hit carries none. Normalization happens before the id is ever
// used as a map key or URL path segment.
func hitAccession(hit types.SearchHit) string {
	id, err := accession.Validate(hit.AccessionID())
	if errors.Is(err, accession.ErrMissingIdentifier) {
		return ""
	}
	return id
}

// DedupHits removes duplicate accessions from a hit list, keeping the
// first occurrence and preserving order. Accessions are compared in
// normalized form, so "s-toxr1735" and "S-TOXR1735" are the same hit.
func DedupHits(hits []types.SearchHit) []types.SearchHit {
	seen := make(map[string]bool, len(hits))
	out := make([]types.SearchHit, 0, len(hits))
	for _, hit := range hits {
		id := hitAccession(hit)
		if id != "" && seen[id] {
			continue
		}
		if id != "" {
			seen[id] = true
		}
		out = append(out, hit)
	}
	return out
}

// EnrichHits attaches web URLs to every hit and, when withMetadata is set,
// fans out metadata fetches across a bounded worker pool. Hit order is
// preserved. A failed fetch never fails the page: the hit gets an
// error-carrying metadata record instead.
func (c *Client) EnrichHits(ctx context.Context, hits []types.SearchHit, withMetadata bool) []types.SearchHit {
	hits = DedupHits(hits)

	for i := range hits {
		if id := hitAccession(hits[i]); id != "" {
			hits[i].URL = accession.StudyURL(id, c.Config.Collection)
		}
	}
	if !withMetadata || len(hits) == 0 {
		return hits
	}

	workers := c.Config.MetadataWorkers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(hits) {
		workers = len(hits)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				c.enrichOne(ctx, &hits[i])
			}
		}()
	}
	for i := range hits {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return hits
}

func (c *Client) enrichOne(ctx context.Context, hit *types.SearchHit) {
	id := hitAccession(*hit)
	if id == "" {
		return
	}

	md, err := c.StudyMetadata(ctx, id)
	if err != nil {
		c.Logger.Warn().Str("accession", id).Err(err).Msg("metadata enrichment failed")
		md = types.StudyMetadata{
			Accession: id,
			Error:     err.Error(),
		}
	}
	hit.Metadata = &md

	// Metadata knows the collection; prefer the collection-scoped URL.
	if md.Collection != "" && md.Collection != types.NotAvailable {
		hit.URL = accession.StudyURL(id, md.Collection)
	}
}

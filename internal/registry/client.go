// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry is the client for the public study registry API: raw
// document retrieval, search, and normalized metadata on top of the
// extraction engine.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/phuslu/log"
	"golang.org/x/time/rate"

	"github.com/pdiddy/study-catalog/internal/accession"
	"github.com/pdiddy/study-catalog/internal/httputil"
	"github.com/pdiddy/study-catalog/internal/metadata"
	"github.com/pdiddy/study-catalog/pkg/types"
)

// studiesBase is the registry API root. Declared as a var so tests can
// substitute an httptest server; Config.BaseURL overrides it when set.
var studiesBase = "https://www.ebi.ac.uk/biostudies/api/v1"

const (
	defaultPageSize = 10
	defaultWorkers  = 4
	defaultRate     = 5.0
)

// Client talks to the study registry.
type Client struct {
	HTTP    *http.Client
	Config  types.RegistryConfig
	Logger  log.Logger
	limiter *rate.Limiter
}

// NewClient builds a registry client from config. Outgoing requests are
// capped via a burst-one limiter at Config.RequestsPerSecond, where zero
// means the default of 5 and a negative rate skips the limiter.
func NewClient(cfg types.RegistryConfig, logger log.Logger) *Client {
	rps := cfg.RequestsPerSecond
	if rps == 0 {
		rps = defaultRate
	}

	c := &Client{
		HTTP:   httputil.NewClient(cfg.HTTPConfig),
		Config: cfg,
		Logger: logger,
	}
	if rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return c
}

func (c *Client) baseURL() string {
	if c.Config.BaseURL != "" {
		return c.Config.BaseURL
	}
	return studiesBase
}

// get performs one rate-limited, retried GET and maps registry error
// statuses onto the package sentinels.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrForbidden
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: HTTP %d", ErrUpstreamUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("registry returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading registry response: %w", err)
	}
	if len(body) == 0 {
		return nil, ErrEmptyResponse
	}
	return body, nil
}

// GetStudy fetches the raw registry document for an accession. The
// accession is validated and normalized before the request goes out.
func (c *Client) GetStudy(ctx context.Context, id string) (*types.RawDocument, error) {
	acc, err := accession.Validate(id)
	if err != nil {
		return nil, err
	}

	c.Logger.Debug().Str("accession", acc).Msg("fetching study")

	body, err := c.get(ctx, fmt.Sprintf("%s/studies/%s", c.baseURL(), acc))
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", acc, err)
	}

	var doc types.RawDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("malformed study document for %s: %w", acc, err)
	}
	return &doc, nil
}

// StudyMetadata fetches a study and runs the metadata extractor over it.
// The returned record carries the collection-aware web URL.
func (c *Client) StudyMetadata(ctx context.Context, id string) (types.StudyMetadata, error) {
	doc, err := c.GetStudy(ctx, id)
	if err != nil {
		return types.StudyMetadata{}, err
	}

	md := metadata.Extract(doc)
	md.URL = accession.StudyURL(md.Accession, md.Collection)
	return md, nil
}

// StudyModules fetches a study and organizes it into display modules.
func (c *Client) StudyModules(ctx context.Context, id string) (types.ModuleBundle, error) {
	doc, err := c.GetStudy(ctx, id)
	if err != nil {
		return types.ModuleBundle{}, err
	}
	return metadata.ToModules(doc), nil
}

// searchResponse is the registry's search envelope. Older deployments
// report the hit count as "total", newer ones as "totalHits".
type searchResponse struct {
	Page      int              `json:"page"`
	PageSize  int              `json:"pageSize"`
	TotalHits int              `json:"totalHits"`
	Total     int              `json:"total"`
	Hits      []types.SearchHit `json:"hits"`
}

func (r searchResponse) total() int {
	if r.TotalHits > 0 {
		return r.TotalHits
	}
	return r.Total
}

// Search runs a paged query against the registry. When Config.Collection
// is set the query is scoped to that sub-registry's endpoint.
func (c *Client) Search(ctx context.Context, query string, page, pageSize int) (types.SearchPage, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = c.Config.PageSize
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	endpoint := c.baseURL() + "/search"
	if c.Config.Collection != "" {
		endpoint = fmt.Sprintf("%s/%s/search", c.baseURL(), url.PathEscape(c.Config.Collection))
	}

	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}
	params.Set("page", fmt.Sprint(page))
	params.Set("pageSize", fmt.Sprint(pageSize))

	c.Logger.Debug().
		Str("query", query).
		Str("collection", c.Config.Collection).
		Int("page", page).
		Msg("searching registry")

	body, err := c.get(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return types.SearchPage{}, fmt.Errorf("searching registry: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return types.SearchPage{}, fmt.Errorf("malformed search response: %w", err)
	}

	result := types.SearchPage{
		Query:     query,
		Page:      page,
		PageSize:  pageSize,
		TotalHits: resp.total(),
		Hits:      DedupHits(resp.Hits),
	}
	return result, nil
}

// List pages through the collection without a query term.
func (c *Client) List(ctx context.Context, page, pageSize int) (types.SearchPage, error) {
	return c.Search(ctx, "", page, pageSize)
}

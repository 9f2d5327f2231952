// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aop queries the pathway and compound SPARQL collaborators:
// adverse outcome pathway networks from AOP-Wiki and compound lists from
// the compound wiki.
package aop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/phuslu/log"

	"github.com/pdiddy/study-catalog/internal/httputil"
	"github.com/pdiddy/study-catalog/pkg/types"
)

// SPARQL endpoints. Declared as vars so tests can substitute httptest
// servers; config overrides them when set.
var (
	networkEndpoint  = "https://aopwiki.rdf.bigcat-bioinformatics.org/sparql/"
	compoundEndpoint = "https://compoundcloud.wikibase.cloud/query/sparql"
)

// Client runs SPARQL queries against the collaborators.
type Client struct {
	HTTP   *http.Client
	Config types.AOPConfig
	Logger log.Logger
}

// NewClient builds a collaborator client from config.
func NewClient(cfg types.AOPConfig, logger log.Logger) *Client {
	return &Client{
		HTTP:   httputil.NewClient(cfg.HTTPConfig),
		Config: cfg,
		Logger: logger,
	}
}

func (c *Client) networkURL() string {
	if c.Config.NetworkEndpoint != "" {
		return c.Config.NetworkEndpoint
	}
	return networkEndpoint
}

func (c *Client) compoundURL() string {
	if c.Config.CompoundEndpoint != "" {
		return c.Config.CompoundEndpoint
	}
	return compoundEndpoint
}

// sparqlResponse is the standard SPARQL JSON results envelope.
type sparqlResponse struct {
	Results struct {
		Bindings []map[string]sparqlValue `json:"bindings"`
	} `json:"results"`
}

type sparqlValue struct {
	Value string `json:"value"`
}

// query runs one SPARQL query with format=json and decodes the bindings.
func (c *Client) query(ctx context.Context, endpoint, sparql string) ([]map[string]sparqlValue, error) {
	params := url.Values{}
	params.Set("query", sparql)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/sparql-results+json, application/json")

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("SPARQL request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SPARQL endpoint returned HTTP %d", resp.StatusCode)
	}

	var sr sparqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing SPARQL response: %w", err)
	}
	return sr.Results.Bindings, nil
}

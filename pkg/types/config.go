// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// HTTPConfig holds shared HTTP settings for components that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with every request
	// (e.g. "study-catalog/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RegistryConfig holds settings for the registry client.
type RegistryConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the registry API root.
	BaseURL string `json:"base_url" yaml:"base_url" validate:"omitempty,url"`

	// Collection scopes search and listing to one sub-registry. Empty
	// searches the whole registry.
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`

	// PageSize is the default number of hits per page (default 10).
	PageSize int `json:"page_size" yaml:"page_size" validate:"gte=0,lte=100"`

	// MetadataWorkers bounds the concurrent metadata fetches during hit
	// enrichment (default 4). Each hit costs one upstream call, so keep
	// page sizes small when metadata loading is on.
	MetadataWorkers int `json:"metadata_workers" yaml:"metadata_workers" validate:"gte=0,lte=16"`

	// RequestsPerSecond caps the request rate against the registry.
	// Zero applies the default of 5; a negative value, reachable only
	// programmatically, disables the limiter.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" validate:"gte=0"`
}

// CatalogConfig holds settings for the local facet index.
type CatalogConfig struct {
	// CatalogDir is the directory holding the index database and exports.
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" validate:"gte=0"`
}

// AOPConfig holds the SPARQL endpoints for the pathway collaborators.
type AOPConfig struct {
	HTTPConfig `yaml:",inline"`

	// NetworkEndpoint is the AOP-Wiki SPARQL endpoint.
	NetworkEndpoint string `json:"network_endpoint,omitempty" yaml:"network_endpoint,omitempty" validate:"omitempty,url"`

	// CompoundEndpoint is the compound wiki SPARQL endpoint.
	CompoundEndpoint string `json:"compound_endpoint,omitempty" yaml:"compound_endpoint,omitempty" validate:"omitempty,url"`
}

// Config groups all component configurations.
type Config struct {
	Registry RegistryConfig `json:"registry" yaml:"registry"`
	Catalog  CatalogConfig  `json:"catalog" yaml:"catalog"`
	AOP      AOPConfig      `json:"aop" yaml:"aop"`
}

var validate = validator.New()

// Validate checks struct tags on the whole configuration tree.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Validate checks the registry configuration's struct tags.
func (c RegistryConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid registry configuration: %w", err)
	}
	return nil
}

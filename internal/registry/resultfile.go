// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/study-catalog/pkg/types"
)

// ResultFile is the on-disk representation of a search and its hits. A
// saved page can be reloaded later, or fed to the catalog without
// re-querying the registry.
type ResultFile struct {
	Query      string            `yaml:"query,omitempty"`
	Collection string            `yaml:"collection,omitempty"`
	Page       int               `yaml:"page"`
	PageSize   int               `yaml:"page_size"`
	TotalHits  int               `yaml:"total_hits"`
	Hits       []types.SearchHit `yaml:"hits"`
	Timestamp  time.Time         `yaml:"timestamp"`
}

// WriteResultFile saves a search page to a YAML file.
func WriteResultFile(path, collection string, page types.SearchPage) error {
	rf := ResultFile{
		Query:      page.Query,
		Collection: collection,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalHits:  page.TotalHits,
		Hits:       page.Hits,
		Timestamp:  time.Now(),
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved search page from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}

// SearchPage converts the stored file back into a live page.
func (rf *ResultFile) SearchPage() types.SearchPage {
	return types.SearchPage{
		Query:     rf.Query,
		Page:      rf.Page,
		PageSize:  rf.PageSize,
		TotalHits: rf.TotalHits,
		Hits:      rf.Hits,
	}
}

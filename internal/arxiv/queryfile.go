// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/harvest/pkg/types"
)

// QueryFile is the on-disk record of one search: its parameters, the parsed
// papers, and when it ran. It lets a search be reviewed without re-querying.
type QueryFile struct {
	Query   QueryParams   `yaml:"query"`
	Results []types.Paper `yaml:"results"`
	Summary QuerySummary  `yaml:"summary"`
}

// QueryParams stores the search parameters in a serializable form.
type QueryParams struct {
	SearchQuery string          `yaml:"search_query"`
	MaxResults  int             `yaml:"max_results"`
	SortBy      types.SortBy    `yaml:"sort_by"`
	SortOrder   types.SortOrder `yaml:"sort_order"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total     int       `yaml:"total"`
	WithPDF   int       `yaml:"with_pdf"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves the search parameters and parsed papers to a YAML file.
func WriteQueryFile(path, query string, cfg types.SearchConfig, papers []types.Paper, now time.Time) error {
	qf := QueryFile{
		Query: QueryParams{
			SearchQuery: query,
			MaxResults:  cfg.MaxResults,
			SortBy:      cfg.SortBy,
			SortOrder:   cfg.SortOrder,
		},
		Results: papers,
		Summary: QuerySummary{
			Total:     len(papers),
			Timestamp: now.UTC(),
		},
	}
	for _, p := range papers {
		if p.HasPDF() {
			qf.Summary.WithPDF++
		}
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing query file %s: %w", path, err)
	}
	return nil
}

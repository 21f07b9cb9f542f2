// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv searches the arXiv API and downloads the matching PDFs.
// Implements: arxiv-fetch (SearchClient, ResultParser, Downloader, Orchestrator).
package arxiv

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/harvest/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const defaultMaxResults = 10

// StatusError reports a non-200 response from an arXiv endpoint.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// Searcher issues search requests against the arXiv API.
type Searcher struct {
	Client *http.Client
}

// Search issues one GET for query and returns the raw Atom document.
// There is no pagination: the request asks for at most cfg.MaxResults
// entries starting at offset 0. A non-200 status returns a *StatusError.
func (s *Searcher) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]byte, error) {
	reqURL := searchURL(query, cfg)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: reqURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading arXiv response: %w", err)
	}
	return body, nil
}

// searchURL builds the query string with search_query, start, max_results,
// sortBy, and sortOrder. Zero values fall back to 10 / relevance / descending.
func searchURL(query string, cfg types.SearchConfig) string {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	sortBy := cfg.SortBy
	if sortBy == "" {
		sortBy = types.SortRelevance
	}
	sortOrder := cfg.SortOrder
	if sortOrder == "" {
		sortOrder = types.SortDescending
	}

	params := url.Values{}
	params.Set("search_query", query)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", string(sortBy))
	params.Set("sortOrder", string(sortOrder))

	return arxivAPIBase + "?" + params.Encode()
}

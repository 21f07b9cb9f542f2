// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ghrepo lists a GitHub user's or organization's repositories,
// filters them by name and description, and clones or updates each one.
// Implements: github-fetch (RepoLister, RepoFilter, CloneRunner, Orchestrator).
package ghrepo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v82/github"
	"golang.org/x/oauth2"

	"github.com/pdiddy/harvest/internal/httputil"
	"github.com/pdiddy/harvest/pkg/types"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com/"

const mediaTypeGitHubJSON = "application/vnd.github+json"

// ClientConfig configures the GitHub REST client.
type ClientConfig struct {
	types.HTTPConfig

	// APIURL overrides DefaultAPIURL (GitHub Enterprise, tests).
	APIURL string

	// Token is optional; unauthenticated requests get a lower quota.
	Token string
}

// NewClient builds a go-github client that sends the GitHub JSON media type
// on every request and, when cfg.Token is set, authenticates with it.
func NewClient(ctx context.Context, cfg ClientConfig) (*github.Client, error) {
	hc := httputil.NewClient(cfg.HTTPConfig, http.Header{"Accept": {mediaTypeGitHubJSON}})

	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		hc = oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, hc), ts)
	}

	client := github.NewClient(hc)

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	base, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("parsing API URL %q: %w", cfg.APIURL, err)
	}
	client.BaseURL = base
	return client, nil
}

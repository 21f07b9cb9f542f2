// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/harvest/internal/arxiv"
	"github.com/pdiddy/harvest/internal/httputil"
	"github.com/pdiddy/harvest/internal/throttle"
	"github.com/pdiddy/harvest/pkg/types"
)

const (
	defaultMaxResults = 10
	defaultOutputDir  = "arxiv_papers"
	defaultSortBy     = string(types.SortRelevance)
	defaultSortOrder  = string(types.SortDescending)
	defaultTimeout    = 60 * time.Second
	defaultDelay      = 1 * time.Second
	defaultUserAgent  = "harvest-arxiv-fetch/0.1"
)

// options is the resolved configuration for one run.
type options struct {
	Query     string
	Search    types.SearchConfig
	Download  types.DownloadConfig
	SaveQuery string
}

// loadOptions reads flag, environment, and config file values through viper
// and validates the result count and sort enums.
func loadOptions(query string) (options, error) {
	sortBy, err := types.ParseSortBy(viper.GetString("sort_by"))
	if err != nil {
		return options{}, err
	}
	sortOrder, err := types.ParseSortOrder(viper.GetString("sort_order"))
	if err != nil {
		return options{}, err
	}

	maxResults := viper.GetInt("max_results")
	if maxResults <= 0 {
		return options{}, fmt.Errorf("invalid max-results %d: must be at least 1", maxResults)
	}

	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("timeout"),
		UserAgent: viper.GetString("user_agent"),
	}
	if httpCfg.Timeout <= 0 {
		httpCfg.Timeout = defaultTimeout
	}
	if httpCfg.UserAgent == "" {
		httpCfg.UserAgent = defaultUserAgent
	}

	return options{
		Query: query,
		Search: types.SearchConfig{
			HTTPConfig: httpCfg,
			MaxResults: maxResults,
			SortBy:     sortBy,
			SortOrder:  sortOrder,
		},
		Download: types.DownloadConfig{
			HTTPConfig: httpCfg,
			OutputDir:  viper.GetString("output_dir"),
			Delay:      defaultDelay,
		},
		SaveQuery: viper.GetString("save_query"),
	}, nil
}

func printBanner(w io.Writer, opts options) {
	fmt.Fprintln(w, "arXiv Paper Scraper")
	fmt.Fprintln(w, "==================")
	fmt.Fprintf(w, "Query: %s\n", opts.Query)
	fmt.Fprintf(w, "Max results: %d\n", opts.Search.MaxResults)
	fmt.Fprintf(w, "Output directory: %s\n", opts.Download.OutputDir)
	fmt.Fprintf(w, "Sort by: %s (%s)\n", opts.Search.SortBy, opts.Search.SortOrder)
	fmt.Fprintln(w)
}

// newScraper wires the search client, downloader, and delay for opts.
func newScraper(opts options, out io.Writer) *arxiv.Scraper {
	return &arxiv.Scraper{
		Searcher: &arxiv.Searcher{Client: httputil.NewClient(opts.Search.HTTPConfig, nil)},
		Downloader: &arxiv.Downloader{
			Client:    httputil.NewClient(opts.Download.HTTPConfig, nil),
			OutputDir: opts.Download.OutputDir,
		},
		Throttle:  throttle.New(opts.Download.Delay, 0),
		QueryFile: opts.SaveQuery,
		Out:       out,
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printBanner(out, opts)

	_, err = newScraper(opts, out).Run(cmd.Context(), opts.Query, opts.Search)
	return err
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/harvest/internal/throttle"
	"github.com/pdiddy/harvest/pkg/types"
)

// Result holds the outcome of one search-and-download run.
type Result struct {
	Found      int
	Downloaded int
	Failed     int
	Papers     []types.Paper
}

// Summary returns the final report line, e.g. "2/2 downloads successful".
func (r Result) Summary() string {
	return fmt.Sprintf("%d/%d downloads successful", r.Downloaded, r.Found)
}

// Scraper runs a search, then downloads every result in order, pausing
// after each attempt. Per-paper failures are reported and skipped.
type Scraper struct {
	Searcher   *Searcher
	Downloader *Downloader

	// Throttle spaces downloads; nil means no pause.
	Throttle *throttle.Throttle

	// QueryFile, when set, receives a YAML snapshot of the parsed results.
	QueryFile string

	Out io.Writer
}

// Run searches for query and downloads the results into the downloader's
// output directory. Search failures (transport or HTTP status) are
// reported and produce an empty result. A malformed response document, a
// context cancellation, or an unusable output directory is returned as an
// error.
func (s *Scraper) Run(ctx context.Context, query string, cfg types.SearchConfig) (Result, error) {
	w := s.Out
	if w == nil {
		w = io.Discard
	}
	var result Result

	fmt.Fprintf(w, "Search query: %s\n", query)
	fmt.Fprintf(w, "Max results: %d\n", cfg.MaxResults)

	if err := os.MkdirAll(s.Downloader.OutputDir, 0o755); err != nil {
		return result, fmt.Errorf("creating directory %s: %w", s.Downloader.OutputDir, err)
	}

	papers, err := s.search(ctx, query, cfg, w)
	if err != nil {
		return result, err
	}
	result.Found = len(papers)
	result.Papers = papers

	if s.QueryFile != "" {
		if err := WriteQueryFile(s.QueryFile, query, cfg, papers, time.Now()); err != nil {
			fmt.Fprintf(w, "warning: %v\n", err)
		} else {
			fmt.Fprintf(w, "Saved query: %s\n", s.QueryFile)
		}
	}

	if len(papers) == 0 {
		fmt.Fprintln(w, "No papers found.")
		return result, nil
	}
	fmt.Fprintf(w, "%d papers found.\n", len(papers))

	for i, p := range papers {
		fmt.Fprintf(w, "\n[%d/%d]\n", i+1, len(papers))
		fmt.Fprintf(w, "Title: %s\n", p.Title)
		fmt.Fprintf(w, "Authors: %s\n", strings.Join(p.Authors, ", "))

		if s.download(ctx, p, w) {
			result.Downloaded++
		} else {
			result.Failed++
		}

		if s.Throttle != nil {
			if err := s.Throttle.Wait(ctx); err != nil {
				return result, err
			}
		}
	}

	fmt.Fprintf(w, "\nCompleted: %s.\n", result.Summary())
	return result, nil
}

// search fetches and parses the result feed. HTTP and transport failures
// yield no papers; parse failures and cancellation propagate.
func (s *Scraper) search(ctx context.Context, query string, cfg types.SearchConfig, w io.Writer) ([]types.Paper, error) {
	body, err := s.Searcher.Search(ctx, query, cfg)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var se *StatusError
		if errors.As(err, &se) {
			fmt.Fprintf(w, "Search error: %d\n", se.StatusCode)
		} else {
			fmt.Fprintf(w, "Search error: %v\n", err)
		}
		return nil, nil
	}
	return ParseFeed(body)
}

func (s *Scraper) download(ctx context.Context, p types.Paper, w io.Writer) bool {
	if !p.HasPDF() {
		fmt.Fprintf(w, "%v: %s\n", ErrNoPDF, p.Title)
		return false
	}

	fmt.Fprintf(w, "Downloading: %s\n", p.Title)
	path, err := s.Downloader.Download(ctx, p)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			fmt.Fprintf(w, "Download error: %d\n", se.StatusCode)
		} else {
			fmt.Fprintf(w, "Download error: %v\n", err)
		}
		return false
	}
	fmt.Fprintf(w, "Download completed: %s\n", filepath.Base(path))
	return true
}

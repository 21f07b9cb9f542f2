// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by both tools.
type HTTPConfig struct {
	// Timeout bounds connecting and waiting for response headers. Reading
	// a response body is not limited.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "harvest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SortBy selects the arXiv result ordering field.
type SortBy string

const (
	SortRelevance       SortBy = "relevance"
	SortLastUpdatedDate SortBy = "lastUpdatedDate"
	SortSubmittedDate   SortBy = "submittedDate"
)

// ParseSortBy validates s against the arXiv sortBy values.
func ParseSortBy(s string) (SortBy, error) {
	switch v := SortBy(s); v {
	case SortRelevance, SortLastUpdatedDate, SortSubmittedDate:
		return v, nil
	}
	return "", fmt.Errorf("invalid sort-by %q: want relevance, lastUpdatedDate, or submittedDate", s)
}

// SortOrder selects the arXiv result ordering direction.
type SortOrder string

const (
	SortAscending  SortOrder = "ascending"
	SortDescending SortOrder = "descending"
)

// ParseSortOrder validates s against the arXiv sortOrder values.
func ParseSortOrder(s string) (SortOrder, error) {
	switch v := SortOrder(s); v {
	case SortAscending, SortDescending:
		return v, nil
	}
	return "", fmt.Errorf("invalid sort-order %q: want ascending or descending", s)
}

// SearchConfig holds the parameters of one arXiv search request.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults caps the number of entries requested (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	SortBy    SortBy    `json:"sort_by" yaml:"sort_by"`
	SortOrder SortOrder `json:"sort_order" yaml:"sort_order"`
}

// DownloadConfig holds settings for the PDF download stage.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir receives one PDF per successful download (created if absent).
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Delay is the pause after each download attempt (default 1s).
	Delay time.Duration `json:"delay" yaml:"delay"`
}

// FilterConfig selects which listed repositories are cloned.
type FilterConfig struct {
	// Match is a case-insensitive substring; empty disables it.
	Match string `json:"match,omitempty" yaml:"match,omitempty"`

	// Regex is a case-sensitive RE2 pattern; empty disables it.
	Regex string `json:"regex,omitempty" yaml:"regex,omitempty"`

	IncludeArchived bool `json:"include_archived" yaml:"include_archived"`
	ExcludeForks    bool `json:"exclude_forks" yaml:"exclude_forks"`
}

// CloneConfig holds settings for the clone/pull stage.
type CloneConfig struct {
	// Dest is the root directory; each repository lands in Dest/<name>.
	Dest string `json:"dest" yaml:"dest"`

	// Interval is the pause after each network-touching git action.
	// Values below the 10s floor are rejected at startup.
	Interval time.Duration `json:"interval" yaml:"interval"`

	// PullIfExists runs "git pull --ff-only" on existing clones.
	PullIfExists bool `json:"pull_if_exists" yaml:"pull_if_exists"`

	// SleepOnSkip applies Interval after existing clones as well.
	SleepOnSkip bool `json:"sleep_on_skip" yaml:"sleep_on_skip"`
}

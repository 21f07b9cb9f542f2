// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ghrepo

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/harvest/pkg/types"
)

// Filter selects repositories by name, full name, and description.
type Filter struct {
	match           string
	re              *regexp.Regexp
	includeArchived bool
	excludeForks    bool
}

// NewFilter compiles cfg. An invalid regular expression is an error.
func NewFilter(cfg types.FilterConfig) (*Filter, error) {
	f := &Filter{
		match:           strings.ToLower(cfg.Match),
		includeArchived: cfg.IncludeArchived,
		excludeForks:    cfg.ExcludeForks,
	}
	if cfg.Regex != "" {
		re, err := regexp.Compile(cfg.Regex)
		if err != nil {
			return nil, fmt.Errorf("invalid --regex %q: %w", cfg.Regex, err)
		}
		f.re = re
	}
	return f, nil
}

// Keep reports whether r passes the filter. With neither a substring nor a
// regex every repository matches; otherwise either one matching is enough.
// Archived repositories are dropped unless included, forks only when
// excluded.
func (f *Filter) Keep(r types.Repo) bool {
	if r.Archived && !f.includeArchived {
		return false
	}
	if r.Fork && f.excludeForks {
		return false
	}
	if f.match == "" && f.re == nil {
		return true
	}

	text := r.MatchText()
	if f.match != "" && strings.Contains(strings.ToLower(text), f.match) {
		return true
	}
	return f.re != nil && f.re.MatchString(text)
}

// Apply returns the repositories that pass Keep, in input order.
func (f *Filter) Apply(repos []types.Repo) []types.Repo {
	out := make([]types.Repo, 0, len(repos))
	for _, r := range repos {
		if f.Keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ghrepo

import (
	"context"
	"fmt"
	"os"
)

// Report summarizes one list -> filter -> sync run.
type Report struct {
	Listed    int
	Matched   int
	Succeeded int
	Outcomes  []Outcome
}

// Run creates the destination root, lists owner's repositories, filters
// them, and syncs each match in order. A listing failure is returned before
// any git command runs.
func Run(ctx context.Context, owner Owner, lister *Lister, filter *Filter, runner *Runner) (Report, error) {
	out := writerOr(runner.Out)
	var report Report

	if err := os.MkdirAll(runner.Config.Dest, 0o755); err != nil {
		return report, fmt.Errorf("creating directory %s: %w", runner.Config.Dest, err)
	}

	fmt.Fprintf(out, "Target: %s\n", owner)
	fmt.Fprintln(out, "Fetching repository list...")

	repos, err := lister.ListAll(ctx, owner)
	if err != nil {
		return report, fmt.Errorf("fetching repository list: %w", err)
	}
	report.Listed = len(repos)
	fmt.Fprintf(out, "Fetched: %d repositories\n", len(repos))

	matched := filter.Apply(repos)
	report.Matched = len(matched)
	fmt.Fprintf(out, "After filter: %d repositories\n", len(matched))

	res, err := runner.SyncAll(ctx, matched)
	report.Outcomes = res.Outcomes
	report.Succeeded = res.Succeeded
	if err != nil {
		return report, err
	}

	fmt.Fprintf(out, "Done: %d clone/pull operations (of %d targets)\n", report.Succeeded, report.Matched)
	return report, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ghrepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/harvest/internal/git"
	"github.com/pdiddy/harvest/internal/throttle"
	"github.com/pdiddy/harvest/pkg/types"
)

// MinInterval is the shortest accepted pause between git network actions.
const MinInterval = 10 * time.Second

// ErrIntervalTooShort is returned by ValidateInterval.
var ErrIntervalTooShort = errors.New("interval below minimum")

// ValidateInterval rejects intervals below MinInterval.
func ValidateInterval(d time.Duration) error {
	if d < MinInterval {
		return fmt.Errorf("%w: --interval must be at least %d seconds, got %s",
			ErrIntervalTooShort, int(MinInterval/time.Second), d)
	}
	return nil
}

// Git is the subset of git operations the runner needs.
type Git interface {
	Clone(ctx context.Context, url, dest string) error
	PullFastForward(ctx context.Context, dir string) error
}

// Action is what the runner did for one repository.
type Action string

const (
	ActionClone Action = "clone"
	ActionPull  Action = "pull"
	ActionSkip  Action = "skip"
)

// Outcome records the result for one repository.
type Outcome struct {
	Repo   types.Repo
	Dest   string
	Action Action
	Err    error
}

// OK reports whether a clone or pull succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Action != ActionSkip
}

// Runner clones missing repositories and optionally fast-forwards existing
// ones under Config.Dest.
type Runner struct {
	Git    Git
	Config types.CloneConfig

	// Throttle spaces successive git actions; it should have Floor set to
	// MinInterval. Nil means no pause.
	Throttle *throttle.Throttle

	Out io.Writer
	Err io.Writer
}

// Sync handles one repository: clone when Dest/<name>/.git is absent,
// otherwise pull (if enabled) or skip. Git failures are reported in the
// Outcome; only context cancellation is returned as an error.
func (r *Runner) Sync(ctx context.Context, repo types.Repo, idx, total int) (Outcome, error) {
	out, errOut := writerOr(r.Out), writerOr(r.Err)
	dest := filepath.Join(r.Config.Dest, repo.Name)
	o := Outcome{Repo: repo, Dest: dest}
	header := fmt.Sprintf("[%d/%d] %s -> %s", idx, total, repo.FullName, dest)

	if repo.Name == "" {
		o.Action = ActionSkip
		o.Err = fmt.Errorf("repository %s has no name", repo.FullName)
		fmt.Fprintf(errOut, "%s: %v; skipping.\n", header, o.Err)
		return o, nil
	}

	if isClone(dest) {
		fmt.Fprintf(out, "%s: existing repository found.\n", header)
		o.Action = ActionSkip
		if r.Config.PullIfExists {
			o.Action = ActionPull
			fmt.Fprintln(out, "Running git pull --ff-only...")
			if err := r.Git.PullFastForward(ctx, dest); err != nil {
				if ctx.Err() != nil {
					return o, ctx.Err()
				}
				o.Err = err
				fmt.Fprintf(errOut, "pull failed (code %d); continuing.\n", git.ExitCode(err))
			}
		}
		if r.Config.SleepOnSkip {
			return o, r.wait(ctx)
		}
		return o, nil
	}

	o.Action = ActionClone
	fmt.Fprintf(out, "%s: cloning...\n", header)
	if err := r.Git.Clone(ctx, repo.CloneURL, dest); err != nil {
		if ctx.Err() != nil {
			return o, ctx.Err()
		}
		o.Err = err
		fmt.Fprintf(errOut, "clone failed (code %d); continuing.\n", git.ExitCode(err))
	}
	return o, r.wait(ctx)
}

// SyncResult summarizes a SyncAll run.
type SyncResult struct {
	Outcomes  []Outcome
	Succeeded int
}

// SyncAll runs Sync for each repository in order. It stops early only when
// ctx is cancelled.
func (r *Runner) SyncAll(ctx context.Context, repos []types.Repo) (SyncResult, error) {
	var res SyncResult
	for i, repo := range repos {
		o, err := r.Sync(ctx, repo, i+1, len(repos))
		res.Outcomes = append(res.Outcomes, o)
		if o.OK() {
			res.Succeeded++
		}
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

func (r *Runner) wait(ctx context.Context) error {
	if r.Throttle == nil {
		return nil
	}
	return r.Throttle.Wait(ctx)
}

// isClone reports whether dir holds a .git entry.
func isClone(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

func writerOr(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

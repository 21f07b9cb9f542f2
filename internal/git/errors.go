// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package git

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// GitError describes a git invocation that exited unsuccessfully.
type GitError struct {
	Args     []string
	ExitCode int
	Output   string
	err      error
}

// NewGitError builds a GitError from the subcommand args, the combined
// output, and the error returned by the command.
func NewGitError(args []string, output string, err error) *GitError {
	exitCode := -1

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	return &GitError{
		Args:     args,
		ExitCode: exitCode,
		Output:   output,
		err:      err,
	}
}

func (e *GitError) Error() string {
	return fmt.Sprintf("git %s: exit code %d", strings.Join(e.Args, " "), e.ExitCode)
}

func (e *GitError) Unwrap() error { return e.err }

// ExitCode returns the git exit code carried by err, 0 for nil, or -1 when
// the command never produced one (e.g. it could not be started).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var gitErr *GitError
	if errors.As(err, &gitErr) {
		return gitErr.ExitCode
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return -1
}

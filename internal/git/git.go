// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package git runs the external git executable for clone and fast-forward
// pull operations.
package git

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

const binGit = "git"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunCombined(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunCombined(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Client runs git subcommands and echoes their combined stdout/stderr to Out.
type Client struct {
	path string
	exec executor
	out  io.Writer
}

// New locates git on PATH. It returns an error when git is not installed.
// Command output is echoed to out; a nil out discards it.
func New(out io.Writer) (*Client, error) {
	return newClient(&osExecutor{}, out)
}

func newClient(exec executor, out io.Writer) (*Client, error) {
	path, err := exec.LookPath(binGit)
	if err != nil {
		return nil, fmt.Errorf("git executable not found on PATH: %w", err)
	}
	if out == nil {
		out = io.Discard
	}
	return &Client{path: path, exec: exec, out: out}, nil
}

// Path returns the resolved git executable.
func (c *Client) Path() string { return c.path }

// Clone runs "git clone -- <url> <dest>".
func (c *Client) Clone(ctx context.Context, url, dest string) error {
	return c.run(ctx, "clone", "--", url, dest)
}

// PullFastForward runs "git -C <dir> pull --ff-only".
func (c *Client) PullFastForward(ctx context.Context, dir string) error {
	return c.run(ctx, "-C", dir, "pull", "--ff-only")
}

func (c *Client) run(ctx context.Context, args ...string) error {
	output, err := c.exec.RunCombined(ctx, c.path, args...)
	c.out.Write(output)
	if err != nil {
		return NewGitError(args, string(output), err)
	}
	return nil
}

// Package git runs the git executable for clone and pull.
package git

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

// Result is the outcome of one git invocation
type Result struct {
	ExitCode int
	Output   string // combined stdout and stderr
}

// Success reports whether git exited with status 0.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner clones and pulls repositories. A non-zero exit is reported in
// Result; the error is reserved for failures to run git at all.
type Runner interface {
	Clone(ctx context.Context, url, dest string) (Result, error)
	Pull(ctx context.Context, dir string) (Result, error)
}

// Client wraps the git executable
type Client struct {
	GitPath string   // Path to git executable
	Env     []string // Extra environment, appended to os.Environ
}

// NewClient creates a client for gitPath. An empty path resolves "git" from
// PATH.
func NewClient(gitPath string) *Client {
	if gitPath == "" {
		gitPath = "git"
	}

	if resolved, err := exec.LookPath(gitPath); err == nil {
		gitPath = resolved
	}

	return &Client{
		GitPath: gitPath,
		// never block on a credential prompt
		Env: []string{"GIT_TERMINAL_PROMPT=0"},
	}
}

// Command creates a git command running in dir
// Note: Do not set Stdout/Stderr if you plan to use CombinedOutput()
func (c *Client) Command(ctx context.Context, dir string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.GitPath, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), c.Env...)

	return cmd
}

// Run executes git with args in dir and captures combined output.
func (c *Client) Run(ctx context.Context, dir string, args ...string) (Result, error) {
	var out bytes.Buffer

	cmd := c.Command(ctx, dir, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err == nil {
		return Result{ExitCode: 0, Output: out.String()}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return Result{ExitCode: exitErr.ExitCode(), Output: out.String()}, nil
	}

	return Result{ExitCode: -1, Output: out.String()}, NewGitError(args, out.String(), err)
}

// Clone runs "git clone <url> <dest>".
func (c *Client) Clone(ctx context.Context, url, dest string) (Result, error) {
	return c.Run(ctx, "", "clone", url, dest)
}

// Pull runs "git pull" inside dir.
func (c *Client) Pull(ctx context.Context, dir string) (Result, error) {
	return c.Run(ctx, dir, "pull")
}

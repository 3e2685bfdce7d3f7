package git

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Common messages from git output
const (
	msgNotRepository    = "not a git repository"
	msgAuthFailed       = "Authentication failed"
	msgPermissionDenied = "Permission denied"
	msgCouldNotRead     = "could not read Username"
	msgRepoNotFound     = "Repository not found"
	msgNoTrackingInfo   = "There is no tracking information"
	msgAlreadyExists    = "already exists and is not an empty directory"
)

// GitError is a failure to run git at all (missing binary, spawn error,
// killed process). Non-zero exits are reported through Result instead.
type GitError struct {
	ExitCode int
	Output   string
	Command  string
	err      error
}

// NewGitError creates a GitError. Only the git subcommand is kept so that
// credentialed URLs in args never reach error text.
func NewGitError(args []string, output string, err error) *GitError {
	exitCode := -1

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	command := ""
	if len(args) > 0 {
		command = args[0]
	}

	return &GitError{
		ExitCode: exitCode,
		Output:   output,
		Command:  command,
		err:      err,
	}
}

func (e *GitError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("git %s failed: %v", e.Command, e.err)
	}

	return fmt.Sprintf("git %s failed: %v: %s", e.Command, e.err, strings.TrimSpace(e.Output))
}

func (e *GitError) Unwrap() error {
	return e.err
}

// IsAuthRequired checks if git output indicates missing or rejected credentials
func IsAuthRequired(output string) bool {
	return contains(output, msgAuthFailed) ||
		contains(output, msgPermissionDenied) ||
		contains(output, msgCouldNotRead)
}

// IsNotRepository checks if git output indicates the directory is not a working copy
func IsNotRepository(output string) bool {
	return contains(output, msgNotRepository)
}

// IsRepoNotFound checks if the remote reported a missing repository
func IsRepoNotFound(output string) bool {
	return contains(output, msgRepoNotFound)
}

// IsNoUpstream checks if pull failed for lack of a tracking branch
func IsNoUpstream(output string) bool {
	return contains(output, msgNoTrackingInfo)
}

// IsDestinationNotEmpty checks if clone refused a non-empty target directory
func IsDestinationNotEmpty(output string) bool {
	return contains(output, msgAlreadyExists)
}

// Hint returns a short explanation for well-known failure output, or "".
func Hint(output string) string {
	switch {
	case IsAuthRequired(output):
		return "credentials rejected; check the token and its scopes"
	case IsRepoNotFound(output):
		return "repository not found or not visible to this token"
	case IsNotRepository(output):
		return "existing directory is not a git working copy"
	case IsNoUpstream(output):
		return "current branch has no upstream"
	case IsDestinationNotEmpty(output):
		return "target directory is not empty"
	}

	return ""
}

func contains(output, msg string) bool {
	return strings.Contains(strings.ToLower(output), strings.ToLower(msg))
}

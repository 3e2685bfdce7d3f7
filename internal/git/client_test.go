package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGit writes a shell script standing in for git. It prints its working
// directory and arguments, then exits with the code in FAKE_GIT_EXIT.
func fakeGit(t *testing.T) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "git")
	script := `#!/bin/sh
echo "cwd=$(pwd)"
echo "args=$*"
echo "prompt=$GIT_TERMINAL_PROMPT" 1>&2
exit ${FAKE_GIT_EXIT:-0}
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))

	return path
}

func TestClientClone(t *testing.T) {
	c := NewClient(fakeGit(t))

	res, err := c.Clone(context.Background(), "https://host/x.git", "/tmp/dest")
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Contains(t, res.Output, "args=clone https://host/x.git /tmp/dest")
	assert.Contains(t, res.Output, "prompt=0", "stderr is part of the combined output")
}

func TestClientPullRunsInDir(t *testing.T) {
	dir := t.TempDir()
	c := NewClient(fakeGit(t))

	res, err := c.Pull(context.Background(), dir)
	require.NoError(t, err)

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	assert.Contains(t, res.Output, "args=pull")
	assert.True(t, strings.Contains(res.Output, "cwd="+dir) || strings.Contains(res.Output, "cwd="+resolved), res.Output)
}

func TestClientNonZeroExitIsNotAnError(t *testing.T) {
	c := NewClient(fakeGit(t))
	c.Env = append(c.Env, "FAKE_GIT_EXIT=128")

	res, err := c.Clone(context.Background(), "https://host/x.git", "/tmp/dest")
	require.NoError(t, err)
	assert.False(t, res.Success())
	assert.Equal(t, 128, res.ExitCode)
}

func TestClientMissingBinary(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "no-such-git"))

	res, err := c.Clone(context.Background(), "https://T@host/x.git", "/tmp/dest")
	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)

	var gitErr *GitError
	require.True(t, errors.As(err, &gitErr))
	assert.Equal(t, "clone", gitErr.Command)
	assert.NotContains(t, err.Error(), "T@host", "credentialed url must not leak into the error")
}

func TestHint(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{output: "remote: Invalid username or password.\nfatal: Authentication failed for 'https://host/x.git/'", want: "credentials rejected; check the token and its scopes"},
		{output: "fatal: could not read Username for 'https://github.com': terminal prompts disabled", want: "credentials rejected; check the token and its scopes"},
		{output: "remote: Repository not found.", want: "repository not found or not visible to this token"},
		{output: "fatal: not a git repository (or any of the parent directories): .git", want: "existing directory is not a git working copy"},
		{output: "There is no tracking information for the current branch.", want: "current branch has no upstream"},
		{output: "fatal: destination path 'x' already exists and is not an empty directory.", want: "target directory is not empty"},
		{output: "error: something else", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Hint(tt.output))
		})
	}
}

package model

import (
	"fmt"
	"strings"
	"time"
)

// ProviderKind identifies the hosting provider behind a profile
type ProviderKind string

const (
	// KindGitHub lists repositories through the GitHub REST API
	KindGitHub ProviderKind = "github"

	// KindGitLab lists projects through the GitLab v4 REST API
	KindGitLab ProviderKind = "gitlab"
)

// ParseProviderKind accepts the kind names case-insensitively.
func ParseProviderKind(s string) (ProviderKind, error) {
	switch ProviderKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindGitHub:
		return KindGitHub, nil
	case KindGitLab:
		return KindGitLab, nil
	}

	return "", fmt.Errorf("unknown provider kind %q (want github or gitlab)", s)
}

// GitLabMode selects how GitLab projects are discovered
type GitLabMode string

const (
	// GitLabRecursive lists all projects in one pass with include_subgroups=true
	GitLabRecursive GitLabMode = "recursive"

	// GitLabBashStyle walks groups and subgroups, then lists projects per group
	GitLabBashStyle GitLabMode = "bash-style"
)

// ParseGitLabMode accepts the mode names case-insensitively. An empty string
// yields GitLabRecursive.
func ParseGitLabMode(s string) (GitLabMode, error) {
	switch GitLabMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", GitLabRecursive:
		return GitLabRecursive, nil
	case GitLabBashStyle:
		return GitLabBashStyle, nil
	}

	return "", fmt.Errorf("unknown gitlab mode %q (want recursive or bash-style)", s)
}

// Profile holds everything needed to discover and mirror one provider account
type Profile struct {
	// ID is the unique identifier (UUID)
	ID string `json:"id"`

	// Name is the unique display name used on the command line
	Name string `json:"name"`

	// Token is the access token sent as a Bearer credential
	Token string `json:"token"`

	// BaseURL is the account or instance URL (e.g., https://github.com/octocat)
	BaseURL string `json:"base_url"`

	// Kind is the provider behind BaseURL
	Kind ProviderKind `json:"kind"`

	// Username is used in credentialed clone URLs when set
	Username string `json:"username,omitempty"`

	// GitLabMode selects the GitLab discovery strategy
	GitLabMode GitLabMode `json:"gitlab_mode,omitempty"`

	// LastSyncAt is when the last completed sync finished
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`

	// CreatedAt is when the profile was created
	CreatedAt time.Time `json:"created_at"`
}

// EffectiveGitLabMode returns the configured mode, defaulting to recursive.
func (p Profile) EffectiveGitLabMode() GitLabMode {
	if p.GitLabMode == "" {
		return GitLabRecursive
	}

	return p.GitLabMode
}

// Redacted returns a copy safe to print.
func (p Profile) Redacted() Profile {
	if p.Token != "" {
		p.Token = "***"
	}

	return p
}

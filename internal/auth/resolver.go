// Package auth resolves provider tokens from multiple sources in priority
// order.
package auth

import (
	"fmt"
	"os"
	"strings"

	ghauth "github.com/cli/go-gh/v2/pkg/auth"

	"github.com/inovacc/repomirror/internal/giturl"
	"github.com/inovacc/repomirror/internal/model"
)

// Source indicates where a token was found
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceProfile Source = "profile"
	SourceCLI     Source = "cli"
	SourceNone    Source = "none"
)

// Result contains the resolved token and its source
type Result struct {
	Token  string
	Source Source
	Name   string // the specific source name (e.g., "GITHUB_TOKEN", "profile:work")
}

// TokenProvider attempts to provide a token. It returns an empty token when
// the source has none and an error only for unexpected failures.
type TokenProvider func() (token string, sourceName string, err error)

// Resolver resolves tokens from multiple sources in priority order
type Resolver struct {
	providers   []TokenProvider
	serviceName string
	helpMessage string
}

// ghTokenForHost reads the gh CLI credential store; replaced in tests.
var ghTokenForHost = ghauth.TokenForHost

// NewResolver creates a new token resolver for a service
func NewResolver(serviceName string) *Resolver {
	return &Resolver{
		serviceName: serviceName,
		providers:   make([]TokenProvider, 0),
	}
}

// WithFlagValue adds a flag value as a source
func (r *Resolver) WithFlagValue(value string) *Resolver {
	return r.WithProvider(func() (string, string, error) {
		return value, "flag", nil
	})
}

// WithProfile adds the token stored on a profile
func (r *Resolver) WithProfile(p model.Profile) *Resolver {
	return r.WithProvider(func() (string, string, error) {
		return p.Token, "profile:" + p.Name, nil
	})
}

// WithEnvs adds environment variables as token sources (checked in order)
func (r *Resolver) WithEnvs(envVars ...string) *Resolver {
	for _, envVar := range envVars {
		r.WithProvider(func() (string, string, error) {
			return os.Getenv(envVar), envVar, nil
		})
	}

	return r
}

// WithGHCLI adds the gh CLI credential store for host
func (r *Resolver) WithGHCLI(host string) *Resolver {
	return r.WithProvider(func() (string, string, error) {
		if host == "" {
			return "", "", nil
		}

		token, _ := ghTokenForHost(host)

		return token, "cli:gh", nil
	})
}

// WithProvider adds a custom token provider
func (r *Resolver) WithProvider(provider TokenProvider) *Resolver {
	r.providers = append(r.providers, provider)
	return r
}

// WithHelpMessage sets the help message shown when no token is found
func (r *Resolver) WithHelpMessage(msg string) *Resolver {
	r.helpMessage = msg
	return r
}

// Resolve returns the first non-empty token, or an error if no source has one.
func (r *Resolver) Resolve() (*Result, error) {
	for _, provider := range r.providers {
		token, sourceName, err := provider()
		if err != nil {
			return nil, fmt.Errorf("token provider error: %w", err)
		}

		if token = strings.TrimSpace(token); token != "" {
			return &Result{
				Token:  token,
				Source: categorizeSource(sourceName),
				Name:   sourceName,
			}, nil
		}
	}

	if r.helpMessage != "" {
		return nil, fmt.Errorf("%s token required\n\n%s", r.serviceName, r.helpMessage)
	}

	return nil, fmt.Errorf("%s token required", r.serviceName)
}

// categorizeSource determines the Source category from a source name
func categorizeSource(name string) Source {
	switch {
	case name == "flag":
		return SourceFlag
	case strings.HasPrefix(name, "profile"):
		return SourceProfile
	case strings.HasPrefix(name, "cli"):
		return SourceCLI
	case strings.Contains(name, "_") || strings.Contains(name, "TOKEN"):
		return SourceEnv
	default:
		return SourceNone
	}
}

// ForProfile builds the resolver for a profile's provider:
//
//	GitHub: profile token, GITHUB_TOKEN, GH_TOKEN, gh CLI for the profile host
//	GitLab: profile token, GITLAB_TOKEN
func ForProfile(p model.Profile) *Resolver {
	switch p.Kind {
	case model.KindGitLab:
		return NewResolver("GitLab").
			WithProfile(p).
			WithEnvs("GITLAB_TOKEN").
			WithHelpMessage("Store one with: repomirror profile add --kind gitlab --token <token>\nor set GITLAB_TOKEN")
	default:
		return NewResolver("GitHub").
			WithProfile(p).
			WithEnvs("GITHUB_TOKEN", "GH_TOKEN").
			WithGHCLI(giturl.Host(p.BaseURL)).
			WithHelpMessage("Provide a token via one of:\n  * repomirror profile add --token <token>\n  * gh auth login\n  * GITHUB_TOKEN or GH_TOKEN env var")
	}
}

// ResolveProfile returns p with its token filled from the fallback chain.
func ResolveProfile(p model.Profile) (model.Profile, *Result, error) {
	res, err := ForProfile(p).Resolve()
	if err != nil {
		return p, nil, err
	}

	p.Token = res.Token

	return p, res, nil
}

// Package provider lists the repositories a profile can access on GitHub or
// GitLab.
package provider

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/inovacc/repomirror/internal/giturl"
	"github.com/inovacc/repomirror/internal/model"
	"github.com/inovacc/repomirror/internal/progress"
)

// Enumerator produces the full repository list of one profile
type Enumerator interface {
	Discover(ctx context.Context, sink progress.Sink) ([]model.RepoInfo, error)
}

// Options tunes enumerators
type Options struct {
	// Concurrency bounds independent listings; values below 2 are sequential
	Concurrency int

	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}

	return o.Logger
}

// Settings configures New
type Settings struct {
	Options

	// GitHubAPIURL is the REST root for github.com profiles
	GitHubAPIURL string

	// GitLabRetryMax is the retry budget of the GitLab transport
	GitLabRetryMax int

	// Timeout applies to every HTTP request
	Timeout time.Duration
}

// New builds the enumerator matching p.Kind.
func New(ctx context.Context, p model.Profile, s Settings) (Enumerator, error) {
	if _, err := giturl.ParseHTTP(p.BaseURL); err != nil {
		return nil, &URLError{URL: p.BaseURL, Err: err}
	}

	switch p.Kind {
	case model.KindGitHub:
		apiURL, err := GitHubAPIURL(p.BaseURL, s.GitHubAPIURL)
		if err != nil {
			return nil, err
		}

		fetcher, err := NewGitHubFetcher(ctx, apiURL, p.Token, s.Timeout)
		if err != nil {
			return nil, err
		}

		return NewGitHubEnumerator(fetcher, s.Options), nil

	case model.KindGitLab:
		fetcher, err := NewGitLabFetcher(p.BaseURL, p.Token, s.Timeout, s.GitLabRetryMax)
		if err != nil {
			return nil, err
		}

		return NewGitLabWalker(fetcher, p.EffectiveGitLabMode(), s.Options), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, p.Kind)
}

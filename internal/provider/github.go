package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v82/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/inovacc/repomirror/internal/model"
	"github.com/inovacc/repomirror/internal/progress"
)

var (
	errEmptyResponse = errors.New("empty response")
	errMissingHost   = errors.New("missing scheme or host")
)

// GitHubFetcher issues listing requests through a go-github client
type GitHubFetcher struct {
	client *github.Client
}

// NewGitHubFetcher creates a fetcher for the REST root apiURL
// (e.g. https://api.github.com/). A non-empty token is sent as a Bearer
// credential through an oauth2 static token source.
func NewGitHubFetcher(ctx context.Context, apiURL, token string, timeout time.Duration) (*GitHubFetcher, error) {
	base, err := url.Parse(withTrailingSlash(apiURL))
	if err != nil || base.Host == "" {
		return nil, &URLError{URL: apiURL, Err: errOrMissingHost(err)}
	}

	var httpClient *http.Client

	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	} else {
		httpClient = &http.Client{}
	}

	httpClient.Timeout = timeout

	client := github.NewClient(httpClient)
	client.BaseURL = base

	return &GitHubFetcher{client: client}, nil
}

// Get implements Fetcher.
func (f *GitHubFetcher) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	target := path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := f.client.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	// BareDo returns the response alongside *github.ErrorResponse for error
	// statuses, with the body still readable.
	resp, err := f.client.BareDo(ctx, req)
	if resp == nil || resp.Response == nil {
		if err == nil {
			err = errEmptyResponse
		}

		return nil, err
	}

	defer func() { _ = resp.Body.Close() }()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, readErr
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// GitHubAPIURL maps a profile base URL to the REST root. github.com accounts
// use defaultAPI; any other host is treated as GitHub Enterprise.
func GitHubAPIURL(baseURL, defaultAPI string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", &URLError{URL: baseURL, Err: errOrMissingHost(err)}
	}

	switch strings.ToLower(u.Hostname()) {
	case "github.com", "www.github.com", "api.github.com":
		return withTrailingSlash(defaultAPI), nil
	}

	return u.Scheme + "://" + u.Host + "/api/v3/", nil
}

// GitHubEnumerator lists personal and organisation repositories
type GitHubEnumerator struct {
	pager       *Paginator
	concurrency int
	logger      *zap.Logger
}

// NewGitHubEnumerator creates an enumerator over fetcher.
func NewGitHubEnumerator(fetcher Fetcher, opts Options) *GitHubEnumerator {
	logger := opts.logger()

	return &GitHubEnumerator{
		pager:       NewPaginator(fetcher, logger),
		concurrency: opts.Concurrency,
		logger:      logger,
	}
}

// Discover lists user/repos, then user/orgs, then orgs/{org}/repos for every
// organisation. Personal repositories come first, followed by each
// organisation's repositories in organisation order. Any failed listing
// aborts the whole enumeration.
func (e *GitHubEnumerator) Discover(ctx context.Context, sink progress.Sink) ([]model.RepoInfo, error) {
	sink = progress.OrDiscard(sink)

	progress.Infof(sink, "Fetching personal repositories")

	personal, err := collect(ctx, e.pager, "user/repos", nil, personalRepo)
	if err != nil {
		return nil, fmt.Errorf("list personal repositories: %w", err)
	}

	progress.Infof(sink, "Found %d personal repositories (%d records)", len(personal.Items), personal.Raw)

	orgs, err := collect(ctx, e.pager, "user/orgs", nil, orgLogin)
	if err != nil {
		return nil, fmt.Errorf("list organisations: %w", err)
	}

	progress.Infof(sink, "Found %d organisations", len(orgs.Items))

	perOrg, err := forEachOrdered(ctx, len(orgs.Items), e.concurrency, func(ctx context.Context, i int) ([]model.RepoInfo, error) {
		org := orgs.Items[i]

		l, err := collect(ctx, e.pager, "orgs/"+url.PathEscape(org)+"/repos", nil, orgRepo(org))
		if err != nil {
			return nil, fmt.Errorf("list repositories of organisation %s: %w", org, err)
		}

		progress.Infof(sink, "Found %d repositories in %s", len(l.Items), org)

		return l.Items, nil
	})
	if err != nil {
		return nil, err
	}

	all := personal.Items
	for _, repos := range perOrg {
		all = append(all, repos...)
	}

	all, dropped := dedupe(all)

	e.logger.Info("github discovery complete",
		zap.Int("repositories", len(all)),
		zap.Int("organisations", len(orgs.Items)),
		zap.Int("duplicates", dropped),
	)

	progress.Successf(sink, "Discovered %d repositories", len(all))

	return all, nil
}

func withTrailingSlash(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "/") {
		s += "/"
	}

	return s
}

func errOrMissingHost(err error) error {
	if err != nil {
		return err
	}

	return errMissingHost
}

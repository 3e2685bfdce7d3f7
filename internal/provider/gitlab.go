package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/xanzy/go-gitlab"
	"go.uber.org/zap"

	"github.com/inovacc/repomirror/internal/model"
	"github.com/inovacc/repomirror/internal/progress"
)

// GitLabFetcher issues listing requests through a go-gitlab client
type GitLabFetcher struct {
	client *gitlab.Client
}

// NewGitLabFetcher creates a fetcher for the instance at baseURL; the client
// appends /api/v4, so an instance under a relative root keeps its path
// (https://host/gitlab -> https://host/gitlab/api/v4). The token is sent as a
// Bearer credential.
func NewGitLabFetcher(baseURL, token string, timeout time.Duration, retryMax int) (*GitLabFetcher, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")

	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, &URLError{URL: baseURL, Err: errOrMissingHost(err)}
	}

	client, err := gitlab.NewOAuthClient(token,
		gitlab.WithBaseURL(trimmed),
		gitlab.WithHTTPClient(&http.Client{Timeout: timeout}),
		gitlab.WithCustomRetryMax(retryMax),
	)
	if err != nil {
		return nil, fmt.Errorf("create gitlab client: %w", err)
	}

	return &GitLabFetcher{client: client}, nil
}

// Get implements Fetcher.
func (f *GitLabFetcher) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	withQuery := func(req *retryablehttp.Request) error {
		req.URL.RawQuery = query.Encode()
		return nil
	}

	req, err := f.client.NewRequest(http.MethodGet, path, nil, []gitlab.RequestOptionFunc{
		gitlab.WithContext(ctx),
		withQuery,
	})
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer

	resp, err := f.client.Do(req, &body)
	if resp == nil || resp.Response == nil {
		if err == nil {
			err = errEmptyResponse
		}

		return nil, err
	}

	if err != nil {
		var errResp *gitlab.ErrorResponse
		if errors.As(err, &errResp) && len(errResp.Body) > 0 {
			return &Response{StatusCode: resp.StatusCode, Body: errResp.Body}, nil
		}

		return &Response{StatusCode: resp.StatusCode, Body: []byte(err.Error())}, nil
	}

	return &Response{StatusCode: resp.StatusCode, Body: body.Bytes()}, nil
}

// GitLabWalker discovers projects in one of the two GitLab modes
type GitLabWalker struct {
	pager       *Paginator
	mode        model.GitLabMode
	concurrency int
	logger      *zap.Logger
}

// NewGitLabWalker creates a walker over fetcher. An empty mode means
// recursive.
func NewGitLabWalker(fetcher Fetcher, mode model.GitLabMode, opts Options) *GitLabWalker {
	if mode == "" {
		mode = model.GitLabRecursive
	}

	logger := opts.logger()

	return &GitLabWalker{
		pager:       NewPaginator(fetcher, logger),
		mode:        mode,
		concurrency: opts.Concurrency,
		logger:      logger,
	}
}

// Discover lists every project reachable with the walker's mode. Any failed
// listing aborts the walk.
func (w *GitLabWalker) Discover(ctx context.Context, sink progress.Sink) ([]model.RepoInfo, error) {
	sink = progress.OrDiscard(sink)

	var (
		repos []model.RepoInfo
		err   error
	)

	switch w.mode {
	case model.GitLabBashStyle:
		repos, err = w.discoverByGroups(ctx, sink)
	default:
		repos, err = w.discoverRecursive(ctx, sink)
	}

	if err != nil {
		return nil, err
	}

	repos, dropped := dedupe(repos)

	w.logger.Info("gitlab discovery complete",
		zap.String("mode", string(w.mode)),
		zap.Int("repositories", len(repos)),
		zap.Int("duplicates", dropped),
	)

	progress.Successf(sink, "Discovered %d repositories", len(repos))

	return repos, nil
}

func (w *GitLabWalker) discoverRecursive(ctx context.Context, sink progress.Sink) ([]model.RepoInfo, error) {
	progress.Infof(sink, "Fetching all projects including subgroups")

	q := url.Values{"include_subgroups": {"true"}}

	l, err := collect(ctx, w.pager, "projects", q, gitlabProject)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	progress.Infof(sink, "Found %d projects (%d records)", len(l.Items), l.Raw)

	return l.Items, nil
}

func (w *GitLabWalker) discoverByGroups(ctx context.Context, sink progress.Sink) ([]model.RepoInfo, error) {
	groups, err := w.Groups(ctx, sink)
	if err != nil {
		return nil, err
	}

	perGroup, err := forEachOrdered(ctx, len(groups), w.concurrency, func(ctx context.Context, i int) ([]model.RepoInfo, error) {
		g := groups[i]

		progress.Infof(sink, "Listing projects for group %s", g.FullPath)

		l, err := collect(ctx, w.pager, groupPath(g.ID, "projects"), nil, gitlabProject)
		if err != nil {
			return nil, fmt.Errorf("list projects of group %s: %w", g.FullPath, err)
		}

		return l.Items, nil
	})
	if err != nil {
		return nil, err
	}

	var repos []model.RepoInfo
	for _, items := range perGroup {
		repos = append(repos, items...)
	}

	return repos, nil
}

// Groups lists top-level groups and then expands subgroups until no new
// group appears. Every group, including ones found through subgroup
// listings, has its own subgroups listed exactly once. Groups are returned
// in discovery order.
func (w *GitLabWalker) Groups(ctx context.Context, sink progress.Sink) ([]Group, error) {
	sink = progress.OrDiscard(sink)

	progress.Infof(sink, "Fetching groups")

	top, err := collect(ctx, w.pager, "groups", nil, gitlabGroup)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	seen := make(map[int64]struct{}, len(top.Items))
	groups := make([]Group, 0, len(top.Items))

	add := func(g Group) bool {
		if _, ok := seen[g.ID]; ok {
			return false
		}

		seen[g.ID] = struct{}{}
		groups = append(groups, g)

		return true
	}

	for _, g := range top.Items {
		add(g)
	}

	// groups grows while it is walked; the loop ends at the fixed point.
	for i := 0; i < len(groups); i++ {
		parent := groups[i]

		subs, err := collect(ctx, w.pager, groupPath(parent.ID, "subgroups"), nil, gitlabGroup)
		if err != nil {
			return nil, fmt.Errorf("list subgroups of %s: %w", parent.FullPath, err)
		}

		added := 0

		for _, g := range subs.Items {
			if add(g) {
				added++
			}
		}

		if added > 0 {
			w.logger.Debug("subgroups found", zap.String("group", parent.FullPath), zap.Int("count", added))
		}
	}

	progress.Infof(sink, "Found %d groups", len(groups))

	return groups, nil
}

func groupPath(id int64, resource string) string {
	return "groups/" + strconv.FormatInt(id, 10) + "/" + resource
}

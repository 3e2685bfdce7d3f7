package mirror

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/inovacc/repomirror/internal/git"
	"github.com/inovacc/repomirror/internal/giturl"
	"github.com/inovacc/repomirror/internal/model"
	"github.com/inovacc/repomirror/internal/progress"
	"github.com/inovacc/repomirror/internal/provider"
)

var errNoRepoName = errors.New("no repository name in path")

// EnumeratorFactory builds the enumerator for a profile
type EnumeratorFactory func(ctx context.Context, p model.Profile) (provider.Enumerator, error)

// SyncResult is the outcome of Service.Sync
type SyncResult struct {
	Summary    RunSummary `json:"summary" yaml:"summary"`
	StartedAt  time.Time  `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time  `json:"finished_at" yaml:"finished_at"`

	// LastSyncAt is set only when the run completed; callers persist it on
	// the profile.
	LastSyncAt *time.Time `json:"last_sync_at,omitempty" yaml:"last_sync_at,omitempty"`
}

// Service runs discovery followed by the sync engine
type Service struct {
	enumerators EnumeratorFactory
	engine      *Engine
	runner      git.Runner
	logger      *zap.Logger
	now         func() time.Time
}

// NewService wires a factory, an engine and the runner used for the
// single-profile clone.
func NewService(enumerators EnumeratorFactory, engine *Engine, runner git.Runner, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		enumerators: enumerators,
		engine:      engine,
		runner:      runner,
		logger:      logger,
		now:         time.Now,
	}
}

// Discover lists every repository visible to p.
func (s *Service) Discover(ctx context.Context, p model.Profile, sink progress.Sink) ([]model.RepoInfo, error) {
	sink = progress.OrDiscard(sink)

	enumerator, err := s.enumerators(ctx, p)
	if err != nil {
		return nil, err
	}

	progress.Infof(sink, "Discovering repositories for %s (%s)", p.Name, p.Kind)

	repos, err := enumerator.Discover(ctx, sink)
	if err != nil {
		s.logger.Error("discovery failed", zap.String("profile", p.Name), zap.Error(err))
		return nil, err
	}

	return repos, nil
}

// Plan discovers repositories and resolves their paths and actions.
func (s *Service) Plan(ctx context.Context, p model.Profile, sink progress.Sink) ([]PlannedRepo, error) {
	repos, err := s.Discover(ctx, p, sink)
	if err != nil {
		return nil, err
	}

	return s.engine.Plan(p, repos), nil
}

// Sync discovers and then syncs every repository of p. A discovery error
// aborts before any git call. The returned LastSyncAt is set only when the
// run completed.
func (s *Service) Sync(ctx context.Context, p model.Profile, sink progress.Sink) (SyncResult, error) {
	sink = progress.OrDiscard(sink)
	result := SyncResult{StartedAt: s.now()}

	repos, err := s.Discover(ctx, p, sink)
	if err != nil {
		progress.Errorf(sink, "Discovery failed: %v", err)
		result.FinishedAt = s.now()

		return result, fmt.Errorf("discover repositories: %w", err)
	}

	summary, err := s.engine.Run(ctx, p, repos, sink)
	result.Summary = summary
	result.FinishedAt = s.now()

	if err != nil {
		return result, err
	}

	finished := result.FinishedAt
	result.LastSyncAt = &finished

	return result, nil
}

// CloneProfile clones the repository at p.BaseURL into dir/<name>. It is the
// single-repository path and reports failures as *CloningFailedError.
func (s *Service) CloneProfile(ctx context.Context, p model.Profile, dir string) (string, error) {
	if _, err := giturl.ParseHTTP(p.BaseURL); err != nil {
		return "", &provider.URLError{URL: p.BaseURL, Err: err}
	}

	name, ok := giturl.RepoName(p.BaseURL)
	if !ok {
		return "", &provider.URLError{URL: p.BaseURL, Err: errNoRepoName}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	dest := filepath.Join(dir, name)

	res, err := s.runner.Clone(ctx, giturl.WithCredentials(p.BaseURL, p.Username, p.Token), dest)
	if err != nil {
		return "", &CloningFailedError{URL: p.BaseURL, Output: giturl.Redact(res.Output, p.Token), Err: err}
	}

	if !res.Success() {
		return "", &CloningFailedError{
			URL:    p.BaseURL,
			Output: giturl.Redact(res.Output, p.Token),
			Err:    fmt.Errorf("git exited with status %d", res.ExitCode),
		}
	}

	s.logger.Info("profile repository cloned", zap.String("profile", p.Name), zap.String("path", dest))

	return dest, nil
}

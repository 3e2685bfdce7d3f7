// Package mirror reconciles a local mirror tree with a discovered
// repository list.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/inovacc/repomirror/internal/git"
	"github.com/inovacc/repomirror/internal/giturl"
	"github.com/inovacc/repomirror/internal/layout"
	"github.com/inovacc/repomirror/internal/model"
	"github.com/inovacc/repomirror/internal/progress"
)

const lowSignalWarning = "no repository was cloned or updated and none existed locally; check the token and its permissions"

// Engine clones absent repositories and pulls present ones, one at a time
type Engine struct {
	runner  git.Runner
	planner layout.Planner
	markers []string
	logger  *zap.Logger
	observe func(RunSummary)
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithUpToDateMarkers replaces the phrases that mark a pull as a no-op.
func WithUpToDateMarkers(markers ...string) EngineOption {
	return func(e *Engine) {
		if len(markers) > 0 {
			e.markers = markers
		}
	}
}

// WithObserver registers fn to receive the running summary once before the
// first repository and after each one.
func WithObserver(fn func(RunSummary)) EngineOption {
	return func(e *Engine) {
		e.observe = fn
	}
}

// NewEngine creates an engine writing under planner.BaseDir.
func NewEngine(runner git.Runner, planner layout.Planner, opts ...EngineOption) *Engine {
	e := &Engine{
		runner:  runner,
		planner: planner,
		markers: model.DefaultUpToDateMarkers(),
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Action is what a sync would do for a repository
type Action string

const (
	ActionClone  Action = "clone"
	ActionUpdate Action = "update"
)

// PlannedRepo is a repository with its target path and pending action
type PlannedRepo struct {
	Repo   model.RepoInfo `json:"repo" yaml:"repo"`
	Path   string         `json:"path" yaml:"path"`
	Action Action         `json:"action" yaml:"action"`
}

// Plan resolves paths and actions without touching git.
func (e *Engine) Plan(p model.Profile, repos []model.RepoInfo) []PlannedRepo {
	out := make([]PlannedRepo, 0, len(repos))

	for _, repo := range repos {
		path := e.planner.Path(p, repo)

		action := ActionClone
		if exists, _ := pathExists(path); exists {
			action = ActionUpdate
		}

		out = append(out, PlannedRepo{Repo: repo, Path: path, Action: action})
	}

	return out
}

// Run syncs repos in order. A failing repository is recorded and the loop
// continues. Cancellation is checked before each repository; a git process
// already running is allowed to finish. On cancellation the partial summary
// is returned with ctx.Err().
func (e *Engine) Run(ctx context.Context, p model.Profile, repos []model.RepoInfo, sink progress.Sink) (RunSummary, error) {
	sink = progress.OrDiscard(sink)
	summary := NewRunSummary(len(repos))

	e.logger.Info("sync started",
		zap.String("profile", p.Name),
		zap.Int("repositories", len(repos)),
		zap.String("base_dir", e.planner.BaseDir),
	)

	e.notify(summary)

	for i, repo := range repos {
		if err := ctx.Err(); err != nil {
			progress.Warnf(sink, "Sync cancelled after %d of %d repositories", i, len(repos))
			e.logger.Warn("sync cancelled", zap.Int("attempted", i), zap.Int("repositories", len(repos)))

			return summary, err
		}

		result := e.syncOne(ctx, p, repo, sink)
		summary = summary.Add(result)

		e.report(sink, result)
		e.notify(summary)
	}

	if summary.LowSignal() {
		summary.Warning = lowSignalWarning
		progress.Warnf(sink, "Nothing was cloned or updated: %s", lowSignalWarning)
	}

	progress.Successf(sink, "Sync complete: %d cloned, %d updated, %d unchanged, %d failed (of %d)",
		summary.Cloned, summary.Updated, summary.Unchanged, summary.Failed, summary.Total)

	e.logger.Info("sync finished",
		zap.String("profile", p.Name),
		zap.Int("cloned", summary.Cloned),
		zap.Int("updated", summary.Updated),
		zap.Int("unchanged", summary.Unchanged),
		zap.Int("failed", summary.Failed),
	)

	return summary, nil
}

// syncOne never panics and never returns an error; every failure becomes a
// Failed result.
func (e *Engine) syncOne(ctx context.Context, p model.Profile, repo model.RepoInfo, sink progress.Sink) (result RepoResult) {
	start := time.Now()
	result = RepoResult{Repo: repo, Path: e.planner.Path(p, repo)}

	defer func() {
		if r := recover(); r != nil {
			result.Outcome = Failed
			result.Detail = fmt.Sprintf("panic: %v", r)
		}

		result.Duration = time.Since(start)
	}()

	// in-flight git calls outlive cancellation
	gitCtx := context.WithoutCancel(ctx)

	exists, err := pathExists(result.Path)
	if err != nil {
		result.Outcome = Failed
		result.Detail = err.Error()

		return result
	}

	result.Existed = exists

	if !exists {
		progress.Infof(sink, "Cloning %s", repo.FullName())

		if err := os.MkdirAll(filepath.Dir(result.Path), 0o755); err != nil {
			result.Outcome = Failed
			result.Detail = fmt.Sprintf("create parent directory: %v", err)

			return result
		}

		res, err := e.runner.Clone(gitCtx, giturl.WithCredentials(repo.CloneURL, p.Username, p.Token), result.Path)

		result.Outcome, result.Detail = e.classifyClone(res, err, p.Token)

		return result
	}

	progress.Infof(sink, "Updating %s", repo.FullName())

	res, err := e.runner.Pull(gitCtx, result.Path)

	result.Outcome, result.Detail = e.classifyPull(res, err, p.Token)

	return result
}

func (e *Engine) notify(s RunSummary) {
	if e.observe != nil {
		e.observe(s)
	}
}

func (e *Engine) classifyClone(res git.Result, err error, token string) (Outcome, string) {
	if err != nil {
		return Failed, giturl.Redact(err.Error(), token)
	}

	if !res.Success() {
		return Failed, failureDetail(res, token)
	}

	return Cloned, ""
}

func (e *Engine) classifyPull(res git.Result, err error, token string) (Outcome, string) {
	if err != nil {
		return Failed, giturl.Redact(err.Error(), token)
	}

	if !res.Success() {
		return Failed, failureDetail(res, token)
	}

	if e.upToDate(res.Output) {
		return NoChange, ""
	}

	return Updated, ""
}

func (e *Engine) upToDate(output string) bool {
	lower := strings.ToLower(output)

	for _, marker := range e.markers {
		if marker != "" && strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}

	return false
}

func (e *Engine) report(sink progress.Sink, r RepoResult) {
	fields := []zap.Field{
		zap.String("owner", r.Repo.Owner),
		zap.String("repo", r.Repo.Name),
		zap.String("path", r.Path),
		zap.Stringer("outcome", r.Outcome),
		zap.Duration("duration", r.Duration),
	}

	switch r.Outcome {
	case Cloned:
		progress.Successf(sink, "Cloned %s", r.Repo.FullName())
	case Updated:
		progress.Successf(sink, "Updated %s", r.Repo.FullName())
	case NoChange:
		progress.Infof(sink, "%s is up to date", r.Repo.FullName())
	default:
		progress.Errorf(sink, "Failed %s: %s", r.Repo.FullName(), lastLine(r.Detail))
		e.logger.Warn("repository sync failed", append(fields, zap.String("detail", r.Detail))...)

		return
	}

	e.logger.Info("repository synced", fields...)
}

func failureDetail(res git.Result, token string) string {
	output := strings.TrimSpace(giturl.Redact(res.Output, token))
	detail := fmt.Sprintf("git exited with status %d", res.ExitCode)

	if output != "" {
		detail += ": " + output
	}

	if hint := git.Hint(output); hint != "" {
		detail += " (" + hint + ")"
	}

	return detail
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}

	return s
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return false, err
}

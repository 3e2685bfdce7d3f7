package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/inovacc/repomirror/internal/application"
	"github.com/inovacc/repomirror/internal/auth"
	"github.com/inovacc/repomirror/internal/git"
	"github.com/inovacc/repomirror/internal/layout"
	"github.com/inovacc/repomirror/internal/mirror"
	"github.com/inovacc/repomirror/internal/model"
	"github.com/inovacc/repomirror/internal/provider"
	"github.com/inovacc/repomirror/internal/store"
)

// openStore opens the configured store; callers close it.
func openStore() (store.Store, error) {
	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	return st, nil
}

// loadProfile reads a profile and fills an empty token from the fallback
// sources.
func loadProfile(st store.Store, nameOrID string) (model.Profile, error) {
	p, err := st.GetProfile(nameOrID)
	if err != nil {
		return model.Profile{}, err
	}

	resolved, res, err := auth.ResolveProfile(*p)
	if err != nil {
		return model.Profile{}, err
	}

	logger.Debug("token resolved",
		zap.String("profile", p.Name),
		zap.String("source", string(res.Source)),
		zap.String("name", res.Name),
	)

	return resolved, nil
}

// mirrorDir resolves the base directory: flag, then config, then ~/repomirror.
func mirrorDir(flagValue string) (string, error) {
	dir := flagValue
	if dir == "" {
		dir = cfg.Mirror.BaseDir
	}

	if dir == "" {
		return application.DefaultMirrorDirectory()
	}

	return expandPath(dir)
}

func enumeratorFactory(log *zap.Logger) mirror.EnumeratorFactory {
	return func(ctx context.Context, p model.Profile) (provider.Enumerator, error) {
		return provider.New(ctx, p, provider.Settings{
			Options: provider.Options{
				Concurrency: cfg.Discovery.Concurrency,
				Logger:      log.Named("discovery"),
			},
			GitHubAPIURL:   cfg.Providers.GitHub.APIURL,
			GitLabRetryMax: cfg.Providers.GitLab.RetryMax,
			Timeout:        cfg.HTTP.Timeout,
		})
	}
}

// newService wires the git client, layout and engine for baseDir.
func newService(baseDir string, log *zap.Logger, opts ...mirror.EngineOption) *mirror.Service {
	runner := git.NewClient(cfg.Mirror.GitPath)

	opts = append([]mirror.EngineOption{
		mirror.WithLogger(log.Named("mirror")),
		mirror.WithUpToDateMarkers(cfg.Mirror.UpToDateMarkers...),
	}, opts...)

	engine := mirror.NewEngine(runner, layout.Planner{BaseDir: baseDir}, opts...)

	return mirror.NewService(enumeratorFactory(log), engine, runner, log.Named("mirror"))
}

// writeStructured encodes v as json or yaml.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return err
		}

		return enc.Close()
	}

	return fmt.Errorf("unsupported output format: %s", format)
}

// expandPath expands ~ to the user's home directory and returns an absolute path
func expandPath(path string) (string, error) {
	if len(path) == 0 {
		return "", fmt.Errorf("path is empty")
	}

	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}

		path = filepath.Join(home, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	return absPath, nil
}

// printError writes err with a hint for the failures users can act on.
func printError(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	switch {
	case provider.IsAuthError(err):
		_, _ = fmt.Fprintln(os.Stderr, "\nThe provider rejected the token. Check that it is valid and has the")
		_, _ = fmt.Fprintln(os.Stderr, "repository read scopes (GitHub: repo, read:org; GitLab: read_api).")
	case errors.Is(err, provider.ErrInvalidURL):
		_, _ = fmt.Fprintln(os.Stderr, "\nThe profile base URL must be an http(s) URL, e.g. https://github.com/octocat")
	case errors.Is(err, store.ErrProfileNotFound):
		_, _ = fmt.Fprintln(os.Stderr, "\nList profiles with: repomirror profile list")
	}
}

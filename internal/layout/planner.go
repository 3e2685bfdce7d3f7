// Package layout maps discovered repositories to local mirror paths.
package layout

import (
	"path/filepath"
	"strings"

	"github.com/inovacc/repomirror/internal/giturl"
	"github.com/inovacc/repomirror/internal/model"
)

const (
	// ForksDir holds repositories whose owner is a nested namespace
	ForksDir = "FORKS"

	// OrganisationsDir holds repositories owned by other accounts
	OrganisationsDir = "organisations"
)

// AccountRoot returns the folder name for a profile: the last path segment
// of its base URL, or the profile name when the URL has no path.
func AccountRoot(p model.Profile) string {
	if segment, ok := giturl.LastSegment(p.BaseURL); ok && segment != "." && segment != ".." {
		return segment
	}

	return p.Name
}

// Planner resolves target paths under BaseDir
type Planner struct {
	BaseDir string
}

// Path returns the mirror path of repo. The result depends only on its
// inputs.
//
//	owner == account root      -> <base>/<root>/<name>
//	owner contains "/"         -> <base>/<root>/FORKS/<name>
//	anything else              -> <base>/<root>/organisations/<owner>/<name>
func (pl Planner) Path(p model.Profile, repo model.RepoInfo) string {
	root := filepath.Join(pl.BaseDir, AccountRoot(p))

	switch {
	case repo.Owner == AccountRoot(p):
		return filepath.Join(root, repo.Name)
	case strings.Contains(repo.Owner, "/"):
		return filepath.Join(root, ForksDir, repo.Name)
	default:
		return filepath.Join(root, OrganisationsDir, repo.Owner, repo.Name)
	}
}

// Root returns <base>/<root> for p.
func (pl Planner) Root(p model.Profile) string {
	return filepath.Join(pl.BaseDir, AccountRoot(p))
}
